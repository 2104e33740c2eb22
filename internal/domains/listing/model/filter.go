package model

import (
	"stayfinder/shared"
	gDto "stayfinder/shared/dto"
)

const argCurrentArchived = "current_is_archived"

func ByID(id string) gDto.FilterGroup {
	return shared.FilterByID(id, FieldID, TableName)
}

// Visible matches the listing only when it is active, unless archived listings are requested.
func Visible(id string, includeArchived bool) gDto.FilterGroup {
	if includeArchived {
		return ByID(id)
	}

	return ByIDAndArchived(id, false)
}

// ByIDAndArchived guards a write on the current archive flag. The flag is bound under its own
// argument name so an update setting is_archived does not collide with the guard.
func ByIDAndArchived(id string, archived bool) gDto.FilterGroup {
	return gDto.And(
		gDto.Eq(TableName, FieldID, id),
		gDto.Eq(TableName, FieldIsArchived, archived).As(argCurrentArchived),
	)
}

// ActiveOnly filters the directory to listings that are not archived; an empty group matches all.
func ActiveOnly(includeArchived bool) gDto.FilterGroup {
	if includeArchived {
		return gDto.FilterGroup{}
	}

	return gDto.And(gDto.Eq(TableName, FieldIsArchived, false))
}

func ReviewsOf(listingIDs []string) gDto.FilterGroup {
	return gDto.And(gDto.In(ReviewTableName, FieldListingID, listingIDs))
}
