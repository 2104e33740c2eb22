package model

import (
	"stayfinder/shared"
	gDto "stayfinder/shared/dto"
)

const argCurrentSeen = "current_seen"

func ByID(id string) gDto.FilterGroup {
	return shared.FilterByID(id, FieldID, TableName)
}

// ForUser selects a user's feed, narrowed to one seen state when seen is not nil.
func ForUser(userID string, seen *bool) gDto.FilterGroup {
	filter := shared.FilterByID(userID, FieldUserID, TableName)
	if seen == nil {
		return filter
	}

	filter.Filters = append(filter.Filters, gDto.Eq(TableName, FieldSeen, *seen).As(argCurrentSeen))

	return filter
}
