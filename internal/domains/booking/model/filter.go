package model

import (
	"stayfinder/shared"
	gDto "stayfinder/shared/dto"
)

func ByID(id string) gDto.FilterGroup {
	return shared.FilterByID(id, FieldID, TableName)
}

func ByUser(userID string) gDto.FilterGroup {
	return shared.FilterByID(userID, FieldUserID, TableName)
}

func ByListing(listingID string) gDto.FilterGroup {
	return shared.FilterByID(listingID, FieldListingID, TableName)
}
