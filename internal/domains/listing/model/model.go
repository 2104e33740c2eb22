package model

import (
	"stayfinder/shared/model"
	"time"

	"github.com/lib/pq"
)

const (
	TableName  = "listings"
	EntityName = "listing"

	FieldID            = "id"
	FieldTitle         = "title"
	FieldPricePerNight = "price_per_night"
	FieldHostID        = "host_id"
	FieldImages        = "images"
	FieldIsArchived    = "is_archived"
	FieldArchivedAt    = "archived_at"
	FieldCreatedAt     = "created_at"
)

const (
	ReviewTableName  = "listing_reviews"
	ReviewEntityName = "listing_review"

	FieldListingID       = "listing_id"
	FieldUserID          = "user_id"
	FieldReviewCreatedAt = "created_at"
)

type Listing struct {
	ID               string         `db:"id"`
	Title            string         `db:"title"`
	Description      string         `db:"description"`
	Location         string         `db:"location"`
	PricePerNight    float64        `db:"price_per_night"`
	Bedrooms         int            `db:"bedrooms"`
	Bathrooms        int            `db:"bathrooms"`
	MaxGuests        int            `db:"max_guests"`
	Amenities        pq.StringArray `db:"amenities"`
	Images           pq.StringArray `db:"images"`
	HostID           string         `db:"host_id"`
	HostName         string         `db:"host_name"`
	HostProfileImage string         `db:"host_profile_image"`
	IsArchived       bool           `db:"is_archived"`
	ArchivedAt       *time.Time     `db:"archived_at"`
	model.Metadata
}

// Review is keyed by (listing, user); a second submission by the same user replaces the first.
type Review struct {
	ListingID     string    `db:"listing_id"`
	UserID        string    `db:"user_id"`
	Rating        int       `db:"rating"`
	Text          string    `db:"review"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
	UserFirstName *string   `column:"first_name" db:"user_first_name" table:"users"`
	UserLastName  *string   `column:"last_name"  db:"user_last_name"  table:"users"`
}

func (Review) GetJoinQuery() string {
	return "LEFT JOIN users ON users.id = listing_reviews.user_id"
}
