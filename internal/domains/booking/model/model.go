package model

import (
	"stayfinder/shared/model"
	"stayfinder/shared/timezone"
	"time"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID           = "id"
	FieldUserID       = "user_id"
	FieldListingID    = "listing_id"
	FieldCheckInDate  = "check_in_date"
	FieldStatus       = "status"
	FieldCancelReason = "cancel_reason"
)

// DefaultCancelReason is stored when a listing is archived without a reason.
const DefaultCancelReason = "The host has removed this listing and your stay has been cancelled."

type Status string

const (
	StatusConfirmed      Status = "confirmed"
	StatusListingDeleted Status = "listing_deleted"
	StatusCancelled      Status = "cancelled"
)

func (s Status) IsTerminal() bool {
	return s == StatusListingDeleted || s == StatusCancelled
}

type Booking struct {
	ID              string    `db:"id"`
	UserID          string    `db:"user_id"`
	ListingID       string    `db:"listing_id"`
	CheckInDate     time.Time `db:"check_in_date"`
	CheckOutDate    time.Time `db:"check_out_date"`
	NumberOfGuests  int       `db:"number_of_guests"`
	TotalPrice      float64   `db:"total_price"`
	Status          Status    `db:"status"`
	CancelReason    *string   `db:"cancel_reason"`
	ListingTitle    *string   `column:"title"      db:"listing_title"    table:"listings"`
	ListingLocation *string   `column:"location"   db:"listing_location" table:"listings"`
	GuestFirstName  *string   `column:"first_name" db:"guest_first_name" table:"users"`
	GuestLastName   *string   `column:"last_name"  db:"guest_last_name"  table:"users"`
	GuestEmail      *string   `column:"email"      db:"guest_email"      table:"users"`
	model.Metadata
}

func (Booking) GetJoinQuery() string {
	return "LEFT JOIN listings ON listings.id = bookings.listing_id LEFT JOIN users ON users.id = bookings.user_id"
}

// AsCalendar re-anchors the stay dates at midnight in the application timezone.
func (b Booking) AsCalendar() Booking {
	b.CheckInDate = timezone.Calendar(b.CheckInDate)
	b.CheckOutDate = timezone.Calendar(b.CheckOutDate)

	return b
}

// IsFuture reports whether the stay has not started yet: check-in is midnight of the
// check-in day in the application timezone.
func (b Booking) IsFuture(now time.Time) bool {
	return timezone.Calendar(b.CheckInDate).After(now)
}

// Cancellable reports whether archiving the listing may cancel this booking.
func (b Booking) Cancellable(now time.Time) bool {
	return b.IsFuture(now) && b.Status == StatusConfirmed
}
