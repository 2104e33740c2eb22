package model

import "time"

const (
	EventListingArchived   = "listing.archived"
	EventListingUnarchived = "listing.unarchived"
	EventBookingCancelled  = "booking.cancelled"
)

// ListingEvent is published on every archive state transition of a listing.
type ListingEvent struct {
	ListingID         string    `json:"listingId"`
	HostID            string    `json:"hostId"`
	AllowStays        bool      `json:"allowStays"`
	Reason            string    `json:"reason,omitempty"`
	AffectedBookings  []string  `json:"affectedBookings"`
	PreservedBookings int       `json:"preservedBookings"`
	OccurredAt        time.Time `json:"occurredAt"`
}

type BookingCancelledEvent struct {
	BookingID  string    `json:"bookingId"`
	ListingID  string    `json:"listingId"`
	UserID     string    `json:"userId"`
	Reason     string    `json:"reason"`
	OccurredAt time.Time `json:"occurredAt"`
}
