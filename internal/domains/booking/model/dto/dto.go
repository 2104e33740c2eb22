package dto

import (
	"stayfinder/internal/domains/booking/model"
	gDto "stayfinder/shared/dto"
	gModel "stayfinder/shared/model"
	"stayfinder/shared/timezone"
	"strings"
	"time"

	"github.com/google/uuid"
)

type CreateBookingRequest struct {
	UserID         string  `json:"userId"         validate:"omitempty,max=64"`
	ListingID      string  `json:"listingId"      validate:"required,max=64"`
	CheckInDate    string  `json:"checkInDate"    validate:"required,datetime=2006-01-02"`
	CheckOutDate   string  `json:"checkOutDate"   validate:"required,datetime=2006-01-02"`
	NumberOfGuests int     `json:"numberOfGuests" validate:"gte=1"`
	TotalPrice     float64 `json:"totalPrice"     validate:"gte=0"`
}

// Dates parses the stay range as calendar dates in the application timezone.
func (c *CreateBookingRequest) Dates() (checkIn, checkOut time.Time, err error) {
	checkIn, err = timezone.ParseDate(c.CheckInDate)
	if err != nil {
		return checkIn, checkOut, err
	}

	checkOut, err = timezone.ParseDate(c.CheckOutDate)

	return checkIn, checkOut, err
}

func (c *CreateBookingRequest) ToModel(userID string, checkIn, checkOut time.Time) model.Booking {
	return model.Booking{
		ID:             uuid.NewString(),
		UserID:         userID,
		ListingID:      c.ListingID,
		CheckInDate:    checkIn,
		CheckOutDate:   checkOut,
		NumberOfGuests: c.NumberOfGuests,
		TotalPrice:     c.TotalPrice,
		Status:         model.StatusConfirmed,
		Metadata:       gModel.NewMetadata(userID, timezone.Now()),
	}
}

type ListingSummary struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Location string `json:"location"`
}

type GuestSummary struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

type BookingResponse struct {
	ID             string         `json:"id"`
	UserID         string         `json:"userId"`
	ListingID      string         `json:"listingId"`
	Listing        ListingSummary `json:"listing"`
	Guest          GuestSummary   `json:"guest"`
	CheckInDate    string         `json:"checkInDate"`
	CheckOutDate   string         `json:"checkOutDate"`
	NumberOfGuests int            `json:"numberOfGuests"`
	TotalPrice     float64        `json:"totalPrice"`
	Status         model.Status   `json:"status"`
	CancelReason   *string        `json:"cancelReason"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(booking model.Booking) {
	r.ID = booking.ID
	r.UserID = booking.UserID
	r.ListingID = booking.ListingID
	r.Listing = ListingSummary{
		ID:       booking.ListingID,
		Title:    deref(booking.ListingTitle),
		Location: deref(booking.ListingLocation),
	}
	r.Guest = GuestSummary{
		ID:        booking.UserID,
		FirstName: deref(booking.GuestFirstName),
		LastName:  deref(booking.GuestLastName),
		Email:     deref(booking.GuestEmail),
	}
	r.CheckInDate = timezone.FormatDate(booking.CheckInDate)
	r.CheckOutDate = timezone.FormatDate(booking.CheckOutDate)
	r.NumberOfGuests = booking.NumberOfGuests
	r.TotalPrice = booking.TotalPrice
	r.Status = booking.Status
	r.CancelReason = booking.CancelReason
	r.Metadata.FromModel(booking.Metadata)
}

type GetBookingsResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

func (r *GetBookingsResponse) FromModels(bookings []model.Booking) {
	r.Bookings = FromModels(bookings)
}

func FromModels(bookings []model.Booking) []BookingResponse {
	res := make([]BookingResponse, len(bookings))
	for i, booking := range bookings {
		res[i].FromModel(booking)
	}

	return res
}

// ListingRemoval is the column set written when archival cancels a booking.
type ListingRemoval struct {
	Status       model.Status `db:"status"`
	CancelReason string       `db:"cancel_reason"`
}

// NewListingRemoval trims the reason and falls back to the default message when it is blank.
func NewListingRemoval(reason, fallback string) ListingRemoval {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = strings.TrimSpace(fallback)
	}

	if reason == "" {
		reason = model.DefaultCancelReason
	}

	return ListingRemoval{
		Status:       model.StatusListingDeleted,
		CancelReason: reason,
	}
}

func deref(value *string) string {
	if value == nil {
		return ""
	}

	return *value
}
