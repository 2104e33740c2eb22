package dto

import (
	bookingDto "stayfinder/internal/domains/booking/model/dto"
	listingDto "stayfinder/internal/domains/listing/model/dto"
)

// ArchiveRequest carries the host's policy: allowStays keeps future bookings, otherwise they are cancelled.
type ArchiveRequest struct {
	AllowStays *bool  `json:"allowStays" validate:"required"`
	Reason     string `json:"reason"     validate:"omitempty,max=500"`
}

func (r *ArchiveRequest) CancelsStays() bool {
	return r.AllowStays != nil && !*r.AllowStays
}

type ResumeRequest struct {
	Reason string `json:"reason" validate:"omitempty,max=500"`
}

type ArchiveResponse struct {
	Listing          listingDto.ListingResponse   `json:"listing"`
	AffectedBookings []bookingDto.BookingResponse `json:"affectedBookings"`
}

type UnarchiveResponse struct {
	Listing listingDto.ListingResponse `json:"listing"`
}
