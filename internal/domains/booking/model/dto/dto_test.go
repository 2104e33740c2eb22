package dto_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stayfinder/internal/domains/booking/model"
	"stayfinder/internal/domains/booking/model/dto"
	"stayfinder/shared/timezone"
)

func TestNewListingRemoval(t *testing.T) {
	tests := []struct {
		name     string
		reason   string
		fallback string
		want     string
	}{
		{name: "reason kept verbatim", reason: "Renovation", want: "Renovation"},
		{name: "reason trimmed", reason: "  Renovation \n", want: "Renovation"},
		{name: "blank reason uses configured fallback", reason: "   ", fallback: "Closed for the season", want: "Closed for the season"},
		{name: "blank reason without fallback", reason: "", want: model.DefaultCancelReason},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			removal := dto.NewListingRemoval(tt.reason, tt.fallback)

			assert.Equal(t, model.StatusListingDeleted, removal.Status)
			assert.Equal(t, tt.want, removal.CancelReason)
		})
	}
}

func TestCreateBookingRequest_Dates(t *testing.T) {
	req := dto.CreateBookingRequest{CheckInDate: "2026-07-01", CheckOutDate: "2026-07-04"}

	checkIn, checkOut, err := req.Dates()

	require.NoError(t, err)
	assert.Equal(t, 3*24.0, checkOut.Sub(checkIn).Hours())

	req.CheckOutDate = "07/04/2026"

	_, _, err = req.Dates()
	assert.Error(t, err)
}

func TestBookingResponse_FromModel(t *testing.T) {
	title := "Lakeside cabin"
	reason := "Renovation"

	var res dto.BookingResponse

	res.FromModel(model.Booking{
		ID:           "b-1",
		UserID:       "u-1",
		ListingID:    "l-1",
		Status:       model.StatusListingDeleted,
		CancelReason: &reason,
		ListingTitle: &title,
	})

	assert.Equal(t, "Lakeside cabin", res.Listing.Title)
	assert.Equal(t, "", res.Guest.Email)
	assert.Equal(t, "u-1", res.Guest.ID)
	assert.Equal(t, &reason, res.CancelReason)
}

func TestBookingResponse_FromModelKeepsStoredDates(t *testing.T) {
	previous := timezone.GetLocation()
	t.Cleanup(func() { timezone.SetLocation(previous) })

	timezone.SetLocation(time.FixedZone("EDT", -4*60*60))

	var res dto.BookingResponse

	res.FromModel(model.Booking{
		ID:           "b-1",
		CheckInDate:  time.Date(2026, 10, 20, 0, 0, 0, 0, time.FixedZone("", 0)),
		CheckOutDate: time.Date(2026, 10, 22, 0, 0, 0, 0, time.FixedZone("", 0)),
		Status:       model.StatusConfirmed,
	})

	assert.Equal(t, "2026-10-20", res.CheckInDate)
	assert.Equal(t, "2026-10-22", res.CheckOutDate)
}
