package booking_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"stayfinder/infras/otel/mocks"
	"stayfinder/internal/domains/booking/model"
	"stayfinder/internal/domains/booking/model/dto"
	bookingMocks "stayfinder/internal/domains/booking/mocks"
	"stayfinder/internal/handlers/booking"
	"stayfinder/shared/constant"
	"stayfinder/shared/failure"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newRouter(t *testing.T, actor, role string) (*bookingMocks.MockBookingService, chi.Router) {
	t.Helper()

	svc := bookingMocks.NewMockBookingService(gomock.NewController(t))
	router := chi.NewRouter()

	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), constant.ContextKeyUserID, actor)
			ctx = context.WithValue(ctx, constant.ContextKeyUserRole, role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	})

	h := booking.New(svc, mocks.NewOtel())
	h.Router(router)

	return svc, router
}

func serve(router chi.Router, method, target, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(method, target, strings.NewReader(body)))

	return rec
}

func TestCreateBooking(t *testing.T) {
	checkIn := time.Date(2030, 6, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		body     string
		mock     func(svc *bookingMocks.MockBookingService)
		wantCode int
		wantErr  string
	}{
		{
			name: "confirmed",
			body: `{"listingId":"l-1","checkInDate":"2030-06-01","checkOutDate":"2030-06-04","numberOfGuests":2,"totalPrice":300}`,
			mock: func(svc *bookingMocks.MockBookingService) {
				svc.EXPECT().Create(gomock.Any(), dto.CreateBookingRequest{
					ListingID:      "l-1",
					CheckInDate:    "2030-06-01",
					CheckOutDate:   "2030-06-04",
					NumberOfGuests: 2,
					TotalPrice:     300,
				}).Return(model.Booking{
					ID:           "b-1",
					UserID:       "guest-1",
					ListingID:    "l-1",
					CheckInDate:  checkIn,
					CheckOutDate: checkIn.AddDate(0, 0, 3),
					Status:       model.StatusConfirmed,
				}, nil)
			},
			wantCode: http.StatusCreated,
		},
		{
			name:     "malformed date",
			body:     `{"listingId":"l-1","checkInDate":"06/01/2030","checkOutDate":"2030-06-04","numberOfGuests":2}`,
			mock:     func(*bookingMocks.MockBookingService) {},
			wantCode: http.StatusBadRequest,
		},
		{
			name: "archived listing",
			body: `{"listingId":"l-1","checkInDate":"2030-06-01","checkOutDate":"2030-06-04","numberOfGuests":2}`,
			mock: func(svc *bookingMocks.MockBookingService) {
				svc.EXPECT().Create(gomock.Any(), gomock.Any()).
					Return(model.Booking{}, failure.Conflict("This listing is no longer accepting new bookings."))
			},
			wantCode: http.StatusBadRequest,
			wantErr:  "This listing is no longer accepting new bookings.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, router := newRouter(t, "guest-1", constant.RoleGuest)
			tt.mock(svc)

			rec := serve(router, http.MethodPost, "/bookings", tt.body)

			assert.Equal(t, tt.wantCode, rec.Code)

			var body map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

			if tt.wantErr != "" {
				assert.Equal(t, tt.wantErr, body["error"])
			}

			if tt.wantCode == http.StatusCreated {
				data, _ := body["data"].(map[string]any)
				assert.Equal(t, "confirmed", data["status"])
				assert.Equal(t, "2030-06-01", data["checkInDate"])
			}
		})
	}
}

func TestGetListingBookings(t *testing.T) {
	svc, router := newRouter(t, "host-1", constant.RoleHost)

	svc.EXPECT().FindByListing(gomock.Any(), "l-1").Return([]model.Booking{{ID: "b-1"}, {ID: "b-2"}}, nil)

	rec := serve(router, http.MethodGet, "/bookings/listing/l-1", "")

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data dto.GetBookingsResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.Data.Bookings, 2)
}

func TestGetUserBookings(t *testing.T) {
	tests := []struct {
		name     string
		actor    string
		role     string
		wantCall bool
		wantCode int
	}{
		{name: "own bookings", actor: "guest-1", role: constant.RoleGuest, wantCall: true, wantCode: http.StatusOK},
		{name: "admin reads anyone", actor: "admin-1", role: constant.RoleAdmin, wantCall: true, wantCode: http.StatusOK},
		{name: "someone else's bookings", actor: "guest-2", role: constant.RoleGuest, wantCode: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, router := newRouter(t, tt.actor, tt.role)

			if tt.wantCall {
				svc.EXPECT().FindByUser(gomock.Any(), "guest-1").Return([]model.Booking{}, nil)
			}

			rec := serve(router, http.MethodGet, "/bookings/user/guest-1", "")

			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}
