package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"stayfinder/config"
	"stayfinder/infras/otel/mocks"
	bookingMocks "stayfinder/internal/domains/booking/mocks"
	"stayfinder/internal/domains/booking/model"
	"stayfinder/internal/domains/booking/model/dto"
	"stayfinder/internal/domains/booking/service"
	listingMocks "stayfinder/internal/domains/listing/mocks"
	listingModel "stayfinder/internal/domains/listing/model"
	notificationMocks "stayfinder/internal/domains/notification/mocks"
	notificationModel "stayfinder/internal/domains/notification/model"
	"stayfinder/shared/constant"
	gDto "stayfinder/shared/dto"
	"stayfinder/shared/failure"
	"stayfinder/shared/timezone"
)

type fixture struct {
	repo     *bookingMocks.MockBooking
	listings *listingMocks.MockListing
	notifier *notificationMocks.MockNotificationService
	cfg      *config.Config
	svc      service.Booking
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	f := &fixture{
		repo:     bookingMocks.NewMockBooking(ctrl),
		listings: listingMocks.NewMockListing(ctrl),
		notifier: notificationMocks.NewMockNotificationService(ctrl),
		cfg:      &config.Config{},
	}
	f.svc = service.New(f.repo, f.listings, f.notifier, f.cfg, mocks.NewOtel())

	return f
}

func guestCtx() context.Context {
	return context.WithValue(context.Background(), constant.ContextKeyUserID, "guest-1")
}

func day(offset int) string {
	return timezone.Format(timezone.Now().AddDate(0, 0, offset), constant.CalendarFormat)
}

func listing(archived bool) listingModel.Listing {
	return listingModel.Listing{
		ID:         "l-1",
		Title:      "Lakeside cabin",
		Location:   "Hallstatt",
		MaxGuests:  4,
		IsArchived: archived,
	}
}

func TestBookingService_Create(t *testing.T) {
	validRequest := func() dto.CreateBookingRequest {
		return dto.CreateBookingRequest{
			ListingID:      "l-1",
			CheckInDate:    day(5),
			CheckOutDate:   day(8),
			NumberOfGuests: 2,
			TotalPrice:     360,
		}
	}

	tests := []struct {
		name      string
		ctx       context.Context
		req       func() dto.CreateBookingRequest
		setupMock func(f *fixture)
		wantKind  failure.Kind
		wantMsg   string
		wantErr   bool
	}{
		{
			name: "confirmed booking with confirmation notification",
			ctx:  guestCtx(),
			req:  validRequest,
			setupMock: func(f *fixture) {
				f.listings.EXPECT().Get(gomock.Any(), listingModel.ByID("l-1")).Return(listing(false), nil)
				f.repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, booking model.Booking) error {
						assert.Equal(t, model.StatusConfirmed, booking.Status)
						assert.Equal(t, "guest-1", booking.UserID)
						assert.Nil(t, booking.CancelReason)

						return nil
					})
				f.notifier.EXPECT().
					Emit(gomock.Any(), "guest-1", notificationModel.TypeBookingConfirmed, gomock.Any(), gomock.Any()).
					Return(notificationModel.Notification{}, nil)
			},
		},
		{
			name: "notification failure does not fail the booking",
			ctx:  guestCtx(),
			req:  validRequest,
			setupMock: func(f *fixture) {
				f.listings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(listing(false), nil)
				f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)
				f.notifier.EXPECT().
					Emit(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(notificationModel.Notification{}, errors.New("database error"))
			},
		},
		{
			name: "user id taken from the body without a signed in actor",
			ctx:  context.Background(),
			req: func() dto.CreateBookingRequest {
				req := validRequest()
				req.UserID = "guest-2"

				return req
			},
			setupMock: func(f *fixture) {
				f.listings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(listing(false), nil)
				f.repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, booking model.Booking) error {
						assert.Equal(t, "guest-2", booking.UserID)

						return nil
					})
				f.notifier.EXPECT().Emit(gomock.Any(), "guest-2", gomock.Any(), gomock.Any(), gomock.Any()).Return(notificationModel.Notification{}, nil)
			},
		},
		{
			name:      "no user at all",
			ctx:       context.Background(),
			req:       validRequest,
			setupMock: func(*fixture) {},
			wantErr:   true,
			wantKind:  failure.KindValidation,
		},
		{
			name: "missing listing",
			ctx:  guestCtx(),
			req:  validRequest,
			setupMock: func(f *fixture) {
				f.listings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(listingModel.Listing{}, nil)
			},
			wantErr:  true,
			wantKind: failure.KindNotFound,
		},
		{
			name: "archived listing stops accepting bookings",
			ctx:  guestCtx(),
			req:  validRequest,
			setupMock: func(f *fixture) {
				f.listings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(listing(true), nil)
			},
			wantErr:  true,
			wantKind: failure.KindConflict,
			wantMsg:  "This listing is no longer accepting new bookings.",
		},
		{
			name: "check-in in the past",
			ctx:  guestCtx(),
			req: func() dto.CreateBookingRequest {
				req := validRequest()
				req.CheckInDate = day(-1)

				return req
			},
			setupMock: func(f *fixture) {
				f.listings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(listing(false), nil)
			},
			wantErr:  true,
			wantKind: failure.KindValidation,
			wantMsg:  "Check-in date cannot be in the past",
		},
		{
			name: "check-out not after check-in",
			ctx:  guestCtx(),
			req: func() dto.CreateBookingRequest {
				req := validRequest()
				req.CheckOutDate = req.CheckInDate

				return req
			},
			setupMock: func(f *fixture) {
				f.listings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(listing(false), nil)
			},
			wantErr:  true,
			wantKind: failure.KindValidation,
			wantMsg:  "Check-out date must be after check-in date",
		},
		{
			name: "more guests than the listing allows",
			ctx:  guestCtx(),
			req: func() dto.CreateBookingRequest {
				req := validRequest()
				req.NumberOfGuests = 5

				return req
			},
			setupMock: func(f *fixture) {
				f.listings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(listing(false), nil)
			},
			wantErr:  true,
			wantKind: failure.KindValidation,
		},
		{
			name: "insert error",
			ctx:  guestCtx(),
			req:  validRequest,
			setupMock: func(f *fixture) {
				f.listings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(listing(false), nil)
				f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(errors.New("database error"))
			},
			wantErr:  true,
			wantKind: failure.KindUnexpected,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			res, err := f.svc.Create(tt.ctx, tt.req())

			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, tt.wantKind, failure.GetKind(err))

				if tt.wantMsg != "" {
					assert.Equal(t, tt.wantMsg, err.Error())
				}

				return
			}

			require.NoError(t, err)
			assert.NotEmpty(t, res.ID)
			assert.Equal(t, model.StatusConfirmed, res.Status)
			require.NotNil(t, res.ListingTitle)
			assert.Equal(t, "Lakeside cabin", *res.ListingTitle)
		})
	}
}

func TestBookingService_Find(t *testing.T) {
	t.Run("by user", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().ListByCheckIn(gomock.Any(), model.ByUser("u-1")).Return([]model.Booking{{ID: "b-1"}}, nil)

		res, err := f.svc.FindByUser(context.Background(), "u-1")

		require.NoError(t, err)
		assert.Len(t, res, 1)
	})

	t.Run("by listing", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().ListByCheckIn(gomock.Any(), model.ByListing("l-1")).Return(nil, errors.New("database error"))

		_, err := f.svc.FindByListing(context.Background(), "l-1")

		assert.Error(t, err)
	})
}

func TestBookingService_CancelForListingRemoval(t *testing.T) {
	tests := []struct {
		name           string
		reason         string
		configured     string
		wantReason     string
		bookingMissing bool
	}{
		{name: "reason stored verbatim", reason: "Renovation", wantReason: "Renovation"},
		{name: "blank reason uses the default message", reason: "  ", wantReason: model.DefaultCancelReason},
		{name: "blank reason uses the configured message", reason: "", configured: "Closed for the season", wantReason: "Closed for the season"},
		{name: "missing booking", reason: "Renovation", bookingMissing: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.cfg.App.Archival.DefaultReason = tt.configured

			updated := 1
			if tt.bookingMissing {
				updated = 0
			}

			f.repo.EXPECT().
				SetStatus(gomock.Any(), gomock.Any(), model.ByID("b-1")).
				DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) (int, error) {
					assert.Equal(t, model.StatusListingDeleted, fields[model.FieldStatus])
					assert.Equal(t, "host-1", fields[constant.FieldModifiedBy])

					if !tt.bookingMissing {
						assert.Equal(t, tt.wantReason, fields[model.FieldCancelReason])
					}

					return updated, nil
				})

			if !tt.bookingMissing {
				reason := tt.wantReason
				f.repo.EXPECT().
					Get(gomock.Any(), model.ByID("b-1")).
					Return(model.Booking{ID: "b-1", Status: model.StatusListingDeleted, CancelReason: &reason}, nil)
			}

			ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "host-1")

			res, err := f.svc.CancelForListingRemoval(ctx, "b-1", tt.reason)

			if tt.bookingMissing {
				assert.True(t, failure.IsNotFound(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, model.StatusListingDeleted, res.Status)
			assert.Equal(t, tt.wantReason, *res.CancelReason)
		})
	}
}
