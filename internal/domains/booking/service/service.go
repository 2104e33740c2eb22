package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Booking=MockBookingService

import (
	"context"
	"fmt"
	"stayfinder/config"
	"stayfinder/infras/otel"
	"stayfinder/internal/domains/booking/model"
	"stayfinder/internal/domains/booking/model/dto"
	"stayfinder/internal/domains/booking/repository"
	listingModel "stayfinder/internal/domains/listing/model"
	listingRepo "stayfinder/internal/domains/listing/repository"
	notificationModel "stayfinder/internal/domains/notification/model"
	notificationService "stayfinder/internal/domains/notification/service"
	"stayfinder/shared"
	"stayfinder/shared/constant"
	"stayfinder/shared/failure"
	"stayfinder/shared/timezone"

	"github.com/rs/zerolog/log"
)

const (
	msgBookingNotFound  = "booking not found"
	msgListingNotFound  = "listing not found"
	msgListingArchived  = "This listing is no longer accepting new bookings."
	msgCheckInPast      = "Check-in date cannot be in the past"
	msgCheckOutOrder    = "Check-out date must be after check-in date"
	msgGuestsOverLimit  = "Number of guests exceeds the listing capacity"
	msgUserRequired     = "userId is required"
	msgInvalidStayDates = "Invalid check-in or check-out date"
)

type Booking interface {
	Create(ctx context.Context, req dto.CreateBookingRequest) (model.Booking, error)
	FindByUser(ctx context.Context, userID string) ([]model.Booking, error)
	FindByListing(ctx context.Context, listingID string) ([]model.Booking, error)
	CancelForListingRemoval(ctx context.Context, id, reason string) (model.Booking, error)
}

type serviceImpl struct {
	repo        repository.Booking
	listingRepo listingRepo.Listing
	notifier    notificationService.Notification
	cfg         *config.Config
	otel        otel.Otel
}

func New(repo repository.Booking, listingRepo listingRepo.Listing, notifier notificationService.Notification, cfg *config.Config, otel otel.Otel) Booking {
	return &serviceImpl{
		repo:        repo,
		listingRepo: listingRepo,
		notifier:    notifier,
		cfg:         cfg,
		otel:        otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateBookingRequest) (res model.Booking, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	if user == constant.Empty {
		user = req.UserID
	}

	if user == constant.Empty {
		return res, failure.BadRequestFromString(msgUserRequired) // nolint:wrapcheck
	}

	listing, err := s.listingRepo.Get(ctx, listingModel.ByID(req.ListingID))
	if err != nil {
		log.Error().Err(err).Str("listingId", req.ListingID).Msg("failed to get listing")

		return res, fmt.Errorf("failed to get listing: %w", err)
	}

	if listing.ID == constant.Empty {
		return res, failure.NotFound(msgListingNotFound) // nolint:wrapcheck
	}

	if listing.IsArchived {
		return res, failure.Conflict(msgListingArchived) // nolint:wrapcheck
	}

	checkIn, checkOut, err := req.Dates()
	if err != nil {
		return res, failure.BadRequestFromString(msgInvalidStayDates) // nolint:wrapcheck
	}

	if checkIn.Before(timezone.StartOfDay(timezone.Now())) {
		return res, failure.BadRequestFromString(msgCheckInPast) // nolint:wrapcheck
	}

	if !checkOut.After(checkIn) {
		return res, failure.BadRequestFromString(msgCheckOutOrder) // nolint:wrapcheck
	}

	if listing.MaxGuests > 0 && req.NumberOfGuests > listing.MaxGuests {
		return res, failure.BadRequestFromString(msgGuestsOverLimit) // nolint:wrapcheck
	}

	booking := req.ToModel(user, checkIn, checkOut)

	if err = s.repo.Insert(ctx, booking); err != nil {
		log.Error().Err(err).Msg("failed to create booking")

		return res, fmt.Errorf("failed to create booking: %w", err)
	}

	booking.ListingTitle = &listing.Title
	booking.ListingLocation = &listing.Location

	s.notifyConfirmed(ctx, booking, listing.Title)

	return booking, nil
}

func (s *serviceImpl) FindByUser(ctx context.Context, userID string) (res []model.Booking, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.FindByUser")
	defer scope.End()
	defer scope.TraceIfError(err)

	res, err = s.repo.ListByCheckIn(ctx, model.ByUser(userID))
	if err != nil {
		log.Error().Err(err).Str("userId", userID).Msg("failed to get user bookings")

		return res, fmt.Errorf("failed to get user bookings: %w", err)
	}

	return res, nil
}

func (s *serviceImpl) FindByListing(ctx context.Context, listingID string) (res []model.Booking, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.FindByListing")
	defer scope.End()
	defer scope.TraceIfError(err)

	res, err = s.repo.ListByCheckIn(ctx, model.ByListing(listingID))
	if err != nil {
		log.Error().Err(err).Str("listingId", listingID).Msg("failed to get listing bookings")

		return res, fmt.Errorf("failed to get listing bookings: %w", err)
	}

	return res, nil
}

// CancelForListingRemoval moves a booking to listing_deleted. Calling it again only rewrites the reason.
func (s *serviceImpl) CancelForListingRemoval(ctx context.Context, id, reason string) (res model.Booking, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.CancelForListingRemoval")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := model.ByID(id)

	removal := dto.NewListingRemoval(reason, s.cfg.App.Archival.DefaultReason)

	updated, err := s.repo.SetStatus(ctx, shared.TransformFields(removal, user), filter)
	if err != nil {
		log.Error().Err(err).Str("bookingId", id).Msg("failed to cancel booking")

		return res, fmt.Errorf("failed to cancel booking: %w", err)
	}

	if updated == 0 {
		return res, failure.NotFound(msgBookingNotFound) // nolint:wrapcheck
	}

	res, err = s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Str("bookingId", id).Msg("failed to get booking")

		return res, fmt.Errorf("failed to get booking: %w", err)
	}

	return res, nil
}

func (s *serviceImpl) notifyConfirmed(ctx context.Context, booking model.Booking, title string) {
	message := fmt.Sprintf("Your booking at %s from %s to %s is confirmed.",
		title,
		timezone.FormatDate(booking.CheckInDate),
		timezone.FormatDate(booking.CheckOutDate),
	)

	data := map[string]any{
		"bookingId": booking.ID,
		"listingId": booking.ListingID,
	}

	if _, err := s.notifier.Emit(ctx, booking.UserID, notificationModel.TypeBookingConfirmed, message, data); err != nil {
		log.Error().Err(err).Str("bookingId", booking.ID).Msg("failed to notify booking confirmation")
	}
}
