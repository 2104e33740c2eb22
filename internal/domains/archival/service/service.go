package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Archival=MockArchivalService

import (
	"context"
	"fmt"
	"stayfinder/config"
	"stayfinder/infras/kafka"
	"stayfinder/infras/otel"
	"stayfinder/internal/domains/archival/model"
	"stayfinder/internal/domains/archival/model/dto"
	bookingModel "stayfinder/internal/domains/booking/model"
	bookingDto "stayfinder/internal/domains/booking/model/dto"
	bookingService "stayfinder/internal/domains/booking/service"
	listingModel "stayfinder/internal/domains/listing/model"
	listingRepo "stayfinder/internal/domains/listing/repository"
	listingService "stayfinder/internal/domains/listing/service"
	notificationModel "stayfinder/internal/domains/notification/model"
	notificationService "stayfinder/internal/domains/notification/service"
	"stayfinder/shared/constant"
	"stayfinder/shared/failure"
	"stayfinder/shared/timezone"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	msgListingNotFound = "listing not found"
	msgAlreadyArchived = "listing is already archived"
	msgNotArchived     = "listing is not archived"
)

// Archival drives a listing between the active and archived states and reconciles its bookings.
type Archival interface {
	Archive(ctx context.Context, listingID string, req dto.ArchiveRequest) (dto.ArchiveResponse, error)
	Unarchive(ctx context.Context, listingID string) (dto.UnarchiveResponse, error)
	ResumeCancellation(ctx context.Context, listingID string, req dto.ResumeRequest) (dto.ArchiveResponse, error)
}

type serviceImpl struct {
	listingRepo listingRepo.Listing
	listings    listingService.Listing
	bookings    bookingService.Booking
	notifier    notificationService.Notification
	events      kafka.Client
	cfg         *config.Config
	otel        otel.Otel
}

func New(
	listingRepo listingRepo.Listing,
	listings listingService.Listing,
	bookings bookingService.Booking,
	notifier notificationService.Notification,
	events kafka.Client,
	cfg *config.Config,
	otel otel.Otel,
) Archival {
	return &serviceImpl{
		listingRepo: listingRepo,
		listings:    listings,
		bookings:    bookings,
		notifier:    notifier,
		events:      events,
		cfg:         cfg,
		otel:        otel,
	}
}

func (s *serviceImpl) Archive(ctx context.Context, listingID string, req dto.ArchiveRequest) (res dto.ArchiveResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".archival.Archive")
	defer scope.End()
	defer scope.TraceIfError(err)

	listing, err := s.load(ctx, listingID)
	if err != nil {
		return res, err
	}

	if listing.IsArchived {
		return res, failure.Conflict(msgAlreadyArchived) // nolint:wrapcheck
	}

	now := timezone.Now()

	if err = s.setArchived(ctx, listing.ID, true, &now); err != nil {
		return res, err
	}

	bookings, err := s.bookings.FindByListing(ctx, listing.ID)
	if err != nil {
		log.Error().Err(err).Str("listingId", listing.ID).Msg("failed to get bookings of archived listing")

		return res, fmt.Errorf("failed to get bookings of archived listing: %w", err)
	}

	reason := s.effectiveReason(req.Reason)
	candidates := cancellable(bookings, now)
	affected := []bookingModel.Booking{}

	if req.CancelsStays() {
		affected = s.cancelAll(ctx, listing, candidates, reason)
	}

	event := model.ListingEvent{
		ListingID:         listing.ID,
		HostID:            listing.HostID,
		AllowStays:        !req.CancelsStays(),
		AffectedBookings:  bookingIDs(affected),
		PreservedBookings: len(candidates) - len(affected),
		OccurredAt:        now,
	}

	if req.CancelsStays() {
		event.Reason = reason
	}

	s.publish(ctx, s.cfg.Kafka.Topics.Listing, kafka.Message{Key: listing.ID, Type: model.EventListingArchived, Value: event})
	s.publishCancellations(ctx, affected, reason, now)

	log.Info().
		Str("listingId", listing.ID).
		Bool("allowStays", event.AllowStays).
		Int("affected", len(affected)).
		Int("preserved", event.PreservedBookings).
		Msg("listing archived")

	return s.archiveResponse(ctx, listing.ID, affected)
}

func (s *serviceImpl) Unarchive(ctx context.Context, listingID string) (res dto.UnarchiveResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".archival.Unarchive")
	defer scope.End()
	defer scope.TraceIfError(err)

	listing, err := s.load(ctx, listingID)
	if err != nil {
		return res, err
	}

	if !listing.IsArchived {
		return res, failure.Conflict(msgNotArchived) // nolint:wrapcheck
	}

	if err = s.setArchived(ctx, listing.ID, false, nil); err != nil {
		return res, err
	}

	s.publish(ctx, s.cfg.Kafka.Topics.Listing, kafka.Message{
		Key:  listing.ID,
		Type: model.EventListingUnarchived,
		Value: model.ListingEvent{
			ListingID:        listing.ID,
			HostID:           listing.HostID,
			AffectedBookings: []string{},
			OccurredAt:       timezone.Now(),
		},
	})

	log.Info().Str("listingId", listing.ID).Msg("listing unarchived")

	res.Listing, err = s.listings.Get(ctx, listing.ID, true)
	if err != nil {
		return res, fmt.Errorf("failed to read unarchived listing: %w", err)
	}

	return res, nil
}

// ResumeCancellation re-runs the cancellation sweep of an archived listing. Bookings already moved
// to listing_deleted no longer qualify, so repeating it never notifies a guest twice.
func (s *serviceImpl) ResumeCancellation(ctx context.Context, listingID string, req dto.ResumeRequest) (res dto.ArchiveResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".archival.ResumeCancellation")
	defer scope.End()
	defer scope.TraceIfError(err)

	listing, err := s.load(ctx, listingID)
	if err != nil {
		return res, err
	}

	if !listing.IsArchived {
		return res, failure.Conflict(msgNotArchived) // nolint:wrapcheck
	}

	bookings, err := s.bookings.FindByListing(ctx, listing.ID)
	if err != nil {
		log.Error().Err(err).Str("listingId", listing.ID).Msg("failed to get bookings of archived listing")

		return res, fmt.Errorf("failed to get bookings of archived listing: %w", err)
	}

	now := timezone.Now()
	reason := s.effectiveReason(req.Reason)

	affected := s.cancelAll(ctx, listing, cancellable(bookings, now), reason)
	s.publishCancellations(ctx, affected, reason, now)

	return s.archiveResponse(ctx, listing.ID, affected)
}

func (s *serviceImpl) load(ctx context.Context, listingID string) (listingModel.Listing, error) {
	listing, err := s.listingRepo.Get(ctx, listingModel.ByID(listingID))
	if err != nil {
		log.Error().Err(err).Str("listingId", listingID).Msg("failed to get listing")

		return listing, fmt.Errorf("failed to get listing: %w", err)
	}

	if listing.ID == constant.Empty {
		return listing, failure.NotFound(msgListingNotFound) // nolint:wrapcheck
	}

	return listing, nil
}

// setArchived flips the archive flag only if it still holds the opposite value, so of two
// concurrent transitions exactly one wins and the other sees a Conflict.
func (s *serviceImpl) setArchived(ctx context.Context, listingID string, archived bool, archivedAt *time.Time) error {
	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	fields := map[string]any{
		listingModel.FieldIsArchived: archived,
		listingModel.FieldArchivedAt: archivedAt,
		constant.FieldModifiedAt:     timezone.Now(),
		constant.FieldModifiedBy:     user,
	}

	updated, err := s.listingRepo.UpdateCount(ctx, fields, listingModel.ByIDAndArchived(listingID, !archived))
	if err != nil {
		log.Error().Err(err).Str("listingId", listingID).Bool("archived", archived).Msg("failed to update listing archive state")

		return fmt.Errorf("failed to update listing archive state: %w", err)
	}

	if updated == 0 {
		if archived {
			return failure.Conflict(msgAlreadyArchived) // nolint:wrapcheck
		}

		return failure.Conflict(msgNotArchived) // nolint:wrapcheck
	}

	return nil
}

// cancelAll cancels each booking and notifies its guest. A failure on one booking is logged and
// skipped; a booking whose cancellation failed is not reported as affected.
func (s *serviceImpl) cancelAll(ctx context.Context, listing listingModel.Listing, bookings []bookingModel.Booking, reason string) []bookingModel.Booking {
	affected := make([]bookingModel.Booking, 0, len(bookings))

	for _, booking := range bookings {
		cancelled, err := s.bookings.CancelForListingRemoval(ctx, booking.ID, reason)
		if err != nil {
			log.Error().Err(err).Str("bookingId", booking.ID).Str("listingId", listing.ID).Msg("failed to cancel booking of archived listing")

			continue
		}

		if cancelled.ID == constant.Empty {
			cancelled = booking
			cancelled.Status = bookingModel.StatusListingDeleted
			cancelled.CancelReason = &reason
		}

		affected = append(affected, cancelled)

		if _, err = s.notifier.Emit(ctx, booking.UserID, notificationModel.TypeBookingCancelled, cancellationMessage(listing.Title, booking, reason), notificationModel.Payload{
			"bookingId":    booking.ID,
			"listingId":    listing.ID,
			"listingTitle": listing.Title,
			"reason":       reason,
			"checkInDate":  timezone.FormatDate(booking.CheckInDate),
			"checkOutDate": timezone.FormatDate(booking.CheckOutDate),
		}); err != nil {
			log.Error().Err(err).Str("bookingId", booking.ID).Str("userId", booking.UserID).Msg("failed to notify guest of cancelled booking")
		}
	}

	return affected
}

func (s *serviceImpl) publishCancellations(ctx context.Context, bookings []bookingModel.Booking, reason string, now time.Time) {
	if len(bookings) == 0 {
		return
	}

	messages := make([]kafka.Message, len(bookings))
	for i, booking := range bookings {
		messages[i] = kafka.Message{
			Key:  booking.ID,
			Type: model.EventBookingCancelled,
			Value: model.BookingCancelledEvent{
				BookingID:  booking.ID,
				ListingID:  booking.ListingID,
				UserID:     booking.UserID,
				Reason:     reason,
				OccurredAt: now,
			},
		}
	}

	s.publish(ctx, s.cfg.Kafka.Topics.Booking, messages...)
}

// publish is best-effort: the database already holds the transition.
func (s *serviceImpl) publish(ctx context.Context, topic string, messages ...kafka.Message) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelEventScopeName, constant.OtelEventScopeName+".archival.publish")
	defer scope.End()

	if err := s.events.SendMessages(ctx, topic, messages...); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("topic", topic).Int("count", len(messages)).Msg("failed to publish archival events")
	}
}

func (s *serviceImpl) archiveResponse(ctx context.Context, listingID string, affected []bookingModel.Booking) (res dto.ArchiveResponse, err error) {
	res.Listing, err = s.listings.Get(ctx, listingID, true)
	if err != nil {
		return res, fmt.Errorf("failed to read archived listing: %w", err)
	}

	res.AffectedBookings = bookingDto.FromModels(affected)

	return res, nil
}

func (s *serviceImpl) effectiveReason(reason string) string {
	return bookingDto.NewListingRemoval(reason, s.cfg.App.Archival.DefaultReason).CancelReason
}

// cancellable keeps the bookings that have not started and are still confirmed.
func cancellable(bookings []bookingModel.Booking, now time.Time) []bookingModel.Booking {
	res := []bookingModel.Booking{}

	for _, booking := range bookings {
		if booking.Cancellable(now) {
			res = append(res, booking)
		}
	}

	return res
}

func bookingIDs(bookings []bookingModel.Booking) []string {
	ids := make([]string, len(bookings))
	for i, booking := range bookings {
		ids[i] = booking.ID
	}

	return ids
}

func cancellationMessage(title string, booking bookingModel.Booking, reason string) string {
	return fmt.Sprintf("Your booking at %s from %s to %s has been cancelled. Reason: %s",
		title,
		timezone.FormatDate(booking.CheckInDate),
		timezone.FormatDate(booking.CheckOutDate),
		reason,
	)
}
