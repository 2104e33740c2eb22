package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"stayfinder/infras/otel"
	"stayfinder/infras/postgres"
	"stayfinder/internal/domains/booking/model"
	gDto "stayfinder/shared/dto"
	gRepo "stayfinder/shared/repository"
)

// Booking is the ledger's store. Bookings are never deleted; a removed listing only changes their status.
type Booking interface {
	Insert(ctx context.Context, booking model.Booking) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	// ListByCheckIn returns matching bookings with the earliest stay first.
	ListByCheckIn(ctx context.Context, filter gDto.FilterGroup) ([]model.Booking, error)
	// SetStatus writes fields on the matching booking and reports how many rows it changed.
	SetStatus(ctx context.Context, fields map[string]any, filter gDto.FilterGroup) (int, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Booking]
}

func New(db *postgres.Connection, otel otel.Otel) Booking {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Booking](model.EntityName, model.TableName, model.FieldID, db, otel),
	}
}

var byCheckIn = gDto.QueryParams{
	SortBy:  model.TableName + "." + model.FieldCheckInDate,
	SortDir: gDto.SortDirAsc,
}

// Get and ListByCheckIn hand out stay dates as calendar days in the application timezone.
func (r *repositoryImpl) Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Booking, error) {
	booking, err := r.Repository.Get(ctx, filter, columns...)
	if err != nil {
		return booking, err //nolint:wrapcheck
	}

	return booking.AsCalendar(), nil
}

func (r *repositoryImpl) ListByCheckIn(ctx context.Context, filter gDto.FilterGroup) ([]model.Booking, error) {
	bookings, err := r.GetAll(ctx, byCheckIn, filter)
	if err != nil {
		return bookings, err //nolint:wrapcheck
	}

	for i := range bookings {
		bookings[i] = bookings[i].AsCalendar()
	}

	return bookings, nil
}

func (r *repositoryImpl) SetStatus(ctx context.Context, fields map[string]any, filter gDto.FilterGroup) (int, error) {
	return r.UpdateCount(ctx, fields, filter) //nolint:wrapcheck
}
