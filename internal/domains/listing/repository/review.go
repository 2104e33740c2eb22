package repository

//go:generate go run go.uber.org/mock/mockgen -source=./review.go -destination=../mocks/review_mock.go -package=mocks

import (
	"context"
	"fmt"
	"stayfinder/infras/otel"
	"stayfinder/infras/postgres"
	"stayfinder/internal/domains/listing/model"
	"stayfinder/shared/constant"
	gDto "stayfinder/shared/dto"
	"stayfinder/shared/logger"
	gRepo "stayfinder/shared/repository"
)

const upsertReviewQuery = `INSERT INTO listing_reviews (listing_id, user_id, rating, review, created_at, updated_at)
VALUES (:listing_id, :user_id, :rating, :review, :created_at, :updated_at)
ON CONFLICT (listing_id, user_id) DO UPDATE
SET rating = EXCLUDED.rating, review = EXCLUDED.review, updated_at = EXCLUDED.updated_at`

type Review interface {
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Review, error)
	Upsert(ctx context.Context, review model.Review) error
}

type reviewRepositoryImpl struct {
	gRepo.Repository[model.Review]
	db   *postgres.Connection
	otel otel.Otel
}

func NewReview(db *postgres.Connection, otel otel.Otel) Review {
	return &reviewRepositoryImpl{
		Repository: gRepo.NewRepository[model.Review](model.ReviewEntityName, model.ReviewTableName, model.FieldListingID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// Upsert inserts the review or, when the user already reviewed the listing, overwrites rating
// and text and bumps updated_at while keeping the original created_at.
func (r *reviewRepositoryImpl) Upsert(ctx context.Context, review model.Review) (err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".listing_review.Upsert")
	defer scope.End()
	defer scope.TraceIfError(err)

	scope.SetAttribute(constant.OtelQueryAttributeKey, upsertReviewQuery)

	if _, err = r.db.Write.NamedExecContext(ctx, upsertReviewQuery, review); err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to upsert review: %w", err)
	}

	return nil
}
