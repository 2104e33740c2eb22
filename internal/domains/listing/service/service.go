package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Listing=MockListingService

import (
	"context"
	"fmt"
	"path"
	"stayfinder/config"
	"stayfinder/infras/otel"
	"stayfinder/infras/s3"
	"stayfinder/internal/domains/listing/model"
	"stayfinder/internal/domains/listing/model/dto"
	"stayfinder/internal/domains/listing/repository"
	"stayfinder/shared"
	"stayfinder/shared/base64"
	"stayfinder/shared/constant"
	gDto "stayfinder/shared/dto"
	"stayfinder/shared/failure"
	"stayfinder/shared/timezone"
	"stayfinder/shared/validator"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	imageDirectory = "listings"
	bytesPerMB     = 1024 * 1024
)

const (
	msgListingNotFound = "listing not found"
	msgEditArchived    = "listing is archived, unarchive it before editing"
)

const sortDefault = "createdAt"

// sortable maps public sort keys to columns.
var sortable = map[string]string{
	"createdAt":     model.TableName + "." + model.FieldCreatedAt,
	"pricePerNight": model.TableName + "." + model.FieldPricePerNight,
	"title":         model.TableName + "." + model.FieldTitle,
}

type Listing interface {
	GetAll(ctx context.Context, params gDto.QueryParams, includeArchived bool) (dto.GetListingsResponse, error)
	Get(ctx context.Context, id string, includeArchived bool) (dto.ListingResponse, error)
	Create(ctx context.Context, req dto.CreateListingRequest) (dto.ListingResponse, error)
	Update(ctx context.Context, id string, req dto.UpdateListingRequest) (dto.ListingResponse, error)
	Delete(ctx context.Context, id string) error
	UpsertReview(ctx context.Context, id string, req dto.UpsertReviewRequest) (dto.ListingResponse, error)
	UploadImage(ctx context.Context, id string, req dto.UploadImageRequest) (dto.ListingResponse, error)
}

type serviceImpl struct {
	repo       repository.Listing
	reviewRepo repository.Review
	storage    s3.S3
	cfg        *config.Config
	otel       otel.Otel
}

func New(repo repository.Listing, reviewRepo repository.Review, storage s3.S3, cfg *config.Config, otel otel.Otel) Listing {
	return &serviceImpl{
		repo:       repo,
		reviewRepo: reviewRepo,
		storage:    storage,
		cfg:        cfg,
		otel:       otel,
	}
}

func (s *serviceImpl) GetAll(ctx context.Context, params gDto.QueryParams, includeArchived bool) (res dto.GetListingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".listing.GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter := model.ActiveOnly(includeArchived)

	params = params.OrderBy(sortable, sortDefault)

	listings, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get listings")

		return res, fmt.Errorf("failed to get listings: %w", err)
	}

	total, limit := len(listings), len(listings)

	if params.Paged() {
		limit = params.Limit

		total, err = s.repo.Count(ctx, filter)
		if err != nil {
			log.Error().Err(err).Msg("failed to count listings")

			return res, fmt.Errorf("failed to count listings: %w", err)
		}
	}

	reviews, err := s.reviewsByListing(ctx, listings...)
	if err != nil {
		return res, err
	}

	res.FromModels(listings, reviews, total, limit)

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string, includeArchived bool) (res dto.ListingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".listing.Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	listing, err := s.repo.Get(ctx, model.Visible(id, includeArchived))
	if err != nil {
		log.Error().Err(err).Str("listingId", id).Msg("failed to get listing")

		return res, fmt.Errorf("failed to get listing: %w", err)
	}

	if listing.ID == constant.Empty {
		return res, failure.NotFound(msgListingNotFound) // nolint:wrapcheck
	}

	return s.toResponse(ctx, listing)
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateListingRequest) (res dto.ListingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".listing.Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	hostID, _ := ctx.Value(constant.ContextKeyUserID).(string)

	listing := req.ToModel(hostID)

	if err = s.repo.Insert(ctx, listing); err != nil {
		log.Error().Err(err).Msg("failed to create listing")

		return res, fmt.Errorf("failed to create listing: %w", err)
	}

	res.FromModel(listing, nil)

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, id string, req dto.UpdateListingRequest) (res dto.ListingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".listing.Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	stored, err := s.editable(ctx, id)
	if err != nil {
		return res, err
	}

	if req.IsEmpty() {
		return s.toResponse(ctx, stored)
	}

	var fields dto.ListingFields

	fields.FromModel(req.Apply(stored))

	if err = validator.ValidateStruct(&fields); err != nil {
		return res, err //nolint:wrapcheck
	}

	updated, err := s.repo.UpdateCount(ctx, shared.TransformFields(req, user), model.ByIDAndArchived(id, false))
	if err != nil {
		log.Error().Err(err).Str("listingId", id).Msg("failed to update listing")

		return res, fmt.Errorf("failed to update listing: %w", err)
	}

	// archived between the read and the write
	if updated == 0 {
		return res, failure.Conflict(msgEditArchived) // nolint:wrapcheck
	}

	return s.Get(ctx, id, true)
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".listing.Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	listing, err := s.repo.Get(ctx, model.ByID(id))
	if err != nil {
		log.Error().Err(err).Str("listingId", id).Msg("failed to get listing")

		return fmt.Errorf("failed to get listing: %w", err)
	}

	if listing.ID == constant.Empty {
		return failure.NotFound(msgListingNotFound) // nolint:wrapcheck
	}

	if err = s.repo.Delete(ctx, model.ByID(id)); err != nil {
		log.Error().Err(err).Str("listingId", id).Msg("failed to delete listing")

		return fmt.Errorf("failed to delete listing: %w", err)
	}

	s.purgeImages(ctx, listing)

	return nil
}

// purgeImages removes the listing's uploaded photos. Failures only leave orphaned objects behind.
func (s *serviceImpl) purgeImages(ctx context.Context, listing model.Listing) {
	for _, url := range listing.Images {
		key, ok := s.storage.KeyFromURL(url)
		if !ok {
			continue
		}

		if err := s.storage.Remove(ctx, key); err != nil {
			log.Error().Err(err).Str("listingId", listing.ID).Str("key", key).Msg("failed to remove listing image")
		}
	}
}

func (s *serviceImpl) UpsertReview(ctx context.Context, id string, req dto.UpsertReviewRequest) (res dto.ListingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".listing.UpsertReview")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	if user == constant.Empty {
		return res, failure.Unauthorized("a signed in user is required to review") // nolint:wrapcheck
	}

	listing, err := s.repo.Get(ctx, model.Visible(id, false))
	if err != nil {
		log.Error().Err(err).Str("listingId", id).Msg("failed to get listing")

		return res, fmt.Errorf("failed to get listing: %w", err)
	}

	if listing.ID == constant.Empty {
		return res, failure.NotFound(msgListingNotFound) // nolint:wrapcheck
	}

	if err = s.reviewRepo.Upsert(ctx, req.ToModel(id, user)); err != nil {
		log.Error().Err(err).Str("listingId", id).Msg("failed to save review")

		return res, fmt.Errorf("failed to save review: %w", err)
	}

	return s.toResponse(ctx, listing)
}

func (s *serviceImpl) UploadImage(ctx context.Context, id string, req dto.UploadImageRequest) (res dto.ListingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".listing.UploadImage")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	stored, err := s.editable(ctx, id)
	if err != nil {
		return res, err
	}

	contentType, data, err := base64.Decode(req.Image)
	if err != nil {
		return res, failure.BadRequest(err) //nolint:wrapcheck
	}

	if limit := s.cfg.App.Upload.MaxImageSizeMB; limit > 0 && float64(len(data)) > limit*bytesPerMB {
		return res, failure.BadRequestFromString(fmt.Sprintf("image must not exceed %.0f MB", limit)) // nolint:wrapcheck
	}

	key := path.Join(imageDirectory, id, uuid.NewString()+base64.Extension(contentType))

	url, err := s.storage.Put(ctx, key, contentType, data)
	if err != nil {
		log.Error().Err(err).Str("listingId", id).Msg("failed to upload listing image")

		return res, fmt.Errorf("failed to upload listing image: %w", err)
	}

	images := append(stored.Images, url) //nolint:gocritic

	updated, err := s.repo.UpdateCount(ctx, map[string]any{
		model.FieldImages:        images,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: user,
	}, model.ByIDAndArchived(id, false))

	if err != nil || updated == 0 {
		if rollbackErr := s.storage.Remove(ctx, key); rollbackErr != nil {
			log.Error().Err(rollbackErr).Str("url", url).Msg("failed to remove orphaned listing image")
		}
	}

	if err != nil {
		log.Error().Err(err).Str("listingId", id).Msg("failed to attach listing image")

		return res, fmt.Errorf("failed to attach listing image: %w", err)
	}

	if updated == 0 {
		return res, failure.Conflict(msgEditArchived) // nolint:wrapcheck
	}

	return s.Get(ctx, id, true)
}

// editable loads a listing that may be modified: it must exist and must not be archived.
func (s *serviceImpl) editable(ctx context.Context, id string) (model.Listing, error) {
	listing, err := s.repo.Get(ctx, model.ByID(id))
	if err != nil {
		log.Error().Err(err).Str("listingId", id).Msg("failed to get listing")

		return listing, fmt.Errorf("failed to get listing: %w", err)
	}

	if listing.ID == constant.Empty {
		return listing, failure.NotFound(msgListingNotFound) // nolint:wrapcheck
	}

	if listing.IsArchived {
		return listing, failure.Conflict(msgEditArchived) // nolint:wrapcheck
	}

	return listing, nil
}

func (s *serviceImpl) toResponse(ctx context.Context, listing model.Listing) (res dto.ListingResponse, err error) {
	reviews, err := s.reviewsByListing(ctx, listing)
	if err != nil {
		return res, err
	}

	res.FromModel(listing, reviews[listing.ID])

	return res, nil
}

// reviewsByListing loads the reviews of every given listing with a single query.
func (s *serviceImpl) reviewsByListing(ctx context.Context, listings ...model.Listing) (map[string][]model.Review, error) {
	grouped := make(map[string][]model.Review, len(listings))
	if len(listings) == 0 {
		return grouped, nil
	}

	ids := make([]string, len(listings))
	for i, listing := range listings {
		ids[i] = listing.ID
	}

	params := gDto.QueryParams{
		SortBy:  model.ReviewTableName + "." + model.FieldReviewCreatedAt,
		SortDir: gDto.SortDirAsc,
	}

	reviews, err := s.reviewRepo.GetAll(ctx, params, model.ReviewsOf(ids))
	if err != nil {
		log.Error().Err(err).Msg("failed to get listing reviews")

		return grouped, fmt.Errorf("failed to get listing reviews: %w", err)
	}

	for _, review := range reviews {
		grouped[review.ListingID] = append(grouped[review.ListingID], review)
	}

	return grouped, nil
}
