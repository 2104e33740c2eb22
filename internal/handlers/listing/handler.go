package listing

import (
	"net/http"
	"stayfinder/infras/otel"
	archivalDto "stayfinder/internal/domains/archival/model/dto"
	archivalService "stayfinder/internal/domains/archival/service"
	"stayfinder/internal/domains/listing/model/dto"
	"stayfinder/internal/domains/listing/service"
	"stayfinder/shared"
	"stayfinder/shared/constant"
	gDto "stayfinder/shared/dto"
	"stayfinder/shared/validator"
	"stayfinder/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service  service.Listing
	archival archivalService.Archival
	otel     otel.Otel
}

func New(service service.Listing, archival archivalService.Archival, otel otel.Otel) Handler {
	return Handler{
		service:  service,
		archival: archival,
		otel:     otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/listings", func(routerGroup chi.Router) {
		routerGroup.Get("/", handler.GetListings)
		routerGroup.Post("/", handler.CreateListing)
		routerGroup.Get("/{id}", handler.GetListingByID)
		routerGroup.Put("/{id}", handler.UpdateListing)
		routerGroup.Delete("/{id}", handler.DeleteListing)
		routerGroup.Post("/{id}/reviews", handler.UpsertReview)
		routerGroup.Post("/{id}/images", handler.UploadImage)
		routerGroup.Patch("/{id}/archive", handler.ArchiveListing)
		routerGroup.Patch("/{id}/unarchive", handler.UnarchiveListing)
		routerGroup.Post("/{id}/archive/resume", handler.ResumeCancellation)
	})
}

func includeArchived(r *http.Request) bool {
	value := shared.ConvertStringToBool(r.URL.Query().Get(constant.RequestParamIncludeArchived))

	return value != nil && *value
}

// GetListings lists the directory.
// @Summary Get listings
// @Description Retrieve active listings with their rating summary. Archived listings are included only on request.
// @Tags Listing
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param includeArchived query bool false "Include archived listings"
// @Success 200 {object} response.Data[dto.GetListingsResponse]
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/listings [get]
func (handler *Handler) GetListings(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetListings")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, false)

	listings, err := handler.service.GetAll(ctx, queryParams, includeArchived(r))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get listings")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Listings retrieved successfully")

	response.WithJSON(w, http.StatusOK, listings)
}

// GetListingByID retrieves a listing by its ID.
// @Summary Get a listing by ID
// @Description Retrieve a listing with its reviews. Archived listings answer 404 unless includeArchived is set.
// @Tags Listing
// @Accept json
// @Produce json
// @Param id path string true "Listing ID"
// @Param includeArchived query bool false "Include archived listings"
// @Success 200 {object} response.Data[dto.ListingResponse]
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/listings/{id} [get]
func (handler *Handler) GetListingByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetListingByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	listing, err := handler.service.Get(ctx, id, includeArchived(r))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("listing_id", id).Msg("failed to get listing by ID")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, listing)
}

// CreateListing registers a new listing owned by the caller.
// @Summary Create a listing
// @Tags Listing
// @Accept json
// @Produce json
// @Param request body dto.CreateListingRequest true "Create Listing Request"
// @Success 201 {object} response.Data[dto.ListingResponse]
// @Failure 400 {object} response.Error
// @Failure 401 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/listings [post]
// @Security BearerAuth
func (handler *Handler) CreateListing(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateListing")
	defer scope.End()

	req := dto.CreateListingRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	listing, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create listing")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Listing created successfully by user " + user)

	response.WithJSON(w, http.StatusCreated, listing)
}

// UpdateListing applies a partial edit.
// @Summary Update a listing
// @Description Edit an active listing. Archived listings must be unarchived first.
// @Tags Listing
// @Accept json
// @Produce json
// @Param id path string true "Listing ID"
// @Param request body dto.UpdateListingRequest true "Update Listing Request"
// @Success 200 {object} response.Data[dto.ListingResponse]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/listings/{id} [put]
// @Security BearerAuth
func (handler *Handler) UpdateListing(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateListing")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.UpdateListingRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	listing, err := handler.service.Update(ctx, id, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("listing_id", id).Msg("failed to update listing")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Listing updated successfully by user " + user)

	response.WithJSON(w, http.StatusOK, listing)
}

// DeleteListing removes a listing for good.
// @Summary Delete a listing
// @Tags Listing
// @Produce json
// @Param id path string true "Listing ID"
// @Success 200 {object} response.Message
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/listings/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteListing(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteListing")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.Delete(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("listing_id", id).Msg("failed to delete listing")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Listing deleted successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Listing deleted successfully")
}

// UpsertReview stores the caller's review; a second submission overwrites the first.
// @Summary Review a listing
// @Tags Listing
// @Accept json
// @Produce json
// @Param id path string true "Listing ID"
// @Param request body dto.UpsertReviewRequest true "Review"
// @Success 200 {object} response.Data[dto.ListingResponse]
// @Failure 400 {object} response.Error
// @Failure 401 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/listings/{id}/reviews [post]
// @Security BearerAuth
func (handler *Handler) UpsertReview(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpsertReview")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.UpsertReviewRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	listing, err := handler.service.UpsertReview(ctx, id, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("listing_id", id).Msg("failed to save review")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, listing)
}

// UploadImage appends a photo to the listing gallery.
// @Summary Upload a listing image
// @Description Accepts a base64 data URL (png, jpeg or webp).
// @Tags Listing
// @Accept json
// @Produce json
// @Param id path string true "Listing ID"
// @Param request body dto.UploadImageRequest true "Image"
// @Success 201 {object} response.Data[dto.ListingResponse]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/listings/{id}/images [post]
// @Security BearerAuth
func (handler *Handler) UploadImage(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UploadImage")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.UploadImageRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	listing, err := handler.service.UploadImage(ctx, id, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("listing_id", id).Msg("failed to upload listing image")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusCreated, listing)
}

// ArchiveListing takes a listing off the market.
// @Summary Archive a listing
// @Description Hides the listing and stops new bookings. With allowStays=false every future confirmed booking is cancelled and its guest notified.
// @Tags Listing
// @Accept json
// @Produce json
// @Param id path string true "Listing ID"
// @Param request body archivalDto.ArchiveRequest true "Archive policy"
// @Success 200 {object} response.Data[archivalDto.ArchiveResponse]
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/listings/{id}/archive [patch]
// @Security BearerAuth
func (handler *Handler) ArchiveListing(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ArchiveListing")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := archivalDto.ArchiveRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	result, err := handler.archival.Archive(ctx, id, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("listing_id", id).Msg("failed to archive listing")

		response.WithError(w, err)

		return
	}

	scope.SetAttribute("listing.affected_bookings", len(result.AffectedBookings))

	response.WithJSON(w, http.StatusOK, result)
}

// UnarchiveListing puts an archived listing back on the market.
// @Summary Unarchive a listing
// @Description Cancelled bookings stay cancelled.
// @Tags Listing
// @Produce json
// @Param id path string true "Listing ID"
// @Success 200 {object} response.Data[archivalDto.UnarchiveResponse]
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/listings/{id}/unarchive [patch]
// @Security BearerAuth
func (handler *Handler) UnarchiveListing(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UnarchiveListing")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	result, err := handler.archival.Unarchive(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("listing_id", id).Msg("failed to unarchive listing")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, result)
}

// ResumeCancellation retries the booking sweep of an archived listing.
// @Summary Resume booking cancellation
// @Description Cancels the future confirmed bookings an earlier archive left behind. Safe to repeat.
// @Tags Listing
// @Accept json
// @Produce json
// @Param id path string true "Listing ID"
// @Param request body archivalDto.ResumeRequest false "Cancellation reason"
// @Success 200 {object} response.Data[archivalDto.ArchiveResponse]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/listings/{id}/archive/resume [post]
// @Security BearerAuth
func (handler *Handler) ResumeCancellation(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ResumeCancellation")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := archivalDto.ResumeRequest{}

	// the body is optional
	if r.ContentLength != 0 {
		if err := validator.Validate(r.Body, &req); err != nil {
			scope.TraceError(err)
			log.Error().Err(err).Msg("failed to validate request body")

			response.WithError(w, err)

			return
		}
	}

	result, err := handler.archival.ResumeCancellation(ctx, id, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("listing_id", id).Msg("failed to resume booking cancellation")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, result)
}
