package booking

import (
	"context"
	"net/http"
	"stayfinder/infras/otel"
	"stayfinder/internal/domains/booking/model"
	"stayfinder/internal/domains/booking/model/dto"
	"stayfinder/internal/domains/booking/service"
	"stayfinder/shared/constant"
	"stayfinder/shared/failure"
	"stayfinder/shared/validator"
	"stayfinder/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Booking
	otel    otel.Otel
}

func New(service service.Booking, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/bookings", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateBooking)
		routerGroup.Get("/listing/{id}", handler.GetListingBookings)
		routerGroup.Get("/user/{id}", handler.GetUserBookings)
	})
}

// CreateBooking handles the creation of a new booking.
// @Summary Create a new booking
// @Description Book a stay on an active listing. The caller is the guest; userId in the body is only used by internal callers.
// @Tags Booking
// @Accept json
// @Produce json
// @Param request body dto.CreateBookingRequest true "Create Booking Request"
// @Success 201 {object} response.Data[dto.BookingResponse]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings [post]
// @Security BearerAuth
func (handler *Handler) CreateBooking(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateBooking")
	defer scope.End()

	req := dto.CreateBookingRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	booking, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("listing_id", req.ListingID).Msg("failed to create booking")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Booking created successfully by user " + booking.UserID)

	res := dto.BookingResponse{}
	res.FromModel(booking)

	response.WithJSON(writer, http.StatusCreated, res)
}

// GetListingBookings lists every booking of a listing, whatever its status.
// @Summary Get bookings of a listing
// @Description Used by hosts to preview which stays an archive would affect.
// @Tags Booking
// @Produce json
// @Param id path string true "Listing ID"
// @Success 200 {object} response.Data[dto.GetBookingsResponse]
// @Failure 401 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/listing/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetListingBookings(w http.ResponseWriter, r *http.Request) {
	handler.list(w, r, "GetListingBookings", "listing_id", handler.service.FindByListing)
}

// GetUserBookings lists the bookings of a guest.
// @Summary Get bookings of a user
// @Description Guests may only read their own bookings.
// @Tags Booking
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} response.Data[dto.GetBookingsResponse]
// @Failure 401 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/user/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetUserBookings(w http.ResponseWriter, r *http.Request) {
	if !canRead(r, chi.URLParam(r, constant.RequestParamID)) {
		response.WithError(w, failure.ForbiddenError)

		return
	}

	handler.list(w, r, "GetUserBookings", "user_id", handler.service.FindByUser)
}

// list resolves the {id} path parameter with find and writes the bookings it returns.
func (handler *Handler) list(w http.ResponseWriter, r *http.Request, op, idField string,
	find func(ctx context.Context, id string) ([]model.Booking, error),
) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+"."+op)
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	bookings, err := find(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str(idField, id).Msg("failed to list bookings")

		response.WithError(w, err)

		return
	}

	res := dto.GetBookingsResponse{}
	res.FromModels(bookings)

	response.WithJSON(w, http.StatusOK, res)
}

// canRead lets guests see their own records only. Callers without an actor came through the API key.
func canRead(r *http.Request, ownerID string) bool {
	actor, _ := r.Context().Value(constant.ContextKeyUserID).(string)
	role, _ := r.Context().Value(constant.ContextKeyUserRole).(string)

	return actor == constant.Empty || actor == ownerID || role == constant.RoleAdmin
}
