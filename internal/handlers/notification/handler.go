package notification

import (
	"net/http"
	"stayfinder/infras/otel"
	"stayfinder/internal/domains/notification/model/dto"
	"stayfinder/internal/domains/notification/service"
	"stayfinder/shared"
	"stayfinder/shared/constant"
	"stayfinder/shared/failure"
	"stayfinder/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Notification
	otel    otel.Otel
}

func New(service service.Notification, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/notifications", func(routerGroup chi.Router) {
		routerGroup.Get("/user/{userId}", handler.GetUserNotifications)
		routerGroup.Patch("/user/{userId}/seen", handler.MarkAllSeen)
		routerGroup.Patch("/{id}/seen", handler.MarkSeen)
	})
}

// GetUserNotifications returns a user's feed, newest first.
// @Summary Get notifications of a user
// @Tags Notification
// @Produce json
// @Param userId path string true "User ID"
// @Param seen query bool false "Only seen (true) or unseen (false) notifications"
// @Success 200 {object} response.Data[dto.GetNotificationsResponse]
// @Failure 401 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/notifications/user/{userId} [get]
// @Security BearerAuth
func (handler *Handler) GetUserNotifications(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetUserNotifications")
	defer scope.End()

	userID := chi.URLParam(r, constant.RequestParamUserID)

	if !isOwner(r, userID) {
		scope.TraceError(failure.ForbiddenError)
		response.WithError(w, failure.ForbiddenError)

		return
	}

	seen := shared.ConvertStringToBool(r.URL.Query().Get(constant.RequestParamSeen))

	notifications, err := handler.service.ListForUser(ctx, userID, seen)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("user_id", userID).Msg("failed to get notifications")

		response.WithError(w, err)

		return
	}

	res := dto.GetNotificationsResponse{}
	res.FromModels(notifications)

	response.WithJSON(w, http.StatusOK, res)
}

// MarkSeen flags one notification as read. Guests may only flag their own.
// @Summary Mark a notification as seen
// @Tags Notification
// @Produce json
// @Param id path string true "Notification ID"
// @Success 200 {object} response.Data[dto.NotificationResponse]
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/notifications/{id}/seen [patch]
// @Security BearerAuth
func (handler *Handler) MarkSeen(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".MarkSeen")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	notification, err := handler.service.MarkSeen(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("notification_id", id).Msg("failed to mark notification as seen")

		response.WithError(w, err)

		return
	}

	res := dto.NotificationResponse{}
	res.FromModel(notification)

	response.WithJSON(w, http.StatusOK, res)
}

// MarkAllSeen flags every unseen notification of a user as read.
// @Summary Mark all notifications of a user as seen
// @Tags Notification
// @Produce json
// @Param userId path string true "User ID"
// @Success 200 {object} response.Data[dto.MarkAllSeenResponse]
// @Failure 403 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/notifications/user/{userId}/seen [patch]
// @Security BearerAuth
func (handler *Handler) MarkAllSeen(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".MarkAllSeen")
	defer scope.End()

	userID := chi.URLParam(r, constant.RequestParamUserID)

	if !isOwner(r, userID) {
		scope.TraceError(failure.ForbiddenError)
		response.WithError(w, failure.ForbiddenError)

		return
	}

	updated, err := handler.service.MarkAllSeenForUser(ctx, userID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("user_id", userID).Msg("failed to mark notifications as seen")

		response.WithError(w, err)

		return
	}

	scope.SetAttribute("notification.updated", updated)

	response.WithJSON(w, http.StatusOK, dto.MarkAllSeenResponse{
		Message: "Notifications marked as seen",
		Updated: updated,
	})
}

func isOwner(r *http.Request, userID string) bool {
	actor, _ := r.Context().Value(constant.ContextKeyUserID).(string)
	role, _ := r.Context().Value(constant.ContextKeyUserRole).(string)

	return actor == constant.Empty || actor == userID || role == constant.RoleAdmin
}
