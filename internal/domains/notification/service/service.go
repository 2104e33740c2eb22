package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Notification=MockNotificationService

import (
	"context"
	"fmt"
	"stayfinder/infras/otel"
	"stayfinder/internal/domains/notification/model"
	"stayfinder/internal/domains/notification/model/dto"
	"stayfinder/internal/domains/notification/repository"
	"stayfinder/shared/constant"
	gDto "stayfinder/shared/dto"
	"stayfinder/shared/failure"
	"stayfinder/shared/validator"

	"github.com/rs/zerolog/log"
)

const msgNotificationNotFound = "notification not found"

type Notification interface {
	Emit(ctx context.Context, userID string, typ model.Type, message string, data model.Payload) (model.Notification, error)
	ListForUser(ctx context.Context, userID string, seen *bool) ([]model.Notification, error)
	MarkSeen(ctx context.Context, id string) (model.Notification, error)
	MarkAllSeenForUser(ctx context.Context, userID string) (int, error)
}

type serviceImpl struct {
	repo repository.Notification
	otel otel.Otel
}

func New(repo repository.Notification, otel otel.Otel) Notification {
	return &serviceImpl{
		repo: repo,
		otel: otel,
	}
}

// Emit records a notification. The recipient is not checked against the user store; a dangling
// id produces a notification nobody reads.
func (s *serviceImpl) Emit(ctx context.Context, userID string, typ model.Type, message string, data model.Payload) (res model.Notification, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".notification.Emit")
	defer scope.End()
	defer scope.TraceIfError(err)

	req := dto.EmitRequest{
		UserID:  userID,
		Type:    typ,
		Message: message,
		Data:    data,
	}

	if err = validator.ValidateStruct(&req); err != nil {
		return res, err //nolint:wrapcheck
	}

	res = req.ToModel()

	if err = s.repo.Insert(ctx, res); err != nil {
		log.Error().Err(err).Str("userId", userID).Str("type", string(typ)).Msg("failed to emit notification")

		return res, fmt.Errorf("failed to emit notification: %w", err)
	}

	return res, nil
}

func (s *serviceImpl) ListForUser(ctx context.Context, userID string, seen *bool) (res []model.Notification, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".notification.ListForUser")
	defer scope.End()
	defer scope.TraceIfError(err)

	params := gDto.QueryParams{
		SortBy:  model.TableName + "." + model.FieldCreatedAt,
		SortDir: gDto.SortDirDesc,
	}

	res, err = s.repo.GetAll(ctx, params, model.ForUser(userID, seen))
	if err != nil {
		log.Error().Err(err).Str("userId", userID).Msg("failed to get notifications")

		return res, fmt.Errorf("failed to get notifications: %w", err)
	}

	return res, nil
}

// MarkSeen flags one notification as read. Guests may only flag their own notifications.
func (s *serviceImpl) MarkSeen(ctx context.Context, id string) (res model.Notification, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".notification.MarkSeen")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter := model.ByID(id)

	current, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Str("notificationId", id).Msg("failed to get notification")

		return res, fmt.Errorf("failed to get notification: %w", err)
	}

	if current.ID == constant.Empty {
		return res, failure.NotFound(msgNotificationNotFound) // nolint:wrapcheck
	}

	if !ownedByActor(ctx, current.UserID) {
		return res, failure.ForbiddenError
	}

	updated, err := s.repo.UpdateCount(ctx, map[string]any{model.FieldSeen: true}, filter)
	if err != nil {
		log.Error().Err(err).Str("notificationId", id).Msg("failed to mark notification as seen")

		return res, fmt.Errorf("failed to mark notification as seen: %w", err)
	}

	if updated == 0 {
		return res, failure.NotFound(msgNotificationNotFound) // nolint:wrapcheck
	}

	current.Seen = true

	return current, nil
}

// ownedByActor is true for the recipient, for admins, and for internal callers without an actor.
func ownedByActor(ctx context.Context, userID string) bool {
	actor, _ := ctx.Value(constant.ContextKeyUserID).(string)
	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)

	return actor == constant.Empty || actor == userID || role == constant.RoleAdmin
}

// MarkAllSeenForUser flips every unseen notification of the user and returns how many changed.
func (s *serviceImpl) MarkAllSeenForUser(ctx context.Context, userID string) (count int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".notification.MarkAllSeenForUser")
	defer scope.End()
	defer scope.TraceIfError(err)

	unseen := false

	count, err = s.repo.UpdateCount(ctx, map[string]any{model.FieldSeen: true}, model.ForUser(userID, &unseen))
	if err != nil {
		log.Error().Err(err).Str("userId", userID).Msg("failed to mark notifications as seen")

		return 0, fmt.Errorf("failed to mark notifications as seen: %w", err)
	}

	return count, nil
}
