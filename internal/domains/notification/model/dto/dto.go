package dto

import (
	"stayfinder/internal/domains/notification/model"
	"stayfinder/shared/constant"
	"stayfinder/shared/timezone"
	"strings"

	"github.com/google/uuid"
)

type EmitRequest struct {
	UserID  string        `validate:"required"`
	Type    model.Type    `validate:"required,oneof=booking_cancelled booking_confirmed general"`
	Message string        `validate:"notblank,max=1000"`
	Data    model.Payload `validate:"-"`
}

func (e *EmitRequest) ToModel() model.Notification {
	data := e.Data
	if data == nil {
		data = model.Payload{}
	}

	return model.Notification{
		ID:        uuid.NewString(),
		UserID:    e.UserID,
		Type:      e.Type,
		Message:   strings.TrimSpace(e.Message),
		Data:      data,
		Seen:      false,
		CreatedAt: timezone.Now(),
	}
}

type NotificationResponse struct {
	ID        string         `json:"id"`
	UserID    string         `json:"userId"`
	Type      model.Type     `json:"type"`
	Message   string         `json:"message"`
	Data      map[string]any `json:"data"`
	Seen      bool           `json:"seen"`
	CreatedAt string         `json:"createdAt"`
}

func (r *NotificationResponse) FromModel(notification model.Notification) {
	r.ID = notification.ID
	r.UserID = notification.UserID
	r.Type = notification.Type
	r.Message = notification.Message
	r.Data = notification.Data
	r.Seen = notification.Seen
	r.CreatedAt = timezone.Format(notification.CreatedAt, constant.DateFormat)

	if r.Data == nil {
		r.Data = map[string]any{}
	}
}

type GetNotificationsResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
}

func (r *GetNotificationsResponse) FromModels(notifications []model.Notification) {
	r.Notifications = make([]NotificationResponse, len(notifications))
	for i, notification := range notifications {
		r.Notifications[i].FromModel(notification)
	}
}

type MarkAllSeenResponse struct {
	Message string `json:"message"`
	Updated int    `json:"updated"`
}
