package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

const (
	TableName  = "notifications"
	EntityName = "notification"

	FieldID        = "id"
	FieldUserID    = "user_id"
	FieldSeen      = "seen"
	FieldCreatedAt = "created_at"
)

type Type string

const (
	TypeBookingCancelled Type = "booking_cancelled"
	TypeBookingConfirmed Type = "booking_confirmed"
	TypeGeneral          Type = "general"
)

func (t Type) Valid() bool {
	switch t {
	case TypeBookingCancelled, TypeBookingConfirmed, TypeGeneral:
		return true
	default:
		return false
	}
}

// Payload is the free-form data attached to a notification, stored as jsonb.
type Payload map[string]any

// Value implements the driver.Valuer interface for database storage
func (p Payload) Value() (driver.Value, error) {
	if p == nil {
		return []byte("{}"), nil
	}

	return json.Marshal(p)
}

// Scan implements the sql.Scanner interface for database retrieval
func (p *Payload) Scan(value any) error {
	if value == nil {
		*p = Payload{}

		return nil
	}

	var raw []byte

	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return errors.New("type assertion to []byte failed")
	}

	return json.Unmarshal(raw, p)
}

type Notification struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	Type      Type      `db:"type"`
	Message   string    `db:"message"`
	Data      Payload   `db:"data"`
	Seen      bool      `db:"seen"`
	CreatedAt time.Time `db:"created_at"`
}
