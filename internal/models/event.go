package models

import "time"

// User event types published on the user events topic.
const (
	UserCreated = "user.created"
	UserUpdated = "user.updated"
	UserDeleted = "user.deleted"
)

// UserEvent describes a committed change to a user record.
type UserEvent struct {
	Type       string    `json:"type"`
	UserID     int64     `json:"user_id"`
	Username   string    `json:"username,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
