// Package queue defines message payloads exchanged over the message
// broker and the background consumer that processes them.
package queue

import (
	"time"

	"github.com/google/uuid"
)

// QueueUserRegistered is the queue carrying registration events.
const QueueUserRegistered = "user.registered"

// UserRegisteredEvent is published after an account is created. It
// carries enough for downstream consumers to log or notify without
// querying the primary database. It never includes the password hash
// or any MFA material.
type UserRegisteredEvent struct {
	EventID      string `json:"event_id"`
	UserID       uint64 `json:"user_id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	RegisteredAt string `json:"registered_at"`
}

// NewUserRegisteredEvent stamps a fresh event with a unique ID and the
// current UTC time.
func NewUserRegisteredEvent(userID uint64, username, email, role string) UserRegisteredEvent {
	return UserRegisteredEvent{
		EventID:      uuid.NewString(),
		UserID:       userID,
		Username:     username,
		Email:        email,
		Role:         role,
		RegisteredAt: time.Now().UTC().Format(time.RFC3339),
	}
}
