package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType enumerates supported audit event identifiers.
type EventType string

const (
	EventUserRegistered  EventType = "user_registered"
	EventLoginSucceeded  EventType = "login_succeeded"
	EventLoginFailed     EventType = "login_failed"
	EventUserDeactivated EventType = "user_deactivated"
	EventUserActivated   EventType = "user_activated"
)

// Event represents an auth audit event emitted by services. Payloads
// carry usernames and roles only; passwords and hashes never appear here.
type Event struct {
	ID        string            `json:"id"`
	Type      EventType         `json:"type"`
	Username  string            `json:"username"`
	Timestamp time.Time         `json:"timestamp"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// NewEvent builds an event with a fresh ID and timestamp.
func NewEvent(eventType EventType, username string, metadata map[string]string) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Username:  username,
		Timestamp: time.Now(),
		Metadata:  metadata,
	}
}
