// Package events defines auth lifecycle events and their delivery to the
// message bus.
package events

import (
	"context"
	"time"
)

// Event types emitted by the authentication flows.
const (
	TypeUserCreated    = "user_created"
	TypeUserLoggedIn   = "user_logged_in"
	TypeUserLoggedOut  = "user_logged_out"
	TypeTokenRefreshed = "token_refreshed"
)

// Event is the JSON payload pushed onto the bus for an auth lifecycle change.
type Event struct {
	Type       string    `json:"event_type"`
	UserID     string    `json:"user_id"`
	Email      string    `json:"email,omitempty"`
	Name       string    `json:"name,omitempty"`
	OccurredAt time.Time `json:"timestamp"`
}

// Publisher delivers lifecycle events to the bus. Delivery is best effort and
// at most once: callers log the returned error and move on, never failing the
// flow that produced the event.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}
