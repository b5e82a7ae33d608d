package gateway

import (
	"context"
	"time"
)

// EventType names a published domain event
type EventType string

// Domain events
const (
	EventSessionStarted   EventType = "session.started"
	EventSessionCompleted EventType = "session.completed"
	EventSessionCancelled EventType = "session.cancelled"
	EventSessionExpired   EventType = "session.expired"
	EventWalletToppedUp   EventType = "wallet.topped_up"
)

// Event is a notification emitted after a committed state change
type Event struct {
	Type       EventType         `json:"type"`
	UserID     uint64            `json:"user_id"`
	SessionID  string            `json:"session_id,omitempty"`
	Amount     string            `json:"amount,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
	OccurredAt time.Time         `json:"occurred_at"`
}

// EventPublisher delivers domain events to downstream consumers
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}
