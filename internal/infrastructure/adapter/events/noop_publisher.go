package events

import (
	"context"

	"github.com/amirhossein-jamali/coaching-wallet/internal/domain/port/gateway"
)

var _ gateway.EventPublisher = NoopPublisher{}

// NoopPublisher drops every event. It is used when no event sink is configured.
type NoopPublisher struct{}

// Publish implements gateway.EventPublisher
func (NoopPublisher) Publish(context.Context, gateway.Event) error {
	return nil
}
