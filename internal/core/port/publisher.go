package port

import (
	"context"

	"soulboard/internal/core/domain"
)

// EventPublisher delivers notifications of committed state changes.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.Event) error
}
