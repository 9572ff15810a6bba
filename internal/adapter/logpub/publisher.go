// Package logpub writes domain notifications to a slog.Logger. It stands in
// for the broker when NATS is disabled.
package logpub

import (
	"context"
	"log/slog"

	"soulboard/internal/core/domain"
	"soulboard/internal/core/port"
)

type Publisher struct {
	logger *slog.Logger
	level  slog.Level
}

var _ port.EventPublisher = (*Publisher)(nil)

// New returns a publisher logging every event at level.
func New(logger *slog.Logger, level slog.Level) *Publisher {
	return &Publisher{logger: logger, level: level}
}

func (p *Publisher) Publish(ctx context.Context, e domain.Event) error {
	p.logger.LogAttrs(ctx, p.level, "event",
		slog.String("name", e.Name),
		slog.Time("occurred_at", e.OccurredAt),
		slog.Any("data", e.Data))
	return nil
}
