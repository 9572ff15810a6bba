package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"soulboard/internal/core/domain"
	"soulboard/internal/core/port"
)

// Options tunes the marketplace service.
type Options struct {
	// Operator may initialize the registry and issue units into accounts.
	Operator domain.Principal
	// GuardRepeatedPayouts refuses a second distribution of a campaign and a
	// second withdrawal from the same performance row.
	GuardRepeatedPayouts bool
	// Clock defaults to time.Now.
	Clock port.Clock
}

// MarketplaceUseCase orchestrates the settlement core. Every operation runs
// inside one store transaction; notifications are published only after the
// transaction committed.
type MarketplaceUseCase struct {
	store     port.Store
	publisher port.EventPublisher
	logger    *slog.Logger

	operator domain.Principal
	guard    bool
	now      port.Clock
}

var _ port.MarketplaceUseCase = (*MarketplaceUseCase)(nil)

// NewMarketplaceUseCase wires the service to its store and publisher.
func NewMarketplaceUseCase(store port.Store, publisher port.EventPublisher, logger *slog.Logger, opts Options) *MarketplaceUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	now := opts.Clock
	if now == nil {
		now = time.Now
	}
	return &MarketplaceUseCase{
		store:     store,
		publisher: publisher,
		logger:    logger,
		operator:  opts.Operator,
		guard:     opts.GuardRepeatedPayouts,
		now:       now,
	}
}

// outbox collects the notifications of one operation until commit.
type outbox struct {
	at     time.Time
	events []domain.Event
}

func (o *outbox) add(name string, data any) {
	o.events = append(o.events, domain.Event{Name: name, OccurredAt: o.at, Data: data})
}

// run executes fn in a transaction and publishes what it queued once the
// transaction is committed. A failed publish is logged; the state change
// already happened and is not rolled back.
func (u *MarketplaceUseCase) run(ctx context.Context, op string, fn func(ctx context.Context, tx port.Tx, out *outbox) error) error {
	out := &outbox{at: u.now().UTC()}
	if err := u.store.WithinTx(ctx, func(ctx context.Context, tx port.Tx) error {
		out.events = out.events[:0]
		return fn(ctx, tx, out)
	}); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	u.logger.Debug("operation committed", slog.String("op", op), slog.Int("events", len(out.events)))
	for _, ev := range out.events {
		if err := u.publisher.Publish(ctx, ev); err != nil {
			u.logger.Error("publish event",
				slog.String("op", op),
				slog.String("event", ev.Name),
				slog.Any("error", err))
		}
	}
	return nil
}

// view executes a read-only transaction.
func (u *MarketplaceUseCase) view(ctx context.Context, op string, fn func(ctx context.Context, tx port.Tx) error) error {
	if err := u.store.WithinTx(ctx, fn); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (u *MarketplaceUseCase) requireOperator(caller domain.Principal) error {
	if !u.operator.Valid() {
		return fmt.Errorf("%w: no operator configured", domain.ErrUnauthorized)
	}
	return domain.Authorize(caller, u.operator)
}
