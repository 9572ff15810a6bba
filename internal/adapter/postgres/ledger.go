package postgres

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/jackc/pgx/v5"

	"soulboard/internal/core/domain"
)

// Balances are numeric(20,0) so the full unsigned 64-bit range fits. They
// travel as text to avoid the signed bigint conversion.

func (t *tx) Balance(ctx context.Context, account domain.Account) (uint64, error) {
	var raw string
	err := t.tx.QueryRow(ctx, `SELECT amount::text FROM balances WHERE account = $1 FOR UPDATE`, string(account)).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("balance of %s: %w", account, err)
	}
	return v, nil
}

func (t *tx) setBalance(ctx context.Context, account domain.Account, amount uint64) error {
	_, err := t.tx.Exec(ctx, `INSERT INTO balances (account, amount, updated_at) VALUES ($1, $2::text::numeric, now())
ON CONFLICT (account) DO UPDATE SET amount = EXCLUDED.amount, updated_at = now()`,
		string(account), strconv.FormatUint(amount, 10))
	return err
}

func (t *tx) Transfer(ctx context.Context, from, to domain.Account, amount uint64) error {
	src, err := t.Balance(ctx, from)
	if err != nil {
		return err
	}
	if src < amount {
		return fmt.Errorf("%w: %s holds %d, needs %d", domain.ErrInsufficientFunds, from, src, amount)
	}
	if from == to {
		return nil
	}
	dst, err := t.Balance(ctx, to)
	if err != nil {
		return err
	}
	if dst > math.MaxUint64-amount {
		return fmt.Errorf("%w: balance of %s overflows", domain.ErrCalculation, to)
	}
	if err = t.setBalance(ctx, from, src-amount); err != nil {
		return err
	}
	return t.setBalance(ctx, to, dst+amount)
}

func (t *tx) Credit(ctx context.Context, to domain.Account, amount uint64) error {
	dst, err := t.Balance(ctx, to)
	if err != nil {
		return err
	}
	if dst > math.MaxUint64-amount {
		return fmt.Errorf("%w: balance of %s overflows", domain.ErrCalculation, to)
	}
	return t.setBalance(ctx, to, dst+amount)
}
