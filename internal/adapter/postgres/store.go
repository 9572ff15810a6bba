package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"soulboard/internal/core/port"
)

// Store implements port.Store on PostgreSQL using pgxpool. Every transaction
// is serializable and entity rows are locked with FOR UPDATE as they are read.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore returns a new store instance.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

var _ port.Store = (*Store)(nil)

// WithinTx begins a serializable transaction, runs fn and commits when fn
// returns nil. Any error or panic rolls the transaction back.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, tx port.Tx) error) (err error) {
	pgTx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer finish(ctx, pgTx, &err)
	return fn(ctx, &tx{tx: pgTx})
}

// finish must be deferred directly so that recover sees a panic from fn.
func finish(ctx context.Context, pgTx pgx.Tx, err *error) {
	if r := recover(); r != nil {
		_ = pgTx.Rollback(ctx)
		panic(r)
	}
	if *err != nil {
		_ = pgTx.Rollback(ctx)
		return
	}
	if cerr := pgTx.Commit(ctx); cerr != nil {
		*err = fmt.Errorf("commit tx: %w", cerr)
	}
}

// tx adapts a pgx.Tx to the repository ports.
type tx struct {
	tx pgx.Tx
}

// getDoc reads the jsonb document selected by query and decodes it into dst.
// A missing row yields notFound.
func (t *tx) getDoc(ctx context.Context, dst any, notFound error, query string, args ...any) error {
	var raw []byte
	err := t.tx.QueryRow(ctx, query, args...).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return notFound
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dst)
}

// execOne runs a statement that must touch exactly one row; zero rows yields
// noRow.
func (t *tx) execOne(ctx context.Context, noRow error, query string, args ...any) error {
	tag, err := t.tx.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return noRow
	}
	return nil
}

func marshalDoc(v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return b, nil
}
