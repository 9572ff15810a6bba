package postgres

import (
	"context"
	"fmt"

	"soulboard/internal/core/domain"
)

// GetProvider returns a provider by principal, locking its row.
func (t *tx) GetProvider(ctx context.Context, principal domain.Principal) (*domain.Provider, error) {
	var p domain.Provider
	err := t.getDoc(ctx, &p, fmt.Errorf("%w: %s", domain.ErrProviderNotFound, principal),
		`SELECT data FROM providers WHERE principal = $1 FOR UPDATE`, string(principal))
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// InsertProvider stores a newly registered provider.
func (t *tx) InsertProvider(ctx context.Context, p *domain.Provider) error {
	doc, err := marshalDoc(p)
	if err != nil {
		return err
	}
	return t.execOne(ctx, fmt.Errorf("%w: %s", domain.ErrProviderExists, p.Principal),
		`INSERT INTO providers (principal, data, created_at, updated_at) VALUES ($1, $2, now(), now()) ON CONFLICT DO NOTHING`,
		string(p.Principal), doc)
}

// UpdateProvider overwrites an existing provider.
func (t *tx) UpdateProvider(ctx context.Context, p *domain.Provider) error {
	doc, err := marshalDoc(p)
	if err != nil {
		return err
	}
	return t.execOne(ctx, fmt.Errorf("%w: %s", domain.ErrProviderNotFound, p.Principal),
		`UPDATE providers SET data = $2, updated_at = now() WHERE principal = $1`,
		string(p.Principal), doc)
}
