package postgres

import (
	"context"

	"soulboard/internal/core/domain"
)

// The directory is a single row with id 1.

func (t *tx) GetRegistry(ctx context.Context) (*domain.Registry, error) {
	var r domain.Registry
	err := t.getDoc(ctx, &r, domain.ErrRegistryNotInitialized,
		`SELECT data FROM provider_registry WHERE id = 1 FOR UPDATE`)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (t *tx) InsertRegistry(ctx context.Context, r *domain.Registry) error {
	doc, err := marshalDoc(r)
	if err != nil {
		return err
	}
	return t.execOne(ctx, domain.ErrRegistryExists,
		`INSERT INTO provider_registry (id, data, updated_at) VALUES (1, $1, now()) ON CONFLICT DO NOTHING`, doc)
}

func (t *tx) UpdateRegistry(ctx context.Context, r *domain.Registry) error {
	doc, err := marshalDoc(r)
	if err != nil {
		return err
	}
	return t.execOne(ctx, domain.ErrRegistryNotInitialized,
		`UPDATE provider_registry SET data = $1, updated_at = now() WHERE id = 1`, doc)
}
