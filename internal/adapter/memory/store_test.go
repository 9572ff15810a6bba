package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"soulboard/internal/core/domain"
	"soulboard/internal/core/port"
)

func TestWithinTxRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	boom := errors.New("boom")

	err := s.WithinTx(ctx, func(ctx context.Context, tx port.Tx) error {
		require.NoError(t, tx.InsertRegistry(ctx, &domain.Registry{}))
		require.NoError(t, tx.Credit(ctx, "alice", 10))
		return boom
	})
	require.ErrorIs(t, err, boom)

	err = s.WithinTx(ctx, func(ctx context.Context, tx port.Tx) error {
		_, err := tx.GetRegistry(ctx)
		require.ErrorIs(t, err, domain.ErrRegistryNotInitialized)
		bal, err := tx.Balance(ctx, "alice")
		require.NoError(t, err)
		assert.Zero(t, bal)
		return nil
	})
	require.NoError(t, err)
}

func TestEntitiesAreIsolatedUntilSaved(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	p, err := domain.NewProvider("prov", "n", "l", "c")
	require.NoError(t, err)

	require.NoError(t, s.WithinTx(ctx, func(ctx context.Context, tx port.Tx) error {
		return tx.InsertProvider(ctx, p)
	}))
	p.Name = "mutated outside"

	require.NoError(t, s.WithinTx(ctx, func(ctx context.Context, tx port.Tx) error {
		got, err := tx.GetProvider(ctx, "prov")
		require.NoError(t, err)
		assert.Equal(t, "n", got.Name)
		_, err = got.AcquireDevice(1)
		require.NoError(t, err)

		again, err := tx.GetProvider(ctx, "prov")
		require.NoError(t, err)
		assert.Zero(t, again.Devices.Len(), "unsaved change must not leak")
		return tx.UpdateProvider(ctx, got)
	}))

	require.NoError(t, s.WithinTx(ctx, func(ctx context.Context, tx port.Tx) error {
		got, err := tx.GetProvider(ctx, "prov")
		require.NoError(t, err)
		assert.Equal(t, 1, got.Devices.Len())
		return nil
	}))
}

func TestDuplicatesAndMissing(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	c, err := domain.NewCampaign(domain.CampaignKey{Advertiser: "adv", CampaignID: 1}, "n", "", domain.Schedule{})
	require.NoError(t, err)

	require.NoError(t, s.WithinTx(ctx, func(ctx context.Context, tx port.Tx) error {
		require.NoError(t, tx.InsertCampaign(ctx, c))
		require.ErrorIs(t, tx.InsertCampaign(ctx, c), domain.ErrCampaignExists)
		_, err := tx.GetCampaign(ctx, domain.CampaignKey{Advertiser: "adv", CampaignID: 2})
		require.ErrorIs(t, err, domain.ErrCampaignNotFound)
		_, err = tx.GetProvider(ctx, "nobody")
		require.ErrorIs(t, err, domain.ErrProviderNotFound)
		_, err = tx.GetFeed(ctx, 9)
		require.ErrorIs(t, err, domain.ErrFeedNotFound)
		require.NoError(t, tx.InsertRegistry(ctx, &domain.Registry{}))
		require.ErrorIs(t, tx.InsertRegistry(ctx, &domain.Registry{}), domain.ErrRegistryExists)
		return nil
	}))
}

func TestTransfer(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	require.NoError(t, s.WithinTx(ctx, func(ctx context.Context, tx port.Tx) error {
		require.NoError(t, tx.Credit(ctx, "alice", 100))
		require.NoError(t, tx.Transfer(ctx, "alice", "bob", 60))
		require.ErrorIs(t, tx.Transfer(ctx, "alice", "bob", 41), domain.ErrInsufficientFunds)
		return nil
	}))

	require.NoError(t, s.WithinTx(ctx, func(ctx context.Context, tx port.Tx) error {
		a, _ := tx.Balance(ctx, "alice")
		b, _ := tx.Balance(ctx, "bob")
		assert.Equal(t, uint64(40), a)
		assert.Equal(t, uint64(60), b)
		return nil
	}))
}
