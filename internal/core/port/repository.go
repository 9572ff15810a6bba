package port

import (
	"context"

	"soulboard/internal/core/domain"
)

// Store is the ledger substrate. Every operation runs its reads and writes
// inside one WithinTx call; the callback's error aborts the whole unit and
// nothing it wrote is kept. Implementations must serialize concurrent
// transactions touching the same entity.
type Store interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

// Tx is the set of repositories visible inside one transaction. Entities
// returned by a Tx are owned by the caller until saved back.
type Tx interface {
	RegistryRepository
	ProviderRepository
	CampaignRepository
	FeedRepository
	Ledger
}

// RegistryRepository persists the single provider directory.
type RegistryRepository interface {
	// GetRegistry fails with domain.ErrRegistryNotInitialized before
	// InsertRegistry has run.
	GetRegistry(ctx context.Context) (*domain.Registry, error)
	// InsertRegistry fails with domain.ErrRegistryExists on a second call.
	InsertRegistry(ctx context.Context, r *domain.Registry) error
	UpdateRegistry(ctx context.Context, r *domain.Registry) error
}

// ProviderRepository persists providers keyed by principal.
type ProviderRepository interface {
	GetProvider(ctx context.Context, principal domain.Principal) (*domain.Provider, error)
	InsertProvider(ctx context.Context, p *domain.Provider) error
	UpdateProvider(ctx context.Context, p *domain.Provider) error
}

// CampaignRepository persists campaigns keyed by (advertiser, campaign_id).
type CampaignRepository interface {
	GetCampaign(ctx context.Context, key domain.CampaignKey) (*domain.Campaign, error)
	InsertCampaign(ctx context.Context, c *domain.Campaign) error
	UpdateCampaign(ctx context.Context, c *domain.Campaign) error
}

// FeedRepository persists oracle device feeds keyed by channel id.
type FeedRepository interface {
	GetFeed(ctx context.Context, channelID uint32) (*domain.DeviceFeed, error)
	InsertFeed(ctx context.Context, f *domain.DeviceFeed) error
	UpdateFeed(ctx context.Context, f *domain.DeviceFeed) error
}

// Ledger moves value between accounts. Unknown accounts have a zero balance.
type Ledger interface {
	Balance(ctx context.Context, account domain.Account) (uint64, error)
	// Transfer moves amount atomically and fails with
	// domain.ErrInsufficientFunds when from holds less than amount.
	Transfer(ctx context.Context, from, to domain.Account, amount uint64) error
	// Credit adds newly issued units to an account.
	Credit(ctx context.Context, to domain.Account, amount uint64) error
}
