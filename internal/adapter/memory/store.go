// Package memory is an in-process implementation of port.Store. A single
// mutex serializes transactions; each transaction works on cloned entities
// and publishes them only when its callback succeeds.
package memory

import (
	"context"
	"fmt"
	"math"
	"sync"

	"soulboard/internal/core/domain"
	"soulboard/internal/core/port"
)

// Store keeps every entity in maps guarded by one mutex.
type Store struct {
	mu        sync.Mutex
	registry  *domain.Registry
	providers map[domain.Principal]*domain.Provider
	campaigns map[domain.CampaignKey]*domain.Campaign
	feeds     map[uint32]*domain.DeviceFeed
	balances  map[domain.Account]uint64
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		providers: map[domain.Principal]*domain.Provider{},
		campaigns: map[domain.CampaignKey]*domain.Campaign{},
		feeds:     map[uint32]*domain.DeviceFeed{},
		balances:  map[domain.Account]uint64{},
	}
}

var _ port.Store = (*Store)(nil)

// WithinTx runs fn against a private view of the store and commits the view
// when fn returns nil.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, tx port.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	t := &tx{
		store:     s,
		providers: map[domain.Principal]*domain.Provider{},
		campaigns: map[domain.CampaignKey]*domain.Campaign{},
		feeds:     map[uint32]*domain.DeviceFeed{},
		balances:  map[domain.Account]uint64{},
	}
	if err := fn(ctx, t); err != nil {
		return err
	}
	t.commit()
	return nil
}

// tx stages writes until commit.
type tx struct {
	store       *Store
	registry    *domain.Registry
	registrySet bool
	providers   map[domain.Principal]*domain.Provider
	campaigns   map[domain.CampaignKey]*domain.Campaign
	feeds       map[uint32]*domain.DeviceFeed
	balances    map[domain.Account]uint64
}

func (t *tx) commit() {
	s := t.store
	if t.registrySet {
		s.registry = t.registry
	}
	for k, v := range t.providers {
		s.providers[k] = v
	}
	for k, v := range t.campaigns {
		s.campaigns[k] = v
	}
	for k, v := range t.feeds {
		s.feeds[k] = v
	}
	for k, v := range t.balances {
		s.balances[k] = v
	}
}

func (t *tx) GetRegistry(context.Context) (*domain.Registry, error) {
	r := t.registry
	if !t.registrySet {
		r = t.store.registry
	}
	if r == nil {
		return nil, domain.ErrRegistryNotInitialized
	}
	return r.Clone(), nil
}

func (t *tx) InsertRegistry(ctx context.Context, r *domain.Registry) error {
	if _, err := t.GetRegistry(ctx); err == nil {
		return domain.ErrRegistryExists
	}
	t.registry, t.registrySet = r.Clone(), true
	return nil
}

func (t *tx) UpdateRegistry(ctx context.Context, r *domain.Registry) error {
	if _, err := t.GetRegistry(ctx); err != nil {
		return err
	}
	t.registry, t.registrySet = r.Clone(), true
	return nil
}

func (t *tx) provider(principal domain.Principal) (*domain.Provider, bool) {
	if p, ok := t.providers[principal]; ok {
		return p, true
	}
	p, ok := t.store.providers[principal]
	return p, ok
}

func (t *tx) GetProvider(_ context.Context, principal domain.Principal) (*domain.Provider, error) {
	p, ok := t.provider(principal)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrProviderNotFound, principal)
	}
	return p.Clone(), nil
}

func (t *tx) InsertProvider(_ context.Context, p *domain.Provider) error {
	if _, ok := t.provider(p.Principal); ok {
		return fmt.Errorf("%w: %s", domain.ErrProviderExists, p.Principal)
	}
	t.providers[p.Principal] = p.Clone()
	return nil
}

func (t *tx) UpdateProvider(_ context.Context, p *domain.Provider) error {
	if _, ok := t.provider(p.Principal); !ok {
		return fmt.Errorf("%w: %s", domain.ErrProviderNotFound, p.Principal)
	}
	t.providers[p.Principal] = p.Clone()
	return nil
}

func (t *tx) campaign(key domain.CampaignKey) (*domain.Campaign, bool) {
	if c, ok := t.campaigns[key]; ok {
		return c, true
	}
	c, ok := t.store.campaigns[key]
	return c, ok
}

func (t *tx) GetCampaign(_ context.Context, key domain.CampaignKey) (*domain.Campaign, error) {
	c, ok := t.campaign(key)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrCampaignNotFound, key)
	}
	return c.Clone(), nil
}

func (t *tx) InsertCampaign(_ context.Context, c *domain.Campaign) error {
	if _, ok := t.campaign(c.Key); ok {
		return fmt.Errorf("%w: %s", domain.ErrCampaignExists, c.Key)
	}
	t.campaigns[c.Key] = c.Clone()
	return nil
}

func (t *tx) UpdateCampaign(_ context.Context, c *domain.Campaign) error {
	if _, ok := t.campaign(c.Key); !ok {
		return fmt.Errorf("%w: %s", domain.ErrCampaignNotFound, c.Key)
	}
	t.campaigns[c.Key] = c.Clone()
	return nil
}

func (t *tx) feed(id uint32) (*domain.DeviceFeed, bool) {
	if f, ok := t.feeds[id]; ok {
		return f, true
	}
	f, ok := t.store.feeds[id]
	return f, ok
}

func (t *tx) GetFeed(_ context.Context, channelID uint32) (*domain.DeviceFeed, error) {
	f, ok := t.feed(channelID)
	if !ok {
		return nil, fmt.Errorf("%w: channel %d", domain.ErrFeedNotFound, channelID)
	}
	return f.Clone(), nil
}

func (t *tx) InsertFeed(_ context.Context, f *domain.DeviceFeed) error {
	if _, ok := t.feed(f.ChannelID); ok {
		return fmt.Errorf("%w: channel %d", domain.ErrFeedExists, f.ChannelID)
	}
	t.feeds[f.ChannelID] = f.Clone()
	return nil
}

func (t *tx) UpdateFeed(_ context.Context, f *domain.DeviceFeed) error {
	if _, ok := t.feed(f.ChannelID); !ok {
		return fmt.Errorf("%w: channel %d", domain.ErrFeedNotFound, f.ChannelID)
	}
	t.feeds[f.ChannelID] = f.Clone()
	return nil
}

func (t *tx) Balance(_ context.Context, account domain.Account) (uint64, error) {
	if v, ok := t.balances[account]; ok {
		return v, nil
	}
	return t.store.balances[account], nil
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
	t.balances[from] = src - amount
	t.balances[to] = dst + amount
	return nil
}

func (t *tx) Credit(ctx context.Context, to domain.Account, amount uint64) error {
	dst, err := t.Balance(ctx, to)
	if err != nil {
		return err
	}
	if dst > math.MaxUint64-amount {
		return fmt.Errorf("%w: balance of %s overflows", domain.ErrCalculation, to)
	}
	t.balances[to] = dst + amount
	return nil
}
