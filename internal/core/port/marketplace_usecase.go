package port

import (
	"context"
	"time"

	"soulboard/internal/core/domain"
	"soulboard/internal/core/fee"
)

// MarketplaceUseCase is the inbound port of the settlement core. Every
// mutating call takes the caller principal explicitly and checks it against
// the authority recorded on the entity before changing anything.
type MarketplaceUseCase interface {
	// InitializeRegistry creates the provider directory. Only the operator
	// may call it, once.
	InitializeRegistry(ctx context.Context, caller domain.Principal) error
	// RegisterProvider registers caller as a provider with default rating.
	RegisterProvider(ctx context.Context, caller domain.Principal, in RegisterProviderInput) (*domain.Provider, error)
	// UpdateProvider applies the present fields of the update.
	UpdateProvider(ctx context.Context, caller domain.Principal, in domain.ProviderUpdate) (*domain.Provider, error)
	// ListProviders returns lookup metadata in registration order.
	ListProviders(ctx context.Context) ([]domain.ProviderMetadata, error)
	GetProvider(ctx context.Context, principal domain.Principal) (*domain.Provider, error)

	// AcquireDevice adds an Available device to caller's provider record.
	AcquireDevice(ctx context.Context, caller domain.Principal, deviceID uint32) (domain.Device, error)
	// SetDeviceState moves a non-booked device between administrative states.
	SetDeviceState(ctx context.Context, caller domain.Principal, deviceID uint32, state domain.DeviceState) error

	CreateCampaign(ctx context.Context, caller domain.Principal, in CreateCampaignInput) (*domain.Campaign, error)
	GetCampaign(ctx context.Context, key domain.CampaignKey) (*domain.Campaign, error)
	// FundCampaign moves amount from the advertiser into campaign escrow.
	FundCampaign(ctx context.Context, caller domain.Principal, key domain.CampaignKey, amount uint64) (*domain.Campaign, error)
	// AddLocation books device deviceID of the provider identified by
	// location into the campaign.
	AddLocation(ctx context.Context, caller domain.Principal, key domain.CampaignKey, location domain.Principal, deviceID uint32) (*domain.Campaign, error)
	// RemoveLocation releases the device and strips the campaign's entries
	// for location.
	RemoveLocation(ctx context.Context, caller domain.Principal, key domain.CampaignKey, location domain.Principal, deviceID uint32) (*domain.Campaign, error)
	// PullPerformance copies the device feed's running totals into the
	// campaign's performance row.
	PullPerformance(ctx context.Context, caller domain.Principal, key domain.CampaignKey, deviceID uint32) (domain.ProviderPerformance, error)
	PauseCampaign(ctx context.Context, caller domain.Principal, key domain.CampaignKey) (*domain.Campaign, error)
	ResumeCampaign(ctx context.Context, caller domain.Principal, key domain.CampaignKey) (*domain.Campaign, error)
	CompleteCampaign(ctx context.Context, caller domain.Principal, key domain.CampaignKey) (*domain.Campaign, error)
	// DistributeFees computes every provider's earnings of a completed
	// campaign.
	DistributeFees(ctx context.Context, caller domain.Principal, key domain.CampaignKey) (fee.Summary, error)
	// Withdraw pays caller's computed earnings out of campaign escrow.
	Withdraw(ctx context.Context, caller domain.Principal, key domain.CampaignKey) (uint64, error)

	// InitializeFeed creates the feed of a device channel owned by caller.
	InitializeFeed(ctx context.Context, caller domain.Principal, channelID uint32) (*domain.DeviceFeed, error)
	// UpdateFeed folds a batch of deltas into the feed's running totals.
	UpdateFeed(ctx context.Context, caller domain.Principal, channelID uint32, entry domain.FeedEntry) (*domain.DeviceFeed, error)
	GetFeed(ctx context.Context, channelID uint32) (*domain.DeviceFeed, error)

	// Credit issues units to an account. Only the operator may call it.
	Credit(ctx context.Context, caller domain.Principal, account domain.Account, amount uint64) (uint64, error)
	Balance(ctx context.Context, account domain.Account) (uint64, error)
}

// RegisterProviderInput carries the provider's directory strings.
type RegisterProviderInput struct {
	Name     string `json:"name"`
	Location string `json:"location"`
	Contact  string `json:"contact"`
}

// CreateCampaignInput carries the identity and schedule of a new campaign.
type CreateCampaignInput struct {
	CampaignID     uint32 `json:"campaign_id"`
	Name           string `json:"name"`
	Description    string `json:"description"`
	RunningDays    uint32 `json:"running_days"`
	HoursPerDay    uint32 `json:"hours_per_day"`
	BaseFeePerHour uint64 `json:"base_fee_per_hour"`
}

// Clock returns the current time. It is injected so feed timestamps are
// deterministic in tests.
type Clock func() time.Time
