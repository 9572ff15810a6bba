package domain

import "soulboard/internal/core/arena"

// Ceilings of every bounded entity. They mirror the persisted layout and must
// not change without a data migration.
const (
	MaxProvidersInRegistry    = 50
	MaxDevicesPerProvider     = 10
	MaxProvidersPerCampaign   = 20
	MaxLocationsPerCampaign   = 20
	MaxPerformancePerCampaign = 20

	MaxNameLength                = 32
	MaxLocationLength            = 64
	MaxContactLength             = 32
	MaxCampaignNameLength        = 20
	MaxCampaignDescriptionLength = 100

	// PlatformFeePercent is applied once to the campaign budget and once to
	// every provider's gross payout.
	PlatformFeePercent = 2

	DefaultProviderRating = 50
	MaxProviderRating     = 100
)

type registryCap struct{}

func (registryCap) Limit() int { return MaxProvidersInRegistry }

type devicesCap struct{}

func (devicesCap) Limit() int { return MaxDevicesPerProvider }

type campaignProvidersCap struct{}

func (campaignProvidersCap) Limit() int { return MaxProvidersPerCampaign }

type campaignLocationsCap struct{}

func (campaignLocationsCap) Limit() int { return MaxLocationsPerCampaign }

type performanceCap struct{}

func (performanceCap) Limit() int { return MaxPerformancePerCampaign }

type (
	// RegistryList holds registered provider principals.
	RegistryList = arena.List[Principal, registryCap]
	// DeviceList holds a provider's devices.
	DeviceList = arena.List[Device, devicesCap]
	// ProviderList holds the providers booked into a campaign.
	ProviderList = arena.List[Principal, campaignProvidersCap]
	// LocationList holds the location keys booked into a campaign.
	LocationList = arena.List[Principal, campaignLocationsCap]
	// PerformanceList holds one row per booked (provider, device).
	PerformanceList = arena.List[ProviderPerformance, performanceCap]
)
