package domain

import "time"

// Notification names emitted after a committed operation.
const (
	EventRegistryInitialized     = "registry_initialized"
	EventProviderRegistered      = "provider_registered"
	EventProviderMetadataUpdated = "provider_metadata_updated"
	EventDeviceOrdered           = "device_ordered"
	EventDeviceStateChanged      = "device_state_changed"
	EventCampaignCreated         = "campaign_created"
	EventBudgetAdded             = "budget_added"
	EventLocationAdded           = "location_added"
	EventLocationRemoved         = "location_removed"
	EventPerformanceUpdated      = "performance_updated"
	EventCampaignPaused          = "campaign_paused"
	EventCampaignResumed         = "campaign_resumed"
	EventCampaignCompleted       = "campaign_completed"
	EventFeesCalculated          = "fees_calculated"
	EventEarningsWithdrawn       = "earnings_withdrawn"
	EventDeviceFeedInitialized   = "device_feed_initialized"
	EventDeviceFeedUpdated       = "device_feed_updated"
	EventAccountCredited         = "account_credited"
)

// Event is a notification about a committed state change.
type Event struct {
	Name       string
	OccurredAt time.Time
	Data       any
}

type RegistryInitialized struct {
	Operator Principal `json:"operator"`
}

type ProviderRegistered struct {
	Principal Principal `json:"principal"`
	Name      string    `json:"name"`
	Location  string    `json:"location"`
}

type ProviderMetadataUpdated struct {
	Provider         Principal `json:"provider"`
	AvailableDevices uint32    `json:"available_devices"`
}

type DeviceOrderedEvent struct {
	Provider Principal   `json:"provider"`
	DeviceID uint32      `json:"device_id"`
	State    DeviceState `json:"state"`
}

type DeviceStateChanged struct {
	Provider Principal   `json:"provider"`
	DeviceID uint32      `json:"device_id"`
	State    DeviceState `json:"state"`
}

type CampaignCreated struct {
	Campaign CampaignKey `json:"campaign"`
}

type BudgetAdded struct {
	Campaign CampaignKey `json:"campaign"`
	Amount   uint64      `json:"amount"`
	Budget   uint64      `json:"budget"`
}

type LocationAdded struct {
	Campaign CampaignKey `json:"campaign"`
	Location Principal   `json:"location"`
	DeviceID uint32      `json:"device_id"`
}

type LocationRemoved struct {
	Campaign CampaignKey `json:"campaign"`
	Location Principal   `json:"location"`
	DeviceID uint32      `json:"device_id"`
}

type PerformanceUpdated struct {
	Campaign   CampaignKey `json:"campaign"`
	DeviceID   uint32      `json:"device_id"`
	TotalViews uint64      `json:"total_views"`
	TotalTaps  uint64      `json:"total_taps"`
}

type CampaignStatusChanged struct {
	Campaign CampaignKey    `json:"campaign"`
	Status   CampaignStatus `json:"status"`
}

type FeesCalculated struct {
	Campaign         CampaignKey `json:"campaign"`
	TotalDistributed uint64      `json:"total_distributed"`
}

type EarningsWithdrawn struct {
	Provider Principal   `json:"provider"`
	Campaign CampaignKey `json:"campaign"`
	Amount   uint64      `json:"amount"`
}

type DeviceFeedInitialized struct {
	ChannelID uint32    `json:"channel_id"`
	Authority Principal `json:"authority"`
}

type DeviceFeedUpdated struct {
	ChannelID  uint32 `json:"channel_id"`
	NewEntryID uint32 `json:"new_entry_id"`
	DeltaViews uint64 `json:"delta_views"`
	DeltaTaps  uint64 `json:"delta_taps"`
	TotalViews uint64 `json:"total_views"`
	TotalTaps  uint64 `json:"total_taps"`
	Timestamp  int64  `json:"ts"`
}

type AccountCredited struct {
	Account Account `json:"account"`
	Amount  uint64  `json:"amount"`
}
