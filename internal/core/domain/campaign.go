package domain

import (
	"fmt"
	"math"
)

// CampaignStatus is the lifecycle state of a campaign.
type CampaignStatus uint8

const (
	CampaignActive CampaignStatus = iota
	CampaignPaused
	CampaignCompleted
)

var campaignStatusNames = [...]string{"active", "paused", "completed"}

func (s CampaignStatus) String() string {
	if int(s) < len(campaignStatusNames) {
		return campaignStatusNames[s]
	}
	return fmt.Sprintf("campaign_status(%d)", uint8(s))
}

func (s CampaignStatus) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *CampaignStatus) UnmarshalText(b []byte) error {
	for i, name := range campaignStatusNames {
		if string(b) == name {
			*s = CampaignStatus(i)
			return nil
		}
	}
	return fmt.Errorf("%w: unknown campaign status %q", ErrInvalidInput, b)
}

// ProviderPerformance holds engagement counters and computed earnings for one
// booked (provider, device).
type ProviderPerformance struct {
	Provider             Principal `json:"provider"`
	DeviceID             uint32    `json:"device_id"`
	TotalViews           uint64    `json:"total_views"`
	TotalTaps            uint64    `json:"total_taps"`
	CalculatedEarnings   uint64    `json:"calculated_earnings"`
	BaseFeeEarned        uint64    `json:"base_fee_earned"`
	PerformanceFeeEarned uint64    `json:"performance_fee_earned"`
	Withdrawn            bool      `json:"withdrawn,omitempty"`
}

// Schedule is the booking window and hourly base rate of a campaign.
type Schedule struct {
	RunningDays    uint32 `json:"running_days"`
	HoursPerDay    uint32 `json:"hours_per_day"`
	BaseFeePerHour uint64 `json:"base_fee_per_hour"`
}

// Campaign is an advertiser-funded booking of one or more devices.
type Campaign struct {
	Key              CampaignKey     `json:"key"`
	Name             string          `json:"name"`
	Description      string          `json:"description"`
	Budget           uint64          `json:"budget"`
	Status           CampaignStatus  `json:"status"`
	Providers        ProviderList    `json:"providers"`
	Locations        LocationList    `json:"locations"`
	Schedule         Schedule        `json:"schedule"`
	PlatformFee      uint64          `json:"platform_fee"`
	TotalDistributed uint64          `json:"total_distributed"`
	Performance      PerformanceList `json:"performance"`
	Distributed      bool            `json:"distributed,omitempty"`
}

// NewCampaign returns an Active campaign with zero budget and no bookings.
// Uniqueness of the key is the storage layer's concern.
func NewCampaign(key CampaignKey, name, description string, schedule Schedule) (*Campaign, error) {
	if !key.Advertiser.Valid() {
		return nil, fmt.Errorf("%w: empty advertiser", ErrInvalidInput)
	}
	if err := checkLength("campaign name", name, MaxCampaignNameLength); err != nil {
		return nil, err
	}
	if err := checkLength("campaign description", description, MaxCampaignDescriptionLength); err != nil {
		return nil, err
	}
	return &Campaign{
		Key:         key,
		Name:        name,
		Description: description,
		Status:      CampaignActive,
		Schedule:    schedule,
	}, nil
}

// Fund records amount on the budget after the caller has moved it into
// escrow. The platform fee is recomputed against the whole budget.
func (c *Campaign) Fund(amount uint64) error {
	if c.Budget > math.MaxUint64-amount {
		return fmt.Errorf("%w: budget overflow", ErrCalculation)
	}
	budget := c.Budget + amount
	fee, err := percentOf(budget, PlatformFeePercent)
	if err != nil {
		return err
	}
	c.Budget = budget
	c.PlatformFee = fee
	return nil
}

// Complete moves an Active campaign to Completed. There is no way back.
func (c *Campaign) Complete() error {
	if c.Status != CampaignActive {
		return fmt.Errorf("%w: campaign %s is %s", ErrCampaignNotActive, c.Key, c.Status)
	}
	c.Status = CampaignCompleted
	return nil
}

// Pause moves an Active campaign to Paused.
func (c *Campaign) Pause() error {
	if c.Status != CampaignActive {
		return fmt.Errorf("%w: campaign %s is %s", ErrCampaignNotActive, c.Key, c.Status)
	}
	c.Status = CampaignPaused
	return nil
}

// Resume moves a Paused campaign back to Active.
func (c *Campaign) Resume() error {
	if c.Status != CampaignPaused {
		return fmt.Errorf("%w: campaign %s is %s", ErrCampaignNotPaused, c.Key, c.Status)
	}
	c.Status = CampaignActive
	return nil
}

// PerformanceForDevice returns the first row booked with deviceID.
func (c *Campaign) PerformanceForDevice(deviceID uint32) (*ProviderPerformance, error) {
	row, ok := c.Performance.Find(func(p ProviderPerformance) bool { return p.DeviceID == deviceID })
	if !ok {
		return nil, fmt.Errorf("%w: campaign %s has no row for device %d", ErrDeviceNotFound, c.Key, deviceID)
	}
	return row, nil
}

// PerformanceForProvider returns the first row booked by provider.
func (c *Campaign) PerformanceForProvider(provider Principal) (*ProviderPerformance, error) {
	row, ok := c.Performance.Find(func(p ProviderPerformance) bool { return p.Provider == provider })
	if !ok {
		return nil, fmt.Errorf("%w: %s in campaign %s", ErrProviderNotInCampaign, provider, c.Key)
	}
	return row, nil
}

// RecordEngagement overwrites a row's counters with the feed's running totals.
func (c *Campaign) RecordEngagement(deviceID uint32, views, taps uint64) (*ProviderPerformance, error) {
	row, err := c.PerformanceForDevice(deviceID)
	if err != nil {
		return nil, err
	}
	row.TotalViews = views
	row.TotalTaps = taps
	return row, nil
}

// Clone returns a deep copy.
func (c *Campaign) Clone() *Campaign {
	cp := *c
	cp.Providers = c.Providers.Clone()
	cp.Locations = c.Locations.Clone()
	cp.Performance = c.Performance.Clone()
	return &cp
}

func percentOf(v, pct uint64) (uint64, error) {
	if pct != 0 && v > math.MaxUint64/pct {
		return 0, fmt.Errorf("%w: %d * %d overflows", ErrCalculation, v, pct)
	}
	return v * pct / 100, nil
}
