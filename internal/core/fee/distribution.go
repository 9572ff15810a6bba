// Package fee converts a completed campaign's engagement counters into
// per-provider payouts.
//
// Every provider is paid the full base fee for the whole schedule. What is
// left of the budget after all base fees and the campaign-level platform fee
// is shared in proportion to views, rounded down; the rounding remainder stays
// in escrow. A second platform fee is then withheld from each provider's gross
// payout, so the platform's total take exceeds a flat percentage of the
// budget.
package fee

import (
	"fmt"

	"soulboard/internal/core/domain"
)

// Payout is the computed split for one performance row.
type Payout struct {
	Provider    domain.Principal `json:"provider"`
	DeviceID    uint32           `json:"device_id"`
	BaseFee     uint64           `json:"base_fee"`
	Performance uint64           `json:"performance_fee"`
	PlatformFee uint64           `json:"platform_fee"`
	Earnings    uint64           `json:"earnings"`
}

// Summary describes one distribution run.
type Summary struct {
	TotalCampaignHours       uint64   `json:"total_campaign_hours"`
	TotalBaseFees            uint64   `json:"total_base_fees"`
	PlatformFee              uint64   `json:"platform_fee"`
	AvailableForDistribution uint64   `json:"available_for_distribution"`
	TotalViews               uint64   `json:"total_views"`
	TotalDistributed         uint64   `json:"total_distributed"`
	Payouts                  []Payout `json:"payouts"`
}

// Compute derives the payouts of c without touching it.
func Compute(c *domain.Campaign) (Summary, error) {
	if c.Status != domain.CampaignCompleted {
		return Summary{}, fmt.Errorf("%w: campaign %s is %s", domain.ErrCampaignNotCompleted, c.Key, c.Status)
	}

	hours, err := mul(uint64(c.Schedule.RunningDays), uint64(c.Schedule.HoursPerDay))
	if err != nil {
		return Summary{}, err
	}
	// running_days * hours_per_day is a u32 product in the persisted layout.
	if hours > uint64(^uint32(0)) {
		return Summary{}, fmt.Errorf("%w: campaign hours %d exceed 32 bits", domain.ErrCalculation, hours)
	}
	baseFee, err := mul(hours, c.Schedule.BaseFeePerHour)
	if err != nil {
		return Summary{}, err
	}
	totalBaseFees, err := mul(baseFee, uint64(c.Providers.Len()))
	if err != nil {
		return Summary{}, err
	}
	available, err := sub(c.Budget, totalBaseFees, domain.ErrInsufficientBudget)
	if err != nil {
		return Summary{}, err
	}
	available, err = sub(available, c.PlatformFee, domain.ErrInsufficientBudget)
	if err != nil {
		return Summary{}, err
	}

	var totalViews uint64
	for _, row := range c.Performance.All() {
		if totalViews, err = add(totalViews, row.TotalViews); err != nil {
			return Summary{}, err
		}
	}
	if totalViews == 0 {
		return Summary{}, fmt.Errorf("%w: campaign %s", domain.ErrNoViews, c.Key)
	}

	s := Summary{
		TotalCampaignHours:       hours,
		TotalBaseFees:            totalBaseFees,
		PlatformFee:              c.PlatformFee,
		AvailableForDistribution: available,
		TotalViews:               totalViews,
		Payouts:                  make([]Payout, 0, c.Performance.Len()),
	}
	for _, row := range c.Performance.All() {
		share, err := mulDiv(available, row.TotalViews, totalViews)
		if err != nil {
			return Summary{}, err
		}
		gross, err := add(baseFee, share)
		if err != nil {
			return Summary{}, err
		}
		cut, err := mulDiv(gross, domain.PlatformFeePercent, 100)
		if err != nil {
			return Summary{}, err
		}
		earnings, err := sub(gross, cut, domain.ErrCalculation)
		if err != nil {
			return Summary{}, err
		}
		if s.TotalDistributed, err = add(s.TotalDistributed, earnings); err != nil {
			return Summary{}, err
		}
		s.Payouts = append(s.Payouts, Payout{
			Provider:    row.Provider,
			DeviceID:    row.DeviceID,
			BaseFee:     baseFee,
			Performance: share,
			PlatformFee: cut,
			Earnings:    earnings,
		})
	}
	return s, nil
}

// Distribute computes the payouts and writes them onto c's performance rows.
// On error c is left unchanged.
func Distribute(c *domain.Campaign) (Summary, error) {
	s, err := Compute(c)
	if err != nil {
		return Summary{}, err
	}
	for i, p := range s.Payouts {
		row := c.Performance.At(i)
		row.BaseFeeEarned = p.BaseFee
		row.PerformanceFeeEarned = p.Performance
		row.CalculatedEarnings = p.Earnings
	}
	c.TotalDistributed = s.TotalDistributed
	return s, nil
}
