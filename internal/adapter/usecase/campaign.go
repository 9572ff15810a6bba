package usecase

import (
	"context"
	"fmt"

	"soulboard/internal/core/domain"
	"soulboard/internal/core/port"
)

// CreateCampaign creates an Active campaign owned by caller. The storage key
// rejects a campaign id the advertiser already used.
func (u *MarketplaceUseCase) CreateCampaign(ctx context.Context, caller domain.Principal, in port.CreateCampaignInput) (*domain.Campaign, error) {
	if !caller.Valid() {
		return nil, fmt.Errorf("create campaign: %w: missing caller", domain.ErrUnauthorized)
	}
	key := domain.CampaignKey{Advertiser: caller, CampaignID: in.CampaignID}
	c, err := domain.NewCampaign(key, in.Name, in.Description, domain.Schedule{
		RunningDays:    in.RunningDays,
		HoursPerDay:    in.HoursPerDay,
		BaseFeePerHour: in.BaseFeePerHour,
	})
	if err != nil {
		return nil, fmt.Errorf("create campaign: %w", err)
	}
	err = u.run(ctx, "create campaign", func(ctx context.Context, tx port.Tx, out *outbox) error {
		if err := tx.InsertCampaign(ctx, c); err != nil {
			return err
		}
		out.add(domain.EventCampaignCreated, domain.CampaignCreated{Campaign: key})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (u *MarketplaceUseCase) GetCampaign(ctx context.Context, key domain.CampaignKey) (*domain.Campaign, error) {
	var c *domain.Campaign
	err := u.view(ctx, "get campaign", func(ctx context.Context, tx port.Tx) (err error) {
		c, err = tx.GetCampaign(ctx, key)
		return err
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// FundCampaign moves amount from the advertiser's account into the
// campaign's escrow and records it on the budget.
func (u *MarketplaceUseCase) FundCampaign(ctx context.Context, caller domain.Principal, key domain.CampaignKey, amount uint64) (*domain.Campaign, error) {
	if amount == 0 {
		return nil, fmt.Errorf("fund campaign: %w: zero amount", domain.ErrInvalidInput)
	}
	return u.mutateCampaign(ctx, "fund campaign", caller, key, func(ctx context.Context, tx port.Tx, c *domain.Campaign, out *outbox) error {
		if err := c.Fund(amount); err != nil {
			return err
		}
		if err := tx.Transfer(ctx, domain.AccountOf(caller), key.EscrowAccount(), amount); err != nil {
			return err
		}
		out.add(domain.EventBudgetAdded, domain.BudgetAdded{Campaign: key, Amount: amount, Budget: c.Budget})
		return nil
	})
}

// AddLocation books device deviceID of the provider whose principal is
// location into the campaign.
func (u *MarketplaceUseCase) AddLocation(ctx context.Context, caller domain.Principal, key domain.CampaignKey, location domain.Principal, deviceID uint32) (*domain.Campaign, error) {
	return u.mutateCampaign(ctx, "add location", caller, key, func(ctx context.Context, tx port.Tx, c *domain.Campaign, out *outbox) error {
		p, err := tx.GetProvider(ctx, location)
		if err != nil {
			return err
		}
		if err = domain.Book(p, deviceID, c, location); err != nil {
			return err
		}
		if err = tx.UpdateProvider(ctx, p); err != nil {
			return err
		}
		out.add(domain.EventLocationAdded, domain.LocationAdded{Campaign: key, Location: location, DeviceID: deviceID})
		out.add(domain.EventProviderMetadataUpdated, domain.ProviderMetadataUpdated{Provider: p.Principal, AvailableDevices: p.AvailableDevices})
		return nil
	})
}

// RemoveLocation releases deviceID and strips every campaign entry of the
// provider and of location. See domain.Unbook for the matching rule.
func (u *MarketplaceUseCase) RemoveLocation(ctx context.Context, caller domain.Principal, key domain.CampaignKey, location domain.Principal, deviceID uint32) (*domain.Campaign, error) {
	return u.mutateCampaign(ctx, "remove location", caller, key, func(ctx context.Context, tx port.Tx, c *domain.Campaign, out *outbox) error {
		p, err := tx.GetProvider(ctx, location)
		if err != nil {
			return err
		}
		if err = domain.Unbook(p, deviceID, c, location); err != nil {
			return err
		}
		if err = tx.UpdateProvider(ctx, p); err != nil {
			return err
		}
		out.add(domain.EventLocationRemoved, domain.LocationRemoved{Campaign: key, Location: location, DeviceID: deviceID})
		out.add(domain.EventProviderMetadataUpdated, domain.ProviderMetadataUpdated{Provider: p.Principal, AvailableDevices: p.AvailableDevices})
		return nil
	})
}

// PullPerformance replaces the row's counters with the device feed's
// running totals. No delta is computed.
func (u *MarketplaceUseCase) PullPerformance(ctx context.Context, caller domain.Principal, key domain.CampaignKey, deviceID uint32) (domain.ProviderPerformance, error) {
	var row domain.ProviderPerformance
	_, err := u.mutateCampaign(ctx, "pull performance", caller, key, func(ctx context.Context, tx port.Tx, c *domain.Campaign, out *outbox) error {
		if _, err := c.PerformanceForDevice(deviceID); err != nil {
			return err
		}
		feed, err := tx.GetFeed(ctx, deviceID)
		if err != nil {
			return err
		}
		updated, err := c.RecordEngagement(deviceID, feed.TotalViews, feed.TotalTaps)
		if err != nil {
			return err
		}
		row = *updated
		out.add(domain.EventPerformanceUpdated, domain.PerformanceUpdated{
			Campaign:   key,
			DeviceID:   deviceID,
			TotalViews: row.TotalViews,
			TotalTaps:  row.TotalTaps,
		})
		return nil
	})
	if err != nil {
		return domain.ProviderPerformance{}, err
	}
	return row, nil
}

func (u *MarketplaceUseCase) PauseCampaign(ctx context.Context, caller domain.Principal, key domain.CampaignKey) (*domain.Campaign, error) {
	return u.transition(ctx, "pause campaign", domain.EventCampaignPaused, caller, key, (*domain.Campaign).Pause)
}

func (u *MarketplaceUseCase) ResumeCampaign(ctx context.Context, caller domain.Principal, key domain.CampaignKey) (*domain.Campaign, error) {
	return u.transition(ctx, "resume campaign", domain.EventCampaignResumed, caller, key, (*domain.Campaign).Resume)
}

// CompleteCampaign is one-way; a completed campaign can only be distributed.
func (u *MarketplaceUseCase) CompleteCampaign(ctx context.Context, caller domain.Principal, key domain.CampaignKey) (*domain.Campaign, error) {
	return u.transition(ctx, "complete campaign", domain.EventCampaignCompleted, caller, key, (*domain.Campaign).Complete)
}

func (u *MarketplaceUseCase) transition(ctx context.Context, op, event string, caller domain.Principal, key domain.CampaignKey, step func(*domain.Campaign) error) (*domain.Campaign, error) {
	return u.mutateCampaign(ctx, op, caller, key, func(_ context.Context, _ port.Tx, c *domain.Campaign, out *outbox) error {
		if err := step(c); err != nil {
			return err
		}
		out.add(event, domain.CampaignStatusChanged{Campaign: key, Status: c.Status})
		return nil
	})
}

// mutateCampaign loads the campaign, checks caller is its advertiser, runs
// fn and saves the campaign back when fn succeeds.
func (u *MarketplaceUseCase) mutateCampaign(
	ctx context.Context,
	op string,
	caller domain.Principal,
	key domain.CampaignKey,
	fn func(ctx context.Context, tx port.Tx, c *domain.Campaign, out *outbox) error,
) (*domain.Campaign, error) {
	if err := domain.Authorize(caller, key.Advertiser); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	var saved *domain.Campaign
	err := u.run(ctx, op, func(ctx context.Context, tx port.Tx, out *outbox) error {
		c, err := tx.GetCampaign(ctx, key)
		if err != nil {
			return err
		}
		if err = fn(ctx, tx, c, out); err != nil {
			return err
		}
		if err = tx.UpdateCampaign(ctx, c); err != nil {
			return err
		}
		saved = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}
