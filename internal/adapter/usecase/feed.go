package usecase

import (
	"context"
	"fmt"

	"soulboard/internal/core/domain"
	"soulboard/internal/core/port"
)

// InitializeFeed creates the feed of channelID with caller as its authority.
func (u *MarketplaceUseCase) InitializeFeed(ctx context.Context, caller domain.Principal, channelID uint32) (*domain.DeviceFeed, error) {
	if !caller.Valid() {
		return nil, fmt.Errorf("initialize feed: %w: missing caller", domain.ErrUnauthorized)
	}
	f, err := domain.NewDeviceFeed(channelID, caller)
	if err != nil {
		return nil, fmt.Errorf("initialize feed: %w", err)
	}
	err = u.run(ctx, "initialize feed", func(ctx context.Context, tx port.Tx, out *outbox) error {
		if err := tx.InsertFeed(ctx, f); err != nil {
			return err
		}
		out.add(domain.EventDeviceFeedInitialized, domain.DeviceFeedInitialized{ChannelID: channelID, Authority: caller})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return f, nil
}

// UpdateFeed folds entry into the running totals. Only the feed authority may
// push, and only entries beyond the watermark.
func (u *MarketplaceUseCase) UpdateFeed(ctx context.Context, caller domain.Principal, channelID uint32, entry domain.FeedEntry) (*domain.DeviceFeed, error) {
	var updated *domain.DeviceFeed
	err := u.run(ctx, "update feed", func(ctx context.Context, tx port.Tx, out *outbox) error {
		f, err := tx.GetFeed(ctx, channelID)
		if err != nil {
			return err
		}
		if err = f.Apply(caller, entry, out.at); err != nil {
			return err
		}
		if err = tx.UpdateFeed(ctx, f); err != nil {
			return err
		}
		updated = f
		out.add(domain.EventDeviceFeedUpdated, domain.DeviceFeedUpdated{
			ChannelID:  channelID,
			NewEntryID: f.LastEntryID,
			DeltaViews: entry.DeltaViews,
			DeltaTaps:  entry.DeltaTaps,
			TotalViews: f.TotalViews,
			TotalTaps:  f.TotalTaps,
			Timestamp:  f.LastUpdateTS,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (u *MarketplaceUseCase) GetFeed(ctx context.Context, channelID uint32) (*domain.DeviceFeed, error) {
	var f *domain.DeviceFeed
	err := u.view(ctx, "get feed", func(ctx context.Context, tx port.Tx) (err error) {
		f, err = tx.GetFeed(ctx, channelID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return f, nil
}
