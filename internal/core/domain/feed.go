package domain

import (
	"fmt"
	"math"
	"time"
)

// DeviceFeed is the oracle's running engagement totals for one device
// channel. Only Authority may push updates.
type DeviceFeed struct {
	ChannelID    uint32    `json:"channel_id"`
	LastEntryID  uint32    `json:"last_entry_id"`
	TotalViews   uint64    `json:"total_views"`
	TotalTaps    uint64    `json:"total_taps"`
	LastUpdateTS int64     `json:"last_update_ts"`
	Authority    Principal `json:"authority"`
}

// FeedEntry is one batch of deltas reported since the feed's watermark.
type FeedEntry struct {
	NewestEntryID uint32 `json:"newest_entry_id"`
	DeltaViews    uint64 `json:"delta_views"`
	DeltaTaps     uint64 `json:"delta_taps"`
}

// NewDeviceFeed returns an empty feed owned by authority.
func NewDeviceFeed(channelID uint32, authority Principal) (*DeviceFeed, error) {
	if !authority.Valid() {
		return nil, fmt.Errorf("%w: empty feed authority", ErrInvalidInput)
	}
	return &DeviceFeed{ChannelID: channelID, Authority: authority}, nil
}

// Apply folds an entry into the running totals. The watermark must strictly
// increase so totals stay monotonic.
func (f *DeviceFeed) Apply(signer Principal, e FeedEntry, now time.Time) error {
	if e.NewestEntryID <= f.LastEntryID {
		return fmt.Errorf("%w: entry %d <= watermark %d", ErrNoNewData, e.NewestEntryID, f.LastEntryID)
	}
	if signer != f.Authority {
		return fmt.Errorf("%w: %q", ErrBadAuthority, signer)
	}
	if f.TotalViews > math.MaxUint64-e.DeltaViews || f.TotalTaps > math.MaxUint64-e.DeltaTaps {
		return fmt.Errorf("%w: feed %d totals overflow", ErrCalculation, f.ChannelID)
	}
	f.TotalViews += e.DeltaViews
	f.TotalTaps += e.DeltaTaps
	f.LastEntryID = e.NewestEntryID
	f.LastUpdateTS = now.Unix()
	return nil
}

// Clone returns a copy.
func (f *DeviceFeed) Clone() *DeviceFeed {
	c := *f
	return &c
}
