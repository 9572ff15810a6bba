package postgres

import (
	"context"
	"fmt"

	"soulboard/internal/core/domain"
)

// GetFeed returns a device feed by channel id, locking its row.
func (t *tx) GetFeed(ctx context.Context, channelID uint32) (*domain.DeviceFeed, error) {
	var f domain.DeviceFeed
	err := t.getDoc(ctx, &f, fmt.Errorf("%w: channel %d", domain.ErrFeedNotFound, channelID),
		`SELECT data FROM device_feeds WHERE channel_id = $1 FOR UPDATE`, int64(channelID))
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (t *tx) InsertFeed(ctx context.Context, f *domain.DeviceFeed) error {
	doc, err := marshalDoc(f)
	if err != nil {
		return err
	}
	return t.execOne(ctx, fmt.Errorf("%w: channel %d", domain.ErrFeedExists, f.ChannelID),
		`INSERT INTO device_feeds (channel_id, data, updated_at) VALUES ($1, $2, now()) ON CONFLICT DO NOTHING`,
		int64(f.ChannelID), doc)
}

func (t *tx) UpdateFeed(ctx context.Context, f *domain.DeviceFeed) error {
	doc, err := marshalDoc(f)
	if err != nil {
		return err
	}
	return t.execOne(ctx, fmt.Errorf("%w: channel %d", domain.ErrFeedNotFound, f.ChannelID),
		`UPDATE device_feeds SET data = $2, updated_at = now() WHERE channel_id = $1`,
		int64(f.ChannelID), doc)
}
