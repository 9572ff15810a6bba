package postgres

import (
	"context"
	"fmt"

	"soulboard/internal/core/domain"
)

// GetCampaign returns a campaign by key, locking its row.
func (t *tx) GetCampaign(ctx context.Context, key domain.CampaignKey) (*domain.Campaign, error) {
	var c domain.Campaign
	err := t.getDoc(ctx, &c, fmt.Errorf("%w: %s", domain.ErrCampaignNotFound, key),
		`SELECT data FROM campaigns WHERE advertiser = $1 AND campaign_id = $2 FOR UPDATE`,
		string(key.Advertiser), int64(key.CampaignID))
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// InsertCampaign stores a new campaign. The primary key enforces campaign id
// uniqueness per advertiser.
func (t *tx) InsertCampaign(ctx context.Context, c *domain.Campaign) error {
	doc, err := marshalDoc(c)
	if err != nil {
		return err
	}
	return t.execOne(ctx, fmt.Errorf("%w: %s", domain.ErrCampaignExists, c.Key),
		`INSERT INTO campaigns (advertiser, campaign_id, status, data, created_at, updated_at)
VALUES ($1, $2, $3, $4, now(), now()) ON CONFLICT DO NOTHING`,
		string(c.Key.Advertiser), int64(c.Key.CampaignID), c.Status.String(), doc)
}

// UpdateCampaign overwrites an existing campaign.
func (t *tx) UpdateCampaign(ctx context.Context, c *domain.Campaign) error {
	doc, err := marshalDoc(c)
	if err != nil {
		return err
	}
	return t.execOne(ctx, fmt.Errorf("%w: %s", domain.ErrCampaignNotFound, c.Key),
		`UPDATE campaigns SET status = $3, data = $4, updated_at = now() WHERE advertiser = $1 AND campaign_id = $2`,
		string(c.Key.Advertiser), int64(c.Key.CampaignID), c.Status.String(), doc)
}
