package domain

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCampaignDefaults(t *testing.T) {
	c, err := NewCampaign(CampaignKey{Advertiser: "adv", CampaignID: 1}, "name", "desc", Schedule{RunningDays: 3})
	require.NoError(t, err)
	assert.Equal(t, CampaignActive, c.Status)
	assert.Zero(t, c.Budget)
	assert.Zero(t, c.PlatformFee)
	assert.Zero(t, c.Performance.Len())
}

func TestNewCampaignValidatesStrings(t *testing.T) {
	key := CampaignKey{Advertiser: "adv", CampaignID: 1}
	_, err := NewCampaign(key, "this name is far too long", "", Schedule{})
	require.ErrorIs(t, err, ErrInvalidInput)
	_, err = NewCampaign(CampaignKey{CampaignID: 1}, "n", "", Schedule{})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestFundRecomputesPlatformFeeOnTotal(t *testing.T) {
	c, err := NewCampaign(CampaignKey{Advertiser: "adv", CampaignID: 1}, "n", "", Schedule{})
	require.NoError(t, err)

	require.NoError(t, c.Fund(49))
	assert.Equal(t, uint64(0), c.PlatformFee)
	require.NoError(t, c.Fund(51))
	assert.Equal(t, uint64(100), c.Budget)
	assert.Equal(t, uint64(2), c.PlatformFee, "fee follows the total, not the sum of per-deposit fees")

	require.NoError(t, c.Fund(9_900))
	assert.Equal(t, uint64(200), c.PlatformFee)
}

func TestFundOverflow(t *testing.T) {
	c, err := NewCampaign(CampaignKey{Advertiser: "adv", CampaignID: 1}, "n", "", Schedule{})
	require.NoError(t, err)
	require.ErrorIs(t, c.Fund(math.MaxUint64/2+1), ErrCalculation)
	assert.Zero(t, c.Budget)
}

func TestLifecycle(t *testing.T) {
	c, err := NewCampaign(CampaignKey{Advertiser: "adv", CampaignID: 1}, "n", "", Schedule{})
	require.NoError(t, err)

	require.ErrorIs(t, c.Resume(), ErrCampaignNotPaused)
	require.NoError(t, c.Pause())
	require.ErrorIs(t, c.Complete(), ErrCampaignNotActive)
	require.NoError(t, c.Resume())
	require.NoError(t, c.Complete())
	assert.Equal(t, CampaignCompleted, c.Status)
	require.ErrorIs(t, c.Complete(), ErrCampaignNotActive)
	require.ErrorIs(t, c.Pause(), ErrCampaignNotActive)
}

func TestRecordEngagementOverwrites(t *testing.T) {
	p, c := newFixture(t)
	_, err := p.AcquireDevice(1)
	require.NoError(t, err)
	require.NoError(t, Book(p, 1, c, p.Principal))

	row, err := c.RecordEngagement(1, 10, 2)
	require.NoError(t, err)
	assert.Equal(t, uint64(10), row.TotalViews)
	row, err = c.RecordEngagement(1, 15, 3)
	require.NoError(t, err)
	assert.Equal(t, uint64(15), c.Performance.At(0).TotalViews)
	assert.Equal(t, uint64(3), row.TotalTaps)

	_, err = c.RecordEngagement(2, 1, 1)
	require.ErrorIs(t, err, ErrDeviceNotFound)
}

func TestCampaignJSONRoundTripKeepsBounds(t *testing.T) {
	p, c := newFixture(t)
	_, err := p.AcquireDevice(1)
	require.NoError(t, err)
	require.NoError(t, Book(p, 1, c, p.Principal))

	b, err := json.Marshal(c)
	require.NoError(t, err)
	var got Campaign
	require.NoError(t, json.Unmarshal(b, &got))
	assert.Equal(t, c.Performance.Slice(), got.Performance.Slice())
	assert.Equal(t, MaxPerformancePerCampaign, got.Performance.Cap())
	assert.Equal(t, CampaignActive, got.Status)
}
