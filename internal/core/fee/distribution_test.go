package fee

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"soulboard/internal/core/domain"
)

// completed builds a Completed campaign funded with budget and one booked row
// per entry in views.
func completed(t *testing.T, budget uint64, sched domain.Schedule, views ...uint64) *domain.Campaign {
	t.Helper()
	c, err := domain.NewCampaign(domain.CampaignKey{Advertiser: "adv", CampaignID: 1}, "c", "", sched)
	require.NoError(t, err)
	require.NoError(t, c.Fund(budget))
	for i, v := range views {
		p := domain.Principal(string(rune('a' + i)))
		require.NoError(t, c.Providers.Append(p))
		require.NoError(t, c.Locations.Append(p))
		require.NoError(t, c.Performance.Append(domain.ProviderPerformance{Provider: p, DeviceID: uint32(100 + i), TotalViews: v}))
	}
	require.NoError(t, c.Complete())
	return c
}

func TestDistributeWorkedExample(t *testing.T) {
	c := completed(t, 10_000, domain.Schedule{RunningDays: 2, HoursPerDay: 1, BaseFeePerHour: 100}, 300, 700)

	s, err := Distribute(c)
	require.NoError(t, err)

	assert.Equal(t, uint64(400), s.TotalBaseFees)
	assert.Equal(t, uint64(200), s.PlatformFee)
	assert.Equal(t, uint64(9400), s.AvailableForDistribution)

	a := c.Performance.At(0)
	assert.Equal(t, uint64(200), a.BaseFeeEarned)
	assert.Equal(t, uint64(2820), a.PerformanceFeeEarned)
	assert.Equal(t, uint64(60), s.Payouts[0].PlatformFee)
	assert.Equal(t, uint64(2960), a.CalculatedEarnings)

	b := c.Performance.At(1)
	assert.Equal(t, uint64(200), b.BaseFeeEarned)
	assert.Equal(t, uint64(6580), b.PerformanceFeeEarned)
	assert.Equal(t, uint64(135), s.Payouts[1].PlatformFee)
	assert.Equal(t, uint64(6645), b.CalculatedEarnings)

	assert.Equal(t, uint64(9605), c.TotalDistributed)
}

func TestDistributeSumMatchesTotal(t *testing.T) {
	c := completed(t, 1_000_003, domain.Schedule{RunningDays: 7, HoursPerDay: 9, BaseFeePerHour: 13}, 1, 7, 13, 0, 999)

	s, err := Distribute(c)
	require.NoError(t, err)

	var sum uint64
	for _, row := range c.Performance.All() {
		sum += row.CalculatedEarnings
	}
	assert.Equal(t, c.TotalDistributed, sum)
	assert.Equal(t, s.TotalDistributed, sum)
	assert.Zero(t, c.Performance.At(3).PerformanceFeeEarned)
	assert.LessOrEqual(t, sum, c.Budget)
}

func TestDistributeRequiresCompleted(t *testing.T) {
	c, err := domain.NewCampaign(domain.CampaignKey{Advertiser: "adv", CampaignID: 1}, "c", "", domain.Schedule{})
	require.NoError(t, err)
	require.NoError(t, c.Fund(100))

	_, err = Distribute(c)
	require.ErrorIs(t, err, domain.ErrCampaignNotCompleted)

	require.NoError(t, c.Pause())
	_, err = Distribute(c)
	require.ErrorIs(t, err, domain.ErrCampaignNotCompleted)
}

func TestDistributeFailures(t *testing.T) {
	tests := []struct {
		name   string
		budget uint64
		sched  domain.Schedule
		views  []uint64
		want   error
	}{
		{
			name:   "no views",
			budget: 10_000,
			sched:  domain.Schedule{RunningDays: 1, HoursPerDay: 1, BaseFeePerHour: 1},
			views:  []uint64{0, 0},
			want:   domain.ErrNoViews,
		},
		{
			name:   "no rows",
			budget: 10_000,
			sched:  domain.Schedule{RunningDays: 1, HoursPerDay: 1, BaseFeePerHour: 1},
			want:   domain.ErrNoViews,
		},
		{
			name:   "base fees exceed budget",
			budget: 399,
			sched:  domain.Schedule{RunningDays: 2, HoursPerDay: 1, BaseFeePerHour: 100},
			views:  []uint64{1, 1},
			want:   domain.ErrInsufficientBudget,
		},
		{
			name:   "platform fee exceeds remainder",
			budget: 400,
			sched:  domain.Schedule{RunningDays: 2, HoursPerDay: 1, BaseFeePerHour: 100},
			views:  []uint64{1, 1},
			want:   domain.ErrInsufficientBudget,
		},
		{
			name:   "campaign hours overflow",
			budget: 10,
			sched:  domain.Schedule{RunningDays: math.MaxUint32, HoursPerDay: 2},
			views:  []uint64{1},
			want:   domain.ErrCalculation,
		},
		{
			name:   "base fee overflow",
			budget: 10,
			sched:  domain.Schedule{RunningDays: 2, HoursPerDay: 2, BaseFeePerHour: math.MaxUint64 / 2},
			views:  []uint64{1},
			want:   domain.ErrCalculation,
		},
		{
			name:   "share overflow",
			budget: math.MaxUint64 / 4,
			sched:  domain.Schedule{},
			views:  []uint64{1000, 1000},
			want:   domain.ErrCalculation,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := completed(t, tc.budget, tc.sched, tc.views...)
			before := c.Clone()

			_, err := Distribute(c)
			require.ErrorIs(t, err, tc.want)
			assert.Equal(t, before, c, "failed distribution must not mutate the campaign")
		})
	}
}

func TestDistributeIsRepeatable(t *testing.T) {
	c := completed(t, 10_000, domain.Schedule{RunningDays: 2, HoursPerDay: 1, BaseFeePerHour: 100}, 300, 700)

	first, err := Distribute(c)
	require.NoError(t, err)
	second, err := Distribute(c)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
