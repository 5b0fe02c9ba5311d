package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/site-store/internal/model"
)

func TestComputeAnalyticsEmpty(t *testing.T) {
	a := ComputeAnalytics(model.DetailedStats{
		Stats: model.Stats{Counts: map[string]int64{"unread": 0, "read": 0}},
	})
	assert.Zero(t, a.AveragePerDay)
	assert.Zero(t, a.GrowthRate)
	assert.Nil(t, a.MostActiveDay)
	assert.Equal(t, map[string]float64{"unread": 0, "read": 0}, a.Distribution)
}

func TestComputeAnalyticsGrowth(t *testing.T) {
	cases := []struct {
		name string
		days []int64
		rate float64
		avg  float64
		most string
	}{
		{name: "single day counts as recent", days: []int64{3}, rate: 100, avg: 3, most: "d0"},
		{name: "doubling", days: []int64{2, 4}, rate: 100, avg: 3, most: "d1"},
		{name: "odd length puts middle in recent", days: []int64{4, 2, 3}, rate: 25, avg: 3, most: "d0"},
		{name: "decline", days: []int64{4, 4, 1, 1}, rate: -75, avg: 2.5, most: "d0"},
		{name: "ties keep first", days: []int64{1, 5, 5, 1}, rate: 0, avg: 3, most: "d1"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := model.DetailedStats{}
			for i, n := range tc.days {
				d.ByDay = append(d.ByDay, model.DailyCount{Date: "d" + string(rune('0'+i)), Count: n})
				d.Total += n
			}
			a := ComputeAnalytics(d)
			assert.InDelta(t, tc.rate, a.GrowthRate, 1e-9)
			assert.InDelta(t, tc.avg, a.AveragePerDay, 1e-9)
			require.NotNil(t, a.MostActiveDay)
			assert.Equal(t, tc.most, a.MostActiveDay.Date)
		})
	}
}

func TestComputeAnalyticsDistribution(t *testing.T) {
	a := ComputeAnalytics(model.DetailedStats{
		Stats: model.Stats{Total: 4, Counts: map[string]int64{"unread": 1, "read": 3, "archived": 0}},
	})
	assert.InDelta(t, 25.0, a.Distribution["unread"], 1e-9)
	assert.InDelta(t, 75.0, a.Distribution["read"], 1e-9)
	assert.Zero(t, a.Distribution["archived"])
}

func TestDetailedStatsTrendWindow(t *testing.T) {
	_, rdb := newTestRedis(t)
	clock := newManualClock(time.Date(2024, 3, 31, 12, 0, 0, 0, time.UTC))
	repo := NewMessageRepository(rdb, WithClock(clock.Now))
	ctx := context.Background()

	create := func(at time.Time) {
		clock.Set(at)
		_, err := repo.Create(ctx, newMessage(0))
		require.NoError(t, err)
	}
	create(time.Date(2024, 2, 20, 9, 0, 0, 0, time.UTC)) // 窗口外
	create(time.Date(2024, 3, 30, 1, 0, 0, 0, time.UTC))
	create(time.Date(2024, 3, 30, 23, 59, 0, 0, time.UTC))
	create(time.Date(2024, 3, 31, 8, 0, 0, 0, time.UTC))
	clock.Set(time.Date(2024, 3, 31, 12, 0, 0, 0, time.UTC))

	d, err := repo.DetailedStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), d.Total)
	assert.Equal(t, int64(4), d.Counts["unread"])
	assert.Equal(t, []model.DailyCount{
		{Date: "2024-03-30", Count: 2},
		{Date: "2024-03-31", Count: 1},
	}, d.ByDay)

	a, err := repo.Analytics(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 1.5, a.AveragePerDay, 1e-9)
	assert.InDelta(t, -50.0, a.GrowthRate, 1e-9)
	require.NotNil(t, a.MostActiveDay)
	assert.Equal(t, "2024-03-30", a.MostActiveDay.Date)
	assert.InDelta(t, 100.0, a.Distribution["unread"], 1e-9)
}

func TestDetailedStatsCustomTrendDays(t *testing.T) {
	_, rdb := newTestRedis(t)
	clock := newManualClock(time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC))
	repo := NewSubscriberRepository(rdb, WithClock(clock.Now), WithTrendDays(7))
	ctx := context.Background()

	_, err := repo.Create(ctx, &model.Subscriber{Email: "old@example.com"})
	require.NoError(t, err)
	clock.Set(time.Date(2024, 3, 30, 0, 0, 0, 0, time.UTC))
	_, err = repo.Create(ctx, &model.Subscriber{Email: "new@example.com"})
	require.NoError(t, err)

	d, err := repo.DetailedStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.DailyCount{{Date: "2024-03-30", Count: 1}}, d.ByDay)
	assert.Equal(t, int64(2), d.Counts["active"])
}

func TestStatsEmpty(t *testing.T) {
	_, rdb := newTestRedis(t)
	repo := NewMessageRepository(rdb)

	st, err := repo.Stats(context.Background())
	require.NoError(t, err)
	assert.Zero(t, st.Total)
	assert.Len(t, st.Counts, len(model.MessageStatuses))

	d, err := repo.DetailedStats(context.Background())
	require.NoError(t, err)
	assert.Empty(t, d.ByDay)
}
