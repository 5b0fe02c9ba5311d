package repository

import (
	"context"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/d60-Lab/site-store/internal/model"
)

const dayLayout = "2006-01-02"

func (s *entityStore[T]) Stats(ctx context.Context) (_ *model.Stats, err error) {
	ctx, end := s.begin(ctx, "stats")
	defer end(&err)

	st, err := s.counts(ctx)
	if err != nil {
		return nil, storeErr(s.kind.name+" stats", err)
	}
	return st, nil
}

func (s *entityStore[T]) counts(ctx context.Context) (*model.Stats, error) {
	var total *redis.IntCmd
	byStatus := make([]*redis.IntCmd, len(s.kind.statuses))
	_, err := s.rdb.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		total = pipe.ZCard(ctx, s.keys.all())
		for i, st := range s.kind.statuses {
			byStatus[i] = pipe.SCard(ctx, s.keys.status(st))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	out := &model.Stats{Total: total.Val(), Counts: make(map[string]int64, len(s.kind.statuses))}
	for i, st := range s.kind.statuses {
		out.Counts[st] = byStatus[i].Val()
	}
	return out, nil
}

// DetailedStats 读取整个全局索引并水合全部记录，按 UTC 日期统计近 TrendDays 天的新增。
// 开销与记录总数线性相关。
func (s *entityStore[T]) DetailedStats(ctx context.Context) (_ *model.DetailedStats, err error) {
	ctx, end := s.begin(ctx, "detailed_stats")
	defer end(&err)

	d, err := s.detailed(ctx)
	if err != nil {
		return nil, storeErr(s.kind.name+" detailed stats", err)
	}
	return d, nil
}

func (s *entityStore[T]) detailed(ctx context.Context) (*model.DetailedStats, error) {
	st, err := s.counts(ctx)
	if err != nil {
		return nil, err
	}
	ids, err := s.rdb.ZRange(ctx, s.keys.all(), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	items, err := s.hydrate(ctx, ids, indexAll)
	if err != nil {
		return nil, err
	}
	cutoff := s.opts.Now().UTC().AddDate(0, 0, -s.opts.TrendDays)
	return &model.DetailedStats{Stats: *st, ByDay: bucketByDay(items, cutoff)}, nil
}

func bucketByDay[T model.Entity](items []T, cutoff time.Time) []model.DailyCount {
	perDay := make(map[string]int64)
	for _, it := range items {
		ts := it.GetTimestamp().UTC()
		if ts.Before(cutoff) {
			continue
		}
		perDay[ts.Format(dayLayout)]++
	}
	out := make([]model.DailyCount, 0, len(perDay))
	for day, n := range perDay {
		out = append(out, model.DailyCount{Date: day, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

func (s *entityStore[T]) Analytics(ctx context.Context) (_ *model.Analytics, err error) {
	ctx, end := s.begin(ctx, "analytics")
	defer end(&err)

	d, err := s.detailed(ctx)
	if err != nil {
		return nil, storeErr(s.kind.name+" analytics", err)
	}
	a := ComputeAnalytics(*d)
	return &a, nil
}

// ComputeAnalytics 由 DetailedStats 派生平均值、最活跃日、分布与增长率。
// 增长率按 byDay 下标对半切分比较前后两段之和。
func ComputeAnalytics(d model.DetailedStats) model.Analytics {
	out := model.Analytics{DetailedStats: d, Distribution: make(map[string]float64, len(d.Counts))}

	var sum int64
	for i := range d.ByDay {
		day := d.ByDay[i]
		sum += day.Count
		if out.MostActiveDay == nil || day.Count > out.MostActiveDay.Count {
			out.MostActiveDay = &day
		}
	}
	days := len(d.ByDay)
	if days < 1 {
		days = 1
	}
	out.AveragePerDay = float64(sum) / float64(days)

	for st, n := range d.Counts {
		if d.Total > 0 {
			out.Distribution[st] = float64(n) / float64(d.Total) * 100
		} else {
			out.Distribution[st] = 0
		}
	}

	mid := len(d.ByDay) / 2
	var previous, recent int64
	for i, day := range d.ByDay {
		if i < mid {
			previous += day.Count
		} else {
			recent += day.Count
		}
	}
	switch {
	case previous > 0:
		out.GrowthRate = float64(recent-previous) / float64(previous) * 100
	case recent > 0:
		out.GrowthRate = 100
	}
	return out
}
