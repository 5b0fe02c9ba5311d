package main

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"os"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/d60-Lab/site-store/internal/model"
	"github.com/d60-Lab/site-store/internal/repository"
)

type request struct {
	page   int
	size   int
	search string
}

func main() {
	ctx := context.Background()

	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	client := redis.NewClient(&redis.Options{Addr: redisAddr})
	defer client.Close()
	if err := client.Ping(ctx).Err(); err != nil {
		panic(fmt.Sprintf("Failed to connect to Redis at %s: %v", redisAddr, err))
	}

	const (
		messageCount = 20000
		spanDays     = 45
		flipWorkers  = 16
		flipsPer     = 500
	)
	prefix := "storebench:" + uuid.NewString()[:8]
	defer cleanup(ctx, client, prefix)

	// 写入时间均匀分布在过去 spanDays 天内
	base := time.Now().UTC().AddDate(0, 0, -spanDays)
	step := time.Duration(spanDays) * 24 * time.Hour / messageCount
	var seq atomic.Int64
	seedClock := func() time.Time { return base.Add(time.Duration(seq.Add(1)) * step) }
	seeder := repository.NewMessageRepository(client, repository.WithKeyPrefix(prefix), repository.WithClock(seedClock))

	fmt.Printf("Seeding %d messages under %s...\n", messageCount, prefix)
	ids := make([]string, 0, messageCount)
	start := time.Now()
	for i := 0; i < messageCount; i++ {
		m := must(seeder.Create(ctx, &model.Message{
			Email:   fmt.Sprintf("visitor_%d@example.com", i),
			Name:    fmt.Sprintf("Visitor %d", i),
			Message: fmt.Sprintf("hello from visitor %d, topic %d", i, i%50),
		}))
		ids = append(ids, m.ID)
	}
	fmt.Printf("Seed done in %v\n", time.Since(start))

	reqs := makeRequests(2000)
	fmt.Println("\nList latency (2k req, 20k messages)")
	for _, scope := range []repository.SearchScope{repository.SearchPage, repository.SearchCollection} {
		repo := repository.NewMessageRepository(client, repository.WithKeyPrefix(prefix), repository.WithSearchScope(scope))
		durations := runList(ctx, repo, reqs)
		fmt.Printf("%-18s avg=%v p95=%v p99=%v\n", "scope="+string(scope), avg(durations), pct(durations, 0.95), pct(durations, 0.99))
	}

	repo := repository.NewMessageRepository(client, repository.WithKeyPrefix(prefix))
	var analytics []time.Duration
	for i := 0; i < 20; i++ {
		t0 := time.Now()
		must(repo.Analytics(ctx))
		analytics = append(analytics, time.Since(t0))
	}
	a := must(repo.Analytics(ctx))
	fmt.Printf("%-18s avg=%v p95=%v days=%d avg/day=%.1f growth=%.1f%%\n", "analytics", avg(analytics), pct(analytics, 0.95),
		len(a.ByDay), a.AveragePerDay, a.GrowthRate)

	// 并发翻转状态后检查每个 id 恰好在一个状态集合中
	fmt.Printf("\nConcurrent status flips (%d workers x %d)...\n", flipWorkers, flipsPer)
	var wg sync.WaitGroup
	var failures atomic.Int64
	t0 := time.Now()
	for w := 0; w < flipWorkers; w++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rnd := rand.New(rand.NewSource(seed))
			for i := 0; i < flipsPer; i++ {
				id := ids[rnd.Intn(len(ids)/100)] // 集中在少量 id 上制造冲突
				st := model.MessageStatuses[rnd.Intn(len(model.MessageStatuses))]
				if _, err := repo.UpdateStatus(ctx, id, string(st)); err != nil {
					failures.Add(1)
				}
			}
		}(int64(w))
	}
	wg.Wait()
	fmt.Printf("flips done in %v, failures=%d\n", time.Since(t0), failures.Load())

	st := must(repo.Stats(ctx))
	var sum int64
	for _, n := range st.Counts {
		sum += n
	}
	fmt.Printf("total=%d sum(status)=%d consistent=%v\n", st.Total, sum, st.Total == sum)

	info, err := client.Info(ctx, "memory").Result()
	if err == nil {
		fmt.Printf("redis used_memory=%s\n", formatBytes(parseRedisMemory(info)))
	}
}

func runList(ctx context.Context, repo repository.MessageRepository, reqs []request) []time.Duration {
	out := make([]time.Duration, 0, len(reqs))
	for _, r := range reqs {
		start := time.Now()
		if _, err := repo.List(ctx, model.ListFilter{Page: r.page, PageSize: r.size, Search: r.search}); err != nil {
			panic(err)
		}
		out = append(out, time.Since(start))
	}
	return out
}

func cleanup(ctx context.Context, client *redis.Client, prefix string) {
	iter := client.Scan(ctx, 0, prefix+":*", 1000).Iterator()
	var batch []string
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == 1000 {
			client.Del(ctx, batch...)
			batch = batch[:0]
		}
	}
	if len(batch) > 0 {
		client.Del(ctx, batch...)
	}
}

// parseRedisMemory 从 INFO memory 中取 used_memory
func parseRedisMemory(info string) int64 {
	for _, line := range strings.Split(info, "\n") {
		if !strings.HasPrefix(line, "used_memory:") {
			continue
		}
		var num int64
		for _, c := range strings.TrimSpace(strings.TrimPrefix(line, "used_memory:")) {
			if c < '0' || c > '9' {
				break
			}
			num = num*10 + int64(c-'0')
		}
		return num
	}
	return 0
}

func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

func makeRequests(n int) []request {
	sizes := []int{20, 50, 100}
	out := make([]request, n)
	rnd := rand.New(rand.NewSource(42))
	for i := 0; i < n; i++ {
		r := request{page: 1, size: sizes[rnd.Intn(len(sizes))]}
		if rnd.Float64() > 0.72 {
			r.page = 2 + rnd.Intn(120)
		}
		if rnd.Float64() > 0.8 {
			r.search = fmt.Sprintf("topic %d", rnd.Intn(50))
		}
		out[i] = r
	}
	return out
}

func avg(vs []time.Duration) time.Duration {
	if len(vs) == 0 {
		return 0
	}
	var sum time.Duration
	for _, v := range vs {
		sum += v
	}
	return sum / time.Duration(len(vs))
}

func pct(vs []time.Duration, p float64) time.Duration {
	if len(vs) == 0 {
		return 0
	}
	sorted := append([]time.Duration(nil), vs...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	idx := int(math.Ceil(p*float64(len(sorted)))) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}
