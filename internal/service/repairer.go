package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/d60-Lab/site-store/pkg/logger"
)

// Repairer 按 hash 当前内容重建单个 id 的索引
type Repairer interface {
	Repair(ctx context.Context, id string) error
}

type repairJob struct {
	kind  string
	id    string
	enqAt time.Time
}

// IndexRepairer 异步修复查询时发现的索引漂移。
// 同一 (kind, id) 在队列中只保留一份。
type IndexRepairer struct {
	mu        sync.RWMutex
	targets   map[string]Repairer
	pending   sync.Map
	ch        chan repairJob
	metricsCh chan time.Duration
	timeout   time.Duration
}

func NewIndexRepairer(queueSize int) *IndexRepairer {
	if queueSize <= 0 {
		queueSize = 1024
	}
	return &IndexRepairer{
		targets:   make(map[string]Repairer),
		ch:        make(chan repairJob, queueSize),
		metricsCh: make(chan time.Duration, 4096),
		timeout:   5 * time.Second,
	}
}

// Register kind 与仓储实体名一致（message / subscriber）
func (r *IndexRepairer) Register(kind string, target Repairer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.targets[kind] = target
}

// Start 启动 workers 个协程；返回的停止函数会先处理完队列中已有任务（最多等待 2s 或 ctx 结束），可重复调用
func (r *IndexRepairer) Start(workers int) func(context.Context) error {
	if workers <= 0 {
		workers = 2
	}
	stopCh := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case job := <-r.ch:
					r.process(job)
				case <-stopCh:
					for {
						select {
						case job := <-r.ch:
							r.process(job)
						default:
							return
						}
					}
				}
			}
		}()
	}
	var once sync.Once
	return func(ctx context.Context) error {
		once.Do(func() { close(stopCh) })
		done := make(chan struct{})
		go func() {
			wg.Wait()
			close(done)
		}()
		select {
		case <-done:
			return nil
		case <-time.After(2 * time.Second):
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (r *IndexRepairer) process(job repairJob) {
	defer r.pending.Delete(job.kind + ":" + job.id)

	r.mu.RLock()
	target, ok := r.targets[job.kind]
	r.mu.RUnlock()
	if !ok {
		logger.Warn("repairer: unknown kind", zap.String("kind", job.kind), zap.String("id", job.id))
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	err := target.Repair(ctx, job.id)
	cancel()
	if err != nil {
		logger.Error("repairer: repair failed", zap.String("kind", job.kind), zap.String("id", job.id), zap.Error(err))
	}
	select {
	case r.metricsCh <- time.Since(job.enqAt):
	default:
	}
}

// Enqueue 签名与 repository.WithDriftHandler 一致；队列满时丢弃并告警
func (r *IndexRepairer) Enqueue(kind, id string) {
	key := kind + ":" + id
	if _, loaded := r.pending.LoadOrStore(key, struct{}{}); loaded {
		return
	}
	select {
	case r.ch <- repairJob{kind: kind, id: id, enqAt: time.Now()}:
	default:
		r.pending.Delete(key)
		logger.Warn("repairer queue full, drop", zap.String("kind", kind), zap.String("id", id))
	}
}

// Metrics 每处理一条发送一次 入队->完成 耗时
func (r *IndexRepairer) Metrics() <-chan time.Duration { return r.metricsCh }

// QueueLen 当前队列长度（采样值）
func (r *IndexRepairer) QueueLen() int { return len(r.ch) }
