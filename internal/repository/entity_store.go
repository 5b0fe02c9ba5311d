package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/d60-Lab/site-store/internal/model"
	"github.com/d60-Lab/site-store/pkg/logger"
)

var tracer = otel.Tracer("github.com/d60-Lab/site-store/internal/repository")

// entityStore EntityRepository 的 Redis 实现。
// 每个实体一个 hash，全局 zset 按创建时间排序，每个状态一个 set。
type entityStore[T model.Entity] struct {
	rdb  redis.UniversalClient
	kind kind[T]
	keys keyspace
	idx  indexer
	opts Options
}

func newEntityStore[T model.Entity](rdb redis.UniversalClient, k kind[T], opts ...Option) *entityStore[T] {
	o := buildOptions(opts)
	keys := newKeyspace(o.KeyPrefix, k.name, k.plural)
	return &entityStore[T]{
		rdb:  rdb,
		kind: k,
		keys: keys,
		idx:  indexer{keys: keys, statuses: k.statuses},
		opts: o,
	}
}

// begin 为单次操作加超时、span 和耗时统计
func (s *entityStore[T]) begin(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, func(*error)) {
	start := time.Now()
	ctx, span := tracer.Start(ctx, s.kind.name+"."+op, trace.WithAttributes(attrs...))
	var cancel context.CancelFunc
	if s.opts.OpTimeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, s.opts.OpTimeout)
	} else {
		ctx, cancel = context.WithCancel(ctx)
	}
	return ctx, func(errp *error) {
		cancel()
		if errp != nil && *errp != nil && !errors.Is(*errp, ErrNotFound) {
			span.RecordError(*errp)
		}
		span.End()
		observe(s.kind.name, op, start)
	}
}

func (s *entityStore[T]) now() time.Time {
	return s.opts.Now().UTC().Truncate(time.Millisecond)
}

func (s *entityStore[T]) Create(ctx context.Context, e T) (_ T, err error) {
	ctx, end := s.begin(ctx, "create")
	defer end(&err)

	var zero T
	id := uuid.NewString()
	ts := s.now()
	e.Stamp(id, ts, s.kind.initial)
	fields := s.kind.codec.Encode(e)

	_, err = s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, s.keys.record(id), fields)
		s.idx.create(ctx, pipe, id, ts, s.kind.initial)
		return nil
	})
	if err != nil {
		return zero, storeErr(s.kind.name+" create", err)
	}
	return e, nil
}

func (s *entityStore[T]) Get(ctx context.Context, id string) (_ T, err error) {
	ctx, end := s.begin(ctx, "get", attribute.String("id", id))
	defer end(&err)

	var zero T
	fields, err := s.rdb.HGetAll(ctx, s.keys.record(id)).Result()
	if err != nil {
		return zero, storeErr(s.kind.name+" get", err)
	}
	e, err := s.kind.codec.Decode(fields)
	if err != nil {
		return zero, err
	}
	return e, nil
}

func (s *entityStore[T]) UpdateStatus(ctx context.Context, id, status string) (_ T, err error) {
	ctx, end := s.begin(ctx, "update_status", attribute.String("id", id), attribute.String("status", status))
	defer end(&err)

	var out T
	if !s.kind.validStatus(status) {
		return out, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	key := s.keys.record(id)
	err = watchRetry(ctx, s.rdb, s.opts.MaxRetries, s.kind.name, "update_status", func(tx *redis.Tx) error {
		fields, err := tx.HGetAll(ctx, key).Result()
		if err != nil {
			return err
		}
		cur, err := s.kind.codec.Decode(fields)
		if err != nil {
			return err
		}
		old := cur.GetStatus()
		if old == status {
			out = cur
			return nil
		}
		set, del := s.kind.transition(status, s.now())
		set[fieldStatus] = status
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, set)
			if len(del) > 0 {
				pipe.HDel(ctx, key, del...)
			}
			s.idx.statusChange(ctx, pipe, id, old, status)
			return nil
		})
		if err != nil {
			return err
		}
		for k, v := range set {
			fields[k] = fmt.Sprint(v)
		}
		for _, k := range del {
			delete(fields, k)
		}
		out, err = s.kind.codec.Decode(fields)
		return err
	}, key)
	if err != nil {
		var zero T
		return zero, storeErr(s.kind.name+" update status", err)
	}
	return out, nil
}

func (s *entityStore[T]) Delete(ctx context.Context, id string) (existed bool, err error) {
	ctx, end := s.begin(ctx, "delete", attribute.String("id", id))
	defer end(&err)

	key := s.keys.record(id)
	err = watchRetry(ctx, s.rdb, s.opts.MaxRetries, s.kind.name, "delete", func(tx *redis.Tx) error {
		existed = false
		fields, err := tx.HGetAll(ctx, key).Result()
		if err != nil {
			return err
		}
		if len(fields) == 0 {
			return nil
		}
		// status 字段缺失时从所有状态集合移除
		status := fields[fieldStatus]
		if !s.kind.validStatus(status) {
			status = ""
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			s.idx.remove(ctx, pipe, id, status)
			pipe.Del(ctx, key)
			return nil
		})
		if err != nil {
			return err
		}
		existed = true
		return nil
	}, key)
	if err != nil {
		return false, storeErr(s.kind.name+" delete", err)
	}
	return existed, nil
}

func (s *entityStore[T]) Repair(ctx context.Context, id string) (err error) {
	ctx, end := s.begin(ctx, "repair", attribute.String("id", id))
	defer end(&err)

	key := s.keys.record(id)
	err = watchRetry(ctx, s.rdb, s.opts.MaxRetries, s.kind.name, "repair", func(tx *redis.Tx) error {
		fields, err := tx.HGetAll(ctx, key).Result()
		if err != nil {
			return err
		}
		if len(fields) == 0 {
			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				s.idx.purge(ctx, pipe, id)
				return nil
			})
			return err
		}
		e, err := s.kind.codec.Decode(fields)
		if err != nil {
			return err
		}
		if !s.kind.validStatus(e.GetStatus()) {
			return fmt.Errorf("%w: status %q", ErrCorruptRecord, e.GetStatus())
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			s.idx.repair(ctx, pipe, id, e.GetTimestamp(), e.GetStatus())
			return nil
		})
		return err
	}, key)
	if err != nil {
		return storeErr(s.kind.name+" repair", err)
	}
	logger.Info("index repaired", zap.String("entity", s.kind.name), zap.String("id", id))
	return nil
}

// watchRetry WATCH keys 后执行 fn，事务冲突时重试，超过次数返回 ErrContention
func watchRetry(ctx context.Context, rdb redis.UniversalClient, retries int, entity, op string, fn func(*redis.Tx) error, keys ...string) error {
	for i := 0; i < retries; i++ {
		err := rdb.Watch(ctx, fn, keys...)
		if !errors.Is(err, redis.TxFailedErr) {
			return err
		}
		TxConflictCount.WithLabelValues(entity, op).Inc()
	}
	logger.Warn("transaction retries exhausted", zap.String("entity", entity), zap.String("op", op), zap.Strings("keys", keys))
	return ErrContention
}

func (s *entityStore[T]) reportDrift(ctx context.Context, id, index string, cause error) {
	IndexDriftCount.WithLabelValues(s.kind.name, index).Inc()
	logger.Warn("index drift",
		zap.String("entity", s.kind.name),
		zap.String("id", id),
		zap.String("index", index),
		zap.Error(fmt.Errorf("%w: %w", ErrIndexDrift, cause)),
	)
	trace.SpanFromContext(ctx).AddEvent("index_drift", trace.WithAttributes(attribute.String("id", id)))
	if s.opts.OnDrift != nil {
		s.opts.OnDrift(s.kind.name, id)
	}
}
