package repository

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/d60-Lab/site-store/internal/model"
)

const likeEntity = "like"

type likeCounter struct {
	rdb  redis.UniversalClient
	opts Options
}

// NewLikeCounter 全局计数 likes:<slug>，访客计数 likes:<slug>:<actorHash>
func NewLikeCounter(rdb redis.UniversalClient, opts ...Option) LikeCounter {
	return &likeCounter{rdb: rdb, opts: buildOptions(opts)}
}

func (c *likeCounter) begin(ctx context.Context, op, slug string) (context.Context, func(*error)) {
	start := time.Now()
	ctx, span := tracer.Start(ctx, likeEntity+"."+op, trace.WithAttributes(attribute.String("slug", slug)))
	var cancel context.CancelFunc
	if c.opts.OpTimeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, c.opts.OpTimeout)
	} else {
		ctx, cancel = context.WithCancel(ctx)
	}
	return ctx, func(errp *error) {
		cancel()
		if errp != nil && *errp != nil {
			span.RecordError(*errp)
		}
		span.End()
		observe(likeEntity, op, start)
	}
}

func (c *likeCounter) Increment(ctx context.Context, slug, actorHash string) (_ *model.LikeResult, err error) {
	ctx, end := c.begin(ctx, "increment", slug)
	defer end(&err)

	gk := likeKey(c.opts.KeyPrefix, slug)
	ak := likeActorKey(c.opts.KeyPrefix, slug, actorHash)
	res := &model.LikeResult{Slug: slug, Cap: c.opts.LikeCap}

	err = watchRetry(ctx, c.rdb, c.opts.MaxRetries, likeEntity, "increment", func(tx *redis.Tx) error {
		actor, err := readCount(tx.Get(ctx, ak))
		if err != nil {
			return err
		}
		if actor >= c.opts.LikeCap {
			count, err := readCount(tx.Get(ctx, gk))
			if err != nil {
				return err
			}
			res.Count, res.ActorCount, res.Limited = count, actor, true
			return nil
		}
		var global, own *redis.IntCmd
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			global = pipe.Incr(ctx, gk)
			own = pipe.Incr(ctx, ak)
			return nil
		})
		if err != nil {
			return err
		}
		res.Count, res.ActorCount, res.Limited = global.Val(), own.Val(), false
		return nil
	}, ak)
	if err != nil {
		return nil, storeErr("like increment", err)
	}
	return res, nil
}

func (c *likeCounter) Get(ctx context.Context, slug, actorHash string) (_ *model.LikeResult, err error) {
	ctx, end := c.begin(ctx, "get", slug)
	defer end(&err)

	var global, own *redis.StringCmd
	_, err = c.rdb.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		global = pipe.Get(ctx, likeKey(c.opts.KeyPrefix, slug))
		own = pipe.Get(ctx, likeActorKey(c.opts.KeyPrefix, slug, actorHash))
		return nil
	})
	// 键不存在时 pipeline 返回 redis.Nil
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, storeErr("like get", err)
	}
	res := &model.LikeResult{Slug: slug, Cap: c.opts.LikeCap}
	if res.Count, err = readCount(global); err != nil {
		return nil, storeErr("like get", err)
	}
	if res.ActorCount, err = readCount(own); err != nil {
		return nil, storeErr("like get", err)
	}
	res.Limited = res.ActorCount >= res.Cap
	return res, nil
}

func readCount(cmd *redis.StringCmd) (int64, error) {
	n, err := cmd.Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return n, err
}
