package repository

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// indexer 维护全局时间索引与状态集合。
// 所有方法只向 pipe 追加命令，与 hash 写入在同一个 MULTI/EXEC 中提交。
type indexer struct {
	keys     keyspace
	statuses []string
}

func (ix indexer) create(ctx context.Context, pipe redis.Pipeliner, id string, ts time.Time, status string) {
	pipe.ZAdd(ctx, ix.keys.all(), redis.Z{Score: score(ts), Member: id})
	pipe.SAdd(ctx, ix.keys.status(status), id)
}

func (ix indexer) statusChange(ctx context.Context, pipe redis.Pipeliner, id, oldStatus, newStatus string) {
	if oldStatus == "" {
		ix.removeFromStatuses(ctx, pipe, id, newStatus)
	} else {
		pipe.SRem(ctx, ix.keys.status(oldStatus), id)
	}
	pipe.SAdd(ctx, ix.keys.status(newStatus), id)
}

// remove status 为空时从所有状态集合移除
func (ix indexer) remove(ctx context.Context, pipe redis.Pipeliner, id, status string) {
	if status == "" {
		ix.removeFromStatuses(ctx, pipe, id, "")
	} else {
		pipe.SRem(ctx, ix.keys.status(status), id)
	}
	pipe.ZRem(ctx, ix.keys.all(), id)
}

// repair 让 id 只出现在全局索引和 status 对应的集合中
func (ix indexer) repair(ctx context.Context, pipe redis.Pipeliner, id string, ts time.Time, status string) {
	pipe.ZAdd(ctx, ix.keys.all(), redis.Z{Score: score(ts), Member: id})
	ix.removeFromStatuses(ctx, pipe, id, status)
	pipe.SAdd(ctx, ix.keys.status(status), id)
}

// purge hash 已不存在时清理残留索引
func (ix indexer) purge(ctx context.Context, pipe redis.Pipeliner, id string) {
	ix.remove(ctx, pipe, id, "")
}

func (ix indexer) removeFromStatuses(ctx context.Context, pipe redis.Pipeliner, id, except string) {
	for _, s := range ix.statuses {
		if s == except {
			continue
		}
		pipe.SRem(ctx, ix.keys.status(s), id)
	}
}
