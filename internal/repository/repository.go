package repository

import (
	"context"

	"github.com/redis/go-redis/v9"

	"github.com/d60-Lab/site-store/internal/model"
)

// EntityRepository 带状态索引的实体仓储
type EntityRepository[T model.Entity] interface {
	// Create 生成 id、写入时间戳与初始状态，hash 与索引在同一事务内写入
	Create(ctx context.Context, e T) (T, error)

	// Get 不存在时返回 ErrNotFound
	Get(ctx context.Context, id string) (T, error)

	List(ctx context.Context, f model.ListFilter) (*model.ListResult[T], error)

	// UpdateStatus 更新 status 字段并在同一事务内移动状态集合
	UpdateStatus(ctx context.Context, id, status string) (T, error)

	// Delete 记录不存在时返回 false, nil
	Delete(ctx context.Context, id string) (bool, error)

	// Repair 按 hash 当前内容重建该 id 的索引成员关系
	Repair(ctx context.Context, id string) error

	Stats(ctx context.Context) (*model.Stats, error)
	DetailedStats(ctx context.Context) (*model.DetailedStats, error)
	Analytics(ctx context.Context) (*model.Analytics, error)
}

type MessageRepository = EntityRepository[*model.Message]

type SubscriberRepository = EntityRepository[*model.Subscriber]

func NewMessageRepository(rdb redis.UniversalClient, opts ...Option) MessageRepository {
	return newEntityStore(rdb, messageKind(), opts...)
}

func NewSubscriberRepository(rdb redis.UniversalClient, opts ...Option) SubscriberRepository {
	return newEntityStore(rdb, subscriberKind(), opts...)
}

// LikeCounter 按访客限额的点赞计数器
type LikeCounter interface {
	// Increment 访客已达上限时返回 Limited=true 且不修改计数
	Increment(ctx context.Context, slug, actorHash string) (*model.LikeResult, error)
	Get(ctx context.Context, slug, actorHash string) (*model.LikeResult, error)
}
