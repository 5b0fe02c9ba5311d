package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/d60-Lab/site-store/internal/model"
	"github.com/d60-Lab/site-store/pkg/logger"
)

const indexAll = "all"

// normalizeFilter 填充默认值；status 为 "all" 等同不过滤
func (s *entityStore[T]) normalizeFilter(f model.ListFilter) (model.ListFilter, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = DefaultPageSize
	}
	if f.PageSize > MaxPageSize {
		f.PageSize = MaxPageSize
	}
	if f.SortBy != model.SortByEmail {
		f.SortBy = model.SortByTimestamp
	}
	if f.SortOrder != model.SortAsc {
		f.SortOrder = model.SortDesc
	}
	f.Search = strings.TrimSpace(f.Search)
	if f.Status == "all" {
		f.Status = ""
	}
	if f.Status != "" && !s.kind.validStatus(f.Status) {
		return f, fmt.Errorf("%w: %q", ErrInvalidStatus, f.Status)
	}
	return f, nil
}

func (s *entityStore[T]) List(ctx context.Context, f model.ListFilter) (_ *model.ListResult[T], err error) {
	ctx, end := s.begin(ctx, "list")
	defer end(&err)

	f, err = s.normalizeFilter(f)
	if err != nil {
		return nil, err
	}
	ids, err := s.sourceIDs(ctx, f)
	if err != nil {
		return nil, storeErr(s.kind.name+" list", err)
	}
	index := indexAll
	if f.Status != "" {
		index = f.Status
	}

	var (
		items []T
		total int
	)
	if f.Search != "" && s.opts.SearchScope == SearchCollection {
		all, err := s.hydrate(ctx, ids, index)
		if err != nil {
			return nil, storeErr(s.kind.name+" list", err)
		}
		all = filterSearch(all, f.Search)
		sortEntities(all, f.SortBy, f.SortOrder)
		total = len(all)
		lo, hi := window(total, f.Page, f.PageSize)
		items = all[lo:hi]
	} else {
		// 分页先于水合；带搜索词时只过滤当前页
		total = len(ids)
		lo, hi := window(total, f.Page, f.PageSize)
		items, err = s.hydrate(ctx, ids[lo:hi], index)
		if err != nil {
			return nil, storeErr(s.kind.name+" list", err)
		}
		if f.Search != "" {
			items = filterSearch(items, f.Search)
		}
		sortEntities(items, f.SortBy, f.SortOrder)
	}

	return &model.ListResult[T]{
		Items:      items,
		Total:      int64(total),
		Page:       f.Page,
		PageSize:   f.PageSize,
		TotalPages: totalPages(total, f.PageSize),
	}, nil
}

// sourceIDs 有状态过滤时读状态集合（无序），否则按方向读全局索引
func (s *entityStore[T]) sourceIDs(ctx context.Context, f model.ListFilter) ([]string, error) {
	if f.Status != "" {
		return s.rdb.SMembers(ctx, s.keys.status(f.Status)).Result()
	}
	if f.SortOrder == model.SortAsc {
		return s.rdb.ZRange(ctx, s.keys.all(), 0, -1).Result()
	}
	return s.rdb.ZRevRange(ctx, s.keys.all(), 0, -1).Result()
}

// hydrate 一次 pipeline 批量读取 hash，缺失或无法解析的 id 跳过；
// hash 缺失时先确认 id 仍在索引中，读取期间被并发删除的不算漂移
func (s *entityStore[T]) hydrate(ctx context.Context, ids []string, index string) ([]T, error) {
	out := make([]T, 0, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	cmds := make([]*redis.MapStringStringCmd, len(ids))
	_, err := s.rdb.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, id := range ids {
			cmds[i] = pipe.HGetAll(ctx, s.keys.record(id))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	for i, cmd := range cmds {
		e, err := s.kind.codec.Decode(cmd.Val())
		if err != nil {
			if errors.Is(err, ErrNotFound) && !s.stillIndexed(ctx, ids[i], index) {
				logger.Debug("entry deleted during read", zap.String("entity", s.kind.name), zap.String("id", ids[i]))
				continue
			}
			s.reportDrift(ctx, ids[i], index, err)
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

// stillIndexed 查询失败时按仍在索引处理，交给漂移修复
func (s *entityStore[T]) stillIndexed(ctx context.Context, id, index string) bool {
	if index == indexAll {
		err := s.rdb.ZScore(ctx, s.keys.all(), id).Err()
		return !errors.Is(err, redis.Nil)
	}
	ok, err := s.rdb.SIsMember(ctx, s.keys.status(index), id).Result()
	return err != nil || ok
}

func filterSearch[T model.Entity](items []T, term string) []T {
	out := items[:0]
	for _, it := range items {
		if model.Matches(it, term) {
			out = append(out, it)
		}
	}
	return out
}

func sortEntities[T model.Entity](items []T, by, order string) {
	desc := order == model.SortDesc
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if by == model.SortByEmail {
			ea, eb := strings.ToLower(a.GetEmail()), strings.ToLower(b.GetEmail())
			if desc {
				return ea > eb
			}
			return ea < eb
		}
		if desc {
			return a.GetTimestamp().After(b.GetTimestamp())
		}
		return a.GetTimestamp().Before(b.GetTimestamp())
	})
}

// window 返回第 page 页在长度为 n 的列表中的 [lo, hi)
func window(n, page, size int) (int, int) {
	lo := (page - 1) * size
	if lo > n {
		lo = n
	}
	hi := lo + size
	if hi > n {
		hi = n
	}
	return lo, hi
}

func totalPages(total, size int) int {
	if total == 0 {
		return 1
	}
	return (total + size - 1) / size
}
