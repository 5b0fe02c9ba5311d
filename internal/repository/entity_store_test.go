package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/site-store/internal/model"
)

func newMessage(i int) *model.Message {
	return &model.Message{
		Email:   fmt.Sprintf("user%02d@example.com", i),
		Name:    fmt.Sprintf("User %02d", i),
		Message: fmt.Sprintf("message body %02d", i),
	}
}

// statusMembership 返回 id 所在的全部状态集合
func statusMembership(t *testing.T, rdb *redis.Client, keys keyspace, statuses []string, id string) []string {
	t.Helper()
	var in []string
	for _, st := range statuses {
		ok, err := rdb.SIsMember(context.Background(), keys.status(st), id).Result()
		require.NoError(t, err)
		if ok {
			in = append(in, st)
		}
	}
	return in
}

func TestCreateWritesRecordAndIndexes(t *testing.T) {
	_, rdb := newTestRedis(t)
	clock := newManualClock(time.Date(2024, 6, 1, 10, 0, 0, 500700000, time.UTC))
	repo := newEntityStore(rdb, messageKind(), WithClock(clock.Now))
	ctx := context.Background()

	m, err := repo.Create(ctx, newMessage(1))
	require.NoError(t, err)
	assert.NotEmpty(t, m.ID)
	assert.Equal(t, model.MessageUnread, m.Status)
	assert.Equal(t, time.Date(2024, 6, 1, 10, 0, 0, 500000000, time.UTC), m.Timestamp)

	fields, err := rdb.HGetAll(ctx, "message:"+m.ID).Result()
	require.NoError(t, err)
	assert.Equal(t, "unread", fields["status"])
	assert.Equal(t, "user01@example.com", fields["email"])
	assert.Equal(t, "2024-06-01T10:00:00.5Z", fields["timestamp"])

	sc, err := rdb.ZScore(ctx, "messages:all", m.ID).Result()
	require.NoError(t, err)
	assert.Equal(t, float64(m.Timestamp.UnixMilli()), sc)
	assert.Equal(t, []string{"unread"}, statusMembership(t, rdb, repo.keys, repo.kind.statuses, m.ID))

	got, err := repo.Get(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, m, got)
}

func TestCreateWithKeyPrefix(t *testing.T) {
	mr, rdb := newTestRedis(t)
	repo := NewSubscriberRepository(rdb, WithKeyPrefix("site:"))

	s, err := repo.Create(context.Background(), &model.Subscriber{Email: "a@example.com", Name: "A"})
	require.NoError(t, err)
	assert.True(t, mr.Exists("site:subscriber:"+s.ID))
	assert.True(t, mr.Exists("site:subscribers:all"))
	assert.True(t, mr.Exists("site:subscribers:status:active"))
	assert.False(t, mr.Exists("subscriber:"+s.ID))
}

func TestGetNotFound(t *testing.T) {
	_, rdb := newTestRedis(t)
	repo := NewMessageRepository(rdb)

	_, err := repo.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateStatusMovesBetweenSets(t *testing.T) {
	_, rdb := newTestRedis(t)
	repo := newEntityStore(rdb, messageKind())
	ctx := context.Background()

	a, err := repo.Create(ctx, newMessage(1))
	require.NoError(t, err)
	b, err := repo.Create(ctx, newMessage(2))
	require.NoError(t, err)

	updated, err := repo.UpdateStatus(ctx, a.ID, "read")
	require.NoError(t, err)
	assert.Equal(t, model.MessageRead, updated.Status)
	assert.Equal(t, a.Timestamp, updated.Timestamp)

	st, err := repo.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), st.Total)
	assert.Equal(t, map[string]int64{"unread": 1, "read": 1, "replied": 0, "archived": 0}, st.Counts)

	res, err := repo.List(ctx, model.ListFilter{Status: "read"})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, a.ID, res.Items[0].ID)

	assert.Equal(t, []string{"read"}, statusMembership(t, rdb, repo.keys, repo.kind.statuses, a.ID))
	assert.Equal(t, []string{"unread"}, statusMembership(t, rdb, repo.keys, repo.kind.statuses, b.ID))
}

func TestUpdateStatusSameStatusIsNoop(t *testing.T) {
	_, rdb := newTestRedis(t)
	repo := newEntityStore(rdb, messageKind())
	ctx := context.Background()

	m, err := repo.Create(ctx, newMessage(1))
	require.NoError(t, err)
	got, err := repo.UpdateStatus(ctx, m.ID, "unread")
	require.NoError(t, err)
	assert.Equal(t, m, got)
	assert.Equal(t, []string{"unread"}, statusMembership(t, rdb, repo.keys, repo.kind.statuses, m.ID))
}

func TestUpdateStatusErrors(t *testing.T) {
	_, rdb := newTestRedis(t)
	repo := NewMessageRepository(rdb)
	ctx := context.Background()

	m, err := repo.Create(ctx, newMessage(1))
	require.NoError(t, err)

	_, err = repo.UpdateStatus(ctx, m.ID, "spam")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = repo.UpdateStatus(ctx, "missing", "read")
	assert.ErrorIs(t, err, ErrNotFound)

	got, err := repo.Get(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, model.MessageUnread, got.Status)
}

func TestSubscriberStatusTransitions(t *testing.T) {
	_, rdb := newTestRedis(t)
	clock := newManualClock(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
	repo := NewSubscriberRepository(rdb, WithClock(clock.Now))
	ctx := context.Background()

	s, err := repo.Create(ctx, &model.Subscriber{Email: "a@example.com", Name: "A"})
	require.NoError(t, err)
	assert.Equal(t, model.SubscriberActive, s.Status)
	assert.Nil(t, s.UnsubscribedAt)

	clock.Advance(48 * time.Hour)
	s, err = repo.UpdateStatus(ctx, s.ID, "unsubscribed")
	require.NoError(t, err)
	require.NotNil(t, s.UnsubscribedAt)
	assert.Equal(t, clock.Now(), *s.UnsubscribedAt)

	got, err := repo.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, s, got)

	s, err = repo.UpdateStatus(ctx, s.ID, "active")
	require.NoError(t, err)
	assert.Nil(t, s.UnsubscribedAt)
	exists, err := rdb.HExists(ctx, "subscriber:"+s.ID, "unsubscribedAt").Result()
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestDeleteIsIdempotent(t *testing.T) {
	mr, rdb := newTestRedis(t)
	repo := NewMessageRepository(rdb)
	ctx := context.Background()

	m, err := repo.Create(ctx, newMessage(1))
	require.NoError(t, err)
	_, err = repo.UpdateStatus(ctx, m.ID, "archived")
	require.NoError(t, err)

	ok, err := repo.Delete(ctx, m.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Delete(ctx, m.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.False(t, mr.Exists("message:"+m.ID))
	_, err = repo.Get(ctx, m.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	st, err := repo.Stats(ctx)
	require.NoError(t, err)
	assert.Zero(t, st.Total)
	for status, n := range st.Counts {
		assert.Zero(t, n, status)
	}
}

func TestConcurrentStatusUpdatesKeepSingleMembership(t *testing.T) {
	_, rdb := newTestRedis(t)
	repo := newEntityStore(rdb, messageKind(), WithMaxRetries(1000))
	ctx := context.Background()

	m, err := repo.Create(ctx, newMessage(1))
	require.NoError(t, err)

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 20; i++ {
				st := model.MessageStatuses[(w+i)%len(model.MessageStatuses)]
				if _, err := repo.UpdateStatus(ctx, m.ID, string(st)); err != nil && !errors.Is(err, ErrContention) {
					t.Errorf("update status: %v", err)
				}
			}
		}(w)
	}
	wg.Wait()

	got, err := repo.Get(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{got.GetStatus()}, statusMembership(t, rdb, repo.keys, repo.kind.statuses, m.ID))

	st, err := repo.Stats(ctx)
	require.NoError(t, err)
	var sum int64
	for _, n := range st.Counts {
		sum += n
	}
	assert.Equal(t, st.Total, sum)
}

func TestRepairRebuildsMembership(t *testing.T) {
	_, rdb := newTestRedis(t)
	repo := newEntityStore(rdb, messageKind())
	ctx := context.Background()

	m, err := repo.Create(ctx, newMessage(1))
	require.NoError(t, err)

	// 人为制造漂移：移出全局索引，并同时挂在两个状态集合中
	require.NoError(t, rdb.ZRem(ctx, "messages:all", m.ID).Err())
	require.NoError(t, rdb.SAdd(ctx, "messages:status:read", m.ID).Err())

	require.NoError(t, repo.Repair(ctx, m.ID))

	sc, err := rdb.ZScore(ctx, "messages:all", m.ID).Result()
	require.NoError(t, err)
	assert.Equal(t, float64(m.Timestamp.UnixMilli()), sc)
	assert.Equal(t, []string{"unread"}, statusMembership(t, rdb, repo.keys, repo.kind.statuses, m.ID))
}

func TestRepairPurgesOrphanedIndexEntries(t *testing.T) {
	_, rdb := newTestRedis(t)
	repo := newEntityStore(rdb, messageKind())
	ctx := context.Background()

	m, err := repo.Create(ctx, newMessage(1))
	require.NoError(t, err)
	require.NoError(t, rdb.Del(ctx, "message:"+m.ID).Err())

	require.NoError(t, repo.Repair(ctx, m.ID))

	n, err := rdb.ZCard(ctx, "messages:all").Result()
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, statusMembership(t, rdb, repo.keys, repo.kind.statuses, m.ID))
}

func TestStoreUnavailable(t *testing.T) {
	mr, rdb := newTestRedis(t)
	repo := NewMessageRepository(rdb, WithOpTimeout(time.Second))
	ctx := context.Background()

	m, err := repo.Create(ctx, newMessage(1))
	require.NoError(t, err)
	mr.Close()

	_, err = repo.Get(ctx, m.ID)
	assert.ErrorIs(t, err, ErrUnavailable)
	_, err = repo.Create(ctx, newMessage(2))
	assert.ErrorIs(t, err, ErrUnavailable)
	_, err = repo.List(ctx, model.ListFilter{})
	assert.ErrorIs(t, err, ErrUnavailable)
	_, err = repo.Stats(ctx)
	assert.ErrorIs(t, err, ErrUnavailable)
}
