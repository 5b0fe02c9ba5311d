package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLikeCounterCapsPerActor(t *testing.T) {
	_, rdb := newTestRedis(t)
	likes := NewLikeCounter(rdb)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		res, err := likes.Increment(ctx, "hello-world", "actor")
		require.NoError(t, err)
		assert.False(t, res.Limited)
		assert.Equal(t, int64(i), res.Count)
		assert.Equal(t, int64(i), res.ActorCount)
	}

	res, err := likes.Increment(ctx, "hello-world", "actor")
	require.NoError(t, err)
	assert.True(t, res.Limited)
	assert.Equal(t, int64(5), res.Count)
	assert.Equal(t, int64(5), res.ActorCount)
	assert.Equal(t, int64(DefaultLikeCap), res.Cap)

	got, err := likes.Get(ctx, "hello-world", "actor")
	require.NoError(t, err)
	assert.Equal(t, int64(5), got.Count)
	assert.True(t, got.Limited)

	other, err := likes.Get(ctx, "hello-world", "someone-else")
	require.NoError(t, err)
	assert.Equal(t, int64(5), other.Count)
	assert.Zero(t, other.ActorCount)
	assert.False(t, other.Limited)
}

func TestLikeCounterGetUnknownSlug(t *testing.T) {
	_, rdb := newTestRedis(t)
	likes := NewLikeCounter(rdb)

	res, err := likes.Get(context.Background(), "nothing-here", "actor")
	require.NoError(t, err)
	assert.Zero(t, res.Count)
	assert.Zero(t, res.ActorCount)
	assert.False(t, res.Limited)
}

func TestLikeCounterConcurrentActors(t *testing.T) {
	mr, rdb := newTestRedis(t)
	likes := NewLikeCounter(rdb, WithMaxRetries(1000), WithKeyPrefix("site"))
	ctx := context.Background()

	var wg sync.WaitGroup
	limited := make([]int, 6)
	for a := 0; a < 6; a++ {
		wg.Add(1)
		go func(a int) {
			defer wg.Done()
			actor := fmt.Sprintf("actor-%d", a)
			for i := 0; i < 6; i++ {
				res, err := likes.Increment(ctx, "post", actor)
				if err != nil {
					t.Errorf("increment: %v", err)
					return
				}
				if res.Limited {
					limited[a]++
				}
			}
		}(a)
	}
	wg.Wait()

	for a, n := range limited {
		assert.Equal(t, 1, n, "actor-%d", a)
	}
	total, err := mr.Get("site:likes:post")
	require.NoError(t, err)
	assert.Equal(t, "30", total)
	own, err := mr.Get("site:likes:post:actor-3")
	require.NoError(t, err)
	assert.Equal(t, "5", own)
}

func TestLikeCounterCustomCap(t *testing.T) {
	_, rdb := newTestRedis(t)
	likes := NewLikeCounter(rdb, WithLikeCap(2))
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		res, err := likes.Increment(ctx, "post", "actor")
		require.NoError(t, err)
		assert.False(t, res.Limited)
	}
	res, err := likes.Increment(ctx, "post", "actor")
	require.NoError(t, err)
	assert.True(t, res.Limited)
	assert.Equal(t, int64(2), res.Count)
}
