package database

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/site-store/config"
)

func TestInitRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := &config.Config{Redis: config.RedisConfig{Addr: mr.Addr(), PoolSize: 2}}

	client, err := InitRedis(cfg)
	require.NoError(t, err)
	defer client.Close()
	assert.NoError(t, client.Set(context.Background(), "k", "v", 0).Err())

	mr.Close()
	_, err = InitRedis(cfg)
	assert.Error(t, err)
}

func TestInitRedisWithTracing(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := &config.Config{
		Redis:   config.RedisConfig{Addr: mr.Addr()},
		Tracing: config.TracingConfig{Enabled: true},
	}

	client, err := InitRedis(cfg)
	require.NoError(t, err)
	defer client.Close()
	assert.NoError(t, client.Ping(context.Background()).Err())
}
