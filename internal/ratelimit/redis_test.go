package ratelimit

import (
	"context"
	"testing"
	"time"

	mr "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestRedis_WindowBudget(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)
	defer m.Close()

	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	lim := NewRedis(client, "")
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		limited, err := lim.Check(ctx, "k", 3, time.Minute)
		require.NoError(t, err)
		require.False(t, limited)
	}

	limited, err := lim.Check(ctx, "k", 3, time.Minute)
	require.NoError(t, err)
	require.True(t, limited)

	// composed keys are separate buckets
	limited, err = lim.Check(ctx, "k:doc-1", 3, time.Minute)
	require.NoError(t, err)
	require.False(t, limited)
}

func TestRedis_BucketsExpire(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)
	defer m.Close()

	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	lim := NewRedis(client, "")
	ctx := context.Background()

	limited, err := lim.Check(ctx, "k", 1, time.Second)
	require.NoError(t, err)
	require.False(t, limited)

	// the bucket key carries a TTL so no janitor is needed
	m.FastForward(3 * time.Second)
	require.Empty(t, m.Keys())
}

func TestRedis_ErrorSurfaces(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	m.Close()

	lim := NewRedis(client, "")
	_, err = lim.Check(context.Background(), "k", 1, time.Second)
	require.Error(t, err)
}
