package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis implements Limiter atop a shared Redis counter, so the same budget
// holds across horizontally scaled instances. Windows are fixed buckets:
// INCR a per-window key and compare against the limit. Keys expire shortly
// after their window, so no explicit janitor is needed.
type Redis struct {
	client *redis.Client
	prefix string
}

// NewRedis returns a Redis-backed limiter. Prefix may be empty ("rl:" is
// used by default).
func NewRedis(client *redis.Client, prefix string) *Redis {
	if prefix == "" {
		prefix = "rl:"
	}
	return &Redis{client: client, prefix: prefix}
}

// Check admits or rejects one request against the key's current window.
func (r *Redis) Check(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	seconds := int64(window.Seconds())
	if seconds <= 0 {
		seconds = 1
	}
	bucket := time.Now().Unix() / seconds
	redisKey := fmt.Sprintf("%s%s:%d", r.prefix, key, bucket)

	cnt, err := r.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return false, fmt.Errorf("ratelimit incr: %w", err)
	}
	if cnt == 1 {
		_ = r.client.Expire(ctx, redisKey, time.Duration(seconds+1)*time.Second).Err()
	}
	return cnt > int64(limit), nil
}

// Cleanup is a no-op: bucket keys carry a TTL.
func (r *Redis) Cleanup() {}
