package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore counts requests in Redis so that all instances share one
// budget per client key.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore pings the server before returning so that a misconfigured
// address fails at startup rather than on the first request.
func NewRedisStore(client *redis.Client, prefix string) (*RedisStore, error) {
	if prefix == "" {
		prefix = "ratelimit:"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &RedisStore{client: client, prefix: prefix}, nil
}

func (s *RedisStore) Check(ctx context.Context, key string, limit int, window time.Duration) (Result, error) {
	k := s.prefix + key

	pipe := s.client.TxPipeline()
	incr := pipe.Incr(ctx, k)
	pttl := pipe.PTTL(ctx, k)
	if _, err := pipe.Exec(ctx); err != nil {
		return Result{}, fmt.Errorf("redis incr %q: %w", key, err)
	}

	count := incr.Val()
	ttl := pttl.Val()
	if ttl < 0 {
		// Fresh key: open the window.
		if err := s.client.PExpire(ctx, k, window).Err(); err != nil {
			return Result{}, fmt.Errorf("redis pexpire %q: %w", key, err)
		}
		ttl = window
	}

	now := time.Now()
	resetAt := now.Add(ttl)

	if count > int64(limit) {
		return Result{
			Allowed:    false,
			Limit:      limit,
			Remaining:  0,
			ResetAt:    resetAt,
			RetryAfter: retryAfterSeconds(resetAt, now),
		}, nil
	}

	return Result{Allowed: true, Limit: limit, Remaining: limit - int(count), ResetAt: resetAt}, nil
}
