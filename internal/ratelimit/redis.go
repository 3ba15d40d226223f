package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter keeps one counter per (key, window bucket). INCR and EXPIRE
// run in a single pipeline so concurrent callers can only over-expire, never
// under-count.
type RedisLimiter struct {
	client *redis.Client
	prefix string
	window time.Duration
	max    int
	now    func() time.Time
}

func NewRedisLimiter(client *redis.Client, prefix string, window time.Duration, max int) *RedisLimiter {
	return &RedisLimiter{
		client: client,
		prefix: prefix,
		window: window,
		max:    max,
		now:    time.Now,
	}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	bucket := l.now().UnixNano() / int64(l.window)
	counterKey := fmt.Sprintf("ratelimit:%s:%s:%d", l.prefix, key, bucket)

	pipe := l.client.TxPipeline()
	count := pipe.Incr(ctx, counterKey)
	pipe.Expire(ctx, counterKey, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("redis rate limit failed: %w", err)
	}

	return count.Val() <= int64(l.max), nil
}
