package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisWindow keeps the fixed-window counter in Redis so every gateway
// replica draws from the same budget. One key exists per window and expires
// at the window boundary.
type RedisWindow struct {
	rdb    redis.UniversalClient
	clock  Clock
	prefix string
	limit  int
	window time.Duration
}

// NewRedisWindow allows at most limit requests per window across all replicas sharing rdb.
func NewRedisWindow(rdb redis.UniversalClient, prefix string, limit int, window time.Duration, clock Clock) *RedisWindow {
	if clock == nil {
		clock = SystemClock
	}
	if prefix == "" {
		prefix = "gateway:ratelimit"
	}
	return &RedisWindow{rdb: rdb, clock: clock, prefix: prefix, limit: limit, window: window}
}

// NewRedisClient parses a redis:// URL.
func NewRedisClient(rawURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return redis.NewClient(opts), nil
}

func (r *RedisWindow) Allow(ctx context.Context) (Decision, error) {
	ws := windowStart(r.clock.Now(), r.window)
	resetAt := ws.Add(r.window)
	key := r.prefix + ":" + strconv.FormatInt(ws.Unix(), 10)

	pipe := r.rdb.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.PExpireAt(ctx, key, resetAt)
	if _, err := pipe.Exec(ctx); err != nil {
		return Decision{}, fmt.Errorf("rate limit counter: %w", err)
	}

	n := int(incr.Val())
	d := Decision{Limit: r.limit, ResetAt: resetAt}
	if n > r.limit {
		return d, nil
	}
	d.Allowed = true
	d.Remaining = r.limit - n
	return d, nil
}
