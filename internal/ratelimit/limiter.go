// Package ratelimit provides per-client sliding-window rate limiting backed
// by Redis, with a pass-through limiter for deployments running without one.
package ratelimit

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/devenspear/Crafted25-AIChatbot/internal/shared"
	"github.com/redis/go-redis/v9"
)

// Result is the outcome of one limiter check.
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	Reset     time.Time
}

// Limiter answers whether the caller identified by key may proceed.
type Limiter interface {
	Allow(ctx context.Context, key string) (Result, error)
}

// SlidingWindow counts request timestamps in a Redis sorted set per key and
// rejects once the window holds limit entries. A rejected request still
// records its timestamp, matching upstream sliding-window limiters.
type SlidingWindow struct {
	redis  *redis.Client
	prefix string
	limit  int
	window time.Duration
	logger *slog.Logger
	now    func() time.Time
}

func NewSlidingWindow(redisClient *redis.Client, prefix string, limit int, window time.Duration, logger *slog.Logger) *SlidingWindow {
	return &SlidingWindow{
		redis:  redisClient,
		prefix: prefix,
		limit:  limit,
		window: window,
		logger: logger.With("component", "ratelimit", "prefix", prefix),
		now:    time.Now,
	}
}

func (l *SlidingWindow) Allow(ctx context.Context, key string) (Result, error) {
	now := l.now()
	nowMs := now.UnixMilli()
	windowStart := nowMs - l.window.Milliseconds()
	redisKey := l.prefix + ":" + key

	pipe := l.redis.Pipeline()
	pipe.ZRemRangeByScore(ctx, redisKey, "0", fmt.Sprintf("(%d", windowStart))
	pipe.ZAdd(ctx, redisKey, redis.Z{
		Score:  float64(nowMs),
		Member: fmt.Sprintf("%d-%s", now.UnixNano(), shared.NewID("req_")),
	})
	count := pipe.ZCard(ctx, redisKey)
	pipe.Expire(ctx, redisKey, l.window)

	if _, err := pipe.Exec(ctx); err != nil {
		return Result{}, err
	}

	used := int(count.Val())
	remaining := l.limit - used
	if remaining < 0 {
		remaining = 0
	}

	return Result{
		Allowed:   used <= l.limit,
		Limit:     l.limit,
		Remaining: remaining,
		Reset:     now.Add(l.window),
	}, nil
}

// Noop allows everything. Used when no Redis backend is configured.
type Noop struct{}

func (Noop) Allow(_ context.Context, _ string) (Result, error) {
	return Result{Allowed: true}, nil
}
