package ratelimit

import (
	"context"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Limiter defines the rate limiting operations used by the HTTP layer
type Limiter interface {
	// Allow checks if a request should be allowed under the given limit
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)

	// AllowN checks if N requests should be allowed
	AllowN(ctx context.Context, key string, n int, limit int, window time.Duration) (bool, error)

	// GetRemaining returns the number of remaining requests in the current window
	GetRemaining(ctx context.Context, key string, limit int, window time.Duration) (int, error)
}

// TokenBucketLimiter implements rate limiting backed by Redis counters.
// Redis atomic operations keep the counting correct across processes.
type TokenBucketLimiter struct {
	redisClient *redis.Client
	logger      *zap.Logger
	fallback    bool // if true, allow requests when Redis is unavailable (fail-open)
}

func NewTokenBucketLimiter(redisClient *redis.Client, logger *zap.Logger, fallback bool) *TokenBucketLimiter {
	return &TokenBucketLimiter{
		redisClient: redisClient,
		logger:      logger,
		fallback:    fallback,
	}
}

// Allow checks if a single request should be allowed
func (l *TokenBucketLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	return l.AllowN(ctx, key, 1, limit, window)
}

// AllowN checks if N requests should be allowed.
// INCRBY and EXPIRE run in one pipeline so the window counter stays atomic.
func (l *TokenBucketLimiter) AllowN(ctx context.Context, key string, n int, limit int, window time.Duration) (bool, error) {
	now := time.Now()
	bucketKey := l.getBucketKey(key, now, window)

	pipe := l.redisClient.Pipeline()
	incrCmd := pipe.IncrBy(ctx, bucketKey, int64(n))
	pipe.Expire(ctx, bucketKey, window+time.Second)

	_, err := pipe.Exec(ctx)
	if err != nil {
		l.logger.Error("rate limit check failed",
			zap.String("key", bucketKey),
			zap.Error(err),
		)

		if l.fallback {
			l.logger.Warn("rate limit check failed, allowing request (fail-open)",
				zap.String("key", key),
			)
			return true, nil
		}

		return false, fmt.Errorf("rate limit check failed: %w", err)
	}

	count := incrCmd.Val()
	allowed := count <= int64(limit)

	if !allowed {
		l.logger.Warn("rate limit exceeded",
			zap.String("key", key),
			zap.Int64("count", count),
			zap.Int("limit", limit),
			zap.Duration("window", window),
		)
	}

	return allowed, nil
}

// GetRemaining returns the number of remaining requests in the current window
func (l *TokenBucketLimiter) GetRemaining(ctx context.Context, key string, limit int, window time.Duration) (int, error) {
	now := time.Now()
	bucketKey := l.getBucketKey(key, now, window)

	count, err := l.redisClient.Get(ctx, bucketKey).Int64()
	if err != nil {
		if err == redis.Nil {
			// Key doesn't exist, all tokens available
			return limit, nil
		}
		return 0, fmt.Errorf("failed to get remaining tokens: %w", err)
	}

	remaining := limit - int(count)
	if remaining < 0 {
		remaining = 0
	}

	return remaining, nil
}

// getBucketKey generates a time-bucketed key for the window
func (l *TokenBucketLimiter) getBucketKey(key string, now time.Time, window time.Duration) string {
	var bucketTime int64

	switch {
	case window <= time.Minute:
		bucketTime = now.Unix() / int64(window.Seconds())
	case window <= time.Hour:
		bucketTime = now.Unix() / 60 / int64(window.Minutes())
	default:
		bucketTime = now.Unix() / 3600 / int64(window.Hours())
	}

	return fmt.Sprintf("ratelimit:%s:%d", key, bucketTime)
}
