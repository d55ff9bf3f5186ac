package ratelimit

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// setupTestRedis creates a miniredis instance for testing
func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	return client, mr
}

func TestTokenBucketLimiter_Allow(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()

	limiter := NewTokenBucketLimiter(client, zap.NewNop(), false)

	ctx := context.Background()
	key := "test:user:123"
	limit := 5
	window := time.Minute

	for i := range limit {
		allowed, err := limiter.Allow(ctx, key, limit, window)
		assert.NoError(t, err)
		assert.True(t, allowed, "request %d should be allowed", i+1)
	}

	allowed, err := limiter.Allow(ctx, key, limit, window)
	assert.NoError(t, err)
	assert.False(t, allowed, "request should be denied after limit exceeded")
}

func TestTokenBucketLimiter_AllowN(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()

	limiter := NewTokenBucketLimiter(client, zap.NewNop(), false)

	ctx := context.Background()
	key := "test:user:456"
	limit := 10
	window := time.Minute

	allowed, err := limiter.AllowN(ctx, key, 3, limit, window)
	assert.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = limiter.AllowN(ctx, key, 7, limit, window)
	assert.NoError(t, err)
	assert.True(t, allowed)

	// Would exceed the limit
	allowed, err = limiter.AllowN(ctx, key, 1, limit, window)
	assert.NoError(t, err)
	assert.False(t, allowed)
}

func TestTokenBucketLimiter_GetRemaining(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()

	limiter := NewTokenBucketLimiter(client, zap.NewNop(), false)

	ctx := context.Background()
	key := "test:user:789"
	limit := 10
	window := time.Minute

	remaining, err := limiter.GetRemaining(ctx, key, limit, window)
	assert.NoError(t, err)
	assert.Equal(t, limit, remaining)

	_, err = limiter.AllowN(ctx, key, 4, limit, window)
	require.NoError(t, err)

	remaining, err = limiter.GetRemaining(ctx, key, limit, window)
	assert.NoError(t, err)
	assert.Equal(t, 6, remaining)
}

func TestTokenBucketLimiter_FailOpen(t *testing.T) {
	client, mr := setupTestRedis(t)
	limiter := NewTokenBucketLimiter(client, zap.NewNop(), true)

	// Kill redis, fail-open limiter must still allow
	mr.Close()
	client.Close()

	allowed, err := limiter.Allow(context.Background(), "k", 1, time.Minute)
	assert.NoError(t, err)
	assert.True(t, allowed)
}

func TestTokenBucketLimiter_FailClosed(t *testing.T) {
	client, mr := setupTestRedis(t)
	limiter := NewTokenBucketLimiter(client, zap.NewNop(), false)

	mr.Close()
	client.Close()

	allowed, err := limiter.Allow(context.Background(), "k", 1, time.Minute)
	assert.Error(t, err)
	assert.False(t, allowed)
}
