package ratelimit

import (
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryRateLimiter_IsPerKey(t *testing.T) {
	limiter := NewInMemoryRateLimiter(1, time.Second)

	limited, err := limiter.IsLimited("client-a")
	require.NoError(t, err)
	assert.False(t, limited, "first request for client-a")

	limited, err = limiter.IsLimited("client-a")
	require.NoError(t, err)
	assert.True(t, limited, "second immediate request for client-a")

	limited, err = limiter.IsLimited("client-b")
	require.NoError(t, err)
	assert.False(t, limited, "client-b has its own bucket")
}

func TestInMemoryRateLimiter_AllowsBurstUpToLimit(t *testing.T) {
	limiter := NewInMemoryRateLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		limited, err := limiter.IsLimited("10.0.0.1")
		require.NoError(t, err)
		assert.False(t, limited, "request %d", i+1)
	}

	limited, err := limiter.IsLimited("10.0.0.1")
	require.NoError(t, err)
	assert.True(t, limited)

	requests, window := limiter.GetLimitDetails()
	assert.Equal(t, 3, requests)
	assert.Equal(t, time.Minute, window)
}

func TestNewRateLimiter_SelectsBackend(t *testing.T) {
	inMemory := NewRateLimiter(&RateLimitConfig{Requests: 5, Window: time.Second})
	assert.IsType(t, &InMemoryRateLimiter{}, inMemory)

	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	defer client.Close()

	shared := NewRateLimiter(&RateLimitConfig{Requests: 5, Window: time.Second, Redis: client, KeyPrefix: "ratelimit:waitlist:"})
	require.IsType(t, &RedisRateLimiter{}, shared)
	assert.Equal(t, "ratelimit:waitlist:", shared.(*RedisRateLimiter).keyPrefix)
}

func TestRedisRateLimiter_ReportsBackendErrors(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1, DialTimeout: 100 * time.Millisecond})
	defer client.Close()

	limiter := NewRedisRateLimiter(client, 5, time.Second, nil)

	limited, err := limiter.IsLimited("10.0.0.1")
	assert.Error(t, err)
	assert.False(t, limited)
}
