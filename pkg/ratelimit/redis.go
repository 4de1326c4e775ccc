package ratelimit

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
)

// slidingWindow records one hit and reports 1 when the key is over limit.
// KEYS[1] key; ARGV now_ms, window_ms, limit, member.
var slidingWindow = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])

redis.call('ZREMRANGEBYSCORE', key, 0, now - window)
if redis.call('ZCARD', key) >= limit then
	return 1
end

redis.call('ZADD', key, now, ARGV[4])
redis.call('PEXPIRE', key, window * 2)
return 0
`)

// RedisRateLimiter is a sliding window limiter shared by every replica.
type RedisRateLimiter struct {
	client    *redis.Client
	requests  int
	window    time.Duration
	keyPrefix string
	logger    Logger
}

func NewRedisRateLimiter(client *redis.Client, requests int, window time.Duration, logger Logger) *RedisRateLimiter {
	return &RedisRateLimiter{
		client:    client,
		requests:  requests,
		window:    window,
		keyPrefix: DefaultKeyPrefix,
		logger:    logger,
	}
}

func (r *RedisRateLimiter) GetLimitDetails() (int, time.Duration) {
	return r.requests, r.window
}

func (r *RedisRateLimiter) IsLimited(key string) (bool, error) {
	fullKey := key
	if !strings.HasPrefix(key, r.keyPrefix) {
		fullKey = r.keyPrefix + key
	}

	result, err := slidingWindow.Run(
		context.Background(),
		r.client,
		[]string{fullKey},
		time.Now().UnixMilli(),
		r.window.Milliseconds(),
		r.requests,
		memberID(),
	).Int64()
	if err != nil {
		if r.logger != nil {
			r.logger.Error("Redis rate limit script failed", "key", fullKey, "error", err)
		}
		return false, fmt.Errorf("rate limiter redis: %w", err)
	}

	return result == 1, nil
}

// Close is a no-op: the Redis client belongs to the application cache.
func (r *RedisRateLimiter) Close() error {
	return nil
}

func memberID() string {
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
