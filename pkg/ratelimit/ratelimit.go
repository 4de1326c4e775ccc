// Package ratelimit limits requests per client key, in process or shared
// through Redis.
package ratelimit

import (
	"time"

	"github.com/go-redis/redis/v8"
)

type Logger interface {
	Error(msg string, args ...interface{})
}

type RateLimiter interface {
	GetLimitDetails() (int, time.Duration)
	IsLimited(key string) (bool, error)
	Close() error
}

const DefaultKeyPrefix = "ratelimit:"

type RateLimitConfig struct {
	Requests  int
	Window    time.Duration
	Redis     *redis.Client // nil selects the in-memory limiter
	Logger    Logger
	KeyPrefix string // Redis key namespace, DefaultKeyPrefix when empty
}

func NewRateLimiter(config *RateLimitConfig) RateLimiter {
	if config.Redis == nil {
		return NewInMemoryRateLimiter(config.Requests, config.Window)
	}

	limiter := NewRedisRateLimiter(config.Redis, config.Requests, config.Window, config.Logger)
	if config.KeyPrefix != "" {
		limiter.keyPrefix = config.KeyPrefix
	}
	return limiter
}
