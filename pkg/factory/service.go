package factory

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/skill404/landing/pkg/ratelimit"
)

type Cache interface {
	Ping(ctx context.Context) error
}

type RedisClientProvider interface {
	GetClient() *redis.Client
}

// RateLimiterFactory builds per-controller limiters. The scope keeps the
// Redis keys of different limiters apart.
type RateLimiterFactory interface {
	CreateRateLimiter(scope string, requests int, window time.Duration) ratelimit.RateLimiter
}

type DefaultRateLimiterFactory struct {
	redis  *redis.Client
	logger ratelimit.Logger
}

// NewDefaultRateLimiterFactory uses Redis when cache exposes a client and
// falls back to in-memory limiters otherwise.
func NewDefaultRateLimiterFactory(cache Cache, logger ratelimit.Logger) *DefaultRateLimiterFactory {
	var redisClient *redis.Client
	if cache != nil {
		if provider, ok := cache.(RedisClientProvider); ok {
			redisClient = provider.GetClient()
		}
	}

	return &DefaultRateLimiterFactory{
		redis:  redisClient,
		logger: logger,
	}
}

// Backend names the store behind the limiters, for startup logs.
func (f *DefaultRateLimiterFactory) Backend() string {
	if f.redis != nil {
		return "redis"
	}
	return "memory"
}

func (f *DefaultRateLimiterFactory) CreateRateLimiter(scope string, requests int, window time.Duration) ratelimit.RateLimiter {
	return ratelimit.NewRateLimiter(&ratelimit.RateLimitConfig{
		Requests:  requests,
		Window:    window,
		Redis:     f.redis,
		Logger:    f.logger,
		KeyPrefix: ratelimit.DefaultKeyPrefix + scope + ":",
	})
}

type FactoryContainer struct {
	RateLimiterFactory RateLimiterFactory
}

func NewFactoryContainer(cache Cache, logger ratelimit.Logger) *FactoryContainer {
	return &FactoryContainer{
		RateLimiterFactory: NewDefaultRateLimiterFactory(cache, logger),
	}
}
