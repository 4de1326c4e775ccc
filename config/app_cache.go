package config

import (
	"context"
	"errors"
	"strconv"

	"github.com/skill404/landing/internal/log"
	pkgredis "github.com/skill404/landing/pkg/redis"
	"github.com/skill404/landing/pkg/utils"
)

// Cache is the Redis connection behind shared rate limits and /health.
type Cache interface {
	Ping(ctx context.Context) error
	Close() error
}

var ErrCacheNotConfigured = errors.New("cache host is not configured")

type CacheConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

func NewCacheConfig() *CacheConfig {
	db, err := strconv.Atoi(utils.GetEnvTrimmedOrDefault("REDIS_DB", "0"))
	if err != nil || db < 0 {
		db = 0
	}

	return &CacheConfig{
		Host:     utils.GetEnvTrimmed("REDIS_HOST"),
		Port:     utils.GetEnvTrimmedOrDefault("REDIS_PORT", "6379"),
		Password: GetValueFromEnvironmentVariable("REDIS_PASSWORD", ""),
		DB:       db,
	}
}

func (cc *CacheConfig) IsConfigured() bool {
	return cc.Host != ""
}

func (cc *CacheConfig) NewCache(logger *log.Logger) (Cache, error) {
	if !cc.IsConfigured() {
		return nil, ErrCacheNotConfigured
	}

	cache, err := pkgredis.NewRedisCache(&pkgredis.Config{
		Host:     cc.Host,
		Port:     cc.Port,
		Password: cc.Password,
		DB:       cc.DB,
	})
	if err != nil {
		logger.Error("Failed to connect to Redis", "host", cc.Host, "error", err)
		return nil, err
	}

	logger.Info("Redis connected", "host", cc.Host, "db", cc.DB)
	return cache, nil
}

// NewCacheOrNil never fails startup: without Redis, rate limits fall back to
// memory.
func (cc *CacheConfig) NewCacheOrNil(logger *log.Logger) Cache {
	if !cc.IsConfigured() {
		logger.Info("Redis is not configured; proceeding without external cache")
		return nil
	}

	cache, err := cc.NewCache(logger)
	if err != nil {
		return nil
	}
	return cache
}

func CloseCache(cache Cache, logger *log.Logger) error {
	if cache == nil {
		return nil
	}

	if err := cache.Close(); err != nil {
		logger.Error("Failed to close cache", "error", err)
		return err
	}

	logger.Info("Cache connection closed")
	return nil
}
