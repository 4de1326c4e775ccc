package redis

import (
	"context"
	"fmt"
	"net"
	"time"

	goredis "github.com/go-redis/redis/v8"
)

type Config struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// RedisCache owns the single Redis client shared by the rate limiters.
type RedisCache struct {
	client *goredis.Client
}

func NewRedisCache(cfg *Config) (*RedisCache, error) {
	if cfg == nil || cfg.Host == "" {
		return nil, fmt.Errorf("redis: host is required")
	}

	client := goredis.NewClient(&goredis.Options{
		Addr:         net.JoinHostPort(cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis: ping failed: %w", err)
	}

	return &RedisCache{client: client}, nil
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

// GetClient hands the client to the rate limiter factory.
func (c *RedisCache) GetClient() *goredis.Client {
	return c.client
}
