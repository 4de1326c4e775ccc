package config

import (
	"testing"

	"github.com/skill404/landing/internal/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCacheConfig_ReadsEnv(t *testing.T) {
	t.Setenv("REDIS_HOST", " redis ")
	t.Setenv("REDIS_PORT", "")
	t.Setenv("REDIS_PASSWORD", `"s3cret"`)
	t.Setenv("REDIS_DB", "2")

	cfg := NewCacheConfig()
	assert.Equal(t, "redis", cfg.Host)
	assert.Equal(t, "6379", cfg.Port)
	assert.Equal(t, "s3cret", cfg.Password)
	assert.Equal(t, 2, cfg.DB)
	assert.True(t, cfg.IsConfigured())
}

func TestNewCacheConfig_InvalidDBFallsBackToZero(t *testing.T) {
	t.Setenv("REDIS_DB", "-1")
	assert.Equal(t, 0, NewCacheConfig().DB)
}

func TestNewCacheOrNil_Unconfigured(t *testing.T) {
	cfg := &CacheConfig{}

	_, err := cfg.NewCache(log.NewLoggerWithJSONOutput())
	require.ErrorIs(t, err, ErrCacheNotConfigured)

	assert.Nil(t, cfg.NewCacheOrNil(log.NewLoggerWithJSONOutput()))
}
