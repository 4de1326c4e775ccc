package config

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/skill404/landing/config/router"
	"github.com/skill404/landing/internal/log"
	"github.com/skill404/landing/internal/models"
	"github.com/skill404/landing/pkg/constants"
	"github.com/skill404/landing/pkg/factory"
	"github.com/skill404/landing/pkg/utils"
	"gorm.io/gorm"
)

type ApplicationConfig struct {
	DB              *gorm.DB
	RouterService   *router.RouterService
	Logger          *log.Logger
	Cache           Cache
	Config          *AppConfig
	GitHubOAuth     *GitHubOAuthConfig
	Factories       *factory.FactoryContainer
	TracingShutdown func(context.Context) error
}

type AppConfig struct {
	RateLimitRequests int
	RateLimitWindow   time.Duration
	RequestTimeout    time.Duration
}

func NewAppConfig() *AppConfig {
	config := &AppConfig{
		RateLimitRequests: constants.DefaultRateLimitRequests,
		RateLimitWindow:   constants.DefaultRateLimitWindow,
		RequestTimeout:    constants.DefaultRequestTimeout,
	}

	if n, err := parsePositiveInt(utils.GetEnvTrimmed("RATE_LIMIT_REQUESTS")); err == nil {
		config.RateLimitRequests = n
	}
	if d, err := time.ParseDuration(utils.GetEnvTrimmed("RATE_LIMIT_WINDOW")); err == nil && d > 0 {
		config.RateLimitWindow = d
	}
	if d, err := time.ParseDuration(utils.GetEnvTrimmed("REQUEST_TIMEOUT")); err == nil && d > 0 {
		config.RequestTimeout = d
	}

	return config
}

func parsePositiveInt(raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, fmt.Errorf("must be positive, got %d", n)
	}
	return n, nil
}

// RouterConfig adapts the env-driven settings to the router.
func (ac *AppConfig) RouterConfig() *router.RouterConfig {
	return &router.RouterConfig{
		RateLimitRequests: ac.RateLimitRequests,
		RateLimitWindow:   ac.RateLimitWindow,
		RequestTimeout:    ac.RequestTimeout,
	}
}

func (ac *ApplicationConfig) Cleanup() {
	if ac.TracingShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := ac.TracingShutdown(ctx); err != nil {
			ac.Logger.Error("Failed to shutdown tracer provider", "error", err)
		}
	}

	if ac.RouterService != nil {
		ac.RouterService.Cleanup()
	}

	if ac.DB != nil {
		CloseDatabase(ac.DB, ac.Logger)
	}

	if ac.Cache != nil {
		_ = CloseCache(ac.Cache, ac.Logger)
	}

	ac.Logger.Info("Application cleanup completed")
}

func LoadApplicationConfiguration(logger *log.Logger, autoMigrate bool) (*ApplicationConfig, error) {
	InitializeEnvFile(logger)

	if autoMigrate {
		appEnv := GetAppEnv()
		if err := ValidateAutoMigrateAllowed(appEnv); err != nil {
			return nil, err
		}
		if appEnv == "" {
			logger.Warn("APP_ENV not set; allowing --auto-migrate as development")
		}
	}

	oauth, err := LoadGitHubOAuthConfig()
	if err != nil {
		return nil, fmt.Errorf("github oauth config: %w", err)
	}
	if !oauth.IsConfigured() {
		logger.Warn("GITHUB_CLIENT_ID or GITHUB_CLIENT_SECRET not set; the OAuth callback will fail every exchange")
	}

	tracingShutdown, err := SetupTracing(logger)
	if err != nil {
		return nil, err
	}

	db, err := NewDatabase(logger, NewDBConfig())
	if err != nil {
		return nil, err
	}

	if autoMigrate {
		if err := AutoMigrate(logger, db, models.ModelRegistry...); err != nil {
			return nil, err
		}
	}

	appConfig := NewAppConfig()
	cache := NewCacheConfig().NewCacheOrNil(logger)

	var routerCache router.Cache
	var factoryCache factory.Cache
	if cache != nil {
		routerCache, factoryCache = cache, cache
	}

	logger.Info("Application configuration loaded successfully")

	return &ApplicationConfig{
		DB:              db,
		RouterService:   router.CreateRouterService(logger, routerCache, appConfig.RouterConfig()),
		Logger:          logger,
		Cache:           cache,
		Config:          appConfig,
		GitHubOAuth:     oauth,
		Factories:       factory.NewFactoryContainer(factoryCache, logger),
		TracingShutdown: tracingShutdown,
	}, nil
}
