package router

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/skill404/landing/internal/log"
	"github.com/skill404/landing/pkg/factory"
	"github.com/skill404/landing/pkg/ratelimit"
	"github.com/skill404/landing/pkg/utils"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

const DefaultTimeoutDuration = 30 * time.Second

// Cache is what the router needs from the application cache: a health
// probe, and optionally a Redis client for shared rate limiting.
type Cache interface {
	Ping(ctx context.Context) error
}

type RouterConfig struct {
	RateLimitRequests int
	RateLimitWindow   time.Duration
	RequestTimeout    time.Duration
}

type RouterService struct {
	engine         *gin.Engine
	server         *http.Server
	logger         *log.Logger
	rateLimiter    ratelimit.RateLimiter
	requestTimeout time.Duration

	handlerToControllerMap map[routeKey]*RESTController
	rateLimitOverrides     map[routeKey]ratelimit.RateLimiter
}

func CreateRouterService(logger *log.Logger, cache Cache, routerConfig *RouterConfig) *RouterService {
	if mode, ok := os.LookupEnv("GIN_MODE"); ok && mode != "" {
		logger.Info("Setting Gin mode", "mode", mode)
		gin.SetMode(mode)
	}

	if routerConfig.RequestTimeout <= 0 {
		routerConfig.RequestTimeout = DefaultTimeoutDuration
	}

	engine := gin.New()
	engine.Use(gin.Recovery())

	if utils.IsTracingEnabled() {
		engine.Use(otelgin.Middleware(utils.OTelServiceName()))
		logger.Info("Tracing middleware enabled")
	}

	// Gin trusts every proxy by default, which lets clients spoof ClientIP()
	// and dodge rate limits. Trust nothing unless TRUSTED_PROXIES says so.
	trustedProxies := parseTrustedProxiesEnv(os.Getenv("TRUSTED_PROXIES"))
	if err := engine.SetTrustedProxies(trustedProxies); err != nil {
		logger.Error("Invalid TRUSTED_PROXIES; disabling trusted proxies", "error", err)
		_ = engine.SetTrustedProxies(nil)
	} else if trustedProxies == nil {
		logger.Info("Trusted proxies disabled (TRUSTED_PROXIES not set)")
	}

	rs := &RouterService{
		engine:                 engine,
		logger:                 logger,
		requestTimeout:         routerConfig.RequestTimeout,
		rateLimitOverrides:     make(map[routeKey]ratelimit.RateLimiter),
		handlerToControllerMap: make(map[routeKey]*RESTController),
	}

	rs.rateLimiter = newDefaultRateLimiter(logger, cache, routerConfig)

	rs.mountMetrics()

	engine.Use(
		rs.securityHeadersMiddleware(),
		rs.maxBodySizeMiddleware(),
		rs.corsMiddleware(),
		rs.rateLimitMiddleware(),
		rs.timeoutMiddleware(),
		rs.correlationIDMiddleware(),
		rs.loggerInjectionMiddleware(),
		rs.requestLoggingMiddleware(),
	)

	engine.HandleMethodNotAllowed = true
	engine.RedirectTrailingSlash = true

	engine.NoRoute(func(c *gin.Context) {
		logger.WithCorrelationID(c.Request.Context()).Warn("Route not found", "path", c.Request.URL.Path)
		c.JSON(http.StatusNotFound, NotFoundResult("Route not found").ToJSON())
	})

	engine.NoMethod(func(c *gin.Context) {
		logger.WithCorrelationID(c.Request.Context()).Warn("Method not allowed", "method", c.Request.Method, "path", c.Request.URL.Path)
		c.JSON(http.StatusMethodNotAllowed, ErrorResult(http.StatusMethodNotAllowed, "Method not allowed", nil).ToJSON())
	})

	// Time limits live on the server: gin.Context is not goroutine-safe, so
	// handlers are never raced against a timer.
	rs.server = &http.Server{
		Addr:              ":8080",
		Handler:           engine,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       routerConfig.RequestTimeout,
		WriteTimeout:      routerConfig.RequestTimeout,
		IdleTimeout:       60 * time.Second,
	}

	logger.Info("Router service initialized")
	return rs
}

func newDefaultRateLimiter(logger *log.Logger, cache Cache, cfg *RouterConfig) ratelimit.RateLimiter {
	if cache != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := cache.Ping(ctx); err != nil {
			logger.Warn("Redis unreachable for rate limiting, falling back to in-memory", "error", err)
			cache = nil
		}
	}

	limiters := factory.NewDefaultRateLimiterFactory(cache, logger)
	logger.Info("Rate limiting initialized",
		"backend", limiters.Backend(),
		"requests", cfg.RateLimitRequests,
		"window", cfg.RateLimitWindow,
	)

	return limiters.CreateRateLimiter("global", cfg.RateLimitRequests, cfg.RateLimitWindow)
}

func parseTrustedProxiesEnv(v string) []string {
	s := strings.TrimSpace(v)
	switch s {
	case "":
		return nil
	case "*":
		// Local development escape hatch.
		return []string{"0.0.0.0/0", "::/0"}
	}

	var proxies []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			proxies = append(proxies, p)
		}
	}
	return proxies
}

func (routerService *RouterService) GetEngine() *gin.Engine {
	return routerService.engine
}

func (routerService *RouterService) MountController(controller *RESTController) {
	controller.prepare(routerService, controller)

	routerService.logger.Info("Controller mounted",
		"name", controller.name,
		"path", controller.mountPoint,
		"version", controller.version,
		"handlers", controller.handlerCount,
	)
}

func (routerService *RouterService) RunHTTPServer() error {
	routerService.server.Addr = ":" + utils.GetEnvTrimmedOrDefault("APP_PORT", "8080")
	routerService.logger.Info("Starting HTTP server", "addr", routerService.server.Addr)

	if err := routerService.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		routerService.logger.Error("HTTP server stopped", "error", err)
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	return nil
}

func (routerService *RouterService) Shutdown(ctx context.Context) error {
	routerService.logger.Info("Shutting down HTTP server gracefully")
	return routerService.server.Shutdown(ctx)
}

func (routerService *RouterService) Cleanup() {
	if routerService.rateLimiter != nil {
		if err := routerService.rateLimiter.Close(); err != nil {
			routerService.logger.Error("Failed to close rate limiter", "error", err)
		}
	}
	// Several routes may share one limiter.
	closed := make(map[ratelimit.RateLimiter]bool)
	for key, limiter := range routerService.rateLimitOverrides {
		if closed[limiter] {
			continue
		}
		closed[limiter] = true
		if err := limiter.Close(); err != nil {
			routerService.logger.Error("Failed to close rate limiter", "route", string(key), "error", err)
		}
	}
	routerService.logger.Info("Router service cleanup completed")
}
