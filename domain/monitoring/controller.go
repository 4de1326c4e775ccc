package monitoring

import (
	"context"
	"net/http"
	"time"

	"github.com/skill404/landing/config/router"
	"github.com/skill404/landing/internal/log"
	"github.com/skill404/landing/pkg/factory"
	"gorm.io/gorm"
)

const monitoringRequestsPerMinute = 10

type Cache interface {
	Ping(ctx context.Context) error
}

// HealthStatus reports 1 for healthy and 0 for unhealthy or not configured.
type HealthStatus struct {
	Database    int `json:"database"`
	Cache       int `json:"cache"`
	GitHubOAuth int `json:"github_oauth"`
	Uptime      int `json:"uptime"` // seconds
}

type MonitoringController struct {
	db              *gorm.DB
	logger          *log.Logger
	cache           Cache
	oauthConfigured bool
	startTime       time.Time
}

func NewMonitoringController(
	db *gorm.DB,
	logger *log.Logger,
	cache Cache,
	oauthConfigured bool,
	limiters factory.RateLimiterFactory,
) *router.RESTController {
	ctrl := &MonitoringController{
		db:              db,
		logger:          logger,
		cache:           cache,
		oauthConfigured: oauthConfigured,
		startTime:       time.Now(),
	}

	return router.NewRESTController(
		"MonitoringController",
		"/",
		func(routerService *router.RouterService, controller *router.RESTController) {
			limiter := limiters.CreateRateLimiter("monitoring", monitoringRequestsPerMinute, time.Minute)

			routerService.AddGetHandler(controller, limiter, "status", ctrl.status)
			routerService.AddGetHandler(controller, limiter, "health", ctrl.healthCheck)
		},
	)
}

func (ctrl *MonitoringController) status(c *router.RequestContext) *router.ServiceResult {
	return router.OKResult("Service is operational.", "Status check successful")
}

func (ctrl *MonitoringController) healthCheck(c *router.RequestContext) *router.ServiceResult {
	logger := router.GetLogger(c)
	logger.Info("Health check endpoint called")

	return &router.ServiceResult{
		StatusCode: http.StatusOK,
		Data:       ctrl.performHealthChecks(c.Request.Context(), logger),
		Message:    "skill404 health check completed",
	}
}

func (ctrl *MonitoringController) performHealthChecks(ctx context.Context, logger *log.Logger) HealthStatus {
	status := HealthStatus{
		Uptime: int(time.Since(ctrl.startTime).Seconds()),
	}

	if ctrl.checkDatabase(ctx) {
		status.Database = 1
	} else {
		logger.Error("Database health check failed")
	}

	switch {
	case ctrl.cache == nil:
		logger.Info("Cache not configured, cache health check skipped")
	case ctrl.cache.Ping(ctx) == nil:
		status.Cache = 1
	default:
		logger.Error("Cache health check failed")
	}

	if ctrl.oauthConfigured {
		status.GitHubOAuth = 1
	} else {
		logger.Warn("GitHub OAuth is not configured")
	}

	return status
}

func (ctrl *MonitoringController) checkDatabase(ctx context.Context) bool {
	if ctrl.db == nil {
		return false
	}

	sqlDB, err := ctrl.db.DB()
	if err != nil {
		return false
	}

	return sqlDB.PingContext(ctx) == nil
}
