package monitoring

import (
	"github.com/skill404/landing/config/router"
	"github.com/skill404/landing/internal/log"
	"github.com/skill404/landing/pkg/factory"
	"gorm.io/gorm"
)

type MonitoringControllerFactory interface {
	CreateController() *router.RESTController
}

type DefaultMonitoringControllerFactory struct {
	db              *gorm.DB
	logger          *log.Logger
	cache           Cache
	oauthConfigured bool
	limiters        factory.RateLimiterFactory
}

func NewMonitoringControllerFactory(
	db *gorm.DB,
	logger *log.Logger,
	cache Cache,
	oauthConfigured bool,
	limiters factory.RateLimiterFactory,
) MonitoringControllerFactory {
	return &DefaultMonitoringControllerFactory{
		db:              db,
		logger:          logger,
		cache:           cache,
		oauthConfigured: oauthConfigured,
		limiters:        limiters,
	}
}

func (f *DefaultMonitoringControllerFactory) CreateController() *router.RESTController {
	return NewMonitoringController(f.db, f.logger, f.cache, f.oauthConfigured, f.limiters)
}
