package domain

import (
	"github.com/skill404/landing/config"
	"github.com/skill404/landing/domain/auth"
	"github.com/skill404/landing/domain/landing"
	"github.com/skill404/landing/domain/monitoring"
	"github.com/skill404/landing/domain/waitlist"
	"github.com/skill404/landing/pkg/factory"
)

// SetupCoreDomain mounts every controller of the landing service.
func SetupCoreDomain(appConfig *config.ApplicationConfig) {
	limiters := rateLimiters(appConfig)
	rs := appConfig.RouterService

	var monitoringCache monitoring.Cache
	if appConfig.Cache != nil {
		monitoringCache = appConfig.Cache
	}

	rs.MountController(monitoring.NewMonitoringControllerFactory(
		appConfig.DB,
		appConfig.Logger,
		monitoringCache,
		appConfig.GitHubOAuth.IsConfigured(),
		limiters,
	).CreateController())

	waitlistFactory := waitlist.NewWaitlistServiceFactory(appConfig.DB, appConfig.Logger, limiters)
	rs.MountController(waitlistFactory.CreateController())
	rs.MountController(landing.NewLandingController(waitlistFactory.CreateService(), limiters))

	authFactory := auth.NewAuthServiceFactory(appConfig.Logger, appConfig.GitHubOAuth, limiters)
	for _, controller := range authFactory.CreateControllers() {
		rs.MountController(controller)
	}
}

func rateLimiters(appConfig *config.ApplicationConfig) factory.RateLimiterFactory {
	if appConfig.Factories != nil && appConfig.Factories.RateLimiterFactory != nil {
		return appConfig.Factories.RateLimiterFactory
	}
	return factory.NewDefaultRateLimiterFactory(nil, appConfig.Logger)
}
