package auth

import (
	"github.com/skill404/landing/config"
	"github.com/skill404/landing/config/router"
	"github.com/skill404/landing/internal/log"
	"github.com/skill404/landing/pkg/circuitbreaker"
	"github.com/skill404/landing/pkg/factory"
)

type AuthServiceFactory interface {
	CreateService() AuthService
	CreateControllers() []*router.RESTController
}

type DefaultAuthServiceFactory struct {
	limiters factory.RateLimiterFactory
	service  AuthService
}

// NewAuthServiceFactory builds one service shared by the API endpoint and
// the callback page so both see the same circuit breaker.
func NewAuthServiceFactory(logger *log.Logger, oauth *config.GitHubOAuthConfig, limiters factory.RateLimiterFactory) AuthServiceFactory {
	if oauth == nil {
		oauth = &config.GitHubOAuthConfig{}
	}

	breaker := circuitbreaker.NewCircuitBreaker(&circuitbreaker.Config{
		FailureThreshold: oauth.BreakerFailureThreshold,
		RecoveryTimeout:  oauth.BreakerRecoveryTimeout,
		OnStateChange: func(from, to circuitbreaker.State) {
			logger.Warn("GitHub circuit breaker state changed", "from", from.String(), "to", to.String())
		},
	})
	exchanger := NewGitHubExchanger(oauth, breaker)

	return &DefaultAuthServiceFactory{
		limiters: limiters,
		service:  NewAuthService(logger, exchanger),
	}
}

func (f *DefaultAuthServiceFactory) CreateService() AuthService {
	return f.service
}

func (f *DefaultAuthServiceFactory) CreateControllers() []*router.RESTController {
	return []*router.RESTController{
		NewAuthController(f.service, f.limiters),
		NewCallbackPageController(f.service, f.limiters),
	}
}
