package waitlist

import (
	"github.com/skill404/landing/config/router"
	"github.com/skill404/landing/internal/log"
	"github.com/skill404/landing/pkg/factory"
	"gorm.io/gorm"
)

type WaitlistServiceFactory interface {
	CreateService() WaitlistService
	CreateController() *router.RESTController
}

type DefaultWaitlistServiceFactory struct {
	db       *gorm.DB
	logger   *log.Logger
	limiters factory.RateLimiterFactory
}

func NewWaitlistServiceFactory(db *gorm.DB, logger *log.Logger, limiters factory.RateLimiterFactory) WaitlistServiceFactory {
	return &DefaultWaitlistServiceFactory{
		db:       db,
		logger:   logger,
		limiters: limiters,
	}
}

func (f *DefaultWaitlistServiceFactory) CreateService() WaitlistService {
	repository := NewWaitlistRepository(f.db)
	return NewWaitlistService(f.logger, repository)
}

func (f *DefaultWaitlistServiceFactory) CreateController() *router.RESTController {
	return NewWaitlistController(f.db, f.logger, f.limiters)
}
