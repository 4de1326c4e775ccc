package waitlist

import (
	"time"

	"github.com/skill404/landing/config/router"
	"github.com/skill404/landing/internal/log"
	apperrors "github.com/skill404/landing/pkg/errors"
	"github.com/skill404/landing/pkg/factory"
	"gorm.io/gorm"
)

const waitlistJoinRequestsPerMinute = 30

func NewWaitlistController(
	db *gorm.DB,
	logger *log.Logger,
	limiters factory.RateLimiterFactory,
) *router.RESTController {

	return router.NewVersionedRESTController(
		"WaitlistController",
		"v1",
		"/waitlist",
		func(rs *router.RouterService, c *router.RESTController) {
			repository := NewWaitlistRepository(db)
			service := NewWaitlistService(logger, repository)

			joinLimiter := limiters.CreateRateLimiter("waitlist", waitlistJoinRequestsPerMinute, time.Minute)

			rs.AddPostHandler(c, joinLimiter, "", joinWaitlistHandler(service))
		},
	)
}

func joinWaitlistHandler(service WaitlistService) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		logger := router.GetLogger(ctx)

		var req JoinWaitlistRequest

		if err := ctx.ShouldBindJSON(&req); err != nil {
			logger.Error("Failed to bind request", "error", err)

			validationErrors := apperrors.FormatValidationErrors(err, &req)
			if len(validationErrors) > 0 {
				return router.BadRequestResult("Invalid request payload", validationErrors)
			}

			return router.BadRequestResult("Invalid request body", nil)
		}

		response, err := service.Join(ctx.Request.Context(), req.Email)
		if err != nil {
			return router.ErrorResult(
				apperrors.HTTPStatusCode(err),
				ClassifySubmissionError(err).Text,
				nil,
			)
		}

		return router.CreatedResult(response, "Waitlist entry")
	}
}
