package router

import (
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/skill404/landing/pkg/ratelimit"
)

// limiterFor resolves the limiter for a matched route: the handler's own
// limiter if it registered one, the global limiter otherwise.
func (routerService *RouterService) limiterFor(key routeKey) ratelimit.RateLimiter {
	if limiter, ok := routerService.rateLimitOverrides[key]; ok {
		return limiter
	}
	return routerService.rateLimiter
}

func (routerService *RouterService) rateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := c.ClientIP()
		key := newRouteKey(c.Request.Method, c.FullPath())

		if _, found := routerService.handlerToControllerMap[key]; !found {
			// Unmatched routes fall through to NoRoute / NoMethod.
			c.Next()
			return
		}

		limiter := routerService.limiterFor(key)
		if limiter == nil {
			c.Next()
			return
		}

		limit, window := limiter.GetLimitDetails()
		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		c.Header("X-RateLimit-Window", window.String())

		limited, err := limiter.IsLimited(clientIP)
		if err != nil {
			// A broken limiter backend must not take the landing page down.
			routerService.logger.Error("Rate limiter error", "error", err, "client_ip", clientIP)
			c.Next()
			return
		}

		if limited {
			routerService.logger.Warn("Rate limit exceeded", "client_ip", clientIP, "route", c.FullPath())

			retryAfter := int(math.Ceil(window.Seconds()))
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, TooManyRequestsResult(RateLimitResponse{
				Limit:      limit,
				Window:     window.String(),
				RetryAfter: strconv.Itoa(retryAfter),
			}).ToJSON())
			return
		}

		c.Next()
	}
}
