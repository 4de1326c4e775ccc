package router

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/skill404/landing/internal/log"
	"github.com/skill404/landing/pkg/utils"
)

const (
	defaultMaxBodyBytes = int64(1 << 20)
	defaultHSTSMaxAge   = int64(31536000)

	// Pages are server-rendered with no scripts or third-party assets.
	contentSecurityPolicy = "default-src 'self'; style-src 'self' 'unsafe-inline'; form-action 'self'; frame-ancestors 'none'"
)

func (routerService *RouterService) correlationIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(log.CorrelationHeader)
		if id == "" {
			id = log.GenerateCorrelationID()
		}
		c.Request = c.Request.WithContext(log.ContextWithCorrelationID(c.Request.Context(), id))
		c.Header(log.CorrelationHeader, id)
		c.Next()
	}
}

func (routerService *RouterService) loggerInjectionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		correlated := routerService.logger.WithCorrelationID(c.Request.Context())
		ctx := context.WithValue(c.Request.Context(), log.LoggerKeyForContext, correlated)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func (routerService *RouterService) requestLoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		GetLogger(c).Info("HTTP request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"remote_addr", c.ClientIP(),
		)
	}
}

func (routerService *RouterService) securityHeadersMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "no-referrer")
		h.Set("Content-Security-Policy", contentSecurityPolicy)

		if shouldSetHSTS(c) {
			h.Set("Strict-Transport-Security", buildHSTSValue())
		}
		c.Next()
	}
}

// shouldSetHSTS defaults to on in production and honors HSTS_ENABLED
// elsewhere. The header is only sent over (possibly proxied) HTTPS.
func shouldSetHSTS(c *gin.Context) bool {
	enabled := isProductionEnv()
	if raw := utils.GetEnvTrimmed("HSTS_ENABLED"); raw != "" {
		if b, err := strconv.ParseBool(raw); err == nil {
			enabled = b
		}
	}

	if !enabled {
		return false
	}

	if c.Request.TLS != nil {
		return true
	}
	return strings.EqualFold(strings.TrimSpace(c.GetHeader("X-Forwarded-Proto")), "https")
}

func isProductionEnv() bool {
	switch strings.ToLower(utils.GetEnvTrimmed("APP_ENV")) {
	case "production", "prod":
		return true
	}
	return false
}

func buildHSTSValue() string {
	maxAge := envPositiveInt64("HSTS_MAX_AGE", defaultHSTSMaxAge)

	value := fmt.Sprintf("max-age=%d", maxAge)
	includeSubdomains, err := strconv.ParseBool(utils.GetEnvTrimmedOrDefault("HSTS_INCLUDE_SUBDOMAINS", "true"))
	if err != nil || includeSubdomains {
		value += "; includeSubDomains"
	}
	return value
}

func envPositiveInt64(key string, fallback int64) int64 {
	if raw := utils.GetEnvTrimmed(key); raw != "" {
		if parsed, err := strconv.ParseInt(raw, 10, 64); err == nil && parsed > 0 {
			return parsed
		}
	}
	return fallback
}

func (routerService *RouterService) maxBodySizeMiddleware() gin.HandlerFunc {
	maxBytes := envPositiveInt64("MAX_REQUEST_BODY_BYTES", defaultMaxBodyBytes)

	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, ErrorResult(
				http.StatusRequestEntityTooLarge,
				"Request payload too large",
				nil,
			).ToJSON())
			return
		}
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}

// corsMiddleware only answers for origins listed in CORS_ALLOWED_ORIGIN.
// Same-origin page traffic needs none of this.
func (routerService *RouterService) corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin == "" || !originAllowed(origin, os.Getenv("CORS_ALLOWED_ORIGIN")) {
			if origin != "" {
				routerService.logger.Warn("CORS origin not allowed", "origin", origin)
			}
			c.Next()
			return
		}

		h := c.Writer.Header()
		h.Set("Access-Control-Allow-Origin", origin)
		h.Set("Access-Control-Allow-Credentials", "true")
		h.Set("Access-Control-Allow-Headers", "Content-Type, Accept, Origin, Authorization, "+log.CorrelationHeader)
		h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		h.Add("Vary", "Origin")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func originAllowed(origin, allowList string) bool {
	for _, allowed := range strings.Split(allowList, ",") {
		allowed = strings.TrimSpace(allowed)
		if allowed != "" && (allowed == "*" || allowed == origin) {
			return true
		}
	}
	return false
}

func (routerService *RouterService) timeoutMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), routerService.requestTimeout)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Next()

		// Mid-flight enforcement belongs to the http.Server timeouts. This only
		// covers handlers that ran out the deadline without writing anything.
		if ctx.Err() == context.DeadlineExceeded && !c.Writer.Written() {
			GetLogger(c).Warn("Request timeout detected")
			c.AbortWithStatusJSON(http.StatusRequestTimeout, ErrorResult(
				http.StatusRequestTimeout,
				"Request timeout",
				nil,
			).ToJSON())
		}
	}
}
