package auth

import (
	"embed"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin/render"
	"github.com/skill404/landing/config/router"
	apperrors "github.com/skill404/landing/pkg/errors"
	"github.com/skill404/landing/pkg/factory"
)

const (
	callbackRequestsPerMinute = 20

	// The token has no expiry handling, so the cookie mirrors browser
	// storage and simply lives for a year.
	tokenCookieMaxAge = 365 * 24 * 60 * 60
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// NewAuthController mounts the JSON code exchange endpoint.
func NewAuthController(service AuthService, limiters factory.RateLimiterFactory) *router.RESTController {
	return router.NewRESTController(
		"AuthController",
		"/api/auth/github",
		func(rs *router.RouterService, c *router.RESTController) {
			limiter := limiters.CreateRateLimiter("auth-exchange", callbackRequestsPerMinute, time.Minute)
			rs.AddRawHandler(c, limiter, http.MethodPost, "callback", exchangeCodeHandler(service))
		},
	)
}

// NewCallbackPageController mounts the page GitHub redirects the visitor to.
func NewCallbackPageController(service AuthService, limiters factory.RateLimiterFactory) *router.RESTController {
	return router.NewRESTController(
		"AuthCallbackPageController",
		"/auth",
		func(rs *router.RouterService, c *router.RESTController) {
			limiter := limiters.CreateRateLimiter("auth-callback-page", callbackRequestsPerMinute, time.Minute)
			rs.AddRawHandler(c, limiter, http.MethodGet, "callback", callbackPageHandler(service))
		},
	)
}

func exchangeCodeHandler(service AuthService) router.MiddlewareFunc {
	return func(ctx *router.RequestContext) {
		logger := router.GetLogger(ctx)

		var req ExchangeCodeRequest

		if err := ctx.ShouldBindJSON(&req); err != nil {
			logger.Error("Failed to bind request", "error", err)

			validationErrors := apperrors.FormatValidationErrors(err, &req)
			if len(validationErrors) > 0 {
				ctx.JSON(http.StatusBadRequest, router.BadRequestResult("Invalid request payload", validationErrors).ToJSON())
				return
			}

			ctx.JSON(http.StatusBadRequest, router.BadRequestResult("Invalid request body", nil).ToJSON())
			return
		}

		token, err := service.ExchangeCode(ctx.Request.Context(), req.Code)
		if err != nil {
			status := apperrors.HTTPStatusCode(err)
			ctx.JSON(status, router.ErrorResult(status, apperrors.GetHumanReadableMessage(err), nil).ToJSON())
			return
		}

		ctx.JSON(http.StatusOK, token)
	}
}

// callbackPageHandler runs the code exchange once per visit. Success and
// failure both end on the home route; only success leaves a token behind.
func callbackPageHandler(service AuthService) router.MiddlewareFunc {
	return func(ctx *router.RequestContext) {
		logger := router.GetLogger(ctx)

		code := ctx.Query("code")
		if code == "" {
			// Without a code there is nothing to exchange and no redirect;
			// the visitor stays on the loading page.
			logger.Warn("Callback page visited without an authorization code")
			ctx.Render(http.StatusOK, render.HTML{Template: pageTemplates, Name: "callback.html"})
			return
		}

		token, err := service.ExchangeCode(ctx.Request.Context(), code)
		if err != nil {
			logger.Error("Authentication error", "error", err)
			ctx.Redirect(http.StatusSeeOther, HomeRoute)
			return
		}

		ctx.SetSameSite(http.SameSiteLaxMode)
		ctx.SetCookie(TokenStorageKey, token.AccessToken, tokenCookieMaxAge, "/", "", ctx.Request.TLS != nil, true)
		ctx.Redirect(http.StatusSeeOther, HomeRoute)
	}
}
