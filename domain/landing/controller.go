package landing

import (
	"embed"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin/render"
	"github.com/skill404/landing/config/router"
	"github.com/skill404/landing/domain/waitlist"
	"github.com/skill404/landing/pkg/factory"
)

const (
	pageRequestsPerMinute   = 120
	submitRequestsPerMinute = 30

	earlyAccessLabel = "Get Early Access"
	repositoryURL    = "https://github.com"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// FormView renders one copy of the waitlist form. The hero and the final
// call to action share the same form state and differ only in label.
type FormView struct {
	Email          string
	Label          string
	SubmitDisabled bool
}

// PageView is everything landing.html needs to render one page.
type PageView struct {
	Hero          FormView
	FinalCTA      FormView
	Notification  *waitlist.Notification
	Features      []Card
	Mentorship    []Card
	RepositoryURL string
}

func newPageView(form *waitlist.Form) PageView {
	email := form.Email()
	disabled := form.SubmitDisabled()

	ctaLabel := earlyAccessLabel
	if disabled {
		ctaLabel = waitlist.SubmitPendingLabel
	}

	return PageView{
		Hero:          FormView{Email: email, Label: form.SubmitLabel(), SubmitDisabled: disabled},
		FinalCTA:      FormView{Email: email, Label: ctaLabel, SubmitDisabled: disabled},
		Notification:  form.Notification(),
		Features:      featureCards,
		Mentorship:    mentorshipCards,
		RepositoryURL: repositoryURL,
	}
}

// NewLandingController serves the landing page and accepts its waitlist form.
func NewLandingController(service waitlist.WaitlistService, limiters factory.RateLimiterFactory) *router.RESTController {
	return router.NewRESTController(
		"LandingController",
		"/",
		func(rs *router.RouterService, c *router.RESTController) {
			pageLimiter := limiters.CreateRateLimiter("landing-page", pageRequestsPerMinute, time.Minute)
			submitLimiter := limiters.CreateRateLimiter("landing-submit", submitRequestsPerMinute, time.Minute)

			rs.AddRawHandler(c, pageLimiter, http.MethodGet, "", showPageHandler(service))
			rs.AddRawHandler(c, submitLimiter, http.MethodPost, "", submitFormHandler(service))
		},
	)
}

func showPageHandler(service waitlist.WaitlistService) router.MiddlewareFunc {
	return func(ctx *router.RequestContext) {
		renderPage(ctx, waitlist.NewForm(service, ""))
	}
}

// submitFormHandler runs one submission and re-renders the page with its
// outcome. The page is always 200; the toast carries success or failure.
func submitFormHandler(service waitlist.WaitlistService) router.MiddlewareFunc {
	return func(ctx *router.RequestContext) {
		logger := router.GetLogger(ctx)

		form := waitlist.NewForm(service, ctx.PostForm("email"))
		state := form.Submit(ctx.Request.Context())

		logger.Info("Waitlist form submitted", "state", state.String())
		renderPage(ctx, form)
	}
}

func renderPage(ctx *router.RequestContext, form *waitlist.Form) {
	ctx.Render(http.StatusOK, render.HTML{
		Template: pageTemplates,
		Name:     "landing.html",
		Data:     newPageView(form),
	})
}
