package landing

import (
	"context"
	"html"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/skill404/landing/config/router"
	"github.com/skill404/landing/domain/waitlist"
	"github.com/skill404/landing/internal/log"
	"github.com/skill404/landing/internal/models"
	apperrors "github.com/skill404/landing/pkg/errors"
	"github.com/skill404/landing/pkg/factory"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

func newTestRouter(t *testing.T, repository waitlist.WaitlistRepository) *router.RouterService {
	t.Helper()

	logger := log.NewLoggerWithJSONOutput()
	rs := router.CreateRouterService(logger, nil, &router.RouterConfig{
		RateLimitRequests: 1000,
		RateLimitWindow:   time.Minute,
		RequestTimeout:    5 * time.Second,
	})

	service := waitlist.NewWaitlistService(logger, repository)
	rs.MountController(NewLandingController(service, factory.NewDefaultRateLimiterFactory(nil, nil)))

	return rs
}

func postForm(rs *router.RouterService, email string) *httptest.ResponseRecorder {
	form := url.Values{"email": {email}}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	w := httptest.NewRecorder()
	rs.GetEngine().ServeHTTP(w, req)
	return w
}

func TestLandingPage_RendersWithoutToast(t *testing.T) {
	ctrl := gomock.NewController(t)
	rs := newTestRouter(t, waitlist.NewMockWaitlistRepository(ctrl))

	w := httptest.NewRecorder()
	rs.GetEngine().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Software Engineer.")
	assert.Contains(t, body, "Ready to Build Something Real?")
	assert.Contains(t, body, waitlist.SubmitLabel)
	assert.Contains(t, body, earlyAccessLabel)
	assert.NotContains(t, body, `class="toast`)

	for _, card := range featureCards {
		assert.Contains(t, body, card.Title)
	}
}

func TestLandingSubmit_SuccessShowsToastAndClearsInput(t *testing.T) {
	ctrl := gomock.NewController(t)
	repository := waitlist.NewMockWaitlistRepository(ctrl)
	repository.EXPECT().
		CreateEntry(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, entry *models.WaitlistEntry) (*models.WaitlistEntry, error) {
			entry.Model = gorm.Model{ID: 1, CreatedAt: time.Now()}
			return entry, nil
		}).
		Times(1)

	w := postForm(newTestRouter(t, repository), "dev@skill404.io")

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "toast-success")
	assert.Contains(t, body, html.EscapeString(waitlist.SuccessMessage))
	assert.NotContains(t, body, `value="dev@skill404.io"`)
}

func TestLandingSubmit_FailureShowsToastAndKeepsInput(t *testing.T) {
	ctrl := gomock.NewController(t)
	repository := waitlist.NewMockWaitlistRepository(ctrl)
	repository.EXPECT().
		CreateEntry(gomock.Any(), gomock.Any()).
		Return(nil, apperrors.NewConflictError("waitlist entry with this email already exists", nil)).
		Times(1)

	w := postForm(newTestRouter(t, repository), "dev@skill404.io")

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "toast-error")
	assert.Contains(t, body, html.EscapeString(waitlist.FailureMessage))
	assert.Contains(t, body, `value="dev@skill404.io"`)
	assert.NotContains(t, body, "already exists")
}

func TestLandingSubmit_EmptyEmailIsNoOp(t *testing.T) {
	ctrl := gomock.NewController(t)
	repository := waitlist.NewMockWaitlistRepository(ctrl)
	repository.EXPECT().CreateEntry(gomock.Any(), gomock.Any()).Times(0)

	w := postForm(newTestRouter(t, repository), "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), `class="toast`)
}
