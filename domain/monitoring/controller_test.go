package monitoring

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/skill404/landing/config/router"
	"github.com/skill404/landing/internal/log"
	"github.com/skill404/landing/pkg/factory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type pingCache struct {
	err error
}

func (c pingCache) Ping(context.Context) error { return c.err }

func newTestRouter(t *testing.T, cache Cache, oauthConfigured bool) *router.RouterService {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	logger := log.NewLoggerWithJSONOutput()
	rs := router.CreateRouterService(logger, nil, &router.RouterConfig{
		RateLimitRequests: 100,
		RateLimitWindow:   time.Minute,
		RequestTimeout:    5 * time.Second,
	})

	limiters := factory.NewDefaultRateLimiterFactory(nil, nil)
	rs.MountController(NewMonitoringControllerFactory(db, logger, cache, oauthConfigured, limiters).CreateController())

	return rs
}

func getHealth(t *testing.T, rs *router.RouterService) HealthStatus {
	t.Helper()

	w := httptest.NewRecorder()
	rs.GetEngine().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data HealthStatus `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Data
}

func TestStatus_ReturnsOK(t *testing.T) {
	rs := newTestRouter(t, nil, false)

	w := httptest.NewRecorder()
	rs.GetEngine().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/status", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Service is operational.")
}

func TestHealth_ReportsEachDependency(t *testing.T) {
	status := getHealth(t, newTestRouter(t, pingCache{}, true))

	assert.Equal(t, 1, status.Database)
	assert.Equal(t, 1, status.Cache)
	assert.Equal(t, 1, status.GitHubOAuth)
}

func TestHealth_UnhealthyCacheAndMissingOAuth(t *testing.T) {
	status := getHealth(t, newTestRouter(t, pingCache{err: errors.New("connection refused")}, false))

	assert.Equal(t, 1, status.Database)
	assert.Equal(t, 0, status.Cache)
	assert.Equal(t, 0, status.GitHubOAuth)
}

func TestHealth_NoCacheConfigured(t *testing.T) {
	status := getHealth(t, newTestRouter(t, nil, true))

	assert.Equal(t, 0, status.Cache)
}
