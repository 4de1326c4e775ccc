package integration

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/skill404/landing/config"
	"github.com/skill404/landing/config/router"
	"github.com/skill404/landing/domain"
	"github.com/skill404/landing/internal/log"
	"github.com/skill404/landing/internal/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func skipUnlessIntegration(t *testing.T) {
	t.Helper()
	if os.Getenv("RUN_INTEGRATION_TESTS") != "true" {
		t.Skip("Skipping integration tests. Set RUN_INTEGRATION_TESTS=true to run them")
	}
}

// testApp is the full service on an in-memory database, without Redis.
type testApp struct {
	db     *gorm.DB
	server *httptest.Server
	client *http.Client
}

func newTestApp(t *testing.T, oauth *config.GitHubOAuthConfig) *testApp {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	// One connection keeps the in-memory database alive and shared.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(models.ModelRegistry...))

	logger := log.NewLoggerWithJSONOutput()
	appConfig := &config.ApplicationConfig{
		DB:          db,
		Logger:      logger,
		GitHubOAuth: oauth,
		RouterService: router.CreateRouterService(logger, nil, &router.RouterConfig{
			RateLimitRequests: 100,
			RateLimitWindow:   time.Minute,
			RequestTimeout:    30 * time.Second,
		}),
	}

	domain.SetupCoreDomain(appConfig)

	app := &testApp{
		db:     db,
		server: httptest.NewServer(appConfig.RouterService.GetEngine()),
		client: &http.Client{
			// Redirects are asserted, not followed.
			CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse },
		},
	}

	t.Cleanup(func() {
		app.server.Close()
		_ = sqlDB.Close()
	})

	return app
}
