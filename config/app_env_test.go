package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/skill404/landing/internal/log"
	"github.com/skill404/landing/pkg/constants"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateAutoMigrateAllowed_AllowsDevLikeEnvs(t *testing.T) {
	allowed := []string{"", "dev", "development", "local", "test", "testing", "DEV", "  Local  "}

	for _, env := range allowed {
		env := env
		t.Run(env, func(t *testing.T) {
			if err := ValidateAutoMigrateAllowed(env); err != nil {
				t.Fatalf("expected no error for env %q, got %v", env, err)
			}
		})
	}
}

func TestValidateAutoMigrateAllowed_RejectsProdAndOtherEnvs(t *testing.T) {
	rejected := []string{"prod", "production", "staging", "preprod", " Production ", "qa"}

	for _, env := range rejected {
		env := env
		t.Run(env, func(t *testing.T) {
			if err := ValidateAutoMigrateAllowed(env); err == nil {
				t.Fatalf("expected error for env %q, got nil", env)
			}
		})
	}
}

func TestNewAppConfig_EnvOverrides(t *testing.T) {
	t.Setenv("RATE_LIMIT_REQUESTS", "250")
	t.Setenv("RATE_LIMIT_WINDOW", "30s")
	t.Setenv("REQUEST_TIMEOUT", "bogus")

	cfg := NewAppConfig()

	if cfg.RateLimitRequests != 250 {
		t.Fatalf("expected 250 requests, got %d", cfg.RateLimitRequests)
	}
	if cfg.RateLimitWindow != 30*time.Second {
		t.Fatalf("expected 30s window, got %s", cfg.RateLimitWindow)
	}
	if cfg.RequestTimeout != constants.DefaultRequestTimeout {
		t.Fatalf("expected default timeout, got %s", cfg.RequestTimeout)
	}
}

func TestNewAppConfig_RejectsNonPositiveRequests(t *testing.T) {
	t.Setenv("RATE_LIMIT_REQUESTS", "0")

	if got := NewAppConfig().RateLimitRequests; got != constants.DefaultRateLimitRequests {
		t.Fatalf("expected default requests, got %d", got)
	}
}

func TestGetValueFromEnvironmentVariable(t *testing.T) {
	t.Setenv("SKILL404_QUOTED", ` "value" `)
	t.Setenv("SKILL404_EMPTY", "")

	assert.Equal(t, "value", GetValueFromEnvironmentVariable("SKILL404_QUOTED", "fallback"))
	assert.Equal(t, "", GetValueFromEnvironmentVariable("SKILL404_EMPTY", "fallback"))
	assert.Equal(t, "fallback", GetValueFromEnvironmentVariable("SKILL404_UNSET_FOR_TEST", "fallback"))
}

func TestSanitizeEnv(t *testing.T) {
	assert.Equal(t, "abc", sanitizeEnv(" 'abc' "))
	assert.Equal(t, `"abc'`, sanitizeEnv(`"abc'`))
	assert.Equal(t, "", sanitizeEnv(`""`))
	assert.Equal(t, `"`, sanitizeEnv(`"`))
}

func TestInitializeEnvFile_LoadsDotenvPathWithoutOverriding(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("SKILL404_FROM_FILE=loaded\nSKILL404_PRESET=from-file\n"), 0o600))

	t.Setenv("SKIP_DOTENV", "")
	t.Setenv(dotenvPathKey, path)
	t.Setenv("SKILL404_PRESET", "from-process")
	t.Setenv("SKILL404_FROM_FILE", "")
	require.NoError(t, os.Unsetenv("SKILL404_FROM_FILE"))

	InitializeEnvFile(log.NewLoggerWithJSONOutput())

	assert.Equal(t, "loaded", os.Getenv("SKILL404_FROM_FILE"))
	assert.Equal(t, "from-process", os.Getenv("SKILL404_PRESET"))
}

func TestGetAppEnv_Normalizes(t *testing.T) {
	t.Setenv(AppEnvKey, " Production ")
	assert.Equal(t, "production", GetAppEnv())
	assert.Error(t, ValidateAutoMigrateAllowed(GetAppEnv()))
}
