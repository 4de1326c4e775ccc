package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetEnvBool(t *testing.T) {
	t.Setenv("FEATURE_FLAG", "true")
	assert.True(t, GetEnvBool("FEATURE_FLAG", false))

	t.Setenv("FEATURE_FLAG", "nope")
	assert.True(t, GetEnvBool("FEATURE_FLAG", true))

	t.Setenv("FEATURE_FLAG", "")
	assert.False(t, GetEnvBool("FEATURE_FLAG", false))
}

func TestGetEnvTrimmedOrDefault(t *testing.T) {
	t.Setenv("APP_PORT", "  9090 ")
	assert.Equal(t, "9090", GetEnvTrimmedOrDefault("APP_PORT", "8080"))

	t.Setenv("APP_PORT", "   ")
	assert.Equal(t, "8080", GetEnvTrimmedOrDefault("APP_PORT", "8080"))
}

func TestOTelServiceName_Default(t *testing.T) {
	t.Setenv("OTEL_SERVICE_NAME", "")
	assert.Equal(t, "skill404-landing", OTelServiceName())

	t.Setenv("OTEL_SERVICE_NAME", "landing-staging")
	assert.Equal(t, "landing-staging", OTelServiceName())
}
