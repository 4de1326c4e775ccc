package utils

import (
	"os"
	"strconv"
	"strings"
)

const defaultServiceName = "skill404-landing"

func GetEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func GetEnvTrimmed(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func GetEnvTrimmedOrDefault(key, defaultValue string) string {
	if v := GetEnvTrimmed(key); v != "" {
		return v
	}
	return defaultValue
}

// GetEnvBool returns defaultValue when key is unset or not a valid bool.
func GetEnvBool(key string, defaultValue bool) bool {
	b, err := strconv.ParseBool(GetEnvTrimmed(key))
	if err != nil {
		return defaultValue
	}
	return b
}

// IsTracingEnabled is opt-in through OTEL_TRACES_ENABLED.
func IsTracingEnabled() bool {
	return GetEnvBool("OTEL_TRACES_ENABLED", false)
}

func OTelServiceName() string {
	return GetEnvTrimmedOrDefault("OTEL_SERVICE_NAME", defaultServiceName)
}
