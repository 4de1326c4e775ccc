package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/skill404/landing/internal/log"
)

const (
	AppEnvKey = "APP_ENV"

	// DOTENV_PATH takes a comma separated list of files; .env otherwise.
	dotenvPathKey = "DOTENV_PATH"
)

// devEnvironments are the APP_ENV values where --auto-migrate may run.
var devEnvironments = map[string]bool{
	"":            true,
	"dev":         true,
	"development": true,
	"local":       true,
	"test":        true,
	"testing":     true,
}

// InitializeEnvFile loads dotenv files without overriding variables that
// are already set. A missing file is normal outside local development.
func InitializeEnvFile(logger *log.Logger) {
	if os.Getenv("SKIP_DOTENV") == "true" {
		logger.Info("Skipping .env file load (SKIP_DOTENV=true)")
		return
	}

	var files []string
	for _, f := range strings.Split(os.Getenv(dotenvPathKey), ",") {
		if f = strings.TrimSpace(f); f != "" {
			files = append(files, f)
		}
	}

	err := godotenv.Load(files...)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		logger.Info("No .env file found, using process environment only")
	case err != nil:
		logger.Warn("Failed to load .env file", "error", err.Error())
	default:
		logger.Info("Environment variables loaded from .env file", "files", files)
	}
}

// GetValueFromEnvironmentVariable returns the sanitized value of key, or
// defaultValue when key is unset. A key set to "" stays empty.
func GetValueFromEnvironmentVariable(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return sanitizeEnv(value)
	}
	return defaultValue
}

// sanitizeEnv trims whitespace and one level of matching quotes, which
// hand-written .env files and compose files often leave behind.
func sanitizeEnv(v string) string {
	s := strings.TrimSpace(v)
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		s = s[1 : len(s)-1]
	}
	return s
}

func GetAppEnv() string {
	return strings.ToLower(GetValueFromEnvironmentVariable(AppEnvKey, ""))
}

func ValidateAutoMigrateAllowed(appEnv string) error {
	env := strings.ToLower(strings.TrimSpace(appEnv))
	if devEnvironments[env] {
		return nil
	}
	return fmt.Errorf("--auto-migrate is not allowed when %s=%q; use the migrate command instead", AppEnvKey, env)
}
