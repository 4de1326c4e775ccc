package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// GitHubOAuthConfig holds the OAuth app credentials used to exchange
// authorization codes for access tokens.
type GitHubOAuthConfig struct {
	ClientID        string        `env:"GITHUB_CLIENT_ID"`
	ClientSecret    string        `env:"GITHUB_CLIENT_SECRET"`
	RedirectURI     string        `env:"GITHUB_REDIRECT_URI"`
	Scopes          []string      `env:"GITHUB_SCOPES" envSeparator:"," envDefault:"read:user,user:email"`
	TokenURL        string        `env:"GITHUB_TOKEN_URL"`
	ExchangeTimeout time.Duration `env:"GITHUB_EXCHANGE_TIMEOUT" envDefault:"10s"`

	BreakerFailureThreshold int           `env:"GITHUB_BREAKER_FAILURES" envDefault:"5"`
	BreakerRecoveryTimeout  time.Duration `env:"GITHUB_BREAKER_RECOVERY" envDefault:"30s"`
}

func LoadGitHubOAuthConfig() (*GitHubOAuthConfig, error) {
	cfg := &GitHubOAuthConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	cfg.ClientID = sanitizeEnv(cfg.ClientID)
	cfg.ClientSecret = sanitizeEnv(cfg.ClientSecret)
	cfg.Scopes = trimCSV(cfg.Scopes)

	return cfg, nil
}

func (c *GitHubOAuthConfig) IsConfigured() bool {
	return c != nil && c.ClientID != "" && c.ClientSecret != ""
}

func trimCSV(values []string) []string {
	result := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v != "" {
			result = append(result, v)
		}
	}
	if len(result) == 0 {
		return nil
	}
	return result
}
