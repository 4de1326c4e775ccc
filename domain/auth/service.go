package auth

import (
	"context"
	"strings"

	"github.com/skill404/landing/internal/log"
	apperrors "github.com/skill404/landing/pkg/errors"
)

type AuthService interface {
	// ExchangeCode trades a GitHub authorization code for an access token.
	ExchangeCode(ctx context.Context, code string) (*AccessTokenResponse, error)
}

type authService struct {
	logger    *log.Logger
	exchanger TokenExchanger
}

// NewAuthService sends every code to GitHub. Codes are single use there, so
// a replayed code fails upstream and nothing is served locally.
func NewAuthService(logger *log.Logger, exchanger TokenExchanger) AuthService {
	return &authService{
		logger:    logger,
		exchanger: exchanger,
	}
}

func (s *authService) ExchangeCode(ctx context.Context, code string) (*AccessTokenResponse, error) {
	logger := log.GetLoggerInstanceFromContext(ctx, s.logger)

	code = strings.TrimSpace(code)
	if code == "" {
		logger.Error("ExchangeCode received empty code")
		return nil, apperrors.NewInvalidRequestError("authorization code is required", nil)
	}

	token, err := s.exchanger.Exchange(ctx, code)
	if err != nil {
		logger.Error("GitHub token exchange failed", "error", err)
		return nil, err
	}

	logger.Info("GitHub token exchange succeeded", "token_type", token.TokenType)
	return token, nil
}
