package auth

import (
	"context"
	"errors"
	"time"

	"github.com/skill404/landing/config"
	"github.com/skill404/landing/pkg/circuitbreaker"
	apperrors "github.com/skill404/landing/pkg/errors"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
)

//go:generate mockgen -source=exchanger.go -destination=mock_exchanger.go -package=auth

type TokenExchanger interface {
	// Exchange trades an authorization code for an access token.
	Exchange(ctx context.Context, code string) (*AccessTokenResponse, error)
}

type githubExchanger struct {
	oauth   *oauth2.Config
	breaker circuitbreaker.CircuitBreaker
	timeout time.Duration
}

// NewGitHubExchanger returns an exchanger that always fails when the OAuth
// app credentials are missing, so the routes stay mounted either way.
func NewGitHubExchanger(cfg *config.GitHubOAuthConfig, breaker circuitbreaker.CircuitBreaker) TokenExchanger {
	if !cfg.IsConfigured() {
		return unconfiguredExchanger{}
	}

	endpoint := github.Endpoint
	if cfg.TokenURL != "" {
		endpoint.TokenURL = cfg.TokenURL
	}

	if breaker == nil {
		breaker = circuitbreaker.NewCircuitBreaker(nil)
	}

	return &githubExchanger{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURI,
			Scopes:       cfg.Scopes,
			Endpoint:     endpoint,
		},
		breaker: breaker,
		timeout: cfg.ExchangeTimeout,
	}
}

func (e *githubExchanger) Exchange(ctx context.Context, code string) (*AccessTokenResponse, error) {
	callerCtx := ctx
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	var (
		token    *oauth2.Token
		rejected error
	)

	// A rejected code or a caller that stopped waiting must not open the
	// circuit. Only our own exchange timeout counts against GitHub.
	err := e.breaker.Call(func() error {
		tok, err := e.oauth.Exchange(ctx, code)
		if err != nil && callerCtx.Err() != nil {
			return circuitbreaker.Exclude(err)
		}
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) {
			rejected = err
			return nil
		}
		token = tok
		return err
	})

	switch {
	case errors.Is(err, circuitbreaker.ErrCircuitOpen):
		return nil, apperrors.NewUpstreamError("github is temporarily unavailable", err)
	case err != nil:
		return nil, apperrors.NewUpstreamError("github token exchange failed", err)
	case rejected != nil:
		return nil, apperrors.NewUnauthorizedError("github rejected the authorization code", rejected)
	case token == nil || token.AccessToken == "":
		return nil, apperrors.NewUpstreamError("github returned no access token", nil)
	}

	response := &AccessTokenResponse{
		AccessToken: token.AccessToken,
		TokenType:   token.TokenType,
	}
	if scope, ok := token.Extra("scope").(string); ok {
		response.Scope = scope
	}

	return response, nil
}

type unconfiguredExchanger struct{}

func (unconfiguredExchanger) Exchange(context.Context, string) (*AccessTokenResponse, error) {
	return nil, apperrors.NewUpstreamError("github oauth is not configured", nil)
}
