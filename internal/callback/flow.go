package callback

import (
	"context"
	"fmt"
	"net/url"

	"github.com/skill404/landing/domain/auth"
	"github.com/skill404/landing/internal/log"
)

type CodeExchanger interface {
	ExchangeCode(ctx context.Context, code string) (*auth.AccessTokenResponse, error)
}

// Result describes where the flow ended. An empty Redirect means the flow
// did nothing because the callback URL carried no code.
type Result struct {
	Redirect string
	Stored   bool
}

// Flow is the callback page sequence for clients without a browser: read
// the code, exchange it once, persist the token, go home.
type Flow struct {
	exchanger CodeExchanger
	store     KeyValueStore
	logger    *log.Logger
}

func NewFlow(exchanger CodeExchanger, store KeyValueStore, logger *log.Logger) *Flow {
	return &Flow{exchanger: exchanger, store: store, logger: logger}
}

func (f *Flow) Run(ctx context.Context, callbackURL string) (Result, error) {
	u, err := url.Parse(callbackURL)
	if err != nil {
		return Result{}, fmt.Errorf("parse callback url: %w", err)
	}

	code := u.Query().Get("code")
	if code == "" {
		f.logger.Warn("Callback URL has no authorization code; nothing to do")
		return Result{}, nil
	}

	token, err := f.exchanger.ExchangeCode(ctx, code)
	if err != nil {
		f.logger.Error("Authentication error", "error", err)
		return Result{Redirect: auth.HomeRoute}, nil
	}

	if err := f.store.Set(auth.TokenStorageKey, token.AccessToken); err != nil {
		f.logger.Error("Failed to persist access token", "error", err)
		return Result{Redirect: auth.HomeRoute}, nil
	}

	return Result{Redirect: auth.HomeRoute, Stored: true}, nil
}
