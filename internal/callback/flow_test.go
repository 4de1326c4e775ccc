package callback

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/skill404/landing/domain/auth"
	"github.com/skill404/landing/internal/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBackend(t *testing.T, status int, body string) (*httptest.Server, *atomic.Int32) {
	t.Helper()

	calls := &atomic.Int32{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)

		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, auth.CallbackAPIPath, r.URL.Path)
		assert.NotEmpty(t, r.Header.Get(log.CorrelationHeader))

		var req auth.ExchangeCodeRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "abc123", req.Code)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)

	return server, calls
}

func newTestFlow(t *testing.T, baseURL string) (*Flow, *FileStore) {
	t.Helper()

	store := NewFileStore(filepath.Join(t.TempDir(), "storage.json"))
	return NewFlow(NewClient(baseURL, nil), store, log.NewLoggerWithJSONOutput()), store
}

func TestFlow_SuccessStoresTokenAndRedirectsHome(t *testing.T) {
	server, calls := newBackend(t, http.StatusOK, `{"access_token":"gho_token","token_type":"bearer"}`)
	flow, store := newTestFlow(t, server.URL)

	result, err := flow.Run(context.Background(), "http://localhost:5173/auth/callback?code=abc123")

	require.NoError(t, err)
	assert.Equal(t, "/", result.Redirect)
	assert.True(t, result.Stored)
	assert.Equal(t, int32(1), calls.Load())

	token, err := storedValue(store, auth.TokenStorageKey)
	require.NoError(t, err)
	assert.Equal(t, "gho_token", token)
}

func TestFlow_FailedExchangeRedirectsHomeWithoutToken(t *testing.T) {
	server, calls := newBackend(t, http.StatusBadGateway, `{"code":502,"message":"github token exchange failed","data":null}`)
	flow, store := newTestFlow(t, server.URL)

	result, err := flow.Run(context.Background(), "http://localhost:5173/auth/callback?code=abc123")

	require.NoError(t, err)
	assert.Equal(t, "/", result.Redirect)
	assert.False(t, result.Stored)
	assert.Equal(t, int32(1), calls.Load())

	token, err := storedValue(store, auth.TokenStorageKey)
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestFlow_MalformedResponseCountsAsFailure(t *testing.T) {
	server, _ := newBackend(t, http.StatusOK, `not json`)
	flow, store := newTestFlow(t, server.URL)

	result, err := flow.Run(context.Background(), "http://localhost:5173/auth/callback?code=abc123")

	require.NoError(t, err)
	assert.Equal(t, "/", result.Redirect)

	token, _ := storedValue(store, auth.TokenStorageKey)
	assert.Empty(t, token)
}

func TestFlow_NoCodeDoesNothing(t *testing.T) {
	server, calls := newBackend(t, http.StatusOK, `{}`)
	flow, _ := newTestFlow(t, server.URL)

	result, err := flow.Run(context.Background(), "http://localhost:5173/auth/callback")

	require.NoError(t, err)
	assert.Empty(t, result.Redirect)
	assert.False(t, result.Stored)
	assert.Equal(t, int32(0), calls.Load())
}

func TestFlow_InvalidURL(t *testing.T) {
	flow, _ := newTestFlow(t, "http://127.0.0.1:0")

	_, err := flow.Run(context.Background(), "://bad")
	assert.Error(t, err)
}
