package callback

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/skill404/landing/domain/auth"
	"github.com/skill404/landing/internal/log"
)

// Client posts authorization codes to a running landing service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

func (c *Client) ExchangeCode(ctx context.Context, code string) (*auth.AccessTokenResponse, error) {
	body, err := json.Marshal(auth.ExchangeCodeRequest{Code: code})
	if err != nil {
		return nil, fmt.Errorf("encode exchange request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+auth.CallbackAPIPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build exchange request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	log.SetCorrelationHeader(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("exchange request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("exchange request: unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var token auth.AccessTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return nil, fmt.Errorf("decode exchange response: %w", err)
	}
	if token.AccessToken == "" {
		return nil, fmt.Errorf("decode exchange response: missing access_token")
	}

	return &token, nil
}
