package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/pidoglabs/go-pidog/internal/httpc"
)

// apiClient carries the HTTP mechanics shared by every wire provider:
// JSON POST, retry on 429/5xx with linear backoff, and error parsing.
type apiClient struct {
	name   string
	http   *http.Client
	logger *slog.Logger

	maxRetries int
	retryDelay time.Duration
}

func newAPIClient(name string, cfg *Config) apiClient {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = httpc.DefaultTimeout
	}
	return apiClient{
		name:       name,
		http:       httpc.NewClient(timeout),
		logger:     cfg.Logger.With("component", "provider."+name),
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay,
	}
}

// postJSON marshals payload and POSTs it to url with the given headers.
func (c *apiClient) postJSON(ctx context.Context, url string, payload any, headers map[string]string) (*http.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, WrapError(c.name, fmt.Errorf("marshal payload: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, WrapError(c.name, fmt.Errorf("create request: %w", err))
	}

	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return c.doWithRetry(ctx, req, body)
}

// doWithRetry performs the request, retrying rate limits and server errors.
func (c *apiClient) doWithRetry(ctx context.Context, req *http.Request, body []byte) (*http.Response, error) {
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.retryDelay * time.Duration(attempt)):
			}
			// Reset body for retry
			req.Body = io.NopCloser(bytes.NewReader(body))
		}

		resp, err := c.http.Do(req)
		if err != nil {
			lastErr = WrapError(c.name, err)
			c.logger.Warn("request failed, retrying",
				"attempt", attempt+1,
				"error", err,
			)
			continue
		}

		if resp.StatusCode == 429 || resp.StatusCode >= 500 {
			lastErr = c.parseError(resp)
			resp.Body.Close()
			c.logger.Warn("retrying request",
				"attempt", attempt+1,
				"status", resp.StatusCode,
			)
			continue
		}

		return resp, nil
	}

	return nil, lastErr
}

// parseError reads and parses an error response body.
func (c *apiClient) parseError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)

	// OpenAI-style {"error": {...}} envelope
	var errResp struct {
		Error struct {
			Message string `json:"message"`
			Type    string `json:"type"`
			Code    string `json:"code"`
		} `json:"error"`
	}

	message := string(body)
	code := ""
	if json.Unmarshal(body, &errResp) == nil && errResp.Error.Message != "" {
		message = errResp.Error.Message
		code = errResp.Error.Code
	}

	return &APIError{
		StatusCode: resp.StatusCode,
		Message:    message,
		Code:       code,
		Provider:   c.name,
	}
}

// decode reads a 200 response into v, or converts a failure status into
// an APIError.
func (c *apiClient) decode(resp *http.Response, v any) error {
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.parseError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return WrapError(c.name, fmt.Errorf("decode response: %w", err))
	}
	return nil
}
