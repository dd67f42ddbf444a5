package provider

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common conditions.
var (
	// ErrUnsupportedProvider is returned by the factory for unknown IDs.
	ErrUnsupportedProvider = errors.New("provider: unsupported provider")

	// ErrNoAPIKey is returned when an API key is required but missing.
	ErrNoAPIKey = errors.New("provider: API key required")

	// ErrNoModel is returned when a model name is required but missing.
	ErrNoModel = errors.New("provider: model required")

	// ErrNoBaseURL is returned when a custom provider has no endpoint URL.
	ErrNoBaseURL = errors.New("provider: base URL required")

	// ErrImageNotSupported is returned when a provider has no image support.
	ErrImageNotSupported = errors.New("provider: image input not supported")

	// ErrSTTNotSupported is returned when a provider has no native
	// speech-to-text.
	ErrSTTNotSupported = errors.New("provider: speech-to-text not supported")

	// ErrTTSNotSupported is returned when a provider has no native
	// text-to-speech.
	ErrTTSNotSupported = errors.New("provider: text-to-speech not supported")

	// ErrEmptyReply is returned when a backend answers without any
	// assistant content.
	ErrEmptyReply = errors.New("provider: empty reply")
)

// APIError represents an error response from a backend API.
type APIError struct {
	// StatusCode is the HTTP status code.
	StatusCode int

	// Message is the error message from the API.
	Message string

	// Code is the error code, if the API provided one.
	Code string

	// Provider identifies which backend returned the error.
	Provider string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("provider [%s]: API error %d (%s): %s",
			e.Provider, e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("provider [%s]: API error %d: %s",
		e.Provider, e.StatusCode, e.Message)
}

// IsRateLimited returns true for HTTP 429.
func (e *APIError) IsRateLimited() bool {
	return e.StatusCode == 429
}

// IsUnauthorized returns true for HTTP 401.
func (e *APIError) IsUnauthorized() bool {
	return e.StatusCode == 401
}

// IsServerError returns true for HTTP 5xx.
func (e *APIError) IsServerError() bool {
	return e.StatusCode >= 500 && e.StatusCode < 600
}

// IsRetryable returns true if the request should be retried.
func (e *APIError) IsRetryable() bool {
	return e.IsRateLimited() || e.IsServerError()
}

// IsContentRejection reports whether the backend rejected the request
// body itself, e.g. a proxy that cannot forward image parts. Callers use
// this to retry the turn without the image.
func (e *APIError) IsContentRejection() bool {
	msg := strings.ToLower(e.Message)
	return strings.Contains(msg, "validation failed") && strings.Contains(msg, "content")
}

// IsContentRejection reports whether err is a backend content-validation
// rejection anywhere in its chain.
func IsContentRejection(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.IsContentRejection()
}

// ProviderError wraps an error with provider context.
type ProviderError struct {
	Provider string
	Err      error
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider [%s]: %v", e.Provider, e.Err)
}

// Unwrap returns the underlying error.
func (e *ProviderError) Unwrap() error {
	return e.Err
}

// WrapError wraps an error with provider context.
func WrapError(provider string, err error) error {
	if err == nil {
		return nil
	}
	return &ProviderError{Provider: provider, Err: err}
}
