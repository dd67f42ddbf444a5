package provider

import (
	"errors"
	"fmt"
	"testing"
)

func TestAPIErrorClassification(t *testing.T) {
	tests := []struct {
		name      string
		err       *APIError
		rateLtd   bool
		retryable bool
	}{
		{"rate limited", &APIError{StatusCode: 429}, true, true},
		{"server error", &APIError{StatusCode: 503}, false, true},
		{"unauthorized", &APIError{StatusCode: 401}, false, false},
		{"bad request", &APIError{StatusCode: 400}, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.IsRateLimited(); got != tt.rateLtd {
				t.Errorf("IsRateLimited() = %v, want %v", got, tt.rateLtd)
			}
			if got := tt.err.IsRetryable(); got != tt.retryable {
				t.Errorf("IsRetryable() = %v, want %v", got, tt.retryable)
			}
		})
	}
}

func TestIsContentRejection(t *testing.T) {
	rejected := &APIError{
		StatusCode: 400,
		Message:    "Validation failed: content contains an unsupported block",
	}
	if !IsContentRejection(rejected) {
		t.Error("expected content rejection")
	}
	if !IsContentRejection(fmt.Errorf("call: %w", rejected)) {
		t.Error("expected content rejection through wrapping")
	}

	plain := &APIError{StatusCode: 400, Message: "model not found"}
	if IsContentRejection(plain) {
		t.Error("plain 400 is not a content rejection")
	}
	if IsContentRejection(errors.New("validation failed: content")) {
		t.Error("non-APIError should not match")
	}
	if IsContentRejection(nil) {
		t.Error("nil is not a rejection")
	}
}

func TestProviderErrorUnwrap(t *testing.T) {
	err := WrapError("anthropic", ErrEmptyReply)
	if !errors.Is(err, ErrEmptyReply) {
		t.Errorf("expected unwrap to ErrEmptyReply, got %v", err)
	}
}
