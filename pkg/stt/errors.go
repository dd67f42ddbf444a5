package stt

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common error conditions.
var (
	// ErrNoSpeech is returned when no intelligible speech was found in
	// the sample. Callers typically skip the turn rather than report it.
	ErrNoSpeech = errors.New("stt: no speech recognized")

	// ErrNoAPIKey is returned when the API key is missing.
	ErrNoAPIKey = errors.New("stt: API key required")

	// ErrRecognizerUnavailable is returned when no recognizers are available.
	ErrRecognizerUnavailable = errors.New("stt: no recognizers available")
)

// ChainError aggregates the failures of every recognizer in a chain.
type ChainError struct {
	Errors []error
}

// Error implements the error interface.
func (e *ChainError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("stt: all recognizers failed: %s", strings.Join(msgs, "; "))
}

// Is reports ErrNoSpeech when every recognizer came up empty, so chain
// callers can treat a fully silent sample the same as a single-backend
// miss.
func (e *ChainError) Is(target error) bool {
	if target != ErrNoSpeech {
		return false
	}
	for _, err := range e.Errors {
		if !errors.Is(err, ErrNoSpeech) {
			return false
		}
	}
	return len(e.Errors) > 0
}
