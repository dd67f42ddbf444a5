package stt

import (
	"context"
	"log/slog"
	"strings"
)

// Chain implements Recognizer by trying multiple backends in order.
// The first transcript wins; if all fail, returns an aggregate error.
type Chain struct {
	recognizers []Recognizer
	logger      *slog.Logger
}

// NewChain creates a recognizer chain that tries backends in order.
// At least one recognizer is required.
func NewChain(recognizers ...Recognizer) (*Chain, error) {
	if len(recognizers) == 0 {
		return nil, ErrRecognizerUnavailable
	}

	return &Chain{
		recognizers: recognizers,
		logger:      slog.Default().With("component", "stt.chain"),
	}, nil
}

// NewChainWithLogger creates a recognizer chain with a custom logger.
func NewChainWithLogger(logger *slog.Logger, recognizers ...Recognizer) (*Chain, error) {
	chain, err := NewChain(recognizers...)
	if err != nil {
		return nil, err
	}
	chain.logger = logger.With("component", "stt.chain")
	return chain, nil
}

// Recognize tries each backend until one returns a transcript.
func (c *Chain) Recognize(ctx context.Context, wav []byte, language string) (string, error) {
	var errors []error

	for i, r := range c.recognizers {
		text, err := r.Recognize(ctx, wav, language)
		if err == nil && strings.TrimSpace(text) != "" {
			if i > 0 {
				c.logger.Info("fallback recognizer succeeded",
					"recognizer_index", i,
					"chars", len(text),
				)
			}
			return text, nil
		}

		if err == nil {
			err = ErrNoSpeech
		}
		errors = append(errors, err)
		c.logger.Warn("recognizer failed, trying next",
			"recognizer_index", i,
			"error", err,
		)

		if ctx.Err() != nil {
			return "", ctx.Err()
		}
	}

	return "", &ChainError{Errors: errors}
}

var _ Recognizer = (*Chain)(nil)
