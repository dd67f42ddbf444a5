package tts

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// Chain implements Synthesizer by trying multiple backends in order.
// The first successful backend wins; if all fail, returns an aggregate
// error.
type Chain struct {
	synthesizers []Synthesizer
	logger       *slog.Logger
}

// NewChain creates a synthesizer chain that tries backends in order.
// At least one synthesizer is required.
func NewChain(synthesizers ...Synthesizer) (*Chain, error) {
	if len(synthesizers) == 0 {
		return nil, ErrSynthesizerUnavailable
	}

	return &Chain{
		synthesizers: synthesizers,
		logger:       slog.Default().With("component", "tts.chain"),
	}, nil
}

// NewChainWithLogger creates a synthesizer chain with a custom logger.
func NewChainWithLogger(logger *slog.Logger, synthesizers ...Synthesizer) (*Chain, error) {
	chain, err := NewChain(synthesizers...)
	if err != nil {
		return nil, err
	}
	chain.logger = logger.With("component", "tts.chain")
	return chain, nil
}

// Synthesize tries each backend until one writes the file.
func (c *Chain) Synthesize(ctx context.Context, text, outPath string) error {
	var errors []error

	for i, s := range c.synthesizers {
		err := s.Synthesize(ctx, text, outPath)
		if err == nil {
			if i > 0 {
				c.logger.Info("fallback synthesizer succeeded",
					"synthesizer_index", i,
					"chars", len(text),
				)
			}
			return nil
		}

		errors = append(errors, err)
		c.logger.Warn("synthesizer failed, trying next",
			"synthesizer_index", i,
			"error", err,
		)

		if ctx.Err() != nil {
			return ctx.Err()
		}
	}

	msgs := make([]string, len(errors))
	for i, err := range errors {
		msgs[i] = err.Error()
	}
	return fmt.Errorf("tts: all synthesizers failed: %s", strings.Join(msgs, "; "))
}

var _ Synthesizer = (*Chain)(nil)
