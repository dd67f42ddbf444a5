package tts

import (
	"context"
	"sync"
)

// Mock is a test double for Synthesizer.
type Mock struct {
	SynthesizeFunc func(ctx context.Context, text, outPath string) error

	mu    sync.Mutex
	calls []string
}

// Texts returns the texts passed to Synthesize, in order.
func (m *Mock) Texts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.calls))
	copy(out, m.calls)
	return out
}

func (m *Mock) Synthesize(ctx context.Context, text, outPath string) error {
	m.mu.Lock()
	m.calls = append(m.calls, text)
	m.mu.Unlock()
	if m.SynthesizeFunc != nil {
		return m.SynthesizeFunc(ctx, text, outPath)
	}
	return nil
}

var _ Synthesizer = (*Mock)(nil)
