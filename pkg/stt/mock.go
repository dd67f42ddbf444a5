package stt

import (
	"context"
	"sync"
)

// Mock is a test double for Recognizer.
type Mock struct {
	RecognizeFunc func(ctx context.Context, wav []byte, language string) (string, error)

	mu    sync.Mutex
	calls int
}

// CallCount returns how many times Recognize was invoked.
func (m *Mock) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *Mock) Recognize(ctx context.Context, wav []byte, language string) (string, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.RecognizeFunc != nil {
		return m.RecognizeFunc(ctx, wav, language)
	}
	return "", ErrNoSpeech
}

var _ Recognizer = (*Mock)(nil)
