package provider

import (
	"context"
	"sync"
)

// Mock is a test double. Set the Func fields to control behavior; calls
// are recorded for assertions.
type Mock struct {
	SeedHistoryFunc       func(ctx context.Context, msgs []Message) error
	DialogueFunc          func(ctx context.Context, text string) (*DialogueResult, error)
	DialogueWithImageFunc func(ctx context.Context, text string, jpeg []byte) (*DialogueResult, error)
	SpeechToTextFunc      func(ctx context.Context, wav []byte, language string) (string, error)
	TextToSpeechFunc      func(ctx context.Context, text, outPath, voice, format string) (bool, error)

	CapabilitiesOverride *Capabilities

	mu    sync.Mutex
	calls []string
}

func (m *Mock) record(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, name)
}

// Calls returns the method names invoked so far, in order.
func (m *Mock) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.calls))
	copy(out, m.calls)
	return out
}

func (m *Mock) SeedHistory(ctx context.Context, msgs []Message) error {
	m.record("SeedHistory")
	if m.SeedHistoryFunc != nil {
		return m.SeedHistoryFunc(ctx, msgs)
	}
	return nil
}

func (m *Mock) Dialogue(ctx context.Context, text string) (*DialogueResult, error) {
	m.record("Dialogue")
	if m.DialogueFunc != nil {
		return m.DialogueFunc(ctx, text)
	}
	return &DialogueResult{Actions: []string{DefaultAction}, Answer: "ok"}, nil
}

func (m *Mock) DialogueWithImage(ctx context.Context, text string, jpeg []byte) (*DialogueResult, error) {
	m.record("DialogueWithImage")
	if m.DialogueWithImageFunc != nil {
		return m.DialogueWithImageFunc(ctx, text, jpeg)
	}
	return &DialogueResult{Actions: []string{DefaultAction}, Answer: "ok"}, nil
}

func (m *Mock) SpeechToText(ctx context.Context, wav []byte, language string) (string, error) {
	m.record("SpeechToText")
	if m.SpeechToTextFunc != nil {
		return m.SpeechToTextFunc(ctx, wav, language)
	}
	return "", ErrSTTNotSupported
}

func (m *Mock) TextToSpeech(ctx context.Context, text, outPath, voice, format string) (bool, error) {
	m.record("TextToSpeech")
	if m.TextToSpeechFunc != nil {
		return m.TextToSpeechFunc(ctx, text, outPath, voice, format)
	}
	return false, nil
}

func (m *Mock) Capabilities() Capabilities {
	if m.CapabilitiesOverride != nil {
		return *m.CapabilitiesOverride
	}
	return Capabilities{Dialogue: true, Image: true}
}

func (m *Mock) Close() error { return nil }

var _ Provider = (*Mock)(nil)
