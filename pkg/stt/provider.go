package stt

import (
	"context"

	"github.com/pidoglabs/go-pidog/pkg/provider"
)

// ProviderRecognizer adapts a dialogue provider's native transcriber to
// the Recognizer interface. Providers without speech-to-text report
// ErrNoSpeech so a chain moves on to the next backend.
type ProviderRecognizer struct {
	provider provider.Provider
}

// FromProvider wraps a dialogue provider as a recognizer.
func FromProvider(p provider.Provider) *ProviderRecognizer {
	return &ProviderRecognizer{provider: p}
}

// Recognize transcribes via the provider's native speech-to-text.
func (r *ProviderRecognizer) Recognize(ctx context.Context, wav []byte, language string) (string, error) {
	if !r.provider.Capabilities().SpeechToText {
		return "", ErrNoSpeech
	}
	return r.provider.SpeechToText(ctx, wav, language)
}

var _ Recognizer = (*ProviderRecognizer)(nil)
