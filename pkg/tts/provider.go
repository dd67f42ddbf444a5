package tts

import (
	"context"

	"github.com/pidoglabs/go-pidog/pkg/provider"
)

// ProviderSynthesizer adapts a dialogue provider's native voice to the
// Synthesizer interface. Providers without text-to-speech report
// ErrNotSupported so a chain moves on to the next backend.
type ProviderSynthesizer struct {
	provider provider.Provider
	voice    string
	format   string
}

// FromProvider wraps a dialogue provider as a synthesizer.
func FromProvider(p provider.Provider, voice, format string) *ProviderSynthesizer {
	if voice == "" {
		voice = VoiceShimmer
	}
	if format == "" {
		format = FormatWAV
	}
	return &ProviderSynthesizer{provider: p, voice: voice, format: format}
}

// Synthesize renders text via the provider's native text-to-speech.
func (s *ProviderSynthesizer) Synthesize(ctx context.Context, text, outPath string) error {
	if !s.provider.Capabilities().TextToSpeech {
		return ErrNotSupported
	}
	ok, err := s.provider.TextToSpeech(ctx, text, outPath, s.voice, s.format)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotSupported
	}
	return nil
}

var _ Synthesizer = (*ProviderSynthesizer)(nil)
