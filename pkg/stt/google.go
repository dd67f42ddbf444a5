package stt

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/api/option"
	speech "google.golang.org/api/speech/v1"
)

const defaultLanguage = "en-US"

// Google recognizes speech with the Google Cloud Speech-to-Text API.
// It is the fallback when the dialogue provider has no native
// transcriber.
type Google struct {
	service  *speech.Service
	language string
	logger   *slog.Logger
}

// GoogleOption configures the Google recognizer.
type GoogleOption func(*Google)

// WithLanguage sets the default language code used when the caller does
// not pass one.
func WithLanguage(code string) GoogleOption {
	return func(g *Google) { g.language = code }
}

// WithGoogleLogger sets the recognizer's logger.
func WithGoogleLogger(l *slog.Logger) GoogleOption {
	return func(g *Google) { g.logger = l }
}

// NewGoogle creates a Cloud Speech recognizer authenticated by API key.
func NewGoogle(ctx context.Context, apiKey string, opts ...GoogleOption) (*Google, error) {
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}

	service, err := speech.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("stt: create speech service: %w", err)
	}

	g := &Google{
		service:  service,
		language: defaultLanguage,
		logger:   slog.Default().With("component", "stt.google"),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Recognize transcribes a WAV sample. The sample's own header carries
// the encoding parameters, so only the language is configured here.
func (g *Google) Recognize(ctx context.Context, wav []byte, language string) (string, error) {
	// Cloud Speech wants BCP-47 ("en-US"); callers may pass the bare
	// ISO-639-1 code Whisper uses ("en").
	if language == "" || !strings.Contains(language, "-") {
		language = g.language
	}

	req := &speech.RecognizeRequest{
		Config: &speech.RecognitionConfig{
			Encoding:     "LINEAR16",
			LanguageCode: language,
		},
		Audio: &speech.RecognitionAudio{
			Content: base64.StdEncoding.EncodeToString(wav),
		},
	}

	resp, err := g.service.Speech.Recognize(req).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("stt: recognize: %w", err)
	}

	var parts []string
	for _, result := range resp.Results {
		if len(result.Alternatives) > 0 {
			parts = append(parts, result.Alternatives[0].Transcript)
		}
	}

	text := strings.TrimSpace(strings.Join(parts, " "))
	if text == "" {
		return "", ErrNoSpeech
	}

	g.logger.Debug("transcribed sample", "chars", len(text), "language", language)
	return text, nil
}

var _ Recognizer = (*Google)(nil)
