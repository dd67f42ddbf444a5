package provider

import (
	"fmt"
	"strings"
)

// Provider identifiers accepted by New.
const (
	ProviderOpenAI     = "openai"
	ProviderAnthropic  = "anthropic"
	ProviderOpenRouter = "openrouter"
	ProviderCustom     = "custom"
)

// New builds a provider by name. The custom variant points at any
// OpenAI-compatible endpoint; its image wire format is decided here, once,
// from the endpoint URL and model name.
func New(name string, opts ...Option) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case ProviderOpenAI:
		return NewAssistant(opts...)
	case ProviderAnthropic:
		return NewAnthropic(opts...)
	case ProviderOpenRouter:
		return NewOpenRouter(opts...)
	case ProviderCustom:
		cfg := DefaultConfig()
		cfg.Apply(opts...)
		if cfg.ImageFormat == ImageFormatDataURL && looksLikeGemini(cfg.BaseURL, cfg.Model) {
			opts = append(opts, WithImageFormat(ImageFormatInlineData))
		}
		return NewOpenAICompat(opts...)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedProvider, name)
	}
}

// looksLikeGemini reports whether an OpenAI-compatible endpoint is backed
// by a Gemini model, which takes images as inline_data blocks rather than
// data URLs.
func looksLikeGemini(baseURL, model string) bool {
	url := strings.ToLower(baseURL)
	m := strings.ToLower(model)
	return strings.Contains(url, "google") ||
		strings.Contains(m, "gemini") ||
		strings.HasPrefix(m, "models/")
}
