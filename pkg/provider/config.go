package provider

import (
	"log/slog"
	"time"
)

// Config holds provider configuration. Concrete providers read only the
// keys relevant to them; unused keys are ignored, never an error.
type Config struct {
	// Connection
	BaseURL string // API base URL (empty = provider default)
	APIKey  string

	// Models
	Model string

	// Assistant-thread provider only
	AssistantID   string
	AssistantName string

	// Request defaults
	MaxTokens   int
	Temperature float64
	TopP        float64

	// Image encoding, decided once by the factory
	ImageFormat ImageFormat

	// Timeouts and retry
	Timeout    time.Duration
	MaxRetries int
	RetryDelay time.Duration

	// Observability
	Logger *slog.Logger
}

// Option is a functional option for configuring providers.
type Option func(*Config)

// WithBaseURL sets the API base URL.
// Examples: "https://api.anthropic.com", "https://openrouter.ai/api"
func WithBaseURL(url string) Option {
	return func(c *Config) { c.BaseURL = url }
}

// WithAPIKey sets the API key.
func WithAPIKey(key string) Option {
	return func(c *Config) { c.APIKey = key }
}

// WithModel sets the model name.
func WithModel(model string) Option {
	return func(c *Config) { c.Model = model }
}

// WithAssistant sets the assistant ID and display name for the
// assistant-thread provider. Other providers ignore it.
func WithAssistant(id, name string) Option {
	return func(c *Config) {
		c.AssistantID = id
		c.AssistantName = name
	}
}

// WithMaxTokens caps the response length.
func WithMaxTokens(n int) Option {
	return func(c *Config) { c.MaxTokens = n }
}

// WithTemperature sets the sampling temperature.
func WithTemperature(t float64) Option {
	return func(c *Config) { c.Temperature = t }
}

// WithTopP sets nucleus sampling.
func WithTopP(p float64) Option {
	return func(c *Config) { c.TopP = p }
}

// WithImageFormat overrides the image encoding variant.
// The factory normally decides this from the provider identity.
func WithImageFormat(f ImageFormat) Option {
	return func(c *Config) { c.ImageFormat = f }
}

// WithTimeout sets the request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Config) { c.Timeout = d }
}

// WithRetry configures retry behavior.
func WithRetry(maxRetries int, delay time.Duration) Option {
	return func(c *Config) {
		c.MaxRetries = maxRetries
		c.RetryDelay = delay
	}
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) { c.Logger = l }
}

// DefaultConfig returns sensible request defaults.
func DefaultConfig() *Config {
	return &Config{
		MaxTokens:  1024,
		Timeout:    30 * time.Second,
		MaxRetries: 3,
		RetryDelay: 100 * time.Millisecond,
		Logger:     slog.Default(),
	}
}

// Apply applies functional options to the config.
func (c *Config) Apply(opts ...Option) {
	for _, opt := range opts {
		opt(c)
	}
}
