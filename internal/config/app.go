package config

import (
	"os"
	"time"
)

// Default configuration values.
const (
	DefaultProvider = "openai"
	DefaultLanguage = "en"
	DefaultVoice    = "shimmer"
	DefaultWebPort  = "8080"
)

// Config holds all configuration for the pidog application.
// Flag parsing is done in cmd/pidog/main.go; this struct is data only.
type Config struct {
	// Debug enables verbose debug logging.
	Debug bool

	// Provider selects the dialogue backend: openai, anthropic,
	// openrouter, or custom.
	Provider string

	// APIURL overrides the backend base URL (openrouter/custom).
	APIURL string

	// Model is the model identifier sent to the backend.
	Model string

	// AssistantID is the pre-provisioned assistant (openai only).
	AssistantID string

	// Language is the STT language hint (BCP-47 or short code).
	Language string

	// Voice is the TTS voice preset.
	Voice string

	// VolumeGain is the dB gain applied to synthesized speech.
	VolumeGain float64

	// Feature flags.
	Keyboard bool // typed input instead of recorded audio
	NoImage  bool // skip camera frames even when the backend supports them
	WebPort  string

	// ActionCmd, when set, is the executable invoked with each action
	// identifier as its argument. Empty means actions are logged only.
	ActionCmd string

	// WorkDir is where synthesized audio files are written.
	WorkDir string

	// TurnTimeout bounds the execute phase of a single turn.
	TurnTimeout time.Duration

	// API keys (typically from environment variables).
	APIKey       string
	GoogleAPIKey string
	OpenAIKey    string
}

// DefaultAppConfig returns sensible defaults for the pidog application.
func DefaultAppConfig() Config {
	return Config{
		Provider:    DefaultProvider,
		Language:    DefaultLanguage,
		Voice:       DefaultVoice,
		VolumeGain:  3.0,
		WebPort:     DefaultWebPort,
		WorkDir:     os.TempDir(),
		TurnTimeout: 2 * time.Minute,
	}
}

// LoadEnv loads configuration values from environment variables.
// Call this after flag parsing to apply environment overrides.
func (c *Config) LoadEnv() {
	if v := Env("PIDOG_PROVIDER", ""); v != "" && c.Provider == DefaultProvider {
		c.Provider = v
	}
	if v := Env("PIDOG_API_URL", ""); v != "" && c.APIURL == "" {
		c.APIURL = v
	}
	if v := Env("PIDOG_MODEL", ""); v != "" && c.Model == "" {
		c.Model = v
	}
	if v := Env("PIDOG_ASSISTANT_ID", ""); v != "" && c.AssistantID == "" {
		c.AssistantID = v
	}
	c.APIKey = Env("PIDOG_API_KEY", "")
	c.OpenAIKey = Env("OPENAI_API_KEY", "")
	c.GoogleAPIKey = Env("GOOGLE_API_KEY", "")
	if c.APIKey == "" {
		c.APIKey = c.OpenAIKey
	}
	c.Language = Env("PIDOG_LANGUAGE", c.Language)
	c.VolumeGain = EnvFloat("PIDOG_VOLUME_DB", c.VolumeGain)
	c.TurnTimeout = EnvDuration("PIDOG_TURN_TIMEOUT", c.TurnTimeout)
	if v := Env("PIDOG_WORKDIR", ""); v != "" {
		c.WorkDir = v
	}
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return &ConfigError{Field: "APIKey", Message: "PIDOG_API_KEY or OPENAI_API_KEY environment variable is required"}
	}
	if c.Provider == "custom" && c.APIURL == "" {
		return &ConfigError{Field: "APIURL", Message: "-api-url is required for the custom provider"}
	}
	return nil
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Message
}
