package agent

import (
	"log/slog"
	"os"
	"time"
)

// WeightedAction is an idle filler candidate with its selection weight.
type WeightedAction struct {
	Name   string
	Weight float64
}

// Config holds agent tuning.
// Use functional options (WithXxx) to set these values.
type Config struct {
	Language string
	Voice    string
	Format   string

	// VolumeGain in dB applied to synthesized speech before playback.
	VolumeGain float64

	// VoiceActions are dropped from a batch when the reply carries a
	// spoken answer, so the dog does not bark over its own voice.
	VoiceActions []string

	// Idle filler behavior in standby.
	IdleFillers     []WeightedAction
	IdleMinInterval time.Duration
	IdleMaxInterval time.Duration
	IdleInitialWait time.Duration

	// ThinkFiller repeats while a request is in flight.
	ThinkFiller   string
	ThinkInterval time.Duration

	// ActionPacing is the fixed delay between actions in a batch.
	ActionPacing time.Duration

	// TurnTimeout bounds the wait for the action and speech epilogue.
	TurnTimeout time.Duration

	// WorkDir receives synthesized audio files.
	WorkDir string

	Logger *slog.Logger
}

// Option is a functional option for configuring the agent.
type Option func(*Config)

// WithLanguage sets the speech recognition language code.
func WithLanguage(code string) Option {
	return func(c *Config) { c.Language = code }
}

// WithVoice sets the synthesis voice.
func WithVoice(voice string) Option {
	return func(c *Config) { c.Voice = voice }
}

// WithVolumeGain sets the playback gain in dB.
func WithVolumeGain(db float64) Option {
	return func(c *Config) { c.VolumeGain = db }
}

// WithVoiceActions overrides the set of actions suppressed while the
// reply is spoken.
func WithVoiceActions(actions []string) Option {
	return func(c *Config) { c.VoiceActions = actions }
}

// WithIdleFillers overrides the standby filler set.
func WithIdleFillers(fillers []WeightedAction) Option {
	return func(c *Config) { c.IdleFillers = fillers }
}

// WithIdleInterval sets the randomized bounds between idle fillers.
func WithIdleInterval(min, max time.Duration) Option {
	return func(c *Config) {
		c.IdleMinInterval = min
		c.IdleMaxInterval = max
	}
}

// WithThinkFiller sets the filler repeated while thinking.
func WithThinkFiller(action string, interval time.Duration) Option {
	return func(c *Config) {
		c.ThinkFiller = action
		c.ThinkInterval = interval
	}
}

// WithActionPacing sets the delay between actions in a batch.
func WithActionPacing(d time.Duration) Option {
	return func(c *Config) { c.ActionPacing = d }
}

// WithTurnTimeout bounds the per-turn epilogue wait.
func WithTurnTimeout(d time.Duration) Option {
	return func(c *Config) { c.TurnTimeout = d }
}

// WithWorkDir sets the directory for synthesized audio files.
func WithWorkDir(dir string) Option {
	return func(c *Config) { c.WorkDir = dir }
}

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) { c.Logger = l }
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Language:     "en",
		Voice:        "shimmer",
		Format:       "wav",
		VolumeGain:   3.0,
		VoiceActions: []string{"bark", "bark harder", "pant", "howling"},
		IdleFillers: []WeightedAction{
			{Name: "waiting", Weight: 1.0},
			{Name: "feet_left_right", Weight: 0.3},
		},
		IdleMinInterval: 2 * time.Second,
		IdleMaxInterval: 6 * time.Second,
		IdleInitialWait: 5 * time.Second,
		ThinkFiller:     "think",
		ThinkInterval:   time.Second,
		ActionPacing:    500 * time.Millisecond,
		TurnTimeout:     2 * time.Minute,
		WorkDir:         os.TempDir(),
		Logger:          slog.Default(),
	}
}

// Apply applies the given options to the config.
func (c *Config) Apply(opts ...Option) {
	for _, opt := range opts {
		opt(c)
	}
}
