// pidog: conversational agent loop for the PiDog robot.
// Wires a dialogue provider, speech in/out, and the action workers.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/pidoglabs/go-pidog/internal/config"
	"github.com/pidoglabs/go-pidog/internal/log"
	"github.com/pidoglabs/go-pidog/pkg/agent"
	"github.com/pidoglabs/go-pidog/pkg/audio"
	"github.com/pidoglabs/go-pidog/pkg/cards"
	"github.com/pidoglabs/go-pidog/pkg/provider"
	"github.com/pidoglabs/go-pidog/pkg/stt"
	"github.com/pidoglabs/go-pidog/pkg/tts"
	"github.com/pidoglabs/go-pidog/pkg/web"
)

var version = "0.1.0"

func main() {
	cfg := config.DefaultAppConfig()

	flag.BoolVar(&cfg.Debug, "debug", false, "Enable debug logging")
	flag.StringVar(&cfg.Provider, "provider", cfg.Provider, "Dialogue backend: openai, anthropic, openrouter, custom")
	flag.StringVar(&cfg.APIURL, "api-url", "", "Backend base URL (openrouter/custom)")
	flag.StringVar(&cfg.Model, "model", "", "Model identifier")
	flag.StringVar(&cfg.AssistantID, "assistant-id", "", "Pre-provisioned assistant ID (openai)")
	flag.StringVar(&cfg.Voice, "voice", cfg.Voice, "TTS voice preset")
	flag.Float64Var(&cfg.VolumeGain, "volume-db", cfg.VolumeGain, "Speech gain in dB (0 disables sox)")
	flag.BoolVar(&cfg.Keyboard, "keyboard", false, "Typed input instead of recorded audio")
	flag.BoolVar(&cfg.NoImage, "no-img", false, "Skip camera frames")
	flag.StringVar(&cfg.WebPort, "web-port", cfg.WebPort, "Dashboard port (empty disables)")
	flag.StringVar(&cfg.ActionCmd, "action-cmd", "", "Command invoked with each action identifier")
	frameCmd := flag.String("frame-cmd", "", "Command that writes a JPEG frame to stdout")
	recordSecs := flag.Int("record-secs", 5, "Microphone recording length in seconds")
	flag.Parse()

	cfg.LoadEnv()

	level := "info"
	if cfg.Debug {
		level = "debug"
	}
	log.Init(level)
	logger := log.L()

	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Println("  pidog v" + version)
	fmt.Println("  provider:", cfg.Provider)
	fmt.Println()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	p, err := buildProvider(cfg)
	if err != nil {
		logger.Error("provider setup failed", "error", err)
		os.Exit(1)
	}
	defer p.Close()

	// Seed the conversation from the default cards.
	seed := cards.BuildMessages(cards.DefaultCharacter(), cards.DefaultPersona(), cards.DefaultPreset())
	if err := p.SeedHistory(ctx, seed); err != nil {
		logger.Error("seeding conversation failed", "error", err)
		os.Exit(1)
	}

	deps := agent.Deps{
		Provider: p,
		Runner:   newLogRunner(logger),
		Player:   audio.NewPlayer(logger),
	}
	if cfg.ActionCmd != "" {
		deps.Runner = newExecRunner(cfg.ActionCmd, logger)
	}

	if cfg.Keyboard {
		deps.Input = newKeyboardInput()
	} else {
		deps.Input = newMicInput(time.Duration(*recordSecs)*time.Second, logger)
		deps.Recognizer = buildRecognizer(ctx, cfg, p, logger)
	}

	if !cfg.NoImage && *frameCmd != "" {
		parts := strings.Fields(*frameCmd)
		deps.Frames = newExecFrames(parts[0], parts[1:], logger)
	}

	deps.Synthesizer = buildSynthesizer(cfg, p, logger)

	var srv *web.Server
	if cfg.WebPort != "" {
		srv = web.NewServer(cfg.WebPort, cfg.Provider, cfg.Model)
		srv.StartAsync()
		deps.Sink = srv
	}

	a, err := agent.New(deps,
		agent.WithLanguage(cfg.Language),
		agent.WithVoice(cfg.Voice),
		agent.WithVolumeGain(cfg.VolumeGain),
		agent.WithWorkDir(cfg.WorkDir),
		agent.WithTurnTimeout(cfg.TurnTimeout),
		agent.WithLogger(logger),
	)
	if err != nil {
		logger.Error("agent setup failed", "error", err)
		os.Exit(1)
	}

	if err := a.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("agent stopped", "error", err)
	}

	if srv != nil {
		srv.Shutdown()
	}
	logger.Info("goodbye")
}

// buildProvider constructs the dialogue backend from configuration.
func buildProvider(cfg config.Config) (provider.Provider, error) {
	preset := cards.DefaultPreset()
	opts := []provider.Option{
		provider.WithAPIKey(cfg.APIKey),
		provider.WithMaxTokens(preset.Parameters.MaxTokens),
		provider.WithTemperature(preset.Parameters.Temperature),
		provider.WithTopP(preset.Parameters.TopP),
	}
	if cfg.APIURL != "" {
		opts = append(opts, provider.WithBaseURL(cfg.APIURL))
	}
	if cfg.Model != "" {
		opts = append(opts, provider.WithModel(cfg.Model))
	}
	if cfg.AssistantID != "" {
		opts = append(opts, provider.WithAssistant(cfg.AssistantID, "PiDog"))
	}
	return provider.New(cfg.Provider, opts...)
}

// buildRecognizer assembles the STT fallback chain: the dialogue
// provider's own transcription first, then Google Cloud Speech when a
// key is configured. A turn with no recognizable speech is skipped.
func buildRecognizer(ctx context.Context, cfg config.Config, p provider.Provider, logger *slog.Logger) stt.Recognizer {
	recognizers := []stt.Recognizer{stt.FromProvider(p)}
	if cfg.GoogleAPIKey != "" {
		g, err := stt.NewGoogle(ctx, cfg.GoogleAPIKey)
		if err != nil {
			logger.Warn("google speech unavailable", "error", err)
		} else {
			recognizers = append(recognizers, g)
		}
	}
	chain, err := stt.NewChain(recognizers...)
	if err != nil {
		return recognizers[0]
	}
	return chain
}

// buildSynthesizer assembles the TTS fallback chain: the dialogue
// provider first, then OpenAI TTS when an OpenAI key is available.
func buildSynthesizer(cfg config.Config, p provider.Provider, logger *slog.Logger) tts.Synthesizer {
	synths := []tts.Synthesizer{tts.FromProvider(p, cfg.Voice, tts.FormatWAV)}
	if cfg.OpenAIKey != "" {
		o, err := tts.NewOpenAI(
			tts.WithAPIKey(cfg.OpenAIKey),
			tts.WithVoice(cfg.Voice),
			tts.WithFormat(tts.FormatWAV),
		)
		if err != nil {
			logger.Warn("openai tts unavailable", "error", err)
		} else {
			synths = append(synths, o)
		}
	}
	chain, err := tts.NewChain(synths...)
	if err != nil {
		return synths[0]
	}
	return chain
}
