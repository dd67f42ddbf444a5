// Package agent runs the conversational control loop: capture a request,
// ask the dialogue provider for {actions, answer}, speak the answer and
// execute the actions through two background workers, then return to
// standby. The control loop and the workers share exactly two registers
// (ActionState and SpeechState); everything else is passed in at
// construction.
package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pidoglabs/go-pidog/pkg/provider"
	"github.com/pidoglabs/go-pidog/pkg/stt"
	"github.com/pidoglabs/go-pidog/pkg/tts"
)

// Deps are the agent's collaborators. Provider, Input, Runner, and
// Player are required; the rest degrade gracefully when nil.
type Deps struct {
	Provider provider.Provider
	Input    InputSource
	Runner   Runner
	Player   Player

	// Frames supplies camera frames for image-augmented dialogue.
	Frames FrameSource

	// Recognizer transcribes audio input. Without one, audio input is
	// skipped.
	Recognizer stt.Recognizer

	// Synthesizer renders spoken answers. Without one, the agent is
	// silent.
	Synthesizer tts.Synthesizer

	// Sink observes status events.
	Sink StatusSink
}

// Agent owns the main control loop and the two worker registers.
type Agent struct {
	deps   Deps
	cfg    *Config
	logger *slog.Logger

	actions *ActionState
	speech  *SpeechState
}

// New creates an agent.
func New(deps Deps, opts ...Option) (*Agent, error) {
	if deps.Provider == nil {
		return nil, fmt.Errorf("agent: provider required")
	}
	if deps.Input == nil {
		return nil, fmt.Errorf("agent: input source required")
	}
	if deps.Runner == nil {
		return nil, fmt.Errorf("agent: action runner required")
	}
	if deps.Player == nil {
		return nil, fmt.Errorf("agent: audio player required")
	}
	if deps.Sink == nil {
		deps.Sink = NopSink{}
	}

	cfg := DefaultConfig()
	cfg.Apply(opts...)

	return &Agent{
		deps:    deps,
		cfg:     cfg,
		logger:  cfg.Logger.With("component", "agent"),
		actions: NewActionState(),
		speech:  NewSpeechState(),
	}, nil
}

// Phase returns the current action phase for observers.
func (a *Agent) Phase() Phase { return a.actions.Phase() }

// Speaking reports whether a playback is outstanding.
func (a *Agent) Speaking() bool { return a.speech.Pending() }

// Run starts the two workers and drives the control loop until ctx is
// cancelled. Workers are daemon-style: they stop with ctx, never waited
// on individually.
func (a *Agent) Run(ctx context.Context) error {
	go newActionWorker(a.actions, a.deps.Runner, a.cfg).run(ctx)
	go newSpeechWorker(a.speech, a.deps.Player, a.cfg).run(ctx)

	a.logger.Info("agent started",
		"capabilities", a.deps.Provider.Capabilities(),
		"voice", a.cfg.Voice,
	)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := a.runTurn(ctx); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			a.logger.Warn("turn failed", "error", err)
		}
	}
}

// runTurn executes one complete cycle: capture, think, publish speech
// and actions, wait for both epilogues, return to standby.
func (a *Agent) runTurn(ctx context.Context) error {
	input, err := a.deps.Input.Capture(ctx)
	if err != nil {
		return err
	}

	text := a.transcribe(ctx, input)
	if strings.TrimSpace(text) == "" {
		return nil
	}

	turnID := uuid.NewString()
	log := a.logger.With("turn", turnID)
	log.Info("request captured", "chars", len(text))

	if err := a.actions.SetThinking(); err != nil {
		return err
	}
	a.publishPhase(PhaseThinking)

	result, failed := a.dialogue(ctx, log, text)

	answer := result.Answer
	batch := result.Actions
	if answer != "" {
		batch = a.dropVoiceActions(batch)
	}

	if answer != "" {
		a.publishSpeech(ctx, log, turnID, answer)
	}

	if err := a.actions.SetExecuting(batch); err != nil {
		log.Warn("publish actions", "error", err)
	} else {
		a.publishPhase(PhaseExecuting)
		log.Debug("actions published", "actions", batch)
	}

	waitCtx, cancel := context.WithTimeout(ctx, a.cfg.TurnTimeout)
	defer cancel()
	if err := a.actions.AwaitDone(waitCtx); err != nil {
		log.Warn("actions did not finish", "error", err)
	}
	if err := a.speech.AwaitCleared(waitCtx); err != nil {
		log.Warn("speech did not finish", "error", err)
	}

	a.actions.SetStandby()
	a.publishPhase(PhaseStandby)

	a.deps.Sink.Publish(Event{
		Type: EventTurn,
		Turn: &TurnRecord{
			ID:      turnID,
			Input:   text,
			Answer:  answer,
			Actions: batch,
			Failed:  failed,
		},
		Time: time.Now(),
	})
	return nil
}

// transcribe resolves an Input to text, running speech recognition for
// audio captures. Any recognition failure skips the turn silently.
func (a *Agent) transcribe(ctx context.Context, input Input) string {
	if input.Text != "" {
		return input.Text
	}
	if len(input.Audio) == 0 || a.deps.Recognizer == nil {
		return ""
	}

	text, err := a.deps.Recognizer.Recognize(ctx, input.Audio, a.cfg.Language)
	if err != nil {
		if errors.Is(err, stt.ErrNoSpeech) {
			a.logger.Debug("no speech recognized")
		} else {
			a.logger.Warn("speech recognition failed", "error", err)
		}
		return ""
	}
	return text
}

// dialogue issues the provider request, attaching a camera frame when
// available. Image rejection or missing image support falls back to the
// plain request with the same text; any other failure yields the
// default no-op result and marks the turn failed.
func (a *Agent) dialogue(ctx context.Context, log *slog.Logger, text string) (*provider.DialogueResult, bool) {
	frame := a.captureFrame(ctx, log)

	if len(frame) > 0 && a.deps.Provider.Capabilities().Image {
		result, err := a.deps.Provider.DialogueWithImage(ctx, text, frame)
		if err == nil {
			return result, false
		}
		if errors.Is(err, provider.ErrImageNotSupported) || provider.IsContentRejection(err) {
			log.Info("image rejected, retrying without it", "error", err)
		} else {
			log.Warn("dialogue failed", "error", err)
			return failedResult(), true
		}
	}

	result, err := a.deps.Provider.Dialogue(ctx, text)
	if err != nil {
		log.Warn("dialogue failed", "error", err)
		return failedResult(), true
	}
	return result, false
}

func failedResult() *provider.DialogueResult {
	return &provider.DialogueResult{Actions: []string{provider.DefaultAction}}
}

func (a *Agent) captureFrame(ctx context.Context, log *slog.Logger) []byte {
	if a.deps.Frames == nil {
		return nil
	}
	frame, err := a.deps.Frames.Frame(ctx)
	if err != nil {
		log.Warn("frame capture failed", "error", err)
		return nil
	}
	return frame
}

// dropVoiceActions removes actions that vocalize, since the spoken
// answer already covers the audio channel. An emptied batch degrades to
// the default action.
func (a *Agent) dropVoiceActions(batch []string) []string {
	kept := make([]string, 0, len(batch))
	for _, action := range batch {
		if !slices.Contains(a.cfg.VoiceActions, action) {
			kept = append(kept, action)
		}
	}
	if len(kept) == 0 {
		kept = append(kept, provider.DefaultAction)
	}
	return kept
}

// publishSpeech synthesizes the answer, applies the volume gain, and
// hands the file to the speech worker. Failures log and leave the turn
// silent.
func (a *Agent) publishSpeech(ctx context.Context, log *slog.Logger, turnID, answer string) {
	if a.deps.Synthesizer == nil {
		return
	}

	raw := filepath.Join(a.cfg.WorkDir, turnID+"_raw."+a.cfg.Format)
	if err := a.deps.Synthesizer.Synthesize(ctx, answer, raw); err != nil {
		log.Warn("speech synthesis failed", "error", err)
		return
	}

	playPath := raw
	if a.cfg.VolumeGain != 0 {
		amplified := filepath.Join(a.cfg.WorkDir, turnID+"."+a.cfg.Format)
		if err := tts.SoxVolume(ctx, raw, amplified, a.cfg.VolumeGain); err != nil {
			log.Warn("volume gain failed, playing raw audio", "error", err)
		} else {
			playPath = amplified
		}
	}

	if err := a.speech.Publish(playPath); err != nil {
		log.Warn("publish speech", "error", err)
	}
}

func (a *Agent) publishPhase(p Phase) {
	a.deps.Sink.Publish(Event{Type: EventPhase, Phase: p.String(), Time: time.Now()})
}
