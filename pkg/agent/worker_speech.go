package agent

import (
	"context"
	"log/slog"
)

// speechWorker performs the blocking playback of published speech. The
// flag is cleared even when playback fails so the control loop never
// waits on a dead turn.
type speechWorker struct {
	state  *SpeechState
	player Player
	logger *slog.Logger
}

func newSpeechWorker(state *SpeechState, player Player, cfg *Config) *speechWorker {
	return &speechWorker{
		state:  state,
		player: player,
		logger: cfg.Logger.With("component", "agent.speech"),
	}
}

func (w *speechWorker) run(ctx context.Context) {
	for {
		handle, ok := w.state.Take(ctx)
		if !ok {
			return
		}

		if err := w.player.PlayBlocking(ctx, handle); err != nil {
			w.logger.Warn("playback failed", "file", handle, "error", err)
		}
		w.state.Clear()
	}
}
