// Package audio plays synthesized speech files on the local sound device.
package audio

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"sync"
)

// playbackCommands are probed in order; the first binary present on the
// system is used for every subsequent playback.
var playbackCommands = [][]string{
	{"aplay"},
	{"paplay"},
	{"play", "-q"},
	{"afplay"},
}

// Player plays audio files with whatever playback binary the host has.
type Player struct {
	logger *slog.Logger

	mu      sync.Mutex
	command []string
	probed  bool
}

// NewPlayer creates a player.
func NewPlayer(logger *slog.Logger) *Player {
	if logger == nil {
		logger = slog.Default()
	}
	return &Player{logger: logger.With("component", "audio.player")}
}

// probe finds a playback binary. The result is cached.
func (p *Player) probe() ([]string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.probed {
		if p.command == nil {
			return nil, fmt.Errorf("audio: no playback binary found")
		}
		return p.command, nil
	}
	p.probed = true

	for _, cand := range playbackCommands {
		if path, err := exec.LookPath(cand[0]); err == nil {
			p.command = append([]string{path}, cand[1:]...)
			p.logger.Debug("playback binary selected", "binary", path)
			return p.command, nil
		}
	}
	return nil, fmt.Errorf("audio: no playback binary found")
}

// PlayBlocking plays the file at path and returns when playback ends.
func (p *Player) PlayBlocking(ctx context.Context, path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("audio: open %s: %w", path, err)
	}

	command, err := p.probe()
	if err != nil {
		return err
	}

	args := append(command[1:], path)
	cmd := exec.CommandContext(ctx, command[0], args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("audio: play %s: %w: %s", path, err, out)
	}
	return nil
}
