package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/pidoglabs/go-pidog/pkg/agent"
)

// keyboardInput reads one typed line per turn.
type keyboardInput struct {
	reader *bufio.Reader
}

func newKeyboardInput() *keyboardInput {
	return &keyboardInput{reader: bufio.NewReader(os.Stdin)}
}

func (k *keyboardInput) Capture(ctx context.Context) (agent.Input, error) {
	for {
		if err := ctx.Err(); err != nil {
			return agent.Input{}, err
		}
		fmt.Print("> ")
		line, err := k.reader.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				return agent.Input{}, context.Canceled
			}
			return agent.Input{}, err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		return agent.Input{Text: line}, nil
	}
}

// micInput records a fixed-length WAV sample with arecord after the
// user presses enter. Transcription happens downstream in the agent.
type micInput struct {
	reader   *bufio.Reader
	duration time.Duration
	logger   *slog.Logger
}

func newMicInput(duration time.Duration, logger *slog.Logger) *micInput {
	return &micInput{
		reader:   bufio.NewReader(os.Stdin),
		duration: duration,
		logger:   logger.With("component", "mic"),
	}
}

func (m *micInput) Capture(ctx context.Context) (agent.Input, error) {
	if err := ctx.Err(); err != nil {
		return agent.Input{}, err
	}
	fmt.Print("press enter to speak... ")
	if _, err := m.reader.ReadString('\n'); err != nil {
		if err == io.EOF {
			return agent.Input{}, context.Canceled
		}
		return agent.Input{}, err
	}

	m.logger.Info("recording", "duration", m.duration)
	cmd := exec.CommandContext(ctx, "arecord",
		"-q",
		"-d", fmt.Sprintf("%d", int(m.duration.Seconds())),
		"-f", "S16_LE",
		"-r", "16000",
		"-c", "1",
		"-t", "wav",
		"-")
	wav, err := cmd.Output()
	if err != nil {
		return agent.Input{}, fmt.Errorf("arecord: %w", err)
	}
	return agent.Input{Audio: wav}, nil
}

var (
	_ agent.InputSource = (*keyboardInput)(nil)
	_ agent.InputSource = (*micInput)(nil)
)
