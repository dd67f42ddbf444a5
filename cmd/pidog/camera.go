package main

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"

	"github.com/pidoglabs/go-pidog/pkg/agent"
)

// execFrames captures a JPEG frame by invoking an external command
// that writes the image to stdout (e.g. rpicam-jpeg or fswebcam).
type execFrames struct {
	command string
	args    []string
	logger  *slog.Logger
}

func newExecFrames(command string, args []string, logger *slog.Logger) *execFrames {
	return &execFrames{command: command, args: args, logger: logger.With("component", "camera")}
}

func (f *execFrames) Frame(ctx context.Context) ([]byte, error) {
	cmd := exec.CommandContext(ctx, f.command, f.args...)
	jpeg, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.command, err)
	}
	f.logger.Debug("frame captured", "bytes", len(jpeg))
	return jpeg, nil
}

var _ agent.FrameSource = (*execFrames)(nil)
