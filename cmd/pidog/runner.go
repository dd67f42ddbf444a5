package main

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"

	"github.com/pidoglabs/go-pidog/pkg/agent"
)

// execRunner bridges actions to the device by invoking an external
// command with the action identifier as its single argument.
type execRunner struct {
	command string
	logger  *slog.Logger
}

func newExecRunner(command string, logger *slog.Logger) *execRunner {
	return &execRunner{command: command, logger: logger.With("component", "runner")}
}

func (r *execRunner) Run(ctx context.Context, action string) error {
	cmd := exec.CommandContext(ctx, r.command, action)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s %q: %w: %s", r.command, action, err, out)
	}
	r.logger.Debug("action executed", "action", action)
	return nil
}

// logRunner logs actions instead of executing them. Used when no
// action command is configured.
type logRunner struct {
	logger *slog.Logger
}

func newLogRunner(logger *slog.Logger) *logRunner {
	return &logRunner{logger: logger.With("component", "runner")}
}

func (r *logRunner) Run(_ context.Context, action string) error {
	r.logger.Info("action", "action", action)
	return nil
}

var (
	_ agent.Runner = (*execRunner)(nil)
	_ agent.Runner = (*logRunner)(nil)
)
