package agent

import (
	"context"
	"log/slog"
	"math/rand"
	"time"
)

// actionWorker drives the device: idle fillers in standby, a repeating
// think filler while a request is in flight, and the published batch in
// executing. It is the only writer of executing_done.
type actionWorker struct {
	state  *ActionState
	runner Runner
	cfg    *Config
	logger *slog.Logger

	firstIdle bool
}

func newActionWorker(state *ActionState, runner Runner, cfg *Config) *actionWorker {
	return &actionWorker{
		state:     state,
		runner:    runner,
		cfg:       cfg,
		logger:    cfg.Logger.With("component", "agent.actions"),
		firstIdle: true,
	}
}

func (w *actionWorker) run(ctx context.Context) {
	for ctx.Err() == nil {
		switch w.state.Phase() {
		case PhaseStandby:
			w.idleOnce(ctx)
		case PhaseThinking:
			w.thinkOnce(ctx)
		case PhaseExecuting:
			w.executeBatch(ctx)
		default:
			// executing_done: nothing to do until the control loop
			// resets the phase.
			w.waitChange(ctx)
		}
	}
}

func (w *actionWorker) waitChange(ctx context.Context) {
	select {
	case <-ctx.Done():
	case <-w.state.Changed():
	}
}

// idleOnce waits out the randomized idle interval, then performs one
// weighted filler if the phase is still standby. A phase change cancels
// the wait immediately.
func (w *actionWorker) idleOnce(ctx context.Context) {
	interval := w.idleInterval()

	select {
	case <-ctx.Done():
		return
	case <-w.state.Changed():
		return
	case <-time.After(interval):
	}

	if w.state.Phase() != PhaseStandby {
		return
	}
	if filler := w.pickIdleFiller(); filler != "" {
		w.runIsolated(ctx, filler)
	}
}

func (w *actionWorker) idleInterval() time.Duration {
	if w.firstIdle {
		w.firstIdle = false
		return w.cfg.IdleInitialWait
	}
	spread := w.cfg.IdleMaxInterval - w.cfg.IdleMinInterval
	if spread <= 0 {
		return w.cfg.IdleMinInterval
	}
	return w.cfg.IdleMinInterval + time.Duration(rand.Int63n(int64(spread)))
}

func (w *actionWorker) pickIdleFiller() string {
	var total float64
	for _, f := range w.cfg.IdleFillers {
		total += f.Weight
	}
	if total <= 0 {
		return ""
	}
	roll := rand.Float64() * total
	for _, f := range w.cfg.IdleFillers {
		roll -= f.Weight
		if roll < 0 {
			return f.Name
		}
	}
	return w.cfg.IdleFillers[len(w.cfg.IdleFillers)-1].Name
}

// thinkOnce performs one think filler, then waits out the repeat
// interval unless the phase moves on first.
func (w *actionWorker) thinkOnce(ctx context.Context) {
	if w.cfg.ThinkFiller != "" {
		w.runIsolated(ctx, w.cfg.ThinkFiller)
	}

	select {
	case <-ctx.Done():
	case <-w.state.Changed():
	case <-time.After(w.cfg.ThinkInterval):
	}
}

// executeBatch takes the published queue once and runs it to the end,
// isolating per-action failures, then reports executing_done.
func (w *actionWorker) executeBatch(ctx context.Context) {
	queue := w.state.TakeQueue()

	for i, action := range queue {
		if ctx.Err() != nil {
			break
		}
		w.runIsolated(ctx, action)
		if i < len(queue)-1 {
			select {
			case <-ctx.Done():
			case <-time.After(w.cfg.ActionPacing):
			}
		}
	}

	if err := w.state.FinishExecuting(); err != nil {
		w.logger.Warn("finish executing", "error", err)
	}
}

// runIsolated runs one action, logging a failure instead of letting it
// abort the batch.
func (w *actionWorker) runIsolated(ctx context.Context, action string) {
	if err := w.runner.Run(ctx, action); err != nil {
		w.logger.Warn("action failed", "action", action, "error", err)
	}
}
