package agent

import (
	"context"
	"errors"
	"sync"
)

// Register transition errors.
var (
	// ErrBadTransition is returned for a phase change the caller is not
	// allowed to make from the current phase.
	ErrBadTransition = errors.New("agent: invalid phase transition")

	// ErrSpeechPending is returned when publishing speech while a
	// previous playback is still outstanding.
	ErrSpeechPending = errors.New("agent: speech already pending")
)

// ActionState is the shared register coordinating the control loop with
// the action worker. The control loop transitions in (thinking,
// executing, standby); the worker transitions out (executing_done).
// Waiters block on a notification channel that is replaced on every
// change, so there is no sleep polling.
type ActionState struct {
	mu      sync.Mutex
	phase   Phase
	queue   []string
	changed chan struct{}
}

// NewActionState creates the register in standby.
func NewActionState() *ActionState {
	return &ActionState{changed: make(chan struct{})}
}

func (s *ActionState) notifyLocked() {
	close(s.changed)
	s.changed = make(chan struct{})
}

// Phase returns the current phase.
func (s *ActionState) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Changed returns a channel closed on the next state change.
func (s *ActionState) Changed() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.changed
}

// SetThinking marks a dialogue request in flight. Valid from standby
// only; turns are strictly serialized.
func (s *ActionState) SetThinking() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseStandby {
		return ErrBadTransition
	}
	s.phase = PhaseThinking
	s.notifyLocked()
	return nil
}

// SetExecuting publishes the action queue and marks it runnable. Valid
// from thinking only, so the worker can never pick up a stale queue.
func (s *ActionState) SetExecuting(queue []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseThinking {
		return ErrBadTransition
	}
	s.phase = PhaseExecuting
	s.queue = append([]string(nil), queue...)
	s.notifyLocked()
	return nil
}

// TakeQueue hands the published queue to the worker, exactly once per
// turn. Returns nil when the phase is not executing or the queue was
// already taken.
func (s *ActionState) TakeQueue() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseExecuting {
		return nil
	}
	queue := s.queue
	s.queue = nil
	return queue
}

// FinishExecuting marks the batch complete. Worker-only; valid from
// executing.
func (s *ActionState) FinishExecuting() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseExecuting {
		return ErrBadTransition
	}
	s.phase = PhaseExecutingDone
	s.notifyLocked()
	return nil
}

// SetStandby resets the register for the next turn.
func (s *ActionState) SetStandby() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.phase = PhaseStandby
	s.queue = nil
	s.notifyLocked()
}

// AwaitDone blocks until the worker reports executing_done, or ctx
// expires. Bounded by the caller's context, never by sleep quanta.
func (s *ActionState) AwaitDone(ctx context.Context) error {
	for {
		s.mu.Lock()
		phase, changed := s.phase, s.changed
		s.mu.Unlock()

		if phase == PhaseExecutingDone {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-changed:
		}
	}
}

// SpeechState is the shared register coordinating the control loop with
// the speech worker: a ready flag paired with one audio handle.
type SpeechState struct {
	mu      sync.Mutex
	pending bool
	handle  string
	changed chan struct{}
}

// NewSpeechState creates the register with no pending speech.
func NewSpeechState() *SpeechState {
	return &SpeechState{changed: make(chan struct{})}
}

func (s *SpeechState) notifyLocked() {
	close(s.changed)
	s.changed = make(chan struct{})
}

// Pending reports whether a playback is outstanding.
func (s *SpeechState) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// Publish hands an audio file to the speech worker. At most one playback
// may be outstanding.
func (s *SpeechState) Publish(handle string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending {
		return ErrSpeechPending
	}
	s.pending = true
	s.handle = handle
	s.notifyLocked()
	return nil
}

// Take blocks until speech is pending and returns its handle, or false
// when ctx expires. The flag stays set until Clear so the control loop
// keeps waiting through the playback.
func (s *SpeechState) Take(ctx context.Context) (string, bool) {
	for {
		s.mu.Lock()
		pending, handle, changed := s.pending, s.handle, s.changed
		s.mu.Unlock()

		if pending {
			return handle, true
		}
		select {
		case <-ctx.Done():
			return "", false
		case <-changed:
		}
	}
}

// Clear marks playback finished. Worker-only.
func (s *SpeechState) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = false
	s.handle = ""
	s.notifyLocked()
}

// AwaitCleared blocks until no playback is outstanding, or ctx expires.
func (s *SpeechState) AwaitCleared(ctx context.Context) error {
	for {
		s.mu.Lock()
		pending, changed := s.pending, s.changed
		s.mu.Unlock()

		if !pending {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-changed:
		}
	}
}
