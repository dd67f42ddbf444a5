package agent

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"testing"
	"time"
)

func TestActionStateHappyPath(t *testing.T) {
	s := NewActionState()
	if s.Phase() != PhaseStandby {
		t.Fatalf("initial phase = %v", s.Phase())
	}

	if err := s.SetThinking(); err != nil {
		t.Fatalf("SetThinking: %v", err)
	}
	if err := s.SetExecuting([]string{"sit", "bark"}); err != nil {
		t.Fatalf("SetExecuting: %v", err)
	}

	queue := s.TakeQueue()
	if len(queue) != 2 || queue[0] != "sit" {
		t.Errorf("queue = %v", queue)
	}
	// Second take yields nothing.
	if again := s.TakeQueue(); again != nil {
		t.Errorf("second take = %v", again)
	}

	if err := s.FinishExecuting(); err != nil {
		t.Fatalf("FinishExecuting: %v", err)
	}
	if s.Phase() != PhaseExecutingDone {
		t.Errorf("phase = %v", s.Phase())
	}

	s.SetStandby()
	if s.Phase() != PhaseStandby {
		t.Errorf("phase after reset = %v", s.Phase())
	}
}

func TestActionStateForbidsSkippingThinking(t *testing.T) {
	s := NewActionState()
	if err := s.SetExecuting([]string{"sit"}); !errors.Is(err, ErrBadTransition) {
		t.Errorf("standby -> executing allowed: %v", err)
	}
	if err := s.FinishExecuting(); !errors.Is(err, ErrBadTransition) {
		t.Errorf("standby -> executing_done allowed: %v", err)
	}

	s.SetThinking()
	if err := s.SetThinking(); !errors.Is(err, ErrBadTransition) {
		t.Errorf("double thinking allowed: %v", err)
	}
	if err := s.FinishExecuting(); !errors.Is(err, ErrBadTransition) {
		t.Errorf("thinking -> executing_done allowed: %v", err)
	}
}

// Random interleavings of transition attempts must never hand the worker
// a queue unless the control loop went standby -> thinking -> executing
// with that queue.
func TestActionStateRandomInterleavings(t *testing.T) {
	s := NewActionState()
	rng := rand.New(rand.NewSource(1))

	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			r := rand.New(rand.NewSource(seed))
			for i := 0; i < 500; i++ {
				switch r.Intn(5) {
				case 0:
					s.SetThinking()
				case 1:
					s.SetExecuting([]string{"real"})
				case 2:
					if q := s.TakeQueue(); q != nil {
						// A taken queue is always the published one,
						// never stale or empty.
						if len(q) != 1 || q[0] != "real" {
							t.Errorf("stale queue: %v", q)
						}
						s.FinishExecuting()
					}
				case 3:
					s.FinishExecuting()
				case 4:
					if s.Phase() == PhaseExecutingDone {
						s.SetStandby()
					}
				}
			}
		}(rng.Int63())
	}
	wg.Wait()
}

func TestActionStateAwaitDoneBounded(t *testing.T) {
	s := NewActionState()
	s.SetThinking()
	s.SetExecuting([]string{"sit"})

	// No worker running: the wait must end with the deadline.
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := s.AwaitDone(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("err = %v, want deadline", err)
	}
}

func TestActionStateAwaitDoneWakes(t *testing.T) {
	s := NewActionState()
	s.SetThinking()
	s.SetExecuting([]string{"sit"})

	go func() {
		s.TakeQueue()
		s.FinishExecuting()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.AwaitDone(ctx); err != nil {
		t.Fatalf("AwaitDone: %v", err)
	}
}

func TestSpeechStateCycle(t *testing.T) {
	s := NewSpeechState()
	if s.Pending() {
		t.Fatal("pending at start")
	}

	if err := s.Publish("a.wav"); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if err := s.Publish("b.wav"); !errors.Is(err, ErrSpeechPending) {
		t.Errorf("double publish allowed: %v", err)
	}

	handle, ok := s.Take(context.Background())
	if !ok || handle != "a.wav" {
		t.Fatalf("Take = %q, %v", handle, ok)
	}
	// The flag stays set until the worker clears it.
	if !s.Pending() {
		t.Error("flag cleared by Take")
	}

	s.Clear()
	if s.Pending() {
		t.Error("pending after Clear")
	}
}

func TestSpeechStateAwaitClearedBounded(t *testing.T) {
	s := NewSpeechState()
	s.Publish("orphan.wav")

	// No worker running: the wait must end with the deadline, not hang.
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := s.AwaitCleared(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("err = %v, want deadline", err)
	}
}

func TestSpeechStateTakeBlocksUntilPublish(t *testing.T) {
	s := NewSpeechState()

	done := make(chan string, 1)
	go func() {
		handle, _ := s.Take(context.Background())
		done <- handle
	}()

	time.Sleep(10 * time.Millisecond)
	s.Publish("late.wav")

	select {
	case handle := <-done:
		if handle != "late.wav" {
			t.Errorf("handle = %q", handle)
		}
	case <-time.After(time.Second):
		t.Fatal("Take never woke")
	}
}
