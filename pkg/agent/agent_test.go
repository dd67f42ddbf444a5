package agent

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/pidoglabs/go-pidog/pkg/provider"
	"github.com/pidoglabs/go-pidog/pkg/tts"
)

// scriptedInput feeds a fixed set of inputs, then blocks until ctx ends.
type scriptedInput struct {
	mu     sync.Mutex
	inputs []Input
}

func (s *scriptedInput) Capture(ctx context.Context) (Input, error) {
	s.mu.Lock()
	if len(s.inputs) > 0 {
		in := s.inputs[0]
		s.inputs = s.inputs[1:]
		s.mu.Unlock()
		return in, nil
	}
	s.mu.Unlock()
	<-ctx.Done()
	return Input{}, ctx.Err()
}

// sinkRecorder collects events and signals completed turns.
type sinkRecorder struct {
	turns chan TurnRecord
}

func newSinkRecorder() *sinkRecorder {
	return &sinkRecorder{turns: make(chan TurnRecord, 8)}
}

func (s *sinkRecorder) Publish(e Event) {
	if e.Type == EventTurn && e.Turn != nil {
		s.turns <- *e.Turn
	}
}

func (s *sinkRecorder) waitTurn(t *testing.T) TurnRecord {
	t.Helper()
	select {
	case turn := <-s.turns:
		return turn
	case <-time.After(5 * time.Second):
		t.Fatal("turn never completed")
		return TurnRecord{}
	}
}

func testAgentOptions(t *testing.T) []Option {
	return []Option{
		WithIdleInterval(time.Hour, 2*time.Hour),
		WithThinkFiller("think", time.Hour),
		WithActionPacing(time.Millisecond),
		WithTurnTimeout(3 * time.Second),
		WithVolumeGain(0),
		WithWorkDir(t.TempDir()),
	}
}

func startAgent(t *testing.T, deps Deps, opts ...Option) (*Agent, context.CancelFunc) {
	t.Helper()
	a, err := New(deps, append(testAgentOptions(t), opts...)...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	go a.Run(ctx)
	t.Cleanup(cancel)
	return a, cancel
}

func TestAgentFullTurn(t *testing.T) {
	p := &provider.Mock{
		DialogueFunc: func(_ context.Context, text string) (*provider.DialogueResult, error) {
			return &provider.DialogueResult{
				Actions: []string{"sit", "bark", "wag_tail"},
				Answer:  "sure, sitting down",
			}, nil
		},
	}
	runner := &recordingRunner{}
	player := &playRecorder{}
	synth := &tts.Mock{}
	sink := newSinkRecorder()

	a, _ := startAgent(t, Deps{
		Provider:    p,
		Input:       &scriptedInput{inputs: []Input{{Text: "sit down"}}},
		Runner:      runner,
		Player:      player,
		Synthesizer: synth,
		Sink:        sink,
	})

	turn := sink.waitTurn(t)

	if turn.Input != "sit down" || turn.Answer != "sure, sitting down" {
		t.Errorf("turn = %+v", turn)
	}
	// bark is a voice action and the reply is spoken, so it is dropped.
	if len(turn.Actions) != 2 || turn.Actions[0] != "sit" || turn.Actions[1] != "wag_tail" {
		t.Errorf("actions = %v", turn.Actions)
	}

	if texts := synth.Texts(); len(texts) != 1 || texts[0] != "sure, sitting down" {
		t.Errorf("synthesized = %v", texts)
	}
	if files := player.files(); len(files) != 1 {
		t.Errorf("played = %v", files)
	}

	// Both registers are idle again at turn end.
	if a.Phase() != PhaseStandby {
		t.Errorf("phase = %v", a.Phase())
	}
	if a.Speaking() {
		t.Error("speech flag still set after turn")
	}
}

func TestAgentImageFallback(t *testing.T) {
	p := &provider.Mock{
		DialogueWithImageFunc: func(_ context.Context, _ string, _ []byte) (*provider.DialogueResult, error) {
			return nil, provider.ErrImageNotSupported
		},
		DialogueFunc: func(_ context.Context, text string) (*provider.DialogueResult, error) {
			return &provider.DialogueResult{Actions: []string{"stop"}, Answer: "plain " + text}, nil
		},
	}
	sink := newSinkRecorder()

	startAgent(t, Deps{
		Provider: p,
		Input:    &scriptedInput{inputs: []Input{{Text: "what do you see"}}},
		Runner:   &recordingRunner{},
		Player:   &playRecorder{},
		Frames:   frameFunc(func(context.Context) ([]byte, error) { return []byte{0xff, 0xd8}, nil }),
		Sink:     sink,
	})

	turn := sink.waitTurn(t)
	if turn.Answer != "plain what do you see" {
		t.Errorf("answer = %q", turn.Answer)
	}

	calls := p.Calls()
	if len(calls) < 2 || calls[0] != "DialogueWithImage" || calls[1] != "Dialogue" {
		t.Errorf("calls = %v, want image attempt then plain fallback", calls)
	}
}

type frameFunc func(context.Context) ([]byte, error)

func (f frameFunc) Frame(ctx context.Context) ([]byte, error) { return f(ctx) }

func TestAgentFailedDialogue(t *testing.T) {
	p := &provider.Mock{
		DialogueFunc: func(_ context.Context, _ string) (*provider.DialogueResult, error) {
			return nil, errors.New("backend down")
		},
	}
	runner := &recordingRunner{}
	synth := &tts.Mock{}
	sink := newSinkRecorder()

	startAgent(t, Deps{
		Provider:    p,
		Input:       &scriptedInput{inputs: []Input{{Text: "hello"}}},
		Runner:      runner,
		Player:      &playRecorder{},
		Synthesizer: synth,
		Sink:        sink,
	})

	turn := sink.waitTurn(t)
	if !turn.Failed {
		t.Error("turn not marked failed")
	}
	if turn.Answer != "" {
		t.Errorf("answer = %q, want empty", turn.Answer)
	}
	if len(synth.Texts()) != 0 {
		t.Error("failed turn produced speech")
	}

	// The failed turn still executes the default no-op action.
	got := runner.executed()
	if len(got) != 1 || got[0] != provider.DefaultAction {
		t.Errorf("executed = %v", got)
	}
}

func TestAgentVoiceActionsKeptWhenSilent(t *testing.T) {
	p := &provider.Mock{
		DialogueFunc: func(_ context.Context, _ string) (*provider.DialogueResult, error) {
			return &provider.DialogueResult{Actions: []string{"bark"}, Answer: ""}, nil
		},
	}
	sink := newSinkRecorder()

	startAgent(t, Deps{
		Provider: p,
		Input:    &scriptedInput{inputs: []Input{{Text: "speak"}}},
		Runner:   &recordingRunner{},
		Player:   &playRecorder{},
		Sink:     sink,
	})

	turn := sink.waitTurn(t)
	if len(turn.Actions) != 1 || turn.Actions[0] != "bark" {
		t.Errorf("actions = %v, want bark kept without spoken answer", turn.Actions)
	}
}

func TestAgentSkipsUnrecognizedAudio(t *testing.T) {
	p := &provider.Mock{
		DialogueFunc: func(_ context.Context, _ string) (*provider.DialogueResult, error) {
			return nil, fmt.Errorf("should not be called")
		},
	}
	sink := newSinkRecorder()

	startAgent(t, Deps{
		Provider: p,
		Input:    &scriptedInput{inputs: []Input{{Audio: []byte("RIFF")}}},
		Runner:   &recordingRunner{},
		Player:   &playRecorder{},
		Sink:     sink,
	})

	// No recognizer configured: the audio turn is skipped silently.
	select {
	case turn := <-sink.turns:
		t.Fatalf("unexpected turn: %+v", turn)
	case <-time.After(200 * time.Millisecond):
	}
	if calls := p.Calls(); len(calls) != 0 {
		t.Errorf("provider called: %v", calls)
	}
}

func TestNewRequiresCollaborators(t *testing.T) {
	_, err := New(Deps{})
	if err == nil {
		t.Fatal("expected error for missing collaborators")
	}
}
