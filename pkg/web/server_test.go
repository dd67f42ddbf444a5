package web

import (
	"testing"
	"time"

	"github.com/pidoglabs/go-pidog/pkg/agent"
)

func TestPublishPhaseUpdatesState(t *testing.T) {
	s := NewServer("0", "anthropic", "claude-sonnet-4-5")

	s.Publish(agent.Event{Type: agent.EventPhase, Phase: "thinking", Time: time.Now()})

	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	if s.state.Phase != "thinking" {
		t.Fatalf("phase = %q, want thinking", s.state.Phase)
	}
	if s.state.Speaking {
		t.Fatal("speaking should be false outside executing")
	}
	if s.state.Provider != "anthropic" || s.state.Model != "claude-sonnet-4-5" {
		t.Fatalf("provider/model not carried: %q %q", s.state.Provider, s.state.Model)
	}
}

func TestPublishTurnUpdatesConversation(t *testing.T) {
	s := NewServer("0", "openai", "gpt-4o")

	s.Publish(agent.Event{
		Type: agent.EventTurn,
		Turn: &agent.TurnRecord{
			ID:      "t1",
			Input:   "sit down",
			Answer:  "Sure thing!",
			Actions: []string{"sit", "wag_tail"},
		},
		Time: time.Now(),
	})

	s.stateMu.RLock()
	if s.state.LastUserMessage != "sit down" || s.state.LastAnswer != "Sure thing!" {
		t.Fatalf("state not updated: %+v", s.state)
	}
	if s.state.Turns != 1 {
		t.Fatalf("turns = %d, want 1", s.state.Turns)
	}
	s.stateMu.RUnlock()

	s.conversationMu.RLock()
	defer s.conversationMu.RUnlock()
	if len(s.conversation) != 2 {
		t.Fatalf("conversation length = %d, want 2", len(s.conversation))
	}
	if s.conversation[0].Role != "user" || s.conversation[1].Role != "dog" {
		t.Fatalf("unexpected roles: %+v", s.conversation)
	}
}

func TestPublishFailedTurnSkipsAnswer(t *testing.T) {
	s := NewServer("0", "openai", "gpt-4o")

	s.Publish(agent.Event{
		Type: agent.EventTurn,
		Turn: &agent.TurnRecord{ID: "t1", Input: "hello", Answer: "", Failed: true},
		Time: time.Now(),
	})

	s.conversationMu.RLock()
	defer s.conversationMu.RUnlock()
	if len(s.conversation) != 1 {
		t.Fatalf("conversation length = %d, want 1 (user only)", len(s.conversation))
	}

	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	if !s.state.LastTurnFailed {
		t.Fatal("failed flag not carried into state")
	}
}

func TestLogBufferBounded(t *testing.T) {
	s := NewServer("0", "openai", "gpt-4o")

	for i := 0; i < maxLogEntries+10; i++ {
		s.AddLog("info", "entry")
	}

	s.logsMu.RLock()
	defer s.logsMu.RUnlock()
	if len(s.logs) != maxLogEntries {
		t.Fatalf("log buffer = %d entries, want %d", len(s.logs), maxLogEntries)
	}
}
