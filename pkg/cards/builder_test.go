package cards

import (
	"testing"

	"github.com/pidoglabs/go-pidog/pkg/provider"
)

func TestBuildMessagesFullOrder(t *testing.T) {
	character := Character{Description: "C1", FirstMessage: "Hi"}
	persona := Persona{SystemPrompt: "S1"}
	preset := Preset{
		SystemPrompts:    []string{"P1"},
		SystemPrefixes:   []string{"[new]"},
		AssistantPrompts: []string{"A1"},
	}

	msgs := BuildMessages(character, persona, preset)

	want := []struct {
		role    provider.Role
		content string
	}{
		{provider.RoleSystem, "P1"},
		{provider.RoleSystem, "S1"},
		{provider.RoleSystem, "C1"},
		{provider.RoleSystem, "[new]"},
		{provider.RoleAssistant, "Hi"},
		{provider.RoleAssistant, "A1"},
	}

	if len(msgs) != len(want) {
		t.Fatalf("message count = %d, want %d", len(msgs), len(want))
	}
	for i, w := range want {
		if msgs[i].Role != w.role || msgs[i].Content != w.content {
			t.Errorf("msgs[%d] = %s %q, want %s %q",
				i, msgs[i].Role, msgs[i].Content, w.role, w.content)
		}
	}
}

func TestBuildMessagesDescriptionFallback(t *testing.T) {
	// Description wins when both are set.
	both := Character{Description: "desc", SystemPrompt: "sys"}
	msgs := BuildMessages(both, Persona{}, Preset{})
	if len(msgs) != 1 || msgs[0].Content != "desc" {
		t.Errorf("msgs = %v, want description only", msgs)
	}

	// System prompt fills in when the description is empty.
	fallback := Character{SystemPrompt: "sys"}
	msgs = BuildMessages(fallback, Persona{}, Preset{})
	if len(msgs) != 1 || msgs[0].Content != "sys" {
		t.Errorf("msgs = %v, want system prompt fallback", msgs)
	}
}

func TestBuildMessagesEmptyCards(t *testing.T) {
	msgs := BuildMessages(Character{}, Persona{}, Preset{})
	if len(msgs) != 0 {
		t.Errorf("msgs = %v, want none", msgs)
	}
}

func TestBuildMessagesSkipsBlankEntries(t *testing.T) {
	preset := Preset{
		SystemPrompts:    []string{"", "P1", ""},
		AssistantPrompts: []string{""},
	}
	msgs := BuildMessages(Character{}, Persona{}, preset)
	if len(msgs) != 1 || msgs[0].Content != "P1" {
		t.Errorf("msgs = %v, want only P1", msgs)
	}
}

func TestDefaultCards(t *testing.T) {
	msgs := BuildMessages(DefaultCharacter(), DefaultPersona(), DefaultPreset())
	if len(msgs) == 0 {
		t.Fatal("default cards produced no messages")
	}
	last := msgs[len(msgs)-1]
	if last.Role != provider.RoleAssistant {
		t.Errorf("last message role = %s, want assistant", last.Role)
	}
	if DefaultPreset().Parameters.MaxTokens != 4096 {
		t.Errorf("default max tokens = %d", DefaultPreset().Parameters.MaxTokens)
	}
}
