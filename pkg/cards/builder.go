package cards

import (
	"github.com/pidoglabs/go-pidog/pkg/provider"
)

// BuildMessages assembles the opening message sequence from the three
// cards. The order is fixed regardless of which fields are present:
// preset system prompts, persona system prompt, character description
// (or its system prompt when the description is empty), preset system
// prefixes, character first message as assistant, preset assistant
// prompts.
func BuildMessages(character Character, persona Persona, preset Preset) []provider.Message {
	var msgs []provider.Message

	for _, p := range preset.SystemPrompts {
		if p != "" {
			msgs = append(msgs, provider.NewSystemMessage(p))
		}
	}

	if persona.SystemPrompt != "" {
		msgs = append(msgs, provider.NewSystemMessage(persona.SystemPrompt))
	}

	switch {
	case character.Description != "":
		msgs = append(msgs, provider.NewSystemMessage(character.Description))
	case character.SystemPrompt != "":
		msgs = append(msgs, provider.NewSystemMessage(character.SystemPrompt))
	}

	for _, p := range preset.SystemPrefixes {
		if p != "" {
			msgs = append(msgs, provider.NewSystemMessage(p))
		}
	}

	if character.FirstMessage != "" {
		msgs = append(msgs, provider.NewAssistantMessage(character.FirstMessage))
	}

	for _, p := range preset.AssistantPrompts {
		if p != "" {
			msgs = append(msgs, provider.NewAssistantMessage(p))
		}
	}

	return msgs
}
