// Package cards holds the configuration records that shape a conversation:
// the character being played, the user persona, and the sampling preset.
// Each record is field-optional; missing fields are skipped when building
// the opening messages, never an error.
package cards

// Character describes who the robot plays.
type Character struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	SystemPrompt string `json:"system_prompt"`
	FirstMessage string `json:"first_message"`
}

// Persona describes the human side of the conversation.
type Persona struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	SystemPrompt string `json:"system_prompt"`
}

// Parameters carries the sampling knobs a preset contributes.
type Parameters struct {
	MaxTokens      int     `json:"max_tokens"`
	Temperature    float64 `json:"temperature"`
	TopP           float64 `json:"top_p"`
	ThinkingTokens int     `json:"thinking_tokens"`
}

// Preset bundles reusable prompt scaffolding and sampling parameters.
type Preset struct {
	Name             string     `json:"name"`
	SystemPrompts    []string   `json:"system_prompts"`
	AssistantPrompts []string   `json:"assistant_prompts"`
	SystemPrefixes   []string   `json:"system_prefixes"`
	Parameters       Parameters `json:"parameters"`
}
