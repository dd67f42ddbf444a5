package provider

import (
	"context"
	"encoding/base64"
	"strings"
)

const (
	providerAnthropic  = "anthropic"
	anthropicBaseURL   = "https://api.anthropic.com"
	anthropicVersion   = "2023-06-01"
	defaultClaudeModel = "claude-sonnet-4-20250514"
)

// Anthropic talks to the Claude Messages API.
// It has no native speech-to-text or text-to-speech.
type Anthropic struct {
	api     apiClient
	config  *Config
	baseURL string
	history transcript
}

// NewAnthropic creates a Claude-backed provider.
func NewAnthropic(opts ...Option) (*Anthropic, error) {
	cfg := DefaultConfig()
	cfg.Model = defaultClaudeModel
	cfg.Apply(opts...)

	if cfg.APIKey == "" {
		return nil, ErrNoAPIKey
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = anthropicBaseURL
	}

	return &Anthropic{
		api:     newAPIClient(providerAnthropic, cfg),
		config:  cfg,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}, nil
}

// SeedHistory installs the opening card messages.
func (a *Anthropic) SeedHistory(_ context.Context, msgs []Message) error {
	a.history.seed(msgs)
	return nil
}

// History returns a copy of the local transcript.
func (a *Anthropic) History(_ context.Context) ([]Message, error) {
	return a.history.snapshot(), nil
}

// Dialogue sends one user turn and parses the reply.
func (a *Anthropic) Dialogue(ctx context.Context, text string) (*DialogueResult, error) {
	return a.send(ctx, NewUserMessage(text))
}

// DialogueWithImage sends a user turn with an attached JPEG frame.
func (a *Anthropic) DialogueWithImage(ctx context.Context, text string, jpeg []byte) (*DialogueResult, error) {
	return a.send(ctx, NewImageMessage(text, jpeg))
}

func (a *Anthropic) send(ctx context.Context, msg Message) (*DialogueResult, error) {
	mark := a.history.len()
	a.history.append(msg)

	system, messages := a.splitMessages()

	payload := map[string]any{
		"model":      a.config.Model,
		"messages":   messages,
		"max_tokens": a.config.MaxTokens,
	}
	if system != "" {
		payload["system"] = system
	}
	if a.config.Temperature > 0 {
		payload["temperature"] = a.config.Temperature
	}
	if a.config.TopP > 0 {
		payload["top_p"] = a.config.TopP
	}

	headers := map[string]string{
		"x-api-key":         a.config.APIKey,
		"anthropic-version": anthropicVersion,
	}

	resp, err := a.api.postJSON(ctx, a.baseURL+"/v1/messages", payload, headers)
	if err != nil {
		a.history.rollback(mark)
		return nil, err
	}

	var result struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := a.api.decode(resp, &result); err != nil {
		a.history.rollback(mark)
		return nil, err
	}

	var reply string
	for _, block := range result.Content {
		if block.Type == "text" {
			reply = block.Text
			break
		}
	}
	if reply == "" {
		a.history.rollback(mark)
		return nil, WrapError(providerAnthropic, ErrEmptyReply)
	}

	a.history.append(NewAssistantMessage(reply))
	a.api.logger.Debug("dialogue turn", "history_len", a.history.len(), "reply_chars", len(reply))

	return ParseReply(reply), nil
}

// splitMessages folds system-role history into the request's top-level
// system field; the Messages API has no system role.
func (a *Anthropic) splitMessages() (string, []map[string]any) {
	var system []string
	messages := make([]map[string]any, 0, a.history.len())

	for _, m := range a.history.msgs {
		if m.Role == RoleSystem {
			system = append(system, m.Content)
			continue
		}
		messages = append(messages, map[string]any{
			"role":    string(m.Role),
			"content": anthropicContent(m),
		})
	}

	return strings.Join(system, "\n\n"), messages
}

// anthropicContent renders a message body: plain string for text, content
// blocks with a base64 image source when a frame is attached.
func anthropicContent(m Message) any {
	if len(m.Image) == 0 {
		return m.Content
	}
	return []map[string]any{
		{"type": "text", "text": m.Content},
		{
			"type": "image",
			"source": map[string]any{
				"type":       "base64",
				"media_type": "image/jpeg",
				"data":       base64.StdEncoding.EncodeToString(m.Image),
			},
		},
	}
}

// SpeechToText is not supported by the Anthropic API.
func (a *Anthropic) SpeechToText(_ context.Context, _ []byte, _ string) (string, error) {
	return "", ErrSTTNotSupported
}

// TextToSpeech is not supported by the Anthropic API.
func (a *Anthropic) TextToSpeech(_ context.Context, _, _, _, _ string) (bool, error) {
	return false, nil
}

// Capabilities returns what Claude supports natively.
func (a *Anthropic) Capabilities() Capabilities {
	return Capabilities{Dialogue: true, Image: true}
}

// Close releases resources.
func (a *Anthropic) Close() error {
	a.api.http.CloseIdleConnections()
	return nil
}

var _ Provider = (*Anthropic)(nil)
var _ HistorySource = (*Anthropic)(nil)
