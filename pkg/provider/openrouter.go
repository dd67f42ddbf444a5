package provider

import (
	"context"
	"strings"
)

const (
	providerOpenRouter = "openrouter"
	openRouterBaseURL  = "https://openrouter.ai/api"
	openRouterReferer  = "https://pidog.example.com"
	defaultRouterModel = "anthropic/claude-3-opus"
)

// OpenRouter talks to the OpenRouter chat completions API
// (OpenAI-compatible wire with router extensions).
type OpenRouter struct {
	api     apiClient
	config  *Config
	baseURL string
	history transcript
}

// NewOpenRouter creates an OpenRouter-backed provider.
func NewOpenRouter(opts ...Option) (*OpenRouter, error) {
	cfg := DefaultConfig()
	cfg.Model = defaultRouterModel
	cfg.Apply(opts...)

	if cfg.APIKey == "" {
		return nil, ErrNoAPIKey
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = openRouterBaseURL
	}

	return &OpenRouter{
		api:     newAPIClient(providerOpenRouter, cfg),
		config:  cfg,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}, nil
}

// SeedHistory installs the opening card messages.
func (o *OpenRouter) SeedHistory(_ context.Context, msgs []Message) error {
	o.history.seed(msgs)
	return nil
}

// History returns a copy of the local transcript.
func (o *OpenRouter) History(_ context.Context) ([]Message, error) {
	return o.history.snapshot(), nil
}

// Dialogue sends one user turn and parses the reply.
func (o *OpenRouter) Dialogue(ctx context.Context, text string) (*DialogueResult, error) {
	return o.send(ctx, NewUserMessage(text))
}

// DialogueWithImage sends a user turn with an attached JPEG frame.
func (o *OpenRouter) DialogueWithImage(ctx context.Context, text string, jpeg []byte) (*DialogueResult, error) {
	return o.send(ctx, NewImageMessage(text, jpeg))
}

func (o *OpenRouter) send(ctx context.Context, msg Message) (*DialogueResult, error) {
	mark := o.history.len()
	o.history.append(msg)

	payload := map[string]any{
		"model":           o.config.Model,
		"messages":        chatMessages(o.history.msgs, ImageFormatDataURL),
		"max_tokens":      o.config.MaxTokens,
		"allow_fallbacks": true,
	}
	if o.config.Temperature > 0 {
		payload["temperature"] = o.config.Temperature
	}
	if o.config.TopP > 0 {
		payload["top_p"] = o.config.TopP
	}

	headers := map[string]string{
		"Authorization": "Bearer " + o.config.APIKey,
		"HTTP-Referer":  openRouterReferer,
	}

	resp, err := o.api.postJSON(ctx, o.baseURL+"/v1/chat/completions", payload, headers)
	if err != nil {
		o.history.rollback(mark)
		return nil, err
	}

	var result chatCompletionResponse
	if err := o.api.decode(resp, &result); err != nil {
		o.history.rollback(mark)
		return nil, err
	}

	reply := result.firstChoice()
	if reply == "" {
		o.history.rollback(mark)
		return nil, WrapError(providerOpenRouter, ErrEmptyReply)
	}

	o.history.append(NewAssistantMessage(reply))
	o.api.logger.Debug("dialogue turn", "history_len", o.history.len(), "reply_chars", len(reply))

	return ParseReply(reply), nil
}

// SpeechToText is not supported by OpenRouter.
func (o *OpenRouter) SpeechToText(_ context.Context, _ []byte, _ string) (string, error) {
	return "", ErrSTTNotSupported
}

// TextToSpeech is not supported by OpenRouter.
func (o *OpenRouter) TextToSpeech(_ context.Context, _, _, _, _ string) (bool, error) {
	return false, nil
}

// Capabilities returns what OpenRouter supports natively.
func (o *OpenRouter) Capabilities() Capabilities {
	return Capabilities{Dialogue: true, Image: true}
}

// Close releases resources.
func (o *OpenRouter) Close() error {
	o.api.http.CloseIdleConnections()
	return nil
}

var _ Provider = (*OpenRouter)(nil)
var _ HistorySource = (*OpenRouter)(nil)
