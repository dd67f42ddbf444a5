package provider

import (
	"context"
	"strings"
)

const providerCompat = "custom"

// OpenAICompat talks to any OpenAI-compatible chat completions endpoint:
// self-hosted gateways, proxies, and Gemini-behind-a-proxy deployments.
// The image encoding variant is fixed at construction (the factory decides
// it from the provider identity) rather than sniffed per request.
type OpenAICompat struct {
	api         apiClient
	config      *Config
	baseURL     string
	imageFormat ImageFormat
	history     transcript
}

// NewOpenAICompat creates a provider for a custom OpenAI-compatible
// endpoint. BaseURL is required; Model is required.
func NewOpenAICompat(opts ...Option) (*OpenAICompat, error) {
	cfg := DefaultConfig()
	cfg.Apply(opts...)

	if cfg.BaseURL == "" {
		return nil, ErrNoBaseURL
	}
	if cfg.Model == "" {
		return nil, ErrNoModel
	}

	return &OpenAICompat{
		api:         newAPIClient(providerCompat, cfg),
		config:      cfg,
		baseURL:     normalizeCompatURL(cfg.BaseURL),
		imageFormat: cfg.ImageFormat,
	}, nil
}

// normalizeCompatURL strips trailing slashes and an already-included
// chat endpoint so completionsURL can append the path uniformly.
// Proxy deployments hand out URLs in both shapes.
func normalizeCompatURL(raw string) string {
	url := strings.TrimSuffix(raw, "/")
	if idx := strings.Index(url, "/chat/completions"); idx >= 0 {
		url = url[:idx]
	}
	return url
}

// completionsURL resolves the chat completions endpoint for the
// configured base. Proxy URLs ending in /openai already address the
// OpenAI surface and take the endpoint directly; everything else gets
// the versioned path.
func (c *OpenAICompat) completionsURL() string {
	if strings.HasSuffix(c.baseURL, "/openai") || strings.HasSuffix(c.baseURL, "/v1") {
		return c.baseURL + "/chat/completions"
	}
	return c.baseURL + "/v1/chat/completions"
}

// SeedHistory installs the opening card messages.
func (c *OpenAICompat) SeedHistory(_ context.Context, msgs []Message) error {
	c.history.seed(msgs)
	return nil
}

// History returns a copy of the local transcript.
func (c *OpenAICompat) History(_ context.Context) ([]Message, error) {
	return c.history.snapshot(), nil
}

// Dialogue sends one user turn and parses the reply.
func (c *OpenAICompat) Dialogue(ctx context.Context, text string) (*DialogueResult, error) {
	return c.send(ctx, NewUserMessage(text))
}

// DialogueWithImage sends a user turn with an attached JPEG frame,
// encoded per the constructor's image format.
func (c *OpenAICompat) DialogueWithImage(ctx context.Context, text string, jpeg []byte) (*DialogueResult, error) {
	return c.send(ctx, NewImageMessage(text, jpeg))
}

func (c *OpenAICompat) send(ctx context.Context, msg Message) (*DialogueResult, error) {
	mark := c.history.len()
	c.history.append(msg)

	payload := map[string]any{
		"model":      c.config.Model,
		"messages":   chatMessages(c.history.msgs, c.imageFormat),
		"max_tokens": c.config.MaxTokens,
	}
	if c.config.Temperature > 0 {
		payload["temperature"] = c.config.Temperature
	}
	if c.config.TopP > 0 {
		payload["top_p"] = c.config.TopP
	}

	headers := map[string]string{
		"Authorization": "Bearer " + c.config.APIKey,
	}

	resp, err := c.api.postJSON(ctx, c.completionsURL(), payload, headers)
	if err != nil {
		c.history.rollback(mark)
		return nil, err
	}

	var result chatCompletionResponse
	if err := c.api.decode(resp, &result); err != nil {
		c.history.rollback(mark)
		return nil, err
	}

	reply := result.firstChoice()
	if reply == "" {
		c.history.rollback(mark)
		return nil, WrapError(providerCompat, ErrEmptyReply)
	}

	c.history.append(NewAssistantMessage(reply))
	c.api.logger.Debug("dialogue turn",
		"history_len", c.history.len(),
		"reply_chars", len(reply),
		"image_format", c.imageFormat.String(),
	)

	return ParseReply(reply), nil
}

// SpeechToText is not supported by custom endpoints.
func (c *OpenAICompat) SpeechToText(_ context.Context, _ []byte, _ string) (string, error) {
	return "", ErrSTTNotSupported
}

// TextToSpeech is not supported by custom endpoints.
func (c *OpenAICompat) TextToSpeech(_ context.Context, _, _, _, _ string) (bool, error) {
	return false, nil
}

// Capabilities returns what a custom endpoint supports.
func (c *OpenAICompat) Capabilities() Capabilities {
	return Capabilities{Dialogue: true, Image: true}
}

// Close releases resources.
func (c *OpenAICompat) Close() error {
	c.api.http.CloseIdleConnections()
	return nil
}

var _ Provider = (*OpenAICompat)(nil)
var _ HistorySource = (*OpenAICompat)(nil)
