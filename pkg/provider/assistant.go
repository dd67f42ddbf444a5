package provider

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	providerAssistant = "assistant"
	openAIBaseURL     = "https://api.openai.com"
	assistantsBeta    = "assistants=v2"
	whisperModel      = "whisper-1"
	ttsModel          = "tts-1"

	sttPrompt = "this is the conversation between me and a robot"

	runPollInterval = 500 * time.Millisecond
	runPollBudget   = 90 * time.Second
)

// Assistant is the primary provider: an OpenAI Assistants-API client
// whose conversation history lives in a server-side thread. The thread is
// created at construction and fetched on demand; no transcript is stored
// locally. It is the only provider with native speech-to-text and
// text-to-speech.
type Assistant struct {
	api     apiClient
	config  *Config
	baseURL string

	threadID string
}

// NewAssistant creates the assistant-thread provider and opens its thread.
func NewAssistant(opts ...Option) (*Assistant, error) {
	cfg := DefaultConfig()
	cfg.AssistantName = "PiDog"
	cfg.Apply(opts...)

	if cfg.APIKey == "" {
		return nil, ErrNoAPIKey
	}
	if cfg.AssistantID == "" {
		return nil, WrapError(providerAssistant, fmt.Errorf("assistant ID required"))
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = openAIBaseURL
	}

	a := &Assistant{
		api:     newAPIClient(providerAssistant, cfg),
		config:  cfg,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()
	if err := a.createThread(ctx); err != nil {
		return nil, err
	}

	return a, nil
}

func (a *Assistant) headers() map[string]string {
	return map[string]string{
		"Authorization": "Bearer " + a.config.APIKey,
		"OpenAI-Beta":   assistantsBeta,
	}
}

func (a *Assistant) createThread(ctx context.Context) error {
	resp, err := a.api.postJSON(ctx, a.baseURL+"/v1/threads", map[string]any{}, a.headers())
	if err != nil {
		return err
	}

	var thread struct {
		ID string `json:"id"`
	}
	if err := a.api.decode(resp, &thread); err != nil {
		return err
	}

	a.threadID = thread.ID
	a.api.logger.Debug("thread created", "thread_id", a.threadID)
	return nil
}

// SeedHistory posts the opening card messages onto the thread. System-role
// messages become user messages with a visibility note, since threads only
// accept user and assistant roles; assistant-role card messages are posted
// as-is.
func (a *Assistant) SeedHistory(ctx context.Context, msgs []Message) error {
	for _, m := range msgs {
		role := string(m.Role)
		content := m.Content
		if m.Role == RoleSystem {
			role = string(RoleUser)
			content = "System instructions (not visible to user): " + content
		}
		if err := a.postMessage(ctx, role, content); err != nil {
			return err
		}
	}
	return nil
}

func (a *Assistant) postMessage(ctx context.Context, role string, content any) error {
	url := fmt.Sprintf("%s/v1/threads/%s/messages", a.baseURL, a.threadID)
	resp, err := a.api.postJSON(ctx, url, map[string]any{
		"role":    role,
		"content": content,
	}, a.headers())
	if err != nil {
		return err
	}
	var msg struct {
		ID string `json:"id"`
	}
	return a.api.decode(resp, &msg)
}

// Dialogue posts one user message, runs the assistant, and parses the
// latest assistant reply.
func (a *Assistant) Dialogue(ctx context.Context, text string) (*DialogueResult, error) {
	if err := a.postMessage(ctx, string(RoleUser), text); err != nil {
		return nil, err
	}
	return a.runAndCollect(ctx)
}

// DialogueWithImage uploads the frame for vision, references it next to
// the text, then runs the assistant.
func (a *Assistant) DialogueWithImage(ctx context.Context, text string, jpeg []byte) (*DialogueResult, error) {
	fileID, err := a.uploadImage(ctx, jpeg)
	if err != nil {
		return nil, err
	}

	content := []map[string]any{
		{"type": "text", "text": text},
		{"type": "image_file", "image_file": map[string]any{"file_id": fileID}},
	}
	if err := a.postMessage(ctx, string(RoleUser), content); err != nil {
		return nil, err
	}
	return a.runAndCollect(ctx)
}

// runAndCollect creates a run, polls it to completion, and returns the
// newest assistant reply.
func (a *Assistant) runAndCollect(ctx context.Context) (*DialogueResult, error) {
	runID, err := a.createRun(ctx)
	if err != nil {
		return nil, err
	}
	if err := a.pollRun(ctx, runID); err != nil {
		return nil, err
	}

	reply, err := a.latestReply(ctx)
	if err != nil {
		return nil, err
	}
	return ParseReply(reply), nil
}

func (a *Assistant) createRun(ctx context.Context) (string, error) {
	url := fmt.Sprintf("%s/v1/threads/%s/runs", a.baseURL, a.threadID)
	resp, err := a.api.postJSON(ctx, url, map[string]any{
		"assistant_id": a.config.AssistantID,
	}, a.headers())
	if err != nil {
		return "", err
	}

	var run struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	if err := a.api.decode(resp, &run); err != nil {
		return "", err
	}
	return run.ID, nil
}

func (a *Assistant) pollRun(ctx context.Context, runID string) error {
	deadline := time.Now().Add(runPollBudget)
	url := fmt.Sprintf("%s/v1/threads/%s/runs/%s", a.baseURL, a.threadID, runID)

	for {
		var run struct {
			Status    string `json:"status"`
			LastError *struct {
				Code    string `json:"code"`
				Message string `json:"message"`
			} `json:"last_error"`
		}
		if err := a.getJSON(ctx, url, &run); err != nil {
			return err
		}

		switch run.Status {
		case "completed":
			return nil
		case "failed", "cancelled", "expired", "incomplete":
			msg := run.Status
			if run.LastError != nil {
				msg = fmt.Sprintf("%s: %s", run.Status, run.LastError.Message)
			}
			return WrapError(providerAssistant, fmt.Errorf("run %s", msg))
		}

		if time.Now().After(deadline) {
			return WrapError(providerAssistant, fmt.Errorf("run %s did not complete in %s", runID, runPollBudget))
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(runPollInterval):
		}
	}
}

// latestReply fetches the thread and returns the text of the newest
// assistant message.
func (a *Assistant) latestReply(ctx context.Context) (string, error) {
	msgs, err := a.fetchMessages(ctx)
	if err != nil {
		return "", err
	}
	// Thread messages arrive newest first.
	if len(msgs) > 0 && msgs[0].Role == "assistant" {
		if text := msgs[0].text(); text != "" {
			return text, nil
		}
	}
	return "", WrapError(providerAssistant, ErrEmptyReply)
}

// History fetches the server-side thread as a chronological transcript.
func (a *Assistant) History(ctx context.Context) ([]Message, error) {
	msgs, err := a.fetchMessages(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]Message, 0, len(msgs))
	for i := len(msgs) - 1; i >= 0; i-- {
		out = append(out, Message{Role: Role(msgs[i].Role), Content: msgs[i].text()})
	}
	return out, nil
}

type threadMessage struct {
	Role    string `json:"role"`
	Content []struct {
		Type string `json:"type"`
		Text struct {
			Value string `json:"value"`
		} `json:"text"`
	} `json:"content"`
}

func (m threadMessage) text() string {
	var parts []string
	for _, block := range m.Content {
		if block.Type == "text" {
			parts = append(parts, block.Text.Value)
		}
	}
	return strings.Join(parts, "\n")
}

func (a *Assistant) fetchMessages(ctx context.Context) ([]threadMessage, error) {
	url := fmt.Sprintf("%s/v1/threads/%s/messages", a.baseURL, a.threadID)
	var list struct {
		Data []threadMessage `json:"data"`
	}
	if err := a.getJSON(ctx, url, &list); err != nil {
		return nil, err
	}
	return list.Data, nil
}

func (a *Assistant) getJSON(ctx context.Context, url string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return WrapError(providerAssistant, fmt.Errorf("create request: %w", err))
	}
	for k, val := range a.headers() {
		req.Header.Set(k, val)
	}

	resp, err := a.api.http.Do(req)
	if err != nil {
		return WrapError(providerAssistant, err)
	}
	return a.api.decode(resp, v)
}

// uploadImage uploads a JPEG with purpose=vision and returns its file ID.
func (a *Assistant) uploadImage(ctx context.Context, jpeg []byte) (string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if err := w.WriteField("purpose", "vision"); err != nil {
		return "", WrapError(providerAssistant, err)
	}
	part, err := w.CreateFormFile("file", "frame.jpg")
	if err != nil {
		return "", WrapError(providerAssistant, err)
	}
	if _, err := part.Write(jpeg); err != nil {
		return "", WrapError(providerAssistant, err)
	}
	if err := w.Close(); err != nil {
		return "", WrapError(providerAssistant, err)
	}

	resp, err := a.postMultipart(ctx, a.baseURL+"/v1/files", &buf, w.FormDataContentType())
	if err != nil {
		return "", err
	}

	var file struct {
		ID string `json:"id"`
	}
	if err := a.api.decode(resp, &file); err != nil {
		return "", err
	}
	return file.ID, nil
}

func (a *Assistant) postMultipart(ctx context.Context, url string, body *bytes.Buffer, contentType string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, WrapError(providerAssistant, fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+a.config.APIKey)

	resp, err := a.api.http.Do(req)
	if err != nil {
		return nil, WrapError(providerAssistant, err)
	}
	return resp, nil
}

// SpeechToText transcribes a WAV sample with Whisper.
func (a *Assistant) SpeechToText(ctx context.Context, wav []byte, language string) (string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if err := w.WriteField("model", whisperModel); err != nil {
		return "", WrapError(providerAssistant, err)
	}
	if language != "" {
		if err := w.WriteField("language", language); err != nil {
			return "", WrapError(providerAssistant, err)
		}
	}
	if err := w.WriteField("prompt", sttPrompt); err != nil {
		return "", WrapError(providerAssistant, err)
	}
	part, err := w.CreateFormFile("file", "stt_output.wav")
	if err != nil {
		return "", WrapError(providerAssistant, err)
	}
	if _, err := part.Write(wav); err != nil {
		return "", WrapError(providerAssistant, err)
	}
	if err := w.Close(); err != nil {
		return "", WrapError(providerAssistant, err)
	}

	resp, err := a.postMultipart(ctx, a.baseURL+"/v1/audio/transcriptions", &buf, w.FormDataContentType())
	if err != nil {
		return "", err
	}

	var transcript struct {
		Text string `json:"text"`
	}
	if err := a.api.decode(resp, &transcript); err != nil {
		return "", err
	}
	return transcript.Text, nil
}

// TextToSpeech synthesizes text to the file at outPath.
func (a *Assistant) TextToSpeech(ctx context.Context, text, outPath, voice, format string) (bool, error) {
	if dir := filepath.Dir(outPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return false, WrapError(providerAssistant, err)
		}
	}

	payload := map[string]any{
		"model":           ttsModel,
		"voice":           voice,
		"input":           text,
		"response_format": format,
	}

	resp, err := a.api.postJSON(ctx, a.baseURL+"/v1/audio/speech", payload, map[string]string{
		"Authorization": "Bearer " + a.config.APIKey,
	})
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, a.api.parseError(resp)
	}

	out, err := os.Create(outPath)
	if err != nil {
		return false, WrapError(providerAssistant, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		return false, WrapError(providerAssistant, err)
	}
	return true, nil
}

// Capabilities returns the assistant provider's full native set.
func (a *Assistant) Capabilities() Capabilities {
	return Capabilities{Dialogue: true, Image: true, SpeechToText: true, TextToSpeech: true}
}

// ThreadID returns the server-side thread identifier.
func (a *Assistant) ThreadID() string {
	return a.threadID
}

// Close releases resources.
func (a *Assistant) Close() error {
	a.api.http.CloseIdleConnections()
	return nil
}

var _ Provider = (*Assistant)(nil)
var _ HistorySource = (*Assistant)(nil)
