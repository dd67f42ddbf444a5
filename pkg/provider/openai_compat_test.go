package provider

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNormalizeCompatURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://proxy.example.com", "https://proxy.example.com"},
		{"https://proxy.example.com/", "https://proxy.example.com"},
		{"https://proxy.example.com/v1/chat/completions", "https://proxy.example.com/v1"},
		{"https://proxy.example.com/openai/chat/completions", "https://proxy.example.com/openai"},
	}

	for _, tt := range tests {
		if got := normalizeCompatURL(tt.in); got != tt.want {
			t.Errorf("normalizeCompatURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCompletionsURL(t *testing.T) {
	tests := []struct {
		base string
		want string
	}{
		{"https://proxy.example.com", "https://proxy.example.com/v1/chat/completions"},
		{"https://proxy.example.com/openai", "https://proxy.example.com/openai/chat/completions"},
		{"https://proxy.example.com/v1", "https://proxy.example.com/v1/chat/completions"},
	}

	for _, tt := range tests {
		p, err := NewOpenAICompat(WithBaseURL(tt.base), WithModel("gpt-4o"))
		if err != nil {
			t.Fatalf("NewOpenAICompat(%q): %v", tt.base, err)
		}
		if got := p.completionsURL(); got != tt.want {
			t.Errorf("completionsURL(%q) = %q, want %q", tt.base, got, tt.want)
		}
		p.Close()
	}
}

func TestOpenAICompatRequiresBaseURLAndModel(t *testing.T) {
	if _, err := NewOpenAICompat(WithModel("m")); !errors.Is(err, ErrNoBaseURL) {
		t.Errorf("err = %v, want ErrNoBaseURL", err)
	}
	if _, err := NewOpenAICompat(WithBaseURL("https://x")); !errors.Is(err, ErrNoModel) {
		t.Errorf("err = %v, want ErrNoModel", err)
	}
}

func TestOpenAICompatInlineDataImage(t *testing.T) {
	var gotReq map[string]any

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotReq)
		w.Write([]byte(chatReply(`{"actions": ["stop"], "answer": "ok"}`)))
	}))
	defer ts.Close()

	p, err := NewOpenAICompat(
		WithBaseURL(ts.URL),
		WithModel("gemini-1.5-flash"),
		WithImageFormat(ImageFormatInlineData),
	)
	if err != nil {
		t.Fatalf("NewOpenAICompat: %v", err)
	}
	defer p.Close()

	if _, err := p.DialogueWithImage(context.Background(), "look", []byte{0xff, 0xd8}); err != nil {
		t.Fatalf("DialogueWithImage: %v", err)
	}

	msgs := gotReq["messages"].([]any)
	content := msgs[0].(map[string]any)["content"].([]any)
	img := content[1].(map[string]any)
	if img["type"] != "inline_data" {
		t.Fatalf("block type = %v, want inline_data", img["type"])
	}
	inline := img["inline_data"].(map[string]any)
	if inline["mime_type"] != "image/jpeg" {
		t.Errorf("mime_type = %v", inline["mime_type"])
	}
	if inline["data"] != "/9g=" {
		t.Errorf("data = %v, want raw base64 without data-URL prefix", inline["data"])
	}
}

func TestOpenAICompatContentRejection(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": {"message": "Validation failed: image content not permitted"}}`))
	}))
	defer ts.Close()

	p, err := NewOpenAICompat(WithBaseURL(ts.URL), WithModel("gpt-4o"))
	if err != nil {
		t.Fatalf("NewOpenAICompat: %v", err)
	}
	defer p.Close()

	_, err = p.DialogueWithImage(context.Background(), "look", []byte{0xff})
	if err == nil {
		t.Fatal("expected error")
	}
	if !IsContentRejection(err) {
		t.Errorf("expected content rejection, got %v", err)
	}
}

func TestOpenAICompatRetriesRateLimit(t *testing.T) {
	var hits int

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		if hits == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"error": {"message": "slow down"}}`))
			return
		}
		w.Write([]byte(chatReply(`{"actions": ["stop"], "answer": "finally"}`)))
	}))
	defer ts.Close()

	p, err := NewOpenAICompat(
		WithBaseURL(ts.URL),
		WithModel("gpt-4o"),
		WithRetry(2, 0),
	)
	if err != nil {
		t.Fatalf("NewOpenAICompat: %v", err)
	}
	defer p.Close()

	res, err := p.Dialogue(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Dialogue: %v", err)
	}
	if res.Answer != "finally" {
		t.Errorf("answer = %q", res.Answer)
	}
	if hits != 2 {
		t.Errorf("hits = %d, want 2", hits)
	}
}
