package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

// fakeAssistantAPI is a minimal Assistants-style backend: one thread, a
// message list, and runs that complete immediately.
type fakeAssistantAPI struct {
	mu       sync.Mutex
	messages []map[string]any
	reply    string

	transcriptions int
	speechBodies   []map[string]any
}

func (f *fakeAssistantAPI) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /v1/threads", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"id": "thread_test"})
	})

	mux.HandleFunc("POST /v1/threads/thread_test/messages", func(w http.ResponseWriter, r *http.Request) {
		var msg map[string]any
		json.NewDecoder(r.Body).Decode(&msg)
		f.mu.Lock()
		f.messages = append(f.messages, msg)
		f.mu.Unlock()
		json.NewEncoder(w).Encode(map[string]any{"id": fmt.Sprintf("msg_%d", len(f.messages))})
	})

	mux.HandleFunc("POST /v1/threads/thread_test/runs", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"id": "run_test", "status": "queued"})
	})

	mux.HandleFunc("GET /v1/threads/thread_test/runs/run_test", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"id": "run_test", "status": "completed"})
	})

	mux.HandleFunc("GET /v1/threads/thread_test/messages", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		data := []map[string]any{{
			"role": "assistant",
			"content": []map[string]any{
				{"type": "text", "text": map[string]any{"value": f.reply}},
			},
		}}
		json.NewEncoder(w).Encode(map[string]any{"data": data})
	})

	mux.HandleFunc("POST /v1/files", func(w http.ResponseWriter, r *http.Request) {
		r.ParseMultipartForm(1 << 20)
		if got := r.FormValue("purpose"); got != "vision" {
			http.Error(w, "purpose = "+got, http.StatusBadRequest)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"id": "file_img"})
	})

	mux.HandleFunc("POST /v1/audio/transcriptions", func(w http.ResponseWriter, r *http.Request) {
		r.ParseMultipartForm(1 << 20)
		if got := r.FormValue("model"); got != whisperModel {
			http.Error(w, "model = "+got, http.StatusBadRequest)
			return
		}
		if r.FormValue("prompt") == "" {
			http.Error(w, "missing prompt", http.StatusBadRequest)
			return
		}
		f.mu.Lock()
		f.transcriptions++
		f.mu.Unlock()
		json.NewEncoder(w).Encode(map[string]any{"text": "hello robot"})
	})

	mux.HandleFunc("POST /v1/audio/speech", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		f.mu.Lock()
		f.speechBodies = append(f.speechBodies, body)
		f.mu.Unlock()
		w.Write([]byte("RIFF-fake-audio"))
	})

	return mux
}

func newTestAssistant(t *testing.T, f *fakeAssistantAPI) *Assistant {
	t.Helper()
	ts := httptest.NewServer(f.handler())
	t.Cleanup(ts.Close)

	p, err := NewAssistant(
		WithAPIKey("sk-test"),
		WithAssistant("asst_test", "PiDog"),
		WithBaseURL(ts.URL),
	)
	if err != nil {
		t.Fatalf("NewAssistant: %v", err)
	}
	t.Cleanup(func() { p.Close() })
	return p
}

func TestAssistantDialogue(t *testing.T) {
	f := &fakeAssistantAPI{reply: `{"actions": ["wag_tail"], "answer": "hi there"}`}
	p := newTestAssistant(t, f)

	if p.ThreadID() != "thread_test" {
		t.Errorf("thread ID = %q", p.ThreadID())
	}

	res, err := p.Dialogue(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Dialogue: %v", err)
	}
	if res.Answer != "hi there" {
		t.Errorf("answer = %q", res.Answer)
	}
	if len(res.Actions) != 1 || res.Actions[0] != "wag_tail" {
		t.Errorf("actions = %v", res.Actions)
	}

	if len(f.messages) != 1 {
		t.Fatalf("posted messages = %d", len(f.messages))
	}
	if f.messages[0]["role"] != "user" || f.messages[0]["content"] != "hello" {
		t.Errorf("message = %v", f.messages[0])
	}
}

func TestAssistantSeedHistoryPrefixesSystem(t *testing.T) {
	f := &fakeAssistantAPI{reply: "{}"}
	p := newTestAssistant(t, f)

	err := p.SeedHistory(context.Background(), []Message{
		NewSystemMessage("act like a dog"),
		NewAssistantMessage("Woof! Ready to play."),
	})
	if err != nil {
		t.Fatalf("SeedHistory: %v", err)
	}

	if len(f.messages) != 2 {
		t.Fatalf("posted messages = %d", len(f.messages))
	}
	if f.messages[0]["role"] != "user" {
		t.Errorf("system card posted as role %v", f.messages[0]["role"])
	}
	content := f.messages[0]["content"].(string)
	if !strings.HasPrefix(content, "System instructions (not visible to user): ") {
		t.Errorf("content = %q", content)
	}
	if f.messages[1]["role"] != "assistant" {
		t.Errorf("assistant card posted as role %v", f.messages[1]["role"])
	}
}

func TestAssistantDialogueWithImage(t *testing.T) {
	f := &fakeAssistantAPI{reply: `{"actions": ["stop"], "answer": "I see a ball"}`}
	p := newTestAssistant(t, f)

	res, err := p.DialogueWithImage(context.Background(), "what is this", []byte{0xff, 0xd8})
	if err != nil {
		t.Fatalf("DialogueWithImage: %v", err)
	}
	if res.Answer != "I see a ball" {
		t.Errorf("answer = %q", res.Answer)
	}

	content := f.messages[0]["content"].([]any)
	if len(content) != 2 {
		t.Fatalf("content blocks = %d", len(content))
	}
	img := content[1].(map[string]any)
	if img["type"] != "image_file" {
		t.Errorf("block type = %v", img["type"])
	}
	if img["image_file"].(map[string]any)["file_id"] != "file_img" {
		t.Errorf("file_id = %v", img["image_file"])
	}
}

func TestAssistantSpeechToText(t *testing.T) {
	f := &fakeAssistantAPI{}
	p := newTestAssistant(t, f)

	text, err := p.SpeechToText(context.Background(), []byte("RIFF"), "en")
	if err != nil {
		t.Fatalf("SpeechToText: %v", err)
	}
	if text != "hello robot" {
		t.Errorf("text = %q", text)
	}
	if f.transcriptions != 1 {
		t.Errorf("transcriptions = %d", f.transcriptions)
	}
}

func TestAssistantTextToSpeech(t *testing.T) {
	f := &fakeAssistantAPI{}
	p := newTestAssistant(t, f)

	outPath := filepath.Join(t.TempDir(), "tts", "speech.wav")
	ok, err := p.TextToSpeech(context.Background(), "good dog", outPath, "shimmer", "wav")
	if err != nil {
		t.Fatalf("TextToSpeech: %v", err)
	}
	if !ok {
		t.Fatal("expected ok")
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if string(data) != "RIFF-fake-audio" {
		t.Errorf("file contents = %q", data)
	}

	body := f.speechBodies[0]
	if body["model"] != ttsModel || body["voice"] != "shimmer" || body["input"] != "good dog" {
		t.Errorf("speech request = %v", body)
	}
}

func TestAssistantCapabilities(t *testing.T) {
	f := &fakeAssistantAPI{}
	p := newTestAssistant(t, f)

	caps := p.Capabilities()
	if !caps.Dialogue || !caps.Image || !caps.SpeechToText || !caps.TextToSpeech {
		t.Errorf("capabilities = %+v", caps)
	}
}
