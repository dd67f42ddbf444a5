package agent

import (
	"context"
	"time"
)

// Input is one captured request: either typed text or a recorded
// utterance, supplied by the input collaborator.
type Input struct {
	Text  string
	Audio []byte
}

// InputSource captures the next request. Capture blocks until input is
// available or ctx expires.
type InputSource interface {
	Capture(ctx context.Context) (Input, error)
}

// FrameSource supplies a camera frame as JPEG bytes for image-augmented
// dialogue. Implementations may return nil to skip the image this turn.
type FrameSource interface {
	Frame(ctx context.Context) ([]byte, error)
}

// Runner executes one opaque action identifier on the device. A failed
// action is logged and does not abort the batch.
type Runner interface {
	Run(ctx context.Context, action string) error
}

// Player plays a synthesized audio file, returning when playback ends.
type Player interface {
	PlayBlocking(ctx context.Context, path string) error
}

// Event is a status update published to observers such as the web
// dashboard.
type Event struct {
	Type  EventType   `json:"type"`
	Phase string      `json:"phase,omitempty"`
	Turn  *TurnRecord `json:"turn,omitempty"`
	Time  time.Time   `json:"time"`
}

// EventType identifies what an Event carries.
type EventType string

const (
	EventPhase EventType = "phase"
	EventTurn  EventType = "turn"
)

// TurnRecord summarizes one completed turn.
type TurnRecord struct {
	ID      string   `json:"id"`
	Input   string   `json:"input"`
	Answer  string   `json:"answer"`
	Actions []string `json:"actions"`
	Failed  bool     `json:"failed,omitempty"`
}

// StatusSink receives agent status events. Publish must not block.
type StatusSink interface {
	Publish(Event)
}

// NopSink discards events.
type NopSink struct{}

func (NopSink) Publish(Event) {}
