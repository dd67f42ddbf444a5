// Package provider abstracts the conversational backends PiDog can talk to.
//
// The package normalizes dialogue, image-augmented dialogue, speech-to-text,
// and text-to-speech across heterogeneous providers behind a single Provider
// interface. Providers that lack a capability report it through sentinel
// errors (see errors.go) so callers can degrade instead of failing the turn.
//
// Example usage:
//
//	p, _ := provider.New("anthropic",
//	    provider.WithAPIKey(os.Getenv("ANTHROPIC_API_KEY")),
//	    provider.WithModel("claude-sonnet-4-20250514"),
//	)
//	defer p.Close()
//
//	result, _ := p.Dialogue(ctx, "sit down please")
//	// result.Actions = ["sit"], result.Answer = "Okay, sitting!"
package provider

import "context"

// Provider is the uniform capability interface every backend implements.
// Capability gaps are signalled with ErrImageNotSupported,
// ErrSTTNotSupported, and ErrTTSNotSupported rather than absent methods,
// so callers can apply their fallback policy per operation.
type Provider interface {
	// SeedHistory installs the opening conversation (character, persona,
	// and preset cards) before the first turn.
	SeedHistory(ctx context.Context, msgs []Message) error

	// Dialogue sends one user turn and returns the parsed assistant reply.
	// The provider appends both sides of the exchange to its history.
	Dialogue(ctx context.Context, text string) (*DialogueResult, error)

	// DialogueWithImage is Dialogue with an attached JPEG frame.
	// Providers without image support return ErrImageNotSupported.
	DialogueWithImage(ctx context.Context, text string, jpeg []byte) (*DialogueResult, error)

	// SpeechToText transcribes a WAV sample. Providers without native
	// transcription return ErrSTTNotSupported.
	SpeechToText(ctx context.Context, wav []byte, language string) (string, error)

	// TextToSpeech synthesizes text into the file at outPath.
	// Returns (false, nil) when the provider has no TTS, which callers
	// treat as "no speech this turn", not as an error.
	TextToSpeech(ctx context.Context, text, outPath, voice, format string) (bool, error)

	// Capabilities reports which operations this provider supports natively.
	Capabilities() Capabilities

	// Close releases any resources held by the provider.
	Close() error
}

// Capabilities describes a provider's native capability set.
type Capabilities struct {
	Dialogue     bool // Text dialogue
	Image        bool // Image-augmented dialogue
	SpeechToText bool // Native audio transcription
	TextToSpeech bool // Native speech synthesis
}

// HistorySource is implemented by providers whose conversation transcript
// can be read back. Local-history providers return their message slice;
// the assistant-thread provider fetches the server-side thread.
type HistorySource interface {
	History(ctx context.Context) ([]Message, error)
}

// ImageFormat selects how a JPEG frame is encoded into a user message.
// It is decided once at construction by the factory, never re-derived
// per call.
type ImageFormat int

const (
	// ImageFormatDataURL embeds the image as an OpenAI-style
	// "data:image/jpeg;base64," URL content part.
	ImageFormatDataURL ImageFormat = iota

	// ImageFormatInlineData embeds raw base64 in a Gemini-style
	// inline_data part, without the data-URL prefix.
	ImageFormatInlineData

	// ImageFormatFileUpload uploads the image first and references it
	// by file ID (assistant-thread provider).
	ImageFormatFileUpload
)

func (f ImageFormat) String() string {
	switch f {
	case ImageFormatInlineData:
		return "inline_data"
	case ImageFormatFileUpload:
		return "file_upload"
	default:
		return "data_url"
	}
}
