// Package tts provides text-to-speech synthesis for spoken replies.
//
// Synthesizers write finished audio to a file so the playback worker can
// pick it up. The Chain synthesizer tries backends in order, letting a
// dialogue provider's native voice fall back to the OpenAI speech API.
// SoxVolume post-processes a synthesized file with a gain adjustment.
package tts

import "context"

// Synthesizer converts text to a playable audio file.
type Synthesizer interface {
	// Synthesize renders text as audio at outPath.
	Synthesize(ctx context.Context, text, outPath string) error
}

// Audio format options accepted by the speech API.
const (
	FormatWAV = "wav"
	FormatMP3 = "mp3"
)
