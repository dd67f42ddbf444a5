// Package stt provides a unified interface for speech-to-text backends.
//
// Recognizers take a recorded WAV sample and return the transcript. The
// Chain recognizer tries backends in order, so a provider-native
// transcriber can fall back to Google Cloud Speech when it is missing or
// failing.
package stt

import "context"

// Recognizer transcribes a recorded utterance.
type Recognizer interface {
	// Recognize converts a WAV sample to text. An unintelligible sample
	// returns ErrNoSpeech.
	Recognize(ctx context.Context, wav []byte, language string) (string, error)
}
