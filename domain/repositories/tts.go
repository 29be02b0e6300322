package repositories

import "context"

// TextToSpeech abstracts speech synthesis services.
type TextToSpeech interface {
	// SynthesizeSpeech renders the text as audio and returns the encoded
	// bytes along with their MIME type.
	SynthesizeSpeech(ctx context.Context, text string) ([]byte, string, error)
}
