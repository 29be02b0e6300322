package repositories

import "context"

// SpeechToText abstracts speech recognition services.
type SpeechToText interface {
	// TranscribeAudio converts a complete audio clip to text.
	TranscribeAudio(ctx context.Context, audioData []byte, config AudioConfig) (Transcription, error)
}

// AudioConfig represents audio configuration for speech recognition.
type AudioConfig struct {
	SampleRate int    `json:"sample_rate"`
	Encoding   string `json:"encoding"`
	Language   string `json:"language"`
}

// Transcription is the result of recognizing one audio clip.
type Transcription struct {
	Text       string  `json:"text"`
	Confidence float32 `json:"confidence"`
}
