package tts

import (
	"context"

	"go.uber.org/zap"

	"github.com/speakaussie/server/domain/repositories"
)

// MockTextToSpeech is a placeholder implementation for speech synthesis
type MockTextToSpeech struct {
	logger *zap.Logger
}

var _ repositories.TextToSpeech = (*MockTextToSpeech)(nil)

// NewMockTextToSpeech creates a new mock text-to-speech service
func NewMockTextToSpeech(logger *zap.Logger) *MockTextToSpeech {
	return &MockTextToSpeech{logger: logger}
}

// SynthesizeSpeech returns a tiny silent payload.
func (s *MockTextToSpeech) SynthesizeSpeech(ctx context.Context, text string) ([]byte, string, error) {
	s.logger.Info("Mock synthesis", zap.Int("textLength", len(text)))
	return []byte{0xFF, 0xF3, 0x14, 0xC4}, "audio/mpeg", nil
}
