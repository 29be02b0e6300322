package stt

import (
	"context"

	"go.uber.org/zap"

	"github.com/speakaussie/server/domain/repositories"
)

// MockSpeechToText is a placeholder implementation for speech recognition
type MockSpeechToText struct {
	logger *zap.Logger
}

var _ repositories.SpeechToText = (*MockSpeechToText)(nil)

// NewMockSpeechToText creates a new mock speech-to-text service
func NewMockSpeechToText(logger *zap.Logger) *MockSpeechToText {
	return &MockSpeechToText{logger: logger}
}

// TranscribeAudio returns a canned transcription.
func (s *MockSpeechToText) TranscribeAudio(ctx context.Context, audioData []byte, config repositories.AudioConfig) (repositories.Transcription, error) {
	s.logger.Info("Mock transcription",
		zap.Int("audioBytes", len(audioData)),
		zap.String("language", config.Language))

	return repositories.Transcription{
		Text:       "G'day, how ya going?",
		Confidence: 0.95,
	}, nil
}
