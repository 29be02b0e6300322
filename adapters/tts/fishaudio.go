// Package tts synthesizes reference pronunciations through the Fish Audio
// REST API, using the product's cloned Australian voice.
package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/speakaussie/server/domain/repositories"
)

const (
	defaultAPIBaseURL = "https://api.fish.audio/v1"
	defaultFormat     = "mp3"
	requestTimeout    = 30 * time.Second
	maxTextLength     = 500
)

// FishAudioConfig holds configuration for the FishAudioTTS adapter.
// Required fields:
// - APIKey: Your Fish Audio API key
// - VoiceID: The reference voice model to synthesize with
// Optional fields with defaults:
// - APIBaseURL: The base URL for the Fish Audio API (default: "https://api.fish.audio/v1")
// - Format: The output audio format (default: "mp3")
type FishAudioConfig struct {
	APIKey     string
	VoiceID    string
	APIBaseURL string
	Format     string
}

// FishAudioTTS implements TextToSpeech using the Fish Audio API
type FishAudioTTS struct {
	apiKey     string
	voiceID    string
	apiBaseURL string
	format     string
	httpClient *http.Client
	logger     *zap.Logger
}

// Ensure FishAudioTTS implements the TextToSpeech interface
var _ repositories.TextToSpeech = (*FishAudioTTS)(nil)

// NewFishAudioTTS creates a new Fish Audio TTS instance
func NewFishAudioTTS(config FishAudioConfig, logger *zap.Logger) (*FishAudioTTS, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("fish audio API key is required")
	}
	if config.VoiceID == "" {
		return nil, fmt.Errorf("fish audio voice ID is required")
	}

	apiBaseURL := config.APIBaseURL
	if apiBaseURL == "" {
		apiBaseURL = defaultAPIBaseURL
	}

	format := config.Format
	if format == "" {
		format = defaultFormat
		logger.Info("Using default output format", zap.String("format", format))
	}

	return &FishAudioTTS{
		apiKey:     config.APIKey,
		voiceID:    config.VoiceID,
		apiBaseURL: apiBaseURL,
		format:     format,
		httpClient: &http.Client{Timeout: requestTimeout},
		logger:     logger,
	}, nil
}

type synthesizeRequest struct {
	Text        string `json:"text"`
	ReferenceID string `json:"reference_id"`
	Format      string `json:"format"`
}

// SynthesizeSpeech implements repositories.TextToSpeech
func (f *FishAudioTTS) SynthesizeSpeech(ctx context.Context, text string) ([]byte, string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, "", fmt.Errorf("text cannot be empty")
	}
	if len(text) > maxTextLength {
		return nil, "", fmt.Errorf("text exceeds %d characters", maxTextLength)
	}

	body, err := json.Marshal(synthesizeRequest{
		Text:        text,
		ReferenceID: f.voiceID,
		Format:      f.format,
	})
	if err != nil {
		return nil, "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.apiBaseURL+"/tts", bytes.NewReader(body))
	if err != nil {
		return nil, "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+f.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("synthesis request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, "", fmt.Errorf("fish audio API returned status %d: %s", resp.StatusCode, string(respBody))
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read audio response: %w", err)
	}

	f.logger.Info("Synthesis completed",
		zap.Int("textLength", len(text)),
		zap.Int("audioBytes", len(audio)))
	return audio, f.mimeType(), nil
}

func (f *FishAudioTTS) mimeType() string {
	switch f.format {
	case "wav":
		return "audio/wav"
	case "opus":
		return "audio/opus"
	default:
		return "audio/mpeg"
	}
}
