package tts

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"
)

func TestNewFishAudioTTS(t *testing.T) {
	logger := zaptest.NewLogger(t)

	// Missing API key
	_, err := NewFishAudioTTS(FishAudioConfig{VoiceID: "voice-1"}, logger)
	if err == nil {
		t.Error("Expected error when API key is not set")
	}

	// Missing voice ID
	_, err = NewFishAudioTTS(FishAudioConfig{APIKey: "test-api-key"}, logger)
	if err == nil {
		t.Error("Expected error when voice ID is not set")
	}

	tts, err := NewFishAudioTTS(FishAudioConfig{APIKey: "test-api-key", VoiceID: "voice-1"}, logger)
	if err != nil {
		t.Fatalf("Failed to create FishAudioTTS: %v", err)
	}

	if tts.apiBaseURL != defaultAPIBaseURL {
		t.Errorf("Expected default base URL '%s', got '%s'", defaultAPIBaseURL, tts.apiBaseURL)
	}
	if tts.format != defaultFormat {
		t.Errorf("Expected default format '%s', got '%s'", defaultFormat, tts.format)
	}
}

func TestSynthesizeSpeechEmptyText(t *testing.T) {
	logger := zaptest.NewLogger(t)
	tts, err := NewFishAudioTTS(FishAudioConfig{APIKey: "test-api-key", VoiceID: "voice-1"}, logger)
	if err != nil {
		t.Fatalf("Failed to create FishAudioTTS: %v", err)
	}

	ctx := context.Background()
	if _, _, err := tts.SynthesizeSpeech(ctx, ""); err == nil {
		t.Error("Expected error for empty text")
	}
	if _, _, err := tts.SynthesizeSpeech(ctx, "   "); err == nil {
		t.Error("Expected error for whitespace-only text")
	}
}

func TestSynthesizeSpeechTooLong(t *testing.T) {
	logger := zaptest.NewLogger(t)
	tts, err := NewFishAudioTTS(FishAudioConfig{APIKey: "test-api-key", VoiceID: "voice-1"}, logger)
	if err != nil {
		t.Fatalf("Failed to create FishAudioTTS: %v", err)
	}

	long := strings.Repeat("a", maxTextLength+1)
	if _, _, err := tts.SynthesizeSpeech(context.Background(), long); err == nil {
		t.Error("Expected error for text over the length limit")
	}
}

func TestSynthesizeSpeech(t *testing.T) {
	logger := zaptest.NewLogger(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tts" {
			t.Errorf("Expected path /tts, got %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-api-key" {
			t.Errorf("Expected bearer auth header, got %q", got)
		}

		var req synthesizeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("Failed to decode request: %v", err)
		}
		if req.Text != "G'day mate" {
			t.Errorf("Expected text 'G'day mate', got %q", req.Text)
		}
		if req.ReferenceID != "voice-1" {
			t.Errorf("Expected reference_id voice-1, got %q", req.ReferenceID)
		}

		w.Write([]byte("fake-mp3-bytes"))
	}))
	defer server.Close()

	tts, err := NewFishAudioTTS(FishAudioConfig{
		APIKey:     "test-api-key",
		VoiceID:    "voice-1",
		APIBaseURL: server.URL,
	}, logger)
	if err != nil {
		t.Fatalf("Failed to create FishAudioTTS: %v", err)
	}

	audio, mimeType, err := tts.SynthesizeSpeech(context.Background(), "G'day mate")
	if err != nil {
		t.Fatalf("SynthesizeSpeech failed: %v", err)
	}
	if string(audio) != "fake-mp3-bytes" {
		t.Errorf("Expected audio bytes passed through, got %q", audio)
	}
	if mimeType != "audio/mpeg" {
		t.Errorf("Expected audio/mpeg, got %s", mimeType)
	}
}

func TestSynthesizeSpeechAPIError(t *testing.T) {
	logger := zaptest.NewLogger(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exhausted", http.StatusPaymentRequired)
	}))
	defer server.Close()

	tts, err := NewFishAudioTTS(FishAudioConfig{
		APIKey:     "test-api-key",
		VoiceID:    "voice-1",
		APIBaseURL: server.URL,
	}, logger)
	if err != nil {
		t.Fatalf("Failed to create FishAudioTTS: %v", err)
	}

	if _, _, err := tts.SynthesizeSpeech(context.Background(), "G'day"); err == nil {
		t.Error("Expected error for non-200 API response")
	}
}
