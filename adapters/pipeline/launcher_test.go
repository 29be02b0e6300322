package pipeline

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/speakaussie/server/domain/entities"
)

func TestNewLauncherRequiresURL(t *testing.T) {
	if _, err := NewLauncher("", zaptest.NewLogger(t)); err == nil {
		t.Error("Expected error for empty runner URL")
	}
}

func TestLaunchBot(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/bots" {
			t.Errorf("Expected path /bots, got %s", r.URL.Path)
		}

		var req launchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("Failed to decode request: %v", err)
		}
		if req.RoomURL != "https://example.daily.co/room-abc" {
			t.Errorf("Unexpected room URL %s", req.RoomURL)
		}
		if req.Token != "owner-token" {
			t.Errorf("Unexpected token %s", req.Token)
		}
		if req.Mode != "slang" {
			t.Errorf("Expected mode slang, got %s", req.Mode)
		}

		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	launcher, err := NewLauncher(server.URL, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Failed to create launcher: %v", err)
	}

	err = launcher.LaunchBot(context.Background(), "https://example.daily.co/room-abc", "owner-token", entities.ModeSlang)
	if err != nil {
		t.Errorf("LaunchBot failed: %v", err)
	}
}

func TestLaunchBotRunnerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no capacity", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	launcher, err := NewLauncher(server.URL, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Failed to create launcher: %v", err)
	}

	err = launcher.LaunchBot(context.Background(), "url", "token", entities.ModeEveryday)
	if err == nil {
		t.Error("Expected error for runner failure response")
	}
}
