package daily

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"
)

func TestNewProvisioner(t *testing.T) {
	logger := zaptest.NewLogger(t)

	_, err := NewProvisioner(Config{}, logger)
	if err == nil {
		t.Error("Expected error when API key is not set")
	}

	provisioner, err := NewProvisioner(Config{APIKey: "test-api-key"}, logger)
	if err != nil {
		t.Fatalf("Failed to create provisioner: %v", err)
	}
	if provisioner.apiBaseURL != defaultAPIBaseURL {
		t.Errorf("Expected default base URL '%s', got '%s'", defaultAPIBaseURL, provisioner.apiBaseURL)
	}
	if provisioner.roomTTL != defaultRoomTTL {
		t.Errorf("Expected default TTL %v, got %v", defaultRoomTTL, provisioner.roomTTL)
	}
}

func TestCreateRoom(t *testing.T) {
	logger := zaptest.NewLogger(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rooms" {
			t.Errorf("Expected path /rooms, got %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-api-key" {
			t.Errorf("Expected bearer auth header, got %q", got)
		}

		var req createRoomRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("Failed to decode request: %v", err)
		}
		if req.Properties.Exp <= time.Now().Unix() {
			t.Error("Expected room expiry in the future")
		}
		if !req.Properties.StartVideoOff {
			t.Error("Expected voice-only rooms to start with video off")
		}

		json.NewEncoder(w).Encode(createRoomResponse{
			Name: "room-abc",
			URL:  "https://example.daily.co/room-abc",
		})
	}))
	defer server.Close()

	provisioner, err := NewProvisioner(Config{APIKey: "test-api-key", APIBaseURL: server.URL}, logger)
	if err != nil {
		t.Fatalf("Failed to create provisioner: %v", err)
	}

	room, err := provisioner.CreateRoom(context.Background())
	if err != nil {
		t.Fatalf("CreateRoom failed: %v", err)
	}
	if room.Name != "room-abc" {
		t.Errorf("Expected room name room-abc, got %s", room.Name)
	}
	if room.URL != "https://example.daily.co/room-abc" {
		t.Errorf("Unexpected room URL %s", room.URL)
	}
}

func TestCreateToken(t *testing.T) {
	logger := zaptest.NewLogger(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/meeting-tokens" {
			t.Errorf("Expected path /meeting-tokens, got %s", r.URL.Path)
		}

		var req createTokenRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("Failed to decode request: %v", err)
		}
		if req.Properties.RoomName != "room-abc" {
			t.Errorf("Expected room_name room-abc, got %s", req.Properties.RoomName)
		}
		if !req.Properties.IsOwner {
			t.Error("Expected is_owner true")
		}

		json.NewEncoder(w).Encode(createTokenResponse{Token: "meeting-token"})
	}))
	defer server.Close()

	provisioner, err := NewProvisioner(Config{APIKey: "test-api-key", APIBaseURL: server.URL}, logger)
	if err != nil {
		t.Fatalf("Failed to create provisioner: %v", err)
	}

	token, err := provisioner.CreateToken(context.Background(), "room-abc", true)
	if err != nil {
		t.Fatalf("CreateToken failed: %v", err)
	}
	if token != "meeting-token" {
		t.Errorf("Expected meeting-token, got %s", token)
	}
}

func TestDeleteRoomTolerates404(t *testing.T) {
	logger := zaptest.NewLogger(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("Expected DELETE, got %s", r.Method)
		}
		http.NotFound(w, r)
	}))
	defer server.Close()

	provisioner, err := NewProvisioner(Config{APIKey: "test-api-key", APIBaseURL: server.URL}, logger)
	if err != nil {
		t.Fatalf("Failed to create provisioner: %v", err)
	}

	if err := provisioner.DeleteRoom(context.Background(), "already-gone"); err != nil {
		t.Errorf("Expected 404 on delete to be tolerated, got %v", err)
	}
}

func TestCreateRoomAPIError(t *testing.T) {
	logger := zaptest.NewLogger(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid key", http.StatusUnauthorized)
	}))
	defer server.Close()

	provisioner, err := NewProvisioner(Config{APIKey: "bad-key", APIBaseURL: server.URL}, logger)
	if err != nil {
		t.Fatalf("Failed to create provisioner: %v", err)
	}

	if _, err := provisioner.CreateRoom(context.Background()); err == nil {
		t.Error("Expected error for non-200 API response")
	}
}
