// Package daily provisions WebRTC rooms and meeting tokens through the
// Daily REST API. The media transport itself is Daily's; this adapter only
// makes request/response HTTP calls.
package daily

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/speakaussie/server/domain/repositories"
)

const (
	defaultAPIBaseURL = "https://api.daily.co/v1"
	defaultRoomTTL    = time.Hour
	requestTimeout    = 15 * time.Second
)

// Config holds configuration for the Daily room provisioner.
// Required fields:
// - APIKey: Your Daily API key
// Optional fields with defaults:
// - APIBaseURL: The base URL for the Daily API (default: "https://api.daily.co/v1")
// - RoomTTL: How long rooms and tokens stay valid (default: 1 hour)
type Config struct {
	APIKey     string
	APIBaseURL string
	RoomTTL    time.Duration
}

// Provisioner implements RoomProvisioner against the Daily API.
type Provisioner struct {
	apiKey     string
	apiBaseURL string
	roomTTL    time.Duration
	httpClient *http.Client
	logger     *zap.Logger
}

// Ensure Provisioner implements the RoomProvisioner interface
var _ repositories.RoomProvisioner = (*Provisioner)(nil)

// NewProvisioner creates a new Daily room provisioner.
func NewProvisioner(config Config, logger *zap.Logger) (*Provisioner, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("daily API key is required")
	}

	apiBaseURL := config.APIBaseURL
	if apiBaseURL == "" {
		apiBaseURL = defaultAPIBaseURL
	}

	roomTTL := config.RoomTTL
	if roomTTL == 0 {
		roomTTL = defaultRoomTTL
		logger.Info("Using default room TTL", zap.Duration("roomTTL", roomTTL))
	}

	return &Provisioner{
		apiKey:     config.APIKey,
		apiBaseURL: apiBaseURL,
		roomTTL:    roomTTL,
		httpClient: &http.Client{Timeout: requestTimeout},
		logger:     logger,
	}, nil
}

type roomProperties struct {
	Exp               int64 `json:"exp"`
	EnableChat        bool  `json:"enable_chat"`
	EnableScreenshare bool  `json:"enable_screenshare"`
	StartVideoOff     bool  `json:"start_video_off"`
	StartAudioOff     bool  `json:"start_audio_off"`
}

type createRoomRequest struct {
	Properties roomProperties `json:"properties"`
}

type createRoomResponse struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// CreateRoom implements repositories.RoomProvisioner
func (p *Provisioner) CreateRoom(ctx context.Context) (*repositories.Room, error) {
	payload := createRoomRequest{
		Properties: roomProperties{
			Exp:           time.Now().Add(p.roomTTL).Unix(),
			StartVideoOff: true,
		},
	}

	var room createRoomResponse
	if err := p.post(ctx, "/rooms", payload, &room); err != nil {
		return nil, fmt.Errorf("failed to create room: %w", err)
	}

	p.logger.Info("Created voice room", zap.String("room", room.Name))
	return &repositories.Room{Name: room.Name, URL: room.URL}, nil
}

type tokenProperties struct {
	RoomName string `json:"room_name"`
	IsOwner  bool   `json:"is_owner"`
	Exp      int64  `json:"exp"`
}

type createTokenRequest struct {
	Properties tokenProperties `json:"properties"`
}

type createTokenResponse struct {
	Token string `json:"token"`
}

// CreateToken implements repositories.RoomProvisioner
func (p *Provisioner) CreateToken(ctx context.Context, roomName string, isOwner bool) (string, error) {
	payload := createTokenRequest{
		Properties: tokenProperties{
			RoomName: roomName,
			IsOwner:  isOwner,
			Exp:      time.Now().Add(p.roomTTL).Unix(),
		},
	}

	var token createTokenResponse
	if err := p.post(ctx, "/meeting-tokens", payload, &token); err != nil {
		return "", fmt.Errorf("failed to create meeting token: %w", err)
	}
	return token.Token, nil
}

// DeleteRoom implements repositories.RoomProvisioner. Deleting a room that
// is already gone is not an error.
func (p *Provisioner) DeleteRoom(ctx context.Context, roomName string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, p.apiBaseURL+"/rooms/"+roomName, nil)
	if err != nil {
		return fmt.Errorf("failed to create delete request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to delete room: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNotFound {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("delete room returned status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

func (p *Provisioner) post(ctx context.Context, path string, payload, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.apiBaseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("daily API returned status %d: %s", resp.StatusCode, string(respBody))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
