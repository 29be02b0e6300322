// Package pipeline asks the external voice-pipeline runner to join a
// provisioned room. The runner hosts the STT -> LLM -> TTS media pipeline;
// this server only hands it room credentials.
package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/speakaussie/server/domain/entities"
	"github.com/speakaussie/server/usecase"
)

const requestTimeout = 30 * time.Second

// Launcher implements usecase.BotLauncher over the runner's HTTP API.
type Launcher struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

var _ usecase.BotLauncher = (*Launcher)(nil)

// NewLauncher creates a launcher targeting the runner at baseURL.
func NewLauncher(baseURL string, logger *zap.Logger) (*Launcher, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("pipeline runner URL is required")
	}
	return &Launcher{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: requestTimeout},
		logger:     logger,
	}, nil
}

type launchRequest struct {
	RoomURL string `json:"room_url"`
	Token   string `json:"token"`
	Mode    string `json:"mode"`
}

// LaunchBot implements usecase.BotLauncher
func (l *Launcher) LaunchBot(ctx context.Context, roomURL, token string, mode entities.SessionMode) error {
	body, err := json.Marshal(launchRequest{
		RoomURL: roomURL,
		Token:   token,
		Mode:    string(mode),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal launch request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, l.baseURL+"/bots", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create launch request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("launch request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("pipeline runner returned status %d: %s", resp.StatusCode, string(respBody))
	}

	l.logger.Info("Bot launch requested",
		zap.String("mode", string(mode)))
	return nil
}
