package api

import (
	"encoding/base64"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/speakaussie/server/domain/entities"
	"github.com/speakaussie/server/domain/repositories"
	"github.com/speakaussie/server/usecase"
)

func (h *Handler) voiceStatus(c echo.Context) error {
	return c.JSON(http.StatusOK, h.voice.Status())
}

func (h *Handler) createRoom(c echo.Context) error {
	req := CreateRoomRequest{Mode: string(entities.ModeEveryday)}
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid_request", "Invalid request format")
	}

	grant, err := h.voice.CreateRoom(c.Request().Context(), req.Mode)
	if err != nil {
		switch {
		case errors.Is(err, entities.ErrInvalidMode):
			return badRequest(c, "invalid_mode", entities.ErrInvalidMode.Error())
		case errors.Is(err, usecase.ErrVoiceNotConfigured):
			return voiceUnavailable(c)
		}
		return h.serverError(c, "room provisioning failed", err)
	}

	return c.JSON(http.StatusOK, grant)
}

func (h *Handler) deleteRoom(c echo.Context) error {
	if err := h.voice.DeleteRoom(c.Request().Context(), c.Param("name")); err != nil {
		if errors.Is(err, usecase.ErrVoiceNotConfigured) {
			return voiceUnavailable(c)
		}
		// Cleanup failures are non-fatal for the client.
		h.logger.Error("room cleanup failed", zap.Error(err))
	}
	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}

func (h *Handler) transcribe(c echo.Context) error {
	var req TranscribeRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid_request", "Invalid request format")
	}

	audio, err := base64.StdEncoding.DecodeString(req.AudioData)
	if err != nil || len(audio) == 0 {
		return badRequest(c, "invalid_audio", "audio_data must be non-empty base64")
	}

	transcription, err := h.voice.Transcribe(c.Request().Context(), audio, repositories.AudioConfig{
		SampleRate: req.SampleRate,
		Encoding:   req.Encoding,
		Language:   req.Language,
	})
	if err != nil {
		if errors.Is(err, usecase.ErrVoiceNotConfigured) {
			return voiceUnavailable(c)
		}
		return h.serverError(c, "transcription failed", err)
	}

	return c.JSON(http.StatusOK, transcription)
}

func (h *Handler) speak(c echo.Context) error {
	var req SpeakRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid_request", "Invalid request format")
	}
	if req.Text == "" {
		return badRequest(c, "missing_text", "text is required")
	}

	audio, mimeType, err := h.voice.Speak(c.Request().Context(), req.Text)
	if err != nil {
		if errors.Is(err, usecase.ErrVoiceNotConfigured) {
			return voiceUnavailable(c)
		}
		return h.serverError(c, "synthesis failed", err)
	}

	return c.Blob(http.StatusOK, mimeType, audio)
}

func (h *Handler) scenario(c echo.Context) error {
	req := ScenarioRequest{Mode: string(entities.ModeEveryday)}
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid_request", "Invalid request format")
	}

	scenario, err := h.voice.Scenario(c.Request().Context(), req.Mode, req.Topic)
	if err != nil {
		switch {
		case errors.Is(err, entities.ErrInvalidMode):
			return badRequest(c, "invalid_mode", entities.ErrInvalidMode.Error())
		case errors.Is(err, usecase.ErrVoiceNotConfigured):
			return voiceUnavailable(c)
		}
		return h.serverError(c, "scenario generation failed", err)
	}

	return c.JSON(http.StatusOK, scenario)
}

func (h *Handler) analyticsEvents(c echo.Context) error {
	var payload AnalyticsPayload
	if err := c.Bind(&payload); err != nil {
		return badRequest(c, "invalid_request", "Invalid request format")
	}

	names := make([]string, 0, len(payload.Events))
	for _, event := range payload.Events {
		names = append(names, event.Name)
	}
	h.logger.Debug("Analytics events received",
		zap.String("session", payload.SessionID),
		zap.Strings("events", names))

	return c.JSON(http.StatusOK, map[string]int{"received": len(payload.Events)})
}

func voiceUnavailable(c echo.Context) error {
	return c.JSON(http.StatusServiceUnavailable, ErrorResponse{
		Error:   "voice_unavailable",
		Message: "Voice services not fully configured",
	})
}
