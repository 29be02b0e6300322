package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/speakaussie/server/domain/entities"
)

func (h *Handler) startSession(c echo.Context) error {
	req := StartSessionRequest{Mode: string(entities.ModeEveryday)}
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid_request", "Invalid request format")
	}

	session, err := h.sessions.Start(c.Request().Context(), currentUserID(c), req.Mode)
	if err != nil {
		var quotaErr *entities.QuotaExceededError
		switch {
		case errors.Is(err, entities.ErrInvalidMode):
			return badRequest(c, "invalid_mode", entities.ErrInvalidMode.Error())
		case errors.As(err, &quotaErr):
			return c.JSON(http.StatusForbidden, ErrorResponse{
				Error:   "quota_exceeded",
				Message: "Daily limit reached. Please upgrade your plan.",
			})
		}
		return h.serverError(c, "session start failed", err)
	}

	return c.JSON(http.StatusOK, toSessionResponse(session))
}

func (h *Handler) endSession(c echo.Context) error {
	var req EndSessionRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid_request", "Invalid request format")
	}

	session, err := h.sessions.End(
		c.Request().Context(),
		currentUserID(c),
		c.Param("id"),
		feedbackFromBool(req.Feedback),
		req.MessagesCount,
	)
	if err != nil {
		switch {
		case errors.Is(err, entities.ErrSessionNotFound):
			return c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "session_not_found",
				Message: "Session not found",
			})
		case errors.Is(err, entities.ErrSessionAlreadyEnded):
			return c.JSON(http.StatusConflict, ErrorResponse{
				Error:   "session_already_ended",
				Message: "Session already ended",
			})
		}
		return h.serverError(c, "session end failed", err)
	}

	return c.JSON(http.StatusOK, toSessionResponse(session))
}

func (h *Handler) activeSession(c echo.Context) error {
	session, err := h.sessions.Active(c.Request().Context(), currentUserID(c))
	if err != nil {
		return h.serverError(c, "active session lookup failed", err)
	}

	if session == nil {
		return c.JSON(http.StatusOK, map[string]interface{}{"session": nil})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"session": toSessionResponse(session),
	})
}

func (h *Handler) sessionHistory(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	sessions, err := h.sessions.History(c.Request().Context(), currentUserID(c), limit)
	if err != nil {
		return h.serverError(c, "session history failed", err)
	}

	responses := make([]SessionResponse, 0, len(sessions))
	for _, session := range sessions {
		responses = append(responses, toSessionResponse(session))
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"sessions": responses})
}
