package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/speakaussie/server/domain/entities"
)

func (h *Handler) register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid_request", "Invalid request format")
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		return badRequest(c, "invalid_email", "A valid email address is required")
	}
	if len(req.Password) < 8 {
		return badRequest(c, "weak_password", "Password must be at least 8 characters")
	}

	user, token, err := h.auth.Register(c.Request().Context(), req.Email, req.Password, req.Name)
	if err != nil {
		if errors.Is(err, entities.ErrEmailTaken) {
			return badRequest(c, "email_taken", "Email already registered")
		}
		return h.serverError(c, "registration failed", err)
	}

	h.logger.Info("User registered", zap.String("user_id", user.ID))
	return c.JSON(http.StatusOK, AuthResponse{
		User:  toUserResponse(user, entities.PlanFree),
		Token: token,
	})
}

func (h *Handler) login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid_request", "Invalid request format")
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	user, plan, token, err := h.auth.Login(c.Request().Context(), email, req.Password)
	if err != nil {
		if errors.Is(err, entities.ErrInvalidCredentials) {
			return c.JSON(http.StatusUnauthorized, ErrorResponse{
				Error:   "invalid_credentials",
				Message: "Invalid email or password",
			})
		}
		return h.serverError(c, "login failed", err)
	}

	return c.JSON(http.StatusOK, AuthResponse{
		User:  toUserResponse(user, plan),
		Token: token,
	})
}

func (h *Handler) me(c echo.Context) error {
	user, plan, err := h.auth.Profile(c.Request().Context(), currentUserID(c))
	if err != nil {
		if errors.Is(err, entities.ErrUserNotFound) {
			return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unknown_user"})
		}
		return h.serverError(c, "profile lookup failed", err)
	}
	return c.JSON(http.StatusOK, toUserResponse(user, plan))
}

func (h *Handler) updateMe(c echo.Context) error {
	var req UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid_request", "Invalid request format")
	}

	user, plan, err := h.auth.UpdateProfile(c.Request().Context(), currentUserID(c), req.Name)
	if err != nil {
		if errors.Is(err, entities.ErrUserNotFound) {
			return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unknown_user"})
		}
		return h.serverError(c, "profile update failed", err)
	}
	return c.JSON(http.StatusOK, toUserResponse(user, plan))
}
