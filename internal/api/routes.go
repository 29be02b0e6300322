package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/speakaussie/server/internal/auth"
	"github.com/speakaussie/server/internal/ws"
	"github.com/speakaussie/server/usecase"
)

// Handler bundles the services behind the HTTP surface.
type Handler struct {
	auth     *usecase.AuthService
	sessions *usecase.SessionService
	usage    *usecase.UsageService
	voice    *usecase.VoiceService
	logger   *zap.Logger
}

// NewHandler creates a new API handler.
func NewHandler(
	authService *usecase.AuthService,
	sessions *usecase.SessionService,
	usage *usecase.UsageService,
	voice *usecase.VoiceService,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		auth:     authService,
		sessions: sessions,
		usage:    usage,
		voice:    voice,
		logger:   logger,
	}
}

// InitRoutes initializes all API routes
func InitRoutes(e *echo.Echo, h *Handler, tokens *auth.TokenManager, feed *ws.Feed, logger *zap.Logger) {
	// Health check
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"service": "speakaussie-server",
		})
	})

	requireUser := RequireUser(tokens, logger)
	apiGroup := e.Group("/api")

	// Auth APIs
	authGroup := apiGroup.Group("/auth")
	authGroup.POST("/register", h.register)
	authGroup.POST("/login", h.login)
	authGroup.GET("/me", h.me, requireUser)
	authGroup.PATCH("/me", h.updateMe, requireUser)

	// Practice session APIs
	sessions := apiGroup.Group("/sessions", requireUser)
	sessions.POST("/start", h.startSession)
	sessions.POST("/:id/end", h.endSession)
	sessions.GET("/active", h.activeSession)
	sessions.GET("/history", h.sessionHistory)

	// Subscription and usage APIs
	subscriptions := apiGroup.Group("/subscriptions")
	subscriptions.GET("/plans", h.listPlans)
	subscriptions.GET("/current", h.currentSubscription, requireUser)
	subscriptions.GET("/usage", h.todayUsage, requireUser)
	subscriptions.GET("/check", h.checkEntitlement, requireUser)
	subscriptions.GET("/history", h.usageHistory, requireUser)

	// Voice APIs
	voice := apiGroup.Group("/voice")
	voice.GET("/status", h.voiceStatus)
	voice.POST("/room", h.createRoom, requireUser)
	voice.DELETE("/room/:name", h.deleteRoom, requireUser)
	voice.POST("/transcribe", h.transcribe, requireUser)
	voice.POST("/speak", h.speak, requireUser)
	voice.POST("/scenario", h.scenario, requireUser)

	// Analytics APIs
	apiGroup.POST("/analytics/events", h.analyticsEvents)

	// Live usage feed with JWT validation
	e.GET("/ws/usage", func(c echo.Context) error {
		return usageFeedWithAuth(feed, c, tokens, logger)
	})
}

// usageFeedWithAuth upgrades the connection after validating the caller's
// token. Browsers cannot set headers on websocket dials, so a token query
// parameter is accepted as well.
func usageFeedWithAuth(feed *ws.Feed, c echo.Context, tokens *auth.TokenManager, logger *zap.Logger) error {
	token := bearerToken(c)
	if token == "" {
		token = c.QueryParam("token")
	}
	if token == "" {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "missing_token",
			Message: "Token is required in Authorization header or token query parameter",
		})
	}

	claims, err := tokens.ValidateToken(token)
	if err != nil {
		logger.Warn("Usage feed rejected: invalid token", zap.Error(err))
		return c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "invalid_token",
			Message: "Invalid or expired token",
		})
	}

	return feed.Handle(c, claims.UserID)
}

func badRequest(c echo.Context, code, message string) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{Error: code, Message: message})
}

func (h *Handler) serverError(c echo.Context, action string, err error) error {
	h.logger.Error(action, zap.Error(err))
	return c.JSON(http.StatusInternalServerError, ErrorResponse{
		Error:   "internal_error",
		Message: "Something went wrong, please retry",
	})
}
