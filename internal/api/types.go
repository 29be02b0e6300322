package api

import (
	"time"

	"github.com/speakaussie/server/domain/entities"
)

// RegisterRequest represents the payload for user registration
type RegisterRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
	Name     string `json:"name"`
}

// LoginRequest represents the payload for user login
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileRequest represents a partial profile update
type UpdateProfileRequest struct {
	Name *string `json:"name"`
}

// UserResponse represents a user in API responses
type UserResponse struct {
	ID    string        `json:"id"`
	Email string        `json:"email"`
	Name  string        `json:"name,omitempty"`
	Plan  entities.Plan `json:"plan"`
}

// AuthResponse represents a successful register/login
type AuthResponse struct {
	User  UserResponse `json:"user"`
	Token string       `json:"token"`
}

// StartSessionRequest represents the payload for starting a practice session
type StartSessionRequest struct {
	Mode string `json:"mode"`
}

// EndSessionRequest represents the payload for ending a practice session.
// Feedback keeps the original client contract: true is "good", false is
// "needs work", absent is no feedback.
type EndSessionRequest struct {
	Feedback      *bool `json:"feedback"`
	MessagesCount int   `json:"messages_count"`
}

// SessionResponse represents a practice session in API responses
type SessionResponse struct {
	ID              string     `json:"id"`
	Mode            string     `json:"mode"`
	StartedAt       time.Time  `json:"started_at"`
	EndedAt         *time.Time `json:"ended_at,omitempty"`
	DurationSeconds *int       `json:"duration_seconds,omitempty"`
	MessagesCount   int        `json:"messages_count"`
	Feedback        string     `json:"feedback,omitempty"`
}

// CreateRoomRequest represents the payload for provisioning a voice room
type CreateRoomRequest struct {
	Mode string `json:"mode"`
}

// TranscribeRequest represents a pronunciation-practice clip
type TranscribeRequest struct {
	AudioData  string `json:"audio_data" validate:"required"` // base64 encoded
	SampleRate int    `json:"sample_rate"`
	Encoding   string `json:"encoding"`
	Language   string `json:"language"`
}

// SpeakRequest represents a reference-pronunciation request
type SpeakRequest struct {
	Text string `json:"text" validate:"required"`
}

// ScenarioRequest represents a practice-scenario request
type ScenarioRequest struct {
	Mode  string `json:"mode"`
	Topic string `json:"topic"`
}

// AnalyticsEvent represents a single frontend analytics event
type AnalyticsEvent struct {
	Name       string                 `json:"name"`
	Properties map[string]interface{} `json:"properties,omitempty"`
	Timestamp  string                 `json:"timestamp"`
}

// AnalyticsPayload represents a batch of frontend analytics events
type AnalyticsPayload struct {
	SessionID string           `json:"sessionId"`
	Events    []AnalyticsEvent `json:"events"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func toSessionResponse(session *entities.PracticeSession) SessionResponse {
	return SessionResponse{
		ID:              session.ID,
		Mode:            string(session.Mode),
		StartedAt:       session.StartedAt,
		EndedAt:         session.EndedAt,
		DurationSeconds: session.DurationSeconds,
		MessagesCount:   session.MessagesCount,
		Feedback:        string(session.Feedback),
	}
}

func toUserResponse(user *entities.User, plan entities.Plan) UserResponse {
	return UserResponse{
		ID:    user.ID,
		Email: user.Email,
		Name:  user.Name,
		Plan:  plan,
	}
}

func feedbackFromBool(b *bool) entities.Feedback {
	switch {
	case b == nil:
		return entities.FeedbackUnset
	case *b:
		return entities.FeedbackGood
	default:
		return entities.FeedbackNeedsWork
	}
}
