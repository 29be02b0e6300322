package entities

import (
	"time"

	"github.com/google/uuid"
)

// SessionMode selects the conversation focus of a practice session.
type SessionMode string

const (
	ModeEveryday  SessionMode = "everyday"
	ModeSlang     SessionMode = "slang"
	ModeWorkplace SessionMode = "workplace"
)

// ParseSessionMode validates a caller-supplied mode string.
func ParseSessionMode(s string) (SessionMode, error) {
	switch SessionMode(s) {
	case ModeEveryday, ModeSlang, ModeWorkplace:
		return SessionMode(s), nil
	}
	return "", ErrInvalidMode
}

// Feedback is the user's verdict on an ended session.
type Feedback string

const (
	FeedbackGood      Feedback = "good"
	FeedbackNeedsWork Feedback = "needs_work"
	FeedbackUnset     Feedback = ""
)

// PracticeSession represents one practice conversation. It has exactly two
// states: created (EndedAt nil) and ended. EndedAt and DurationSeconds are
// set together, exactly once.
type PracticeSession struct {
	ID              string      `json:"id" bson:"_id,omitempty"`
	UserID          string      `json:"user_id" bson:"user_id"`
	Mode            SessionMode `json:"mode" bson:"mode"`
	StartedAt       time.Time   `json:"started_at" bson:"started_at"`
	EndedAt         *time.Time  `json:"ended_at,omitempty" bson:"ended_at,omitempty"`
	DurationSeconds *int        `json:"duration_seconds,omitempty" bson:"duration_seconds,omitempty"`
	MessagesCount   int         `json:"messages_count" bson:"messages_count"`
	Feedback        Feedback    `json:"feedback,omitempty" bson:"feedback,omitempty"`
	CreatedAt       time.Time   `json:"created_at" bson:"created_at"`
}

// NewPracticeSession creates a session in the created state.
func NewPracticeSession(userID string, mode SessionMode) *PracticeSession {
	now := time.Now().UTC()
	return &PracticeSession{
		ID:        uuid.NewString(),
		UserID:    userID,
		Mode:      mode,
		StartedAt: now,
		CreatedAt: now,
	}
}

// Ended reports whether the session has reached its terminal state.
func (s *PracticeSession) Ended() bool {
	return s.EndedAt != nil
}

// End transitions the session to the ended state, computing the duration in
// whole seconds. Ending an already-ended session fails without mutating
// anything.
func (s *PracticeSession) End(at time.Time, feedback Feedback, messagesCount int) error {
	if s.Ended() {
		return ErrSessionAlreadyEnded
	}
	if messagesCount < 0 {
		messagesCount = 0
	}

	at = at.UTC()
	duration := int(at.Sub(s.StartedAt).Seconds())
	if duration < 0 {
		duration = 0
	}

	s.EndedAt = &at
	s.DurationSeconds = &duration
	s.Feedback = feedback
	s.MessagesCount = messagesCount
	return nil
}

// Validate validates the session data.
func (s *PracticeSession) Validate() error {
	if s.UserID == "" {
		return ErrMissingUserID
	}
	if _, err := ParseSessionMode(string(s.Mode)); err != nil {
		return err
	}
	return nil
}
