package entities

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidMode indicates a session mode outside the supported set.
	ErrInvalidMode = errors.New("invalid mode: must be 'everyday', 'slang', or 'workplace'")
	// ErrSessionNotFound indicates the session does not exist or belongs to
	// another user. The two cases are deliberately indistinguishable.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionAlreadyEnded indicates the session is already terminal.
	ErrSessionAlreadyEnded = errors.New("session already ended")
	// ErrEmailTaken indicates the email is already registered.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials indicates a failed login attempt.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrUserNotFound indicates the user does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrMissingUserID indicates an entity without an owning user.
	ErrMissingUserID = errors.New("user_id is required")
)

// QuotaExceededError is returned when the entitlement check denies a new
// session. It carries the plan's daily limit for the upgrade prompt.
type QuotaExceededError struct {
	DailyLimit int
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("daily limit of %d minutes reached", e.DailyLimit)
}
