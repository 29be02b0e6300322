package repositories

import (
	"context"

	"github.com/speakaussie/server/domain/entities"
)

// UserRepository defines data access methods for users.
type UserRepository interface {
	// Create persists a new user. Returns entities.ErrEmailTaken when the
	// email is already registered.
	Create(ctx context.Context, user *entities.User) error
	// GetByID and GetByEmail return (nil, nil) when no such user exists.
	GetByID(ctx context.Context, id string) (*entities.User, error)
	GetByEmail(ctx context.Context, email string) (*entities.User, error)
	Update(ctx context.Context, user *entities.User) error
}

// SubscriptionRepository defines data access methods for subscriptions.
type SubscriptionRepository interface {
	Create(ctx context.Context, sub *entities.Subscription) error
	// GetByUserID returns (nil, nil) when the user has no subscription.
	GetByUserID(ctx context.Context, userID string) (*entities.Subscription, error)
	Update(ctx context.Context, sub *entities.Subscription) error
}

// SessionRepository defines data access methods for practice sessions.
type SessionRepository interface {
	Create(ctx context.Context, session *entities.PracticeSession) error
	// GetByIDForUser scopes the lookup to the owning user. A session owned by
	// someone else is reported as entities.ErrSessionNotFound, never leaked.
	GetByIDForUser(ctx context.Context, id, userID string) (*entities.PracticeSession, error)
	// GetActiveByUserID returns the most recently started unended session,
	// or (nil, nil) when there is none.
	GetActiveByUserID(ctx context.Context, userID string) (*entities.PracticeSession, error)
	ListByUserID(ctx context.Context, userID string, limit int) ([]*entities.PracticeSession, error)
	// MarkEnded persists the terminal fields of an ended session. The write
	// is conditional on the stored session still being unended, so a racing
	// double-end fails with entities.ErrSessionAlreadyEnded instead of
	// overwriting the first end.
	MarkEnded(ctx context.Context, session *entities.PracticeSession) error
}

// UsageRepository defines data access methods for the usage ledger.
type UsageRepository interface {
	// RecordUsage applies an insert-or-increment for (userID, day) as one
	// indivisible operation against the backing store: absent records are
	// created with the given minutes and a session count of 1, present
	// records are incremented. Concurrent calls for the same key must all
	// be reflected.
	RecordUsage(ctx context.Context, userID, day string, minutes int) (*entities.UsageRecord, error)
	// GetByUserAndDay returns (nil, nil) when no record exists yet.
	GetByUserAndDay(ctx context.Context, userID, day string) (*entities.UsageRecord, error)
	// ListByUserSince returns records with day >= since, most recent first.
	ListByUserSince(ctx context.Context, userID, since string) ([]*entities.UsageRecord, error)
}

// Transactor runs a function inside a single storage transaction. Writes
// issued through the ctx passed to fn commit together or not at all.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
