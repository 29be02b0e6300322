// Package memory provides in-memory repositories backing local development
// and tests. Semantics mirror the MongoDB adapter, including the atomic
// insert-or-increment of the usage ledger.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/speakaussie/server/domain/entities"
	"github.com/speakaussie/server/domain/repositories"
)

// Store holds all in-memory collections behind one mutex.
type Store struct {
	mu       sync.Mutex
	txMu     sync.Mutex
	users    map[string]*entities.User
	subs     map[string]*entities.Subscription    // keyed by user ID
	sessions map[string]*entities.PracticeSession // keyed by session ID
	usage    map[string]*entities.UsageRecord     // keyed by user ID + "|" + day
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		users:    make(map[string]*entities.User),
		subs:     make(map[string]*entities.Subscription),
		sessions: make(map[string]*entities.PracticeSession),
		usage:    make(map[string]*entities.UsageRecord),
	}
}

// Users returns the user repository view of the store.
func (s *Store) Users() repositories.UserRepository { return &userRepository{s} }

// Subscriptions returns the subscription repository view of the store.
func (s *Store) Subscriptions() repositories.SubscriptionRepository { return &subscriptionRepository{s} }

// Sessions returns the practice-session repository view of the store.
func (s *Store) Sessions() repositories.SessionRepository { return &sessionRepository{s} }

// Usage returns the usage-ledger repository view of the store.
func (s *Store) Usage() repositories.UsageRepository { return &usageRepository{s} }

// WithinTransaction implements repositories.Transactor by serializing
// transactions against each other. In-memory writes cannot fail partway
// through, so callers keep the commit-together guarantee by issuing their
// fallible, conditional write first.
func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	return fn(ctx)
}

var _ repositories.Transactor = (*Store)(nil)

type userRepository struct{ store *Store }

func (r *userRepository) Create(ctx context.Context, user *entities.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, existing := range r.store.users {
		if existing.Email == user.Email {
			return entities.ErrEmailTaken
		}
	}
	clone := *user
	r.store.users[user.ID] = &clone
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*entities.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	user, ok := r.store.users[id]
	if !ok {
		return nil, nil
	}
	clone := *user
	return &clone, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, user := range r.store.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *userRepository) Update(ctx context.Context, user *entities.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.users[user.ID]; !ok {
		return entities.ErrUserNotFound
	}
	user.UpdatedAt = time.Now().UTC()
	clone := *user
	r.store.users[user.ID] = &clone
	return nil
}

type subscriptionRepository struct{ store *Store }

func (r *subscriptionRepository) Create(ctx context.Context, sub *entities.Subscription) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	clone := *sub
	r.store.subs[sub.UserID] = &clone
	return nil
}

func (r *subscriptionRepository) GetByUserID(ctx context.Context, userID string) (*entities.Subscription, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	sub, ok := r.store.subs[userID]
	if !ok {
		return nil, nil
	}
	clone := *sub
	return &clone, nil
}

func (r *subscriptionRepository) Update(ctx context.Context, sub *entities.Subscription) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	sub.UpdatedAt = time.Now().UTC()
	clone := *sub
	r.store.subs[sub.UserID] = &clone
	return nil
}

type sessionRepository struct{ store *Store }

func (r *sessionRepository) Create(ctx context.Context, session *entities.PracticeSession) error {
	if err := session.Validate(); err != nil {
		return err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	clone := *session
	r.store.sessions[session.ID] = &clone
	return nil
}

func (r *sessionRepository) GetByIDForUser(ctx context.Context, id, userID string) (*entities.PracticeSession, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	session, ok := r.store.sessions[id]
	if !ok || session.UserID != userID {
		return nil, entities.ErrSessionNotFound
	}
	clone := *session
	return &clone, nil
}

func (r *sessionRepository) GetActiveByUserID(ctx context.Context, userID string) (*entities.PracticeSession, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var latest *entities.PracticeSession
	for _, session := range r.store.sessions {
		if session.UserID != userID || session.Ended() {
			continue
		}
		if latest == nil || session.StartedAt.After(latest.StartedAt) {
			latest = session
		}
	}
	if latest == nil {
		return nil, nil
	}
	clone := *latest
	return &clone, nil
}

func (r *sessionRepository) ListByUserID(ctx context.Context, userID string, limit int) ([]*entities.PracticeSession, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var sessions []*entities.PracticeSession
	for _, session := range r.store.sessions {
		if session.UserID == userID {
			clone := *session
			sessions = append(sessions, &clone)
		}
	}
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].StartedAt.After(sessions[j].StartedAt)
	})
	if limit > 0 && len(sessions) > limit {
		sessions = sessions[:limit]
	}
	return sessions, nil
}

func (r *sessionRepository) MarkEnded(ctx context.Context, session *entities.PracticeSession) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	stored, ok := r.store.sessions[session.ID]
	if !ok || stored.UserID != session.UserID {
		return entities.ErrSessionNotFound
	}
	if stored.Ended() {
		return entities.ErrSessionAlreadyEnded
	}

	clone := *session
	r.store.sessions[session.ID] = &clone
	return nil
}

type usageRepository struct{ store *Store }

func (r *usageRepository) RecordUsage(ctx context.Context, userID, day string, minutes int) (*entities.UsageRecord, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	now := time.Now().UTC()
	key := userID + "|" + day
	record, ok := r.store.usage[key]
	if !ok {
		record = &entities.UsageRecord{
			ID:        uuid.NewString(),
			UserID:    userID,
			Date:      day,
			CreatedAt: now,
		}
		r.store.usage[key] = record
	}
	record.MinutesUsed += minutes
	record.SessionsCount++
	record.UpdatedAt = now

	clone := *record
	return &clone, nil
}

func (r *usageRepository) GetByUserAndDay(ctx context.Context, userID, day string) (*entities.UsageRecord, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	record, ok := r.store.usage[userID+"|"+day]
	if !ok {
		return nil, nil
	}
	clone := *record
	return &clone, nil
}

func (r *usageRepository) ListByUserSince(ctx context.Context, userID, since string) ([]*entities.UsageRecord, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var records []*entities.UsageRecord
	for _, record := range r.store.usage {
		if record.UserID == userID && record.Date >= since {
			clone := *record
			records = append(records, &clone)
		}
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].Date > records[j].Date
	})
	return records, nil
}
