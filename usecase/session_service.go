package usecase

import (
	"context"
	"time"

	"github.com/speakaussie/server/domain/entities"
	"github.com/speakaussie/server/domain/repositories"
)

// UsageNotifier receives ledger updates after a session ends. Implementations
// must not block; delivery failures are their own concern.
type UsageNotifier interface {
	NotifyUsage(userID string, record *entities.UsageRecord)
}

// SessionService owns the practice-session lifecycle: admission of new
// sessions against the daily quota, and the end transition paired with the
// usage-ledger upsert.
type SessionService struct {
	catalog       *entities.PlanCatalog
	sessions      repositories.SessionRepository
	subscriptions repositories.SubscriptionRepository
	usage         repositories.UsageRepository
	transactor    repositories.Transactor
	notifier      UsageNotifier
	now           func() time.Time
}

// NewSessionService creates a new session service.
func NewSessionService(
	catalog *entities.PlanCatalog,
	sessions repositories.SessionRepository,
	subscriptions repositories.SubscriptionRepository,
	usage repositories.UsageRepository,
	transactor repositories.Transactor,
) *SessionService {
	return &SessionService{
		catalog:       catalog,
		sessions:      sessions,
		subscriptions: subscriptions,
		usage:         usage,
		transactor:    transactor,
		now:           time.Now,
	}
}

// SetUsageNotifier registers a listener for post-end ledger updates.
func (s *SessionService) SetUsageNotifier(n UsageNotifier) {
	s.notifier = n
}

// SetClock overrides the wall-clock source, for tests.
func (s *SessionService) SetClock(now func() time.Time) {
	s.now = now
}

// Start admits a new practice session for the user. The entitlement check is
// evaluated fresh against today's ledger entry; a user at or over their
// plan's daily limit is rejected with *entities.QuotaExceededError.
func (s *SessionService) Start(ctx context.Context, userID, mode string) (*entities.PracticeSession, error) {
	sessionMode, err := entities.ParseSessionMode(mode)
	if err != nil {
		return nil, err
	}

	plan, err := s.planFor(ctx, userID)
	if err != nil {
		return nil, err
	}

	minutesUsed, err := s.minutesUsedToday(ctx, userID)
	if err != nil {
		return nil, err
	}

	entitlement := s.catalog.CanStart(plan, minutesUsed)
	if !entitlement.Allowed {
		return nil, &entities.QuotaExceededError{DailyLimit: s.catalog.LimitFor(plan).DailyMinutes}
	}

	session := entities.NewPracticeSession(userID, sessionMode)
	session.StartedAt = s.now().UTC()
	session.CreatedAt = session.StartedAt
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, err
	}

	return session, nil
}

// End transitions the session to its terminal state and charges the usage
// ledger. The two writes run inside one transaction: if either fails, the
// session stays unended and no minutes are recorded.
func (s *SessionService) End(ctx context.Context, userID, sessionID string, feedback entities.Feedback, messagesCount int) (*entities.PracticeSession, error) {
	session, err := s.sessions.GetByIDForUser(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}
	if session.Ended() {
		return nil, entities.ErrSessionAlreadyEnded
	}

	if err := session.End(s.now(), feedback, messagesCount); err != nil {
		return nil, err
	}

	minutes := entities.BillableMinutes(*session.DurationSeconds)
	day := entities.DayOf(*session.EndedAt)

	var record *entities.UsageRecord
	err = s.transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
		if err := s.sessions.MarkEnded(txCtx, session); err != nil {
			return err
		}
		record, err = s.usage.RecordUsage(txCtx, userID, day, minutes)
		return err
	})
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.NotifyUsage(userID, record)
	}

	return session, nil
}

// Active returns the user's most recent unended session, or nil.
func (s *SessionService) Active(ctx context.Context, userID string) (*entities.PracticeSession, error) {
	return s.sessions.GetActiveByUserID(ctx, userID)
}

// History returns the user's most recent sessions, newest first.
func (s *SessionService) History(ctx context.Context, userID string, limit int) ([]*entities.PracticeSession, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.sessions.ListByUserID(ctx, userID, limit)
}

func (s *SessionService) planFor(ctx context.Context, userID string) (entities.Plan, error) {
	sub, err := s.subscriptions.GetByUserID(ctx, userID)
	if err != nil {
		return "", err
	}
	if sub == nil {
		return entities.PlanFree, nil
	}
	return sub.Plan, nil
}

func (s *SessionService) minutesUsedToday(ctx context.Context, userID string) (int, error) {
	record, err := s.usage.GetByUserAndDay(ctx, userID, entities.DayOf(s.now()))
	if err != nil {
		return 0, err
	}
	if record == nil {
		return 0, nil
	}
	return record.MinutesUsed, nil
}
