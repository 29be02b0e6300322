package usecase

import (
	"context"
	"time"

	"github.com/speakaussie/server/domain/entities"
	"github.com/speakaussie/server/domain/repositories"
)

// UsageSummary reports a user's standing against today's quota.
type UsageSummary struct {
	MinutesUsed      int           `json:"minutes_used"`
	MinutesRemaining int           `json:"minutes_remaining"`
	DailyLimit       int           `json:"daily_limit"`
	Plan             entities.Plan `json:"plan"`
}

// UsageService answers read-only questions about plans and the usage ledger.
type UsageService struct {
	catalog       *entities.PlanCatalog
	subscriptions repositories.SubscriptionRepository
	usage         repositories.UsageRepository
	now           func() time.Time
}

// NewUsageService creates a new usage service.
func NewUsageService(
	catalog *entities.PlanCatalog,
	subscriptions repositories.SubscriptionRepository,
	usage repositories.UsageRepository,
) *UsageService {
	return &UsageService{
		catalog:       catalog,
		subscriptions: subscriptions,
		usage:         usage,
		now:           time.Now,
	}
}

// SetClock overrides the wall-clock source, for tests.
func (s *UsageService) SetClock(now func() time.Time) {
	s.now = now
}

// Plans returns the full plan catalog.
func (s *UsageService) Plans() []entities.PlanLimit {
	return s.catalog.Plans()
}

// Subscription returns the user's subscription, or nil for free users.
func (s *UsageService) Subscription(ctx context.Context, userID string) (*entities.Subscription, error) {
	return s.subscriptions.GetByUserID(ctx, userID)
}

// Today summarizes the user's usage for the current calendar day.
func (s *UsageService) Today(ctx context.Context, userID string) (*UsageSummary, error) {
	plan, minutesUsed, err := s.planAndUsage(ctx, userID)
	if err != nil {
		return nil, err
	}

	limit := s.catalog.LimitFor(plan)
	remaining := limit.DailyMinutes - minutesUsed
	if remaining < 0 {
		remaining = 0
	}

	return &UsageSummary{
		MinutesUsed:      minutesUsed,
		MinutesRemaining: remaining,
		DailyLimit:       limit.DailyMinutes,
		Plan:             limit.Plan,
	}, nil
}

// Check previews the entitlement decision for starting a session right now.
func (s *UsageService) Check(ctx context.Context, userID string) (entities.Entitlement, error) {
	plan, minutesUsed, err := s.planAndUsage(ctx, userID)
	if err != nil {
		return entities.Entitlement{}, err
	}
	return s.catalog.CanStart(plan, minutesUsed), nil
}

// History returns ledger records for the past days, newest first, along with
// the total minutes across the window.
func (s *UsageService) History(ctx context.Context, userID string, days int) ([]*entities.UsageRecord, int, error) {
	if days <= 0 {
		days = 30
	}
	since := entities.DayOf(s.now().AddDate(0, 0, -days))

	records, err := s.usage.ListByUserSince(ctx, userID, since)
	if err != nil {
		return nil, 0, err
	}

	total := 0
	for _, record := range records {
		total += record.MinutesUsed
	}
	return records, total, nil
}

func (s *UsageService) planAndUsage(ctx context.Context, userID string) (entities.Plan, int, error) {
	plan := entities.PlanFree
	sub, err := s.subscriptions.GetByUserID(ctx, userID)
	if err != nil {
		return "", 0, err
	}
	if sub != nil {
		plan = sub.Plan
	}

	record, err := s.usage.GetByUserAndDay(ctx, userID, entities.DayOf(s.now()))
	if err != nil {
		return "", 0, err
	}
	minutesUsed := 0
	if record != nil {
		minutesUsed = record.MinutesUsed
	}
	return plan, minutesUsed, nil
}
