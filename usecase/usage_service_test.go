package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/speakaussie/server/adapters/memory"
	"github.com/speakaussie/server/domain/entities"
)

func newUsageFixture(t *testing.T) (*UsageService, *memory.Store, string) {
	t.Helper()

	store := memory.NewStore()
	service := NewUsageService(entities.DefaultPlanCatalog(), store.Subscriptions(), store.Usage())

	user := entities.NewUser("tester@example.com", "hash", "Tester")
	if err := store.Users().Create(context.Background(), user); err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	return service, store, user.ID
}

func TestTodayForFreshUser(t *testing.T) {
	service, _, userID := newUsageFixture(t)

	summary, err := service.Today(context.Background(), userID)
	if err != nil {
		t.Fatalf("Today failed: %v", err)
	}
	if summary.Plan != entities.PlanFree {
		t.Errorf("Expected free plan without subscription, got %s", summary.Plan)
	}
	if summary.MinutesUsed != 0 {
		t.Errorf("Expected 0 minutes used, got %d", summary.MinutesUsed)
	}
	if summary.MinutesRemaining != 2 || summary.DailyLimit != 2 {
		t.Errorf("Expected 2/2 minutes, got %d/%d", summary.MinutesRemaining, summary.DailyLimit)
	}
}

func TestTodayReflectsLedgerAndPlan(t *testing.T) {
	service, store, userID := newUsageFixture(t)

	sub := entities.NewSubscription(userID, entities.PlanStandard)
	if err := store.Subscriptions().Create(context.Background(), sub); err != nil {
		t.Fatalf("Failed to create subscription: %v", err)
	}

	clock := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	service.SetClock(func() time.Time { return clock })

	if _, err := store.Usage().RecordUsage(context.Background(), userID, "2026-03-15", 4); err != nil {
		t.Fatalf("RecordUsage failed: %v", err)
	}

	summary, err := service.Today(context.Background(), userID)
	if err != nil {
		t.Fatalf("Today failed: %v", err)
	}
	if summary.Plan != entities.PlanStandard {
		t.Errorf("Expected standard plan, got %s", summary.Plan)
	}
	if summary.MinutesUsed != 4 || summary.MinutesRemaining != 6 || summary.DailyLimit != 10 {
		t.Errorf("Expected 4 used, 6 remaining of 10, got %d/%d/%d",
			summary.MinutesUsed, summary.MinutesRemaining, summary.DailyLimit)
	}
}

func TestTodayRemainingNeverNegative(t *testing.T) {
	service, store, userID := newUsageFixture(t)

	clock := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	service.SetClock(func() time.Time { return clock })

	// Over-consumption happens when a long session ends near the limit.
	if _, err := store.Usage().RecordUsage(context.Background(), userID, "2026-03-15", 5); err != nil {
		t.Fatalf("RecordUsage failed: %v", err)
	}

	summary, err := service.Today(context.Background(), userID)
	if err != nil {
		t.Fatalf("Today failed: %v", err)
	}
	if summary.MinutesRemaining != 0 {
		t.Errorf("Expected remaining clamped to 0, got %d", summary.MinutesRemaining)
	}
}

func TestCheckEntitlement(t *testing.T) {
	service, store, userID := newUsageFixture(t)

	clock := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	service.SetClock(func() time.Time { return clock })

	entitlement, err := service.Check(context.Background(), userID)
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if !entitlement.Allowed || entitlement.RemainingMinutes != 2 {
		t.Errorf("Expected fresh free user allowed with 2 remaining, got %+v", entitlement)
	}

	if _, err := store.Usage().RecordUsage(context.Background(), userID, "2026-03-15", 2); err != nil {
		t.Fatalf("RecordUsage failed: %v", err)
	}

	entitlement, err = service.Check(context.Background(), userID)
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if entitlement.Allowed {
		t.Error("Expected denial at the free limit")
	}
	if entitlement.Message == "" {
		t.Error("Expected an upgrade message on denial")
	}
}

func TestPlansReturnsCatalogOrder(t *testing.T) {
	service, _, _ := newUsageFixture(t)

	plans := service.Plans()
	if len(plans) != 4 {
		t.Fatalf("Expected 4 plans, got %d", len(plans))
	}
	if plans[0].Plan != entities.PlanFree || plans[3].Plan != entities.PlanPremium {
		t.Errorf("Expected free first and premium last, got %s and %s",
			plans[0].Plan, plans[3].Plan)
	}
}

func TestHistoryWindowAndTotal(t *testing.T) {
	service, store, userID := newUsageFixture(t)

	clock := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	service.SetClock(func() time.Time { return clock })

	days := []struct {
		day     string
		minutes int
	}{
		{"2026-03-15", 2},
		{"2026-03-14", 3},
		{"2026-02-01", 7}, // outside the 30-day window
	}
	for _, d := range days {
		if _, err := store.Usage().RecordUsage(context.Background(), userID, d.day, d.minutes); err != nil {
			t.Fatalf("RecordUsage(%s) failed: %v", d.day, err)
		}
	}

	records, total, err := service.History(context.Background(), userID, 30)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("Expected 2 records in window, got %d", len(records))
	}
	if records[0].Date != "2026-03-15" || records[1].Date != "2026-03-14" {
		t.Errorf("Expected newest first, got %s then %s", records[0].Date, records[1].Date)
	}
	if total != 5 {
		t.Errorf("Expected total 5 minutes, got %d", total)
	}

	// days <= 0 defaults to 30.
	records, _, err = service.History(context.Background(), userID, 0)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(records) != 2 {
		t.Errorf("Expected default window of 30 days, got %d records", len(records))
	}
}
