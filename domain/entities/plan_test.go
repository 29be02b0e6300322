package entities

import (
	"testing"
)

func TestDefaultPlanCatalog(t *testing.T) {
	catalog := DefaultPlanCatalog()

	plans := catalog.Plans()
	if len(plans) != 4 {
		t.Fatalf("Expected 4 plans, got %d", len(plans))
	}

	expected := []struct {
		plan    Plan
		minutes int
		price   int
	}{
		{PlanFree, 2, 0},
		{PlanBasic, 5, 25},
		{PlanStandard, 10, 49},
		{PlanPremium, 15, 79},
	}

	for i, want := range expected {
		got := plans[i]
		if got.Plan != want.plan {
			t.Errorf("Plan %d: expected %s, got %s", i, want.plan, got.Plan)
		}
		if got.DailyMinutes != want.minutes {
			t.Errorf("Plan %s: expected %d daily minutes, got %d", want.plan, want.minutes, got.DailyMinutes)
		}
		if got.MonthlyPriceAUD != want.price {
			t.Errorf("Plan %s: expected price %d, got %d", want.plan, want.price, got.MonthlyPriceAUD)
		}
	}
}

func TestNewPlanCatalogRequiresFree(t *testing.T) {
	_, err := NewPlanCatalog([]PlanLimit{
		{Plan: PlanBasic, DailyMinutes: 5, MonthlyPriceAUD: 25},
	})
	if err == nil {
		t.Error("Expected error for catalog without free plan")
	}
}

func TestNewPlanCatalogRejectsNegativeLimits(t *testing.T) {
	_, err := NewPlanCatalog([]PlanLimit{
		{Plan: PlanFree, DailyMinutes: -1, MonthlyPriceAUD: 0},
	})
	if err == nil {
		t.Error("Expected error for negative daily minutes")
	}
}

func TestLimitForUnknownPlanFallsBackToFree(t *testing.T) {
	catalog := DefaultPlanCatalog()

	limit := catalog.LimitFor(Plan("enterprise"))
	if limit.Plan != PlanFree {
		t.Errorf("Expected fallback to free plan, got %s", limit.Plan)
	}
	if limit.DailyMinutes != 2 {
		t.Errorf("Expected 2 daily minutes, got %d", limit.DailyMinutes)
	}
}

func TestCanStart(t *testing.T) {
	catalog := DefaultPlanCatalog()

	tests := []struct {
		name        string
		plan        Plan
		minutesUsed int
		allowed     bool
		remaining   int
	}{
		{"fresh free user", PlanFree, 0, true, 2},
		{"free one minute used", PlanFree, 1, true, 1},
		{"free at limit", PlanFree, 2, false, 0},
		{"free over limit", PlanFree, 3, false, 0},
		{"premium mid-day", PlanPremium, 10, true, 5},
		{"premium at limit", PlanPremium, 15, false, 0},
		{"unknown plan falls back to free", Plan("enterprise"), 2, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entitlement := catalog.CanStart(tt.plan, tt.minutesUsed)
			if entitlement.Allowed != tt.allowed {
				t.Errorf("Expected allowed=%v, got %v", tt.allowed, entitlement.Allowed)
			}
			if entitlement.RemainingMinutes != tt.remaining {
				t.Errorf("Expected remaining=%d, got %d", tt.remaining, entitlement.RemainingMinutes)
			}
			if !tt.allowed && entitlement.Message == "" {
				t.Error("Expected an upgrade message on denial")
			}
			if tt.allowed && entitlement.Message != "" {
				t.Errorf("Expected no message on allow, got %q", entitlement.Message)
			}
		})
	}
}
