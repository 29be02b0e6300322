package entities

import "fmt"

// Plan identifies a subscription tier.
type Plan string

const (
	PlanFree     Plan = "free"
	PlanBasic    Plan = "basic"
	PlanStandard Plan = "standard"
	PlanPremium  Plan = "premium"
)

// PlanLimit describes the daily allowance and pricing of a plan.
type PlanLimit struct {
	Plan            Plan   `json:"plan" bson:"plan"`
	DailyMinutes    int    `json:"daily_minutes" bson:"daily_minutes"`
	MonthlyPriceAUD int    `json:"monthly_price_aud" bson:"monthly_price_aud"`
	Description     string `json:"description,omitempty" bson:"description,omitempty"`
}

// PlanCatalog is an immutable plan -> limit mapping built once at startup.
// It is safe to share across any number of concurrent readers.
type PlanCatalog struct {
	limits map[Plan]PlanLimit
	order  []Plan
}

// DefaultPlanCatalog returns the catalog shipped with the product.
func DefaultPlanCatalog() *PlanCatalog {
	catalog, _ := NewPlanCatalog([]PlanLimit{
		{Plan: PlanFree, DailyMinutes: 2, MonthlyPriceAUD: 0},
		{Plan: PlanBasic, DailyMinutes: 5, MonthlyPriceAUD: 25},
		{Plan: PlanStandard, DailyMinutes: 10, MonthlyPriceAUD: 49},
		{Plan: PlanPremium, DailyMinutes: 15, MonthlyPriceAUD: 79},
	})
	return catalog
}

// NewPlanCatalog builds a catalog from the given limits. The free plan must be
// present because it is the fallback for unknown plan identifiers.
func NewPlanCatalog(limits []PlanLimit) (*PlanCatalog, error) {
	catalog := &PlanCatalog{
		limits: make(map[Plan]PlanLimit, len(limits)),
		order:  make([]Plan, 0, len(limits)),
	}
	for _, limit := range limits {
		if limit.DailyMinutes < 0 || limit.MonthlyPriceAUD < 0 {
			return nil, fmt.Errorf("plan %s has negative limit or price", limit.Plan)
		}
		if _, exists := catalog.limits[limit.Plan]; !exists {
			catalog.order = append(catalog.order, limit.Plan)
		}
		catalog.limits[limit.Plan] = limit
	}
	if _, ok := catalog.limits[PlanFree]; !ok {
		return nil, fmt.Errorf("catalog is missing the %s plan", PlanFree)
	}
	return catalog, nil
}

// LimitFor resolves the limit for a plan. It is total: unknown plan
// identifiers resolve to the free plan's limit.
func (c *PlanCatalog) LimitFor(plan Plan) PlanLimit {
	if limit, ok := c.limits[plan]; ok {
		return limit
	}
	return c.limits[PlanFree]
}

// Plans returns every limit in catalog order.
func (c *PlanCatalog) Plans() []PlanLimit {
	plans := make([]PlanLimit, 0, len(c.order))
	for _, plan := range c.order {
		plans = append(plans, c.limits[plan])
	}
	return plans
}

// Entitlement is the admission decision for starting a new practice session.
type Entitlement struct {
	Allowed          bool   `json:"allowed"`
	RemainingMinutes int    `json:"remaining"`
	Message          string `json:"message,omitempty"`
}

// CanStart decides whether a user on the given plan, having already used
// minutesUsed today, may start another session. It is pure and must be
// evaluated fresh for every start request.
func (c *PlanCatalog) CanStart(plan Plan, minutesUsed int) Entitlement {
	limit := c.LimitFor(plan)

	remaining := limit.DailyMinutes - minutesUsed
	if remaining <= 0 {
		return Entitlement{
			Allowed:          false,
			RemainingMinutes: 0,
			Message: fmt.Sprintf(
				"You've used all %d minutes for today. Upgrade for more time!",
				limit.DailyMinutes,
			),
		}
	}

	return Entitlement{
		Allowed:          true,
		RemainingMinutes: remaining,
	}
}
