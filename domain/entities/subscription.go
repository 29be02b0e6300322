package entities

import (
	"time"

	"github.com/google/uuid"
)

// SubscriptionStatus represents the billing state of a subscription.
type SubscriptionStatus string

const (
	SubscriptionActive    SubscriptionStatus = "active"
	SubscriptionCancelled SubscriptionStatus = "cancelled"
	SubscriptionPastDue   SubscriptionStatus = "past_due"
)

// Subscription ties a user to a plan. Every user has at most one; users
// without a subscription are treated as being on the free plan.
type Subscription struct {
	ID                 string             `json:"id" bson:"_id,omitempty"`
	UserID             string             `json:"user_id" bson:"user_id"`
	Plan               Plan               `json:"plan" bson:"plan"`
	Status             SubscriptionStatus `json:"status" bson:"status"`
	CurrentPeriodStart *time.Time         `json:"current_period_start,omitempty" bson:"current_period_start,omitempty"`
	CurrentPeriodEnd   *time.Time         `json:"current_period_end,omitempty" bson:"current_period_end,omitempty"`
	CreatedAt          time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at" bson:"updated_at"`
}

// NewSubscription creates an active subscription on the given plan.
func NewSubscription(userID string, plan Plan) *Subscription {
	now := time.Now().UTC()
	return &Subscription{
		ID:        uuid.NewString(),
		UserID:    userID,
		Plan:      plan,
		Status:    SubscriptionActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
