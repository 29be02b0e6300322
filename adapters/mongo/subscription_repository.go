package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/speakaussie/server/domain/entities"
	"github.com/speakaussie/server/domain/repositories"
)

type SubscriptionRepository struct {
	collection *mongo.Collection
}

// NewSubscriptionRepository creates a new MongoDB subscription repository
func NewSubscriptionRepository(db *mongo.Database) *SubscriptionRepository {
	return &SubscriptionRepository{
		collection: db.Collection("subscriptions"),
	}
}

// EnsureIndexes creates the one-subscription-per-user unique index.
func (r *SubscriptionRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create subscription index: %w", err)
	}
	return nil
}

// Create implements repositories.SubscriptionRepository
func (r *SubscriptionRepository) Create(ctx context.Context, sub *entities.Subscription) error {
	if sub == nil {
		return errors.New("subscription cannot be nil")
	}

	now := time.Now().UTC()
	if sub.CreatedAt.IsZero() {
		sub.CreatedAt = now
	}
	if sub.UpdatedAt.IsZero() {
		sub.UpdatedAt = now
	}

	if _, err := r.collection.InsertOne(ctx, sub); err != nil {
		return fmt.Errorf("failed to create subscription: %w", err)
	}
	return nil
}

// GetByUserID implements repositories.SubscriptionRepository
func (r *SubscriptionRepository) GetByUserID(ctx context.Context, userID string) (*entities.Subscription, error) {
	var sub entities.Subscription
	err := r.collection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&sub)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil // Not subscribed, treated as free plan
		}
		return nil, fmt.Errorf("failed to get subscription for user %s: %w", userID, err)
	}
	return &sub, nil
}

// Update implements repositories.SubscriptionRepository
func (r *SubscriptionRepository) Update(ctx context.Context, sub *entities.Subscription) error {
	if sub == nil || sub.ID == "" {
		return errors.New("subscription with ID is required")
	}

	sub.UpdatedAt = time.Now().UTC()
	update := bson.M{
		"$set": bson.M{
			"plan":                 sub.Plan,
			"status":               sub.Status,
			"current_period_start": sub.CurrentPeriodStart,
			"current_period_end":   sub.CurrentPeriodEnd,
			"updated_at":           sub.UpdatedAt,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": sub.ID}, update)
	if err != nil {
		return fmt.Errorf("failed to update subscription: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("subscription with ID %s not found", sub.ID)
	}
	return nil
}

var _ repositories.SubscriptionRepository = (*SubscriptionRepository)(nil)
