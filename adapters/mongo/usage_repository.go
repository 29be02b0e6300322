package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/speakaussie/server/domain/entities"
	"github.com/speakaussie/server/domain/repositories"
)

type UsageRepository struct {
	collection *mongo.Collection
}

// NewUsageRepository creates a new MongoDB usage-ledger repository
func NewUsageRepository(db *mongo.Database) *UsageRepository {
	return &UsageRepository{
		collection: db.Collection("usage_records"),
	}
}

// EnsureIndexes creates the unique (user_id, date) index that backs the
// one-record-per-user-per-day identity.
func (r *UsageRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "date", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create usage index: %w", err)
	}
	return nil
}

// RecordUsage implements repositories.UsageRepository. The insert-or-increment
// is a single FindOneAndUpdate with upsert, so concurrent session ends for
// the same (user, day) are all reflected without a read-modify-write race.
func (r *UsageRepository) RecordUsage(ctx context.Context, userID, day string, minutes int) (*entities.UsageRecord, error) {
	if minutes < 0 {
		return nil, fmt.Errorf("minutes must be non-negative, got %d", minutes)
	}

	now := time.Now().UTC()
	filter := bson.M{"user_id": userID, "date": day}
	update := bson.M{
		"$inc": bson.M{
			"minutes_used":   minutes,
			"sessions_count": 1,
		},
		"$set": bson.M{"updated_at": now},
		"$setOnInsert": bson.M{
			"_id":        uuid.NewString(),
			"user_id":    userID,
			"date":       day,
			"created_at": now,
		},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var record entities.UsageRecord
	if err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&record); err != nil {
		return nil, fmt.Errorf("failed to record usage for user %s on %s: %w", userID, day, err)
	}
	return &record, nil
}

// GetByUserAndDay implements repositories.UsageRepository
func (r *UsageRepository) GetByUserAndDay(ctx context.Context, userID, day string) (*entities.UsageRecord, error) {
	var record entities.UsageRecord
	err := r.collection.FindOne(ctx, bson.M{"user_id": userID, "date": day}).Decode(&record)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil // No usage yet today
		}
		return nil, fmt.Errorf("failed to get usage for user %s on %s: %w", userID, day, err)
	}
	return &record, nil
}

// ListByUserSince implements repositories.UsageRepository. Day keys are
// zero-padded ISO dates, so the string comparison orders correctly.
func (r *UsageRepository) ListByUserSince(ctx context.Context, userID, since string) ([]*entities.UsageRecord, error) {
	filter := bson.M{"user_id": userID, "date": bson.M{"$gte": since}}
	opts := options.Find().SetSort(bson.M{"date": -1})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list usage for user %s: %w", userID, err)
	}
	defer cursor.Close(ctx)

	var records []*entities.UsageRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode usage records: %w", err)
	}
	return records, nil
}

var _ repositories.UsageRepository = (*UsageRepository)(nil)
