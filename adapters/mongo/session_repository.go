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

type SessionRepository struct {
	collection *mongo.Collection
}

// NewSessionRepository creates a new MongoDB practice-session repository
func NewSessionRepository(db *mongo.Database) *SessionRepository {
	return &SessionRepository{
		collection: db.Collection("practice_sessions"),
	}
}

// EnsureIndexes creates the lookup indexes for per-user session queries.
func (r *SessionRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "started_at", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create session index: %w", err)
	}
	return nil
}

// Create implements repositories.SessionRepository
func (r *SessionRepository) Create(ctx context.Context, session *entities.PracticeSession) error {
	if session == nil {
		return errors.New("session cannot be nil")
	}
	if err := session.Validate(); err != nil {
		return err
	}

	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now().UTC()
	}

	if _, err := r.collection.InsertOne(ctx, session); err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// GetByIDForUser implements repositories.SessionRepository
func (r *SessionRepository) GetByIDForUser(ctx context.Context, id, userID string) (*entities.PracticeSession, error) {
	var session entities.PracticeSession
	err := r.collection.FindOne(ctx, bson.M{"_id": id, "user_id": userID}).Decode(&session)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			// Missing and foreign sessions are reported identically.
			return nil, entities.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session %s: %w", id, err)
	}
	return &session, nil
}

// GetActiveByUserID implements repositories.SessionRepository
func (r *SessionRepository) GetActiveByUserID(ctx context.Context, userID string) (*entities.PracticeSession, error) {
	filter := bson.M{"user_id": userID, "ended_at": nil}
	opts := options.FindOne().SetSort(bson.M{"started_at": -1})

	var session entities.PracticeSession
	err := r.collection.FindOne(ctx, filter, opts).Decode(&session)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil // No active session
		}
		return nil, fmt.Errorf("failed to get active session for user %s: %w", userID, err)
	}
	return &session, nil
}

// ListByUserID implements repositories.SessionRepository
func (r *SessionRepository) ListByUserID(ctx context.Context, userID string, limit int) ([]*entities.PracticeSession, error) {
	opts := options.Find().
		SetSort(bson.M{"started_at": -1}).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions for user %s: %w", userID, err)
	}
	defer cursor.Close(ctx)

	var sessions []*entities.PracticeSession
	if err := cursor.All(ctx, &sessions); err != nil {
		return nil, fmt.Errorf("failed to decode sessions: %w", err)
	}
	return sessions, nil
}

// MarkEnded implements repositories.SessionRepository. The filter requires
// the stored document to still be unended, so two racing ends cannot both
// succeed.
func (r *SessionRepository) MarkEnded(ctx context.Context, session *entities.PracticeSession) error {
	if session == nil || !session.Ended() {
		return errors.New("session must be in the ended state")
	}

	filter := bson.M{
		"_id":      session.ID,
		"user_id":  session.UserID,
		"ended_at": nil,
	}
	update := bson.M{
		"$set": bson.M{
			"ended_at":         session.EndedAt,
			"duration_seconds": session.DurationSeconds,
			"messages_count":   session.MessagesCount,
			"feedback":         session.Feedback,
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to end session %s: %w", session.ID, err)
	}
	if result.MatchedCount == 0 {
		// Distinguish a lost race from a genuinely unknown session.
		if _, err := r.GetByIDForUser(ctx, session.ID, session.UserID); err != nil {
			return err
		}
		return entities.ErrSessionAlreadyEnded
	}
	return nil
}

var _ repositories.SessionRepository = (*SessionRepository)(nil)
