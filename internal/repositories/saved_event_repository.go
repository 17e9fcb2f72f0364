package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/anvex/concertly/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SavedEventRepository defines the interface for saved event operations.
//
// Save is idempotent: saving an event the user already saved returns the
// existing record unchanged. Unsave is idempotent the same way; deleting a
// record that does not exist is a success. The compound unique index on
// (user_id, event_id) is the only concurrency control: two concurrent
// saves for the same pair can both reach InsertOne, but only one insert
// wins and the loser reads the winner's record back.
type SavedEventRepository interface {
	Save(ctx context.Context, userID uint, eventID string, eventData json.RawMessage) (*models.SavedEvent, error)
	Unsave(ctx context.Context, userID uint, eventID string) error
	ListByUser(ctx context.Context, userID uint) ([]models.SavedEvent, error)
}

// MongoSavedEventRepository implements SavedEventRepository for MongoDB
type MongoSavedEventRepository struct {
	collection *mongo.Collection
}

// NewMongoSavedEventRepository creates a new MongoSavedEventRepository
func NewMongoSavedEventRepository(db *mongo.Database) *MongoSavedEventRepository {
	return &MongoSavedEventRepository{collection: db.Collection("saved_events")}
}

// Save inserts a new saved event for the user. If the user already saved
// this event the duplicate-key error from the unique index is swallowed
// and the pre-existing record is returned.
func (r *MongoSavedEventRepository) Save(ctx context.Context, userID uint, eventID string, eventData json.RawMessage) (*models.SavedEvent, error) {
	saved := &models.SavedEvent{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		EventID:   eventID,
		EventData: eventData,
		CreatedAt: time.Now().UTC(),
	}

	_, err := r.collection.InsertOne(ctx, saved)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return r.findOne(ctx, userID, eventID)
		}
		return nil, fmt.Errorf("failed to save event: %w", err)
	}
	return saved, nil
}

// Unsave removes the saved event matching (userID, eventID). A missing
// record is not an error so retried deletes stay harmless.
func (r *MongoSavedEventRepository) Unsave(ctx context.Context, userID uint, eventID string) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"user_id": userID, "event_id": eventID})
	if err != nil {
		return fmt.Errorf("failed to unsave event: %w", err)
	}
	if res.DeletedCount == 0 {
		log.Printf("Unsave for user %d, event %s matched no record", userID, eventID)
	}
	return nil
}

// ListByUser retrieves all saved events for a user, newest first.
func (r *MongoSavedEventRepository) ListByUser(ctx context.Context, userID uint) ([]models.SavedEvent, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, findOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to list saved events: %w", err)
	}
	defer cursor.Close(ctx)

	saved := []models.SavedEvent{}
	if err = cursor.All(ctx, &saved); err != nil {
		return nil, fmt.Errorf("failed to decode saved events: %w", err)
	}
	return saved, nil
}

func (r *MongoSavedEventRepository) findOne(ctx context.Context, userID uint, eventID string) (*models.SavedEvent, error) {
	var saved models.SavedEvent
	err := r.collection.FindOne(ctx, bson.M{"user_id": userID, "event_id": eventID}).Decode(&saved)
	if err != nil {
		return nil, fmt.Errorf("failed to load existing saved event: %w", err)
	}
	return &saved, nil
}

// EnsureSavedEventIndexes creates the compound unique index that backs the
// one-copy-per-user-per-event invariant. Called once at startup.
func EnsureSavedEventIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("saved_events").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "event_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create saved_events index: %w", err)
	}
	return nil
}
