package models

import (
	"encoding/json"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SavedEvent represents an event bookmarked by a user. EventData is the
// raw provider payload captured at save time and is never refreshed.
type SavedEvent struct {
	ID        primitive.ObjectID `json:"id" bson:"_id"`
	UserID    uint               `json:"userId" bson:"user_id"`
	EventID   string             `json:"eventId" bson:"event_id"`
	EventData json.RawMessage    `json:"eventData" bson:"event_data"`
	CreatedAt time.Time          `json:"createdAt" bson:"created_at"`
}

// SaveEventRequest is the payload for bookmarking an event.
type SaveEventRequest struct {
	EventID   string          `json:"eventId" validate:"required"`
	EventData json.RawMessage `json:"eventData" validate:"required"`
}
