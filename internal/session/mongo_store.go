package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const sessionsCollection = "sessions"

// MongoStore persists sessions in the application database. A TTL index
// on expiresAt lets the server prune stale sessions natively; Get still
// enforces expiry itself so a session is never honored past its deadline
// while the reaper lags.
type MongoStore struct {
	coll *mongo.Collection
}

func NewMongoStore(ctx context.Context, db *mongo.Database) (*MongoStore, error) {
	coll := db.Collection(sessionsCollection)

	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expiresAt", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	})
	if err != nil {
		return nil, fmt.Errorf("session: failed to ensure ttl index: %w", err)
	}

	return &MongoStore{coll: coll}, nil
}

func (m *MongoStore) Create(ctx context.Context, s Session) error {
	if s.SessionID == "" || s.UserID == "" {
		return fmt.Errorf("session: missing session_id or user_id")
	}
	if !s.ExpiresAt.After(time.Now()) {
		return fmt.Errorf("session: expires_at must be in the future")
	}

	_, err := m.coll.InsertOne(ctx, s)
	return err
}

func (m *MongoStore) Get(ctx context.Context, sessionID string) (*Session, error) {
	var s Session
	err := m.coll.FindOne(ctx, bson.M{"sessionId": sessionID}).Decode(&s)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil // not found
	}
	if err != nil {
		return nil, err
	}

	if time.Now().After(s.ExpiresAt) {
		_, _ = m.coll.DeleteOne(ctx, bson.M{"sessionId": sessionID})
		return nil, nil
	}

	return &s, nil
}

func (m *MongoStore) Update(ctx context.Context, s Session) error {
	if s.SessionID == "" {
		return fmt.Errorf("session: missing session_id")
	}

	if !s.ExpiresAt.After(time.Now()) {
		// If expired, delete session instead of extending
		_, err := m.coll.DeleteOne(ctx, bson.M{"sessionId": s.SessionID})
		return err
	}

	_, err := m.coll.UpdateOne(ctx,
		bson.M{"sessionId": s.SessionID},
		bson.M{"$set": s},
	)
	return err
}

func (m *MongoStore) Delete(ctx context.Context, sessionID string) error {
	_, err := m.coll.DeleteOne(ctx, bson.M{"sessionId": sessionID})
	return err
}
