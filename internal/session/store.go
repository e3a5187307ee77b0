package session

import (
	"context"
	"time"
)

// TTL is the session lifetime. Sessions are rolling: every authenticated
// request pushes the expiry out by this much again.
const TTL = 24 * time.Hour

// Session represents an authenticated user session.
// It intentionally stores only identity pointers, not auth state.
type Session struct {
	SessionID string    `bson:"sessionId" json:"sessionId"`
	UserID    string    `bson:"userId" json:"userId"` // references users.id
	ExpiresAt time.Time `bson:"expiresAt" json:"expiresAt"`
}

// Store defines how sessions are stored and retrieved.
// Implementations must remain stateless and opaque.
type Store interface {
	Create(ctx context.Context, s Session) error
	Get(ctx context.Context, sessionID string) (*Session, error)
	Update(ctx context.Context, s Session) error
	Delete(ctx context.Context, sessionID string) error
}
