package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned by point lookups when no record matches.
var ErrNotFound = errors.New("store: not found")

// Store is the persistence gateway over the blacklist, activity and users
// collections. It is the only component that touches the database.
//
// Failure semantics: a disconnected store answers reads with empty results
// and rejects writes; callers gate user-facing operations on Available()
// so the outage surfaces as one uniform "service unavailable" outcome.
type Store interface {
	// Available reports whether the backing database is reachable.
	Available() bool

	ListBlacklist(ctx context.Context) ([]BlacklistEntry, error)
	GetBlacklistEntry(ctx context.Context, id string) (*BlacklistEntry, error)

	// UpsertBlacklistEntry inserts the entry if its id is absent, otherwise
	// merges the fields into the existing record.
	UpsertBlacklistEntry(ctx context.Context, e BlacklistEntry) (UpsertResult, error)

	// AppendActivity records an administrative action. Best-effort: failures
	// are logged, never returned.
	AppendActivity(ctx context.Context, message string)

	// RecentActivity returns up to limit records, newest first.
	RecentActivity(ctx context.Context, limit int) ([]ActivityRecord, error)

	UpsertUser(ctx context.Context, u UserRecord) error
	GetUser(ctx context.Context, id string) (*UserRecord, error)
	ListUsers(ctx context.Context) ([]UserRecord, error)

	// Close releases the connection. Idempotent.
	Close(ctx context.Context) error
}
