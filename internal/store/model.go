package store

import "time"

// BlacklistEntry marks an external user id as banned. A nil ExpiresAt
// means the ban is permanent; otherwise it is the expiry time in epoch
// milliseconds.
type BlacklistEntry struct {
	ID        string `bson:"id" json:"id"`
	Username  string `bson:"username" json:"username"`
	Reason    string `bson:"reason" json:"reason"`
	Server    string `bson:"server" json:"server"`
	Date      string `bson:"date" json:"date"` // ISO-8601
	AddedBy   string `bson:"addedBy" json:"addedBy"`
	ExpiresAt *int64 `bson:"expiresAt,omitempty" json:"expiresAt,omitempty"`
}

// ExpiredAt reports whether the entry has expired as of now.
// Permanent entries never expire.
func (e BlacklistEntry) ExpiredAt(now time.Time) bool {
	return e.ExpiresAt != nil && *e.ExpiresAt <= now.UnixMilli()
}

// UserRecord is the stored profile of a Discord user who has logged in.
// Tokens are kept alongside the profile so the dashboard can act on the
// user's behalf.
type UserRecord struct {
	ID            string    `bson:"id" json:"id"`
	Username      string    `bson:"username" json:"username"`
	Email         string    `bson:"email" json:"email"`
	Avatar        string    `bson:"avatar" json:"avatar"`
	Discriminator string    `bson:"discriminator" json:"discriminator"`
	AccessToken   string    `bson:"access_token" json:"access_token"`
	RefreshToken  string    `bson:"refresh_token" json:"refresh_token"`
	LastLogin     time.Time `bson:"lastLogin" json:"lastLogin"`
}

// DisplayName returns the username, falling back to the id for the
// minimal principals produced when the database is down.
func (u UserRecord) DisplayName() string {
	if u.Username != "" {
		return u.Username
	}
	return u.ID
}

// ActivityRecord is one line of the administrative activity feed.
// Records are append-only.
type ActivityRecord struct {
	Message   string    `bson:"message" json:"message"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
}

// UpsertResult reports which branch an upsert took.
type UpsertResult struct {
	Inserted bool `json:"inserted,omitempty"`
	Updated  bool `json:"updated,omitempty"`
}
