package store

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/lodrlodrr/check-ban-freefire-bot/internal/logger"
)

const (
	connectAttempts = 2
	connectTimeout  = 10 * time.Second

	collBlacklist = "blacklist"
	collActivity  = "activity"
	collUsers     = "users"
)

// Mongo is the MongoDB-backed Store. It is constructed exactly once at
// process start and shared by reference across all requests; the driver
// client is safe for concurrent use.
type Mongo struct {
	client *mongo.Client
	db     *mongo.Database

	blacklist *mongo.Collection
	activity  *mongo.Collection
	users     *mongo.Collection
}

// Connect dials MongoDB with exponential backoff (2 attempts, delays of
// 2^attempt seconds). On exhaustion it returns a disconnected gateway
// instead of an error: the app keeps serving with degraded persistence.
func Connect(ctx context.Context, uri, dbName string) *Mongo {
	m := &Mongo{}

	if uri == "" {
		logger.Warn("MONGODB_URI not set, running without database")
		return m
	}

	var client *mongo.Client
	attempt := 0

	dial := func() error {
		attempt++

		opCtx, cancel := context.WithTimeout(ctx, connectTimeout)
		defer cancel()

		opts := options.Client().
			ApplyURI(uri).
			SetMaxPoolSize(1).
			SetServerSelectionTimeout(5 * time.Second).
			SetConnectTimeout(5 * time.Second).
			SetSocketTimeout(10 * time.Second).
			SetRetryWrites(true).
			SetRetryReads(true)

		c, err := mongo.Connect(opCtx, opts)
		if err != nil {
			logger.Warn("mongo connect attempt failed",
				zap.Int("attempt", attempt), zap.Error(err))
			return err
		}

		if err := c.Ping(opCtx, nil); err != nil {
			_ = c.Disconnect(opCtx)
			logger.Warn("mongo ping attempt failed",
				zap.Int("attempt", attempt), zap.Error(err))
			return err
		}

		client = c
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 2 * time.Second
	bo.Multiplier = 2
	bo.RandomizationFactor = 0

	policy := backoff.WithContext(backoff.WithMaxRetries(bo, connectAttempts-1), ctx)
	if err := backoff.Retry(dial, policy); err != nil {
		logger.Error("failed to connect to database after all retries, continuing with limited functionality",
			zap.Error(err))
		return m
	}

	m.client = client
	m.db = client.Database(dbName)
	m.blacklist = m.db.Collection(collBlacklist)
	m.activity = m.db.Collection(collActivity)
	m.users = m.db.Collection(collUsers)

	logger.Info("connected to database", zap.String("db", dbName))
	return m
}

func (m *Mongo) Available() bool {
	return m.db != nil
}

// Database exposes the underlying handle for the session store, which
// shares the connection. Nil when disconnected.
func (m *Mongo) Database() *mongo.Database {
	return m.db
}

// ListBlacklist returns every entry. A disconnected store or a failing
// read yields an empty slice, never an error.
func (m *Mongo) ListBlacklist(ctx context.Context) ([]BlacklistEntry, error) {
	if !m.Available() {
		return []BlacklistEntry{}, nil
	}

	cur, err := m.blacklist.Find(ctx, bson.M{})
	if err != nil {
		logger.Error("error fetching blacklist", zap.Error(err))
		return []BlacklistEntry{}, nil
	}

	entries := []BlacklistEntry{}
	if err := cur.All(ctx, &entries); err != nil {
		logger.Error("error decoding blacklist", zap.Error(err))
		return []BlacklistEntry{}, nil
	}
	return entries, nil
}

func (m *Mongo) GetBlacklistEntry(ctx context.Context, id string) (*BlacklistEntry, error) {
	if !m.Available() {
		return nil, ErrNotFound
	}

	var e BlacklistEntry
	err := m.blacklist.FindOne(ctx, bson.M{"id": id}).Decode(&e)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		logger.Error("error fetching blacklist entry", zap.String("id", id), zap.Error(err))
		return nil, ErrNotFound
	}
	return &e, nil
}

func (m *Mongo) UpsertBlacklistEntry(ctx context.Context, e BlacklistEntry) (UpsertResult, error) {
	if !m.Available() {
		return UpsertResult{}, errors.New("store: database not available")
	}

	res, err := m.blacklist.UpdateOne(ctx,
		bson.M{"id": e.ID},
		bson.M{"$set": e},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return UpsertResult{}, err
	}

	if res.UpsertedCount > 0 {
		return UpsertResult{Inserted: true}, nil
	}
	return UpsertResult{Updated: true}, nil
}

func (m *Mongo) AppendActivity(ctx context.Context, message string) {
	if !m.Available() {
		return
	}

	rec := ActivityRecord{Message: message, Timestamp: time.Now()}
	if _, err := m.activity.InsertOne(ctx, rec); err != nil {
		// activity logging is not critical
		logger.Error("error logging activity", zap.Error(err))
	}
}

func (m *Mongo) RecentActivity(ctx context.Context, limit int) ([]ActivityRecord, error) {
	if !m.Available() {
		return []ActivityRecord{}, nil
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(int64(limit))

	cur, err := m.activity.Find(ctx, bson.M{}, opts)
	if err != nil {
		logger.Error("error fetching activity", zap.Error(err))
		return []ActivityRecord{}, nil
	}

	records := []ActivityRecord{}
	if err := cur.All(ctx, &records); err != nil {
		logger.Error("error decoding activity", zap.Error(err))
		return []ActivityRecord{}, nil
	}
	return records, nil
}

func (m *Mongo) UpsertUser(ctx context.Context, u UserRecord) error {
	if !m.Available() {
		return errors.New("store: database not available")
	}

	_, err := m.users.UpdateOne(ctx,
		bson.M{"id": u.ID},
		bson.M{"$set": u},
		options.Update().SetUpsert(true),
	)
	return err
}

func (m *Mongo) GetUser(ctx context.Context, id string) (*UserRecord, error) {
	if !m.Available() {
		return nil, ErrNotFound
	}

	var u UserRecord
	err := m.users.FindOne(ctx, bson.M{"id": id}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		logger.Error("error fetching user", zap.String("id", id), zap.Error(err))
		return nil, ErrNotFound
	}
	return &u, nil
}

func (m *Mongo) ListUsers(ctx context.Context) ([]UserRecord, error) {
	if !m.Available() {
		return []UserRecord{}, nil
	}

	cur, err := m.users.Find(ctx, bson.M{})
	if err != nil {
		logger.Error("error fetching users", zap.Error(err))
		return []UserRecord{}, nil
	}

	users := []UserRecord{}
	if err := cur.All(ctx, &users); err != nil {
		logger.Error("error decoding users", zap.Error(err))
		return []UserRecord{}, nil
	}
	return users, nil
}

func (m *Mongo) Close(ctx context.Context) error {
	if m.client == nil {
		return nil
	}
	err := m.client.Disconnect(ctx)
	m.client = nil
	m.db = nil
	return err
}
