package app

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/lodrlodrr/check-ban-freefire-bot/internal/config"
	"github.com/lodrlodrr/check-ban-freefire-bot/internal/logger"
	"github.com/lodrlodrr/check-ban-freefire-bot/internal/session"
	"github.com/lodrlodrr/check-ban-freefire-bot/internal/store"
)

type Infra struct {
	Store    *store.Mongo
	Sessions session.Store
}

// setupInfra builds the persistence gateway and picks a session backend.
// Nothing here is fatal: an unreachable database leaves the gateway
// disconnected and sessions fall back to the in-memory store.
func setupInfra(ctx context.Context, cfg config.Config) *Infra {
	st := store.Connect(ctx, cfg.MongoURI, cfg.MongoDBName)

	return &Infra{
		Store:    st,
		Sessions: setupSessions(ctx, cfg, st),
	}
}

func setupSessions(ctx context.Context, cfg config.Config, st *store.Mongo) session.Store {
	if cfg.SessionStore == "redis" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       0,
		})

		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()

		if err := client.Ping(pingCtx).Err(); err != nil {
			logger.Warn("redis unreachable, falling back to in-memory sessions", zap.Error(err))
			return session.NewMemoryStore()
		}

		logger.Info("redis session store ready", zap.String("addr", cfg.RedisAddr))
		return session.NewRedisStore(client)
	}

	if !st.Available() {
		logger.Warn("database unavailable, falling back to in-memory sessions")
		return session.NewMemoryStore()
	}

	mongoSessions, err := session.NewMongoStore(ctx, st.Database())
	if err != nil {
		logger.Warn("failed to create database session store, falling back to in-memory sessions",
			zap.Error(err))
		return session.NewMemoryStore()
	}

	logger.Info("database session store ready")
	return mongoSessions
}
