package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/lodrlodrr/check-ban-freefire-bot/internal/app"
	"github.com/lodrlodrr/check-ban-freefire-bot/internal/config"
	"github.com/lodrlodrr/check-ban-freefire-bot/internal/logger"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()

	application, err := app.New(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to initialize app", zap.Error(err))
	}

	go func() {
		if err := application.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			// covers port conflicts and permission denials; exits 1
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	logger.Info("server started",
		zap.String("addr", application.Addr()),
		zap.String("env", cfg.AppEnv),
		zap.Bool("discord_oauth_configured", cfg.DiscordClientID != ""),
		zap.Bool("mongodb_configured", cfg.MongoURI != ""),
		zap.Bool("session_secret_set", cfg.SessionSecret != "fallback_secret"),
	)

	<-ctx.Done()

	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		10*time.Second,
	)
	defer cancel()

	if err := application.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("graceful shutdown failed", zap.Error(err))
	}

	logger.Info("server stopped cleanly")
}
