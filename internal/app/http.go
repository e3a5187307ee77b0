package app

import (
	"context"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lodrlodrr/check-ban-freefire-bot/internal/api"
	"github.com/lodrlodrr/check-ban-freefire-bot/internal/auth/handler"
	"github.com/lodrlodrr/check-ban-freefire-bot/internal/auth/provider"
	"github.com/lodrlodrr/check-ban-freefire-bot/internal/auth/provider/discord"
	"github.com/lodrlodrr/check-ban-freefire-bot/internal/config"
	"github.com/lodrlodrr/check-ban-freefire-bot/internal/logger"
	"github.com/lodrlodrr/check-ban-freefire-bot/internal/middleware"
	"github.com/lodrlodrr/check-ban-freefire-bot/internal/session"
)

func setupHTTP(ctx context.Context, cfg config.Config) (*gin.Engine, func() error, error) {

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	infra := setupInfra(ctx, cfg)

	// ----------------------------
	// Dependencies
	// ----------------------------

	cookieOpts := session.OptionsForEnv(cfg.IsProduction())

	var discordProvider provider.OAuthProvider
	if p, err := discord.New(
		cfg.DiscordClientID,
		cfg.DiscordClientSecret,
		cfg.DiscordCallbackURL,
	); err != nil {
		logger.Warn("discord oauth not configured, login is disabled", zap.Error(err))
	} else {
		discordProvider = p
	}

	authMiddleware := middleware.NewAuthMiddleware(
		infra.Sessions,
		infra.Store,
		cfg.SessionSecret,
		cookieOpts,
	)

	authHandler := handler.NewHandler(
		discordProvider,
		infra.Sessions,
		infra.Store,
		cfg.SessionSecret,
		cookieOpts,
	)

	apiHandler := api.NewHandler(infra.Store, authMiddleware, cfg.AppEnv)

	// ----------------------------
	// Router
	// ----------------------------

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.RequestLogger())

	// ----------------------------
	// Public Routes
	// ----------------------------

	authHandler.RegisterRoutes(router)

	page := func(name string) gin.HandlerFunc {
		file := filepath.Join(cfg.StaticDir, name)
		return func(c *gin.Context) {
			c.Header("Cache-Control", "no-cache")
			c.File(file)
		}
	}

	publicPages := map[string]string{
		"/":          "index.html",
		"/login":     "login.html",
		"/checkuser": "checkuser.html",
		"/features":  "features.html",
		"/pricing":   "pricing.html",
		"/contact":   "contact.html",
		"/about":     "about.html",
	}
	for route, file := range publicPages {
		router.GET(route, page(file))
		if route != "/" {
			router.GET(route+".html", page(file))
		}
	}
	router.GET("/Banned.html", page("Banned.html"))
	// settings page markup is public, the route with data behind it is not
	router.GET("/settings.html", page("settings.html"))

	router.GET("/health", apiHandler.Health)

	// ----------------------------
	// API Routes
	// ----------------------------

	apiGroup := router.Group("/api")
	{
		apiGroup.GET("/health", apiHandler.Health)
		apiGroup.GET("/blacklist", apiHandler.ListBlacklist)
		apiGroup.GET("/blacklist/:userId", apiHandler.GetBlacklistEntry)
		apiGroup.GET("/stats", apiHandler.Stats)
		apiGroup.GET("/auth/check", apiHandler.AuthCheck)
		// NOTE: /api/users ships unprotected, matching the deployed system;
		// it returns full user records including tokens.
		apiGroup.GET("/users", apiHandler.ListUsers)

		protected := apiGroup.Group("")
		protected.Use(middleware.GinRequireAuth(authMiddleware))
		protected.POST("/blacklist", apiHandler.CreateBlacklistEntry)
		protected.GET("/user/tokens", apiHandler.UserTokens)
		protected.GET("/activity", apiHandler.Activity)
	}

	// ----------------------------
	// Protected Web Routes
	// ----------------------------

	web := router.Group("/")
	web.Use(middleware.GinRequireAuth(authMiddleware))
	web.GET("/dashboard", page("dashboard.html"))
	web.GET("/settings", page("settings.html"))

	// ----------------------------
	// Cleanup
	// ----------------------------

	cleanup := func() error {
		return infra.Store.Close(context.Background())
	}

	return router, cleanup, nil
}
