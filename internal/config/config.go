package config

import (
	"os"
)

type Config struct {
	AppPort string
	AppHost string
	AppEnv  string

	MongoURI    string
	MongoDBName string

	DiscordClientID     string
	DiscordClientSecret string
	DiscordCallbackURL  string

	SessionSecret string
	SessionStore  string // "mongo" (default) or "redis"

	RedisAddr     string
	RedisPassword string

	StaticDir string
}

func Load() Config {

	cfg := Config{

		AppPort: getenv("PORT", "3000"),
		AppHost: getenv("HOST", "0.0.0.0"),
		AppEnv:  getenv("APP_ENV", "development"),

		MongoURI:    os.Getenv("MONGODB_URI"),
		MongoDBName: getenv("MONGODB_DB_NAME", "primebot"),

		DiscordClientID:     os.Getenv("DISCORD_CLIENT_ID"),
		DiscordClientSecret: os.Getenv("DISCORD_CLIENT_SECRET"),
		DiscordCallbackURL:  getenv("DISCORD_CALLBACK_URL", "http://localhost:3000/auth/discord/callback"),

		SessionSecret: getenv("SESSION_SECRET", "fallback_secret"),
		SessionStore:  getenv("SESSION_STORE", "mongo"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		StaticDir: getenv("STATIC_DIR", "web/html"),
	}

	return cfg

}

// IsProduction reports whether the app runs in production mode.
// It gates cookie security flags and error message verbosity.
func (c Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
