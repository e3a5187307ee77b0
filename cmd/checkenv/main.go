// Command checkenv prints a hosting configuration report: which
// environment variables are set, which fall back to defaults, and what
// that means for the running server.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	fmt.Println("Checking hosting configuration...")
	fmt.Println(strings.Repeat("=", 50))

	check("PORT", "3000", "set PORT if your host requires a specific port")
	check("HOST", "0.0.0.0", "")
	check("APP_ENV", "development", "set APP_ENV=production for deployments")

	required("MONGODB_URI", "blacklist reads will be empty and sessions fall back to memory")
	check("MONGODB_DB_NAME", "primebot", "")

	required("DISCORD_CLIENT_ID", "Discord login will be disabled")
	required("DISCORD_CLIENT_SECRET", "Discord login will be disabled")
	check("DISCORD_CALLBACK_URL", "http://localhost:3000/auth/discord/callback",
		"must match the redirect URL registered with the Discord application")

	required("SESSION_SECRET", "session cookies will be signed with the fallback secret")

	if os.Getenv("SESSION_STORE") == "redis" {
		required("REDIS_ADDR", "redis session store selected but no address given")
	}

	fmt.Println(strings.Repeat("=", 50))
}

func check(key, fallback, hint string) {
	if v := os.Getenv(key); v != "" {
		fmt.Printf("[ok] %s: %s\n", key, v)
		return
	}
	fmt.Printf("[ok] %s: %s (default)\n", key, fallback)
	if hint != "" {
		fmt.Printf("     hint: %s\n", hint)
	}
}

func required(key, consequence string) {
	if os.Getenv(key) != "" {
		fmt.Printf("[ok] %s: set\n", key)
		return
	}
	fmt.Printf("[!!] %s: missing - %s\n", key, consequence)
}
