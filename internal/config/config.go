package config

import (
	"os"
	"strings"
	"time"
)

// VoterCookieAge is how long the signed identity cookie lives. Anonymous
// votes stay attached to a browser for about a year.
const VoterCookieAge = 365 * 24 * time.Hour

type Config struct {
	DatabaseURL   string
	Port          string
	SessionSecret string
	CORSOrigins   []string
	AdminEmail    string
	AdminPassword string
}

// Load reads configuration from the environment with local-dev fallbacks.
func Load() Config {
	return Config{
		DatabaseURL:   getenv("DATABASE_URL", "host=localhost user=postgres password=postgres dbname=argot port=5432 sslmode=disable"),
		Port:          getenv("PORT", "8080"),
		SessionSecret: getenv("SESSION_SECRET", "secret_key_change_me"),
		CORSOrigins:   strings.Split(getenv("CORS_ORIGINS", "http://localhost:3000"), ","),
		AdminEmail:    os.Getenv("ADMIN_EMAIL"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
