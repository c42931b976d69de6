package app

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	AdminJWTSecret string // Required: shared HS256 secret for admin bearer tokens

	InstagramClientID     string // Required for real identity linking
	InstagramClientSecret string // Required for real identity linking
	InstagramRedirectURI  string // Required for real identity linking

	OnboardingBaseURL    string        // Base URL for invite links (default: http://localhost:8080/onboarding)
	InviteTTL            time.Duration // Invitation lifetime (default: 168h = 7 days)
	DatabaseFile         string        // Path to SQLite database file (default: ./kolboard.db)
	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 1h)
}

func LoadConfig() Config {
	return Config{
		AdminJWTSecret:        os.Getenv("ADMIN_JWT_SECRET"),
		InstagramClientID:     os.Getenv("INSTAGRAM_CLIENT_ID"),
		InstagramClientSecret: os.Getenv("INSTAGRAM_CLIENT_SECRET"),
		InstagramRedirectURI:  os.Getenv("INSTAGRAM_REDIRECT_URI"),
		OnboardingBaseURL: getEnvOrDefault(
			"ONBOARDING_BASE_URL",
			"http://localhost:8080/onboarding",
		),
		InviteTTL:            getEnvDurationOrDefault("INVITE_TTL", 7*24*time.Hour),
		DatabaseFile:         getEnvOrDefault("DATABASE_FILE", "kolboard.db"),
		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer minutes (for backwards compatibility)
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
