package config

import (
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the application configuration.
type Config struct {
	ServerPort     int
	DatabasePath   string
	TokenSecret    string        // HMAC key for session tokens, empty means Login is misconfigured
	TokenTTL       time.Duration // session token lifetime
	CookieSecure   bool
	CookieSameSite http.SameSite
	AllowedOrigins []string
	RedisURL       string // token revocation list, empty disables revocation
	LogLevel       string
	LogPretty      bool
	RoutesFile     string // optional YAML gate policy
	EventRetention time.Duration
	PruneSchedule  string // cron spec for the auth event pruner
	UniformErrors  bool   // report every credential failure as "Invalid credentials"
}

// Load loads configuration from environment variables or sets defaults.
func Load() (*Config, error) {
	portStr := getEnv("PORT", "8080")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT %q: %w", portStr, err)
	}

	ttl, err := durationFromEnv("TOKEN_TTL", 24*time.Hour)
	if err != nil {
		return nil, err
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("TOKEN_TTL must be positive, got %s", ttl)
	}

	retention, err := durationFromEnv("EVENT_RETENTION", 30*24*time.Hour)
	if err != nil {
		return nil, err
	}

	return &Config{
		ServerPort:     port,
		DatabasePath:   getEnv("DATABASE_PATH", "./salonx.db"),
		TokenSecret:    os.Getenv("TOKEN_SECRET"),
		TokenTTL:       ttl,
		CookieSecure:   boolFromEnv("COOKIE_SECURE", false),
		CookieSameSite: sameSiteFromString(getEnv("COOKIE_SAMESITE", "Lax")),
		AllowedOrigins: parseCSV(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		RedisURL:       os.Getenv("REDIS_URL"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogPretty:      boolFromEnv("LOG_PRETTY", true),
		RoutesFile:     os.Getenv("ROUTES_FILE"),
		EventRetention: retention,
		PruneSchedule:  getEnv("PRUNE_SCHEDULE", "@hourly"),
		UniformErrors:  boolFromEnv("UNIFORM_AUTH_ERRORS", false),
	}, nil
}

// Helper to get an environment variable with a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// boolFromEnv falls back to defaultVal when the variable is empty or not a bool.
func boolFromEnv(key string, defaultVal bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultVal
}

func durationFromEnv(key string, defaultVal time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return d, nil
}

// parseCSV splits a comma-separated list, skipping empty entries.
func parseCSV(s string) []string {
	var out []string
	for _, v := range strings.Split(s, ",") {
		if t := strings.TrimSpace(v); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func sameSiteFromString(v string) http.SameSite {
	switch strings.ToLower(v) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}
