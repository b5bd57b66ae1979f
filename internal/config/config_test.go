package config

import (
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "DATABASE_PATH", "TOKEN_SECRET", "TOKEN_TTL", "COOKIE_SECURE", "COOKIE_SAMESITE",
		"ALLOWED_ORIGINS", "REDIS_URL", "LOG_LEVEL", "LOG_PRETTY", "ROUTES_FILE",
		"EVENT_RETENTION", "PRUNE_SCHEDULE", "UNIFORM_AUTH_ERRORS",
	} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, "./salonx.db", cfg.DatabasePath)
	assert.Empty(t, cfg.TokenSecret)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.False(t, cfg.CookieSecure)
	assert.Equal(t, http.SameSiteLaxMode, cfg.CookieSameSite)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.AllowedOrigins)
	assert.Empty(t, cfg.RedisURL)
	assert.True(t, cfg.LogPretty)
	assert.Equal(t, 30*24*time.Hour, cfg.EventRetention)
	assert.Equal(t, "@hourly", cfg.PruneSchedule)
	assert.False(t, cfg.UniformErrors)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("TOKEN_SECRET", "s3cret")
	t.Setenv("TOKEN_TTL", "2h")
	t.Setenv("COOKIE_SECURE", "true")
	t.Setenv("COOKIE_SAMESITE", "strict")
	t.Setenv("ALLOWED_ORIGINS", " https://a.example , ,https://b.example")
	t.Setenv("UNIFORM_AUTH_ERRORS", "1")
	t.Setenv("EVENT_RETENTION", "48h")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.ServerPort)
	assert.Equal(t, "s3cret", cfg.TokenSecret)
	assert.Equal(t, 2*time.Hour, cfg.TokenTTL)
	assert.True(t, cfg.CookieSecure)
	assert.Equal(t, http.SameSiteStrictMode, cfg.CookieSameSite)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.True(t, cfg.UniformErrors)
	assert.Equal(t, 48*time.Hour, cfg.EventRetention)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"port not a number", "PORT", "eighty"},
		{"ttl unparsable", "TOKEN_TTL", "one day"},
		{"ttl negative", "TOKEN_TTL", "-1h"},
		{"retention unparsable", "EVENT_RETENTION", "forever"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("PORT", "8080")
			t.Setenv(tc.key, tc.val)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestSameSiteFromString(t *testing.T) {
	assert.Equal(t, http.SameSiteStrictMode, sameSiteFromString("Strict"))
	assert.Equal(t, http.SameSiteNoneMode, sameSiteFromString("none"))
	assert.Equal(t, http.SameSiteLaxMode, sameSiteFromString("lax"))
	assert.Equal(t, http.SameSiteLaxMode, sameSiteFromString("bogus"))
}
