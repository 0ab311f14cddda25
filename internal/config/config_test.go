package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "DB_DSN", "SESSION_TTL", "COOKIE_SECURE", "SEED_DEMO", "RATE_LIMIT"} {
		t.Setenv(k, "")
	}
	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "immoportal.db", cfg.DBDSN)
	assert.Equal(t, 72*time.Hour, cfg.SessionTTL)
	assert.False(t, cfg.CookieSecure)
	assert.True(t, cfg.SeedDemo)
	assert.Equal(t, 120, cfg.RateLimit)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DB_DSN", "postgres://immo:secret@db:5432/immo?sslmode=disable")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("COOKIE_SECURE", "true")
	t.Setenv("SEED_DEMO", "false")
	t.Setenv("RATE_LIMIT", "30")

	cfg := Load()
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.True(t, cfg.CookieSecure)
	assert.False(t, cfg.SeedDemo)
	assert.Equal(t, 30, cfg.RateLimit)
}

func TestInvalidValuesFallBack(t *testing.T) {
	t.Setenv("SESSION_TTL", "forever")
	t.Setenv("RATE_LIMIT", "lots")
	t.Setenv("COOKIE_SECURE", "maybe")

	cfg := Load()
	assert.Equal(t, 72*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 120, cfg.RateLimit)
	assert.False(t, cfg.CookieSecure)
}

func TestRedactDSN(t *testing.T) {
	assert.Equal(t, "postgres://immo:***@db:5432/immo", redactDSN("postgres://immo:secret@db:5432/immo"))
	assert.Equal(t, "immoportal.db", redactDSN("immoportal.db"))
	assert.Equal(t, ":memory:", redactDSN(":memory:"))
}
