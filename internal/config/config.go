package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port         string
	DBDSN        string
	TemplatesDir string
	StaticDir    string
	LogFile      string

	SessionSecret string
	SessionTTL    time.Duration
	CookieSecure  bool

	// SeedDemo inserts demo profiles and listings into an empty database.
	SeedDemo bool

	RateLimit      int // requests per minute per IP
	LoginRateLimit int // sign-in attempts per 10 minutes per IP

	NewsFeedURL string
	NewsFeedTTL time.Duration
}

const devSecret = "immoportal-dev-secret-change-me"

func Load() Config {
	// A missing .env is normal outside local development.
	if err := godotenv.Load(); err == nil {
		log.Printf("[config] loaded .env")
	}

	cfg := Config{
		Port:           getEnvString("PORT", "8080"),
		DBDSN:          getEnvString("DB_DSN", "immoportal.db"),
		TemplatesDir:   getEnvString("TEMPLATES_DIR", "./web/templates"),
		StaticDir:      getEnvString("STATIC_DIR", "./web/static"),
		LogFile:        getEnvString("LOG_FILE", ""),
		SessionSecret:  getEnvString("SESSION_SECRET", devSecret),
		SessionTTL:     getEnvDuration("SESSION_TTL", 72*time.Hour),
		CookieSecure:   getEnvBool("COOKIE_SECURE", false),
		SeedDemo:       getEnvBool("SEED_DEMO", true),
		RateLimit:      getEnvInt("RATE_LIMIT", 120),
		LoginRateLimit: getEnvInt("LOGIN_RATE_LIMIT", 5),
		NewsFeedURL:    getEnvString("NEWS_FEED_URL", ""),
		NewsFeedTTL:    getEnvDuration("NEWS_FEED_TTL", 30*time.Minute),
	}
	if cfg.SessionSecret == devSecret {
		log.Printf("[warn] SESSION_SECRET not set; using development secret")
	}
	log.Printf("[config] PORT=%s DB_DSN=%s TEMPLATES_DIR=%s LOG_FILE=%s SEED_DEMO=%t",
		cfg.Port, redactDSN(cfg.DBDSN), cfg.TemplatesDir, cfg.LogFile, cfg.SeedDemo)
	return cfg
}

// Defaults returns a configuration suitable for tests: in-memory database,
// demo seed, generous rate limits.
func Defaults() Config {
	return Config{
		Port:           "8080",
		DBDSN:          ":memory:",
		TemplatesDir:   "./web/templates",
		StaticDir:      "./web/static",
		SessionSecret:  devSecret,
		SessionTTL:     time.Hour,
		SeedDemo:       true,
		RateLimit:      1000,
		LoginRateLimit: 1000,
		NewsFeedTTL:    time.Minute,
	}
}

// redactDSN hides the password of a URL-style DSN.
func redactDSN(dsn string) string {
	at := strings.LastIndex(dsn, "@")
	scheme := strings.Index(dsn, "://")
	if at < 0 || scheme < 0 || at < scheme {
		return dsn
	}
	creds := dsn[scheme+3 : at]
	if i := strings.Index(creds, ":"); i >= 0 {
		creds = creds[:i] + ":***"
	}
	return dsn[:scheme+3] + creds + dsn[at:]
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvBool(key string, defaultVal bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return defaultVal
	}
	return b
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}
