package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

var (
	ErrMissingDatabaseURL = errors.New("DATABASE_URL environment variable is not set")
	ErrMissingAccessKey   = errors.New("DATABASE_SERVICE_ROLE_KEY or DATABASE_ANON_KEY must be set")
)

type Config struct {
	DatabaseURL string
	// AccessKey is the service-role key when present, otherwise the anon key.
	AccessKey string
	Port      string

	RedisURL        string
	LettersCacheTTL time.Duration

	DeliveryDelay time.Duration

	RateLimitRPS   float64
	RateLimitBurst int
	// TrustProxy makes the rate limiter key on the last X-Forwarded-For hop.
	TrustProxy bool

	CORSAllowedOrigins []string

	MetricsUser string
	MetricsPass string

	LogLevel  string
	LogFormat string
}

// Load reads the configuration from the environment. A missing database URL
// or access key is an error; everything else has a default.
func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL:        strings.TrimSpace(os.Getenv("DATABASE_URL")),
		AccessKey:          getEnv("DATABASE_SERVICE_ROLE_KEY", getEnv("DATABASE_ANON_KEY", "")),
		Port:               getEnv("PORT", "3333"),
		RedisURL:           getEnv("REDIS_URL", ""),
		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		MetricsUser:        getEnv("METRICS_USER", ""),
		MetricsPass:        getEnv("METRICS_PASS", ""),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogFormat:          getEnv("LOG_FORMAT", "json"),
	}

	if cfg.DatabaseURL == "" {
		return nil, ErrMissingDatabaseURL
	}
	if cfg.AccessKey == "" {
		return nil, ErrMissingAccessKey
	}

	var err error
	if cfg.LettersCacheTTL, err = getDuration("LETTERS_CACHE_TTL", 5*time.Second); err != nil {
		return nil, err
	}
	if cfg.DeliveryDelay, err = getDuration("LETTER_DELIVERY_DELAY", 0); err != nil {
		return nil, err
	}
	if cfg.DeliveryDelay < 0 {
		return nil, fmt.Errorf("LETTER_DELIVERY_DELAY must not be negative, got %s", cfg.DeliveryDelay)
	}
	if cfg.RateLimitRPS, err = getFloat("RATE_LIMIT_RPS", 5); err != nil {
		return nil, err
	}
	if cfg.RateLimitRPS <= 0 {
		return nil, fmt.Errorf("RATE_LIMIT_RPS must be positive, got %v", cfg.RateLimitRPS)
	}
	if cfg.RateLimitBurst, err = getInt("RATE_LIMIT_BURST", 30); err != nil {
		return nil, err
	}
	if cfg.RateLimitBurst < 1 {
		return nil, fmt.Errorf("RATE_LIMIT_BURST must be at least 1, got %d", cfg.RateLimitBurst)
	}
	if cfg.TrustProxy, err = getBool("TRUST_PROXY", false); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getFloat(key string, fallback float64) (float64, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}

func getInt(key string, fallback int) (int, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getBool(key string, fallback bool) (bool, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
