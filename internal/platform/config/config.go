package config

import (
	"os"
	"strings"
	"time"
)

// Config captures process-level configuration. Infrastructure pieces are
// optional: an empty URL means the corresponding backend is not configured and
// the service falls back to in-memory implementations (useful for local runs
// and tests).
type Config struct {
	Addr          string
	PostgresURL   string
	RedisURL      string
	KafkaBrokers  []string
	ReminderTopic string
	JWTSigningKey string

	// SummaryCacheTTL bounds staleness of cached dashboard summary counts.
	SummaryCacheTTL time.Duration
	// ScanInterval controls how often the reminder scanner re-classifies
	// stored requirements.
	ScanInterval time.Duration
}

// FromEnv builds a Config from environment variables so main stays lean.
func FromEnv() Config {
	cfg := Config{
		Addr:            getEnv("CERTTRACK_ADDR", ":8080"),
		PostgresURL:     os.Getenv("CERTTRACK_POSTGRES_URL"),
		RedisURL:        os.Getenv("CERTTRACK_REDIS_URL"),
		ReminderTopic:   getEnv("CERTTRACK_REMINDER_TOPIC", "certtrack.reminders"),
		JWTSigningKey:   os.Getenv("CERTTRACK_JWT_SIGNING_KEY"),
		SummaryCacheTTL: getDuration("CERTTRACK_SUMMARY_CACHE_TTL", 5*time.Minute),
		ScanInterval:    getDuration("CERTTRACK_SCAN_INTERVAL", 15*time.Minute),
	}
	if brokers := os.Getenv("CERTTRACK_KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}
	if cfg.JWTSigningKey == "" {
		// Default for development only; production deployments must override.
		cfg.JWTSigningKey = "dev-secret-key-change-in-production"
	}
	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return d
}
