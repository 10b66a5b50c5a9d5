// Package config reads all runtime configuration from the environment so
// main stays lean. Defaults suit local development; production overrides
// everything through env vars.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is the full runtime configuration for the service.
type Config struct {
	Addr     string
	LogLevel string

	// DatabaseURL feeds both the pgx pool (estate store) and the lib/pq
	// sql.DB (audit trail store).
	DatabaseURL string

	Redis RedisConfig
	Kafka KafkaConfig
	JWT   JWTConfig

	// FamilyRegistryURL points at the civil registry API. Empty means no
	// registry integration; family structures come from the fixtures file.
	FamilyRegistryURL   string
	FamilyRegistryToken string

	// FamilyFixturesPath is a JSON file of family structures. It is the
	// sole source when no registry is configured, and the offline fallback
	// when one is.
	FamilyFixturesPath string

	// FamilyCacheTTL bounds how stale a cached family structure may grow.
	FamilyCacheTTL time.Duration

	// AuditBuffer is the channel capacity between mutations and the audit
	// worker.
	AuditBuffer int

	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

// RedisConfig drives the go-redis client.
type RedisConfig struct {
	// URL in redis:// form. Empty disables Redis and the family cache
	// falls back to direct provider lookups.
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig drives the franz-go event publisher.
type KafkaConfig struct {
	// Brokers is the seed broker list. Empty disables event publishing.
	Brokers []string
	Topic   string
}

// JWTConfig drives bearer token validation.
type JWTConfig struct {
	SigningKey string
	Issuer     string
	Audience   string
}

// FromEnv builds a Config from environment variables.
func FromEnv() Config {
	return Config{
		Addr:        envString("MIRATHI_ADDR", ":8080"),
		LogLevel:    envString("MIRATHI_LOG_LEVEL", "info"),
		DatabaseURL: envString("MIRATHI_DATABASE_URL", ""),
		Redis: RedisConfig{
			URL:          envString("MIRATHI_REDIS_URL", ""),
			PoolSize:     envInt("MIRATHI_REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("MIRATHI_REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDuration("MIRATHI_REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("MIRATHI_REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("MIRATHI_REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Kafka: KafkaConfig{
			Brokers: envList("MIRATHI_KAFKA_BROKERS"),
			Topic:   envString("MIRATHI_KAFKA_TOPIC", "estate.events"),
		},
		JWT: JWTConfig{
			// Default is for development only; override in production
			SigningKey: envString("MIRATHI_JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
			Issuer:     envString("MIRATHI_JWT_ISSUER", "mirathi"),
			Audience:   envString("MIRATHI_JWT_AUDIENCE", "mirathi-api"),
		},
		FamilyRegistryURL:   envString("MIRATHI_FAMILY_REGISTRY_URL", ""),
		FamilyRegistryToken: envString("MIRATHI_FAMILY_REGISTRY_TOKEN", ""),
		FamilyFixturesPath:  envString("MIRATHI_FAMILY_FIXTURES", ""),

		FamilyCacheTTL:  envDuration("MIRATHI_FAMILY_CACHE_TTL", 15*time.Minute),
		AuditBuffer:     envInt("MIRATHI_AUDIT_BUFFER", 256),
		RequestTimeout:  envDuration("MIRATHI_REQUEST_TIMEOUT", 30*time.Second),
		ShutdownTimeout: envDuration("MIRATHI_SHUTDOWN_TIMEOUT", 15*time.Second),
	}
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
