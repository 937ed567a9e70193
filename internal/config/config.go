// Package config centralises configuration parsing for the fitness-center binaries.
package config

import (
	"log/slog"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Storage backends accepted by STORAGE_BACKEND.
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Database holds the connection parameters for the relational store.
type Database struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// Config captures runtime configuration values for the API and consumer.
type Config struct {
	HTTPAddress      string
	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
	LogLevel         slog.Level

	StorageBackend string
	Database       Database

	KafkaBrokers      []string
	SchemaRegistryURL string

	ConsumerGroupID string
	ConsumerTopics  []string
	MetricsAddress  string
}

// Load reads environment variables into Config, applying defaults for local dev.
func Load() Config {
	cfg := Config{
		HTTPAddress:      getEnv("HTTP_ADDRESS", ":8080"),
		HTTPReadTimeout:  getDurationEnv("HTTP_READ_TIMEOUT", 5*time.Second),
		HTTPWriteTimeout: getDurationEnv("HTTP_WRITE_TIMEOUT", 10*time.Second),
		HTTPIdleTimeout:  getDurationEnv("HTTP_IDLE_TIMEOUT", 60*time.Second),
		LogLevel:         parseLevel(getEnv("LOG_LEVEL", "info")),
		StorageBackend:   strings.ToLower(getEnv("STORAGE_BACKEND", StoragePostgres)),
		Database: Database{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getIntEnv("DB_PORT", 5432),
			User:     getEnv("DB_USER", "fitness"),
			Password: getEnv("DB_PASSWORD", "fitness"),
			Name:     getEnv("DB_NAME", "fitness_center"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		SchemaRegistryURL: getEnv("SCHEMA_REGISTRY_URL", ""),
		ConsumerGroupID:   getEnv("CONSUMER_GROUP_ID", "fitness-event-log"),
		MetricsAddress:    getEnv("METRICS_ADDRESS", ":9195"),
	}

	cfg.KafkaBrokers = splitAndTrim(getEnv("KAFKA_BROKERS", ""))
	cfg.ConsumerTopics = splitAndTrim(getEnv("CONSUMER_TOPICS", "member_events,workout_events"))
	return cfg
}

// PostgresURL assembles a pgx connection string. Credentials are escaped.
func (c Config) PostgresURL() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.Database.User, c.Database.Password),
		Host:   net.JoinHostPort(c.Database.Host, strconv.Itoa(c.Database.Port)),
		Path:   "/" + c.Database.Name,
	}
	q := url.Values{}
	q.Set("sslmode", c.Database.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

// PublishingEnabled reports whether Kafka brokers are configured.
func (c Config) PublishingEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

func parseLevel(value string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(value)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func splitAndTrim(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}
