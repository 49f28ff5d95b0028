package infra

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Environments accepted in APP_ENV.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config holds all application configuration parsed from environment variables.
type Config struct {
	AppEnv     string `env:"APP_ENV" envDefault:"development"`
	LogLevel   string `env:"LOG_LEVEL" envDefault:"info"`
	ListenAddr string `env:"LISTEN_ADDR" envDefault:"0.0.0.0"`
	Port       int    `env:"PORT"`

	// Database
	DatabaseURL            string `env:"DATABASE_URL"`
	DatabaseHost           string `env:"DATABASE_HOST" envDefault:"localhost"`
	DatabasePort           int    `env:"DATABASE_PORT" envDefault:"5432"`
	DatabaseName           string `env:"DATABASE_DATABASE" envDefault:"hunt"`
	DatabaseUser           string `env:"DATABASE_USER" envDefault:"hunt"`
	DatabasePassword       string `env:"DATABASE_PASSWORD" envDefault:"hunt"`
	DatabaseSSL            bool   `env:"DATABASE_SSL" envDefault:"false"`
	DatabaseMaxConnections int32  `env:"DATABASE_MAX_CONNECTIONS" envDefault:"20"`
	MigrateOnStart         bool   `env:"MIGRATE_ON_START" envDefault:"false"`

	// Notifications
	SlackHook     string        `env:"SLACK_HOOK"`
	NotifyTimeout time.Duration `env:"NOTIFY_TIMEOUT" envDefault:"5s"`

	// Kafka
	KafkaBrokers string `env:"KAFKA_BROKERS" envDefault:"localhost:9092"`
	KafkaEnabled bool   `env:"KAFKA_ENABLED" envDefault:"false"`
	KafkaTopic   string `env:"KAFKA_TOPIC" envDefault:"hunt.redemptions"`
	KafkaGroupID string `env:"KAFKA_GROUP_ID" envDefault:"hunt-score-projection"`

	// CORS
	CORSAllowedOrigins string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*"`
}

// LoadConfig parses environment variables into a Config struct.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Validate checks the environment split: production must be given an
// explicit PORT, development falls back to 3000.
func (c *Config) Validate() error {
	switch c.AppEnv {
	case EnvDevelopment:
		if c.Port == 0 {
			c.Port = 3000
		}
	case EnvProduction:
		if c.Port == 0 {
			return fmt.Errorf("PORT is required when APP_ENV=%s", EnvProduction)
		}
	default:
		return fmt.Errorf("APP_ENV must be %q or %q, got %q", EnvDevelopment, EnvProduction, c.AppEnv)
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("PORT out of range: %d", c.Port)
	}
	if c.DatabaseMaxConnections < 1 {
		return fmt.Errorf("DATABASE_MAX_CONNECTIONS must be positive, got %d", c.DatabaseMaxConnections)
	}
	if c.SlackHook != "" {
		if _, err := url.ParseRequestURI(c.SlackHook); err != nil {
			return fmt.Errorf("SLACK_HOOK is not a valid URL: %w", err)
		}
	}
	return nil
}

// Addr is the host:port the HTTP server listens on.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.ListenAddr, c.Port)
}

// DSN returns the PostgreSQL connection string, preferring DATABASE_URL if set.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	sslMode := "disable"
	if c.DatabaseSSL {
		sslMode = "require"
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DatabaseUser, c.DatabasePassword),
		Host:     fmt.Sprintf("%s:%d", c.DatabaseHost, c.DatabasePort),
		Path:     c.DatabaseName,
		RawQuery: "sslmode=" + sslMode,
	}
	return u.String()
}

// SlogLevel maps LOG_LEVEL to a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
