package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"go.uber.org/fx"

	"github.com/yourusername/telegram-archive-bot/internal/domain/archive/consts"
)

// Config holds all configuration for the archive bot
type Config struct {
	Telegram  TelegramConfig
	Database  DatabaseConfig
	Archive   ArchiveConfig
	Logging   LoggingConfig
	Telemetry TelemetryConfig
	Service   ServiceConfig
}

// TelegramConfig holds Telegram bot configuration
type TelegramConfig struct {
	BotToken string
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// ArchiveConfig holds archival configuration
type ArchiveConfig struct {
	// Root is the directory all archived files live under
	Root string
	// VolumeSize caps one export volume in bytes
	VolumeSize int64
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string
}

// TelemetryConfig holds anomaly reporting and metrics configuration
type TelemetryConfig struct {
	// SentryDSN enables forwarding anomalies to sentry when non-empty
	SentryDSN string
	// MetricsPort serves prometheus metrics when non-empty
	MetricsPort string
}

// ServiceConfig holds service configuration
type ServiceConfig struct {
	Name string
}

// Result provides config parts for fx dependency injection using fx.Out pattern
type Result struct {
	fx.Out

	Config    *Config
	Telegram  *TelegramConfig
	Database  *DatabaseConfig
	Archive   *ArchiveConfig
	Logging   *LoggingConfig
	Telemetry *TelemetryConfig
	Service   *ServiceConfig
}

// Out loads configuration and returns Result for fx injection
func Out() (Result, error) {
	cfg, err := Load()
	if err != nil {
		return Result{}, err
	}

	return Result{
		Config:    cfg,
		Telegram:  &cfg.Telegram,
		Database:  &cfg.Database,
		Archive:   &cfg.Archive,
		Logging:   &cfg.Logging,
		Telemetry: &cfg.Telemetry,
		Service:   &cfg.Service,
	}, nil
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	volumeSize, err := getEnvInt64("EXPORT_VOLUME_SIZE", consts.DefaultVolumeSize)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Telegram: TelegramConfig{
			BotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "archivebot"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "archivebot"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Archive: ArchiveConfig{
			Root:       getEnv("ARCHIVE_ROOT", "/var/lib/archivebot"),
			VolumeSize: volumeSize,
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Telemetry: TelemetryConfig{
			SentryDSN:   getEnv("SENTRY_DSN", ""),
			MetricsPort: getEnv("METRICS_PORT", ""),
		},
		Service: ServiceConfig{
			Name: getEnv("SERVICE_NAME", "archive-bot"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}

	if c.Archive.Root == "" {
		return fmt.Errorf("ARCHIVE_ROOT is required")
	}

	if c.Archive.VolumeSize <= 0 {
		return fmt.Errorf("EXPORT_VOLUME_SIZE must be positive")
	}

	return nil
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt64 gets an integer environment variable with default value
func getEnvInt64(key string, defaultValue int64) (int64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}

	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return parsed, nil
}
