package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/pipewatch/pipewatch/internal/pipeline"
)

// Config represents runtime configuration for one monitor invocation.
type Config struct {
	Database DatabaseConfig
	Chat     ChatConfig
	Logging  LoggingConfig
	Metrics  MetricsConfig

	// Pipelines replaces the built-in catalog when non-empty.
	Pipelines []pipeline.Config
}

// DatabaseConfig holds warehouse connection parameters.
type DatabaseConfig struct {
	URL            string
	ConnectTimeout time.Duration
}

// ChatConfig holds the chat webhook destination.
type ChatConfig struct {
	WebhookURL   string
	DashboardURL string
}

// LoggingConfig represents structured logging configuration.
type LoggingConfig struct {
	Level  slog.Level
	Format string
	Dir    string
}

// MetricsConfig holds the optional Pushgateway destination for batch metrics.
type MetricsConfig struct {
	PushgatewayURL string
}

const (
	defaultConnectTimeout = 10 * time.Second
	defaultLogFormat      = "text"
	defaultLogDir         = "logs"
)

// fileConfig mirrors the YAML document shape.
type fileConfig struct {
	Database struct {
		URL                   string `yaml:"url"`
		ConnectTimeoutSeconds int    `yaml:"connect_timeout_seconds"`
	} `yaml:"database"`
	Chat struct {
		WebhookURL   string `yaml:"webhook_url"`
		DashboardURL string `yaml:"dashboard_url"`
	} `yaml:"chat"`
	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Dir    string `yaml:"dir"`
	} `yaml:"logging"`
	Metrics struct {
		PushgatewayURL string `yaml:"pushgateway_url"`
	} `yaml:"metrics"`
	Pipelines []pipeline.Config `yaml:"pipelines"`
}

// Load reads configuration from the YAML file at path, applies defaults, then
// environment-variable overrides, and validates the result.
func Load(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var file fileConfig
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	cfg := Config{
		Database: DatabaseConfig{
			URL:            file.Database.URL,
			ConnectTimeout: defaultConnectTimeout,
		},
		Chat: ChatConfig{
			WebhookURL:   file.Chat.WebhookURL,
			DashboardURL: file.Chat.DashboardURL,
		},
		Logging: LoggingConfig{
			Level:  slog.LevelInfo,
			Format: defaultLogFormat,
			Dir:    defaultLogDir,
		},
		Metrics: MetricsConfig{
			PushgatewayURL: file.Metrics.PushgatewayURL,
		},
		Pipelines: file.Pipelines,
	}

	if file.Database.ConnectTimeoutSeconds > 0 {
		cfg.Database.ConnectTimeout = time.Duration(file.Database.ConnectTimeoutSeconds) * time.Second
	}

	if file.Logging.Level != "" {
		level, err := parseLogLevel(file.Logging.Level)
		if err != nil {
			return Config{}, fmt.Errorf("invalid logging.level: %w", err)
		}
		cfg.Logging.Level = level
	}
	if file.Logging.Format != "" {
		cfg.Logging.Format = file.Logging.Format
	}
	if file.Logging.Dir != "" {
		cfg.Logging.Dir = file.Logging.Dir
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// applyEnv layers environment overrides on top of file values.
func applyEnv(cfg *Config) error {
	cfg.Database.URL = getEnv("DATABASE_URL", cfg.Database.URL)
	cfg.Chat.WebhookURL = getEnv("CHAT_WEBHOOK_URL", cfg.Chat.WebhookURL)
	cfg.Chat.DashboardURL = getEnv("CHAT_DASHBOARD_URL", cfg.Chat.DashboardURL)
	cfg.Logging.Dir = getEnv("LOG_DIR", cfg.Logging.Dir)
	cfg.Metrics.PushgatewayURL = getEnv("PUSHGATEWAY_URL", cfg.Metrics.PushgatewayURL)

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		level, err := parseLogLevel(v)
		if err != nil {
			return fmt.Errorf("invalid LOG_LEVEL: %w", err)
		}
		cfg.Logging.Level = level
	}

	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}

	return nil
}

func (c Config) validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("database.url is required")
	}

	switch c.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("invalid logging.format: must be 'json' or 'text'")
	}

	seen := make(map[string]bool, len(c.Pipelines))
	for _, p := range c.Pipelines {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("pipeline %q: %w", p.Name, err)
		}
		if seen[p.Name] {
			return fmt.Errorf("pipeline %q: duplicate name", p.Name)
		}
		seen[p.Name] = true
	}

	return nil
}

// PipelineCatalog returns the configured pipelines, falling back to the
// built-in catalog when the config file defines none.
func (c Config) PipelineCatalog() []pipeline.Config {
	if len(c.Pipelines) > 0 {
		return c.Pipelines
	}
	return pipeline.Catalog()
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func parseLogLevel(raw string) (slog.Level, error) {
	switch raw {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("must be one of debug, info, warn, error")
	}
}
