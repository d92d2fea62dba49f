package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"log/slog"
)

const minimalConfig = `
database:
  url: postgres://monitor@localhost:5432/warehouse?sslmode=disable
`

func TestLoadDefaults(t *testing.T) {
	clearConfigEnv(t)

	cfg, err := Load(writeConfig(t, minimalConfig))
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.Database.URL == "" {
		t.Error("expected database url to be populated")
	}
	if cfg.Database.ConnectTimeout != defaultConnectTimeout {
		t.Errorf("expected default connect timeout %v, got %v", defaultConnectTimeout, cfg.Database.ConnectTimeout)
	}
	if cfg.Logging.Level != slog.LevelInfo {
		t.Errorf("expected default log level %v, got %v", slog.LevelInfo, cfg.Logging.Level)
	}
	if cfg.Logging.Format != defaultLogFormat {
		t.Errorf("expected default log format %q, got %q", defaultLogFormat, cfg.Logging.Format)
	}
	if cfg.Logging.Dir != defaultLogDir {
		t.Errorf("expected default log dir %q, got %q", defaultLogDir, cfg.Logging.Dir)
	}
	if cfg.Chat.WebhookURL != "" {
		t.Errorf("expected empty webhook url, got %q", cfg.Chat.WebhookURL)
	}
	if cfg.Metrics.PushgatewayURL != "" {
		t.Errorf("expected empty pushgateway url, got %q", cfg.Metrics.PushgatewayURL)
	}
	if len(cfg.Pipelines) != 0 {
		t.Errorf("expected no pipeline overrides, got %d", len(cfg.Pipelines))
	}
}

func TestLoadFullFile(t *testing.T) {
	clearConfigEnv(t)

	cfg, err := Load(writeConfig(t, `
database:
  url: postgres://monitor@db:5432/warehouse
  connect_timeout_seconds: 30
chat:
  webhook_url: https://chat.googleapis.com/v1/spaces/AAA/messages?key=k&token=t
  dashboard_url: http://monitor-host:5000
logging:
  level: debug
  format: json
  dir: /var/log/pipewatch
metrics:
  pushgateway_url: http://pushgateway:9091
`))
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.Database.ConnectTimeout != 30*time.Second {
		t.Errorf("expected connect timeout %v, got %v", 30*time.Second, cfg.Database.ConnectTimeout)
	}
	if cfg.Chat.WebhookURL == "" || cfg.Chat.DashboardURL == "" {
		t.Errorf("expected chat urls to be populated, got %+v", cfg.Chat)
	}
	if cfg.Logging.Level != slog.LevelDebug {
		t.Errorf("expected log level %v, got %v", slog.LevelDebug, cfg.Logging.Level)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("expected log format %q, got %q", "json", cfg.Logging.Format)
	}
	if cfg.Logging.Dir != "/var/log/pipewatch" {
		t.Errorf("expected log dir %q, got %q", "/var/log/pipewatch", cfg.Logging.Dir)
	}
	if cfg.Metrics.PushgatewayURL != "http://pushgateway:9091" {
		t.Errorf("expected pushgateway url to be populated, got %q", cfg.Metrics.PushgatewayURL)
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	clearConfigEnv(t)

	overrides := map[string]string{
		"DATABASE_URL":     "postgres://override@db:5432/warehouse",
		"CHAT_WEBHOOK_URL": "https://chat.googleapis.com/v1/spaces/BBB/messages",
		"LOG_LEVEL":        "warn",
		"LOG_FORMAT":       "json",
		"LOG_DIR":          "/tmp/monitor-logs",
		"PUSHGATEWAY_URL":  "http://gateway:9091",
	}
	for key, value := range overrides {
		t.Setenv(key, value)
	}

	cfg, err := Load(writeConfig(t, minimalConfig))
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.Database.URL != overrides["DATABASE_URL"] {
		t.Errorf("expected overridden database url %q, got %q", overrides["DATABASE_URL"], cfg.Database.URL)
	}
	if cfg.Chat.WebhookURL != overrides["CHAT_WEBHOOK_URL"] {
		t.Errorf("expected overridden webhook url %q, got %q", overrides["CHAT_WEBHOOK_URL"], cfg.Chat.WebhookURL)
	}
	if cfg.Logging.Level != slog.LevelWarn {
		t.Errorf("expected log level %v, got %v", slog.LevelWarn, cfg.Logging.Level)
	}
	if cfg.Logging.Format != overrides["LOG_FORMAT"] {
		t.Errorf("expected log format %q, got %q", overrides["LOG_FORMAT"], cfg.Logging.Format)
	}
	if cfg.Logging.Dir != overrides["LOG_DIR"] {
		t.Errorf("expected log dir %q, got %q", overrides["LOG_DIR"], cfg.Logging.Dir)
	}
	if cfg.Metrics.PushgatewayURL != overrides["PUSHGATEWAY_URL"] {
		t.Errorf("expected pushgateway url %q, got %q", overrides["PUSHGATEWAY_URL"], cfg.Metrics.PushgatewayURL)
	}
}

func TestLoadWithInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"Missing database url", "chat:\n  webhook_url: https://example.com\n"},
		{"Bad log level", minimalConfig + "logging:\n  level: verbose\n"},
		{"Bad log format", minimalConfig + "logging:\n  format: xml\n"},
		{"Malformed yaml", "database: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearConfigEnv(t)

			if _, err := Load(writeConfig(t, tt.content)); err == nil {
				t.Fatalf("expected error for config %q", tt.content)
			}
		})
	}
}

func TestLoadWithInvalidEnv(t *testing.T) {
	tests := map[string]string{
		"LOG_LEVEL":  "verbose",
		"LOG_FORMAT": "xml",
	}

	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			clearConfigEnv(t)
			t.Setenv(key, value)

			if _, err := Load(writeConfig(t, minimalConfig)); err == nil {
				t.Fatalf("expected error when %s=%q", key, value)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	clearConfigEnv(t)

	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestLoadPipelineOverrides(t *testing.T) {
	clearConfigEnv(t)

	cfg, err := Load(writeConfig(t, minimalConfig+`
pipelines:
  - name: orders
    table: fact_orders
    date_column: ordered_at
    description: Order records
    critical_hours: 6
    warning_hours: 3
    min_daily_records: 50
    check_after_hour: 9
  - name: refunds
    table: fact_refunds
    date_column: refunded_at
    critical_hours: 24
`))
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	catalog := cfg.PipelineCatalog()
	if len(catalog) != 2 {
		t.Fatalf("expected 2 configured pipelines, got %d", len(catalog))
	}
	if catalog[0].Name != "orders" || catalog[0].MinDailyRecords != 50 {
		t.Errorf("unexpected first pipeline: %+v", catalog[0])
	}
	if catalog[1].EffectiveWarningHours() != 12 {
		t.Errorf("expected derived warning threshold 12, got %d", catalog[1].EffectiveWarningHours())
	}
}

func TestLoadRejectsBadPipelines(t *testing.T) {
	tests := []struct {
		name    string
		snippet string
	}{
		{
			"Missing table",
			"pipelines:\n  - name: orders\n    date_column: ordered_at\n    critical_hours: 6\n",
		},
		{
			"Duplicate names",
			"pipelines:\n" +
				"  - name: orders\n    table: fact_orders\n    date_column: ordered_at\n    critical_hours: 6\n" +
				"  - name: orders\n    table: fact_orders_v2\n    date_column: ordered_at\n    critical_hours: 6\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearConfigEnv(t)

			if _, err := Load(writeConfig(t, minimalConfig+tt.snippet)); err == nil {
				t.Fatal("expected pipeline validation error")
			}
		})
	}
}

func TestPipelineCatalogFallback(t *testing.T) {
	clearConfigEnv(t)

	cfg, err := Load(writeConfig(t, minimalConfig))
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	catalog := cfg.PipelineCatalog()
	if len(catalog) != 5 {
		t.Errorf("expected built-in catalog of 5 pipelines, got %d", len(catalog))
	}
}

func TestParseLogLevelAliases(t *testing.T) {
	tests := map[string]slog.Level{
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
	}

	for input, expected := range tests {
		level, err := parseLogLevel(input)
		if err != nil {
			t.Fatalf("parseLogLevel(%q) returned error: %v", input, err)
		}

		if level != expected {
			t.Errorf("parseLogLevel(%q) = %v, want %v", input, level, expected)
		}
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func clearConfigEnv(t *testing.T) {
	t.Helper()
	keys := []string{
		"DATABASE_URL",
		"CHAT_WEBHOOK_URL",
		"CHAT_DASHBOARD_URL",
		"LOG_LEVEL",
		"LOG_FORMAT",
		"LOG_DIR",
		"PUSHGATEWAY_URL",
	}

	for _, key := range keys {
		t.Setenv(key, "")
	}
}
