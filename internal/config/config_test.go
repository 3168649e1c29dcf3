package config

import (
	"os"
	"path/filepath"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"APP_ENV", "CONFIG_FILE", "STORAGE_DRIVER",
		"DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME", "DB_SSLMODE",
		"REDIS_URL", "QUEUE_NAME", "QUEUE_ENABLED",
		"API_PORT", "CORS_ALLOWED_ORIGINS", "WORKER_CONCURRENCY",
		"LOG_LEVEL", "LOG_FORMAT",
	} {
		t.Setenv(key, "")
	}
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.toml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.toml"))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Storage.Driver != StoragePostgres {
		t.Errorf("driver = %q", cfg.Storage.Driver)
	}
	if cfg.API.Port != 8000 {
		t.Errorf("api port = %d", cfg.API.Port)
	}
	if !cfg.Queue.Enabled || cfg.Queue.QueueName != "customer_events" {
		t.Errorf("queue = %+v", cfg.Queue)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "info" {
		t.Errorf("logging = %+v", cfg.Logging)
	}
}

func TestLoad_FileThenEnv(t *testing.T) {
	clearEnv(t)
	path := writeConfigFile(t, `
[storage]
driver = "memory"

[database]
host = "db.internal"
port = 6543

[queue]
enabled = false

[api]
port = 9000

[cors]
allowed_origins = ["https://crm.example.com"]

[logging]
level = "debug"
format = "text"
`)
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("API_PORT", "9100")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Storage.Driver != StorageMemory {
		t.Errorf("driver = %q, want memory from file", cfg.Storage.Driver)
	}
	if cfg.Database.Host != "db.internal" || cfg.Database.Port != 6543 {
		t.Errorf("database = %+v", cfg.Database)
	}
	if cfg.Database.User != "customer_manager" {
		t.Errorf("unset file keys should keep defaults, user = %q", cfg.Database.User)
	}
	if cfg.Queue.Enabled {
		t.Error("queue should be disabled by file")
	}
	if cfg.API.Port != 9100 {
		t.Errorf("env should win over file, port = %d", cfg.API.Port)
	}
	if len(cfg.CORS.AllowedOrigins) != 2 || cfg.CORS.AllowedOrigins[1] != "https://b.example.com" {
		t.Errorf("origins = %v", cfg.CORS.AllowedOrigins)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "text" {
		t.Errorf("logging = %+v", cfg.Logging)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"non-numeric port", "API_PORT", "http"},
		{"port out of range", "API_PORT", "70000"},
		{"bad db port", "DB_PORT", "five"},
		{"bad bool", "QUEUE_ENABLED", "sometimes"},
		{"zero concurrency", "WORKER_CONCURRENCY", "0"},
		{"unknown driver", "STORAGE_DRIVER", "mongo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.toml"))
			t.Setenv(tt.key, tt.val)

			if _, err := Load(); err == nil {
				t.Errorf("expected error for %s=%s", tt.key, tt.val)
			}
		})
	}
}

func TestLoad_MalformedFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("CONFIG_FILE", writeConfigFile(t, "[api\nport = "))

	if _, err := Load(); err == nil {
		t.Fatal("expected error for malformed TOML")
	}
}
