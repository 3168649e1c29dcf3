package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// Storage drivers
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Config holds all application configuration
type Config struct {
	Env      string         `toml:"-"`
	Storage  StorageConfig  `toml:"storage"`
	Database DatabaseConfig `toml:"database"`
	Queue    QueueConfig    `toml:"queue"`
	API      APIConfig      `toml:"api"`
	CORS     CORSConfig     `toml:"cors"`
	Worker   WorkerConfig   `toml:"worker"`
	Logging  LoggingConfig  `toml:"logging"`
}

// StorageConfig selects the customer store
type StorageConfig struct {
	Driver string `toml:"driver"`
}

// DatabaseConfig holds database connection configuration
type DatabaseConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	DBName   string `toml:"name"`
	SSLMode  string `toml:"sslmode"`
}

// QueueConfig holds customer event queue configuration (Redis)
type QueueConfig struct {
	Enabled   bool   `toml:"enabled"`
	RedisURL  string `toml:"redis_url"`
	QueueName string `toml:"queue_name"`
}

// APIConfig holds API server configuration
type APIConfig struct {
	Port int `toml:"port"`
}

// CORSConfig lists the origins allowed to call the API from a browser
type CORSConfig struct {
	AllowedOrigins []string `toml:"allowed_origins"`
}

// WorkerConfig holds worker configuration
type WorkerConfig struct {
	Concurrency int `toml:"concurrency"`
}

// LoggingConfig controls the slog handler
type LoggingConfig struct {
	Level         string `toml:"level"`
	Format        string `toml:"format"`
	IncludeCaller bool   `toml:"include_caller"`
}

// Default returns the configuration used when nothing is overridden
func Default() *Config {
	return &Config{
		Env: "development",
		Storage: StorageConfig{
			Driver: StoragePostgres,
		},
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "customer_manager",
			Password: "customer_manager",
			DBName:   "customer_manager",
			SSLMode:  "disable",
		},
		Queue: QueueConfig{
			Enabled:   true,
			RedisURL:  "redis://localhost:6379/0",
			QueueName: "customer_events",
		},
		API: APIConfig{
			Port: 8000,
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{
				"http://localhost:3000",
				"http://127.0.0.1:3000",
				"http://localhost",
				"http://127.0.0.1",
			},
		},
		Worker: WorkerConfig{
			Concurrency: 5,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads configuration from defaults, an optional TOML file and
// environment variables, in increasing order of precedence
func Load() (*Config, error) {
	cfg := Default()
	cfg.Env = getEnv("APP_ENV", cfg.Env)

	path := getEnv("CONFIG_FILE", filepath.Join("config", cfg.Env+".toml"))
	if err := cfg.loadFile(path); err != nil {
		return nil, err
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFile decodes a TOML file over cfg. A missing file is not an error.
func (c *Config) loadFile(path string) error {
	if _, err := toml.DecodeFile(path, c); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	c.Storage.Driver = getEnv("STORAGE_DRIVER", c.Storage.Driver)

	c.Database.Host = getEnv("DB_HOST", c.Database.Host)
	c.Database.User = getEnv("DB_USER", c.Database.User)
	c.Database.Password = getEnv("DB_PASSWORD", c.Database.Password)
	c.Database.DBName = getEnv("DB_NAME", c.Database.DBName)
	c.Database.SSLMode = getEnv("DB_SSLMODE", c.Database.SSLMode)

	c.Queue.RedisURL = getEnv("REDIS_URL", c.Queue.RedisURL)
	c.Queue.QueueName = getEnv("QUEUE_NAME", c.Queue.QueueName)

	c.Logging.Level = getEnv("LOG_LEVEL", c.Logging.Level)
	c.Logging.Format = getEnv("LOG_FORMAT", c.Logging.Format)

	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		c.CORS.AllowedOrigins = splitCSV(origins)
	}

	var err error
	if c.Database.Port, err = getEnvInt("DB_PORT", c.Database.Port); err != nil {
		return err
	}
	if c.API.Port, err = getEnvInt("API_PORT", c.API.Port); err != nil {
		return err
	}
	if c.Worker.Concurrency, err = getEnvInt("WORKER_CONCURRENCY", c.Worker.Concurrency); err != nil {
		return err
	}
	if c.Queue.Enabled, err = getEnvBool("QUEUE_ENABLED", c.Queue.Enabled); err != nil {
		return err
	}

	return nil
}

// Validate rejects values no component can run with
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case StoragePostgres, StorageMemory:
	default:
		return fmt.Errorf("invalid STORAGE_DRIVER %q: must be %q or %q", c.Storage.Driver, StoragePostgres, StorageMemory)
	}

	if c.API.Port <= 0 || c.API.Port > 65535 {
		return fmt.Errorf("invalid API_PORT: %d", c.API.Port)
	}
	if c.Worker.Concurrency < 1 {
		return fmt.Errorf("invalid WORKER_CONCURRENCY: %d", c.Worker.Concurrency)
	}
	if c.Queue.Enabled && c.Queue.QueueName == "" {
		return errors.New("QUEUE_NAME is required when the queue is enabled")
	}

	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

func splitCSV(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
