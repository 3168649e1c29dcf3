package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// DB wraps the database connection
type DB struct {
	*sql.DB
}

// Config holds database configuration
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

func (c Config) dsn() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// New opens a pooled connection and verifies it with a ping
func New(cfg Config) (*DB, error) {
	db, err := sql.Open("postgres", cfg.dsn())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{db}, nil
}

// schema is applied in order by EnsureSchema. Every statement is idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS customers (
		id         BIGSERIAL PRIMARY KEY,
		first_name VARCHAR(50)  NOT NULL,
		last_name  VARCHAR(50)  NOT NULL,
		email      VARCHAR(254) NOT NULL,
		phone      VARCHAR(15)  NOT NULL,
		is_active  BOOLEAN      NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ  NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ  NOT NULL DEFAULT NOW()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS customers_email_lower_key ON customers (lower(email))`,
	`CREATE INDEX IF NOT EXISTS customers_name_idx ON customers (last_name, first_name)`,
	`CREATE INDEX IF NOT EXISTS customers_created_at_idx ON customers (created_at)`,
	`CREATE INDEX IF NOT EXISTS customers_is_active_idx ON customers (is_active)`,
	`CREATE TABLE IF NOT EXISTS customer_audit_log (
		id          BIGSERIAL PRIMARY KEY,
		event_id    UUID        NOT NULL UNIQUE,
		event_type  VARCHAR(32) NOT NULL,
		customer_id BIGINT      NOT NULL,
		occurred_at TIMESTAMPTZ NOT NULL,
		recorded_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS customer_audit_log_customer_idx ON customer_audit_log (customer_id, occurred_at DESC)`,
}

// EnsureSchema creates the customer and audit tables and their indexes
func (db *DB) EnsureSchema(ctx context.Context) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin schema transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range schema {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit schema: %w", err)
	}
	return nil
}

// Close closes the database connection gracefully
func (db *DB) Close() error {
	return db.DB.Close()
}

// Health performs a health check on the database
func (db *DB) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	var result int
	if err := db.QueryRowContext(ctx, "SELECT 1").Scan(&result); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}

	if result != 1 {
		return fmt.Errorf("unexpected health check result: %d", result)
	}

	return nil
}
