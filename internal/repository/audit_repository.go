package repository

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/Raymond9734/customer-management-backend/internal/models"
)

// AuditRepository stores the trail of processed customer events
type AuditRepository interface {
	// Record stores entry once per event id; replays of the same event are ignored.
	// It reports whether a new row was written.
	Record(ctx context.Context, entry *models.AuditEntry) (bool, error)
	ListByCustomer(ctx context.Context, customerID int64, limit int) ([]*models.AuditEntry, error)
}

// auditRepository implements AuditRepository using PostgreSQL
type auditRepository struct {
	db *sql.DB
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db *sql.DB) AuditRepository {
	return &auditRepository{db: db}
}

// Record inserts an audit entry unless the event was already recorded
func (r *auditRepository) Record(ctx context.Context, entry *models.AuditEntry) (bool, error) {
	query := `
		INSERT INTO customer_audit_log (event_id, event_type, customer_id, occurred_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (event_id) DO NOTHING
		RETURNING id, recorded_at`

	err := r.db.QueryRowContext(
		ctx,
		query,
		entry.EventID,
		entry.EventType,
		entry.CustomerID,
		entry.OccurredAt,
	).Scan(&entry.ID, &entry.RecordedAt)

	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to record audit entry: %w", err)
	}

	return true, nil
}

// ListByCustomer returns the newest entries for a customer first
func (r *auditRepository) ListByCustomer(ctx context.Context, customerID int64, limit int) ([]*models.AuditEntry, error) {
	if limit < 1 {
		limit = models.DefaultPageSize
	}

	query := `
		SELECT id, event_id, event_type, customer_id, occurred_at, recorded_at
		FROM customer_audit_log
		WHERE customer_id = $1
		ORDER BY occurred_at DESC, id DESC
		LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, customerID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}
	defer rows.Close()

	entries := []*models.AuditEntry{}
	for rows.Next() {
		entry := &models.AuditEntry{}
		err := rows.Scan(
			&entry.ID,
			&entry.EventID,
			&entry.EventType,
			&entry.CustomerID,
			&entry.OccurredAt,
			&entry.RecordedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}
		entries = append(entries, entry)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating audit entries: %w", err)
	}

	return entries, nil
}

// MemoryAuditRepository is an in-process AuditRepository
type MemoryAuditRepository struct {
	mu      sync.Mutex
	entries []*models.AuditEntry
	seen    map[string]bool
}

// NewMemoryAuditRepository creates an empty in-memory audit repository
func NewMemoryAuditRepository() *MemoryAuditRepository {
	return &MemoryAuditRepository{seen: make(map[string]bool)}
}

// Record stores entry once per event id
func (m *MemoryAuditRepository) Record(ctx context.Context, entry *models.AuditEntry) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.seen[entry.EventID] {
		return false, nil
	}

	entry.ID = int64(len(m.entries) + 1)
	entry.RecordedAt = time.Now().UTC()
	cp := *entry
	m.entries = append(m.entries, &cp)
	m.seen[entry.EventID] = true
	return true, nil
}

// ListByCustomer returns the newest entries for a customer first
func (m *MemoryAuditRepository) ListByCustomer(ctx context.Context, customerID int64, limit int) ([]*models.AuditEntry, error) {
	if limit < 1 {
		limit = models.DefaultPageSize
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	entries := []*models.AuditEntry{}
	for i := len(m.entries) - 1; i >= 0 && len(entries) < limit; i-- {
		if m.entries[i].CustomerID == customerID {
			cp := *m.entries[i]
			entries = append(entries, &cp)
		}
	}
	return entries, nil
}
