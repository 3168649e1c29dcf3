package models

import (
	"time"

	"github.com/google/uuid"
)

// Customer event types
const (
	EventCustomerCreated     = "customer.created"
	EventCustomerUpdated     = "customer.updated"
	EventCustomerDeleted     = "customer.deleted"
	EventCustomerActivated   = "customer.activated"
	EventCustomerDeactivated = "customer.deactivated"
)

// CustomerEvent is published after a customer mutation is committed
type CustomerEvent struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	CustomerID int64     `json:"customer_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewCustomerEvent stamps a new event with a fresh id and the current time
func NewCustomerEvent(eventType string, customerID int64) *CustomerEvent {
	return &CustomerEvent{
		ID:         uuid.NewString(),
		Type:       eventType,
		CustomerID: customerID,
		OccurredAt: time.Now().UTC(),
	}
}

// IsValidEventType checks if the event type is known
func IsValidEventType(eventType string) bool {
	switch eventType {
	case EventCustomerCreated, EventCustomerUpdated, EventCustomerDeleted,
		EventCustomerActivated, EventCustomerDeactivated:
		return true
	default:
		return false
	}
}

// AuditEntry is the stored record of a processed customer event
type AuditEntry struct {
	ID         int64     `json:"id"`
	EventID    string    `json:"event_id"`
	EventType  string    `json:"event_type"`
	CustomerID int64     `json:"customer_id"`
	OccurredAt time.Time `json:"occurred_at"`
	RecordedAt time.Time `json:"recorded_at"`
}
