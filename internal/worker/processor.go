package worker

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Raymond9734/customer-management-backend/internal/models"
	"github.com/Raymond9734/customer-management-backend/internal/repository"
)

// EventProcessor turns customer events from the queue into audit entries
type EventProcessor struct {
	auditRepo repository.AuditRepository
	logger    *slog.Logger
}

// NewEventProcessor creates a new event processor
func NewEventProcessor(auditRepo repository.AuditRepository, logger *slog.Logger) *EventProcessor {
	return &EventProcessor{
		auditRepo: auditRepo,
		logger:    logger,
	}
}

// Process records a single event. Redelivered events are recorded once.
func (p *EventProcessor) Process(ctx context.Context, event *models.CustomerEvent) error {
	if !models.IsValidEventType(event.Type) {
		p.logger.Warn("dropping event with unknown type",
			slog.String("event_id", event.ID),
			slog.String("event_type", event.Type),
		)
		return nil
	}

	entry := &models.AuditEntry{
		EventID:    event.ID,
		EventType:  event.Type,
		CustomerID: event.CustomerID,
		OccurredAt: event.OccurredAt,
	}

	created, err := p.auditRepo.Record(ctx, entry)
	if err != nil {
		p.logger.Error("failed to record audit entry",
			slog.String("event_id", event.ID),
			slog.Int64("customer_id", event.CustomerID),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("failed to record event %s: %w", event.ID, err)
	}

	if !created {
		p.logger.Debug("event already recorded",
			slog.String("event_id", event.ID),
		)
		return nil
	}

	p.logger.Info("customer event recorded",
		slog.String("event_id", event.ID),
		slog.String("event_type", event.Type),
		slog.Int64("customer_id", event.CustomerID),
	)

	return nil
}
