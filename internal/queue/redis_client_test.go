package queue

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/Raymond9734/customer-management-backend/internal/models"
)

func TestDecodeEvent(t *testing.T) {
	valid := models.NewCustomerEvent(models.EventCustomerCreated, 42)
	data, err := json.Marshal(valid)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	tests := []struct {
		name    string
		data    string
		wantErr bool
	}{
		{"valid event", string(data), false},
		{"malformed json", `{"id":`, true},
		{"unknown type", `{"id":"abc","type":"customer.exploded","customer_id":1}`, true},
		{"missing customer", `{"id":"abc","type":"customer.created"}`, true},
		{"missing id", `{"type":"customer.deleted","customer_id":3}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event, err := decodeEvent(tt.data)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got event %+v", event)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if event.ID != valid.ID || event.CustomerID != 42 || event.Type != models.EventCustomerCreated {
				t.Errorf("decoded event = %+v, want %+v", event, valid)
			}
		})
	}
}

func TestInlineClient(t *testing.T) {
	var got []*models.CustomerEvent
	client := NewInlineClient(func(ctx context.Context, event *models.CustomerEvent) error {
		got = append(got, event)
		return nil
	})

	event := models.NewCustomerEvent(models.EventCustomerDeleted, 1)
	if err := client.Publish(context.Background(), event); err != nil {
		t.Errorf("Publish: %v", err)
	}
	if len(got) != 1 || got[0].ID != event.ID {
		t.Errorf("handler should receive the published event, got %v", got)
	}
	if err := client.Health(context.Background()); err != nil {
		t.Errorf("Health: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if err := client.Consume(ctx, nil, 1); err != context.DeadlineExceeded {
		t.Errorf("Consume should return when the context ends, got %v", err)
	}
}

func TestInlineClient_HandlerError(t *testing.T) {
	client := NewInlineClient(func(ctx context.Context, event *models.CustomerEvent) error {
		return errors.New("audit store down")
	})

	if err := client.Publish(context.Background(), models.NewCustomerEvent(models.EventCustomerCreated, 2)); err == nil {
		t.Error("handler error should surface from Publish")
	}
}

func TestInlineClient_NilHandler(t *testing.T) {
	client := NewInlineClient(nil)

	if err := client.Publish(context.Background(), models.NewCustomerEvent(models.EventCustomerCreated, 3)); err != nil {
		t.Errorf("nil handler discards events, got %v", err)
	}
}
