package queue

import (
	"context"

	"github.com/Raymond9734/customer-management-backend/internal/models"
)

// Publisher sends customer events to the queue
type Publisher interface {
	Publish(ctx context.Context, event *models.CustomerEvent) error
}

// Client defines the interface for queue operations
type Client interface {
	Publisher

	// Consume receives events from the queue and processes them with the handler
	// concurrency controls how many events can be processed simultaneously
	Consume(ctx context.Context, handler EventHandler, concurrency int) error

	// Close closes the queue connection
	Close() error

	// Health checks if the queue is healthy
	Health(ctx context.Context) error
}

// EventHandler is a function that processes a customer event
type EventHandler func(ctx context.Context, event *models.CustomerEvent) error

// inlineClient hands each published event straight to a handler in the
// caller's goroutine; used when the Redis queue is disabled
type inlineClient struct {
	handler EventHandler
}

// NewInlineClient returns a Client whose Publish runs handler synchronously.
// A nil handler discards every event.
func NewInlineClient(handler EventHandler) Client {
	return &inlineClient{handler: handler}
}

func (c *inlineClient) Publish(ctx context.Context, event *models.CustomerEvent) error {
	if c.handler == nil {
		return nil
	}
	return c.handler(ctx, event)
}

// Consume has nothing to receive and blocks until ctx is done
func (c *inlineClient) Consume(ctx context.Context, handler EventHandler, concurrency int) error {
	<-ctx.Done()
	return ctx.Err()
}

func (c *inlineClient) Close() error { return nil }

func (c *inlineClient) Health(ctx context.Context) error { return nil }
