// Package events publishes order and catalog changes to Kafka.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	TopicOrders   = "order_events"
	TopicProducts = "product_events"
)

const (
	OrderCreated       = "order_created"
	OrderStatusChanged = "order_status_changed"
	OrderDeleted       = "order_deleted"

	ProductCreated = "product_created"
	ProductUpdated = "product_updated"
	ProductDeleted = "product_deleted"
)

type Event struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	Data       any       `json:"data"`
}

func New(eventType string, data any) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		Data:       data,
	}
}

type Publisher interface {
	PublishEvent(ctx context.Context, topic, key string, event any) error
}

// Nop drops every event. Used when KAFKA_BROKERS is empty.
type Nop struct{}

func (Nop) PublishEvent(context.Context, string, string, any) error { return nil }
