// Package notify fans business events out to interested staff. Delivery is
// fire-and-forget: a failed notification never fails the operation that
// produced it.
package notify

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TaskMailSend is the asynq task type carrying an outbound mail payload.
const TaskMailSend = "mail:send"

// OrderCreatedEvent announces a freshly registered order.
type OrderCreatedEvent struct {
	EventID         uuid.UUID `json:"event_id"`
	OrderID         int64     `json:"order_id"`
	OrderNumber     string    `json:"order_number"`
	DistributorName string    `json:"distributor_name"`
	Total           float64   `json:"total"`
	At              time.Time `json:"at"`
}

// OrderStatusChangedEvent announces a lifecycle transition.
type OrderStatusChangedEvent struct {
	EventID     uuid.UUID `json:"event_id"`
	OrderID     int64     `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	From        string    `json:"from"`
	To          string    `json:"to"`
	At          time.Time `json:"at"`
}

// StockCriticalEvent announces that available stock fell to or below the
// product's alert threshold.
type StockCriticalEvent struct {
	EventID     uuid.UUID `json:"event_id"`
	ProductID   int64     `json:"product_id"`
	ProductName string    `json:"product_name"`
	Available   int       `json:"available"`
	Threshold   int       `json:"threshold"`
	At          time.Time `json:"at"`
}

// MailPayload is the rendered message handed to the mail worker.
type MailPayload struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Sink receives business events after their transaction commits.
type Sink interface {
	OrderCreated(ctx context.Context, ev OrderCreatedEvent)
	OrderStatusChanged(ctx context.Context, ev OrderStatusChangedEvent)
	StockCritical(ctx context.Context, ev StockCriticalEvent)
}

// NopSink discards all events. Used in tests and the worker binary.
type NopSink struct{}

func (NopSink) OrderCreated(context.Context, OrderCreatedEvent)             {}
func (NopSink) OrderStatusChanged(context.Context, OrderStatusChangedEvent) {}
func (NopSink) StockCritical(context.Context, StockCriticalEvent)           {}
