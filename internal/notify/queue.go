package notify

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hibiken/asynq"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// QueueSink renders events into mail payloads and enqueues them on asynq.
type QueueSink struct {
	client  *asynq.Client
	logger  *slog.Logger
	printer *message.Printer
}

// NewQueueSink constructs a QueueSink.
func NewQueueSink(client *asynq.Client, logger *slog.Logger) *QueueSink {
	return &QueueSink{
		client:  client,
		logger:  logger,
		printer: message.NewPrinter(language.English),
	}
}

func (s *QueueSink) OrderCreated(ctx context.Context, ev OrderCreatedEvent) {
	s.enqueue(ctx, MailPayload{
		Subject: s.printer.Sprintf("New order %s", ev.OrderNumber),
		Body: s.printer.Sprintf(
			"Order %s for %s was registered with a total of %.2f.",
			ev.OrderNumber, ev.DistributorName, ev.Total,
		),
	})
}

func (s *QueueSink) OrderStatusChanged(ctx context.Context, ev OrderStatusChangedEvent) {
	s.enqueue(ctx, MailPayload{
		Subject: s.printer.Sprintf("Order %s is now %s", ev.OrderNumber, ev.To),
		Body: s.printer.Sprintf(
			"Order %s moved from %s to %s.",
			ev.OrderNumber, ev.From, ev.To,
		),
	})
}

func (s *QueueSink) StockCritical(ctx context.Context, ev StockCriticalEvent) {
	s.enqueue(ctx, MailPayload{
		Subject: s.printer.Sprintf("Critical stock: %s", ev.ProductName),
		Body: s.printer.Sprintf(
			"Available stock for %s is %d pallets, at or below the alert threshold of %d.",
			ev.ProductName, ev.Available, ev.Threshold,
		),
	})
}

func (s *QueueSink) enqueue(ctx context.Context, payload MailPayload) {
	data, err := json.Marshal(payload)
	if err != nil {
		s.logger.Error("marshal mail payload", slog.Any("error", err))
		return
	}
	if _, err := s.client.EnqueueContext(ctx, asynq.NewTask(TaskMailSend, data)); err != nil {
		s.logger.Error("enqueue mail task", slog.String("subject", payload.Subject), slog.Any("error", err))
	}
}
