// Package jobs runs Paletar's background work on asynq: notification mail
// delivery and the nightly stock scan.
package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"

	"github.com/hibiken/asynq"

	"github.com/paletar/paletar/internal/notify"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskStockScan is the task type for the nightly low-stock sweep.
	TaskStockScan = "stock:scan"
)

// MailConfig carries SMTP settings for outbound notification mail.
type MailConfig struct {
	Host       string
	Port       int
	From       string
	Recipients []string
}

// NewMailHandler returns the handler for notify.TaskMailSend tasks.
func NewMailHandler(cfg MailConfig, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload notify.MailPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return fmt.Errorf("mail payload: %v: %w", err, asynq.SkipRetry)
		}
		if len(cfg.Recipients) == 0 {
			logger.Warn("no mail recipients configured, dropping", slog.String("subject", payload.Subject))
			return nil
		}

		msg := strings.Join([]string{
			"From: " + cfg.From,
			"To: " + strings.Join(cfg.Recipients, ", "),
			"Subject: " + payload.Subject,
			"",
			payload.Body,
		}, "\r\n")

		addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
		if err := smtp.SendMail(addr, nil, cfg.From, cfg.Recipients, []byte(msg)); err != nil {
			return fmt.Errorf("send mail: %w", err)
		}
		logger.Info("notification mail sent", slog.String("subject", payload.Subject))
		return nil
	}
}
