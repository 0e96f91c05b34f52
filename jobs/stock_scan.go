package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/paletar/paletar/internal/notify"
	"github.com/paletar/paletar/internal/stock"
)

// StockOverviewer supplies the per-product ledger for the nightly scan.
type StockOverviewer interface {
	Overview(ctx context.Context) ([]stock.ProductStock, error)
}

// NewStockScanTask builds the scheduler task for the nightly sweep.
func NewStockScanTask() *asynq.Task {
	return asynq.NewTask(TaskStockScan, nil)
}

// NewStockScanHandler walks the stock ledger and enqueues a critical-stock
// mail for every product at or below its alert threshold.
func NewStockScanHandler(overview StockOverviewer, sink notify.Sink, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		ledger, err := overview.Overview(ctx)
		if err != nil {
			return err
		}

		critical := 0
		for _, ps := range ledger {
			if !ps.Critical {
				continue
			}
			critical++
			sink.StockCritical(ctx, notify.StockCriticalEvent{
				EventID:     uuid.New(),
				ProductID:   ps.ProductID,
				ProductName: ps.Name,
				Available:   ps.Available,
				Threshold:   ps.AlertThreshold,
				At:          time.Now(),
			})
		}

		logger.Info("stock scan finished",
			slog.Int("products", len(ledger)),
			slog.Int("critical", critical))
		return nil
	}
}
