package stock

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/paletar/paletar/internal/notify"
	"github.com/paletar/paletar/internal/shared"
)

// Service implements the stock ledger use cases.
type Service struct {
	repo   Repository
	sink   notify.Sink
	logger *slog.Logger
}

// NewService constructs the stock service.
func NewService(repo Repository, sink notify.Sink, logger *slog.Logger) *Service {
	if sink == nil {
		sink = notify.NopSink{}
	}
	return &Service{repo: repo, sink: sink, logger: logger}
}

// AllocatedStock returns the quantity currently held by open orders.
func (s *Service) AllocatedStock(ctx context.Context, productID int64) (int, error) {
	if _, _, _, err := s.repo.ProductState(ctx, productID); err != nil {
		return 0, err
	}
	return s.repo.AllocatedStock(ctx, productID)
}

// AvailableStock returns recorded minus allocated. The result may be
// negative; oversell is surfaced through alerts, not errors.
func (s *Service) AvailableStock(ctx context.Context, productID int64) (int, error) {
	_, recorded, _, err := s.repo.ProductState(ctx, productID)
	if err != nil {
		return 0, err
	}
	allocated, err := s.repo.AllocatedStock(ctx, productID)
	if err != nil {
		return 0, err
	}
	return recorded - allocated, nil
}

// AdjustRecordedStock applies a manual correction to recorded stock.
func (s *Service) AdjustRecordedStock(ctx context.Context, productID int64, delta int) error {
	if delta == 0 {
		return fmt.Errorf("%w: adjustment delta cannot be zero", shared.ErrValidation)
	}
	if err := s.repo.AdjustRecordedStock(ctx, productID, delta); err != nil {
		return err
	}
	if delta < 0 {
		s.CheckAlert(ctx, productID)
	}
	return nil
}

// IsAlertThreshold reports whether available stock is at or below the
// product's alert threshold.
func (s *Service) IsAlertThreshold(ctx context.Context, productID int64) (bool, error) {
	_, recorded, threshold, err := s.repo.ProductState(ctx, productID)
	if err != nil {
		return false, err
	}
	allocated, err := s.repo.AllocatedStock(ctx, productID)
	if err != nil {
		return false, err
	}
	return recorded-allocated <= threshold, nil
}

// CheckAlert evaluates the threshold and emits a stock-critical event when
// breached. Failures are logged and swallowed; alerting never breaks the
// calling operation.
func (s *Service) CheckAlert(ctx context.Context, productID int64) {
	name, recorded, threshold, err := s.repo.ProductState(ctx, productID)
	if err != nil {
		s.logf("stock alert check failed", productID, err)
		return
	}
	allocated, err := s.repo.AllocatedStock(ctx, productID)
	if err != nil {
		s.logf("stock alert check failed", productID, err)
		return
	}

	available := recorded - allocated
	if available > threshold {
		return
	}

	s.sink.StockCritical(ctx, notify.StockCriticalEvent{
		EventID:     uuid.New(),
		ProductID:   productID,
		ProductName: name,
		Available:   available,
		Threshold:   threshold,
		At:          time.Now(),
	})
}

// Overview returns the full per-product ledger.
func (s *Service) Overview(ctx context.Context) ([]ProductStock, error) {
	return s.repo.Overview(ctx)
}

func (s *Service) logf(msg string, productID int64, err error) {
	if s.logger != nil {
		s.logger.Error(msg, slog.Int64("product_id", productID), slog.Any("error", err))
	}
}
