package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/paletar/paletar/internal/shared"
)

// Auditor records catalog mutations for the audit trail.
type Auditor interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Service implements catalog use cases.
type Service struct {
	repo    Repository
	auditor Auditor
	logger  *slog.Logger
}

// NewService constructs the catalog service.
func NewService(repo Repository, auditor Auditor, logger *slog.Logger) *Service {
	return &Service{repo: repo, auditor: auditor, logger: logger}
}

// Create registers a new product, active by default.
func (s *Service) Create(ctx context.Context, req CreateProductRequest, actorID string) (*Product, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: product name is required", shared.ErrValidation)
	}
	if req.RecordedStock < 0 {
		return nil, fmt.Errorf("%w: recorded stock cannot be negative", shared.ErrValidation)
	}
	if req.AlertThreshold < 0 {
		return nil, fmt.Errorf("%w: alert threshold cannot be negative", shared.ErrValidation)
	}

	id, err := s.repo.Create(ctx, Product{
		Name:           name,
		RecordedStock:  req.RecordedStock,
		AlertThreshold: req.AlertThreshold,
		Active:         true,
	})
	if err != nil {
		return nil, err
	}

	s.audit(ctx, actorID, "product.create", id, map[string]any{"name": name})
	return s.repo.Get(ctx, id)
}

// Update applies partial product changes.
func (s *Service) Update(ctx context.Context, id int64, req UpdateProductRequest, actorID string) (*Product, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: product name is required", shared.ErrValidation)
		}
		existing.Name = name
	}
	if req.AlertThreshold != nil {
		if *req.AlertThreshold < 0 {
			return nil, fmt.Errorf("%w: alert threshold cannot be negative", shared.ErrValidation)
		}
		existing.AlertThreshold = *req.AlertThreshold
	}
	if req.Active != nil {
		existing.Active = *req.Active
	}

	if err := s.repo.Update(ctx, *existing); err != nil {
		return nil, err
	}

	s.audit(ctx, actorID, "product.update", id, nil)
	return s.repo.Get(ctx, id)
}

// Get returns a single product.
func (s *Service) Get(ctx context.Context, id int64) (*Product, error) {
	return s.repo.Get(ctx, id)
}

// List returns catalog products, active only unless asked otherwise.
func (s *Service) List(ctx context.Context, includeInactive bool) ([]Product, error) {
	return s.repo.List(ctx, includeInactive)
}

// AddProduction books a completed production run into recorded stock.
func (s *Service) AddProduction(ctx context.Context, productID int64, req AddProductionRequest, actorID string) (*Product, error) {
	if req.Quantity <= 0 {
		return nil, fmt.Errorf("%w: production quantity must be positive", shared.ErrValidation)
	}

	if err := s.repo.AddRecordedStock(ctx, productID, req.Quantity); err != nil {
		return nil, err
	}

	s.audit(ctx, actorID, "product.production_add", productID, map[string]any{"quantity": req.Quantity})
	return s.repo.Get(ctx, productID)
}

func (s *Service) audit(ctx context.Context, actorID, action string, productID int64, meta map[string]any) {
	if s.auditor == nil {
		return
	}
	if err := s.auditor.Record(ctx, shared.AuditLog{
		ActorID:  actorID,
		Action:   action,
		Entity:   "product",
		EntityID: fmt.Sprintf("%d", productID),
		Meta:     meta,
	}); err != nil && s.logger != nil {
		s.logger.Error("audit record failed", slog.String("action", action), slog.Any("error", err))
	}
}
