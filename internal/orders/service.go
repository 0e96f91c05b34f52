package orders

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/paletar/paletar/internal/catalog"
	"github.com/paletar/paletar/internal/distributors"
	"github.com/paletar/paletar/internal/notify"
	"github.com/paletar/paletar/internal/shared"
)

// DistributorResolver turns an order's distributor reference into a row.
type DistributorResolver interface {
	Resolve(ctx context.Context, ref distributors.Ref) (*distributors.Distributor, error)
}

// ProductCatalog verifies line-item products.
type ProductCatalog interface {
	Get(ctx context.Context, id int64) (*catalog.Product, error)
}

// AlertChecker re-evaluates stock alerts after consumption.
type AlertChecker interface {
	CheckAlert(ctx context.Context, productID int64)
}

// Auditor records order mutations for the audit trail.
type Auditor interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Service implements the order lifecycle.
type Service struct {
	repo        Repository
	distributor DistributorResolver
	products    ProductCatalog
	sink        notify.Sink
	alerts      AlertChecker
	auditor     Auditor
	logger      *slog.Logger
}

// NewService constructs the order service.
func NewService(
	repo Repository,
	distributor DistributorResolver,
	products ProductCatalog,
	sink notify.Sink,
	alerts AlertChecker,
	auditor Auditor,
	logger *slog.Logger,
) *Service {
	if sink == nil {
		sink = notify.NopSink{}
	}
	return &Service{
		repo:        repo,
		distributor: distributor,
		products:    products,
		sink:        sink,
		alerts:      alerts,
		auditor:     auditor,
		logger:      logger,
	}
}

// Create registers a new order in the waiting state. The total is the sum
// of rounded line totals; the pallet summary fields are stored as entered.
func (s *Service) Create(ctx context.Context, req CreateOrderRequest, actorID int64) (*Order, error) {
	lines, total, err := s.buildLines(ctx, req.Lines)
	if err != nil {
		return nil, err
	}

	dist, err := s.distributor.Resolve(ctx, req.Distributor)
	if err != nil {
		return nil, err
	}

	number, err := s.repo.GenerateNumber(ctx, time.Now())
	if err != nil {
		return nil, err
	}

	id, err := s.repo.Create(ctx, Order{
		OrderNumber:     number,
		DistributorID:   dist.ID,
		DeliveryCity:    strings.TrimSpace(req.DeliveryCity),
		DeliveryAddress: strings.TrimSpace(req.DeliveryAddress),
		DeliveryCounty:  strings.TrimSpace(req.DeliveryCounty),
		ContactPhone:    strings.TrimSpace(req.ContactPhone),
		Notes:           req.Notes,
		PalletCount:     req.PalletCount,
		PricePerPallet:  req.PricePerPallet,
		Total:           total,
		Status:          StatusWaiting,
		IssuedBy:        actorID,
		Lines:           lines,
	})
	if err != nil {
		return nil, err
	}

	order, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	s.sink.OrderCreated(ctx, notify.OrderCreatedEvent{
		EventID:         uuid.New(),
		OrderID:         order.ID,
		OrderNumber:     order.OrderNumber,
		DistributorName: dist.Name,
		Total:           order.Total,
		At:              time.Now(),
	})
	s.audit(ctx, actorID, "order.create", order.ID, map[string]any{"order_number": order.OrderNumber})
	return order, nil
}

// Update replaces an order that has not started fulfillment.
func (s *Service) Update(ctx context.Context, id int64, req UpdateOrderRequest, actorID int64) (*Order, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !existing.Status.Editable() {
		return nil, fmt.Errorf("%w: only waiting orders can be edited", shared.ErrInvalidState)
	}

	lines, total, err := s.buildLines(ctx, req.Lines)
	if err != nil {
		return nil, err
	}

	existing.DeliveryCity = strings.TrimSpace(req.DeliveryCity)
	existing.DeliveryAddress = strings.TrimSpace(req.DeliveryAddress)
	existing.DeliveryCounty = strings.TrimSpace(req.DeliveryCounty)
	existing.ContactPhone = strings.TrimSpace(req.ContactPhone)
	existing.Notes = req.Notes
	existing.PalletCount = req.PalletCount
	existing.PricePerPallet = req.PricePerPallet
	existing.Total = total
	existing.Lines = lines

	if err := s.repo.Update(ctx, *existing); err != nil {
		return nil, err
	}

	s.audit(ctx, actorID, "order.update", id, nil)
	return s.repo.Get(ctx, id)
}

// Get returns an order with its lines.
func (s *Service) Get(ctx context.Context, id int64) (*Order, error) {
	return s.repo.Get(ctx, id)
}

// List returns orders matching the filter.
func (s *Service) List(ctx context.Context, f ListFilter) ([]Order, int, error) {
	if f.Limit <= 0 || f.Limit > 200 {
		f.Limit = 50
	}
	return s.repo.List(ctx, f)
}

// AssignTransport moves waiting -> processing and records the transport.
func (s *Service) AssignTransport(ctx context.Context, id int64, req AssignTransportRequest, actorID int64) (*Order, error) {
	updated, err := s.repo.AssignTransport(ctx, id,
		strings.TrimSpace(req.Carrier),
		strings.TrimSpace(req.DriverName),
		strings.TrimSpace(req.VehiclePlate))
	if err != nil {
		return nil, err
	}
	return s.finishTransition(ctx, id, updated, StatusWaiting, StatusProcessing, actorID, "order.assign_transport")
}

// MarkShipped moves processing -> in_transit and stamps the shipment date.
func (s *Service) MarkShipped(ctx context.Context, id int64, actorID int64) (*Order, error) {
	updated, err := s.repo.MarkShipped(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.finishTransition(ctx, id, updated, StatusProcessing, StatusInTransit, actorID, "order.mark_shipped")
}

// MarkDelivered moves in_transit -> delivered and consumes recorded stock
// for every line in the same transaction.
func (s *Service) MarkDelivered(ctx context.Context, id int64, actorID int64) (*Order, error) {
	updated, err := s.repo.MarkDelivered(ctx, id)
	if err != nil {
		return nil, err
	}
	order, err := s.finishTransition(ctx, id, updated, StatusInTransit, StatusDelivered, actorID, "order.mark_delivered")
	if err != nil {
		return nil, err
	}

	if s.alerts != nil {
		for _, line := range order.Lines {
			s.alerts.CheckAlert(ctx, line.ProductID)
		}
	}
	return order, nil
}

// Cancel moves a waiting or processing order to cancelled. The allocation
// is released by the status flip alone; recorded stock is untouched. Of
// two racing cancels exactly one succeeds, the other gets ErrConflict.
func (s *Service) Cancel(ctx context.Context, id int64, req CancelRequest, actorID int64) (*Order, error) {
	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		return nil, fmt.Errorf("%w: cancellation reason is required", shared.ErrValidation)
	}

	prev, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	updated, err := s.repo.Cancel(ctx, id, actorID, reason)
	if err != nil {
		return nil, err
	}
	if !updated {
		current, err := s.repo.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if current.Status == StatusCancelled {
			return nil, fmt.Errorf("%w: order %s is already cancelled", shared.ErrConflict, current.OrderNumber)
		}
		return nil, fmt.Errorf("%w: cannot cancel a %s order", shared.ErrInvalidState, current.Status)
	}

	order, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	s.emitStatusChanged(ctx, order, prev.Status, StatusCancelled)
	s.audit(ctx, actorID, "order.cancel", id, map[string]any{"reason": reason})
	return order, nil
}

// Delete removes an order. An order still holding an allocation is
// reconciled first: every referenced product must exist, otherwise the
// whole operation aborts naming the missing product. Cancelled and
// delivered orders skip reconciliation; recorded stock is never touched.
func (s *Service) Delete(ctx context.Context, id int64, actorID int64) error {
	order, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}

	if order.Status.Active() {
		missing, err := s.repo.MissingProducts(ctx, id)
		if err != nil {
			return err
		}
		if len(missing) > 0 {
			return fmt.Errorf("%w: cannot release stock for order %s, product %d no longer exists",
				shared.ErrConflict, order.OrderNumber, missing[0])
		}
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.audit(ctx, actorID, "order.delete", id, map[string]any{"order_number": order.OrderNumber, "status": string(order.Status)})
	return nil
}

func (s *Service) buildLines(ctx context.Context, reqs []LineRequest) ([]LineItem, float64, error) {
	if len(reqs) == 0 {
		return nil, 0, fmt.Errorf("%w: an order needs at least one line item", shared.ErrValidation)
	}

	lines := make([]LineItem, 0, len(reqs))
	var total float64
	for _, lr := range reqs {
		if lr.Quantity <= 0 {
			return nil, 0, fmt.Errorf("%w: quantity must be positive", shared.ErrValidation)
		}
		if lr.UnitPrice < 0 {
			return nil, 0, fmt.Errorf("%w: unit price cannot be negative", shared.ErrValidation)
		}
		product, err := s.products.Get(ctx, lr.ProductID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, 0, fmt.Errorf("%w: product %d does not exist", shared.ErrValidation, lr.ProductID)
			}
			return nil, 0, err
		}
		if !product.Active {
			return nil, 0, fmt.Errorf("%w: product %q is inactive", shared.ErrValidation, product.Name)
		}

		lineTotal := round2(float64(lr.Quantity) * lr.UnitPrice)
		total += lineTotal
		lines = append(lines, LineItem{
			ProductID: lr.ProductID,
			Quantity:  lr.Quantity,
			UnitPrice: lr.UnitPrice,
			TotalItem: lineTotal,
		})
	}
	return lines, round2(total), nil
}

// finishTransition resolves a CAS outcome into the updated order or the
// right error: gone, raced, or illegal.
func (s *Service) finishTransition(ctx context.Context, id int64, updated bool, from, to Status, actorID int64, action string) (*Order, error) {
	if !updated {
		current, err := s.repo.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		switch {
		case current.Status == to:
			return nil, fmt.Errorf("%w: order %s is already %s", shared.ErrConflict, current.OrderNumber, to.Display())
		case current.Status.CanTransitionTo(to):
			// The order moved under us but the target is still reachable;
			// the caller may retry.
			return nil, fmt.Errorf("%w: order %s changed concurrently", shared.ErrConflict, current.OrderNumber)
		default:
			return nil, fmt.Errorf("%w: cannot move a %s order to %s", shared.ErrInvalidState, current.Status, to)
		}
	}

	order, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	s.emitStatusChanged(ctx, order, from, to)
	s.audit(ctx, actorID, action, id, nil)
	return order, nil
}

func (s *Service) emitStatusChanged(ctx context.Context, order *Order, from, to Status) {
	s.sink.OrderStatusChanged(ctx, notify.OrderStatusChangedEvent{
		EventID:     uuid.New(),
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		From:        string(from),
		To:          string(to),
		At:          time.Now(),
	})
}

func (s *Service) audit(ctx context.Context, actorID int64, action string, orderID int64, meta map[string]any) {
	if s.auditor == nil {
		return
	}
	if err := s.auditor.Record(ctx, shared.AuditLog{
		ActorID:  fmt.Sprintf("%d", actorID),
		Action:   action,
		Entity:   "order",
		EntityID: fmt.Sprintf("%d", orderID),
		Meta:     meta,
	}); err != nil && s.logger != nil {
		s.logger.Error("audit record failed", slog.String("action", action), slog.Any("error", err))
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
