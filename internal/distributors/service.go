package distributors

import (
	"context"
	"fmt"
	"strings"

	"github.com/paletar/paletar/internal/shared"
)

// Service implements distributor use cases.
type Service struct {
	repo Repository
}

// NewService constructs the distributor service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Resolve turns an order's distributor reference into a persisted row.
// An explicit ID must exist; a name is found or created lazily.
func (s *Service) Resolve(ctx context.Context, ref Ref) (*Distributor, error) {
	if ref.ID > 0 {
		return s.repo.Get(ctx, ref.ID)
	}

	name := strings.TrimSpace(ref.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: distributor name is required", shared.ErrValidation)
	}

	return s.repo.FindOrCreate(ctx, Distributor{
		Name:        name,
		ContactName: strings.TrimSpace(ref.ContactName),
		Phone:       strings.TrimSpace(ref.Phone),
		Address:     strings.TrimSpace(ref.Address),
		City:        strings.TrimSpace(ref.City),
		County:      strings.TrimSpace(ref.County),
	})
}

// Get returns a distributor by ID.
func (s *Service) Get(ctx context.Context, id int64) (*Distributor, error) {
	return s.repo.Get(ctx, id)
}

// List returns all distributors.
func (s *Service) List(ctx context.Context) ([]Distributor, error) {
	return s.repo.List(ctx)
}

// Update edits contact details. The name is immutable because orders
// reference distributors by the lazily created row.
func (s *Service) Update(ctx context.Context, id int64, ref Ref) (*Distributor, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	existing.ContactName = strings.TrimSpace(ref.ContactName)
	existing.Phone = strings.TrimSpace(ref.Phone)
	existing.Address = strings.TrimSpace(ref.Address)
	existing.City = strings.TrimSpace(ref.City)
	existing.County = strings.TrimSpace(ref.County)

	if err := s.repo.Update(ctx, *existing); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}
