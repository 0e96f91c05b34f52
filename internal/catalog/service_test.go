package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paletar/paletar/internal/shared"
)

type mockRepo struct {
	products map[int64]Product
	nextID   int64
}

func newMockRepo() *mockRepo {
	return &mockRepo{products: make(map[int64]Product), nextID: 1}
}

func (m *mockRepo) Create(_ context.Context, p Product) (int64, error) {
	for _, existing := range m.products {
		if existing.Name == p.Name {
			return 0, shared.ErrConflict
		}
	}
	p.ID = m.nextID
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	m.products[p.ID] = p
	m.nextID++
	return p.ID, nil
}

func (m *mockRepo) Update(_ context.Context, p Product) error {
	if _, ok := m.products[p.ID]; !ok {
		return shared.ErrNotFound
	}
	m.products[p.ID] = p
	return nil
}

func (m *mockRepo) Get(_ context.Context, id int64) (*Product, error) {
	p, ok := m.products[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &p, nil
}

func (m *mockRepo) List(_ context.Context, includeInactive bool) ([]Product, error) {
	var out []Product
	for _, p := range m.products {
		if !includeInactive && !p.Active {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (m *mockRepo) AddRecordedStock(_ context.Context, id int64, qty int) error {
	p, ok := m.products[id]
	if !ok {
		return shared.ErrNotFound
	}
	p.RecordedStock += qty
	m.products[id] = p
	return nil
}

func TestCreateProduct(t *testing.T) {
	svc := NewService(newMockRepo(), nil, nil)

	p, err := svc.Create(context.Background(), CreateProductRequest{
		Name:           "Concrete block 20cm",
		RecordedStock:  40,
		AlertThreshold: 10,
	}, "1")
	require.NoError(t, err)
	assert.Equal(t, "Concrete block 20cm", p.Name)
	assert.Equal(t, 40, p.RecordedStock)
	assert.True(t, p.Active)
}

func TestCreateProductRejectsEmptyName(t *testing.T) {
	svc := NewService(newMockRepo(), nil, nil)

	_, err := svc.Create(context.Background(), CreateProductRequest{Name: "   "}, "1")
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestCreateProductRejectsNegativeStock(t *testing.T) {
	svc := NewService(newMockRepo(), nil, nil)

	_, err := svc.Create(context.Background(), CreateProductRequest{Name: "Brick", RecordedStock: -1}, "1")
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestUpdateProductPartial(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, nil, nil)

	created, err := svc.Create(context.Background(), CreateProductRequest{Name: "Roof tile", AlertThreshold: 5}, "1")
	require.NoError(t, err)

	threshold := 12
	updated, err := svc.Update(context.Background(), created.ID, UpdateProductRequest{AlertThreshold: &threshold}, "1")
	require.NoError(t, err)
	assert.Equal(t, 12, updated.AlertThreshold)
	assert.Equal(t, "Roof tile", updated.Name)
}

func TestUpdateMissingProduct(t *testing.T) {
	svc := NewService(newMockRepo(), nil, nil)

	_, err := svc.Update(context.Background(), 99, UpdateProductRequest{}, "1")
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestAddProduction(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, nil, nil)

	created, err := svc.Create(context.Background(), CreateProductRequest{Name: "Cement bag", RecordedStock: 10}, "1")
	require.NoError(t, err)

	p, err := svc.AddProduction(context.Background(), created.ID, AddProductionRequest{Quantity: 25}, "1")
	require.NoError(t, err)
	assert.Equal(t, 35, p.RecordedStock)
}

func TestAddProductionRejectsNonPositiveQuantity(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, nil, nil)

	created, err := svc.Create(context.Background(), CreateProductRequest{Name: "Gravel", RecordedStock: 5}, "1")
	require.NoError(t, err)

	_, err = svc.AddProduction(context.Background(), created.ID, AddProductionRequest{Quantity: 0}, "1")
	require.ErrorIs(t, err, shared.ErrValidation)

	_, err = svc.AddProduction(context.Background(), created.ID, AddProductionRequest{Quantity: -3}, "1")
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestListFiltersInactive(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, nil, nil)

	a, err := svc.Create(context.Background(), CreateProductRequest{Name: "Sand"}, "1")
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), CreateProductRequest{Name: "Lime"}, "1")
	require.NoError(t, err)

	inactive := false
	_, err = svc.Update(context.Background(), a.ID, UpdateProductRequest{Active: &inactive}, "1")
	require.NoError(t, err)

	active, err := svc.List(context.Background(), false)
	require.NoError(t, err)
	assert.Len(t, active, 1)

	all, err := svc.List(context.Background(), true)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
