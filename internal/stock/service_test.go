package stock

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paletar/paletar/internal/notify"
	"github.com/paletar/paletar/internal/shared"
)

type productRow struct {
	name      string
	recorded  int
	threshold int
}

type mockRepo struct {
	mu        sync.Mutex
	products  map[int64]*productRow
	allocated map[int64]int
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		products:  make(map[int64]*productRow),
		allocated: make(map[int64]int),
	}
}

func (m *mockRepo) ProductState(_ context.Context, id int64) (string, int, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return "", 0, 0, shared.ErrNotFound
	}
	return p.name, p.recorded, p.threshold, nil
}

func (m *mockRepo) AllocatedStock(_ context.Context, id int64) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.allocated[id], nil
}

func (m *mockRepo) AdjustRecordedStock(_ context.Context, id int64, delta int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return shared.ErrNotFound
	}
	p.recorded += delta
	return nil
}

func (m *mockRepo) Overview(_ context.Context) ([]ProductStock, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []ProductStock
	for id, p := range m.products {
		ps := ProductStock{
			ProductID:      id,
			Name:           p.name,
			Recorded:       p.recorded,
			Allocated:      m.allocated[id],
			AlertThreshold: p.threshold,
		}
		ps.Available = ps.Recorded - ps.Allocated
		ps.Critical = ps.Available <= ps.AlertThreshold
		out = append(out, ps)
	}
	return out, nil
}

type capturingSink struct {
	notify.NopSink
	mu     sync.Mutex
	events []notify.StockCriticalEvent
}

func (s *capturingSink) StockCritical(_ context.Context, ev notify.StockCriticalEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
}

func TestAvailableIsRecordedMinusAllocated(t *testing.T) {
	repo := newMockRepo()
	repo.products[1] = &productRow{name: "Brick", recorded: 100, threshold: 10}
	repo.allocated[1] = 30
	svc := NewService(repo, nil, nil)

	available, err := svc.AvailableStock(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 70, available)

	allocated, err := svc.AllocatedStock(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 30, allocated)
}

func TestAvailableCanGoNegative(t *testing.T) {
	repo := newMockRepo()
	repo.products[1] = &productRow{name: "Brick", recorded: 10, threshold: 5}
	repo.allocated[1] = 25
	svc := NewService(repo, nil, nil)

	available, err := svc.AvailableStock(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, -15, available)
}

func TestAdjustRejectsZeroDelta(t *testing.T) {
	repo := newMockRepo()
	repo.products[1] = &productRow{name: "Brick", recorded: 10}
	svc := NewService(repo, nil, nil)

	err := svc.AdjustRecordedStock(context.Background(), 1, 0)
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestAdjustUnknownProduct(t *testing.T) {
	svc := NewService(newMockRepo(), nil, nil)

	err := svc.AdjustRecordedStock(context.Background(), 7, 5)
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestNegativeAdjustEmitsAlertAtThreshold(t *testing.T) {
	repo := newMockRepo()
	repo.products[1] = &productRow{name: "Cement", recorded: 12, threshold: 10}
	sink := &capturingSink{}
	svc := NewService(repo, sink, nil)

	require.NoError(t, svc.AdjustRecordedStock(context.Background(), 1, -2))

	require.Len(t, sink.events, 1)
	assert.Equal(t, "Cement", sink.events[0].ProductName)
	assert.Equal(t, 10, sink.events[0].Available)
	assert.NotEqual(t, "00000000-0000-0000-0000-000000000000", sink.events[0].EventID.String())
}

func TestPositiveAdjustDoesNotAlert(t *testing.T) {
	repo := newMockRepo()
	repo.products[1] = &productRow{name: "Cement", recorded: 5, threshold: 10}
	sink := &capturingSink{}
	svc := NewService(repo, sink, nil)

	require.NoError(t, svc.AdjustRecordedStock(context.Background(), 1, 20))
	assert.Empty(t, sink.events)
}

func TestIsAlertThreshold(t *testing.T) {
	repo := newMockRepo()
	repo.products[1] = &productRow{name: "Tile", recorded: 20, threshold: 10}
	repo.allocated[1] = 10
	svc := NewService(repo, nil, nil)

	critical, err := svc.IsAlertThreshold(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, critical, "available == threshold counts as critical")

	repo.allocated[1] = 5
	critical, err = svc.IsAlertThreshold(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, critical)
}

func TestOverviewMarksCritical(t *testing.T) {
	repo := newMockRepo()
	repo.products[1] = &productRow{name: "Tile", recorded: 8, threshold: 10}
	repo.products[2] = &productRow{name: "Brick", recorded: 100, threshold: 10}
	svc := NewService(repo, nil, nil)

	overview, err := svc.Overview(context.Background())
	require.NoError(t, err)
	require.Len(t, overview, 2)

	byName := map[string]ProductStock{}
	for _, ps := range overview {
		byName[ps.Name] = ps
	}
	assert.True(t, byName["Tile"].Critical)
	assert.False(t, byName["Brick"].Critical)
}
