package distributors

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paletar/paletar/internal/shared"
)

type mockRepo struct {
	byID   map[int64]Distributor
	byName map[string]int64
	nextID int64
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		byID:   make(map[int64]Distributor),
		byName: make(map[string]int64),
		nextID: 1,
	}
}

func (m *mockRepo) Get(_ context.Context, id int64) (*Distributor, error) {
	d, ok := m.byID[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &d, nil
}

func (m *mockRepo) GetByName(_ context.Context, name string) (*Distributor, error) {
	id, ok := m.byName[name]
	if !ok {
		return nil, shared.ErrNotFound
	}
	d := m.byID[id]
	return &d, nil
}

func (m *mockRepo) List(_ context.Context) ([]Distributor, error) {
	var out []Distributor
	for _, d := range m.byID {
		out = append(out, d)
	}
	return out, nil
}

func (m *mockRepo) FindOrCreate(ctx context.Context, d Distributor) (*Distributor, error) {
	if id, ok := m.byName[d.Name]; ok {
		existing := m.byID[id]
		return &existing, nil
	}
	d.ID = m.nextID
	d.CreatedAt = time.Now()
	d.UpdatedAt = d.CreatedAt
	m.byID[d.ID] = d
	m.byName[d.Name] = d.ID
	m.nextID++
	return &d, nil
}

func (m *mockRepo) Update(_ context.Context, d Distributor) error {
	if _, ok := m.byID[d.ID]; !ok {
		return shared.ErrNotFound
	}
	m.byID[d.ID] = d
	return nil
}

func TestResolveCreatesByName(t *testing.T) {
	svc := NewService(newMockRepo())

	d, err := svc.Resolve(context.Background(), Ref{Name: "Construct SRL", City: "Cluj"})
	require.NoError(t, err)
	assert.Equal(t, "Construct SRL", d.Name)
	assert.NotZero(t, d.ID)
}

func TestResolveReusesExistingName(t *testing.T) {
	svc := NewService(newMockRepo())

	first, err := svc.Resolve(context.Background(), Ref{Name: "Construct SRL"})
	require.NoError(t, err)

	second, err := svc.Resolve(context.Background(), Ref{Name: "Construct SRL", City: "other"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}

func TestResolveByID(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)

	created, err := svc.Resolve(context.Background(), Ref{Name: "Depozit Vest"})
	require.NoError(t, err)

	resolved, err := svc.Resolve(context.Background(), Ref{ID: created.ID})
	require.NoError(t, err)
	assert.Equal(t, created.ID, resolved.ID)
}

func TestResolveUnknownID(t *testing.T) {
	svc := NewService(newMockRepo())

	_, err := svc.Resolve(context.Background(), Ref{ID: 42})
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestResolveRejectsBlankName(t *testing.T) {
	svc := NewService(newMockRepo())

	_, err := svc.Resolve(context.Background(), Ref{Name: "  "})
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestUpdateKeepsName(t *testing.T) {
	svc := NewService(newMockRepo())

	created, err := svc.Resolve(context.Background(), Ref{Name: "Depozit Est"})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), created.ID, Ref{Name: "ignored", Phone: "0740123123"})
	require.NoError(t, err)
	assert.Equal(t, "Depozit Est", updated.Name)
	assert.Equal(t, "0740123123", updated.Phone)
}
