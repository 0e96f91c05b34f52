package dashboard

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingRepo struct {
	calls atomic.Int64
}

func (r *countingRepo) Summary(context.Context) (*Summary, error) {
	r.calls.Add(1)
	return &Summary{
		OrdersByStatus:   map[string]int{"waiting": 3, "delivered": 5},
		DeliveredRevenue: 1250.50,
		ActiveAllocation: 42,
		CriticalProducts: 2,
	}, nil
}

func newTestService(t *testing.T) (*Service, *countingRepo, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	repo := &countingRepo{}
	return NewService(repo, client, nil), repo, mr
}

func TestSummaryComputesOnce(t *testing.T) {
	svc, repo, _ := newTestService(t)

	first, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 42, first.ActiveAllocation)

	second, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first.DeliveredRevenue, second.DeliveredRevenue)

	assert.Equal(t, int64(1), repo.calls.Load(), "second read must hit the cache")
}

func TestSummaryRecomputesAfterTTL(t *testing.T) {
	svc, repo, mr := newTestService(t)

	_, err := svc.Summary(context.Background())
	require.NoError(t, err)

	mr.FastForward(cacheTTL + 1)

	_, err = svc.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), repo.calls.Load())
}

func TestInvalidateDropsCache(t *testing.T) {
	svc, repo, _ := newTestService(t)

	_, err := svc.Summary(context.Background())
	require.NoError(t, err)

	svc.Invalidate(context.Background())

	_, err = svc.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), repo.calls.Load())
}

func TestSummaryWithoutCacheStillWorks(t *testing.T) {
	repo := &countingRepo{}
	svc := NewService(repo, nil, nil)

	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, summary.CriticalProducts)
	assert.Equal(t, int64(1), repo.calls.Load())
}
