package dashboard

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

const (
	cacheKey = "dashboard:summary"
	cacheTTL = 10 * time.Minute
)

// Service serves the KPI snapshot, cached in Redis. Concurrent cache misses
// collapse into a single database pass via singleflight.
type Service struct {
	repo   Repository
	cache  *redis.Client
	group  singleflight.Group
	logger *slog.Logger
}

// NewService constructs the dashboard service.
func NewService(repo Repository, cache *redis.Client, logger *slog.Logger) *Service {
	return &Service{repo: repo, cache: cache, logger: logger}
}

// Summary returns the KPI snapshot, from cache when fresh.
func (s *Service) Summary(ctx context.Context) (*Summary, error) {
	if cached := s.fromCache(ctx); cached != nil {
		return cached, nil
	}

	v, err, _ := s.group.Do(cacheKey, func() (any, error) {
		// Re-check under the flight: a sibling may have filled the cache.
		if cached := s.fromCache(ctx); cached != nil {
			return cached, nil
		}
		summary, err := s.repo.Summary(ctx)
		if err != nil {
			return nil, err
		}
		s.store(ctx, summary)
		return summary, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Summary), nil
}

// Invalidate drops the cached snapshot so the next read recomputes.
func (s *Service) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, cacheKey).Err(); err != nil && s.logger != nil {
		s.logger.Warn("dashboard cache invalidate failed", slog.Any("error", err))
	}
}

func (s *Service) fromCache(ctx context.Context) *Summary {
	if s.cache == nil {
		return nil
	}
	data, err := s.cache.Get(ctx, cacheKey).Bytes()
	if err != nil {
		return nil
	}
	var summary Summary
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil
	}
	return &summary
}

func (s *Service) store(ctx context.Context, summary *Summary) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(summary)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, cacheKey, data, cacheTTL).Err(); err != nil && s.logger != nil {
		s.logger.Warn("dashboard cache store failed", slog.Any("error", err))
	}
}
