package service

import (
	"context"
	"time"

	"go.uber.org/zap"
)

type cacheRepository interface {
	Get(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// CacheService wraps the Redis repository and degrades to a no-op when the
// cache is unavailable.
type CacheService struct {
	repo    cacheRepository
	logger  *zap.Logger
	enabled bool
}

func NewCacheService(repo cacheRepository, logger *zap.Logger) *CacheService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CacheService{
		repo:    repo,
		logger:  logger,
		enabled: repo != nil,
	}
}

// Enabled reports whether a cache backend is configured.
func (s *CacheService) Enabled() bool {
	return s != nil && s.enabled
}

func (s *CacheService) Get(ctx context.Context, key string, dest any) error {
	if !s.Enabled() {
		return nil
	}
	return s.repo.Get(ctx, key, dest)
}

func (s *CacheService) Set(ctx context.Context, key string, value any, ttl time.Duration) {
	if !s.Enabled() {
		return
	}
	if err := s.repo.Set(ctx, key, value, ttl); err != nil {
		s.logger.Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}
}

func (s *CacheService) Invalidate(ctx context.Context, pattern string) {
	if !s.Enabled() {
		return
	}
	if err := s.repo.DeleteByPattern(ctx, pattern); err != nil {
		s.logger.Warn("cache invalidation failed", zap.String("pattern", pattern), zap.Error(err))
	}
}
