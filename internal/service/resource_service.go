package service

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/access-control-api/internal/domain"
	"github.com/spec-kit/access-control-api/internal/repository"
)

// ResourceCache abstracts the read-through cache for tier listings.
type ResourceCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// ResourceService serves tiered resource listings with a best-effort
// cache in front of Postgres. Cache failures degrade to a direct read.
type ResourceService struct {
	resources repository.ResourceRepository
	cache     ResourceCache
	cacheTTL  time.Duration
	logger    *zap.Logger
}

// NewResourceService builds the service.
func NewResourceService(resources repository.ResourceRepository, cache ResourceCache, cacheTTL time.Duration, logger *zap.Logger) *ResourceService {
	return &ResourceService{
		resources: resources,
		cache:     cache,
		cacheTTL:  cacheTTL,
		logger:    logger,
	}
}

// ListByTier returns the resources of the given tier.
func (s *ResourceService) ListByTier(ctx context.Context, tier domain.ResourceTier) ([]domain.Resource, error) {
	cacheKey := "resources:" + string(tier)

	if s.cache != nil {
		payload, hit, err := s.cache.Get(ctx, cacheKey)
		if err != nil {
			s.logger.Warn("resource cache read failed", zap.Error(err))
		} else if hit {
			var cached []domain.Resource
			if err := json.Unmarshal(payload, &cached); err == nil {
				return cached, nil
			}
			s.logger.Warn("resource cache payload corrupt; falling back to store", zap.String("key", cacheKey))
		}
	}

	resources, err := s.resources.ListByTier(ctx, tier)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if payload, err := json.Marshal(resources); err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL); err != nil {
				s.logger.Warn("resource cache write failed", zap.Error(err))
			}
		}
	}
	return resources, nil
}
