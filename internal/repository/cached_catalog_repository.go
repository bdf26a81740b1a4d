package repository

import (
	"context"
	"encoding/json"
	"time"

	"aptitest/internal/cache"
	"aptitest/internal/domain"
	"aptitest/internal/logger"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// CachedCatalogRepository decorates a CatalogRepository with a cache for
// the hot, immutable projections (stage item lists, attributes, stage
// markers). A singleflight group collapses concurrent fills for the same
// key so a cold cache triggers one database read, not one per request.
type CachedCatalogRepository struct {
	store domain.CatalogRepository
	cache domain.Cache
	ttl   time.Duration
	group singleflight.Group
}

// NewCachedCatalogRepository wraps store with the given cache and TTL.
func NewCachedCatalogRepository(store domain.CatalogRepository, c domain.Cache, ttl time.Duration) *CachedCatalogRepository {
	return &CachedCatalogRepository{store: store, cache: c, ttl: ttl}
}

func (r *CachedCatalogRepository) GetStageItems(ctx context.Context, stage domain.Stage) ([]domain.Question, error) {
	key := cache.GenerateCacheKey("catalog", "stage_items", string(stage))

	if cached, err := r.cache.Get(ctx, key); err == nil {
		var items []domain.Question
		if err := json.Unmarshal([]byte(cached), &items); err == nil {
			return items, nil
		}
		// Corrupt entry: drop it and fall through to the store.
		_ = r.cache.Delete(ctx, key)
	} else if err != domain.ErrCacheMiss {
		logger.Get().Warn("catalog cache read failed, falling back to store",
			zap.String("key", key), zap.Error(err))
	}

	v, err, _ := r.group.Do(key, func() (interface{}, error) {
		items, err := r.store.GetStageItems(ctx, stage)
		if err != nil {
			return nil, err
		}
		if payload, err := json.Marshal(items); err == nil {
			if setErr := r.cache.Set(ctx, key, string(payload), r.ttl); setErr != nil {
				logger.Get().Warn("catalog cache write failed",
					zap.String("key", key), zap.Error(setErr))
			}
		}
		return items, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.Question), nil
}

func (r *CachedCatalogRepository) GetStageMarker(ctx context.Context, stage domain.Stage) (*domain.Question, error) {
	key := cache.GenerateCacheKey("catalog", "stage_marker", string(stage))

	if cached, err := r.cache.Get(ctx, key); err == nil {
		var q domain.Question
		if err := json.Unmarshal([]byte(cached), &q); err == nil {
			return &q, nil
		}
		_ = r.cache.Delete(ctx, key)
	}

	v, err, _ := r.group.Do(key, func() (interface{}, error) {
		marker, err := r.store.GetStageMarker(ctx, stage)
		if err != nil {
			return nil, err
		}
		// A missing marker is a catalog gap, never cached.
		if marker != nil {
			if payload, err := json.Marshal(marker); err == nil {
				if setErr := r.cache.Set(ctx, key, string(payload), r.ttl); setErr != nil {
					logger.Get().Warn("catalog cache write failed",
						zap.String("key", key), zap.Error(setErr))
				}
			}
		}
		return marker, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.Question), nil
}

func (r *CachedCatalogRepository) GetAttributes(ctx context.Context, stage domain.Stage) ([]domain.ScoringAttribute, error) {
	key := cache.GenerateCacheKey("catalog", "attributes", string(stage))

	if cached, err := r.cache.Get(ctx, key); err == nil {
		var attrs []domain.ScoringAttribute
		if err := json.Unmarshal([]byte(cached), &attrs); err == nil {
			return attrs, nil
		}
		_ = r.cache.Delete(ctx, key)
	}

	v, err, _ := r.group.Do(key, func() (interface{}, error) {
		attrs, err := r.store.GetAttributes(ctx, stage)
		if err != nil {
			return nil, err
		}
		if payload, err := json.Marshal(attrs); err == nil {
			if setErr := r.cache.Set(ctx, key, string(payload), r.ttl); setErr != nil {
				logger.Get().Warn("catalog cache write failed",
					zap.String("key", key), zap.Error(setErr))
			}
		}
		return attrs, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.ScoringAttribute), nil
}

// GetQuestion and GetContent are point lookups on indexed keys; they go
// straight to the store.
func (r *CachedCatalogRepository) GetQuestion(ctx context.Context, code string) (*domain.Question, error) {
	return r.store.GetQuestion(ctx, code)
}

func (r *CachedCatalogRepository) GetContent(ctx context.Context, code, locale string) (*domain.QuestionContent, error) {
	return r.store.GetContent(ctx, code, locale)
}
