package repository

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"aptitest/internal/cache"
	"aptitest/internal/domain"

	"github.com/stretchr/testify/assert"
)

// fakeCache is an in-memory domain.Cache for decorator tests.
type fakeCache struct {
	data map[string]string
	sets int
	gets int
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string]string)}
}

func (c *fakeCache) Get(_ context.Context, key string) (string, error) {
	c.gets++
	v, ok := c.data[key]
	if !ok {
		return "", domain.ErrCacheMiss
	}
	return v, nil
}

func (c *fakeCache) Set(_ context.Context, key string, value string, _ time.Duration) error {
	c.sets++
	c.data[key] = value
	return nil
}

func (c *fakeCache) Delete(_ context.Context, key string) error {
	delete(c.data, key)
	return nil
}

func (c *fakeCache) Ping(_ context.Context) error { return nil }

// countingCatalog wraps a static catalog and counts store reads.
type countingCatalog struct {
	items  []domain.Question
	marker *domain.Question
	attrs  []domain.ScoringAttribute
	err    error
	reads  int
}

func (s *countingCatalog) GetStageItems(_ context.Context, _ domain.Stage) ([]domain.Question, error) {
	s.reads++
	return s.items, s.err
}
func (s *countingCatalog) GetQuestion(_ context.Context, _ string) (*domain.Question, error) {
	s.reads++
	return nil, s.err
}
func (s *countingCatalog) GetStageMarker(_ context.Context, _ domain.Stage) (*domain.Question, error) {
	s.reads++
	return s.marker, s.err
}
func (s *countingCatalog) GetAttributes(_ context.Context, _ domain.Stage) ([]domain.ScoringAttribute, error) {
	s.reads++
	return s.attrs, s.err
}
func (s *countingCatalog) GetContent(_ context.Context, _, _ string) (*domain.QuestionContent, error) {
	s.reads++
	return nil, s.err
}

func TestCachedCatalog_GetStageItems_FillsAndServesFromCache(t *testing.T) {
	store := &countingCatalog{items: []domain.Question{{Code: "T001", Filename: "T001.html", Stage: domain.StageTendency}}}
	c := newFakeCache()
	repo := NewCachedCatalogRepository(store, c, time.Minute)

	first, err := repo.GetStageItems(context.Background(), domain.StageTendency)
	assert.NoError(t, err)
	assert.Len(t, first, 1)
	assert.Equal(t, 1, store.reads)
	assert.Equal(t, 1, c.sets)

	second, err := repo.GetStageItems(context.Background(), domain.StageTendency)
	assert.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, store.reads, "second read must be served from cache")
}

func TestCachedCatalog_CorruptEntryIsDroppedAndRefilled(t *testing.T) {
	store := &countingCatalog{items: []domain.Question{{Code: "T001"}}}
	c := newFakeCache()
	key := cache.GenerateCacheKey("catalog", "stage_items", string(domain.StageTendency))
	c.data[key] = "{not json"

	repo := NewCachedCatalogRepository(store, c, time.Minute)
	items, err := repo.GetStageItems(context.Background(), domain.StageTendency)

	assert.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, 1, store.reads)

	var refreshed []domain.Question
	assert.NoError(t, json.Unmarshal([]byte(c.data[key]), &refreshed))
	assert.Equal(t, "T001", refreshed[0].Code)
}

func TestCachedCatalog_MissingMarkerIsNotCached(t *testing.T) {
	store := &countingCatalog{marker: nil}
	c := newFakeCache()
	repo := NewCachedCatalogRepository(store, c, time.Minute)

	marker, err := repo.GetStageMarker(context.Background(), domain.StageThinking)
	assert.NoError(t, err)
	assert.Nil(t, marker)
	assert.Equal(t, 0, c.sets)

	// A later read goes back to the store; the gap may have been fixed.
	marker, err = repo.GetStageMarker(context.Background(), domain.StageThinking)
	assert.NoError(t, err)
	assert.Nil(t, marker)
	assert.Equal(t, 2, store.reads)
}

func TestCachedCatalog_StoreErrorPropagates(t *testing.T) {
	store := &countingCatalog{err: errors.New("db down")}
	c := newFakeCache()
	repo := NewCachedCatalogRepository(store, c, time.Minute)

	_, err := repo.GetAttributes(context.Background(), domain.StageTendency)
	assert.Error(t, err)
	assert.Equal(t, 0, c.sets)
}
