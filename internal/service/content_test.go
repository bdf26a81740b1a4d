package service

import (
	"context"
	"errors"
	"testing"

	"aptitest/internal/domain"
	"aptitest/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestContentResolver_PrimaryLocaleHit(t *testing.T) {
	catalog := new(MockCatalogRepository)
	catalog.On("GetContent", mock.Anything, "T001", "ko").Return(&domain.QuestionContent{
		QuestionCode: "T001", Locale: "ko", Body: "본문",
	}, nil)

	resolver := NewContentResolver(logger.Get(),
		NewCatalogContentProvider(catalog, "ko", domain.LookupFound),
		NewCatalogContentProvider(catalog, "en", domain.LookupPartialFallback),
	)
	lookup := resolver.Resolve(context.Background(), "T001")

	assert.Equal(t, domain.LookupFound, lookup.Status)
	assert.Equal(t, "본문", lookup.Content.Body)
	catalog.AssertNotCalled(t, "GetContent", mock.Anything, "T001", "en")
}

func TestContentResolver_FallsBackToSecondLocale(t *testing.T) {
	catalog := new(MockCatalogRepository)
	catalog.On("GetContent", mock.Anything, "T001", "ko").Return(nil, nil)
	catalog.On("GetContent", mock.Anything, "T001", "en").Return(&domain.QuestionContent{
		QuestionCode: "T001", Locale: "en", Body: "body",
	}, nil)

	resolver := NewContentResolver(logger.Get(),
		NewCatalogContentProvider(catalog, "ko", domain.LookupFound),
		NewCatalogContentProvider(catalog, "en", domain.LookupPartialFallback),
	)
	lookup := resolver.Resolve(context.Background(), "T001")

	assert.Equal(t, domain.LookupPartialFallback, lookup.Status)
	assert.Equal(t, "body", lookup.Content.Body)
}

func TestContentResolver_ProviderErrorDegradesToMiss(t *testing.T) {
	catalog := new(MockCatalogRepository)
	catalog.On("GetContent", mock.Anything, "T001", "ko").Return(nil, errors.New("db down"))
	catalog.On("GetContent", mock.Anything, "T001", "en").Return(nil, nil)

	resolver := NewContentResolver(logger.Get(),
		NewCatalogContentProvider(catalog, "ko", domain.LookupFound),
		NewCatalogContentProvider(catalog, "en", domain.LookupPartialFallback),
	)
	lookup := resolver.Resolve(context.Background(), "T001")

	assert.Equal(t, domain.LookupNotFound, lookup.Status)
	assert.Nil(t, lookup.Content)
}
