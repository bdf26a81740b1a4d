package service

import (
	"context"

	"aptitest/internal/domain"
	"go.uber.org/zap"
)

// ContentProvider is one link of the content lookup chain. A provider
// returns LookupNotFound to pass the request to the next link; errors
// abort the chain.
type ContentProvider interface {
	Resolve(ctx context.Context, code string) (domain.ContentLookup, error)
}

// catalogContentProvider serves localized bodies straight from the
// catalog. The same type backs both the primary-locale and the
// fallback-locale links; only the tag on a hit differs.
type catalogContentProvider struct {
	catalog domain.CatalogRepository
	locale  string
	status  domain.LookupStatus
}

func NewCatalogContentProvider(catalog domain.CatalogRepository, locale string, status domain.LookupStatus) ContentProvider {
	return &catalogContentProvider{catalog: catalog, locale: locale, status: status}
}

func (p *catalogContentProvider) Resolve(ctx context.Context, code string) (domain.ContentLookup, error) {
	content, err := p.catalog.GetContent(ctx, code, p.locale)
	if err != nil {
		return domain.ContentLookup{}, err
	}
	if content == nil {
		return domain.ContentLookup{Status: domain.LookupNotFound}, nil
	}
	return domain.ContentLookup{Status: p.status, Content: content}, nil
}

// staticContentProvider terminates the chain with a fixed body so the
// client always has something to render for items whose content rows
// were never loaded.
type staticContentProvider struct {
	body string
}

func NewStaticContentProvider(body string) ContentProvider {
	return &staticContentProvider{body: body}
}

func (p *staticContentProvider) Resolve(_ context.Context, code string) (domain.ContentLookup, error) {
	if p.body == "" {
		return domain.ContentLookup{Status: domain.LookupNotFound}, nil
	}
	return domain.ContentLookup{
		Status:  domain.LookupPartialFallback,
		Content: &domain.QuestionContent{QuestionCode: code, Body: p.body},
	}, nil
}

// ContentResolver walks providers in order and returns the first hit.
// Content is display enrichment, so provider errors degrade to a miss
// instead of failing the item delivery.
type ContentResolver struct {
	providers []ContentProvider
	logger    *zap.Logger
}

func NewContentResolver(logger *zap.Logger, providers ...ContentProvider) *ContentResolver {
	return &ContentResolver{providers: providers, logger: logger}
}

func (r *ContentResolver) Resolve(ctx context.Context, code string) domain.ContentLookup {
	for _, p := range r.providers {
		lookup, err := p.Resolve(ctx, code)
		if err != nil {
			r.logger.Warn("content provider failed", zap.String("questionCode", code), zap.Error(err))
			continue
		}
		if lookup.Status != domain.LookupNotFound {
			return lookup
		}
	}
	return domain.ContentLookup{Status: domain.LookupNotFound}
}
