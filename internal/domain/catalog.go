package domain

import "strings"

// indexFilePrefix marks non-content interstitial pages. They carry the
// stage's start marker but are never candidates for selection or scoring.
const indexFilePrefix = "index"

// Question is one catalog item. Several questions may share a Filename
// and are displayed together on one page. Attr1 is the primary scoring
// slot (tendency/thinking), Attr3 the image-specific slot.
type Question struct {
	Code         string
	Filename     string
	Stage        Stage
	Attr1        string
	Attr2        string
	Attr3        string
	StageOrder   int
	SeqOrder     int
	TimeLimitSec int
	Active       bool
}

// IsIndexPage reports whether the question is an interstitial marker
// rather than scorable content.
func (q *Question) IsIndexPage() bool {
	return strings.HasPrefix(q.Filename, indexFilePrefix)
}

// ScoringAttribute is the grouping code scoring aggregates over.
// TotalPossible is the configured maximum summed weight for the
// attribute, used to normalize scores into rates.
type ScoringAttribute struct {
	Code          string
	Stage         Stage
	Name          string
	TotalPossible float64
}

// QuestionContent is the localized display body of a catalog item.
type QuestionContent struct {
	QuestionCode string
	Locale       string
	Body         string
}

// LookupStatus tags the outcome of a content lookup chain.
type LookupStatus int

const (
	LookupNotFound LookupStatus = iota
	LookupPartialFallback
	LookupFound
)

// ContentLookup is the tagged result of resolving question content
// through the catalog, fallback-catalog and default-content providers.
type ContentLookup struct {
	Status  LookupStatus
	Content *QuestionContent
}
