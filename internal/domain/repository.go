package domain

import (
	"context"
	"time"
)

// TransactionManager runs fn inside a single database transaction.
// Repositories participate through the transaction-aware executor
// carried in ctx.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// SessionRepository persists assessment sessions.
type SessionRepository interface {
	Create(ctx context.Context, session *Session) error
	GetByID(ctx context.Context, id string) (*Session, error)
	// GetUnresolvedBySubject returns the subject's session with status
	// ready or in_progress, or nil when none exists. At most one such
	// session may exist per subject.
	GetUnresolvedBySubject(ctx context.Context, subjectID string) (*Session, error)
	// AdvanceStage is a compare-and-swap update keyed on version. It
	// returns a SESSION_CONFLICT error when the version moved.
	AdvanceStage(ctx context.Context, sessionID string, version int64, stage Stage, pointerCode string) error
	// SetPointer moves only the current-item cursor, also CAS-guarded.
	SetPointer(ctx context.Context, sessionID string, version int64, pointerCode string) error
	// End marks the session ended with the given timestamp, CAS-guarded.
	End(ctx context.Context, sessionID string, version int64, endedAt time.Time) error
}

// CatalogRepository reads the question catalog. The catalog is immutable
// during a session and may be freely cached.
type CatalogRepository interface {
	// GetStageItems returns the stage's active content items in canonical
	// order (stage_order, attr2, seq_order), index pages excluded.
	GetStageItems(ctx context.Context, stage Stage) ([]Question, error)
	GetQuestion(ctx context.Context, code string) (*Question, error)
	// GetStageMarker returns the stage's interstitial/start page.
	GetStageMarker(ctx context.Context, stage Stage) (*Question, error)
	GetAttributes(ctx context.Context, stage Stage) ([]ScoringAttribute, error)
	GetContent(ctx context.Context, code, locale string) (*QuestionContent, error)
}

// AnswerRepository persists weighted responses.
type AnswerRepository interface {
	// Upsert inserts or overwrites the (session, question) row. On insert
	// the progress sequence is assigned atomically as current max + 1;
	// on overwrite the existing progress is retained.
	Upsert(ctx context.Context, answer *Answer) error
	GetBySession(ctx context.Context, sessionID string) ([]Answer, error)
	// GetStageAnswers returns the session's answers joined with their
	// question scoring slots, restricted to the given stage.
	GetStageAnswers(ctx context.Context, sessionID string, stage Stage) ([]StageAnswer, error)
	// CountValidByStage counts distinct answered items for the stage
	// satisfying the positive-progress / non-negative-weight invariant.
	CountValidByStage(ctx context.Context, sessionID string, stage Stage) (int, error)
}

// ScoreRepository persists per-stage score entries. The only mutation is
// a full per-stage replace.
type ScoreRepository interface {
	ReplaceStageScores(ctx context.Context, sessionID string, stage Stage, entries []ScoreEntry) error
	GetBySession(ctx context.Context, sessionID string) ([]ScoreEntry, error)
}

// ResultSummaryRepository persists the per-session summary row.
type ResultSummaryRepository interface {
	Create(ctx context.Context, sessionID string) error
	UpdateTendency(ctx context.Context, sessionID string, topCodes []string) error
	UpdateThinking(ctx context.Context, sessionID string, topCodes []string, combinedScore float64) error
	UpdateImageStats(ctx context.Context, sessionID string, total, preferred int, rate float64) error
	GetBySession(ctx context.Context, sessionID string) (*ResultSummary, error)
}

// RecommendationRepository persists ranked targets and reads the static
// mapping tables the builder joins against.
type RecommendationRepository interface {
	ReplaceBasis(ctx context.Context, sessionID string, basis RecommendationBasis, recs []Recommendation) error
	GetBySession(ctx context.Context, sessionID string) ([]Recommendation, error)
	GetTargets(ctx context.Context) ([]RecommendationTarget, error)
	GetTargetAttributeMaps(ctx context.Context) ([]TargetAttributeMap, error)
	GetQuestionTargetMaps(ctx context.Context) ([]QuestionTargetMap, error)
}

// PurchaseRepository resolves a subject's entitlement.
type PurchaseRepository interface {
	GetEligible(ctx context.Context, subjectID string) (*Purchase, error)
}
