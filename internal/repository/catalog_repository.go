package repository

import (
	"context"
	"database/sql"
	"fmt"

	"aptitest/internal/domain"
	"aptitest/internal/repository/models"

	"github.com/jmoiron/sqlx"
)

// sqlxCatalogRepository implements domain.CatalogRepository using sqlx.
// The catalog is read-only from the engine's perspective.
type sqlxCatalogRepository struct {
	db DBTX
}

// NewSQLXCatalogRepository creates a new instance of sqlxCatalogRepository.
func NewSQLXCatalogRepository(db *sqlx.DB) domain.CatalogRepository {
	return &sqlxCatalogRepository{db: db}
}

func toDomainQuestion(m *models.Question) *domain.Question {
	if m == nil {
		return nil
	}
	return &domain.Question{
		Code:         m.Code,
		Filename:     m.Filename,
		Stage:        domain.Stage(m.Stage),
		Attr1:        m.Attr1.String,
		Attr2:        m.Attr2.String,
		Attr3:        m.Attr3.String,
		StageOrder:   m.StageOrder,
		SeqOrder:     m.SeqOrder,
		TimeLimitSec: m.TimeLimitSec,
		Active:       m.Active == 1,
	}
}

const questionSelectColumns = `
		code "code",
		filename "filename",
		stage "stage",
		attr1 "attr1",
		attr2 "attr2",
		attr3 "attr3",
		stage_order "stage_order",
		seq_order "seq_order",
		time_limit_sec "time_limit_sec",
		active "active"`

// GetStageItems returns the stage's active content items in canonical
// order. Index pages are excluded: they are interstitial markers, never
// selection candidates.
func (r *sqlxCatalogRepository) GetStageItems(ctx context.Context, stage domain.Stage) ([]domain.Question, error) {
	ex := GetExecutor(ctx, r.db)

	var rows []models.Question
	query := `SELECT ` + questionSelectColumns + `
	FROM questions
	WHERE stage = :1
	AND active = 1
	AND filename NOT LIKE 'index%'
	ORDER BY stage_order ASC, attr2 ASC, seq_order ASC`
	if err := ex.SelectContext(ctx, &rows, query, string(stage)); err != nil {
		return nil, fmt.Errorf("failed to query stage items for %s: %w", stage, err)
	}

	items := make([]domain.Question, 0, len(rows))
	for i := range rows {
		items = append(items, *toDomainQuestion(&rows[i]))
	}
	return items, nil
}

// GetQuestion returns the catalog item or nil when no row exists.
func (r *sqlxCatalogRepository) GetQuestion(ctx context.Context, code string) (*domain.Question, error) {
	ex := GetExecutor(ctx, r.db)

	var m models.Question
	query := `SELECT ` + questionSelectColumns + ` FROM questions WHERE code = :1`
	if err := ex.GetContext(ctx, &m, query, code); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get question %s: %w", code, err)
	}
	return toDomainQuestion(&m), nil
}

// GetStageMarker returns the stage's interstitial/start page, or nil.
// Callers treat nil as a fatal catalog gap; falling back to an arbitrary
// question would corrupt the canonical ordering.
func (r *sqlxCatalogRepository) GetStageMarker(ctx context.Context, stage domain.Stage) (*domain.Question, error) {
	ex := GetExecutor(ctx, r.db)

	var m models.Question
	query := `SELECT ` + questionSelectColumns + `
	FROM questions
	WHERE stage = :1
	AND active = 1
	AND filename LIKE 'index%'
	ORDER BY stage_order ASC, seq_order ASC
	FETCH FIRST 1 ROWS ONLY`
	if err := ex.GetContext(ctx, &m, query, string(stage)); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get stage marker for %s: %w", stage, err)
	}
	return toDomainQuestion(&m), nil
}

// GetAttributes returns the scoring attributes configured for a stage.
func (r *sqlxCatalogRepository) GetAttributes(ctx context.Context, stage domain.Stage) ([]domain.ScoringAttribute, error) {
	ex := GetExecutor(ctx, r.db)

	var rows []models.ScoringAttribute
	query := `SELECT
		code "code",
		stage "stage",
		name "name",
		total_possible "total_possible"
	FROM scoring_attributes
	WHERE stage = :1
	ORDER BY code ASC`
	if err := ex.SelectContext(ctx, &rows, query, string(stage)); err != nil {
		return nil, fmt.Errorf("failed to query scoring attributes for %s: %w", stage, err)
	}

	attrs := make([]domain.ScoringAttribute, 0, len(rows))
	for _, m := range rows {
		attrs = append(attrs, domain.ScoringAttribute{
			Code:          m.Code,
			Stage:         domain.Stage(m.Stage),
			Name:          m.Name,
			TotalPossible: m.TotalPossible,
		})
	}
	return attrs, nil
}

// GetContent returns the localized body for a question, or nil.
func (r *sqlxCatalogRepository) GetContent(ctx context.Context, code, locale string) (*domain.QuestionContent, error) {
	ex := GetExecutor(ctx, r.db)

	var m models.QuestionContent
	query := `SELECT
		question_code "question_code",
		locale "locale",
		body "body"
	FROM question_contents
	WHERE question_code = :1 AND locale = :2`
	if err := ex.GetContext(ctx, &m, query, code, locale); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get content for %s/%s: %w", code, locale, err)
	}
	return &domain.QuestionContent{
		QuestionCode: m.QuestionCode,
		Locale:       m.Locale,
		Body:         m.Body,
	}, nil
}
