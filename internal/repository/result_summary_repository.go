package repository

import (
	"context"
	"database/sql"
	"fmt"

	"aptitest/internal/domain"
	"aptitest/internal/repository/models"
	"aptitest/internal/util"

	"github.com/jmoiron/sqlx"
)

// sqlxResultSummaryRepository implements domain.ResultSummaryRepository.
type sqlxResultSummaryRepository struct {
	db DBTX
}

// NewSQLXResultSummaryRepository creates a new instance of sqlxResultSummaryRepository.
func NewSQLXResultSummaryRepository(db *sqlx.DB) domain.ResultSummaryRepository {
	return &sqlxResultSummaryRepository{db: db}
}

// Create inserts the empty per-session summary row. Called once at
// session start; stage completions fill it incrementally.
func (r *sqlxResultSummaryRepository) Create(ctx context.Context, sessionID string) error {
	ex := GetExecutor(ctx, r.db)

	query := `INSERT INTO result_summaries (session_id) VALUES (:1)`
	if _, err := ex.ExecContext(ctx, query, sessionID); err != nil {
		return fmt.Errorf("failed to create result summary for session %s: %w", sessionID, err)
	}
	return nil
}

// UpdateTendency writes the top-ranked tendency attribute codes (rank 1-3).
func (r *sqlxResultSummaryRepository) UpdateTendency(ctx context.Context, sessionID string, topCodes []string) error {
	ex := GetExecutor(ctx, r.db)

	padded := padCodes(topCodes, 3)
	query := `UPDATE result_summaries SET
		tendency_top1 = :1,
		tendency_top2 = :2,
		tendency_top3 = :3
	WHERE session_id = :4`
	if _, err := ex.ExecContext(ctx, query,
		util.StringToNullString(padded[0]),
		util.StringToNullString(padded[1]),
		util.StringToNullString(padded[2]),
		sessionID,
	); err != nil {
		return fmt.Errorf("failed to update tendency summary: %w", err)
	}
	return nil
}

// UpdateThinking writes the top-ranked thinking codes (rank 1-2) and
// their combined score.
func (r *sqlxResultSummaryRepository) UpdateThinking(ctx context.Context, sessionID string, topCodes []string, combinedScore float64) error {
	ex := GetExecutor(ctx, r.db)

	padded := padCodes(topCodes, 2)
	query := `UPDATE result_summaries SET
		thinking_top1 = :1,
		thinking_top2 = :2,
		thinking_score = :3
	WHERE session_id = :4`
	if _, err := ex.ExecContext(ctx, query,
		util.StringToNullString(padded[0]),
		util.StringToNullString(padded[1]),
		combinedScore,
		sessionID,
	); err != nil {
		return fmt.Errorf("failed to update thinking summary: %w", err)
	}
	return nil
}

// UpdateImageStats writes the aggregate preference-response counters.
func (r *sqlxResultSummaryRepository) UpdateImageStats(ctx context.Context, sessionID string, total, preferred int, rate float64) error {
	ex := GetExecutor(ctx, r.db)

	query := `UPDATE result_summaries SET
		image_total = :1,
		image_preferred = :2,
		preference_rate = :3
	WHERE session_id = :4`
	if _, err := ex.ExecContext(ctx, query, total, preferred, rate, sessionID); err != nil {
		return fmt.Errorf("failed to update image summary: %w", err)
	}
	return nil
}

// GetBySession returns the summary row or nil when none exists.
func (r *sqlxResultSummaryRepository) GetBySession(ctx context.Context, sessionID string) (*domain.ResultSummary, error) {
	ex := GetExecutor(ctx, r.db)

	var m models.ResultSummary
	query := `SELECT
		session_id "session_id",
		tendency_top1 "tendency_top1",
		tendency_top2 "tendency_top2",
		tendency_top3 "tendency_top3",
		thinking_top1 "thinking_top1",
		thinking_top2 "thinking_top2",
		thinking_score "thinking_score",
		image_total "image_total",
		image_preferred "image_preferred",
		preference_rate "preference_rate"
	FROM result_summaries
	WHERE session_id = :1`
	if err := ex.GetContext(ctx, &m, query, sessionID); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get result summary for session %s: %w", sessionID, err)
	}

	return &domain.ResultSummary{
		SessionID:      m.SessionID,
		TendencyTop:    collectCodes(m.TendencyTop1, m.TendencyTop2, m.TendencyTop3),
		ThinkingTop:    collectCodes(m.ThinkingTop1, m.ThinkingTop2),
		ThinkingScore:  m.ThinkingScore,
		ImageTotal:     m.ImageTotal,
		ImagePreferred: m.ImagePreferred,
		PreferenceRate: m.PreferenceRate,
	}, nil
}

func padCodes(codes []string, n int) []string {
	padded := make([]string, n)
	copy(padded, codes)
	return padded
}

func collectCodes(cols ...sql.NullString) []string {
	codes := make([]string, 0, len(cols))
	for _, c := range cols {
		if c.Valid && c.String != "" {
			codes = append(codes, c.String)
		}
	}
	return codes
}
