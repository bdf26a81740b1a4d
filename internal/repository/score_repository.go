package repository

import (
	"context"
	"fmt"

	"aptitest/internal/domain"
	"aptitest/internal/repository/models"
	"aptitest/internal/util"

	"github.com/jmoiron/sqlx"
)

// sqlxScoreRepository implements domain.ScoreRepository using sqlx.
type sqlxScoreRepository struct {
	db DBTX
}

// NewSQLXScoreRepository creates a new instance of sqlxScoreRepository.
func NewSQLXScoreRepository(db *sqlx.DB) domain.ScoreRepository {
	return &sqlxScoreRepository{db: db}
}

// ReplaceStageScores deletes any existing entries for the session+stage
// and inserts the fresh set. Delete-then-reinsert is the only update
// path; it keeps recomputation idempotent. Callers run this inside the
// stage scoring transaction.
func (r *sqlxScoreRepository) ReplaceStageScores(ctx context.Context, sessionID string, stage domain.Stage, entries []domain.ScoreEntry) error {
	ex := GetExecutor(ctx, r.db)

	deleteQuery := `DELETE FROM score_entries WHERE session_id = :1 AND stage = :2`
	if _, err := ex.ExecContext(ctx, deleteQuery, sessionID, string(stage)); err != nil {
		return fmt.Errorf("failed to delete score entries for %s/%s: %w", sessionID, stage, err)
	}

	insertQuery := `INSERT INTO score_entries (
		id, session_id, stage, attribute_code, score, rate, rnk,
		answer_count, high_extreme, low_extreme
	) VALUES (
		:1, :2, :3, :4, :5, :6, :7, :8, :9, :10
	)`
	for i := range entries {
		entry := &entries[i]
		if entry.ID == "" {
			entry.ID = util.NewULID()
		}
		if _, err := ex.ExecContext(ctx, insertQuery,
			entry.ID,
			sessionID,
			string(stage),
			entry.AttributeCode,
			entry.Score,
			entry.Rate,
			entry.Rank,
			entry.AnswerCount,
			entry.HighExtremeCount,
			entry.LowExtremeCount,
		); err != nil {
			return fmt.Errorf("failed to insert score entry for attribute %s: %w", entry.AttributeCode, err)
		}
	}
	return nil
}

// GetBySession returns all score entries for a session ordered by stage
// and rank.
func (r *sqlxScoreRepository) GetBySession(ctx context.Context, sessionID string) ([]domain.ScoreEntry, error) {
	ex := GetExecutor(ctx, r.db)

	var rows []models.ScoreEntry
	query := `SELECT
		id "id",
		session_id "session_id",
		stage "stage",
		attribute_code "attribute_code",
		score "score",
		rate "rate",
		rnk "rnk",
		answer_count "answer_count",
		high_extreme "high_extreme",
		low_extreme "low_extreme"
	FROM score_entries
	WHERE session_id = :1
	ORDER BY stage ASC, rnk ASC`
	if err := ex.SelectContext(ctx, &rows, query, sessionID); err != nil {
		return nil, fmt.Errorf("failed to query score entries for session %s: %w", sessionID, err)
	}

	entries := make([]domain.ScoreEntry, 0, len(rows))
	for _, m := range rows {
		entries = append(entries, domain.ScoreEntry{
			ID:               m.ID,
			SessionID:        m.SessionID,
			Stage:            domain.Stage(m.Stage),
			AttributeCode:    m.AttributeCode,
			Score:            m.Score,
			Rate:             m.Rate,
			Rank:             m.Rank,
			AnswerCount:      m.AnswerCount,
			HighExtremeCount: m.HighExtreme,
			LowExtremeCount:  m.LowExtreme,
		})
	}
	return entries, nil
}
