package repository

import (
	"context"
	"testing"

	"aptitest/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestScoreRepository_ReplaceStageScores(t *testing.T) {
	db, mock := setupTestDB(t)
	defer db.Close()
	repo := NewSQLXScoreRepository(db)

	mock.ExpectExec(`DELETE FROM score_entries WHERE session_id = :1 AND stage = :2`).
		WithArgs("S1", "tendency").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`INSERT INTO score_entries`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO score_entries`).
		WillReturnResult(sqlmock.NewResult(1, 1))

	entries := []domain.ScoreEntry{
		{SessionID: "S1", Stage: domain.StageTendency, AttributeCode: "A", Score: 9, Rate: 0.9, Rank: 1, AnswerCount: 2},
		{SessionID: "S1", Stage: domain.StageTendency, AttributeCode: "B", Score: 3, Rate: 0.3, Rank: 2, AnswerCount: 1},
	}
	err := repo.ReplaceStageScores(context.Background(), "S1", domain.StageTendency, entries)

	assert.NoError(t, err)
	assert.NotEmpty(t, entries[0].ID)
	assert.NotEmpty(t, entries[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScoreRepository_ReplaceStageScores_EmptySetOnlyDeletes(t *testing.T) {
	db, mock := setupTestDB(t)
	defer db.Close()
	repo := NewSQLXScoreRepository(db)

	mock.ExpectExec(`DELETE FROM score_entries WHERE session_id = :1 AND stage = :2`).
		WithArgs("S1", "image").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.ReplaceStageScores(context.Background(), "S1", domain.StageImage, nil)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScoreRepository_GetBySession(t *testing.T) {
	db, mock := setupTestDB(t)
	defer db.Close()
	repo := NewSQLXScoreRepository(db)

	rows := sqlmock.NewRows([]string{
		"id", "session_id", "stage", "attribute_code", "score", "rate", "rnk",
		"answer_count", "high_extreme", "low_extreme",
	}).
		AddRow("E1", "S1", "tendency", "A", 9.0, 0.9, 1, 2, 1, 0).
		AddRow("E2", "S1", "tendency", "B", 3.0, 0.3, 2, 1, 0, 1)

	mock.ExpectQuery(`SELECT .* FROM score_entries WHERE session_id = :1`).
		WithArgs("S1").
		WillReturnRows(rows)

	entries, err := repo.GetBySession(context.Background(), "S1")

	assert.NoError(t, err)
	assert.Len(t, entries, 2)
	assert.Equal(t, "A", entries[0].AttributeCode)
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, 1, entries[0].HighExtremeCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}
