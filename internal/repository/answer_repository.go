package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"aptitest/internal/domain"
	"aptitest/internal/repository/models"
	"aptitest/internal/util"

	"github.com/jmoiron/sqlx"
)

// sqlxAnswerRepository implements domain.AnswerRepository using sqlx.
type sqlxAnswerRepository struct {
	db DBTX
}

// NewSQLXAnswerRepository creates a new instance of sqlxAnswerRepository.
func NewSQLXAnswerRepository(db *sqlx.DB) domain.AnswerRepository {
	return &sqlxAnswerRepository{db: db}
}

func toDomainAnswer(m *models.Answer) *domain.Answer {
	if m == nil {
		return nil
	}
	return &domain.Answer{
		ID:           m.ID,
		SessionID:    m.SessionID,
		QuestionCode: m.QuestionCode,
		Value:        m.Value.String,
		Weight:       m.Weight,
		Progress:     m.Progress,
		AnsweredAt:   m.AnsweredAt,
	}
}

// Upsert inserts or overwrites the (session, question) answer row.
// The UNIQUE key on (session_id, question_code) makes a racing insert
// for the same question fail rather than duplicate, so retrying the
// submission is safe. Progress-sequence assignment locks the session
// row first: without it, concurrent inserts for different questions
// read the same MAX and assign duplicate sequence numbers. On
// overwrite the original progress sequence is retained.
func (r *sqlxAnswerRepository) Upsert(ctx context.Context, answer *domain.Answer) error {
	ex := GetExecutor(ctx, r.db)

	if answer.AnsweredAt.IsZero() {
		answer.AnsweredAt = time.Now()
	}

	var existing models.Answer
	selectQuery := `SELECT
		id "id",
		session_id "session_id",
		question_code "question_code",
		val "val",
		weight "weight",
		progress "progress",
		answered_at "answered_at"
	FROM answers
	WHERE session_id = :1 AND question_code = :2`

	err := ex.GetContext(ctx, &existing, selectQuery, answer.SessionID, answer.QuestionCode)
	if err != nil && err != sql.ErrNoRows {
		return fmt.Errorf("failed to look up existing answer: %w", err)
	}

	if err == sql.ErrNoRows {
		var lockedID string
		lockQuery := `SELECT id "id" FROM assessment_sessions WHERE id = :1 FOR UPDATE`
		if err := ex.GetContext(ctx, &lockedID, lockQuery, answer.SessionID); err != nil {
			return fmt.Errorf("failed to lock session %s for progress assignment: %w", answer.SessionID, err)
		}

		var nextProgress int
		progressQuery := `SELECT NVL(MAX(progress), 0) + 1 FROM answers WHERE session_id = :1`
		if err := ex.GetContext(ctx, &nextProgress, progressQuery, answer.SessionID); err != nil {
			return fmt.Errorf("failed to compute next progress sequence: %w", err)
		}

		answer.ID = util.NewULID()
		answer.Progress = nextProgress

		insertQuery := `INSERT INTO answers (
			id, session_id, question_code, val, weight, progress, answered_at
		) VALUES (
			:1, :2, :3, :4, :5, :6, :7
		)`
		if _, err := ex.ExecContext(ctx, insertQuery,
			answer.ID,
			answer.SessionID,
			answer.QuestionCode,
			answer.Value,
			answer.Weight,
			answer.Progress,
			answer.AnsweredAt,
		); err != nil {
			return fmt.Errorf("failed to insert answer: %w", err)
		}
		return nil
	}

	updateQuery := `UPDATE answers SET
		val = :1,
		weight = :2,
		answered_at = :3
	WHERE session_id = :4 AND question_code = :5`
	if _, err := ex.ExecContext(ctx, updateQuery,
		answer.Value,
		answer.Weight,
		answer.AnsweredAt,
		answer.SessionID,
		answer.QuestionCode,
	); err != nil {
		return fmt.Errorf("failed to update answer: %w", err)
	}

	answer.ID = existing.ID
	answer.Progress = existing.Progress
	return nil
}

// GetBySession returns all answers for a session.
func (r *sqlxAnswerRepository) GetBySession(ctx context.Context, sessionID string) ([]domain.Answer, error) {
	ex := GetExecutor(ctx, r.db)

	var rows []models.Answer
	query := `SELECT
		id "id",
		session_id "session_id",
		question_code "question_code",
		val "val",
		weight "weight",
		progress "progress",
		answered_at "answered_at"
	FROM answers
	WHERE session_id = :1
	ORDER BY progress ASC`
	if err := ex.SelectContext(ctx, &rows, query, sessionID); err != nil {
		return nil, fmt.Errorf("failed to query answers for session %s: %w", sessionID, err)
	}

	answers := make([]domain.Answer, 0, len(rows))
	for i := range rows {
		answers = append(answers, *toDomainAnswer(&rows[i]))
	}
	return answers, nil
}

// GetStageAnswers returns the session's answers joined with their
// question scoring slots, restricted to active content items of the
// given stage.
func (r *sqlxAnswerRepository) GetStageAnswers(ctx context.Context, sessionID string, stage domain.Stage) ([]domain.StageAnswer, error) {
	ex := GetExecutor(ctx, r.db)

	var rows []models.StageAnswer
	query := `SELECT
		a.question_code "question_code",
		q.attr1 "attr1",
		q.attr2 "attr2",
		q.attr3 "attr3",
		a.val "val",
		a.weight "weight",
		a.progress "progress"
	FROM answers a
	JOIN questions q ON a.question_code = q.code
	WHERE a.session_id = :1
	AND q.stage = :2
	AND q.active = 1
	AND q.filename NOT LIKE 'index%'
	ORDER BY a.progress ASC`
	if err := ex.SelectContext(ctx, &rows, query, sessionID, string(stage)); err != nil {
		return nil, fmt.Errorf("failed to query stage answers: %w", err)
	}

	answers := make([]domain.StageAnswer, 0, len(rows))
	for _, m := range rows {
		answers = append(answers, domain.StageAnswer{
			QuestionCode: m.QuestionCode,
			Attr1:        m.Attr1.String,
			Attr2:        m.Attr2.String,
			Attr3:        m.Attr3.String,
			Value:        m.Value.String,
			Weight:       m.Weight,
			Progress:     m.Progress,
		})
	}
	return answers, nil
}

// CountValidByStage counts distinct answered items satisfying the
// positive-progress / non-negative-weight invariant.
func (r *sqlxAnswerRepository) CountValidByStage(ctx context.Context, sessionID string, stage domain.Stage) (int, error) {
	ex := GetExecutor(ctx, r.db)

	var count int
	query := `SELECT COUNT(DISTINCT a.question_code)
	FROM answers a
	JOIN questions q ON a.question_code = q.code
	WHERE a.session_id = :1
	AND q.stage = :2
	AND q.active = 1
	AND q.filename NOT LIKE 'index%'
	AND a.progress > 0
	AND a.weight >= 0`
	if err := ex.GetContext(ctx, &count, query, sessionID, string(stage)); err != nil {
		return 0, fmt.Errorf("failed to count valid answers: %w", err)
	}
	return count, nil
}
