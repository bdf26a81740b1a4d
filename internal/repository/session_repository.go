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

// sqlxSessionRepository implements domain.SessionRepository using sqlx.
type sqlxSessionRepository struct {
	db DBTX
}

// NewSQLXSessionRepository creates a new instance of sqlxSessionRepository.
func NewSQLXSessionRepository(db *sqlx.DB) domain.SessionRepository {
	return &sqlxSessionRepository{db: db}
}

func toDomainSession(m *models.Session) *domain.Session {
	if m == nil {
		return nil
	}
	return &domain.Session{
		ID:          m.ID,
		SubjectID:   m.SubjectID,
		PurchaseID:  m.PurchaseID,
		ResultID:    m.ResultID,
		ProductTier: domain.ProductTier(m.ProductTier),
		Stage:       domain.Stage(m.Stage),
		PointerCode: m.PointerCode,
		Status:      domain.SessionStatus(m.Status),
		Version:     m.Version,
		StartedAt:   m.StartedAt,
		EndedAt:     util.NullTimeToPtr(m.EndedAt),
	}
}

const sessionSelectColumns = `
		id "id",
		subject_id "subject_id",
		purchase_id "purchase_id",
		result_id "result_id",
		product_tier "product_tier",
		stage "stage",
		pointer_code "pointer_code",
		status "status",
		version "version",
		started_at "started_at",
		ended_at "ended_at"`

// Create inserts a new session row. The caller supplies a zero ID; the
// generated ULID is written back to the domain object.
func (r *sqlxSessionRepository) Create(ctx context.Context, session *domain.Session) error {
	ex := GetExecutor(ctx, r.db)

	if session.ID == "" {
		session.ID = util.NewULID()
	}
	if session.StartedAt.IsZero() {
		session.StartedAt = time.Now()
	}

	query := `INSERT INTO assessment_sessions (
		id, subject_id, purchase_id, result_id, product_tier,
		stage, pointer_code, status, version, started_at
	) VALUES (
		:1, :2, :3, :4, :5, :6, :7, :8, :9, :10
	)`

	_, err := ex.ExecContext(ctx, query,
		session.ID,
		session.SubjectID,
		session.PurchaseID,
		session.ResultID,
		string(session.ProductTier),
		string(session.Stage),
		session.PointerCode,
		string(session.Status),
		session.Version,
		session.StartedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// GetByID returns the session or nil when no row exists.
func (r *sqlxSessionRepository) GetByID(ctx context.Context, id string) (*domain.Session, error) {
	ex := GetExecutor(ctx, r.db)

	var m models.Session
	query := `SELECT ` + sessionSelectColumns + ` FROM assessment_sessions WHERE id = :1`
	if err := ex.GetContext(ctx, &m, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get session by ID %s: %w", id, err)
	}
	return toDomainSession(&m), nil
}

// GetUnresolvedBySubject returns the subject's ready/in_progress session,
// or nil. The invariant that at most one such row exists is enforced at
// session creation time.
func (r *sqlxSessionRepository) GetUnresolvedBySubject(ctx context.Context, subjectID string) (*domain.Session, error) {
	ex := GetExecutor(ctx, r.db)

	var m models.Session
	query := `SELECT ` + sessionSelectColumns + `
	FROM assessment_sessions
	WHERE subject_id = :1
	AND status IN ('ready', 'in_progress')
	FETCH FIRST 1 ROWS ONLY`
	if err := ex.GetContext(ctx, &m, query, subjectID); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get unresolved session for subject %s: %w", subjectID, err)
	}
	return toDomainSession(&m), nil
}

// AdvanceStage moves stage and pointer with a compare-and-swap on the
// version column so retried submissions cannot double-advance.
func (r *sqlxSessionRepository) AdvanceStage(ctx context.Context, sessionID string, version int64, stage domain.Stage, pointerCode string) error {
	ex := GetExecutor(ctx, r.db)

	query := `UPDATE assessment_sessions SET
		stage = :1,
		pointer_code = :2,
		status = 'in_progress',
		version = version + 1
	WHERE id = :3 AND version = :4 AND status != 'ended'`

	result, err := ex.ExecContext(ctx, query, string(stage), pointerCode, sessionID, version)
	if err != nil {
		return fmt.Errorf("failed to advance session stage: %w", err)
	}
	return checkCAS(result, sessionID)
}

// SetPointer moves only the current-item cursor, CAS-guarded.
func (r *sqlxSessionRepository) SetPointer(ctx context.Context, sessionID string, version int64, pointerCode string) error {
	ex := GetExecutor(ctx, r.db)

	query := `UPDATE assessment_sessions SET
		pointer_code = :1,
		status = 'in_progress',
		version = version + 1
	WHERE id = :2 AND version = :3 AND status != 'ended'`

	result, err := ex.ExecContext(ctx, query, pointerCode, sessionID, version)
	if err != nil {
		return fmt.Errorf("failed to set session pointer: %w", err)
	}
	return checkCAS(result, sessionID)
}

// End marks the session terminal. No further mutation is valid afterward.
func (r *sqlxSessionRepository) End(ctx context.Context, sessionID string, version int64, endedAt time.Time) error {
	ex := GetExecutor(ctx, r.db)

	query := `UPDATE assessment_sessions SET
		status = 'ended',
		ended_at = :1,
		version = version + 1
	WHERE id = :2 AND version = :3 AND status != 'ended'`

	result, err := ex.ExecContext(ctx, query, endedAt, sessionID, version)
	if err != nil {
		return fmt.Errorf("failed to end session: %w", err)
	}
	return checkCAS(result, sessionID)
}

func checkCAS(result sql.Result, sessionID string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return domain.NewSessionConflictError(sessionID)
	}
	return nil
}
