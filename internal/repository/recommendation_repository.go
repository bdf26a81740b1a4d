package repository

import (
	"context"
	"fmt"

	"aptitest/internal/domain"
	"aptitest/internal/repository/models"
	"aptitest/internal/util"

	"github.com/jmoiron/sqlx"
)

// sqlxRecommendationRepository implements domain.RecommendationRepository.
type sqlxRecommendationRepository struct {
	db DBTX
}

// NewSQLXRecommendationRepository creates a new instance of sqlxRecommendationRepository.
func NewSQLXRecommendationRepository(db *sqlx.DB) domain.RecommendationRepository {
	return &sqlxRecommendationRepository{db: db}
}

const recommendationSelectColumns = `
		id "id",
		session_id "session_id",
		basis "basis",
		target_code "target_code",
		kind "kind",
		score "score",
		rnk "rnk"`

// ReplaceBasis deletes the basis' rows for the session and inserts the
// fresh ranking. Same delete-then-reinsert discipline as score entries.
func (r *sqlxRecommendationRepository) ReplaceBasis(ctx context.Context, sessionID string, basis domain.RecommendationBasis, recs []domain.Recommendation) error {
	ex := GetExecutor(ctx, r.db)

	deleteQuery := `DELETE FROM recommendations WHERE session_id = :1 AND basis = :2`
	if _, err := ex.ExecContext(ctx, deleteQuery, sessionID, string(basis)); err != nil {
		return fmt.Errorf("failed to delete recommendations for %s/%s: %w", sessionID, basis, err)
	}

	insertQuery := `INSERT INTO recommendations (
		id, session_id, basis, target_code, kind, score, rnk
	) VALUES (
		:1, :2, :3, :4, :5, :6, :7
	)`
	for i := range recs {
		rec := &recs[i]
		if rec.ID == "" {
			rec.ID = util.NewULID()
		}
		if _, err := ex.ExecContext(ctx, insertQuery,
			rec.ID,
			sessionID,
			string(basis),
			rec.TargetCode,
			string(rec.Kind),
			rec.Score,
			rec.Rank,
		); err != nil {
			return fmt.Errorf("failed to insert recommendation for target %s: %w", rec.TargetCode, err)
		}
	}
	return nil
}

func (r *sqlxRecommendationRepository) GetBySession(ctx context.Context, sessionID string) ([]domain.Recommendation, error) {
	ex := GetExecutor(ctx, r.db)

	var rows []models.Recommendation
	query := `SELECT ` + recommendationSelectColumns + `
	FROM recommendations
	WHERE session_id = :1
	ORDER BY basis ASC, kind ASC, rnk ASC`
	if err := ex.SelectContext(ctx, &rows, query, sessionID); err != nil {
		return nil, fmt.Errorf("failed to query recommendations for session %s: %w", sessionID, err)
	}
	return toDomainRecommendations(rows), nil
}

func (r *sqlxRecommendationRepository) GetTargets(ctx context.Context) ([]domain.RecommendationTarget, error) {
	ex := GetExecutor(ctx, r.db)

	var rows []models.RecommendationTarget
	query := `SELECT
		code "code",
		name "name",
		kind "kind"
	FROM recommendation_targets
	ORDER BY code ASC`
	if err := ex.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to query recommendation targets: %w", err)
	}

	targets := make([]domain.RecommendationTarget, 0, len(rows))
	for _, m := range rows {
		targets = append(targets, domain.RecommendationTarget{
			Code: m.Code,
			Name: m.Name,
			Kind: domain.TargetKind(m.Kind),
		})
	}
	return targets, nil
}

func (r *sqlxRecommendationRepository) GetTargetAttributeMaps(ctx context.Context) ([]domain.TargetAttributeMap, error) {
	ex := GetExecutor(ctx, r.db)

	var rows []models.TargetAttributeMap
	query := `SELECT
		target_code "target_code",
		attr1 "attr1",
		attr2 "attr2",
		attr3 "attr3"
	FROM target_attribute_maps
	ORDER BY target_code ASC`
	if err := ex.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to query target attribute maps: %w", err)
	}

	maps := make([]domain.TargetAttributeMap, 0, len(rows))
	for _, m := range rows {
		maps = append(maps, domain.TargetAttributeMap{
			TargetCode: m.TargetCode,
			Attr1:      m.Attr1,
			Attr2:      m.Attr2.String,
			Attr3:      m.Attr3.String,
		})
	}
	return maps, nil
}

func (r *sqlxRecommendationRepository) GetQuestionTargetMaps(ctx context.Context) ([]domain.QuestionTargetMap, error) {
	ex := GetExecutor(ctx, r.db)

	var rows []models.QuestionTargetMap
	query := `SELECT
		question_code "question_code",
		target_code "target_code"
	FROM question_target_maps
	ORDER BY question_code ASC`
	if err := ex.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to query question target maps: %w", err)
	}

	maps := make([]domain.QuestionTargetMap, 0, len(rows))
	for _, m := range rows {
		maps = append(maps, domain.QuestionTargetMap{
			QuestionCode: m.QuestionCode,
			TargetCode:   m.TargetCode,
		})
	}
	return maps, nil
}

func toDomainRecommendations(rows []models.Recommendation) []domain.Recommendation {
	recs := make([]domain.Recommendation, 0, len(rows))
	for _, m := range rows {
		recs = append(recs, domain.Recommendation{
			ID:         m.ID,
			SessionID:  m.SessionID,
			Basis:      domain.RecommendationBasis(m.Basis),
			TargetCode: m.TargetCode,
			Kind:       domain.TargetKind(m.Kind),
			Score:      m.Score,
			Rank:       m.Rank,
		})
	}
	return recs
}
