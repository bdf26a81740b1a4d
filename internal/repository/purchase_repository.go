package repository

import (
	"context"
	"database/sql"
	"fmt"

	"aptitest/internal/domain"
	"aptitest/internal/repository/models"

	"github.com/jmoiron/sqlx"
)

// sqlxPurchaseRepository implements domain.PurchaseRepository using sqlx.
type sqlxPurchaseRepository struct {
	db DBTX
}

// NewSQLXPurchaseRepository creates a new instance of sqlxPurchaseRepository.
func NewSQLXPurchaseRepository(db *sqlx.DB) domain.PurchaseRepository {
	return &sqlxPurchaseRepository{db: db}
}

// GetEligible returns the subject's eligible purchase, or nil when the
// subject has none. The service surfaces nil as NO_PURCHASE_FOUND.
func (r *sqlxPurchaseRepository) GetEligible(ctx context.Context, subjectID string) (*domain.Purchase, error) {
	ex := GetExecutor(ctx, r.db)

	var m models.Purchase
	query := `SELECT
		id "id",
		subject_id "subject_id",
		result_id "result_id",
		product_tier "product_tier",
		status "status"
	FROM purchases
	WHERE subject_id = :1 AND status = 'eligible'
	ORDER BY id ASC
	FETCH FIRST 1 ROWS ONLY`
	if err := ex.GetContext(ctx, &m, query, subjectID); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get eligible purchase for subject %s: %w", subjectID, err)
	}

	return &domain.Purchase{
		ID:          m.ID,
		SubjectID:   m.SubjectID,
		ResultID:    m.ResultID,
		ProductTier: domain.ProductTier(m.ProductTier),
		Status:      domain.PurchaseStatus(m.Status),
	}, nil
}
