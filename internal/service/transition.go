package service

import (
	"context"
	"time"

	"aptitest/internal/domain"
	"go.uber.org/zap"
)

// StageTransitionController runs everything that happens at a stage
// boundary: scoring the finished stage, deriving its recommendation
// basis, and either advancing the session to the next stage's marker
// or ending it.
type StageTransitionController struct {
	sessions domain.SessionRepository
	catalog  domain.CatalogRepository
	scoring  *ScoringEngine
	recs     *RecommendationBuilder
	txMgr    domain.TransactionManager
	logger   *zap.Logger
}

func NewStageTransitionController(
	sessions domain.SessionRepository,
	catalog domain.CatalogRepository,
	scoring *ScoringEngine,
	recs *RecommendationBuilder,
	txMgr domain.TransactionManager,
	logger *zap.Logger,
) *StageTransitionController {
	return &StageTransitionController{
		sessions: sessions,
		catalog:  catalog,
		scoring:  scoring,
		recs:     recs,
		txMgr:    txMgr,
		logger:   logger,
	}
}

// OnStageComplete scores the session's current stage and moves the
// session forward, mutating session in place. It reports whether the
// session ended. Scoring failures abort the transition; recommendation
// failures are logged and swallowed so the subject is never blocked on
// a derived ranking.
func (c *StageTransitionController) OnStageComplete(ctx context.Context, session *domain.Session) (bool, error) {
	stage := session.Stage

	err := c.txMgr.WithTransaction(ctx, func(ctx context.Context) error {
		return c.scoring.ScoreStage(ctx, session, stage)
	})
	if err != nil {
		return false, err
	}

	c.buildRecommendations(ctx, session.ID, stage)

	next, ok := domain.NextStage(stage, session.ProductTier)
	if !ok {
		endedAt := time.Now()
		if err := c.sessions.End(ctx, session.ID, session.Version, endedAt); err != nil {
			return false, err
		}
		session.Status = domain.StatusEnded
		session.EndedAt = &endedAt
		session.Version++
		return true, nil
	}

	marker, err := c.catalog.GetStageMarker(ctx, next)
	if err != nil {
		return false, err
	}
	if marker == nil {
		return false, domain.NewCatalogGapError(next)
	}
	if err := c.sessions.AdvanceStage(ctx, session.ID, session.Version, next, marker.Code); err != nil {
		return false, err
	}
	session.Stage = next
	session.PointerCode = marker.Code
	session.Status = domain.StatusInProgress
	session.Version++
	return false, nil
}

// buildRecommendations derives the bases the finished stage feeds.
// Tendency and image each produce their own basis; finishing image
// also refreshes the blended total. Thinking has no basis of its own.
func (c *StageTransitionController) buildRecommendations(ctx context.Context, sessionID string, stage domain.Stage) {
	type step struct {
		basis string
		run   func(context.Context, string) error
	}
	var steps []step
	switch stage {
	case domain.StageTendency:
		steps = []step{{"tendency", c.recs.BuildTendencyBasis}}
	case domain.StageImage:
		steps = []step{
			{"image", c.recs.BuildImageBasis},
			{"total", c.recs.BuildTotalBasis},
		}
	default:
		return
	}

	for _, s := range steps {
		s := s
		err := c.txMgr.WithTransaction(ctx, func(ctx context.Context) error {
			return s.run(ctx, sessionID)
		})
		if err != nil {
			c.logger.Warn("recommendation basis build failed",
				zap.String("sessionID", sessionID),
				zap.String("basis", s.basis),
				zap.Error(err))
		}
	}
}
