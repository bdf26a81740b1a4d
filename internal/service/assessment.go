package service

import (
	"context"

	"aptitest/internal/domain"
	"aptitest/internal/dto"
	"go.uber.org/zap"
)

// AssessmentService is the application surface of the engine: session
// lifecycle, answer intake, progress reporting and final results.
type AssessmentService interface {
	StartOrResumeSession(ctx context.Context, subjectID string) (*dto.StartSessionResponse, error)
	SubmitAnswer(ctx context.Context, sessionID string, req *dto.SubmitAnswerRequest) (*dto.SubmitAnswerResponse, error)
	GetProgress(ctx context.Context, sessionID string) (*dto.ProgressResponse, error)
	GetResults(ctx context.Context, sessionID string) (*dto.ResultsResponse, error)
}

type assessmentService struct {
	sessions   domain.SessionRepository
	purchases  domain.PurchaseRepository
	catalog    domain.CatalogRepository
	answers    domain.AnswerRepository
	scores     domain.ScoreRepository
	summaries  domain.ResultSummaryRepository
	recs       domain.RecommendationRepository
	transition *StageTransitionController
	content    *ContentResolver
	txMgr      domain.TransactionManager
	logger     *zap.Logger
}

func NewAssessmentService(
	sessions domain.SessionRepository,
	purchases domain.PurchaseRepository,
	catalog domain.CatalogRepository,
	answers domain.AnswerRepository,
	scores domain.ScoreRepository,
	summaries domain.ResultSummaryRepository,
	recs domain.RecommendationRepository,
	transition *StageTransitionController,
	content *ContentResolver,
	txMgr domain.TransactionManager,
	logger *zap.Logger,
) AssessmentService {
	return &assessmentService{
		sessions:   sessions,
		purchases:  purchases,
		catalog:    catalog,
		answers:    answers,
		scores:     scores,
		summaries:  summaries,
		recs:       recs,
		transition: transition,
		content:    content,
		txMgr:      txMgr,
		logger:     logger,
	}
}

// StartOrResumeSession returns the subject's open session, or opens a
// new one against their eligible purchase. A subject has at most one
// unresolved session, so calling this repeatedly is safe.
func (s *assessmentService) StartOrResumeSession(ctx context.Context, subjectID string) (*dto.StartSessionResponse, error) {
	if subjectID == "" {
		return nil, domain.NewInvalidInputError("subject ID is required")
	}

	existing, err := s.sessions.GetUnresolvedBySubject(ctx, subjectID)
	if err != nil {
		return nil, domain.NewInternalError("failed to look up open session", err)
	}
	if existing != nil {
		s.logger.Info("resuming session",
			zap.String("sessionID", existing.ID),
			zap.String("stage", string(existing.Stage)))
		return toStartSessionResponse(existing), nil
	}

	purchase, err := s.purchases.GetEligible(ctx, subjectID)
	if err != nil {
		return nil, domain.NewInternalError("failed to look up purchase", err)
	}
	if purchase == nil {
		return nil, domain.NewNoPurchaseFoundError(subjectID)
	}

	marker, err := s.catalog.GetStageMarker(ctx, domain.StageTendency)
	if err != nil {
		return nil, domain.NewInternalError("failed to load stage marker", err)
	}
	if marker == nil {
		return nil, domain.NewCatalogGapError(domain.StageTendency)
	}

	session := domain.NewSession(subjectID, purchase)
	session.PointerCode = marker.Code
	if err := session.Validate(); err != nil {
		return nil, err
	}

	err = s.txMgr.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.sessions.Create(ctx, session); err != nil {
			return err
		}
		return s.summaries.Create(ctx, session.ID)
	})
	if err != nil {
		return nil, domain.NewInternalError("failed to create session", err)
	}

	s.logger.Info("session started",
		zap.String("sessionID", session.ID),
		zap.String("subjectID", subjectID),
		zap.String("tier", string(session.ProductTier)))
	return toStartSessionResponse(session), nil
}

// SubmitAnswer records one weighted response and drives the session
// machine: pointer advancement within a stage, scoring plus transition
// at a stage boundary, session end after the image stage.
func (s *assessmentService) SubmitAnswer(ctx context.Context, sessionID string, req *dto.SubmitAnswerRequest) (*dto.SubmitAnswerResponse, error) {
	session, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Ended() {
		return nil, domain.NewSessionClosedError(sessionID)
	}

	if req.Stage != "" {
		submitted := domain.Stage(req.Stage)
		if !domain.ValidStage(submitted) {
			return nil, domain.NewInvalidInputError("unknown stage: " + req.Stage)
		}
		if submitted != session.Stage {
			return nil, domain.NewStageMismatchError(submitted, session.Stage)
		}
	}

	question, err := s.catalog.GetQuestion(ctx, req.QuestionCode)
	if err != nil {
		return nil, domain.NewInternalError("failed to load question", err)
	}
	if question == nil {
		return nil, domain.NewQuestionNotFoundError(req.QuestionCode)
	}
	if question.Stage != session.Stage {
		return nil, domain.NewStageMismatchError(question.Stage, session.Stage)
	}
	if question.IsIndexPage() {
		return nil, domain.NewInvalidInputError("question is not an answerable item: " + question.Code)
	}

	answer := domain.NewAnswer(session.ID, question.Code, req.Value, req.Weight)
	if err := answer.Validate(); err != nil {
		return nil, err
	}
	err = s.txMgr.WithTransaction(ctx, func(ctx context.Context) error {
		return s.answers.Upsert(ctx, answer)
	})
	if err != nil {
		return nil, domain.NewInternalError("failed to record answer", err)
	}

	stage := session.Stage
	answered, total, err := s.stageProgress(ctx, session.ID, stage)
	if err != nil {
		return nil, err
	}

	if total == 0 {
		return nil, domain.NewCatalogGapError(stage)
	}
	if answered < total {
		if err := s.sessions.SetPointer(ctx, session.ID, session.Version, question.Code); err != nil {
			return nil, err
		}
		session.PointerCode = question.Code
		session.Status = domain.StatusInProgress
		session.Version++

		next, err := s.nextItemResponse(ctx, session)
		if err != nil {
			return nil, err
		}
		return &dto.SubmitAnswerResponse{
			Accepted: true,
			NextItem: next,
			Progress: dto.ProgressResponse{Answered: answered, Total: total, Stage: string(stage)},
		}, nil
	}

	ended, err := s.transition.OnStageComplete(ctx, session)
	if err != nil {
		return nil, err
	}
	if ended {
		s.logger.Info("session ended",
			zap.String("sessionID", session.ID),
			zap.String("resultID", session.ResultID))
		return &dto.SubmitAnswerResponse{
			Accepted:       true,
			StageCompleted: true,
			Progress:       dto.ProgressResponse{Answered: answered, Total: total, Stage: string(stage)},
			SessionEnded:   true,
			FinalResultID:  session.ResultID,
		}, nil
	}

	nextAnswered, nextTotal, err := s.stageProgress(ctx, session.ID, session.Stage)
	if err != nil {
		return nil, err
	}
	next, err := s.nextItemResponse(ctx, session)
	if err != nil {
		return nil, err
	}
	return &dto.SubmitAnswerResponse{
		Accepted:       true,
		StageCompleted: true,
		NextItem:       next,
		Progress:       dto.ProgressResponse{Answered: nextAnswered, Total: nextTotal, Stage: string(session.Stage)},
	}, nil
}

// GetProgress reports answered/total for the session's current stage.
func (s *assessmentService) GetProgress(ctx context.Context, sessionID string) (*dto.ProgressResponse, error) {
	session, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	answered, total, err := s.stageProgress(ctx, session.ID, session.Stage)
	if err != nil {
		return nil, err
	}
	return &dto.ProgressResponse{Answered: answered, Total: total, Stage: string(session.Stage)}, nil
}

// GetResults assembles the summary, ranked scores and recommendations
// for an ended session. Recommendations are enrichment: a read failure
// there degrades to an empty list instead of failing the call.
func (s *assessmentService) GetResults(ctx context.Context, sessionID string) (*dto.ResultsResponse, error) {
	session, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !session.Ended() {
		return nil, domain.NewInvalidInputError("session has not ended: " + sessionID)
	}

	summary, err := s.summaries.GetBySession(ctx, session.ID)
	if err != nil {
		return nil, domain.NewInternalError("failed to load result summary", err)
	}
	if summary == nil {
		return nil, domain.NewNotFoundError("result summary not found: " + sessionID)
	}
	entries, err := s.scores.GetBySession(ctx, session.ID)
	if err != nil {
		return nil, domain.NewInternalError("failed to load scores", err)
	}
	recs, err := s.recs.GetBySession(ctx, session.ID)
	if err != nil {
		s.logger.Warn("failed to load recommendations", zap.String("sessionID", sessionID), zap.Error(err))
		recs = nil
	}

	return toResultsResponse(session, summary, entries, recs), nil
}

func (s *assessmentService) loadSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	if sessionID == "" {
		return nil, domain.NewInvalidInputError("session ID is required")
	}
	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, domain.NewInternalError("failed to load session", err)
	}
	if session == nil {
		return nil, domain.NewSessionNotFoundError(sessionID)
	}
	return session, nil
}

func (s *assessmentService) stageProgress(ctx context.Context, sessionID string, stage domain.Stage) (answered, total int, err error) {
	answered, err = s.answers.CountValidByStage(ctx, sessionID, stage)
	if err != nil {
		return 0, 0, domain.NewInternalError("failed to count answers", err)
	}
	items, err := s.catalog.GetStageItems(ctx, stage)
	if err != nil {
		return 0, 0, domain.NewInternalError("failed to load stage items", err)
	}
	return answered, len(items), nil
}

// orderedItems returns the tier's full battery in display order.
// Answer progress sequences are session-wide, so selector positions
// must span every stage the tier sees, not just the current one.
func (s *assessmentService) orderedItems(ctx context.Context, tier domain.ProductTier) ([]domain.Question, error) {
	var ordering []domain.Question
	for _, stage := range domain.StagesForTier(tier) {
		items, err := s.catalog.GetStageItems(ctx, stage)
		if err != nil {
			return nil, domain.NewInternalError("failed to load stage items", err)
		}
		ordering = append(ordering, items...)
	}
	return ordering, nil
}

// nextItemResponse runs the selector against the session's cursor and
// enriches the winning item with resolved display content.
func (s *assessmentService) nextItemResponse(ctx context.Context, session *domain.Session) (*dto.NextItemResponse, error) {
	ordering, err := s.orderedItems(ctx, session.ProductTier)
	if err != nil {
		return nil, err
	}
	answers, err := s.answers.GetBySession(ctx, session.ID)
	if err != nil {
		return nil, domain.NewInternalError("failed to load answers", err)
	}
	progress := make(map[string]int, len(answers))
	for i := range answers {
		progress[answers[i].QuestionCode] = answers[i].Progress
	}

	item := nextItem(ordering, session.Stage, progress, session.PointerCode)
	if item == nil {
		return nil, nil
	}

	resp := &dto.NextItemResponse{
		Code:         item.Code,
		Filename:     item.Filename,
		Stage:        string(item.Stage),
		TimeLimitSec: item.TimeLimitSec,
	}
	if s.content != nil {
		lookup := s.content.Resolve(ctx, item.Code)
		switch lookup.Status {
		case domain.LookupFound:
			resp.Content = lookup.Content.Body
			resp.ContentStatus = "found"
		case domain.LookupPartialFallback:
			resp.Content = lookup.Content.Body
			resp.ContentStatus = "fallback"
		}
	}
	return resp, nil
}

func toStartSessionResponse(session *domain.Session) *dto.StartSessionResponse {
	return &dto.StartSessionResponse{
		SessionID:   session.ID,
		Stage:       string(session.Stage),
		Pointer:     session.PointerCode,
		ProductTier: string(session.ProductTier),
	}
}

func toResultsResponse(session *domain.Session, summary *domain.ResultSummary, entries []domain.ScoreEntry, recs []domain.Recommendation) *dto.ResultsResponse {
	resp := &dto.ResultsResponse{
		SessionID: session.ID,
		ResultID:  session.ResultID,
		Summary: dto.ResultSummaryResponse{
			TendencyTop:    summary.TendencyTop,
			ThinkingTop:    summary.ThinkingTop,
			ThinkingScore:  summary.ThinkingScore,
			ImageTotal:     summary.ImageTotal,
			ImagePreferred: summary.ImagePreferred,
			PreferenceRate: summary.PreferenceRate,
		},
		Scores:          make([]dto.ScoreEntryResponse, 0, len(entries)),
		Recommendations: make([]dto.RecommendationResponse, 0, len(recs)),
	}
	for i := range entries {
		e := &entries[i]
		resp.Scores = append(resp.Scores, dto.ScoreEntryResponse{
			Stage:         string(e.Stage),
			AttributeCode: e.AttributeCode,
			Score:         e.Score,
			Rate:          e.Rate,
			Rank:          e.Rank,
			AnswerCount:   e.AnswerCount,
		})
	}
	for i := range recs {
		r := &recs[i]
		resp.Recommendations = append(resp.Recommendations, dto.RecommendationResponse{
			Basis:      string(r.Basis),
			TargetCode: r.TargetCode,
			Kind:       string(r.Kind),
			Score:      r.Score,
			Rank:       r.Rank,
		})
	}
	return resp
}
