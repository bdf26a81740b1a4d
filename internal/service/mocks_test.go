package service

import (
	"context"
	"time"

	"aptitest/internal/domain"

	"github.com/stretchr/testify/mock"
)

// --- MockTransactionManager ---
// Runs the callback directly; transactional boundaries are exercised in
// the repository tests.
type MockTransactionManager struct {
	mock.Mock
}

func (m *MockTransactionManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	args := m.Called(ctx)
	if args.Error(0) != nil {
		return args.Error(0)
	}
	return fn(ctx)
}

// --- MockSessionRepository ---
type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) Create(ctx context.Context, session *domain.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockSessionRepository) GetByID(ctx context.Context, id string) (*domain.Session, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Session), args.Error(1)
}

func (m *MockSessionRepository) GetUnresolvedBySubject(ctx context.Context, subjectID string) (*domain.Session, error) {
	args := m.Called(ctx, subjectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Session), args.Error(1)
}

func (m *MockSessionRepository) AdvanceStage(ctx context.Context, sessionID string, version int64, stage domain.Stage, pointerCode string) error {
	args := m.Called(ctx, sessionID, version, stage, pointerCode)
	return args.Error(0)
}

func (m *MockSessionRepository) SetPointer(ctx context.Context, sessionID string, version int64, pointerCode string) error {
	args := m.Called(ctx, sessionID, version, pointerCode)
	return args.Error(0)
}

func (m *MockSessionRepository) End(ctx context.Context, sessionID string, version int64, endedAt time.Time) error {
	args := m.Called(ctx, sessionID, version, endedAt)
	return args.Error(0)
}

// --- MockCatalogRepository ---
type MockCatalogRepository struct {
	mock.Mock
}

func (m *MockCatalogRepository) GetStageItems(ctx context.Context, stage domain.Stage) ([]domain.Question, error) {
	args := m.Called(ctx, stage)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Question), args.Error(1)
}

func (m *MockCatalogRepository) GetQuestion(ctx context.Context, code string) (*domain.Question, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Question), args.Error(1)
}

func (m *MockCatalogRepository) GetStageMarker(ctx context.Context, stage domain.Stage) (*domain.Question, error) {
	args := m.Called(ctx, stage)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Question), args.Error(1)
}

func (m *MockCatalogRepository) GetAttributes(ctx context.Context, stage domain.Stage) ([]domain.ScoringAttribute, error) {
	args := m.Called(ctx, stage)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ScoringAttribute), args.Error(1)
}

func (m *MockCatalogRepository) GetContent(ctx context.Context, code, locale string) (*domain.QuestionContent, error) {
	args := m.Called(ctx, code, locale)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.QuestionContent), args.Error(1)
}

// --- MockAnswerRepository ---
type MockAnswerRepository struct {
	mock.Mock
}

func (m *MockAnswerRepository) Upsert(ctx context.Context, answer *domain.Answer) error {
	args := m.Called(ctx, answer)
	return args.Error(0)
}

func (m *MockAnswerRepository) GetBySession(ctx context.Context, sessionID string) ([]domain.Answer, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Answer), args.Error(1)
}

func (m *MockAnswerRepository) GetStageAnswers(ctx context.Context, sessionID string, stage domain.Stage) ([]domain.StageAnswer, error) {
	args := m.Called(ctx, sessionID, stage)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StageAnswer), args.Error(1)
}

func (m *MockAnswerRepository) CountValidByStage(ctx context.Context, sessionID string, stage domain.Stage) (int, error) {
	args := m.Called(ctx, sessionID, stage)
	return args.Int(0), args.Error(1)
}

// --- MockScoreRepository ---
type MockScoreRepository struct {
	mock.Mock
}

func (m *MockScoreRepository) ReplaceStageScores(ctx context.Context, sessionID string, stage domain.Stage, entries []domain.ScoreEntry) error {
	args := m.Called(ctx, sessionID, stage, entries)
	return args.Error(0)
}

func (m *MockScoreRepository) GetBySession(ctx context.Context, sessionID string) ([]domain.ScoreEntry, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ScoreEntry), args.Error(1)
}

// --- MockResultSummaryRepository ---
type MockResultSummaryRepository struct {
	mock.Mock
}

func (m *MockResultSummaryRepository) Create(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

func (m *MockResultSummaryRepository) UpdateTendency(ctx context.Context, sessionID string, topCodes []string) error {
	args := m.Called(ctx, sessionID, topCodes)
	return args.Error(0)
}

func (m *MockResultSummaryRepository) UpdateThinking(ctx context.Context, sessionID string, topCodes []string, combinedScore float64) error {
	args := m.Called(ctx, sessionID, topCodes, combinedScore)
	return args.Error(0)
}

func (m *MockResultSummaryRepository) UpdateImageStats(ctx context.Context, sessionID string, total, preferred int, rate float64) error {
	args := m.Called(ctx, sessionID, total, preferred, rate)
	return args.Error(0)
}

func (m *MockResultSummaryRepository) GetBySession(ctx context.Context, sessionID string) (*domain.ResultSummary, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ResultSummary), args.Error(1)
}

// --- MockRecommendationRepository ---
type MockRecommendationRepository struct {
	mock.Mock
}

func (m *MockRecommendationRepository) ReplaceBasis(ctx context.Context, sessionID string, basis domain.RecommendationBasis, recs []domain.Recommendation) error {
	args := m.Called(ctx, sessionID, basis, recs)
	return args.Error(0)
}

func (m *MockRecommendationRepository) GetBySession(ctx context.Context, sessionID string) ([]domain.Recommendation, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Recommendation), args.Error(1)
}

func (m *MockRecommendationRepository) GetTargets(ctx context.Context) ([]domain.RecommendationTarget, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RecommendationTarget), args.Error(1)
}

func (m *MockRecommendationRepository) GetTargetAttributeMaps(ctx context.Context) ([]domain.TargetAttributeMap, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TargetAttributeMap), args.Error(1)
}

func (m *MockRecommendationRepository) GetQuestionTargetMaps(ctx context.Context) ([]domain.QuestionTargetMap, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.QuestionTargetMap), args.Error(1)
}

// --- MockPurchaseRepository ---
type MockPurchaseRepository struct {
	mock.Mock
}

func (m *MockPurchaseRepository) GetEligible(ctx context.Context, subjectID string) (*domain.Purchase, error) {
	args := m.Called(ctx, subjectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Purchase), args.Error(1)
}
