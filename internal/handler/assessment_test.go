package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"aptitest/internal/domain"
	"aptitest/internal/dto"
	"aptitest/internal/handler"
	"aptitest/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

// --- Manual Mocks ---

type MockAssessmentService struct {
	StartOrResumeSessionFunc func(ctx context.Context, subjectID string) (*dto.StartSessionResponse, error)
	SubmitAnswerFunc         func(ctx context.Context, sessionID string, req *dto.SubmitAnswerRequest) (*dto.SubmitAnswerResponse, error)
	GetProgressFunc          func(ctx context.Context, sessionID string) (*dto.ProgressResponse, error)
	GetResultsFunc           func(ctx context.Context, sessionID string) (*dto.ResultsResponse, error)
}

func (m *MockAssessmentService) StartOrResumeSession(ctx context.Context, subjectID string) (*dto.StartSessionResponse, error) {
	if m.StartOrResumeSessionFunc != nil {
		return m.StartOrResumeSessionFunc(ctx, subjectID)
	}
	panic("MockAssessmentService.StartOrResumeSessionFunc not implemented")
}
func (m *MockAssessmentService) SubmitAnswer(ctx context.Context, sessionID string, req *dto.SubmitAnswerRequest) (*dto.SubmitAnswerResponse, error) {
	if m.SubmitAnswerFunc != nil {
		return m.SubmitAnswerFunc(ctx, sessionID, req)
	}
	panic("MockAssessmentService.SubmitAnswerFunc not implemented")
}
func (m *MockAssessmentService) GetProgress(ctx context.Context, sessionID string) (*dto.ProgressResponse, error) {
	if m.GetProgressFunc != nil {
		return m.GetProgressFunc(ctx, sessionID)
	}
	panic("MockAssessmentService.GetProgressFunc not implemented")
}
func (m *MockAssessmentService) GetResults(ctx context.Context, sessionID string) (*dto.ResultsResponse, error) {
	if m.GetResultsFunc != nil {
		return m.GetResultsFunc(ctx, sessionID)
	}
	panic("MockAssessmentService.GetResultsFunc not implemented")
}

func setupApp(svc *MockAssessmentService) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(),
	})
	h := handler.NewAssessmentHandler(svc)
	h.RegisterRoutes(app.Group("/api"))
	return app
}

func TestStartOrResumeSession_Success(t *testing.T) {
	svc := &MockAssessmentService{
		StartOrResumeSessionFunc: func(ctx context.Context, subjectID string) (*dto.StartSessionResponse, error) {
			assert.Equal(t, "subj-1", subjectID)
			return &dto.StartSessionResponse{
				SessionID: "S1", Stage: "tendency", Pointer: "T-IDX", ProductTier: "premium",
			}, nil
		},
	}
	app := setupApp(svc)

	body, _ := json.Marshal(dto.StartSessionRequest{SubjectID: "subj-1"})
	req := httptest.NewRequest("POST", "/api/sessions/", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)

	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var got dto.StartSessionResponse
	respBody, _ := io.ReadAll(resp.Body)
	assert.NoError(t, json.Unmarshal(respBody, &got))
	assert.Equal(t, "S1", got.SessionID)
	assert.Equal(t, "tendency", got.Stage)
}

func TestStartOrResumeSession_NoPurchase(t *testing.T) {
	svc := &MockAssessmentService{
		StartOrResumeSessionFunc: func(ctx context.Context, subjectID string) (*dto.StartSessionResponse, error) {
			return nil, domain.NewNoPurchaseFoundError(subjectID)
		},
	}
	app := setupApp(svc)

	body, _ := json.Marshal(dto.StartSessionRequest{SubjectID: "subj-1"})
	req := httptest.NewRequest("POST", "/api/sessions/", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)

	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	var got middleware.ErrorResponse
	respBody, _ := io.ReadAll(resp.Body)
	assert.NoError(t, json.Unmarshal(respBody, &got))
	assert.Equal(t, "NO_PURCHASE_FOUND", got.Code)
}

func TestSubmitAnswer_Success(t *testing.T) {
	svc := &MockAssessmentService{
		SubmitAnswerFunc: func(ctx context.Context, sessionID string, req *dto.SubmitAnswerRequest) (*dto.SubmitAnswerResponse, error) {
			assert.Equal(t, "S1", sessionID)
			assert.Equal(t, "T002", req.QuestionCode)
			return &dto.SubmitAnswerResponse{
				Accepted: true,
				NextItem: &dto.NextItemResponse{Code: "T003", Stage: "tendency"},
				Progress: dto.ProgressResponse{Answered: 2, Total: 10, Stage: "tendency"},
			}, nil
		},
	}
	app := setupApp(svc)

	body, _ := json.Marshal(dto.SubmitAnswerRequest{QuestionCode: "T002", Value: "yes", Weight: 4, Stage: "tendency"})
	req := httptest.NewRequest("POST", "/api/sessions/S1/answers", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)

	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var got dto.SubmitAnswerResponse
	respBody, _ := io.ReadAll(resp.Body)
	assert.NoError(t, json.Unmarshal(respBody, &got))
	assert.True(t, got.Accepted)
	assert.Equal(t, "T003", got.NextItem.Code)
}

func TestSubmitAnswer_MissingQuestionCode(t *testing.T) {
	app := setupApp(&MockAssessmentService{})

	body, _ := json.Marshal(dto.SubmitAnswerRequest{Value: "yes"})
	req := httptest.NewRequest("POST", "/api/sessions/S1/answers", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)

	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestSubmitAnswer_SessionClosed(t *testing.T) {
	svc := &MockAssessmentService{
		SubmitAnswerFunc: func(ctx context.Context, sessionID string, req *dto.SubmitAnswerRequest) (*dto.SubmitAnswerResponse, error) {
			return nil, domain.NewSessionClosedError(sessionID)
		},
	}
	app := setupApp(svc)

	body, _ := json.Marshal(dto.SubmitAnswerRequest{QuestionCode: "I001"})
	req := httptest.NewRequest("POST", "/api/sessions/S1/answers", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)

	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	var got middleware.ErrorResponse
	respBody, _ := io.ReadAll(resp.Body)
	assert.NoError(t, json.Unmarshal(respBody, &got))
	assert.Equal(t, "SESSION_CLOSED", got.Code)
}

func TestGetProgress_Success(t *testing.T) {
	svc := &MockAssessmentService{
		GetProgressFunc: func(ctx context.Context, sessionID string) (*dto.ProgressResponse, error) {
			return &dto.ProgressResponse{Answered: 4, Total: 12, Stage: "thinking"}, nil
		},
	}
	app := setupApp(svc)

	req := httptest.NewRequest("GET", "/api/sessions/S1/progress", nil)
	resp, err := app.Test(req)

	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var got dto.ProgressResponse
	respBody, _ := io.ReadAll(resp.Body)
	assert.NoError(t, json.Unmarshal(respBody, &got))
	assert.Equal(t, 4, got.Answered)
	assert.Equal(t, 12, got.Total)
}

func TestGetResults_SessionNotFound(t *testing.T) {
	svc := &MockAssessmentService{
		GetResultsFunc: func(ctx context.Context, sessionID string) (*dto.ResultsResponse, error) {
			return nil, domain.NewSessionNotFoundError(sessionID)
		},
	}
	app := setupApp(svc)

	req := httptest.NewRequest("GET", "/api/sessions/missing/results", nil)
	resp, err := app.Test(req)

	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestGetResults_Success(t *testing.T) {
	svc := &MockAssessmentService{
		GetResultsFunc: func(ctx context.Context, sessionID string) (*dto.ResultsResponse, error) {
			return &dto.ResultsResponse{
				SessionID: sessionID,
				ResultID:  "R1",
				Summary:   dto.ResultSummaryResponse{TendencyTop: []string{"A", "B", "C"}},
				Scores: []dto.ScoreEntryResponse{
					{Stage: "tendency", AttributeCode: "A", Score: 9, Rate: 0.9, Rank: 1, AnswerCount: 2},
				},
				Recommendations: []dto.RecommendationResponse{
					{Basis: "total", TargetCode: "JOB_X", Kind: "job", Score: 8, Rank: 1},
				},
			}, nil
		},
	}
	app := setupApp(svc)

	req := httptest.NewRequest("GET", "/api/sessions/S1/results", nil)
	resp, err := app.Test(req)

	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var got dto.ResultsResponse
	respBody, _ := io.ReadAll(resp.Body)
	assert.NoError(t, json.Unmarshal(respBody, &got))
	assert.Equal(t, "R1", got.ResultID)
	assert.Len(t, got.Scores, 1)
	assert.Len(t, got.Recommendations, 1)
}
