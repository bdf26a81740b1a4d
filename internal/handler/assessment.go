package handler

import (
	"aptitest/internal/domain"
	"aptitest/internal/dto"
	"aptitest/internal/service"

	"github.com/gofiber/fiber/v2"
)

// AssessmentHandler handles assessment session HTTP requests. Errors
// bubble up to the centralized error middleware.
type AssessmentHandler struct {
	service service.AssessmentService
}

// NewAssessmentHandler creates a new AssessmentHandler instance
func NewAssessmentHandler(service service.AssessmentService) *AssessmentHandler {
	return &AssessmentHandler{
		service: service,
	}
}

// RegisterRoutes mounts the assessment endpoints on the given router.
func (h *AssessmentHandler) RegisterRoutes(router fiber.Router) {
	sessions := router.Group("/sessions")
	sessions.Post("/", h.StartOrResumeSession)
	sessions.Post("/:id/answers", h.SubmitAnswer)
	sessions.Get("/:id/progress", h.GetProgress)
	sessions.Get("/:id/results", h.GetResults)
}

// StartOrResumeSession handles POST /sessions
func (h *AssessmentHandler) StartOrResumeSession(c *fiber.Ctx) error {
	var req dto.StartSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}

	resp, err := h.service.StartOrResumeSession(c.Context(), req.SubjectID)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}

// SubmitAnswer handles POST /sessions/:id/answers
func (h *AssessmentHandler) SubmitAnswer(c *fiber.Ctx) error {
	sessionID := c.Params("id")

	var req dto.SubmitAnswerRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}
	if req.QuestionCode == "" {
		return domain.NewInvalidInputError("question code is required")
	}

	resp, err := h.service.SubmitAnswer(c.Context(), sessionID, &req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}

// GetProgress handles GET /sessions/:id/progress
func (h *AssessmentHandler) GetProgress(c *fiber.Ctx) error {
	resp, err := h.service.GetProgress(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}

// GetResults handles GET /sessions/:id/results
func (h *AssessmentHandler) GetResults(c *fiber.Ctx) error {
	resp, err := h.service.GetResults(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}
