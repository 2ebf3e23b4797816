package handler

import (
	"github.com/alamtis/skill-assessment-platform/internal/domain"
	"github.com/alamtis/skill-assessment-platform/internal/dto"
	"github.com/alamtis/skill-assessment-platform/internal/middleware"
	"github.com/alamtis/skill-assessment-platform/internal/service"
	"github.com/gofiber/fiber/v2"
)

// QuizHandler handles the quiz-taking surface: catalog reads, starting and
// submitting attempts.
type QuizHandler struct {
	quizService    service.QuizService
	attemptService service.AttemptService
}

// NewQuizHandler creates a new QuizHandler instance.
func NewQuizHandler(quizService service.QuizService, attemptService service.AttemptService) *QuizHandler {
	return &QuizHandler{
		quizService:    quizService,
		attemptService: attemptService,
	}
}

// ListQuizzes handles GET /api/quizzes. Supports optional itProfile and
// difficultyLevel query filters.
func (h *QuizHandler) ListQuizzes(c *fiber.Ctx) error {
	quizzes, err := h.quizService.ListAvailableQuizzes(c.Context(), c.Query("itProfile"), c.Query("difficultyLevel"))
	if err != nil {
		return err
	}
	return c.JSON(quizzes)
}

// GetQuiz handles GET /api/quizzes/:quizId. Correct options are never
// included on this path.
func (h *QuizHandler) GetQuiz(c *fiber.Ctx) error {
	quiz, err := h.quizService.GetQuizForTaking(c.Context(), c.Params("quizId"))
	if err != nil {
		return err
	}
	return c.JSON(quiz)
}

// StartAttempt handles POST /api/quizzes/:quizId/start.
func (h *QuizHandler) StartAttempt(c *fiber.Ctx) error {
	identity := middleware.IdentityFromCtx(c)

	resp, err := h.attemptService.StartAttempt(c.Context(), identity, c.Params("quizId"))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// SubmitAttempt handles POST /api/quizzes/:quizId/submit.
func (h *QuizHandler) SubmitAttempt(c *fiber.Ctx) error {
	identity := middleware.IdentityFromCtx(c)

	var req dto.QuizSubmissionRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.ValidationErrors{domain.NewInvalidFormatError("body", err.Error())}
	}

	resp, err := h.attemptService.SubmitAttempt(c.Context(), identity, c.Params("quizId"), &req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}
