package handler

import (
	"github.com/alamtis/skill-assessment-platform/internal/domain"
	"github.com/alamtis/skill-assessment-platform/internal/dto"
	"github.com/alamtis/skill-assessment-platform/internal/middleware"
	"github.com/alamtis/skill-assessment-platform/internal/service"
	"github.com/gofiber/fiber/v2"
)

// AdminHandler handles the administrative surface: quiz authoring (manual and
// AI-generated), question management, user management, and attempt deletion.
type AdminHandler struct {
	quizService    service.QuizService
	userService    service.UserService
	attemptService service.AttemptService
}

// NewAdminHandler creates a new AdminHandler instance.
func NewAdminHandler(quizService service.QuizService, userService service.UserService, attemptService service.AttemptService) *AdminHandler {
	return &AdminHandler{
		quizService:    quizService,
		userService:    userService,
		attemptService: attemptService,
	}
}

// CreateQuiz handles POST /api/admin/quizzes.
func (h *AdminHandler) CreateQuiz(c *fiber.Ctx) error {
	var req dto.CreateQuizRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.ValidationErrors{domain.NewInvalidFormatError("body", err.Error())}
	}

	quiz, err := h.quizService.CreateQuiz(c.Context(), &req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(quiz)
}

// GenerateQuiz handles POST /api/admin/quizzes/generate-ai. AI failures
// propagate to the caller as 503 responses.
func (h *AdminHandler) GenerateQuiz(c *fiber.Ctx) error {
	var req dto.AIGenerateQuizRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.ValidationErrors{domain.NewInvalidFormatError("body", err.Error())}
	}

	quiz, err := h.quizService.CreateQuizWithAI(c.Context(), &req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(quiz)
}

// GetQuiz handles GET /api/admin/quizzes/:quizId, including correct options.
func (h *AdminHandler) GetQuiz(c *fiber.Ctx) error {
	quiz, err := h.quizService.GetQuizWithAnswers(c.Context(), c.Params("quizId"))
	if err != nil {
		return err
	}
	return c.JSON(quiz)
}

// UpdateQuiz handles PUT /api/admin/quizzes/:quizId.
func (h *AdminHandler) UpdateQuiz(c *fiber.Ctx) error {
	var req dto.CreateQuizRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.ValidationErrors{domain.NewInvalidFormatError("body", err.Error())}
	}

	quiz, err := h.quizService.UpdateQuiz(c.Context(), c.Params("quizId"), &req)
	if err != nil {
		return err
	}
	return c.JSON(quiz)
}

// DeleteQuiz handles DELETE /api/admin/quizzes/:quizId.
func (h *AdminHandler) DeleteQuiz(c *fiber.Ctx) error {
	if err := h.quizService.DeleteQuiz(c.Context(), c.Params("quizId")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AddQuestion handles POST /api/admin/quizzes/:quizId/questions.
func (h *AdminHandler) AddQuestion(c *fiber.Ctx) error {
	var req dto.QuestionRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.ValidationErrors{domain.NewInvalidFormatError("body", err.Error())}
	}

	question, err := h.quizService.AddQuestion(c.Context(), c.Params("quizId"), &req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(question)
}

// UpdateQuestion handles PUT /api/admin/quizzes/:quizId/questions/:questionId.
func (h *AdminHandler) UpdateQuestion(c *fiber.Ctx) error {
	var req dto.QuestionRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.ValidationErrors{domain.NewInvalidFormatError("body", err.Error())}
	}

	question, err := h.quizService.UpdateQuestion(c.Context(), c.Params("quizId"), c.Params("questionId"), &req)
	if err != nil {
		return err
	}
	return c.JSON(question)
}

// DeleteQuestion handles DELETE /api/admin/quizzes/:quizId/questions/:questionId.
func (h *AdminHandler) DeleteQuestion(c *fiber.Ctx) error {
	if err := h.quizService.DeleteQuestion(c.Context(), c.Params("quizId"), c.Params("questionId")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListUsers handles GET /api/admin/users.
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.userService.ListUsers(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(users)
}

// GetUser handles GET /api/admin/users/:userId.
func (h *AdminHandler) GetUser(c *fiber.Ctx) error {
	user, err := h.userService.GetUser(c.Context(), c.Params("userId"))
	if err != nil {
		return err
	}
	return c.JSON(user)
}

// ReplaceRoles handles PUT /api/admin/users/:userId/roles.
func (h *AdminHandler) ReplaceRoles(c *fiber.Ctx) error {
	var req dto.RoleAssignRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.ValidationErrors{domain.NewInvalidFormatError("body", err.Error())}
	}

	user, err := h.userService.ReplaceRoles(c.Context(), c.Params("userId"), req.Roles)
	if err != nil {
		return err
	}
	return c.JSON(user)
}

// DeleteAttempt handles DELETE /api/admin/attempts/:attemptId.
func (h *AdminHandler) DeleteAttempt(c *fiber.Ctx) error {
	identity := middleware.IdentityFromCtx(c)

	if err := h.attemptService.DeleteAttempt(c.Context(), identity, c.Params("attemptId")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
