package handler

import (
	"github.com/alamtis/skill-assessment-platform/internal/middleware"
	"github.com/alamtis/skill-assessment-platform/internal/service"
	"github.com/gofiber/fiber/v2"
)

// UserHandler handles profile reads and per-user history.
type UserHandler struct {
	userService    service.UserService
	attemptService service.AttemptService
}

// NewUserHandler creates a new UserHandler instance.
func NewUserHandler(userService service.UserService, attemptService service.AttemptService) *UserHandler {
	return &UserHandler{
		userService:    userService,
		attemptService: attemptService,
	}
}

// GetMe handles GET /api/users/me.
func (h *UserHandler) GetMe(c *fiber.Ctx) error {
	identity := middleware.IdentityFromCtx(c)

	user, err := h.userService.GetMe(c.Context(), identity)
	if err != nil {
		return err
	}
	return c.JSON(user)
}

// GetQuizHistory handles GET /api/users/:userId/quiz-history. Owner-or-admin only.
func (h *UserHandler) GetQuizHistory(c *fiber.Ctx) error {
	identity := middleware.IdentityFromCtx(c)

	history, err := h.attemptService.GetQuizHistory(c.Context(), identity, c.Params("userId"))
	if err != nil {
		return err
	}
	return c.JSON(history)
}
