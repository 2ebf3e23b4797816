package handler

import (
	"github.com/alamtis/skill-assessment-platform/internal/middleware"
	"github.com/alamtis/skill-assessment-platform/internal/service"
	"github.com/gofiber/fiber/v2"
)

// ReportHandler serves detailed attempt reports.
type ReportHandler struct {
	attemptService service.AttemptService
}

// NewReportHandler creates a new ReportHandler instance.
func NewReportHandler(attemptService service.AttemptService) *ReportHandler {
	return &ReportHandler{attemptService: attemptService}
}

// GetDetailedReport handles GET /api/reports/:attemptId. Owner-or-admin only.
func (h *ReportHandler) GetDetailedReport(c *fiber.Ctx) error {
	identity := middleware.IdentityFromCtx(c)

	report, err := h.attemptService.GetDetailedReport(c.Context(), identity, c.Params("attemptId"))
	if err != nil {
		return err
	}
	return c.JSON(report)
}
