package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/Idhant-Mehta/tiet-lab-tutorial-mangement/internal/service"
	"github.com/Idhant-Mehta/tiet-lab-tutorial-mangement/internal/utils"
)

// DashboardHandler serves the role-specific dashboard endpoints.
type DashboardHandler struct {
	dashboards service.DashboardService
	logger     zerolog.Logger
}

// NewDashboardHandler constructs the dashboard handler.
func NewDashboardHandler(dashboards service.DashboardService, logger zerolog.Logger) *DashboardHandler {
	return &DashboardHandler{
		dashboards: dashboards,
		logger:     logger.With().Str("component", "dashboard_handler").Logger(),
	}
}

// Teacher returns the authenticated teacher's dashboard.
func (h *DashboardHandler) Teacher(c *fiber.Ctx) error {
	teacherID, ok := userIDFromContext(c)
	if !ok {
		return utils.SendError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	resp, err := h.dashboards.TeacherDashboard(c.UserContext(), teacherID)
	if err != nil {
		return handleError(c, err)
	}

	return utils.SendSuccess(c, "dashboard", resp)
}

// Student returns the authenticated student's dashboard.
func (h *DashboardHandler) Student(c *fiber.Ctx) error {
	studentID, ok := userIDFromContext(c)
	if !ok {
		return utils.SendError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	resp, err := h.dashboards.StudentDashboard(c.UserContext(), studentID)
	if err != nil {
		return handleError(c, err)
	}

	return utils.SendSuccess(c, "dashboard", resp)
}
