package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/Idhant-Mehta/tiet-lab-tutorial-mangement/internal/dto"
	"github.com/Idhant-Mehta/tiet-lab-tutorial-mangement/internal/service"
	"github.com/Idhant-Mehta/tiet-lab-tutorial-mangement/internal/utils"
)

// SubmissionHandler serves the student submission surface.
type SubmissionHandler struct {
	submissions service.SubmissionService
	logger      zerolog.Logger
}

// NewSubmissionHandler constructs the submission handler.
func NewSubmissionHandler(submissions service.SubmissionService, logger zerolog.Logger) *SubmissionHandler {
	return &SubmissionHandler{
		submissions: submissions,
		logger:      logger.With().Str("component", "submission_handler").Logger(),
	}
}

// Submit evaluates a solution against one problem of an assignment.
func (h *SubmissionHandler) Submit(c *fiber.Ctx) error {
	studentID, ok := userIDFromContext(c)
	if !ok {
		return utils.SendError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	role, ok := userRoleFromContext(c)
	if !ok {
		return utils.SendError(c, fiber.StatusForbidden, "insufficient permissions")
	}

	var payload dto.SubmitCodeRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	resp, err := h.submissions.Submit(c.UserContext(), studentID, role, payload)
	if err != nil {
		return handleError(c, err)
	}

	return utils.SendCreated(c, "submission evaluated", resp)
}

// ListMine lists the authenticated student's submissions.
func (h *SubmissionHandler) ListMine(c *fiber.Ctx) error {
	studentID, ok := userIDFromContext(c)
	if !ok {
		return utils.SendError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	resp, err := h.submissions.ListByStudent(c.UserContext(), studentID)
	if err != nil {
		return handleError(c, err)
	}

	return utils.SendSuccess(c, "submissions", resp)
}

// GetMine fetches one of the authenticated student's submissions.
func (h *SubmissionHandler) GetMine(c *fiber.Ctx) error {
	studentID, ok := userIDFromContext(c)
	if !ok {
		return utils.SendError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid submission id")
	}

	resp, err := h.submissions.GetForStudent(c.UserContext(), studentID, id)
	if err != nil {
		return handleError(c, err)
	}

	return utils.SendSuccess(c, "submission", resp)
}
