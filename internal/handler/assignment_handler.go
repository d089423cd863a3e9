package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/Idhant-Mehta/tiet-lab-tutorial-mangement/internal/dto"
	"github.com/Idhant-Mehta/tiet-lab-tutorial-mangement/internal/service"
	"github.com/Idhant-Mehta/tiet-lab-tutorial-mangement/internal/utils"
)

// AssignmentHandler serves the teacher and student assignment surfaces.
// Teacher routes expose test cases; student routes never do.
type AssignmentHandler struct {
	assignments service.AssignmentService
	logger      zerolog.Logger
}

// NewAssignmentHandler constructs the assignment handler.
func NewAssignmentHandler(assignments service.AssignmentService, logger zerolog.Logger) *AssignmentHandler {
	return &AssignmentHandler{
		assignments: assignments,
		logger:      logger.With().Str("component", "assignment_handler").Logger(),
	}
}

// Create authors a new assignment from a manual problem list.
func (h *AssignmentHandler) Create(c *fiber.Ctx) error {
	teacherID, ok := userIDFromContext(c)
	if !ok {
		return utils.SendError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var payload dto.CreateAssignmentRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	resp, err := h.assignments.Create(c.UserContext(), teacherID, payload)
	if err != nil {
		return handleError(c, err)
	}

	return utils.SendCreated(c, "assignment created", resp)
}

// Generate synthesises an assignment for a topic and difficulty distribution.
func (h *AssignmentHandler) Generate(c *fiber.Ctx) error {
	teacherID, ok := userIDFromContext(c)
	if !ok {
		return utils.SendError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var payload dto.GenerateAssignmentRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	resp, err := h.assignments.Generate(c.UserContext(), teacherID, payload)
	if err != nil {
		return handleError(c, err)
	}

	return utils.SendCreated(c, "assignment generated", resp)
}

// ListMine lists the authenticated teacher's assignments.
func (h *AssignmentHandler) ListMine(c *fiber.Ctx) error {
	teacherID, ok := userIDFromContext(c)
	if !ok {
		return utils.SendError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	resp, err := h.assignments.ListByTeacher(c.UserContext(), teacherID)
	if err != nil {
		return handleError(c, err)
	}

	return utils.SendSuccess(c, "assignments", resp)
}

// GetMine fetches one of the authenticated teacher's assignments.
func (h *AssignmentHandler) GetMine(c *fiber.Ctx) error {
	teacherID, ok := userIDFromContext(c)
	if !ok {
		return utils.SendError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid assignment id")
	}

	resp, err := h.assignments.GetForTeacher(c.UserContext(), teacherID, id)
	if err != nil {
		return handleError(c, err)
	}

	return utils.SendSuccess(c, "assignment", resp)
}

// Update applies a partial update to an owned assignment.
func (h *AssignmentHandler) Update(c *fiber.Ctx) error {
	teacherID, ok := userIDFromContext(c)
	if !ok {
		return utils.SendError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid assignment id")
	}

	var payload dto.UpdateAssignmentRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	resp, err := h.assignments.Update(c.UserContext(), teacherID, id, payload)
	if err != nil {
		return handleError(c, err)
	}

	return utils.SendSuccess(c, "assignment updated", resp)
}

// ListSubmissions lists all submissions against an owned assignment.
func (h *AssignmentHandler) ListSubmissions(c *fiber.Ctx) error {
	teacherID, ok := userIDFromContext(c)
	if !ok {
		return utils.SendError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid assignment id")
	}

	resp, err := h.assignments.ListSubmissions(c.UserContext(), teacherID, id)
	if err != nil {
		return handleError(c, err)
	}

	return utils.SendSuccess(c, "submissions", resp)
}

// ListActive lists active assignments for students, without test cases.
func (h *AssignmentHandler) ListActive(c *fiber.Ctx) error {
	resp, err := h.assignments.ListActive(c.UserContext())
	if err != nil {
		return handleError(c, err)
	}

	return utils.SendSuccess(c, "assignments", resp)
}

// GetActive fetches one active assignment for a student.
func (h *AssignmentHandler) GetActive(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid assignment id")
	}

	resp, err := h.assignments.GetForStudent(c.UserContext(), id)
	if err != nil {
		return handleError(c, err)
	}

	return utils.SendSuccess(c, "assignment", resp)
}
