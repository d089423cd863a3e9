package handler

import (
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/Idhant-Mehta/tiet-lab-tutorial-mangement/internal/models"
	"github.com/Idhant-Mehta/tiet-lab-tutorial-mangement/internal/service"
	"github.com/Idhant-Mehta/tiet-lab-tutorial-mangement/internal/utils"
	"github.com/Idhant-Mehta/tiet-lab-tutorial-mangement/pkg/problemgen"
)

func userIDFromContext(c *fiber.Ctx) (uint, bool) {
	id, ok := c.Locals("user_id").(uint)
	return id, ok && id != 0
}

func userRoleFromContext(c *fiber.Ctx) (models.Role, bool) {
	role, ok := c.Locals("user_role").(models.Role)
	return role, ok && role.Valid()
}

func parseUintParam(c *fiber.Ctx, name string) (uint, error) {
	value, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(value), nil
}

// handleError maps service errors onto HTTP responses. Unrecognised
// errors become opaque 500s so internals never leak to clients.
func handleError(c *fiber.Ctx, err error) error {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		return utils.SendError(c, fiber.StatusBadRequest, validationErrs.Error())
	}

	switch {
	case errors.Is(err, service.ErrUsernameTaken),
		errors.Is(err, service.ErrEmailTaken):
		return utils.SendError(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		return utils.SendError(c, fiber.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrAssignmentNotFound),
		errors.Is(err, service.ErrSubmissionNotFound):
		return utils.SendError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrAssignmentForbidden),
		errors.Is(err, service.ErrSubmissionForbidden):
		return utils.SendError(c, fiber.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrProblemIndexOutOfRange),
		errors.Is(err, problemgen.ErrInvalidDistribution):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrGenerationFailed):
		return utils.SendError(c, fiber.StatusBadGateway, err.Error())
	default:
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
