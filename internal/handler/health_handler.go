package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Idhant-Mehta/tiet-lab-tutorial-mangement/internal/utils"
)

// HealthHandler serves liveness probes.
type HealthHandler struct{}

// NewHealthHandler constructs the health handler.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// Check reports service liveness.
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	return utils.SendSuccess(c, "ok", fiber.Map{"status": "healthy"})
}
