package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Idhant-Mehta/tiet-lab-tutorial-mangement/internal/models"
	"github.com/Idhant-Mehta/tiet-lab-tutorial-mangement/internal/utils"
)

// RequireRole ensures that the authenticated user holds one of the allowed roles.
func RequireRole(roles ...models.Role) fiber.Handler {
	allowed := make(map[models.Role]struct{}, len(roles))
	for _, role := range roles {
		if role.Valid() {
			allowed[role] = struct{}{}
		}
	}

	return func(c *fiber.Ctx) error {
		role, ok := c.Locals("user_role").(models.Role)
		if !ok {
			return utils.SendError(c, fiber.StatusForbidden, "insufficient permissions")
		}
		if _, ok := allowed[role]; !ok {
			return utils.SendError(c, fiber.StatusForbidden, "insufficient permissions")
		}
		return c.Next()
	}
}
