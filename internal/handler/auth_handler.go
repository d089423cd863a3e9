package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/Idhant-Mehta/tiet-lab-tutorial-mangement/internal/dto"
	"github.com/Idhant-Mehta/tiet-lab-tutorial-mangement/internal/service"
	"github.com/Idhant-Mehta/tiet-lab-tutorial-mangement/internal/utils"
)

// AuthHandler serves registration, login and profile endpoints.
type AuthHandler struct {
	auth   service.AuthService
	logger zerolog.Logger
}

// NewAuthHandler constructs the auth handler.
func NewAuthHandler(auth service.AuthService, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		auth:   auth,
		logger: logger.With().Str("component", "auth_handler").Logger(),
	}
}

// Register creates a new teacher or student account.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var payload dto.RegisterRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	resp, err := h.auth.Register(c.UserContext(), payload)
	if err != nil {
		return handleError(c, err)
	}

	return utils.SendCreated(c, "account created", resp)
}

// Login exchanges credentials for a signed token.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var payload dto.LoginRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	resp, err := h.auth.Login(c.UserContext(), payload)
	if err != nil {
		return handleError(c, err)
	}

	return utils.SendSuccess(c, "login successful", resp)
}

// Me returns the authenticated user's profile.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	userID, ok := userIDFromContext(c)
	if !ok {
		return utils.SendError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	user, err := h.auth.GetUser(c.UserContext(), userID)
	if err != nil {
		return handleError(c, err)
	}

	return utils.SendSuccess(c, "profile", user)
}
