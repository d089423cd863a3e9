package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/Idhant-Mehta/tiet-lab-tutorial-mangement/internal/handler"
	"github.com/Idhant-Mehta/tiet-lab-tutorial-mangement/internal/repository"
	"github.com/Idhant-Mehta/tiet-lab-tutorial-mangement/internal/service"
	"github.com/Idhant-Mehta/tiet-lab-tutorial-mangement/internal/utils"
)

func newAuthApp() *fiber.App {
	authService := service.NewAuthService(
		repository.NewMemoryUserRepository(),
		validator.New(),
		service.AuthConfig{JWTSecret: "test-secret", TokenTTL: time.Hour},
		zerolog.Nop(),
	)
	h := handler.NewAuthHandler(authService, zerolog.Nop())

	app := fiber.New()
	app.Post("/api/v1/auth/register", h.Register)
	app.Post("/api/v1/auth/login", h.Login)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, payload any) *http.Response {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestAuthHandlerRegisterAndLogin(t *testing.T) {
	app := newAuthApp()

	register := map[string]string{
		"username":  "alice",
		"email":     "alice@example.com",
		"full_name": "Alice Teacher",
		"password":  "password123",
		"role":      "teacher",
	}

	resp := postJSON(t, app, "/api/v1/auth/register", register)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var envelope utils.APIResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	require.True(t, envelope.Success)

	resp = postJSON(t, app, "/api/v1/auth/login", map[string]string{
		"username": "alice",
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = postJSON(t, app, "/api/v1/auth/login", map[string]string{
		"username": "alice",
		"password": "wrong",
	})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthHandlerRegisterConflict(t *testing.T) {
	app := newAuthApp()

	register := map[string]string{
		"username":  "bob",
		"email":     "bob@example.com",
		"full_name": "Bob Student",
		"password":  "password123",
		"role":      "student",
	}

	resp := postJSON(t, app, "/api/v1/auth/register", register)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = postJSON(t, app, "/api/v1/auth/register", register)
	require.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestAuthHandlerRejectsInvalidBody(t *testing.T) {
	app := newAuthApp()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
