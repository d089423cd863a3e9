package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/Idhant-Mehta/tiet-lab-tutorial-mangement/internal/dto"
	"github.com/Idhant-Mehta/tiet-lab-tutorial-mangement/internal/repository"
)

func newTestAuthService() AuthService {
	return NewAuthService(
		repository.NewMemoryUserRepository(),
		validator.New(),
		AuthConfig{JWTSecret: "test-secret", TokenTTL: time.Hour},
		zerolog.Nop(),
	)
}

func registerPayload(username, email, role string) dto.RegisterRequest {
	return dto.RegisterRequest{
		Username: username,
		Email:    email,
		FullName: "Test User",
		Password: "password123",
		Role:     role,
	}
}

func TestAuthServiceRegisterIssuesToken(t *testing.T) {
	svc := newTestAuthService()

	resp, err := svc.Register(context.Background(), registerPayload("alice", "alice@example.com", "teacher"))
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)
	require.Equal(t, "alice", resp.User.Username)
	require.Equal(t, "teacher", resp.User.Role)

	token, err := jwt.Parse(resp.Token, func(*jwt.Token) (any, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)

	claims, ok := token.Claims.(jwt.MapClaims)
	require.True(t, ok)
	require.Equal(t, "teacher", claims["role"])
	require.Equal(t, "alice", claims["username"])
}

func TestAuthServiceRegisterRejectsDuplicateUsername(t *testing.T) {
	svc := newTestAuthService()

	_, err := svc.Register(context.Background(), registerPayload("alice", "alice@example.com", "student"))
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), registerPayload("alice", "other@example.com", "student"))
	require.ErrorIs(t, err, ErrUsernameTaken)
}

func TestAuthServiceRegisterRejectsDuplicateEmail(t *testing.T) {
	svc := newTestAuthService()

	_, err := svc.Register(context.Background(), registerPayload("alice", "alice@example.com", "student"))
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), registerPayload("bob", "alice@example.com", "student"))
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestAuthServiceRegisterRejectsUnknownRole(t *testing.T) {
	svc := newTestAuthService()

	_, err := svc.Register(context.Background(), registerPayload("alice", "alice@example.com", "admin"))
	require.Error(t, err)
}

func TestAuthServiceLogin(t *testing.T) {
	svc := newTestAuthService()

	_, err := svc.Register(context.Background(), registerPayload("alice", "alice@example.com", "student"))
	require.NoError(t, err)

	resp, err := svc.Login(context.Background(), dto.LoginRequest{Username: "alice", Password: "password123"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)

	_, err = svc.Login(context.Background(), dto.LoginRequest{Username: "alice", Password: "wrong"})
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), dto.LoginRequest{Username: "nobody", Password: "password123"})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthServiceGetUser(t *testing.T) {
	svc := newTestAuthService()

	resp, err := svc.Register(context.Background(), registerPayload("alice", "alice@example.com", "student"))
	require.NoError(t, err)

	user, err := svc.GetUser(context.Background(), resp.User.ID)
	require.NoError(t, err)
	require.Equal(t, "alice", user.Username)

	_, err = svc.GetUser(context.Background(), 9999)
	require.ErrorIs(t, err, ErrUserNotFound)
}
