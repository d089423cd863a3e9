package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Idhant-Mehta/tiet-lab-tutorial-mangement/internal/dto"
	"github.com/Idhant-Mehta/tiet-lab-tutorial-mangement/internal/models"
	"github.com/Idhant-Mehta/tiet-lab-tutorial-mangement/internal/repository"
)

// AuthService exposes registration, login and profile operations.
type AuthService interface {
	Register(ctx context.Context, payload dto.RegisterRequest) (dto.AuthResponse, error)
	Login(ctx context.Context, payload dto.LoginRequest) (dto.AuthResponse, error)
	GetUser(ctx context.Context, id uint) (dto.UserResponse, error)
}

// ErrUsernameTaken indicates the requested username already exists.
var ErrUsernameTaken = errors.New("username already taken")

// ErrEmailTaken indicates the requested email already exists.
var ErrEmailTaken = errors.New("email already registered")

// ErrInvalidCredentials indicates a failed login attempt.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrUserNotFound indicates the user cannot be located.
var ErrUserNotFound = errors.New("user not found")

// AuthConfig carries token issuing configuration.
type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

type authService struct {
	users     repository.UserRepository
	validator *validator.Validate
	logger    zerolog.Logger
	cfg       AuthConfig
	now       func() time.Time
}

// NewAuthService constructs the auth service.
func NewAuthService(users repository.UserRepository, validate *validator.Validate, cfg AuthConfig, logger zerolog.Logger) AuthService {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 24 * time.Hour
	}

	return &authService{
		users:     users,
		validator: validate,
		logger:    logger.With().Str("component", "auth_service").Logger(),
		cfg:       cfg,
		now:       time.Now,
	}
}

func (s *authService) Register(ctx context.Context, payload dto.RegisterRequest) (dto.AuthResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AuthResponse{}, err
	}

	role, err := models.ParseRole(payload.Role)
	if err != nil {
		return dto.AuthResponse{}, err
	}

	if _, err := s.users.GetByUsername(ctx, payload.Username); err == nil {
		return dto.AuthResponse{}, ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.AuthResponse{}, err
	}

	if _, err := s.users.GetByEmail(ctx, payload.Email); err == nil {
		return dto.AuthResponse{}, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.AuthResponse{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
	if err != nil {
		return dto.AuthResponse{}, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		Username:     payload.Username,
		Email:        payload.Email,
		FullName:     payload.FullName,
		PasswordHash: string(hash),
		Role:         role,
	}

	if err := s.users.Create(ctx, &user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return dto.AuthResponse{}, ErrUsernameTaken
		}
		return dto.AuthResponse{}, err
	}

	s.logger.Info().Uint("user_id", user.ID).Str("role", user.Role.String()).Msg("user registered")

	token, err := s.issueToken(user)
	if err != nil {
		return dto.AuthResponse{}, err
	}

	return dto.AuthResponse{Token: token, User: dto.NewUserResponse(user)}, nil
}

func (s *authService) Login(ctx context.Context, payload dto.LoginRequest) (dto.AuthResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AuthResponse{}, err
	}

	user, err := s.users.GetByUsername(ctx, payload.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AuthResponse{}, ErrInvalidCredentials
		}
		return dto.AuthResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(payload.Password)); err != nil {
		return dto.AuthResponse{}, ErrInvalidCredentials
	}

	token, err := s.issueToken(user)
	if err != nil {
		return dto.AuthResponse{}, err
	}

	return dto.AuthResponse{Token: token, User: dto.NewUserResponse(user)}, nil
}

func (s *authService) GetUser(ctx context.Context, id uint) (dto.UserResponse, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.UserResponse{}, ErrUserNotFound
		}
		return dto.UserResponse{}, err
	}

	return dto.NewUserResponse(user), nil
}

func (s *authService) issueToken(user models.User) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub":      fmt.Sprintf("%d", user.ID),
		"role":     user.Role.String(),
		"username": user.Username,
		"iat":      now.Unix(),
		"exp":      now.Add(s.cfg.TokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return signed, nil
}
