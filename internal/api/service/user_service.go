package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Mrugank93/movies/internal/api/models"
	"github.com/Mrugank93/movies/internal/api/repository"
	"github.com/Mrugank93/movies/internal/apperr"
	"github.com/Mrugank93/movies/internal/auth"
	"github.com/Mrugank93/movies/internal/validator"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("api.service")

// UserService defines the interface for user-related business logic.
type UserService interface {
	Register(ctx context.Context, req *models.SignUpRequest) (string, error)
	Authenticate(ctx context.Context, req *models.SignInRequest) (string, error)
}

type userService struct {
	userRepo repository.UserRepository
	hasher   *auth.Hasher
	tokens   *auth.Tokens
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repository.UserRepository, hasher *auth.Hasher, tokens *auth.Tokens) UserService {
	return &userService{
		userRepo: userRepo,
		hasher:   hasher,
		tokens:   tokens,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a user and returns a token bound to the new user id.
func (s *userService) Register(ctx context.Context, req *models.SignUpRequest) (string, error) {
	ctx, span := tracer.Start(ctx, "UserService.Register")
	defer span.End()

	in := models.SignUpRequest{Email: normalizeEmail(req.Email), Password: req.Password}
	if err := validator.Struct(&in); err != nil {
		return "", err
	}

	// Check if user already exists
	_, err := s.userRepo.GetUserByEmail(ctx, in.Email)
	switch {
	case err == nil:
		return "", apperr.New(apperr.ErrConflict, "user already exists")
	case !errors.Is(err, apperr.ErrNotFound):
		return "", fmt.Errorf("register: %w", err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return "", fmt.Errorf("register: %w", err)
	}

	user := &models.User{
		ID:           uuid.New().String(),
		Email:        in.Email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		return "", fmt.Errorf("register: %w", err)
	}
	slog.InfoContext(ctx, "User registered", "user.id", user.ID)

	return s.issue(user.ID)
}

// Authenticate verifies the credentials and returns a token bound to the
// existing user id.
func (s *userService) Authenticate(ctx context.Context, req *models.SignInRequest) (string, error) {
	ctx, span := tracer.Start(ctx, "UserService.Authenticate")
	defer span.End()

	in := models.SignInRequest{Email: normalizeEmail(req.Email), Password: req.Password}
	if err := validator.Struct(&in); err != nil {
		return "", err
	}

	user, err := s.userRepo.GetUserByEmail(ctx, in.Email)
	if err != nil {
		return "", fmt.Errorf("authenticate: %w", err)
	}

	if err := s.hasher.Compare(user.PasswordHash, in.Password); err != nil {
		return "", fmt.Errorf("authenticate: %w", err)
	}

	return s.issue(user.ID)
}

func (s *userService) issue(userID string) (string, error) {
	token, err := s.tokens.Issue(userID)
	if err != nil {
		return "", fmt.Errorf("failed to issue token: %w", err)
	}
	return token, nil
}
