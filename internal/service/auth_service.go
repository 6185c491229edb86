package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/complaint-service/internal/auth"
	"github.com/spec-kit/complaint-service/internal/config"
	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/repository"
	apperrors "github.com/spec-kit/complaint-service/pkg/util/errorutil"
)

// AuthService coordinates registration and login flows.
type AuthService struct {
	users      repository.UserRepository
	tokenMgr   *auth.TokenManager
	bcryptCost int
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, users repository.UserRepository) *AuthService {
	return &AuthService{
		users:      users,
		tokenMgr:   auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTLMinutes),
		bcryptCost: cfg.BcryptCost,
	}
}

// RegisterInput describes account registration payload.
type RegisterInput struct {
	Name         string
	Email        string
	Password     string
	Phone        string
	Role         domain.Role
	PolicyNumber string
}

// Register creates a new account. The role defaults to customer; only
// customer accounts carry a policy number.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	if err := validateRegisterInput(&input); err != nil {
		return nil, err
	}

	if _, err := s.users.GetByEmail(ctx, input.Email); err == nil {
		return nil, apperrors.NewConflict("email already registered", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	user := &domain.User{
		Name:         input.Name,
		Email:        input.Email,
		Phone:        input.Phone,
		PasswordHash: hash,
		Role:         input.Role,
		PolicyNumber: input.PolicyNumber,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if apperrors.IsUniqueViolation(err) {
			return nil, apperrors.NewConflict("email already registered", nil)
		}
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// Login authenticates an account by email and password.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, apperrors.MapError(err)
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}
	return user, nil
}

// UpdateNotificationToken stores the opaque push token for the account.
func (s *AuthService) UpdateNotificationToken(ctx context.Context, userID, token string) error {
	if err := s.users.SetNotificationToken(ctx, userID, strings.TrimSpace(token)); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("user")
		}
		return apperrors.MapError(err)
	}
	return nil
}

// TokenManager exposes the token manager for bearer-token issuance.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func validateRegisterInput(input *RegisterInput) error {
	input.Name = strings.TrimSpace(input.Name)
	if len(input.Name) < 2 {
		return apperrors.NewValidationError("name must be at least 2 characters", nil)
	}
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	if !strings.Contains(input.Email, "@") {
		return apperrors.NewValidationError("valid email is required", nil)
	}
	if len(input.Password) < 6 {
		return apperrors.NewValidationError("password must be at least 6 characters", nil)
	}
	if input.Role == "" {
		input.Role = domain.RoleCustomer
	}
	if !input.Role.Valid() {
		return apperrors.NewValidationError("invalid role", map[string]any{"role": input.Role})
	}
	input.PolicyNumber = strings.TrimSpace(input.PolicyNumber)
	if input.Role != domain.RoleCustomer {
		input.PolicyNumber = ""
	} else if input.PolicyNumber != "" && len(input.PolicyNumber) < 3 {
		return apperrors.NewValidationError("policy number must be at least 3 characters", nil)
	}
	return nil
}
