package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/complaint-service/internal/api/dto"
	"github.com/spec-kit/complaint-service/internal/auth"
	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/service"
	apperrors "github.com/spec-kit/complaint-service/pkg/util/errorutil"
)

// AuthHandler manages registration, login, and session endpoints.
type AuthHandler struct {
	authService *service.AuthService
	sessions    *auth.SessionStore
	cookieName  string
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService, sessions *auth.SessionStore, cookieName string) *AuthHandler {
	return &AuthHandler{authService: authService, sessions: sessions, cookieName: cookieName}
}

// Register POST /api/auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	user, err := h.authService.Register(c.UserContext(), service.RegisterInput{
		Name:         req.Name,
		Email:        req.Email,
		Password:     req.Password,
		Phone:        req.Phone,
		Role:         req.Role,
		PolicyNumber: req.PolicyNumber,
	})
	if err != nil {
		return err
	}

	if err := h.startSession(c, user); err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"message": "User registered successfully",
		"user":    dto.FromUser(user),
	})
}

// Login POST /api/auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password are required", nil)
	}

	user, err := h.authService.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}

	if err := h.startSession(c, user); err != nil {
		return err
	}

	token, expiresAt, err := h.authService.TokenManager().GenerateToken(user.ID, user.Role)
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{
		"message":   "Login successful",
		"user":      dto.FromUser(user),
		"token":     token,
		"expiresAt": expiresAt,
	})
}

// Logout POST /api/auth/logout.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if sid := c.Cookies(h.cookieName); sid != "" {
		if err := h.sessions.Delete(c.UserContext(), sid); err != nil {
			return apperrors.NewDependencyError("session store", err)
		}
	}
	c.Cookie(&fiber.Cookie{
		Name:     h.cookieName,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
	})
	return c.JSON(fiber.Map{"message": "Logout successful"})
}

// CheckSession GET /api/auth/check-session.
func (h *AuthHandler) CheckSession(c *fiber.Ctx) error {
	sid := c.Cookies(h.cookieName)
	if sid == "" {
		return c.JSON(fiber.Map{"authenticated": false, "user": nil})
	}
	actor, err := h.sessions.Get(c.UserContext(), sid)
	if err != nil {
		return c.JSON(fiber.Map{"authenticated": false, "user": nil})
	}
	return c.JSON(fiber.Map{"authenticated": true, "user": dto.FromActor(actor)})
}

// Me GET /api/auth/me.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("not authenticated")
	}
	return c.JSON(fiber.Map{"user": dto.FromActor(actor)})
}

// UpdateNotificationToken PUT /api/auth/notification-token.
func (h *AuthHandler) UpdateNotificationToken(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("not authenticated")
	}
	var req dto.NotificationTokenRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := h.authService.UpdateNotificationToken(c.UserContext(), actor.ID, req.Token); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Notification token updated"})
}

func (h *AuthHandler) startSession(c *fiber.Ctx, user *domain.User) error {
	sid, err := h.sessions.Create(c.UserContext(), domain.ActorFromUser(user))
	if err != nil {
		return apperrors.NewDependencyError("session store", err)
	}
	c.Cookie(&fiber.Cookie{
		Name:     h.cookieName,
		Value:    sid,
		Expires:  time.Now().Add(h.sessions.TTL()),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return nil
}
