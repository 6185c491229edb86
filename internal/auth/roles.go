package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/complaint-service/internal/domain"
	apperrors "github.com/spec-kit/complaint-service/pkg/util/errorutil"
)

// RequireCustomer ensures the actor has the customer role.
func RequireCustomer() fiber.Handler {
	return requireRole(domain.RoleCustomer, "customer role required")
}

// RequireAgent ensures the actor has the agent role.
func RequireAgent() fiber.Handler {
	return requireRole(domain.RoleAgent, "agent role required")
}

func requireRole(role domain.Role, message string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := ActorFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("not authenticated")
		}
		if actor.Role != role {
			return apperrors.NewForbidden(message)
		}
		return c.Next()
	}
}
