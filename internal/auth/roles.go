package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/fuelcard/reclamation-service/internal/domain"
	apperrors "github.com/fuelcard/reclamation-service/pkg/util"
)

// RequireRole ensures the actor has one of the allowed roles.
func RequireRole(allowed ...domain.Role) fiber.Handler {
	allowedSet := make(map[domain.Role]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		actor, ok := ActorFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if len(allowedSet) == 0 {
			return c.Next()
		}
		if _, exists := allowedSet[actor.Role]; !exists {
			return apperrors.NewPermissionDenied("insufficient role")
		}
		return c.Next()
	}
}

// RequireSpecialist ensures the actor may own tickets.
func RequireSpecialist() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := ActorFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if !actor.IsSpecialist() {
			return apperrors.NewPermissionDenied("specialist role required")
		}
		return c.Next()
	}
}
