package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/access-control-api/internal/domain"
	apperrors "github.com/spec-kit/access-control-api/pkg/util"
)

// RequireAuthenticated ensures a principal was resolved for the request.
func RequireAuthenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := PrincipalFromContext(c); !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		return c.Next()
	}
}

// RequireRole ensures the principal holds exactly the required role.
// There is no role hierarchy: admin does not implicitly satisfy a
// user-only check.
func RequireRole(required domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if principal.Role != required {
			return apperrors.NewForbidden("insufficient role")
		}
		return c.Next()
	}
}
