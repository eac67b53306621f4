package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/access-control-api/internal/domain"
	"github.com/spec-kit/access-control-api/internal/repository"
	apperrors "github.com/spec-kit/access-control-api/pkg/util"
)

const principalKey = "auth_principal"

// Principal is the authenticated caller, resolved against the live user
// record on every request. It is never cached beyond the request.
type Principal struct {
	ID       string
	Username string
	Role     domain.Role
	IsActive bool
	User     *domain.User
}

// AuthMiddleware validates bearer tokens and loads principals. The store
// is the source of truth for current status and role; the token only
// proves identity at issuance.
type AuthMiddleware struct {
	tokens *TokenManager
	users  repository.UserRepository
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, users repository.UserRepository) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, users: users}
}

// Handle enforces authentication for protected routes. Missing or
// malformed credential, invalid token and unknown subject all collapse to
// a single unauthorized response; a found-but-inactive account is
// forbidden because identity was established.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.Verify(parts[1])
	if err != nil {
		return apperrors.NewUnauthorized("invalid or expired token")
	}

	user, err := m.users.GetByUsername(c.UserContext(), domain.NormalizeUsername(claims.Subject))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewUnauthorized("invalid or expired token")
		}
		return apperrors.MapError(err)
	}

	if !user.IsActive {
		return apperrors.NewForbidden("account is deactivated")
	}

	c.Locals(principalKey, &Principal{
		ID:       user.ID,
		Username: user.Username,
		Role:     user.Role,
		IsActive: user.IsActive,
		User:     user,
	})
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated caller.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
