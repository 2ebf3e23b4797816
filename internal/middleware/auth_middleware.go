package middleware

import (
	"strings"

	"github.com/alamtis/skill-assessment-platform/internal/domain"
	"github.com/alamtis/skill-assessment-platform/internal/service"
	"github.com/gofiber/fiber/v2"
)

const (
	AuthorizationHeader = "Authorization"
	BearerSchema        = "Bearer "
	// IdentityKey is the fiber.Ctx locals key holding the caller's domain.Identity.
	IdentityKey = "identity"
)

// Protected requires a valid access token and stores the caller's identity in
// the request locals. Handlers read it back with IdentityFromCtx.
func Protected(authService service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(AuthorizationHeader)
		if authHeader == "" {
			return domain.NewUnauthorizedError("Authorization header is missing")
		}

		if !strings.HasPrefix(authHeader, BearerSchema) {
			return domain.NewUnauthorizedError("Authorization scheme is not Bearer")
		}

		tokenString := strings.TrimPrefix(authHeader, BearerSchema)
		if tokenString == "" {
			return domain.NewUnauthorizedError("Token is empty")
		}

		claims, err := authService.ValidateAccessToken(tokenString)
		if err != nil {
			return err
		}

		c.Locals(IdentityKey, domain.Identity{
			UserID:   claims.UserID,
			Username: claims.Username,
			Roles:    claims.Roles,
		})
		return c.Next()
	}
}

// AdminOnly rejects callers without the admin role. Must run after Protected.
func AdminOnly() fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity := IdentityFromCtx(c)
		if !identity.HasRole(domain.RoleAdmin) {
			return domain.NewForbiddenError("Administrator role required")
		}
		return c.Next()
	}
}

// IdentityFromCtx returns the identity stored by Protected. The zero Identity
// is returned on unauthenticated routes.
func IdentityFromCtx(c *fiber.Ctx) domain.Identity {
	if identity, ok := c.Locals(IdentityKey).(domain.Identity); ok {
		return identity
	}
	return domain.Identity{}
}
