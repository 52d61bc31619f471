package middleware

import (
	"strings"

	"github.com/gasline/gasline-api/internal/auth"
	"github.com/gasline/gasline-api/internal/types"
	"github.com/gofiber/fiber/v2"
)

// Protected validates the bearer token and admits any authenticated
// account.
func Protected(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return authorize(c, secret, nil, "authorization.any")
	}
}

// RequireRoles validates the bearer token and admits only the given
// roles. Role comparison is case-insensitive.
func RequireRoles(secret string, roles ...string) fiber.Handler {
	errorType := "authorization." + strings.Join(roles, ".")
	return func(c *fiber.Ctx) error {
		return authorize(c, secret, roles, errorType)
	}
}

// authorize performs the authorization check and stores the verified
// claims in the request context.
func authorize(c *fiber.Ctx, secret string, roles []string, errorType string) error {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return &types.CustomError{
			Code:    fiber.StatusUnauthorized,
			Message: "Authorization header is required",
			Type:    errorType,
		}
	}

	tokenString := strings.TrimPrefix(header, "Bearer ")
	if tokenString == header {
		return &types.CustomError{
			Code:    fiber.StatusUnauthorized,
			Message: "Bearer token not found",
			Type:    errorType,
		}
	}

	claims, err := auth.ValidateToken(tokenString, secret)
	if err != nil {
		return &types.CustomError{
			Code:    fiber.StatusUnauthorized,
			Message: "Invalid or expired token",
			Type:    errorType,
		}
	}

	if len(roles) > 0 && !roleAllowed(claims.Role, roles) {
		return &types.CustomError{
			Code:    fiber.StatusForbidden,
			Message: "Access denied for role " + claims.Role,
			Type:    errorType,
		}
	}

	c.Locals("claims", claims)

	return c.Next()
}

func roleAllowed(role string, allowed []string) bool {
	for _, r := range allowed {
		if strings.EqualFold(r, role) {
			return true
		}
	}
	return false
}

// ClaimsFromContext returns the verified claims stored by authorize.
func ClaimsFromContext(c *fiber.Ctx) (*auth.Claims, bool) {
	claims, ok := c.Locals("claims").(*auth.Claims)
	return claims, ok
}
