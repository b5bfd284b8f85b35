package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/pustakahub/pustaka-backend/internal/dto"
	"github.com/pustakahub/pustaka-backend/internal/identity"
)

// RequireRoles denies the request unless the verified identity's role is in
// the required set (case-insensitive). An empty set always allows: the
// operation is role-agnostic and only needs a valid identity, which the JWT
// stage already guaranteed. The check is pure over verified claims and never
// touches storage.
func RequireRoles(required ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if len(required) == 0 {
			return c.Next()
		}

		ident, err := identity.FromContext(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}

		if ident.Role == "" {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: "User role not found or invalid",
			})
		}

		if !roleAllowed(ident.Role, required) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: "Insufficient role",
			})
		}

		return c.Next()
	}
}

func roleAllowed(role string, required []string) bool {
	if len(required) == 0 {
		return true
	}
	for _, r := range required {
		if strings.EqualFold(role, r) {
			return true
		}
	}
	return false
}
