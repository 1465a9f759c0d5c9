package middleware

import (
	"strings"

	"go-erp-ws/pkg/token"

	"github.com/gofiber/fiber/v2"
)

// RequireAuth validates the bearer token and stores the caller's identity in
// the request context. Tokens are issued by the external auth service; no
// session state is held here.
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(401).JSON(fiber.Map{"error": "Missing authorization token"})
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return c.Status(401).JSON(fiber.Map{"error": "Invalid authorization format. Use: Bearer <token>"})
		}

		claims, err := token.Parse(parts[1])
		if err != nil {
			return c.Status(401).JSON(fiber.Map{"error": "Invalid or expired token"})
		}

		c.Locals("user_name", claims.Name)
		c.Locals("user_role", claims.Role)

		return c.Next()
	}
}

// RequireRole gates mutating routes to a role. Managers implicitly satisfy
// every role check.
func RequireRole(requiredRole string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals("user_role").(string)
		if !ok || role == "" {
			return c.Status(403).JSON(fiber.Map{"error": "No role found"})
		}

		if role == requiredRole || role == token.RoleManager {
			return c.Next()
		}

		return c.Status(403).JSON(fiber.Map{
			"error": "Forbidden: requires '" + requiredRole + "' role",
		})
	}
}
