package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// AdminAuth guards administrative endpoints with a static bearer token.
// An empty configured token disables the admin surface entirely.
func AdminAuth(adminToken string, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if adminToken == "" {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Admin access is not configured",
			})
		}

		token := c.Get("Authorization")
		token = strings.TrimPrefix(token, "Bearer ")
		if token == "" {
			logger.Warn("Missing admin token")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authorization token required",
			})
		}

		if subtle.ConstantTimeCompare([]byte(token), []byte(adminToken)) != 1 {
			logger.Warn("Invalid admin token")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid token",
			})
		}

		return c.Next()
	}
}
