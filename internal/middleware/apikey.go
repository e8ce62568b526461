package middleware

import (
	"os"

	"github.com/gofiber/fiber/v2"
)

// APIKeyAuth guards the ingestion endpoint. When API_KEY is unset the check
// is skipped (local development; production sets it).
func APIKeyAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		expectedAPIKey := os.Getenv("API_KEY")
		if expectedAPIKey == "" {
			return c.Next()
		}

		apiKey := c.Get("X-API-KEY")
		if apiKey == "" || apiKey != expectedAPIKey {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"status": false, "error": "unauthorized"})
		}

		return c.Next()
	}
}
