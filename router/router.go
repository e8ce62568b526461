package router

import (
	handler "core/internal/handler"
	"core/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// New builds the fiber app. The caller owns Listen so tests can drive the
// app directly.
func New(h *handler.Handler) *fiber.App {
	app := fiber.New(fiber.Config{})
	app.Use(cors.New())
	app.Use(recover.New())
	setupRouter(app, h)
	return app
}

func setupRouter(fiber_app *fiber.App, h *handler.Handler) {
	api := fiber_app.Group("/api", logger.New())

	api.Get("/test.json", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": true, "message": "Pong"})
	})

	// Ingestion
	api.Post("/webhooks/shopify/orders", middleware.APIKeyAuth(), h.ReceiveOrderWebhook)

	// Orders
	api.Get("/orders", h.ListOrders)
	api.Get("/orders/:id", h.GetOrder)
	api.Post("/orders/:id/retry", h.RetryOrder)

	// Catalog & inventory
	api.Get("/products", h.ListProducts)
	api.Get("/products/:id", h.GetProduct)
	api.Get("/inventory", h.ListInventory)
	api.Get("/inventory/alerts", h.InventoryAlerts)

	// Monitoring
	api.Get("/health", h.Health)
	api.Get("/sync-logs", h.ListSyncLogs)
	api.Get("/metrics", h.Metrics)
}
