package api

import (
	"customhost-support/internal/api/handlers"
	"customhost-support/pkg/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

func SetupRouter(
	askHandler *handlers.AskHandler,
	ticketHandler *handlers.TicketHandler,
	kbHandler *handlers.KBHandler,
	adminToken string,
	appLogger *zap.Logger,
) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	// Middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))
	app.Use(logger.New())

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// API routes
	v1 := app.Group("/api/v1")
	v1.Post("/ask", askHandler.Ask)

	tickets := v1.Group("/tickets")
	tickets.Post("", ticketHandler.Open)
	tickets.Get("/open", ticketHandler.OpenCount)
	tickets.Post("/:id/messages", ticketHandler.Message)
	tickets.Post("/:id/close", ticketHandler.Close)

	// Admin routes
	admin := app.Group("/admin", middleware.AdminAuth(adminToken, appLogger))
	admin.Post("/kb/reindex", kbHandler.Reindex)
	admin.Get("/kb/info", kbHandler.Info)

	return app
}
