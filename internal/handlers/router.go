package handlers

import (
	"github.com/AbbasAlizada1380/mellat/internal/app"
	"github.com/AbbasAlizada1380/mellat/internal/handlers/middleware"
	"github.com/AbbasAlizada1380/mellat/internal/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

type Handler struct {
	middleware middleware.Middleware
	log        logger.Logger
	router     fiber.Router
}

func Router(router fiber.Router, app *app.App) (err error) {
	setupWebSocketRoute(router, app)

	uploads := router.Group("/uploads", app.Middleware.Protected())
	uploads.Static("/", app.Config.UploadsDir, fiber.Static{Browse: false})

	api := router.Group("/api")
	HealthHandler(api, app)
	NewUserHandler(*app, api).Register()

	NewAthleteHandler(*app, api).Register()
	NewFeeHandler(*app, api).Register()

	return nil
}

func setupWebSocketRoute(router fiber.Router, app *app.App) {
	router.Use("/ws", app.Middleware.Protected(), func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			c.Locals("allowed", true)
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	router.Get("/ws", websocket.New(func(c *websocket.Conn) {
		app.Websocket.HandleWebSocket(c)
	}))
}
