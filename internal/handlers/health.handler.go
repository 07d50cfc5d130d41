package handlers

import (
	"context"
	"time"

	"github.com/AbbasAlizada1380/mellat/internal/app"
	"github.com/AbbasAlizada1380/mellat/internal/logger"

	"github.com/gofiber/fiber/v2"
)

func HealthHandler(router fiber.Router, app *app.App) {
	log := logger.New("handlers").File("health_handler")

	router.Get("/health", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()

		if err := app.Database.Ping(ctx); err != nil {
			log.Function("health").Er("database ping failed", err)
			return c.Status(fiber.StatusServiceUnavailable).
				JSON(fiber.Map{"message": "error", "status": "unavailable"})
		}

		return c.JSON(fiber.Map{
			"message":     "success",
			"status":      "ok",
			"environment": app.Config.AppEnv,
			"clients":     app.Websocket.ClientCount(),
		})
	})
}
