package handlers

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/AbbasAlizada1380/mellat/config"
	"github.com/AbbasAlizada1380/mellat/internal/app"
	"github.com/AbbasAlizada1380/mellat/internal/apperr"
	"github.com/AbbasAlizada1380/mellat/internal/logger"
	"github.com/AbbasAlizada1380/mellat/internal/reports"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberLogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

const (
	MSG_INTERNAL = "internal server error"

	// room for two uploads plus the text fields
	MULTIPART_OVERHEAD = 1 << 20
)

// NewServer builds the fiber app with middleware, error handling and every
// route registered.
func NewServer(app *app.App) (*fiber.App, error) {
	log := logger.New("handlers").File("server").Function("NewServer")

	bodyLimit := int(2*app.Config.UploadsMaxFileBytes) + MULTIPART_OVERHEAD
	if bodyLimit < fiber.DefaultBodyLimit {
		bodyLimit = fiber.DefaultBodyLimit
	}

	server := fiber.New(fiber.Config{
		AppName:      "mellat",
		BodyLimit:    bodyLimit,
		ErrorHandler: ErrorHandler(app.Config),
		Views:        reports.Engine(),
	})

	server.Use(recover.New())
	server.Use(fiberLogger.New(fiberLogger.Config{
		Output: slog.NewLogLogger(logger.Handler(), slog.LevelInfo).Writer(),
		Format: "${status} ${method} ${path} ${latency}\n",
	}))
	server.Use(cors.New(cors.Config{
		AllowOrigins: corsOrigins(app.Config.CorsAllowOrigins),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	if err := Router(server, app); err != nil {
		return nil, log.Err("failed to register routes", err)
	}

	return server, nil
}

func corsOrigins(origins string) string {
	origins = strings.TrimSpace(origins)
	if origins == "" {
		return "*"
	}
	return origins
}

// ErrorHandler turns tagged errors into {"message": ...} bodies with the
// matching status. Untagged errors are logged and reported as 500; their
// text is only exposed when the config allows it.
func ErrorHandler(config config.Config) fiber.ErrorHandler {
	log := logger.New("handlers").File("server").Function("ErrorHandler")

	return func(c *fiber.Ctx, err error) error {
		if appErr, ok := apperr.As(err); ok && appErr.Kind != apperr.KindInternal {
			return c.Status(appErr.Kind.Status()).JSON(fiber.Map{"message": appErr.Message})
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return c.Status(fiberErr.Code).JSON(fiber.Map{"message": fiberErr.Message})
		}

		log.Er("unhandled request error", err, "method", c.Method(), "path", c.Path())

		body := fiber.Map{"message": MSG_INTERNAL}
		if config.ExposeErrors {
			body["error"] = err.Error()
		}
		return c.Status(fiber.StatusInternalServerError).JSON(body)
	}
}
