package handlers

import (
	"github.com/AbbasAlizada1380/mellat/internal/app"
	userController "github.com/AbbasAlizada1380/mellat/internal/controllers/users"
	"github.com/AbbasAlizada1380/mellat/internal/handlers/middleware"
	"github.com/AbbasAlizada1380/mellat/internal/logger"
	. "github.com/AbbasAlizada1380/mellat/internal/models"

	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	Handler
	controller *userController.UserController
}

func NewUserHandler(app app.App, router fiber.Router) *UserHandler {
	log := logger.New("handlers").File("user_handler")
	return &UserHandler{
		controller: app.UserController,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *UserHandler) Register() {
	users := h.router.Group("/users")
	users.Post("/login", h.login)

	users.Get("/", h.middleware.Protected(), h.getUser)
}

func (h *UserHandler) getUser(c *fiber.Ctx) error {
	userID := middleware.UserID(c)
	if userID == 0 {
		return c.JSON(fiber.Map{"message": "success", "user": nil})
	}

	user, err := h.controller.GetByID(c.UserContext(), userID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"message": "success", "user": user})
}

func (h *UserHandler) login(c *fiber.Ctx) error {
	var loginRequest LoginRequest
	if err := parseJSON(c, &loginRequest); err != nil {
		h.log.Function("login").Er("failed to parse login request", err)
		return err
	}

	session, err := h.controller.Login(c.UserContext(), loginRequest)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message":   "success",
		"token":     session.Token,
		"expiresAt": session.ExpiresAt,
		"user":      session.User,
	})
}
