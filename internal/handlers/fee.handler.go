package handlers

import (
	"fmt"

	"github.com/AbbasAlizada1380/mellat/config"
	"github.com/AbbasAlizada1380/mellat/internal/app"
	feeController "github.com/AbbasAlizada1380/mellat/internal/controllers/fees"
	"github.com/AbbasAlizada1380/mellat/internal/handlers/middleware"
	"github.com/AbbasAlizada1380/mellat/internal/logger"
	. "github.com/AbbasAlizada1380/mellat/internal/models"
	"github.com/AbbasAlizada1380/mellat/internal/reports"
	"github.com/AbbasAlizada1380/mellat/internal/repositories"

	"github.com/gofiber/fiber/v2"
)

type FeeHandler struct {
	Handler
	controller *feeController.FeeController
	config     config.Config
}

func NewFeeHandler(app app.App, router fiber.Router) *FeeHandler {
	log := logger.New("handlers").File("fee_handler")
	return &FeeHandler{
		controller: app.FeeController,
		config:     app.Config,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *FeeHandler) Register() {
	fees := h.router.Group("/fees", h.middleware.Protected())
	fees.Post("/", h.create)
	fees.Get("/", h.list)
	fees.Get("/active", h.active)
	fees.Get("/search", h.search)
	fees.Get("/range", h.dateRange)
	fees.Get("/range/export", h.exportRange)
	fees.Get("/:id", h.get)
	fees.Get("/:id/bill", h.bill)
	fees.Put("/:id", h.update)
	fees.Delete("/:id", h.delete)
}

func (h *FeeHandler) create(c *fiber.Ctx) error {
	var request CreateFeeRequest
	if err := parseJSON(c, &request); err != nil {
		h.log.Function("create").Er("failed to parse fee request", err)
		return err
	}

	fee, err := h.controller.Create(c.UserContext(), request, middleware.UserID(c))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Fee created successfully",
		"fee":     fee,
	})
}

func (h *FeeHandler) list(c *fiber.Ctx) error {
	page, err := h.controller.List(c.UserContext(), pageRequest(c, h.config))
	if err != nil {
		return err
	}
	return paginated(c, page)
}

func (h *FeeHandler) active(c *fiber.Ctx) error {
	page, err := h.controller.Active(c.UserContext(), pageRequest(c, h.config))
	if err != nil {
		return err
	}
	return paginated(c, page)
}

func (h *FeeHandler) search(c *fiber.Ctx) error {
	page, err := h.controller.Search(c.UserContext(), c.Query("query"), pageRequest(c, h.config))
	if err != nil {
		return err
	}
	return paginated(c, page)
}

// dateRange answers with a bare array; report clients bound the range.
func (h *FeeHandler) dateRange(c *fiber.Ctx) error {
	fees, err := h.controller.Range(c.UserContext(), c.Query("startDate"), c.Query("endDate"))
	if err != nil {
		return err
	}
	return c.JSON(fees)
}

func (h *FeeHandler) exportRange(c *fiber.Ctx) error {
	export, err := h.controller.ExportRange(
		c.UserContext(),
		c.Query("startDate"),
		c.Query("endDate"),
		c.Query("format"),
	)
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, export.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", export.FileName))
	return c.Send(export.Body.Bytes())
}

func (h *FeeHandler) get(c *fiber.Ctx) error {
	id, err := idParam(c, repositories.MSG_FEE_NOT_FOUND)
	if err != nil {
		return err
	}

	fee, err := h.controller.Get(c.UserContext(), id)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"message": "success", "fee": fee})
}

func (h *FeeHandler) bill(c *fiber.Ctx) error {
	id, err := idParam(c, repositories.MSG_FEE_NOT_FOUND)
	if err != nil {
		return err
	}

	bill, err := h.controller.Bill(c.UserContext(), id)
	if err != nil {
		return err
	}

	return c.Render(reports.BILL_TEMPLATE, bill)
}

func (h *FeeHandler) update(c *fiber.Ctx) error {
	id, err := idParam(c, repositories.MSG_FEE_NOT_FOUND)
	if err != nil {
		return err
	}

	var request UpdateFeeRequest
	if err := parseJSON(c, &request); err != nil {
		h.log.Function("update").Er("failed to parse fee request", err)
		return err
	}

	fee, err := h.controller.Update(c.UserContext(), id, request, middleware.UserID(c))
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message": "Fee updated successfully",
		"fee":     fee,
	})
}

func (h *FeeHandler) delete(c *fiber.Ctx) error {
	id, err := idParam(c, repositories.MSG_FEE_NOT_FOUND)
	if err != nil {
		return err
	}

	if err := h.controller.Delete(c.UserContext(), id, middleware.UserID(c)); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"message": "Fee deleted successfully"})
}
