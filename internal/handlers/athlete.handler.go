package handlers

import (
	"mime/multipart"
	"strings"

	"github.com/AbbasAlizada1380/mellat/config"
	"github.com/AbbasAlizada1380/mellat/internal/app"
	"github.com/AbbasAlizada1380/mellat/internal/apperr"
	athleteController "github.com/AbbasAlizada1380/mellat/internal/controllers/athletes"
	"github.com/AbbasAlizada1380/mellat/internal/handlers/middleware"
	"github.com/AbbasAlizada1380/mellat/internal/logger"
	. "github.com/AbbasAlizada1380/mellat/internal/models"
	"github.com/AbbasAlizada1380/mellat/internal/repositories"

	"github.com/gofiber/fiber/v2"
)

const (
	FIELD_DOCUMENT       = "document_pdf"
	FIELD_DOCUMENT_ALIAS = "document"
	FIELD_PHOTO          = "photo"
)

type AthleteHandler struct {
	Handler
	controller *athleteController.AthleteController
	config     config.Config
}

func NewAthleteHandler(app app.App, router fiber.Router) *AthleteHandler {
	log := logger.New("handlers").File("athlete_handler")
	return &AthleteHandler{
		controller: app.AthleteController,
		config:     app.Config,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *AthleteHandler) Register() {
	athletes := h.router.Group("/athletes", h.middleware.Protected())
	athletes.Post("/", h.create)
	athletes.Get("/", h.list)
	athletes.Get("/search", h.search)
	athletes.Get("/:id", h.get)
	athletes.Get("/:id/fees", h.fees)
	athletes.Put("/:id", h.update)
	athletes.Delete("/:id", h.delete)
}

func firstFile(form *multipart.Form, fields ...string) *multipart.FileHeader {
	if form == nil {
		return nil
	}
	for _, field := range fields {
		if files := form.File[field]; len(files) > 0 {
			return files[0]
		}
	}
	return nil
}

func uploadedFiles(form *multipart.Form) athleteController.Files {
	return athleteController.Files{
		Document: firstFile(form, FIELD_DOCUMENT, FIELD_DOCUMENT_ALIAS),
		Photo:    firstFile(form, FIELD_PHOTO),
	}
}

func isMultipart(c *fiber.Ctx) bool {
	return strings.HasPrefix(string(c.Request().Header.ContentType()), fiber.MIMEMultipartForm)
}

func (h *AthleteHandler) create(c *fiber.Ctx) error {
	log := h.log.Function("create")

	var form *multipart.Form
	if isMultipart(c) {
		parsed, err := c.MultipartForm()
		if err != nil {
			log.Er("failed to parse multipart form", err)
			return apperr.Wrap(apperr.KindValidation, MSG_INVALID_BODY, err)
		}
		form = parsed
	}

	var fields AthleteFields
	if len(c.Body()) > 0 {
		if err := parseJSON(c, &fields); err != nil {
			return err
		}
	}

	athlete, err := h.controller.Create(c.UserContext(), fields, uploadedFiles(form), middleware.UserID(c))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Athlete created successfully",
		"athlete": athlete,
	})
}

func (h *AthleteHandler) list(c *fiber.Ctx) error {
	page, err := h.controller.List(c.UserContext(), pageRequest(c, h.config))
	if err != nil {
		return err
	}
	return paginated(c, page)
}

func (h *AthleteHandler) search(c *fiber.Ctx) error {
	page, err := h.controller.Search(c.UserContext(), c.Query("query"), pageRequest(c, h.config))
	if err != nil {
		return err
	}
	return paginated(c, page)
}

func (h *AthleteHandler) get(c *fiber.Ctx) error {
	id, err := idParam(c, repositories.MSG_ATHLETE_NOT_FOUND)
	if err != nil {
		return err
	}

	athlete, err := h.controller.Get(c.UserContext(), id)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"message": "success", "athlete": athlete})
}

func (h *AthleteHandler) fees(c *fiber.Ctx) error {
	id, err := idParam(c, repositories.MSG_ATHLETE_NOT_FOUND)
	if err != nil {
		return err
	}

	page, err := h.controller.Fees(c.UserContext(), id, pageRequest(c, h.config))
	if err != nil {
		return err
	}
	return paginated(c, page)
}

// formUpdate keeps only the fields present in the form so absent ones stay
// unchanged.
func formUpdate(form *multipart.Form) UpdateAthleteRequest {
	value := func(key string) *string {
		if values, ok := form.Value[key]; ok && len(values) > 0 {
			v := values[0]
			return &v
		}
		return nil
	}

	return UpdateAthleteRequest{
		FullName:           value("full_name"),
		FatherName:         value("father_name"),
		PermanentResidence: value("permanent_residence"),
		CurrentResidence:   value("current_residence"),
		NicNumber:          value("nic_number"),
	}
}

func (h *AthleteHandler) update(c *fiber.Ctx) error {
	log := h.log.Function("update")

	id, err := idParam(c, repositories.MSG_ATHLETE_NOT_FOUND)
	if err != nil {
		return err
	}

	var (
		request UpdateAthleteRequest
		files   athleteController.Files
	)
	if isMultipart(c) {
		form, err := c.MultipartForm()
		if err != nil {
			log.Er("failed to parse multipart form", err)
			return apperr.Wrap(apperr.KindValidation, MSG_INVALID_BODY, err)
		}
		request = formUpdate(form)
		files = uploadedFiles(form)
	} else if err := parseJSON(c, &request); err != nil {
		return err
	}

	athlete, err := h.controller.Update(c.UserContext(), id, request, files, middleware.UserID(c))
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message": "Athlete updated successfully",
		"athlete": athlete,
	})
}

func (h *AthleteHandler) delete(c *fiber.Ctx) error {
	id, err := idParam(c, repositories.MSG_ATHLETE_NOT_FOUND)
	if err != nil {
		return err
	}

	if err := h.controller.Delete(c.UserContext(), id, middleware.UserID(c)); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"message": "Athlete deleted successfully"})
}
