package handlers

import (
	"strconv"

	"github.com/AbbasAlizada1380/mellat/config"
	"github.com/AbbasAlizada1380/mellat/internal/apperr"
	. "github.com/AbbasAlizada1380/mellat/internal/models"

	"github.com/gofiber/fiber/v2"
)

const MSG_INVALID_BODY = "Invalid request body"

// idParam reads :id. Ids that cannot exist are reported as notFound, the
// same as an absent row.
func idParam(c *fiber.Ctx, notFound string) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, apperr.NotFound(notFound)
	}
	return uint(id), nil
}

func pageRequest(c *fiber.Ctx, config config.Config) PageRequest {
	return NewPageRequest(
		c.Query("page"),
		c.Query("limit"),
		config.PaginationDefaultLimit,
		config.PaginationMaxLimit,
	)
}

func paginated[T any](c *fiber.Ctx, page Page[T]) error {
	return c.JSON(fiber.Map{
		"message":    "success",
		"data":       page.Data,
		"pagination": page.Pagination,
	})
}

func parseJSON(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return apperr.Wrap(apperr.KindValidation, MSG_INVALID_BODY, err)
	}
	return nil
}
