package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"doccollect/internal/service"
)

// Portal assembles the magic-link portal payload: client, period, checklist,
// documents and upload limits in one response.
func Portal(svc service.PeriodService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("periodId")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		b, err := svc.Bootstrap(c.UserContext(), id)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(b)
	}
}
