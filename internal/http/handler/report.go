package handler

import (
	"github.com/gofiber/fiber/v2"

	"doccollect/internal/service"
)

// StuckDocuments reports documents sitting at processing past the configured
// threshold. Report only; nothing is auto-advanced.
func StuckDocuments(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		docs, err := svc.ListStuck(c.UserContext())
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(fiber.Map{"data": docs, "total": len(docs)})
	}
}
