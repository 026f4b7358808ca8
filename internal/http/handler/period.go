package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"doccollect/internal/service"
)

type createPeriodRequest struct {
	ClientID string     `json:"clientId" validate:"required"`
	Year     int        `json:"year" validate:"required,min=2000,max=2100"`
	Month    int        `json:"month" validate:"required,min=1,max=12"`
	DueDate  *time.Time `json:"dueDate"`
}

type bulkCreatePeriodsRequest struct {
	ClientIDs []string   `json:"clientIds" validate:"required,min=1,dive,required"`
	Year      int        `json:"year" validate:"required,min=2000,max=2100"`
	Month     int        `json:"month" validate:"required,min=1,max=12"`
	DueDate   *time.Time `json:"dueDate"`
}

type createRequestRequest struct {
	Title    string `json:"title" validate:"required"`
	Category string `json:"category"`
	Required bool   `json:"required"`
}

type closePeriodRequest struct {
	Force bool `json:"force"`
}

// CreatePeriod opens a monthly cycle for a client. Creating the same
// (client, year, month) twice returns the existing period.
func CreatePeriod(svc service.PeriodService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req createPeriodRequest
		if ok, resp := decode(c, &req); !ok {
			return resp
		}
		p, err := svc.CreatePeriod(c.UserContext(), req.ClientID, req.Year, req.Month, req.DueDate)
		if err != nil {
			return serviceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(p)
	}
}

// BulkCreatePeriods opens the same cycle for many clients at once.
func BulkCreatePeriods(svc service.PeriodService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req bulkCreatePeriodsRequest
		if ok, resp := decode(c, &req); !ok {
			return resp
		}
		periods, err := svc.BulkCreatePeriods(c.UserContext(), req.ClientIDs, req.Year, req.Month, req.DueDate)
		if err != nil {
			return serviceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": periods})
	}
}

// ListPeriods returns dashboard rows for every period, newest first.
func ListPeriods(svc service.PeriodService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		summaries, err := svc.ListSummaries(c.UserContext())
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(fiber.Map{"data": summaries})
	}
}

// GetPeriod returns one period by id.
func GetPeriod(svc service.PeriodService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		p, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(p)
	}
}

// PeriodCompletion returns the aggregated checklist metrics for a period.
func PeriodCompletion(svc service.PeriodService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		res, err := svc.Completion(c.UserContext(), id)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(res)
	}
}

// PeriodDocuments returns a period's documents with pipeline statuses
// refreshed.
func PeriodDocuments(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		docs, err := svc.ListByPeriod(c.UserContext(), id)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(fiber.Map{"data": docs})
	}
}

// CreatePeriodRequest adds a checklist item to a period.
func CreatePeriodRequest(svc service.PeriodService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		var req createRequestRequest
		if ok, resp := decode(c, &req); !ok {
			return resp
		}
		created, err := svc.CreateRequest(c.UserContext(), id, req.Title, req.Category, req.Required)
		if err != nil {
			return serviceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(created)
	}
}

// ReviewPeriod marks an open period as in_review.
func ReviewPeriod(svc service.PeriodService) fiber.Handler {
	return transitionHandler(svc.MarkInReview)
}

// ReopenPeriod returns a closed period to open.
func ReopenPeriod(svc service.PeriodService) fiber.Handler {
	return transitionHandler(svc.Reopen)
}

// LockPeriod makes a closed period immutable. One-way.
func LockPeriod(svc service.PeriodService) fiber.Handler {
	return transitionHandler(svc.Lock)
}

// ClosePeriod closes an open or in_review period and reports what is still
// incomplete. The warnings never block the close.
func ClosePeriod(svc service.PeriodService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		var req closePeriodRequest
		// Body is optional; force defaults to false.
		if len(c.Body()) > 0 {
			if ok, resp := decode(c, &req); !ok {
				return resp
			}
		}
		res, err := svc.Close(c.UserContext(), id, req.Force)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(res)
	}
}

// transitionHandler wraps the review/reopen/lock transitions, which differ
// only in the service method they call.
func transitionHandler(fn func(ctx context.Context, periodID string) error) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		if err := fn(c.UserContext(), id); err != nil {
			return serviceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
