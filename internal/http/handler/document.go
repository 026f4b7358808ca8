package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"doccollect/internal/model"
	"doccollect/internal/service"
)

type assignDocumentRequest struct {
	RequestID *string `json:"requestId"`
}

type decisionRequest struct {
	Note string `json:"note"`
}

type rejectRequest struct {
	Reason string `json:"reason" validate:"required"`
}

type flagRequest struct {
	Note string `json:"note" validate:"required"`
}

type bulkApproveRequest struct {
	DocumentIDs []string `json:"documentIds" validate:"required,min=1,dive,required"`
	Note        string   `json:"note"`
}

type scanResultRequest struct {
	Status string `json:"status" validate:"required,oneof=clean quarantined"`
}

type ocrResultRequest struct {
	Status    string                   `json:"status" validate:"required,oneof=done failed"`
	Extracted *model.DocumentExtracted `json:"extracted"`
}

// GetDocument returns one document by id.
func GetDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		doc, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(doc)
	}
}

// ViewDocument returns a presigned GET URL for the document's bytes.
func ViewDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		url, err := svc.ViewURL(c.UserContext(), id)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(fiber.Map{"url": url})
	}
}

// AssignDocument binds or clears a document's checklist request. A null
// requestId clears the assignment.
func AssignDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		var req assignDocumentRequest
		if ok, resp := decode(c, &req); !ok {
			return resp
		}
		if err := svc.Assign(c.UserContext(), id, req.RequestID); err != nil {
			return serviceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// ApproveDocument records an approval. The note is optional.
func ApproveDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		var req decisionRequest
		if len(c.Body()) > 0 {
			if ok, resp := decode(c, &req); !ok {
				return resp
			}
		}
		if err := svc.Approve(c.UserContext(), id, req.Note); err != nil {
			return serviceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// RejectDocument records a rejection. A reason is mandatory.
func RejectDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		var req rejectRequest
		if ok, resp := decode(c, &req); !ok {
			return resp
		}
		if err := svc.Reject(c.UserContext(), id, req.Reason); err != nil {
			return serviceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// FlagDocument marks a document for follow-up. A note is mandatory.
func FlagDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		var req flagRequest
		if ok, resp := decode(c, &req); !ok {
			return resp
		}
		if err := svc.Flag(c.UserContext(), id, req.Note); err != nil {
			return serviceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// BulkApproveDocuments applies Approve per document and reports each outcome.
func BulkApproveDocuments(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req bulkApproveRequest
		if ok, resp := decode(c, &req); !ok {
			return resp
		}
		results := svc.BulkApprove(c.UserContext(), req.DocumentIDs, req.Note)
		return c.JSON(fiber.Map{"results": results})
	}
}

// ScanResult consumes the external virus-scan verdict callback.
func ScanResult(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		var req scanResultRequest
		if ok, resp := decode(c, &req); !ok {
			return resp
		}
		if err := svc.ReportScanResult(c.UserContext(), id, model.VirusStatus(req.Status)); err != nil {
			return serviceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// OCRResult consumes the external extraction outcome callback.
func OCRResult(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		var req ocrResultRequest
		if ok, resp := decode(c, &req); !ok {
			return resp
		}
		if err := svc.ReportOCRResult(c.UserContext(), id, model.OCRStatus(req.Status), req.Extracted); err != nil {
			return serviceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
