package handler

import (
	"github.com/gofiber/fiber/v2"

	"doccollect/internal/service"
)

type presignUploadRequest struct {
	PeriodID    string `json:"periodId" validate:"required"`
	Filename    string `json:"filename" validate:"required"`
	ContentType string `json:"contentType"`
	ByteSize    int64  `json:"byteSize" validate:"required,gt=0"`
}

type confirmUploadRequest struct {
	PeriodID     string  `json:"periodId" validate:"required"`
	Filename     string  `json:"filename" validate:"required"`
	ByteSize     int64   `json:"byteSize" validate:"required,gt=0"`
	ContentType  string  `json:"contentType"`
	RelativePath string  `json:"relativePath"`
	FileKey      string  `json:"fileKey"`
	RequestID    *string `json:"requestId"`
	UploadedBy   *string `json:"uploadedBy"`
}

// PresignUpload issues a presigned PUT URL for a direct upload.
func PresignUpload(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req presignUploadRequest
		if ok, resp := decode(c, &req); !ok {
			return resp
		}
		res, err := svc.PresignUpload(c.UserContext(), service.PresignUploadInput{
			PeriodID:    req.PeriodID,
			Filename:    req.Filename,
			ContentType: req.ContentType,
			ByteSize:    req.ByteSize,
		})
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(res)
	}
}

// ConfirmUpload finalizes a transfer and creates the document record.
func ConfirmUpload(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req confirmUploadRequest
		if ok, resp := decode(c, &req); !ok {
			return resp
		}
		doc, err := svc.ConfirmUpload(c.UserContext(), service.ConfirmUploadInput{
			PeriodID:     req.PeriodID,
			Filename:     req.Filename,
			ByteSize:     req.ByteSize,
			ContentType:  req.ContentType,
			RelativePath: req.RelativePath,
			FileKey:      req.FileKey,
			RequestID:    req.RequestID,
			UploadedBy:   req.UploadedBy,
		})
		if err != nil {
			return serviceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(doc)
	}
}
