package model

import "time"

// DocumentExtracted holds optional fields populated by the external OCR
// service.
type DocumentExtracted struct {
	Vendor       string  `json:"vendor,omitempty"`
	Amount       float64 `json:"amount,omitempty"`
	Date         string  `json:"date,omitempty"`
	RelativePath string  `json:"relativePath,omitempty"`
}

// Document is one uploaded file instance. PipelineStatus and ApprovalStatus
// are independent axes: a document must reach pipeline clean before any
// approval decision is permitted. Documents are never deleted; rejection and
// quarantine are statuses, not removal.
type Document struct {
	ID              string             `json:"id"`
	FirmID          string             `json:"firmId"`
	ClientID        string             `json:"clientId"`
	PeriodID        string             `json:"periodId"`
	PeriodRequestID *string            `json:"periodRequestId"`
	FileKey         string             `json:"fileKey"`
	Filename        string             `json:"filename"`
	ByteSize        int64              `json:"byteSize"`
	ContentType     string             `json:"contentType,omitempty"`
	SHA256          string             `json:"sha256,omitempty"`
	Version         int                `json:"version"`
	UploadedBy      *string            `json:"uploadedBy,omitempty"`
	UploadedAt      time.Time          `json:"uploadedAt"`
	VirusStatus     VirusStatus        `json:"virusStatus"`
	OCRStatus       OCRStatus          `json:"ocrStatus"`
	Extracted       *DocumentExtracted `json:"extracted,omitempty"`
	Tags            []string           `json:"tags"`
	PipelineStatus  PipelineStatus     `json:"status"`
	Progress        int                `json:"progress,omitempty"`
	ReadyAt         *time.Time         `json:"readyAt,omitempty"`
	DuplicateOfID   *string            `json:"duplicateOfId,omitempty"`
	ApprovalStatus  ApprovalStatus     `json:"approvalStatus"`
	ApprovalNote    string             `json:"approvalNote,omitempty"`
}

// Countable reports whether the document participates in request-completion
// counts: it must be assigned and not disqualified by the pipeline.
func (d Document) Countable() bool {
	if d.PeriodRequestID == nil || *d.PeriodRequestID == "" {
		return false
	}
	switch d.PipelineStatus {
	case PipelineDuplicate, PipelineQuarantined, PipelineFailed:
		return false
	}
	return true
}
