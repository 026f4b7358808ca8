package repository

import (
	"context"
	"time"

	"doccollect/internal/model"
)

// DocumentRepository defines data access for documents using SQL queries only.
// No business logic here — strictly persistence operations. Pipeline and
// approval transitions are decided by the service layer; the repository only
// writes the resulting columns.
type DocumentRepository interface {
	// Create inserts a new document record and returns the stored row.
	Create(ctx context.Context, doc *model.Document) (*model.Document, error)

	// FindByID returns a document by its ID.
	FindByID(ctx context.Context, id string) (*model.Document, error)

	// ListByPeriod returns all documents of a period, newest first.
	ListByPeriod(ctx context.Context, periodID string) ([]model.Document, error)

	// ListByRequest returns all documents currently assigned to a request.
	ListByRequest(ctx context.Context, requestID string) ([]model.Document, error)

	// UpdateAssignment sets period_request_id (nil clears the assignment).
	UpdateAssignment(ctx context.Context, id string, requestID *string) error

	// UpdatePipeline persists the pipeline axis: pipeline_status, virus_status,
	// ocr_status, ready_at, duplicate_of_id and extracted fields.
	UpdatePipeline(ctx context.Context, doc *model.Document) error

	// UpdateApproval persists the approval axis.
	UpdateApproval(ctx context.Context, id string, status model.ApprovalStatus, note string) error

	// ListStuck returns documents sitting at pipeline processing since before
	// the given cutoff, oldest first.
	ListStuck(ctx context.Context, before time.Time) ([]model.Document, error)
}
