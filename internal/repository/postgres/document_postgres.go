package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"doccollect/internal/model"
	"doccollect/internal/repository"
)

// DocumentPostgres is a PostgreSQL implementation of repository.DocumentRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type DocumentPostgres struct {
	db *sql.DB
}

// NewDocumentPostgres creates a new DocumentPostgres repository.
func NewDocumentPostgres(db *sql.DB) *DocumentPostgres {
	return &DocumentPostgres{db: db}
}

var _ repository.DocumentRepository = (*DocumentPostgres)(nil)

const documentColumns = `
	id, firm_id, client_id, period_id, period_request_id, file_key, filename,
	byte_size, content_type, sha256, version, uploaded_by, uploaded_at,
	virus_status, ocr_status, extracted_vendor, extracted_amount,
	extracted_date, extracted_relative_path, tags, pipeline_status, progress,
	ready_at, duplicate_of_id, approval_status, approval_note`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*model.Document, error) {
	var (
		d            model.Document
		requestID    sql.NullString
		sha          sql.NullString
		uploadedBy   sql.NullString
		vendor       sql.NullString
		amount       sql.NullFloat64
		date         sql.NullString
		relativePath sql.NullString
		tagsJSON     []byte
		readyAt      sql.NullTime
		duplicateOf  sql.NullString
		note         sql.NullString
	)
	if err := row.Scan(
		&d.ID, &d.FirmID, &d.ClientID, &d.PeriodID, &requestID, &d.FileKey,
		&d.Filename, &d.ByteSize, &d.ContentType, &sha, &d.Version,
		&uploadedBy, &d.UploadedAt, &d.VirusStatus, &d.OCRStatus, &vendor,
		&amount, &date, &relativePath, &tagsJSON, &d.PipelineStatus,
		&d.Progress, &readyAt, &duplicateOf, &d.ApprovalStatus, &note,
	); err != nil {
		return nil, err
	}
	if requestID.Valid {
		d.PeriodRequestID = &requestID.String
	}
	d.SHA256 = sha.String
	if uploadedBy.Valid {
		d.UploadedBy = &uploadedBy.String
	}
	if vendor.Valid || amount.Valid || date.Valid || relativePath.Valid {
		d.Extracted = &model.DocumentExtracted{
			Vendor:       vendor.String,
			Amount:       amount.Float64,
			Date:         date.String,
			RelativePath: relativePath.String,
		}
	}
	d.Tags = []string{}
	if len(tagsJSON) > 0 {
		if err := json.Unmarshal(tagsJSON, &d.Tags); err != nil {
			return nil, err
		}
	}
	if readyAt.Valid {
		t := readyAt.Time
		d.ReadyAt = &t
	}
	if duplicateOf.Valid {
		d.DuplicateOfID = &duplicateOf.String
	}
	d.ApprovalNote = note.String
	return &d, nil
}

func extractedFields(d *model.Document) (vendor, date, relativePath sql.NullString, amount sql.NullFloat64) {
	if d.Extracted == nil {
		return
	}
	if d.Extracted.Vendor != "" {
		vendor = sql.NullString{String: d.Extracted.Vendor, Valid: true}
	}
	if d.Extracted.Amount != 0 {
		amount = sql.NullFloat64{Float64: d.Extracted.Amount, Valid: true}
	}
	if d.Extracted.Date != "" {
		date = sql.NullString{String: d.Extracted.Date, Valid: true}
	}
	if d.Extracted.RelativePath != "" {
		relativePath = sql.NullString{String: d.Extracted.RelativePath, Valid: true}
	}
	return
}

// Create inserts a new document row and returns the stored record.
func (r *DocumentPostgres) Create(ctx context.Context, doc *model.Document) (*model.Document, error) {
	const q = `
		INSERT INTO documents (
			id, firm_id, client_id, period_id, period_request_id, file_key,
			filename, byte_size, content_type, sha256, version, uploaded_by,
			uploaded_at, virus_status, ocr_status, extracted_vendor,
			extracted_amount, extracted_date, extracted_relative_path, tags,
			pipeline_status, progress, ready_at, duplicate_of_id,
			approval_status, approval_note
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24,$25,$26)
		RETURNING ` + documentColumns
	tags, err := json.Marshal(doc.Tags)
	if err != nil {
		return nil, err
	}
	vendor, date, relativePath, amount := extractedFields(doc)
	approval := doc.ApprovalStatus
	if approval == "" {
		approval = model.ApprovalPending
	}
	row := r.db.QueryRowContext(ctx, q,
		doc.ID, doc.FirmID, doc.ClientID, doc.PeriodID, doc.PeriodRequestID,
		doc.FileKey, doc.Filename, doc.ByteSize, doc.ContentType,
		nullString(doc.SHA256), doc.Version, doc.UploadedBy, doc.UploadedAt,
		doc.VirusStatus, doc.OCRStatus, vendor, amount, date, relativePath,
		tags, doc.PipelineStatus, doc.Progress, doc.ReadyAt,
		doc.DuplicateOfID, approval, nullString(doc.ApprovalNote),
	)
	return scanDocument(row)
}

// FindByID fetches a single document by its ID.
func (r *DocumentPostgres) FindByID(ctx context.Context, id string) (*model.Document, error) {
	const q = `SELECT` + documentColumns + ` FROM documents WHERE id = $1`
	return scanDocument(r.db.QueryRowContext(ctx, q, id))
}

// ListByPeriod returns a period's documents, newest first.
func (r *DocumentPostgres) ListByPeriod(ctx context.Context, periodID string) ([]model.Document, error) {
	const q = `SELECT` + documentColumns + `
		FROM documents WHERE period_id = $1
		ORDER BY uploaded_at DESC, id DESC`
	return r.list(ctx, q, periodID)
}

// ListByRequest returns the documents currently assigned to a request.
func (r *DocumentPostgres) ListByRequest(ctx context.Context, requestID string) ([]model.Document, error) {
	const q = `SELECT` + documentColumns + `
		FROM documents WHERE period_request_id = $1
		ORDER BY uploaded_at DESC, id DESC`
	return r.list(ctx, q, requestID)
}

// UpdateAssignment sets or clears period_request_id.
func (r *DocumentPostgres) UpdateAssignment(ctx context.Context, id string, requestID *string) error {
	const q = `UPDATE documents SET period_request_id = $2 WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id, requestID)
	return err
}

// UpdatePipeline persists the pipeline axis columns.
func (r *DocumentPostgres) UpdatePipeline(ctx context.Context, doc *model.Document) error {
	const q = `
		UPDATE documents SET
			pipeline_status = $2, virus_status = $3, ocr_status = $4,
			extracted_vendor = $5, extracted_amount = $6, extracted_date = $7,
			extracted_relative_path = $8, ready_at = $9, duplicate_of_id = $10
		WHERE id = $1`
	vendor, date, relativePath, amount := extractedFields(doc)
	_, err := r.db.ExecContext(ctx, q,
		doc.ID, doc.PipelineStatus, doc.VirusStatus, doc.OCRStatus,
		vendor, amount, date, relativePath, doc.ReadyAt, doc.DuplicateOfID,
	)
	return err
}

// UpdateApproval persists the approval axis.
func (r *DocumentPostgres) UpdateApproval(ctx context.Context, id string, status model.ApprovalStatus, note string) error {
	const q = `UPDATE documents SET approval_status = $2, approval_note = $3 WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id, status, nullString(note))
	return err
}

// ListStuck returns documents at pipeline processing uploaded before the
// cutoff, oldest first.
func (r *DocumentPostgres) ListStuck(ctx context.Context, before time.Time) ([]model.Document, error) {
	const q = `SELECT` + documentColumns + `
		FROM documents
		WHERE pipeline_status = 'processing' AND uploaded_at < $1
		ORDER BY uploaded_at ASC`
	return r.list(ctx, q, before)
}

func (r *DocumentPostgres) list(ctx context.Context, query string, arg any) ([]model.Document, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Document, 0)
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
