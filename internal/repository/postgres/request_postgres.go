package postgres

import (
	"context"
	"database/sql"

	"doccollect/internal/model"
	"doccollect/internal/repository"
)

// RequestPostgres is a PostgreSQL implementation of repository.RequestRepository.
type RequestPostgres struct {
	db *sql.DB
}

// NewRequestPostgres creates a new RequestPostgres repository.
func NewRequestPostgres(db *sql.DB) *RequestPostgres {
	return &RequestPostgres{db: db}
}

var _ repository.RequestRepository = (*RequestPostgres)(nil)

const requestColumns = ` id, period_id, title, category, required, sort_order, status, created_at`

func scanRequest(row rowScanner) (*model.PeriodRequest, error) {
	var (
		req      model.PeriodRequest
		category sql.NullString
	)
	if err := row.Scan(&req.ID, &req.PeriodID, &req.Title, &category, &req.Required, &req.SortOrder, &req.Status, &req.CreatedAt); err != nil {
		return nil, err
	}
	req.Category = category.String
	return &req, nil
}

// Create inserts a new checklist item and returns the stored record.
func (r *RequestPostgres) Create(ctx context.Context, req *model.PeriodRequest) (*model.PeriodRequest, error) {
	const q = `
		INSERT INTO period_requests (id, period_id, title, category, required, sort_order, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING` + requestColumns
	row := r.db.QueryRowContext(ctx, q,
		req.ID, req.PeriodID, req.Title, nullString(req.Category),
		req.Required, req.SortOrder, req.Status, req.CreatedAt,
	)
	return scanRequest(row)
}

// FindByID fetches a single request by its ID.
func (r *RequestPostgres) FindByID(ctx context.Context, id string) (*model.PeriodRequest, error) {
	const q = `SELECT` + requestColumns + ` FROM period_requests WHERE id = $1`
	return scanRequest(r.db.QueryRowContext(ctx, q, id))
}

// ListByPeriod returns a period's requests ordered by sort_order.
func (r *RequestPostgres) ListByPeriod(ctx context.Context, periodID string) ([]model.PeriodRequest, error) {
	const q = `SELECT` + requestColumns + ` FROM period_requests WHERE period_id = $1 ORDER BY sort_order ASC, created_at ASC`
	rows, err := r.db.QueryContext(ctx, q, periodID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.PeriodRequest, 0)
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *req)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// UpdateStatus persists the derived status for a request.
func (r *RequestPostgres) UpdateStatus(ctx context.Context, id string, status model.RequestStatus) error {
	const q = `UPDATE period_requests SET status = $2 WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id, status)
	return err
}
