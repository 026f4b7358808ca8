package postgres

import (
	"context"
	"database/sql"

	"doccollect/internal/model"
	"doccollect/internal/repository"
)

// PeriodPostgres is a PostgreSQL implementation of repository.PeriodRepository.
type PeriodPostgres struct {
	db *sql.DB
}

// NewPeriodPostgres creates a new PeriodPostgres repository.
func NewPeriodPostgres(db *sql.DB) *PeriodPostgres {
	return &PeriodPostgres{db: db}
}

var _ repository.PeriodRepository = (*PeriodPostgres)(nil)

const periodColumns = ` id, client_id, year, month, status, due_date, created_at`

func scanPeriod(row rowScanner) (*model.Period, error) {
	var (
		p       model.Period
		dueDate sql.NullTime
	)
	if err := row.Scan(&p.ID, &p.ClientID, &p.Year, &p.Month, &p.Status, &dueDate, &p.CreatedAt); err != nil {
		return nil, err
	}
	if dueDate.Valid {
		t := dueDate.Time
		p.DueDate = &t
	}
	return &p, nil
}

// Create inserts a new period row and returns the stored record.
func (r *PeriodPostgres) Create(ctx context.Context, p *model.Period) (*model.Period, error) {
	const q = `
		INSERT INTO periods (id, client_id, year, month, status, due_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING` + periodColumns
	row := r.db.QueryRowContext(ctx, q, p.ID, p.ClientID, p.Year, p.Month, p.Status, p.DueDate, p.CreatedAt)
	return scanPeriod(row)
}

// FindByID fetches a single period by its ID.
func (r *PeriodPostgres) FindByID(ctx context.Context, id string) (*model.Period, error) {
	const q = `SELECT` + periodColumns + ` FROM periods WHERE id = $1`
	return scanPeriod(r.db.QueryRowContext(ctx, q, id))
}

// FindByClientYearMonth fetches the period for one client's month.
func (r *PeriodPostgres) FindByClientYearMonth(ctx context.Context, clientID string, year, month int) (*model.Period, error) {
	const q = `SELECT` + periodColumns + ` FROM periods WHERE client_id = $1 AND year = $2 AND month = $3`
	return scanPeriod(r.db.QueryRowContext(ctx, q, clientID, year, month))
}

// List returns all periods ordered by year desc, month desc.
func (r *PeriodPostgres) List(ctx context.Context) ([]model.Period, error) {
	const q = `SELECT` + periodColumns + ` FROM periods ORDER BY year DESC, month DESC, created_at DESC`
	return r.listQuery(ctx, q)
}

// ListByClient returns a client's periods ordered by year desc, month desc.
func (r *PeriodPostgres) ListByClient(ctx context.Context, clientID string) ([]model.Period, error) {
	const q = `SELECT` + periodColumns + ` FROM periods WHERE client_id = $1 ORDER BY year DESC, month DESC`
	return r.listQuery(ctx, q, clientID)
}

// UpdateStatus sets a period's lifecycle status.
func (r *PeriodPostgres) UpdateStatus(ctx context.Context, id string, status model.PeriodStatus) error {
	const q = `UPDATE periods SET status = $2 WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id, status)
	return err
}

func (r *PeriodPostgres) listQuery(ctx context.Context, query string, args ...any) ([]model.Period, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Period, 0)
	for rows.Next() {
		p, err := scanPeriod(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
