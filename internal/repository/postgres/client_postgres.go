package postgres

import (
	"context"
	"database/sql"

	"doccollect/internal/model"
	"doccollect/internal/repository"
)

// ClientPostgres is a PostgreSQL implementation of repository.ClientRepository.
type ClientPostgres struct {
	db *sql.DB
}

// NewClientPostgres creates a new ClientPostgres repository.
func NewClientPostgres(db *sql.DB) *ClientPostgres {
	return &ClientPostgres{db: db}
}

var _ repository.ClientRepository = (*ClientPostgres)(nil)

const clientColumns = ` id, firm_id, name, status, created_at`

func scanClient(row rowScanner) (*model.Client, error) {
	var c model.Client
	if err := row.Scan(&c.ID, &c.FirmID, &c.Name, &c.Status, &c.CreatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// Create inserts a new client row and returns the stored record.
func (r *ClientPostgres) Create(ctx context.Context, c *model.Client) (*model.Client, error) {
	const q = `
		INSERT INTO clients (id, firm_id, name, status, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING` + clientColumns
	row := r.db.QueryRowContext(ctx, q, c.ID, c.FirmID, c.Name, c.Status, c.CreatedAt)
	return scanClient(row)
}

// FindByID fetches a single client by its ID.
func (r *ClientPostgres) FindByID(ctx context.Context, id string) (*model.Client, error) {
	const q = `SELECT` + clientColumns + ` FROM clients WHERE id = $1`
	return scanClient(r.db.QueryRowContext(ctx, q, id))
}

// List returns clients using LIMIT/OFFSET pagination and a total count.
func (r *ClientPostgres) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.Client], error) {
	const qCount = `SELECT COUNT(*) FROM clients`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount).Scan(&total); err != nil {
		return nil, err
	}

	const qList = `SELECT` + clientColumns + ` FROM clients ORDER BY name ASC, id ASC LIMIT $1 OFFSET $2`
	rows, err := r.db.QueryContext(ctx, qList, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Client, 0)
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &repository.PageResult[model.Client]{Items: items, Total: total}, nil
}
