package repository

import (
	"context"

	"doccollect/internal/model"
)

// ClientRepository defines persistence for clients.
type ClientRepository interface {
	Create(ctx context.Context, c *model.Client) (*model.Client, error)
	FindByID(ctx context.Context, id string) (*model.Client, error)
	List(ctx context.Context, pq PageQuery) (*PageResult[model.Client], error)
}
