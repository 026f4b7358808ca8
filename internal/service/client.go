package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"doccollect/internal/model"
	"doccollect/internal/repository"
)

var ErrNameRequired = errors.New("name is required")

// ClientListResult is the service-level DTO for paginated clients.
type ClientListResult struct {
	Items []model.Client `json:"data"`
	Total int            `json:"total"`
}

// ClientService manages firm clients.
type ClientService interface {
	Create(ctx context.Context, firmID, name string) (*model.Client, error)
	Get(ctx context.Context, id string) (*model.Client, error)
	List(ctx context.Context, limit, offset int) (*ClientListResult, error)
}

type clientService struct {
	repo repository.ClientRepository
}

// NewClientService constructs a ClientService.
func NewClientService(repo repository.ClientRepository) ClientService {
	return &clientService{repo: repo}
}

func (s *clientService) Create(ctx context.Context, firmID, name string) (*model.Client, error) {
	if firmID == "" {
		return nil, ErrIDRequired
	}
	if name == "" {
		return nil, ErrNameRequired
	}
	c := &model.Client{
		ID:        uuid.New().String(),
		FirmID:    firmID,
		Name:      name,
		Status:    "active",
		CreatedAt: time.Now().UTC(),
	}
	return s.repo.Create(ctx, c)
}

func (s *clientService) Get(ctx context.Context, id string) (*model.Client, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func (s *clientService) List(ctx context.Context, limit, offset int) (*ClientListResult, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}
	res, err := s.repo.List(ctx, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &ClientListResult{Items: res.Items, Total: res.Total}, nil
}
