package repository

import (
	"context"

	"doccollect/internal/model"
)

// PeriodRepository defines persistence for periods. Status values are decided
// by the service layer's lifecycle controller.
type PeriodRepository interface {
	Create(ctx context.Context, p *model.Period) (*model.Period, error)
	FindByID(ctx context.Context, id string) (*model.Period, error)

	// FindByClientYearMonth returns the period for (clientId, year, month),
	// or sql.ErrNoRows if absent.
	FindByClientYearMonth(ctx context.Context, clientID string, year, month int) (*model.Period, error)

	// List returns all periods ordered by year desc, month desc.
	List(ctx context.Context) ([]model.Period, error)

	// ListByClient returns a client's periods ordered by year desc, month desc.
	ListByClient(ctx context.Context, clientID string) ([]model.Period, error)

	UpdateStatus(ctx context.Context, id string, status model.PeriodStatus) error
}

// RequestRepository defines persistence for period checklist items. The
// status column mirrors the derived value computed by the checklist engine.
type RequestRepository interface {
	Create(ctx context.Context, r *model.PeriodRequest) (*model.PeriodRequest, error)
	FindByID(ctx context.Context, id string) (*model.PeriodRequest, error)

	// ListByPeriod returns a period's requests ordered by sort_order.
	ListByPeriod(ctx context.Context, periodID string) ([]model.PeriodRequest, error)

	UpdateStatus(ctx context.Context, id string, status model.RequestStatus) error
}
