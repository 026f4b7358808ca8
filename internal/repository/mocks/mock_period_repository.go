package mocks

import (
	"context"

	"doccollect/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockPeriodRepository struct {
	mock.Mock
}

func (m *MockPeriodRepository) Create(ctx context.Context, p *model.Period) (*model.Period, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Period), args.Error(1)
}

func (m *MockPeriodRepository) FindByID(ctx context.Context, id string) (*model.Period, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Period), args.Error(1)
}

func (m *MockPeriodRepository) FindByClientYearMonth(ctx context.Context, clientID string, year, month int) (*model.Period, error) {
	args := m.Called(ctx, clientID, year, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Period), args.Error(1)
}

func (m *MockPeriodRepository) List(ctx context.Context) ([]model.Period, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Period), args.Error(1)
}

func (m *MockPeriodRepository) ListByClient(ctx context.Context, clientID string) ([]model.Period, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Period), args.Error(1)
}

func (m *MockPeriodRepository) UpdateStatus(ctx context.Context, id string, status model.PeriodStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}
