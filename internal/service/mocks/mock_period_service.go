package mocks

import (
	"context"
	"time"

	"doccollect/internal/model"
	"doccollect/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockPeriodService struct {
	mock.Mock
}

func (m *MockPeriodService) CreatePeriod(ctx context.Context, clientID string, year, month int, dueDate *time.Time) (*model.Period, error) {
	args := m.Called(ctx, clientID, year, month, dueDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Period), args.Error(1)
}

func (m *MockPeriodService) BulkCreatePeriods(ctx context.Context, clientIDs []string, year, month int, dueDate *time.Time) ([]model.Period, error) {
	args := m.Called(ctx, clientIDs, year, month, dueDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Period), args.Error(1)
}

func (m *MockPeriodService) CreateRequest(ctx context.Context, periodID, title, category string, required bool) (*model.PeriodRequest, error) {
	args := m.Called(ctx, periodID, title, category, required)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PeriodRequest), args.Error(1)
}

func (m *MockPeriodService) MarkInReview(ctx context.Context, periodID string) error {
	args := m.Called(ctx, periodID)
	return args.Error(0)
}

func (m *MockPeriodService) Close(ctx context.Context, periodID string, force bool) (*service.CloseResult, error) {
	args := m.Called(ctx, periodID, force)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.CloseResult), args.Error(1)
}

func (m *MockPeriodService) Reopen(ctx context.Context, periodID string) error {
	args := m.Called(ctx, periodID)
	return args.Error(0)
}

func (m *MockPeriodService) Lock(ctx context.Context, periodID string) error {
	args := m.Called(ctx, periodID)
	return args.Error(0)
}

func (m *MockPeriodService) Completion(ctx context.Context, periodID string) (*service.CompletionResult, error) {
	args := m.Called(ctx, periodID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.CompletionResult), args.Error(1)
}

func (m *MockPeriodService) Get(ctx context.Context, periodID string) (*model.Period, error) {
	args := m.Called(ctx, periodID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Period), args.Error(1)
}

func (m *MockPeriodService) ListSummaries(ctx context.Context) ([]service.PeriodSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.PeriodSummary), args.Error(1)
}

func (m *MockPeriodService) ListByClient(ctx context.Context, clientID string) ([]service.PeriodSummary, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.PeriodSummary), args.Error(1)
}

func (m *MockPeriodService) Bootstrap(ctx context.Context, periodID string) (*service.PortalBootstrap, error) {
	args := m.Called(ctx, periodID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.PortalBootstrap), args.Error(1)
}
