package mocks

import (
	"context"

	"doccollect/internal/model"
	"doccollect/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockDocumentService struct {
	mock.Mock
}

func (m *MockDocumentService) PresignUpload(ctx context.Context, in service.PresignUploadInput) (*service.PresignResult, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.PresignResult), args.Error(1)
}

func (m *MockDocumentService) ConfirmUpload(ctx context.Context, in service.ConfirmUploadInput) (*model.Document, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentService) ReportScanResult(ctx context.Context, documentID string, status model.VirusStatus) error {
	args := m.Called(ctx, documentID, status)
	return args.Error(0)
}

func (m *MockDocumentService) ReportOCRResult(ctx context.Context, documentID string, status model.OCRStatus, extracted *model.DocumentExtracted) error {
	args := m.Called(ctx, documentID, status, extracted)
	return args.Error(0)
}

func (m *MockDocumentService) Assign(ctx context.Context, documentID string, requestID *string) error {
	args := m.Called(ctx, documentID, requestID)
	return args.Error(0)
}

func (m *MockDocumentService) Approve(ctx context.Context, documentID, note string) error {
	args := m.Called(ctx, documentID, note)
	return args.Error(0)
}

func (m *MockDocumentService) Reject(ctx context.Context, documentID, reason string) error {
	args := m.Called(ctx, documentID, reason)
	return args.Error(0)
}

func (m *MockDocumentService) Flag(ctx context.Context, documentID, note string) error {
	args := m.Called(ctx, documentID, note)
	return args.Error(0)
}

func (m *MockDocumentService) BulkApprove(ctx context.Context, documentIDs []string, note string) []service.BulkDecisionResult {
	args := m.Called(ctx, documentIDs, note)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]service.BulkDecisionResult)
}

func (m *MockDocumentService) Get(ctx context.Context, id string) (*model.Document, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentService) ListByPeriod(ctx context.Context, periodID string) ([]model.Document, error) {
	args := m.Called(ctx, periodID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Document), args.Error(1)
}

func (m *MockDocumentService) ViewURL(ctx context.Context, id string) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}

func (m *MockDocumentService) ListStuck(ctx context.Context) ([]model.Document, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Document), args.Error(1)
}
