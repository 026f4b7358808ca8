package service

import (
	"context"
	"fmt"
	"time"

	"doccollect/internal/model"
	"doccollect/internal/repository"
)

// checklist applies the derived-status rules against the store. It is shared
// by the period and document services so both recompute through the same path.
// Callers hold the period lock.
type checklist struct {
	requests  repository.RequestRepository
	documents repository.DocumentRepository
}

// recomputeRequest re-derives one request's status from its assigned
// documents and persists the value if it changed.
func (c checklist) recomputeRequest(ctx context.Context, requestID string) error {
	req, err := c.requests.FindByID(ctx, requestID)
	if err != nil {
		return fmt.Errorf("load request %s: %w", requestID, err)
	}
	docs, err := c.documents.ListByRequest(ctx, requestID)
	if err != nil {
		return fmt.Errorf("load documents for request %s: %w", requestID, err)
	}
	derived := deriveRequestStatus(docs)
	if derived == req.Status {
		return nil
	}
	return c.requests.UpdateStatus(ctx, requestID, derived)
}

// refreshPeriod advances any processing documents whose ready_at elapsed,
// persists the changes, then re-derives every request status in the period.
// It returns the refreshed requests and documents.
func (c checklist) refreshPeriod(ctx context.Context, periodID string, now time.Time) ([]model.PeriodRequest, []model.Document, error) {
	docs, err := c.documents.ListByPeriod(ctx, periodID)
	if err != nil {
		return nil, nil, fmt.Errorf("load documents for period %s: %w", periodID, err)
	}
	for i := range docs {
		if refreshPipeline(&docs[i], now) {
			if err := c.documents.UpdatePipeline(ctx, &docs[i]); err != nil {
				return nil, nil, fmt.Errorf("persist pipeline for document %s: %w", docs[i].ID, err)
			}
		}
	}

	reqs, err := c.requests.ListByPeriod(ctx, periodID)
	if err != nil {
		return nil, nil, fmt.Errorf("load requests for period %s: %w", periodID, err)
	}
	byRequest := make(map[string][]model.Document)
	for _, d := range docs {
		if d.PeriodRequestID != nil && *d.PeriodRequestID != "" {
			byRequest[*d.PeriodRequestID] = append(byRequest[*d.PeriodRequestID], d)
		}
	}
	for i := range reqs {
		derived := deriveRequestStatus(byRequest[reqs[i].ID])
		if derived == reqs[i].Status {
			continue
		}
		if err := c.requests.UpdateStatus(ctx, reqs[i].ID, derived); err != nil {
			return nil, nil, fmt.Errorf("persist status for request %s: %w", reqs[i].ID, err)
		}
		reqs[i].Status = derived
	}
	return reqs, docs, nil
}
