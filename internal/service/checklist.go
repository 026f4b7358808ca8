package service

import "doccollect/internal/model"

// Request checklist engine: a request's status is derived from the documents
// assigned to it. The derivation is pure and idempotent; it is re-run after
// every assignment, approval or pipeline change.

// deriveRequestStatus computes the status of a request from the documents
// currently assigned to it. Documents disqualified by the pipeline
// (duplicate, quarantined, failed) do not count.
func deriveRequestStatus(docs []model.Document) model.RequestStatus {
	countable := 0
	for _, d := range docs {
		if !d.Countable() {
			continue
		}
		countable++
		if d.ApprovalStatus == model.ApprovalApproved {
			return model.RequestApproved
		}
	}
	if countable == 0 {
		return model.RequestPending
	}
	return model.RequestReceived
}

// CompletionResult is the aggregated checklist state the period lifecycle
// controller reads before close/lock.
type CompletionResult struct {
	PeriodID             string  `json:"periodId"`
	RequiredCount        int     `json:"requiredCount"`
	ReceivedCount        int     `json:"receivedCount"`
	CompletionPercentage float64 `json:"completionPercentage"`
	TotalRequests        int     `json:"totalRequests"`
	TotalDocuments       int     `json:"totalDocuments"`
}

// completion computes the required/received counts over a period's requests.
// Only required requests gate completion; an empty required set yields 0
// percent, not a division by zero.
func completion(requests []model.PeriodRequest) (required, received int, pct float64) {
	for _, r := range requests {
		if !r.Required {
			continue
		}
		required++
		if r.Status == model.RequestReceived || r.Status == model.RequestApproved {
			received++
		}
	}
	if required == 0 {
		return 0, 0, 0
	}
	return required, received, float64(received) / float64(required) * 100
}
