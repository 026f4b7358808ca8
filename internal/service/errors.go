package service

import (
	"errors"
	"fmt"

	"doccollect/internal/model"
)

var (
	ErrIDRequired     = errors.New("id is required")
	ErrNotFound       = errors.New("not found")
	ErrTitleRequired  = errors.New("title is required")
	ErrReasonRequired = errors.New("a reason is required for this decision")
)

// InvalidPeriodTransitionError reports a period state change that is not
// allowed from the current state. Callers must not retry blindly.
type InvalidPeriodTransitionError struct {
	PeriodID string
	From     model.PeriodStatus
	To       model.PeriodStatus
}

func (e *InvalidPeriodTransitionError) Error() string {
	return fmt.Sprintf("period %s: invalid transition %s -> %s", e.PeriodID, e.From, e.To)
}

// PeriodLockedError reports a mutation attempted against a locked period.
// There is no unlock; callers must not retry.
type PeriodLockedError struct {
	PeriodID  string
	Operation string
}

func (e *PeriodLockedError) Error() string {
	return fmt.Sprintf("period %s is locked: %s rejected", e.PeriodID, e.Operation)
}

// CrossPeriodAssignmentError reports an assignment whose target request
// belongs to a different period than the document. This is a data-integrity
// fault, never silently corrected.
type CrossPeriodAssignmentError struct {
	DocumentID     string
	RequestID      string
	DocumentPeriod string
	RequestPeriod  string
}

func (e *CrossPeriodAssignmentError) Error() string {
	return fmt.Sprintf("document %s (period %s) cannot be assigned to request %s (period %s)",
		e.DocumentID, e.DocumentPeriod, e.RequestID, e.RequestPeriod)
}

// DocumentNotReadyError reports an approval decision attempted before the
// document's pipeline reached clean.
type DocumentNotReadyError struct {
	DocumentID string
	Status     model.PipelineStatus
}

func (e *DocumentNotReadyError) Error() string {
	return fmt.Sprintf("document %s is not ready for review: pipeline status is %s", e.DocumentID, e.Status)
}
