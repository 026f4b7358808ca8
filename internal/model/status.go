package model

// Status enums for the document-collection domain. These are the single source
// of truth; no layer recomputes request or approval state on its own.

// PeriodStatus is the lifecycle state of a monthly collection period.
type PeriodStatus string

const (
	PeriodOpen     PeriodStatus = "open"
	PeriodInReview PeriodStatus = "in_review"
	PeriodClosed   PeriodStatus = "closed"
	PeriodLocked   PeriodStatus = "locked"
)

// RequestStatus is derived from the documents assigned to a request,
// never set directly.
type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestReceived RequestStatus = "received"
	RequestApproved RequestStatus = "approved"
)

// VirusStatus is reported by the external scanning service.
type VirusStatus string

const (
	VirusPending     VirusStatus = "pending"
	VirusClean       VirusStatus = "clean"
	VirusQuarantined VirusStatus = "quarantined"
)

// OCRStatus is reported by the external extraction service.
type OCRStatus string

const (
	OCRPending OCRStatus = "pending"
	OCRDone    OCRStatus = "done"
	OCRFailed  OCRStatus = "failed"
)

// PipelineStatus tracks a document's ingestion progress. The presigning,
// uploading and verifying phases are client-reported transfer progress; the
// server materializes a document at confirm time in processing (or duplicate).
type PipelineStatus string

const (
	PipelineIdle        PipelineStatus = "idle"
	PipelinePresigning  PipelineStatus = "presigning"
	PipelineUploading   PipelineStatus = "uploading"
	PipelineVerifying   PipelineStatus = "verifying"
	PipelineProcessing  PipelineStatus = "processing"
	PipelineClean       PipelineStatus = "clean"
	PipelineQuarantined PipelineStatus = "quarantined"
	PipelineDuplicate   PipelineStatus = "duplicate"
	PipelineFailed      PipelineStatus = "failed"
)

// Terminal reports whether the pipeline can no longer advance.
func (s PipelineStatus) Terminal() bool {
	switch s {
	case PipelineClean, PipelineQuarantined, PipelineDuplicate, PipelineFailed:
		return true
	}
	return false
}

// ApprovalStatus is the accountant's review decision, independent of the
// pipeline axis. approved, rejected and flagged are mutually reachable;
// only pending is initial.
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
	ApprovalFlagged  ApprovalStatus = "flagged"
)
