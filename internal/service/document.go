package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"doccollect/internal/model"
	"doccollect/internal/repository"
	"doccollect/internal/storage"
)

var (
	ErrFilenameRequired = errors.New("filename is required")
	ErrInvalidByteSize  = errors.New("byteSize must be positive")
	ErrFileTooLarge     = errors.New("file exceeds the maximum allowed size")
)

// PresignUploadInput describes a requested direct upload.
type PresignUploadInput struct {
	PeriodID    string
	Filename    string
	ContentType string
	ByteSize    int64
}

// PresignResult is returned to the uploader: where to PUT the bytes and the
// fileKey to echo back on confirm.
type PresignResult struct {
	FileKey   string    `json:"fileKey"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// ConfirmUploadInput finalizes a transfer: the bytes are in storage (or the
// client abandoned presigning and we key the object ourselves) and a document
// record is created.
type ConfirmUploadInput struct {
	PeriodID     string
	Filename     string
	ByteSize     int64
	ContentType  string
	RelativePath string
	FileKey      string
	RequestID    *string
	UploadedBy   *string
}

// BulkDecisionResult reports one document's outcome in a bulk approval.
// There is no silent partial success: every id gets a row.
type BulkDecisionResult struct {
	DocumentID string `json:"documentId"`
	OK         bool   `json:"ok"`
	Error      string `json:"error,omitempty"`
}

// DocumentService covers the ingestion pipeline, assignment and the approval
// workflow. Every mutation runs under the owning period's mutex and validates
// the period's lock state there, together with its checklist recompute.
type DocumentService interface {
	// PresignUpload issues a presigned PUT URL for a direct upload.
	PresignUpload(ctx context.Context, in PresignUploadInput) (*PresignResult, error)

	// ConfirmUpload creates the document record after transfer. Duplicate
	// uploads (same filename and byteSize within the period) are recorded
	// with pipeline status duplicate; everything else starts processing.
	ConfirmUpload(ctx context.Context, in ConfirmUploadInput) (*model.Document, error)

	// ReportScanResult consumes the external virus-scan verdict.
	ReportScanResult(ctx context.Context, documentID string, status model.VirusStatus) error

	// ReportOCRResult consumes the external extraction outcome.
	ReportOCRResult(ctx context.Context, documentID string, status model.OCRStatus, extracted *model.DocumentExtracted) error

	// Assign binds or clears a document's request. Idempotent; recomputes
	// the old and new request statuses.
	Assign(ctx context.Context, documentID string, requestID *string) error

	// Approve, Reject and Flag record the accountant's decision. All three
	// require pipeline status clean. Reject and Flag require a note.
	Approve(ctx context.Context, documentID, note string) error
	Reject(ctx context.Context, documentID, reason string) error
	Flag(ctx context.Context, documentID, note string) error

	// BulkApprove applies Approve per document and reports each outcome.
	BulkApprove(ctx context.Context, documentIDs []string, note string) []BulkDecisionResult

	Get(ctx context.Context, id string) (*model.Document, error)

	// ListByPeriod returns a period's documents with pipeline statuses
	// refreshed and request statuses recomputed.
	ListByPeriod(ctx context.Context, periodID string) ([]model.Document, error)

	// ViewURL returns a presigned GET URL for the document's bytes.
	ViewURL(ctx context.Context, id string) (string, error)

	// ListStuck returns documents that have sat at processing longer than
	// the configured threshold. Report only; nothing is auto-advanced.
	ListStuck(ctx context.Context) ([]model.Document, error)
}

// DocumentServiceConfig carries pipeline and upload tunables.
type DocumentServiceConfig struct {
	ProcessingDelay time.Duration
	StuckAfter      time.Duration
	PresignExpiry   time.Duration
	MaxFileSize     int64
}

type documentService struct {
	store     storage.Storage
	documents repository.DocumentRepository
	periods   repository.PeriodRepository
	clients   repository.ClientRepository
	locker    *PeriodLocker
	checklist checklist
	cfg       DocumentServiceConfig
	now       func() time.Time
}

// NewDocumentService constructs a DocumentService.
func NewDocumentService(
	store storage.Storage,
	documents repository.DocumentRepository,
	requests repository.RequestRepository,
	periods repository.PeriodRepository,
	clients repository.ClientRepository,
	locker *PeriodLocker,
	cfg DocumentServiceConfig,
) DocumentService {
	return &documentService{
		store:     store,
		documents: documents,
		periods:   periods,
		clients:   clients,
		locker:    locker,
		checklist: checklist{requests: requests, documents: documents},
		cfg:       cfg,
		now:       time.Now,
	}
}

func (s *documentService) PresignUpload(ctx context.Context, in PresignUploadInput) (*PresignResult, error) {
	if in.PeriodID == "" {
		return nil, ErrIDRequired
	}
	if in.Filename == "" {
		return nil, ErrFilenameRequired
	}
	if in.ByteSize <= 0 {
		return nil, ErrInvalidByteSize
	}
	if s.cfg.MaxFileSize > 0 && in.ByteSize > s.cfg.MaxFileSize {
		return nil, ErrFileTooLarge
	}
	p, err := s.findPeriod(ctx, in.PeriodID)
	if err != nil {
		return nil, err
	}
	if p.Status == model.PeriodLocked {
		return nil, &PeriodLockedError{PeriodID: p.ID, Operation: "presign_upload"}
	}
	client, err := s.findClient(ctx, p.ClientID)
	if err != nil {
		return nil, err
	}

	key := storage.ObjectKey(client.FirmID, p.ClientID, p.Year, p.Month, in.Filename)
	url, err := s.store.PresignPut(ctx, key, s.cfg.PresignExpiry)
	if err != nil {
		return nil, fmt.Errorf("presign put: %w", err)
	}
	return &PresignResult{
		FileKey:   key,
		URL:       url,
		ExpiresAt: s.now().UTC().Add(s.cfg.PresignExpiry),
	}, nil
}

func (s *documentService) ConfirmUpload(ctx context.Context, in ConfirmUploadInput) (*model.Document, error) {
	if in.PeriodID == "" {
		return nil, ErrIDRequired
	}
	if in.Filename == "" {
		return nil, ErrFilenameRequired
	}
	if in.ByteSize <= 0 {
		return nil, ErrInvalidByteSize
	}
	p, unlock, err := s.lockPeriod(ctx, in.PeriodID, "confirm_upload")
	if err != nil {
		return nil, err
	}
	defer unlock()

	client, err := s.findClient(ctx, p.ClientID)
	if err != nil {
		return nil, err
	}

	if in.RequestID != nil && *in.RequestID != "" {
		req, err := s.checklist.requests.FindByID(ctx, *in.RequestID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, ErrNotFound
			}
			return nil, err
		}
		if req.PeriodID != p.ID {
			return nil, &CrossPeriodAssignmentError{
				RequestID:      req.ID,
				DocumentPeriod: p.ID,
				RequestPeriod:  req.PeriodID,
			}
		}
	}

	existing, err := s.documents.ListByPeriod(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	dup := findDuplicate(existing, in.Filename, in.ByteSize)

	contentType := in.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	fileKey := in.FileKey
	if fileKey == "" {
		fileKey = storage.ObjectKey(client.FirmID, p.ClientID, p.Year, p.Month, in.Filename)
	}

	now := s.now().UTC()
	doc := &model.Document{
		ID:              uuid.New().String(),
		FirmID:          client.FirmID,
		ClientID:        p.ClientID,
		PeriodID:        p.ID,
		PeriodRequestID: in.RequestID,
		FileKey:         fileKey,
		Filename:        in.Filename,
		ByteSize:        in.ByteSize,
		ContentType:     contentType,
		Version:         1,
		UploadedBy:      in.UploadedBy,
		UploadedAt:      now,
		VirusStatus:     model.VirusPending,
		OCRStatus:       model.OCRPending,
		Tags:            []string{},
		PipelineStatus:  model.PipelineProcessing,
		Progress:        100,
	}
	if in.RelativePath != "" {
		doc.Extracted = &model.DocumentExtracted{RelativePath: in.RelativePath}
	}
	if dup != nil {
		doc.PipelineStatus = model.PipelineDuplicate
		doc.DuplicateOfID = &dup.ID
	} else {
		readyAt := now.Add(s.cfg.ProcessingDelay)
		doc.ReadyAt = &readyAt
	}

	created, err := s.documents.Create(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("save document: %w", err)
	}
	if in.RequestID != nil && *in.RequestID != "" {
		if err := s.checklist.recomputeRequest(ctx, *in.RequestID); err != nil {
			return nil, err
		}
	}
	return created, nil
}

func (s *documentService) ReportScanResult(ctx context.Context, documentID string, status model.VirusStatus) error {
	if status != model.VirusClean && status != model.VirusQuarantined {
		return fmt.Errorf("unrecognized virus status %q", status)
	}
	doc, err := s.Get(ctx, documentID)
	if err != nil {
		return err
	}
	_, unlock, err := s.lockPeriod(ctx, doc.PeriodID, "report_scan_result")
	if err != nil {
		return err
	}
	defer unlock()

	// Late or re-delivered verdicts cannot move a settled document.
	if doc.PipelineStatus.Terminal() {
		return nil
	}
	doc.VirusStatus = status
	if status == model.VirusQuarantined {
		doc.PipelineStatus = model.PipelineQuarantined
	} else {
		refreshPipeline(doc, s.now())
	}
	if err := s.documents.UpdatePipeline(ctx, doc); err != nil {
		return err
	}
	// Quarantine removes the document from its request's countable set.
	if doc.PeriodRequestID != nil && *doc.PeriodRequestID != "" {
		return s.checklist.recomputeRequest(ctx, *doc.PeriodRequestID)
	}
	return nil
}

func (s *documentService) ReportOCRResult(ctx context.Context, documentID string, status model.OCRStatus, extracted *model.DocumentExtracted) error {
	if status != model.OCRDone && status != model.OCRFailed {
		return fmt.Errorf("unrecognized ocr status %q", status)
	}
	doc, err := s.Get(ctx, documentID)
	if err != nil {
		return err
	}
	_, unlock, err := s.lockPeriod(ctx, doc.PeriodID, "report_ocr_result")
	if err != nil {
		return err
	}
	defer unlock()

	doc.OCRStatus = status
	if extracted != nil {
		merged := *extracted
		if doc.Extracted != nil && merged.RelativePath == "" {
			merged.RelativePath = doc.Extracted.RelativePath
		}
		doc.Extracted = &merged
	}
	return s.documents.UpdatePipeline(ctx, doc)
}

func (s *documentService) Assign(ctx context.Context, documentID string, requestID *string) error {
	doc, err := s.Get(ctx, documentID)
	if err != nil {
		return err
	}
	_, unlock, err := s.lockPeriod(ctx, doc.PeriodID, "assign_document")
	if err != nil {
		return err
	}
	defer unlock()

	if requestID != nil && *requestID != "" {
		req, err := s.checklist.requests.FindByID(ctx, *requestID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			return err
		}
		if req.PeriodID != doc.PeriodID {
			return &CrossPeriodAssignmentError{
				DocumentID:     doc.ID,
				RequestID:      req.ID,
				DocumentPeriod: doc.PeriodID,
				RequestPeriod:  req.PeriodID,
			}
		}
	}

	previous := doc.PeriodRequestID
	if err := s.documents.UpdateAssignment(ctx, doc.ID, requestID); err != nil {
		return err
	}
	// Recompute both sides, old first. Re-assigning to the same request still
	// recomputes once.
	if previous != nil && *previous != "" {
		if err := s.checklist.recomputeRequest(ctx, *previous); err != nil {
			return err
		}
	}
	if requestID != nil && *requestID != "" && (previous == nil || *previous != *requestID) {
		if err := s.checklist.recomputeRequest(ctx, *requestID); err != nil {
			return err
		}
	}
	return nil
}

func (s *documentService) Approve(ctx context.Context, documentID, note string) error {
	return s.decide(ctx, documentID, model.ApprovalApproved, note, false)
}

func (s *documentService) Reject(ctx context.Context, documentID, reason string) error {
	return s.decide(ctx, documentID, model.ApprovalRejected, reason, true)
}

func (s *documentService) Flag(ctx context.Context, documentID, note string) error {
	return s.decide(ctx, documentID, model.ApprovalFlagged, note, true)
}

// decide records one review decision. The pipeline must have reached clean;
// a processing document whose scan verdict arrived is refreshed here rather
// than waiting for the next read.
func (s *documentService) decide(ctx context.Context, documentID string, status model.ApprovalStatus, note string, noteRequired bool) error {
	if noteRequired && note == "" {
		return ErrReasonRequired
	}
	doc, err := s.Get(ctx, documentID)
	if err != nil {
		return err
	}
	_, unlock, err := s.lockPeriod(ctx, doc.PeriodID, "review_document")
	if err != nil {
		return err
	}
	defer unlock()

	if refreshPipeline(doc, s.now()) {
		if err := s.documents.UpdatePipeline(ctx, doc); err != nil {
			return err
		}
	}
	if doc.PipelineStatus != model.PipelineClean {
		return &DocumentNotReadyError{DocumentID: doc.ID, Status: doc.PipelineStatus}
	}
	if err := s.documents.UpdateApproval(ctx, doc.ID, status, note); err != nil {
		return err
	}
	if doc.PeriodRequestID != nil && *doc.PeriodRequestID != "" {
		return s.checklist.recomputeRequest(ctx, *doc.PeriodRequestID)
	}
	return nil
}

func (s *documentService) BulkApprove(ctx context.Context, documentIDs []string, note string) []BulkDecisionResult {
	results := make([]BulkDecisionResult, 0, len(documentIDs))
	for _, id := range documentIDs {
		r := BulkDecisionResult{DocumentID: id, OK: true}
		if err := s.Approve(ctx, id, note); err != nil {
			r.OK = false
			r.Error = err.Error()
		}
		results = append(results, r)
	}
	return results
}

func (s *documentService) Get(ctx context.Context, id string) (*model.Document, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	doc, err := s.documents.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return doc, nil
}

func (s *documentService) ListByPeriod(ctx context.Context, periodID string) ([]model.Document, error) {
	if periodID == "" {
		return nil, ErrIDRequired
	}
	if _, err := s.findPeriod(ctx, periodID); err != nil {
		return nil, err
	}

	unlock := s.locker.Lock(periodID)
	defer unlock()

	_, docs, err := s.checklist.refreshPeriod(ctx, periodID, s.now())
	return docs, err
}

func (s *documentService) ViewURL(ctx context.Context, id string) (string, error) {
	doc, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	url, err := s.store.PresignGet(ctx, doc.FileKey, s.cfg.PresignExpiry)
	if err != nil {
		return "", fmt.Errorf("presign get: %w", err)
	}
	return url, nil
}

func (s *documentService) ListStuck(ctx context.Context) ([]model.Document, error) {
	cutoff := s.now().UTC().Add(-s.cfg.StuckAfter)
	return s.documents.ListStuck(ctx, cutoff)
}

func (s *documentService) findPeriod(ctx context.Context, periodID string) (*model.Period, error) {
	p, err := s.periods.FindByID(ctx, periodID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *documentService) findClient(ctx context.Context, clientID string) (*model.Client, error) {
	c, err := s.clients.FindByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

// lockPeriod acquires the period mutex, then reads the period and rejects a
// locked one. The status read has to happen after the mutex is held: lock
// transitions commit under the same mutex, so a writer parked here observes
// them instead of acting on a pre-lock snapshot.
func (s *documentService) lockPeriod(ctx context.Context, periodID, operation string) (*model.Period, func(), error) {
	unlock := s.locker.Lock(periodID)
	p, err := s.findPeriod(ctx, periodID)
	if err != nil {
		unlock()
		return nil, nil, err
	}
	if p.Status == model.PeriodLocked {
		unlock()
		return nil, nil, &PeriodLockedError{PeriodID: p.ID, Operation: operation}
	}
	return p, unlock, nil
}
