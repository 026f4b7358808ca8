package service

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"doccollect/internal/model"
	repoMocks "doccollect/internal/repository/mocks"
	storageMocks "doccollect/internal/storage/mocks"
)

type documentFixture struct {
	store     *storageMocks.MockStorage
	documents *repoMocks.MockDocumentRepository
	requests  *repoMocks.MockRequestRepository
	periods   *repoMocks.MockPeriodRepository
	clients   *repoMocks.MockClientRepository
	svc       *documentService
	now       time.Time
}

func newDocumentFixture(t *testing.T) *documentFixture {
	t.Helper()
	f := &documentFixture{
		store:     new(storageMocks.MockStorage),
		documents: new(repoMocks.MockDocumentRepository),
		requests:  new(repoMocks.MockRequestRepository),
		periods:   new(repoMocks.MockPeriodRepository),
		clients:   new(repoMocks.MockClientRepository),
		now:       time.Date(2025, 4, 15, 12, 0, 0, 0, time.UTC),
	}
	svc := NewDocumentService(f.store, f.documents, f.requests, f.periods, f.clients, NewPeriodLocker(), DocumentServiceConfig{
		ProcessingDelay: 2500 * time.Millisecond,
		StuckAfter:      30 * time.Minute,
		PresignExpiry:   15 * time.Minute,
		MaxFileSize:     2_000_000_000,
	}).(*documentService)
	svc.now = func() time.Time { return f.now }
	f.svc = svc
	return f
}

func (f *documentFixture) assertExpectations(t *testing.T) {
	t.Helper()
	f.store.AssertExpectations(t)
	f.documents.AssertExpectations(t)
	f.requests.AssertExpectations(t)
	f.periods.AssertExpectations(t)
	f.clients.AssertExpectations(t)
}

func (f *documentFixture) openPeriod(ctx context.Context, id string) *model.Period {
	p := &model.Period{ID: id, ClientID: "c1", Year: 2025, Month: 4, Status: model.PeriodOpen}
	f.periods.On("FindByID", ctx, id).Return(p, nil)
	return p
}

func TestPresignUpload(t *testing.T) {
	ctx := context.Background()

	t.Run("issues a keyed presigned put", func(t *testing.T) {
		f := newDocumentFixture(t)
		f.openPeriod(ctx, "p1")
		f.clients.On("FindByID", ctx, "c1").Return(&model.Client{ID: "c1", FirmID: "f1"}, nil).Once()
		f.store.On("PresignPut", ctx, mock.MatchedBy(func(key string) bool {
			return strings.HasPrefix(key, "f1/client/c1/period/2025-04/originals/") &&
				strings.HasSuffix(key, "__invoice.pdf")
		}), 15*time.Minute).Return("https://storage/put", nil).Once()

		res, err := f.svc.PresignUpload(ctx, PresignUploadInput{
			PeriodID: "p1",
			Filename: "invoice.pdf",
			ByteSize: 1024,
		})
		require.NoError(t, err)
		assert.Equal(t, "https://storage/put", res.URL)
		assert.Equal(t, f.now.Add(15*time.Minute), res.ExpiresAt)
		f.assertExpectations(t)
	})

	t.Run("rejects oversize files", func(t *testing.T) {
		f := newDocumentFixture(t)
		_, err := f.svc.PresignUpload(ctx, PresignUploadInput{
			PeriodID: "p1",
			Filename: "backup.tar",
			ByteSize: 3_000_000_000,
		})
		assert.ErrorIs(t, err, ErrFileTooLarge)
	})

	t.Run("locked period", func(t *testing.T) {
		f := newDocumentFixture(t)
		f.periods.On("FindByID", ctx, "p1").Return(&model.Period{ID: "p1", Status: model.PeriodLocked}, nil).Once()

		_, err := f.svc.PresignUpload(ctx, PresignUploadInput{
			PeriodID: "p1",
			Filename: "late.pdf",
			ByteSize: 1,
		})
		var locked *PeriodLockedError
		assert.ErrorAs(t, err, &locked)
		f.assertExpectations(t)
	})
}

func TestConfirmUpload(t *testing.T) {
	ctx := context.Background()

	t.Run("fresh upload starts processing", func(t *testing.T) {
		f := newDocumentFixture(t)
		f.openPeriod(ctx, "p1")
		f.clients.On("FindByID", ctx, "c1").Return(&model.Client{ID: "c1", FirmID: "f1"}, nil).Once()
		f.documents.On("ListByPeriod", ctx, "p1").Return([]model.Document{}, nil).Once()
		f.documents.On("Create", ctx, mock.MatchedBy(func(d *model.Document) bool {
			return d.PipelineStatus == model.PipelineProcessing &&
				d.Progress == 100 &&
				d.ReadyAt != nil && d.ReadyAt.Equal(f.now.Add(2500*time.Millisecond)) &&
				d.VirusStatus == model.VirusPending
		})).Return(&model.Document{ID: "d1", PipelineStatus: model.PipelineProcessing}, nil).Once()

		doc, err := f.svc.ConfirmUpload(ctx, ConfirmUploadInput{
			PeriodID: "p1",
			Filename: "invoice.pdf",
			ByteSize: 1024,
			FileKey:  "f1/client/c1/period/2025-04/originals/x__invoice.pdf",
		})
		require.NoError(t, err)
		assert.Equal(t, model.PipelineProcessing, doc.PipelineStatus)
		f.assertExpectations(t)
	})

	t.Run("same filename and size is a duplicate", func(t *testing.T) {
		f := newDocumentFixture(t)
		f.openPeriod(ctx, "p1")
		f.clients.On("FindByID", ctx, "c1").Return(&model.Client{ID: "c1", FirmID: "f1"}, nil).Once()
		f.documents.On("ListByPeriod", ctx, "p1").Return([]model.Document{
			{ID: "orig", Filename: "invoice.pdf", ByteSize: 1024, PipelineStatus: model.PipelineClean},
		}, nil).Once()
		f.documents.On("Create", ctx, mock.MatchedBy(func(d *model.Document) bool {
			return d.PipelineStatus == model.PipelineDuplicate &&
				d.DuplicateOfID != nil && *d.DuplicateOfID == "orig" &&
				d.ReadyAt == nil
		})).Return(&model.Document{ID: "d2", PipelineStatus: model.PipelineDuplicate}, nil).Once()

		doc, err := f.svc.ConfirmUpload(ctx, ConfirmUploadInput{
			PeriodID: "p1",
			Filename: "invoice.pdf",
			ByteSize: 1024,
		})
		require.NoError(t, err)
		assert.Equal(t, model.PipelineDuplicate, doc.PipelineStatus)
		f.assertExpectations(t)
	})

	t.Run("request from another period is refused", func(t *testing.T) {
		f := newDocumentFixture(t)
		f.openPeriod(ctx, "p1")
		f.clients.On("FindByID", ctx, "c1").Return(&model.Client{ID: "c1", FirmID: "f1"}, nil).Once()
		reqID := "r-other"
		f.requests.On("FindByID", ctx, reqID).Return(&model.PeriodRequest{ID: reqID, PeriodID: "p2"}, nil).Once()

		_, err := f.svc.ConfirmUpload(ctx, ConfirmUploadInput{
			PeriodID:  "p1",
			Filename:  "invoice.pdf",
			ByteSize:  1024,
			RequestID: &reqID,
		})
		var crossed *CrossPeriodAssignmentError
		require.ErrorAs(t, err, &crossed)
		assert.Equal(t, "p1", crossed.DocumentPeriod)
		assert.Equal(t, "p2", crossed.RequestPeriod)
		f.assertExpectations(t)
	})

	t.Run("assigned upload recomputes its request", func(t *testing.T) {
		f := newDocumentFixture(t)
		f.openPeriod(ctx, "p1")
		f.clients.On("FindByID", ctx, "c1").Return(&model.Client{ID: "c1", FirmID: "f1"}, nil).Once()
		reqID := "r1"
		f.requests.On("FindByID", ctx, reqID).Return(&model.PeriodRequest{ID: reqID, PeriodID: "p1", Status: model.RequestPending}, nil)
		f.documents.On("ListByPeriod", ctx, "p1").Return([]model.Document{}, nil).Once()
		created := &model.Document{ID: "d1", PeriodRequestID: &reqID, PipelineStatus: model.PipelineProcessing}
		f.documents.On("Create", ctx, mock.Anything).Return(created, nil).Once()
		f.documents.On("ListByRequest", ctx, reqID).Return([]model.Document{*created}, nil).Once()
		f.requests.On("UpdateStatus", ctx, reqID, model.RequestReceived).Return(nil).Once()

		_, err := f.svc.ConfirmUpload(ctx, ConfirmUploadInput{
			PeriodID:  "p1",
			Filename:  "invoice.pdf",
			ByteSize:  1024,
			RequestID: &reqID,
		})
		require.NoError(t, err)
		f.assertExpectations(t)
	})

	t.Run("locked period", func(t *testing.T) {
		f := newDocumentFixture(t)
		f.periods.On("FindByID", ctx, "p1").Return(&model.Period{ID: "p1", Status: model.PeriodLocked}, nil).Once()

		_, err := f.svc.ConfirmUpload(ctx, ConfirmUploadInput{
			PeriodID: "p1",
			Filename: "late.pdf",
			ByteSize: 1,
		})
		var locked *PeriodLockedError
		assert.ErrorAs(t, err, &locked)
		f.assertExpectations(t)
	})
}

func TestReportScanResult(t *testing.T) {
	ctx := context.Background()

	t.Run("clean verdict after the delay advances to clean", func(t *testing.T) {
		f := newDocumentFixture(t)
		readyAt := time.Date(2025, 4, 15, 11, 0, 0, 0, time.UTC)
		reqID := "r1"
		doc := &model.Document{
			ID:              "d1",
			PeriodID:        "p1",
			PeriodRequestID: &reqID,
			PipelineStatus:  model.PipelineProcessing,
			VirusStatus:     model.VirusPending,
			ReadyAt:         &readyAt,
		}
		f.documents.On("FindByID", ctx, "d1").Return(doc, nil).Once()
		f.openPeriod(ctx, "p1")
		f.documents.On("UpdatePipeline", ctx, mock.MatchedBy(func(d *model.Document) bool {
			return d.PipelineStatus == model.PipelineClean && d.VirusStatus == model.VirusClean
		})).Return(nil).Once()
		f.requests.On("FindByID", ctx, reqID).Return(&model.PeriodRequest{ID: reqID, Status: model.RequestReceived}, nil).Once()
		f.documents.On("ListByRequest", ctx, reqID).Return([]model.Document{*doc}, nil).Once()

		require.NoError(t, f.svc.ReportScanResult(ctx, "d1", model.VirusClean))
		f.assertExpectations(t)
	})

	t.Run("clean verdict before the delay stays processing", func(t *testing.T) {
		f := newDocumentFixture(t)
		readyAt := f.now.Add(2 * time.Second)
		doc := &model.Document{
			ID:             "d1",
			PeriodID:       "p1",
			PipelineStatus: model.PipelineProcessing,
			VirusStatus:    model.VirusPending,
			ReadyAt:        &readyAt,
		}
		f.documents.On("FindByID", ctx, "d1").Return(doc, nil).Once()
		f.openPeriod(ctx, "p1")
		f.documents.On("UpdatePipeline", ctx, mock.MatchedBy(func(d *model.Document) bool {
			return d.PipelineStatus == model.PipelineProcessing && d.VirusStatus == model.VirusClean
		})).Return(nil).Once()

		require.NoError(t, f.svc.ReportScanResult(ctx, "d1", model.VirusClean))
		f.assertExpectations(t)
	})

	t.Run("quarantine verdict quarantines and recomputes", func(t *testing.T) {
		f := newDocumentFixture(t)
		reqID := "r1"
		doc := &model.Document{
			ID:              "d1",
			PeriodID:        "p1",
			PeriodRequestID: &reqID,
			PipelineStatus:  model.PipelineProcessing,
			VirusStatus:     model.VirusPending,
		}
		f.documents.On("FindByID", ctx, "d1").Return(doc, nil).Once()
		f.openPeriod(ctx, "p1")
		f.documents.On("UpdatePipeline", ctx, mock.MatchedBy(func(d *model.Document) bool {
			return d.PipelineStatus == model.PipelineQuarantined
		})).Return(nil).Once()
		f.requests.On("FindByID", ctx, reqID).Return(&model.PeriodRequest{ID: reqID, Status: model.RequestReceived}, nil).Once()
		f.documents.On("ListByRequest", ctx, reqID).Return([]model.Document{
			{ID: "d1", PeriodRequestID: &reqID, PipelineStatus: model.PipelineQuarantined},
		}, nil).Once()
		f.requests.On("UpdateStatus", ctx, reqID, model.RequestPending).Return(nil).Once()

		require.NoError(t, f.svc.ReportScanResult(ctx, "d1", model.VirusQuarantined))
		f.assertExpectations(t)
	})

	t.Run("unknown verdict is rejected", func(t *testing.T) {
		f := newDocumentFixture(t)
		assert.Error(t, f.svc.ReportScanResult(ctx, "d1", model.VirusStatus("maybe")))
	})

	t.Run("locked period", func(t *testing.T) {
		f := newDocumentFixture(t)
		f.documents.On("FindByID", ctx, "d1").Return(&model.Document{ID: "d1", PeriodID: "p1"}, nil).Once()
		f.periods.On("FindByID", ctx, "p1").Return(&model.Period{ID: "p1", Status: model.PeriodLocked}, nil).Once()

		var locked *PeriodLockedError
		assert.ErrorAs(t, f.svc.ReportScanResult(ctx, "d1", model.VirusClean), &locked)
		f.assertExpectations(t)
	})

	t.Run("late verdict on a settled document is ignored", func(t *testing.T) {
		f := newDocumentFixture(t)
		reqID := "r1"
		doc := &model.Document{
			ID:              "d1",
			PeriodID:        "p1",
			PeriodRequestID: &reqID,
			PipelineStatus:  model.PipelineClean,
			VirusStatus:     model.VirusClean,
			ApprovalStatus:  model.ApprovalApproved,
		}
		f.documents.On("FindByID", ctx, "d1").Return(doc, nil).Once()
		f.openPeriod(ctx, "p1")

		// No UpdatePipeline, no recompute: a re-delivered quarantine verdict
		// must not yank an already-clean document out of its request.
		require.NoError(t, f.svc.ReportScanResult(ctx, "d1", model.VirusQuarantined))
		assert.Equal(t, model.PipelineClean, doc.PipelineStatus)
		assert.Equal(t, model.VirusClean, doc.VirusStatus)
		f.assertExpectations(t)
	})

	t.Run("duplicate stays duplicate on any verdict", func(t *testing.T) {
		f := newDocumentFixture(t)
		doc := &model.Document{ID: "d1", PeriodID: "p1", PipelineStatus: model.PipelineDuplicate}
		f.documents.On("FindByID", ctx, "d1").Return(doc, nil).Once()
		f.openPeriod(ctx, "p1")

		require.NoError(t, f.svc.ReportScanResult(ctx, "d1", model.VirusClean))
		assert.Equal(t, model.PipelineDuplicate, doc.PipelineStatus)
		f.assertExpectations(t)
	})
}

func TestApprovalGate(t *testing.T) {
	ctx := context.Background()

	notReady := []model.PipelineStatus{
		model.PipelineProcessing,
		model.PipelineDuplicate,
		model.PipelineQuarantined,
		model.PipelineFailed,
	}
	for _, status := range notReady {
		t.Run("approve refused at "+string(status), func(t *testing.T) {
			f := newDocumentFixture(t)
			doc := &model.Document{ID: "d1", PeriodID: "p1", PipelineStatus: status}
			f.documents.On("FindByID", ctx, "d1").Return(doc, nil).Once()
			f.openPeriod(ctx, "p1")

			err := f.svc.Approve(ctx, "d1", "")
			var gate *DocumentNotReadyError
			require.ErrorAs(t, err, &gate)
			assert.Equal(t, status, gate.Status)
			f.assertExpectations(t)
		})
	}

	t.Run("approve succeeds on clean", func(t *testing.T) {
		f := newDocumentFixture(t)
		reqID := "r1"
		doc := &model.Document{ID: "d1", PeriodID: "p1", PeriodRequestID: &reqID, PipelineStatus: model.PipelineClean}
		f.documents.On("FindByID", ctx, "d1").Return(doc, nil).Once()
		f.openPeriod(ctx, "p1")
		f.documents.On("UpdateApproval", ctx, "d1", model.ApprovalApproved, "looks right").Return(nil).Once()
		f.requests.On("FindByID", ctx, reqID).Return(&model.PeriodRequest{ID: reqID, Status: model.RequestReceived}, nil).Once()
		f.documents.On("ListByRequest", ctx, reqID).Return([]model.Document{
			{ID: "d1", PeriodRequestID: &reqID, PipelineStatus: model.PipelineClean, ApprovalStatus: model.ApprovalApproved},
		}, nil).Once()
		f.requests.On("UpdateStatus", ctx, reqID, model.RequestApproved).Return(nil).Once()

		require.NoError(t, f.svc.Approve(ctx, "d1", "looks right"))
		f.assertExpectations(t)
	})

	t.Run("processing doc with clean verdict is refreshed before the gate", func(t *testing.T) {
		f := newDocumentFixture(t)
		readyAt := time.Date(2025, 4, 15, 11, 0, 0, 0, time.UTC)
		doc := &model.Document{
			ID:             "d1",
			PeriodID:       "p1",
			PipelineStatus: model.PipelineProcessing,
			VirusStatus:    model.VirusClean,
			ReadyAt:        &readyAt,
		}
		f.documents.On("FindByID", ctx, "d1").Return(doc, nil).Once()
		f.openPeriod(ctx, "p1")
		f.documents.On("UpdatePipeline", ctx, mock.MatchedBy(func(d *model.Document) bool {
			return d.PipelineStatus == model.PipelineClean
		})).Return(nil).Once()
		f.documents.On("UpdateApproval", ctx, "d1", model.ApprovalApproved, "").Return(nil).Once()

		require.NoError(t, f.svc.Approve(ctx, "d1", ""))
		f.assertExpectations(t)
	})

	t.Run("reject requires a reason", func(t *testing.T) {
		f := newDocumentFixture(t)
		assert.ErrorIs(t, f.svc.Reject(ctx, "d1", ""), ErrReasonRequired)
	})

	t.Run("flag requires a note", func(t *testing.T) {
		f := newDocumentFixture(t)
		assert.ErrorIs(t, f.svc.Flag(ctx, "d1", ""), ErrReasonRequired)
	})

	t.Run("reject records the reason", func(t *testing.T) {
		f := newDocumentFixture(t)
		doc := &model.Document{ID: "d1", PeriodID: "p1", PipelineStatus: model.PipelineClean}
		f.documents.On("FindByID", ctx, "d1").Return(doc, nil).Once()
		f.openPeriod(ctx, "p1")
		f.documents.On("UpdateApproval", ctx, "d1", model.ApprovalRejected, "illegible scan").Return(nil).Once()

		require.NoError(t, f.svc.Reject(ctx, "d1", "illegible scan"))
		f.assertExpectations(t)
	})

	t.Run("locked period blocks decisions", func(t *testing.T) {
		f := newDocumentFixture(t)
		doc := &model.Document{ID: "d1", PeriodID: "p1", PipelineStatus: model.PipelineClean}
		f.documents.On("FindByID", ctx, "d1").Return(doc, nil).Once()
		f.periods.On("FindByID", ctx, "p1").Return(&model.Period{ID: "p1", Status: model.PeriodLocked}, nil).Once()

		var locked *PeriodLockedError
		assert.ErrorAs(t, f.svc.Approve(ctx, "d1", ""), &locked)
		f.assertExpectations(t)
	})
}

func TestAssign(t *testing.T) {
	ctx := context.Background()

	t.Run("assignment recomputes both old and new request", func(t *testing.T) {
		f := newDocumentFixture(t)
		oldReq, newReq := "r-old", "r-new"
		doc := &model.Document{ID: "d1", PeriodID: "p1", PeriodRequestID: &oldReq, PipelineStatus: model.PipelineClean}
		f.documents.On("FindByID", ctx, "d1").Return(doc, nil).Once()
		f.openPeriod(ctx, "p1")
		f.requests.On("FindByID", ctx, newReq).Return(&model.PeriodRequest{ID: newReq, PeriodID: "p1", Status: model.RequestPending}, nil)
		f.documents.On("UpdateAssignment", ctx, "d1", &newReq).Return(nil).Once()
		// old side loses its only document
		f.requests.On("FindByID", ctx, oldReq).Return(&model.PeriodRequest{ID: oldReq, Status: model.RequestReceived}, nil).Once()
		f.documents.On("ListByRequest", ctx, oldReq).Return([]model.Document{}, nil).Once()
		f.requests.On("UpdateStatus", ctx, oldReq, model.RequestPending).Return(nil).Once()
		// new side gains it
		f.documents.On("ListByRequest", ctx, newReq).Return([]model.Document{
			{ID: "d1", PeriodRequestID: &newReq, PipelineStatus: model.PipelineClean},
		}, nil).Once()
		f.requests.On("UpdateStatus", ctx, newReq, model.RequestReceived).Return(nil).Once()

		require.NoError(t, f.svc.Assign(ctx, "d1", &newReq))
		f.assertExpectations(t)
	})

	t.Run("clearing an assignment recomputes the old request only", func(t *testing.T) {
		f := newDocumentFixture(t)
		oldReq := "r-old"
		doc := &model.Document{ID: "d1", PeriodID: "p1", PeriodRequestID: &oldReq, PipelineStatus: model.PipelineClean}
		f.documents.On("FindByID", ctx, "d1").Return(doc, nil).Once()
		f.openPeriod(ctx, "p1")
		f.documents.On("UpdateAssignment", ctx, "d1", (*string)(nil)).Return(nil).Once()
		f.requests.On("FindByID", ctx, oldReq).Return(&model.PeriodRequest{ID: oldReq, Status: model.RequestReceived}, nil).Once()
		f.documents.On("ListByRequest", ctx, oldReq).Return([]model.Document{}, nil).Once()
		f.requests.On("UpdateStatus", ctx, oldReq, model.RequestPending).Return(nil).Once()

		require.NoError(t, f.svc.Assign(ctx, "d1", nil))
		f.assertExpectations(t)
	})

	t.Run("cross-period assignment is refused", func(t *testing.T) {
		f := newDocumentFixture(t)
		reqID := "r-other"
		doc := &model.Document{ID: "d1", PeriodID: "p1", PipelineStatus: model.PipelineClean}
		f.documents.On("FindByID", ctx, "d1").Return(doc, nil).Once()
		f.openPeriod(ctx, "p1")
		f.requests.On("FindByID", ctx, reqID).Return(&model.PeriodRequest{ID: reqID, PeriodID: "p2"}, nil).Once()

		var crossed *CrossPeriodAssignmentError
		assert.ErrorAs(t, f.svc.Assign(ctx, "d1", &reqID), &crossed)
		f.assertExpectations(t)
	})

	t.Run("locked period blocks assignment", func(t *testing.T) {
		f := newDocumentFixture(t)
		reqID := "r1"
		doc := &model.Document{ID: "d1", PeriodID: "p1", PipelineStatus: model.PipelineClean}
		f.documents.On("FindByID", ctx, "d1").Return(doc, nil).Once()
		f.periods.On("FindByID", ctx, "p1").Return(&model.Period{ID: "p1", Status: model.PeriodLocked}, nil).Once()

		var locked *PeriodLockedError
		assert.ErrorAs(t, f.svc.Assign(ctx, "d1", &reqID), &locked)
		f.assertExpectations(t)
	})

	t.Run("lock committed while parked on the period mutex", func(t *testing.T) {
		f := newDocumentFixture(t)
		doc := &model.Document{ID: "d1", PeriodID: "p1", PipelineStatus: model.PipelineClean}
		p := &model.Period{ID: "p1", ClientID: "c1", Status: model.PeriodOpen}

		entered := make(chan struct{})
		f.documents.On("FindByID", ctx, "d1").Run(func(mock.Arguments) { close(entered) }).Return(doc, nil).Once()
		f.periods.On("FindByID", ctx, "p1").Return(p, nil).Once()

		// Hold the period mutex, let Assign read the document and park on it,
		// then commit the lock before releasing. The status check happens
		// under the mutex, so the parked writer must observe it.
		release := f.svc.locker.Lock("p1")
		done := make(chan error, 1)
		go func() { done <- f.svc.Assign(ctx, "d1", nil) }()
		<-entered
		p.Status = model.PeriodLocked
		release()

		var locked *PeriodLockedError
		require.ErrorAs(t, <-done, &locked)
		f.documents.AssertNotCalled(t, "UpdateAssignment", mock.Anything, mock.Anything, mock.Anything)
		f.assertExpectations(t)
	})
}

func TestBulkApprove(t *testing.T) {
	ctx := context.Background()
	f := newDocumentFixture(t)

	clean := &model.Document{ID: "d1", PeriodID: "p1", PipelineStatus: model.PipelineClean}
	pending := &model.Document{ID: "d2", PeriodID: "p1", PipelineStatus: model.PipelineProcessing}
	f.documents.On("FindByID", ctx, "d1").Return(clean, nil).Once()
	f.documents.On("FindByID", ctx, "d2").Return(pending, nil).Once()
	f.openPeriod(ctx, "p1")
	f.documents.On("UpdateApproval", ctx, "d1", model.ApprovalApproved, "").Return(nil).Once()

	results := f.svc.BulkApprove(ctx, []string{"d1", "d2"}, "")
	require.Len(t, results, 2)
	assert.True(t, results[0].OK)
	assert.False(t, results[1].OK)
	assert.Contains(t, results[1].Error, "not ready for review")
	f.assertExpectations(t)
}

func TestListByPeriodRefreshes(t *testing.T) {
	ctx := context.Background()
	f := newDocumentFixture(t)

	readyAt := time.Date(2025, 4, 15, 11, 0, 0, 0, time.UTC)
	f.openPeriod(ctx, "p1")
	f.documents.On("ListByPeriod", ctx, "p1").Return([]model.Document{
		{ID: "d1", PeriodID: "p1", PipelineStatus: model.PipelineProcessing, VirusStatus: model.VirusClean, ReadyAt: &readyAt},
	}, nil).Once()
	f.documents.On("UpdatePipeline", ctx, mock.MatchedBy(func(d *model.Document) bool {
		return d.ID == "d1" && d.PipelineStatus == model.PipelineClean
	})).Return(nil).Once()
	f.requests.On("ListByPeriod", ctx, "p1").Return([]model.PeriodRequest{}, nil).Once()

	docs, err := f.svc.ListByPeriod(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, model.PipelineClean, docs[0].PipelineStatus)
	f.assertExpectations(t)
}

func TestViewURL(t *testing.T) {
	ctx := context.Background()
	f := newDocumentFixture(t)

	f.documents.On("FindByID", ctx, "d1").Return(&model.Document{ID: "d1", FileKey: "f1/key"}, nil).Once()
	f.store.On("PresignGet", ctx, "f1/key", 15*time.Minute).Return("https://storage/get", nil).Once()

	url, err := f.svc.ViewURL(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, "https://storage/get", url)
	f.assertExpectations(t)
}

func TestListStuck(t *testing.T) {
	ctx := context.Background()
	f := newDocumentFixture(t)

	cutoff := f.now.Add(-30 * time.Minute)
	f.documents.On("ListStuck", ctx, cutoff).Return([]model.Document{
		{ID: "d1", PipelineStatus: model.PipelineProcessing},
	}, nil).Once()

	docs, err := f.svc.ListStuck(ctx)
	require.NoError(t, err)
	assert.Len(t, docs, 1)
	f.assertExpectations(t)
}

func TestGetDocumentNotFound(t *testing.T) {
	ctx := context.Background()
	f := newDocumentFixture(t)

	f.documents.On("FindByID", ctx, "missing").Return(nil, sql.ErrNoRows).Once()

	_, err := f.svc.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	f.assertExpectations(t)
}
