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
)

// PeriodSummary is one dashboard row: a period plus its aggregated
// checklist counts.
type PeriodSummary struct {
	ID         string             `json:"id"`
	ClientID   string             `json:"clientId"`
	ClientName string             `json:"clientName"`
	Year       int                `json:"year"`
	Month      int                `json:"month"`
	Status     model.PeriodStatus `json:"status"`
	Required   int                `json:"required"`
	Received   int                `json:"received"`
	Docs       int                `json:"docs"`
	DueDate    *time.Time         `json:"dueDate,omitempty"`
}

// CloseResult carries the closed period and its incompleteness warnings.
// Close reports incompleteness, it never blocks on it; Forced echoes whether
// the caller closed in spite of an earlier warning list.
type CloseResult struct {
	Period   *model.Period `json:"period"`
	Warnings []string      `json:"warnings"`
	Forced   bool          `json:"forced"`
}

// UploadLimits are the portal's client-facing upload constraints.
type UploadLimits struct {
	MaxFileSize  int64    `json:"maxFileSize"`
	AllowedTypes []string `json:"allowedTypes"`
}

// PortalBootstrap is everything the magic-link portal needs in one payload.
type PortalBootstrap struct {
	Client    *model.Client         `json:"client"`
	Period    *model.Period         `json:"period"`
	Requests  []model.PeriodRequest `json:"requests"`
	Documents []model.Document      `json:"documents"`
	Link      struct {
		ExpiresAt time.Time `json:"expiresAt"`
	} `json:"link"`
	Limits UploadLimits `json:"limits"`
}

// PeriodService is the period lifecycle controller plus checklist maintenance.
type PeriodService interface {
	// CreatePeriod opens a new monthly cycle for a client. Creating the same
	// (client, year, month) twice returns the existing period.
	CreatePeriod(ctx context.Context, clientID string, year, month int, dueDate *time.Time) (*model.Period, error)

	// BulkCreatePeriods opens the same cycle for many clients at once.
	BulkCreatePeriods(ctx context.Context, clientIDs []string, year, month int, dueDate *time.Time) ([]model.Period, error)

	// CreateRequest adds a checklist item to a period and emits a
	// documents-requested event.
	CreateRequest(ctx context.Context, periodID, title, category string, required bool) (*model.PeriodRequest, error)

	// MarkInReview signals that review has begun. Only valid from open, and
	// intentionally ungated by completion.
	MarkInReview(ctx context.Context, periodID string) error

	// Close moves an open or in_review period to closed. It always reports
	// incompleteness warnings; force is recorded but does not gate — the
	// confirmation loop is the caller's.
	Close(ctx context.Context, periodID string, force bool) (*CloseResult, error)

	// Reopen returns a closed period to open.
	Reopen(ctx context.Context, periodID string) error

	// Lock makes a closed period and everything under it immutable. One-way.
	Lock(ctx context.Context, periodID string) error

	// Completion returns the aggregated checklist metrics for a period.
	Completion(ctx context.Context, periodID string) (*CompletionResult, error)

	Get(ctx context.Context, periodID string) (*model.Period, error)

	// ListSummaries returns dashboard rows for all periods, newest first.
	ListSummaries(ctx context.Context) ([]PeriodSummary, error)

	// ListByClient returns dashboard rows for one client's periods.
	ListByClient(ctx context.Context, clientID string) ([]PeriodSummary, error)

	// Bootstrap assembles the magic-link portal payload for a period.
	Bootstrap(ctx context.Context, periodID string) (*PortalBootstrap, error)
}

type periodService struct {
	periods   repository.PeriodRepository
	clients   repository.ClientRepository
	notifier  Notifier
	locker    *PeriodLocker
	checklist checklist

	linkExpiry time.Duration
	limits     UploadLimits
	now        func() time.Time
}

// PeriodServiceConfig carries portal-facing settings.
type PeriodServiceConfig struct {
	LinkExpiry   time.Duration
	MaxFileSize  int64
	AllowedTypes []string
}

// NewPeriodService constructs a PeriodService.
func NewPeriodService(
	periods repository.PeriodRepository,
	requests repository.RequestRepository,
	documents repository.DocumentRepository,
	clients repository.ClientRepository,
	notifier Notifier,
	locker *PeriodLocker,
	cfg PeriodServiceConfig,
) PeriodService {
	return &periodService{
		periods:    periods,
		clients:    clients,
		notifier:   notifier,
		locker:     locker,
		checklist:  checklist{requests: requests, documents: documents},
		linkExpiry: cfg.LinkExpiry,
		limits:     UploadLimits{MaxFileSize: cfg.MaxFileSize, AllowedTypes: cfg.AllowedTypes},
		now:        time.Now,
	}
}

// validateTransition is the one place period transitions are allowed or
// refused. open -> in_review | closed; in_review -> closed; closed -> open
// (reopen) | locked. locked is terminal.
func validateTransition(p *model.Period, target model.PeriodStatus) error {
	allowed := false
	switch p.Status {
	case model.PeriodOpen:
		allowed = target == model.PeriodInReview || target == model.PeriodClosed
	case model.PeriodInReview:
		allowed = target == model.PeriodClosed
	case model.PeriodClosed:
		allowed = target == model.PeriodOpen || target == model.PeriodLocked
	case model.PeriodLocked:
		allowed = false
	}
	if !allowed {
		return &InvalidPeriodTransitionError{PeriodID: p.ID, From: p.Status, To: target}
	}
	return nil
}

func (s *periodService) CreatePeriod(ctx context.Context, clientID string, year, month int, dueDate *time.Time) (*model.Period, error) {
	if clientID == "" {
		return nil, ErrIDRequired
	}
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("month %d is out of range", month)
	}
	if _, err := s.clients.FindByID(ctx, clientID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	existing, err := s.periods.FindByClientYearMonth(ctx, clientID, year, month)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	p := &model.Period{
		ID:        uuid.New().String(),
		ClientID:  clientID,
		Year:      year,
		Month:     month,
		Status:    model.PeriodOpen,
		DueDate:   dueDate,
		CreatedAt: s.now().UTC(),
	}
	return s.periods.Create(ctx, p)
}

func (s *periodService) BulkCreatePeriods(ctx context.Context, clientIDs []string, year, month int, dueDate *time.Time) ([]model.Period, error) {
	out := make([]model.Period, 0, len(clientIDs))
	for _, clientID := range clientIDs {
		p, err := s.CreatePeriod(ctx, clientID, year, month, dueDate)
		if err != nil {
			return nil, fmt.Errorf("create period for client %s: %w", clientID, err)
		}
		out = append(out, *p)
	}
	return out, nil
}

func (s *periodService) CreateRequest(ctx context.Context, periodID, title, category string, required bool) (*model.PeriodRequest, error) {
	if periodID == "" {
		return nil, ErrIDRequired
	}
	if title == "" {
		return nil, ErrTitleRequired
	}
	// Acquire the mutex before reading the period: a lock transition commits
	// under it, and a writer parked here must not act on a pre-lock snapshot.
	unlock := s.locker.Lock(periodID)
	defer unlock()

	p, err := s.findPeriod(ctx, periodID)
	if err != nil {
		return nil, err
	}
	if p.Status == model.PeriodLocked {
		return nil, &PeriodLockedError{PeriodID: periodID, Operation: "create_request"}
	}

	existing, err := s.checklist.requests.ListByPeriod(ctx, periodID)
	if err != nil {
		return nil, err
	}
	req := &model.PeriodRequest{
		ID:        uuid.New().String(),
		PeriodID:  periodID,
		Title:     title,
		Category:  category,
		Required:  required,
		SortOrder: len(existing),
		Status:    model.RequestPending,
		CreatedAt: s.now().UTC(),
	}
	created, err := s.checklist.requests.Create(ctx, req)
	if err != nil {
		return nil, err
	}
	s.notifier.DocumentsRequested(ctx, periodID, p.ClientID, []string{title})
	return created, nil
}

func (s *periodService) MarkInReview(ctx context.Context, periodID string) error {
	return s.transition(ctx, periodID, model.PeriodInReview)
}

func (s *periodService) Close(ctx context.Context, periodID string, force bool) (*CloseResult, error) {
	unlock := s.locker.Lock(periodID)
	defer unlock()

	p, err := s.findPeriod(ctx, periodID)
	if err != nil {
		return nil, err
	}
	if err := validateTransition(p, model.PeriodClosed); err != nil {
		return nil, err
	}

	reqs, docs, err := s.checklist.refreshPeriod(ctx, periodID, s.now())
	if err != nil {
		return nil, err
	}
	warnings := closeWarnings(reqs, docs)
	if err := s.periods.UpdateStatus(ctx, periodID, model.PeriodClosed); err != nil {
		return nil, err
	}
	p.Status = model.PeriodClosed
	s.notifier.PeriodClosed(ctx, periodID, p.ClientID, warnings)
	return &CloseResult{Period: p, Warnings: warnings, Forced: force}, nil
}

func (s *periodService) Reopen(ctx context.Context, periodID string) error {
	return s.transition(ctx, periodID, model.PeriodOpen)
}

func (s *periodService) Lock(ctx context.Context, periodID string) error {
	return s.transition(ctx, periodID, model.PeriodLocked)
}

func (s *periodService) transition(ctx context.Context, periodID string, target model.PeriodStatus) error {
	if periodID == "" {
		return ErrIDRequired
	}
	unlock := s.locker.Lock(periodID)
	defer unlock()

	p, err := s.findPeriod(ctx, periodID)
	if err != nil {
		return err
	}
	if err := validateTransition(p, target); err != nil {
		return err
	}
	return s.periods.UpdateStatus(ctx, periodID, target)
}

// closeWarnings lists what is still incomplete at close time: every pending
// request by title plus counts of unassigned, flagged and not-yet-reviewed
// documents. Informational only.
func closeWarnings(reqs []model.PeriodRequest, docs []model.Document) []string {
	warnings := make([]string, 0)
	for _, r := range reqs {
		if r.Status == model.RequestPending {
			warnings = append(warnings, fmt.Sprintf("request %q has no document yet", r.Title))
		}
	}
	var unassigned, flagged, needsReview int
	for _, d := range docs {
		switch d.PipelineStatus {
		case model.PipelineDuplicate, model.PipelineQuarantined, model.PipelineFailed:
			continue
		}
		if d.PeriodRequestID == nil || *d.PeriodRequestID == "" {
			unassigned++
		}
		switch d.ApprovalStatus {
		case model.ApprovalFlagged:
			flagged++
		case model.ApprovalPending:
			if d.PipelineStatus == model.PipelineClean {
				needsReview++
			}
		}
	}
	if unassigned > 0 {
		warnings = append(warnings, fmt.Sprintf("%d documents are not assigned to a request", unassigned))
	}
	if flagged > 0 {
		warnings = append(warnings, fmt.Sprintf("%d documents are flagged", flagged))
	}
	if needsReview > 0 {
		warnings = append(warnings, fmt.Sprintf("%d documents have not been reviewed", needsReview))
	}
	return warnings
}

func (s *periodService) Completion(ctx context.Context, periodID string) (*CompletionResult, error) {
	if periodID == "" {
		return nil, ErrIDRequired
	}
	if _, err := s.findPeriod(ctx, periodID); err != nil {
		return nil, err
	}

	unlock := s.locker.Lock(periodID)
	defer unlock()

	reqs, docs, err := s.checklist.refreshPeriod(ctx, periodID, s.now())
	if err != nil {
		return nil, err
	}
	required, received, pct := completion(reqs)
	return &CompletionResult{
		PeriodID:             periodID,
		RequiredCount:        required,
		ReceivedCount:        received,
		CompletionPercentage: pct,
		TotalRequests:        len(reqs),
		TotalDocuments:       len(docs),
	}, nil
}

func (s *periodService) Get(ctx context.Context, periodID string) (*model.Period, error) {
	if periodID == "" {
		return nil, ErrIDRequired
	}
	return s.findPeriod(ctx, periodID)
}

func (s *periodService) ListSummaries(ctx context.Context) ([]PeriodSummary, error) {
	periods, err := s.periods.List(ctx)
	if err != nil {
		return nil, err
	}
	return s.summarize(ctx, periods)
}

func (s *periodService) ListByClient(ctx context.Context, clientID string) ([]PeriodSummary, error) {
	if clientID == "" {
		return nil, ErrIDRequired
	}
	periods, err := s.periods.ListByClient(ctx, clientID)
	if err != nil {
		return nil, err
	}
	return s.summarize(ctx, periods)
}

func (s *periodService) summarize(ctx context.Context, periods []model.Period) ([]PeriodSummary, error) {
	names := make(map[string]string)
	out := make([]PeriodSummary, 0, len(periods))
	for _, p := range periods {
		name, ok := names[p.ClientID]
		if !ok {
			c, err := s.clients.FindByID(ctx, p.ClientID)
			if err != nil {
				return nil, fmt.Errorf("load client %s: %w", p.ClientID, err)
			}
			name = c.Name
			names[p.ClientID] = name
		}
		reqs, err := s.checklist.requests.ListByPeriod(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		docs, err := s.checklist.documents.ListByPeriod(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		required, received, _ := completion(reqs)
		out = append(out, PeriodSummary{
			ID:         p.ID,
			ClientID:   p.ClientID,
			ClientName: name,
			Year:       p.Year,
			Month:      p.Month,
			Status:     p.Status,
			Required:   required,
			Received:   received,
			Docs:       len(docs),
			DueDate:    p.DueDate,
		})
	}
	return out, nil
}

func (s *periodService) Bootstrap(ctx context.Context, periodID string) (*PortalBootstrap, error) {
	p, err := s.Get(ctx, periodID)
	if err != nil {
		return nil, err
	}
	client, err := s.clients.FindByID(ctx, p.ClientID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	unlock := s.locker.Lock(periodID)
	defer unlock()

	reqs, docs, err := s.checklist.refreshPeriod(ctx, periodID, s.now())
	if err != nil {
		return nil, err
	}
	b := &PortalBootstrap{
		Client:    client,
		Period:    p,
		Requests:  reqs,
		Documents: docs,
		Limits:    s.limits,
	}
	b.Link.ExpiresAt = s.now().UTC().Add(s.linkExpiry)
	return b, nil
}

func (s *periodService) findPeriod(ctx context.Context, periodID string) (*model.Period, error) {
	p, err := s.periods.FindByID(ctx, periodID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}
