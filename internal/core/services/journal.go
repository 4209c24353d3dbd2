package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/axrepo/internal/core/domain"
	"github.com/custodia-labs/axrepo/internal/core/ports/driven"
	"github.com/custodia-labs/axrepo/internal/core/ports/driving"
	"github.com/custodia-labs/axrepo/internal/logger"
)

// Ensure JournalService implements the interface.
var _ driving.JournalService = (*JournalService)(nil)

// Recorder writes saga steps to an optional journal.
// A Recorder over a nil journal records nothing.
type Recorder struct {
	journal driven.Journal
	now     func() time.Time
}

// NewRecorder creates a recorder. journal may be nil.
func NewRecorder(journal driven.Journal) *Recorder {
	return &Recorder{journal: journal, now: time.Now}
}

// Begin starts recording a new operation.
func (r *Recorder) Begin(name string, docNumber int) *Operation {
	return &Operation{
		recorder:  r,
		id:        uuid.NewString(),
		name:      name,
		docNumber: docNumber,
	}
}

// Operation groups the journal entries of one orchestrator call.
type Operation struct {
	recorder  *Recorder
	id        string
	name      string
	docNumber int
}

// ID returns the operation's correlation id.
func (o *Operation) ID() string {
	return o.id
}

// SetDocNumber attaches the document number once it is known.
func (o *Operation) SetDocNumber(n int) {
	o.docNumber = n
}

// Record writes the outcome of a step. Journal failures are logged only.
func (o *Operation) Record(ctx context.Context, step string, stepErr error) {
	if o.recorder.journal == nil {
		return
	}

	entry := domain.JournalEntry{
		ID:          uuid.NewString(),
		OperationID: o.id,
		Operation:   o.name,
		DocNumber:   o.docNumber,
		Step:        step,
		Status:      domain.StepOK,
		At:          o.recorder.now().UTC(),
	}
	if stepErr != nil {
		entry.Status = domain.StepFailed
		entry.Error = stepErr.Error()
	}

	if err := o.recorder.journal.Record(ctx, entry); err != nil {
		logger.Warn("failed to journal %s/%s for %d: %v", o.name, step, o.docNumber, err)
	}
}

// JournalService reads the operation journal.
type JournalService struct {
	journal driven.Journal
}

// NewJournalService creates a journal service. journal may be nil.
func NewJournalService(journal driven.Journal) *JournalService {
	return &JournalService{journal: journal}
}

// Enabled reports whether a journal is configured.
func (s *JournalService) Enabled() bool {
	return s.journal != nil
}

// Recent returns the latest entries, newest first.
func (s *JournalService) Recent(ctx context.Context, limit int) ([]domain.JournalEntry, error) {
	if s.journal == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 50
	}
	return s.journal.List(ctx, limit)
}

// Dangling returns documents left checked out by a failed update.
func (s *JournalService) Dangling(ctx context.Context) ([]domain.JournalEntry, error) {
	if s.journal == nil {
		return nil, nil
	}
	return s.journal.Dangling(ctx)
}
