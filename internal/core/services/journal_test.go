package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/axrepo/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/axrepo/internal/core/domain"
)

// failingJournal rejects every write.
type failingJournal struct {
	*memory.Journal
}

func (failingJournal) Record(context.Context, domain.JournalEntry) error {
	return errors.New("disk full")
}

func TestRecorder_RecordsSteps(t *testing.T) {
	journal := memory.NewJournal()
	rec := NewRecorder(journal)
	rec.now = func() time.Time { return time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC) }
	ctx := context.Background()

	op := rec.Begin(domain.OpCreate, 0)
	op.Record(ctx, domain.StepStageFile, nil)
	op.SetDocNumber(12)
	op.Record(ctx, domain.StepWrite, errors.New("HTTP 500"))

	entries, err := journal.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	write, stage := entries[0], entries[1]
	assert.Equal(t, domain.StepWrite, write.Step)
	assert.Equal(t, domain.StepFailed, write.Status)
	assert.Equal(t, "HTTP 500", write.Error)
	assert.Equal(t, 12, write.DocNumber)

	assert.Equal(t, domain.StepOK, stage.Status)
	assert.Zero(t, stage.DocNumber)
	assert.Equal(t, op.ID(), stage.OperationID)
	assert.Equal(t, op.ID(), write.OperationID)
	assert.NotEqual(t, stage.ID, write.ID)
	assert.Equal(t, 2024, stage.At.Year())
}

func TestRecorder_NilJournal(t *testing.T) {
	op := NewRecorder(nil).Begin(domain.OpDelete, 3)

	assert.NotPanics(t, func() {
		op.Record(context.Background(), domain.StepWrite, nil)
	})
	assert.NotEmpty(t, op.ID())
}

func TestRecorder_JournalFailureIsIgnored(t *testing.T) {
	op := NewRecorder(failingJournal{memory.NewJournal()}).Begin(domain.OpUpdate, 3)

	assert.NotPanics(t, func() {
		op.Record(context.Background(), domain.StepCheckOut, nil)
	})
}

func TestJournalService(t *testing.T) {
	journal := memory.NewJournal()
	svc := NewJournalService(journal)
	ctx := context.Background()
	require.True(t, svc.Enabled())

	op := NewRecorder(journal).Begin(domain.OpUpdate, 8)
	op.Record(ctx, domain.StepCheckOut, nil)
	op.Record(ctx, domain.StepUpload, nil)
	op.Record(ctx, domain.StepCheckIn, errors.New("locked"))

	recent, err := svc.Recent(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, recent, 2)

	all, err := svc.Recent(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	dangling, err := svc.Dangling(ctx)
	require.NoError(t, err)
	require.Len(t, dangling, 1)
	assert.Equal(t, 8, dangling[0].DocNumber)
}

func TestJournalService_Disabled(t *testing.T) {
	svc := NewJournalService(nil)
	ctx := context.Background()

	assert.False(t, svc.Enabled())
	recent, err := svc.Recent(ctx, 10)
	assert.NoError(t, err)
	assert.Empty(t, recent)
	dangling, err := svc.Dangling(ctx)
	assert.NoError(t, err)
	assert.Empty(t, dangling)
}
