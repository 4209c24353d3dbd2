package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/axrepo/internal/core/domain"
)

func TestJournal_ListNewestFirst(t *testing.T) {
	j := NewJournal()
	ctx := context.Background()

	for _, step := range []string{domain.StepCheckOut, domain.StepUpload, domain.StepCheckIn} {
		require.NoError(t, j.Record(ctx, domain.JournalEntry{ID: step, DocNumber: 1, Step: step, Status: domain.StepOK}))
	}

	entries, err := j.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, domain.StepCheckIn, entries[0].Step)
	assert.Equal(t, domain.StepUpload, entries[1].Step)
}

func TestJournal_Dangling(t *testing.T) {
	j := NewJournal()
	ctx := context.Background()

	record := func(doc int, step string, status domain.StepStatus) {
		require.NoError(t, j.Record(ctx, domain.JournalEntry{DocNumber: doc, Step: step, Status: status}))
	}

	// Completed replacement.
	record(1, domain.StepCheckOut, domain.StepOK)
	record(1, domain.StepCheckIn, domain.StepOK)
	// Check-in failed.
	record(2, domain.StepCheckOut, domain.StepOK)
	record(2, domain.StepCheckIn, domain.StepFailed)
	// Check-out failed, nothing to release.
	record(3, domain.StepCheckOut, domain.StepFailed)

	dangling, err := j.Dangling(ctx)
	require.NoError(t, err)
	require.Len(t, dangling, 1)
	assert.Equal(t, 2, dangling[0].DocNumber)
}
