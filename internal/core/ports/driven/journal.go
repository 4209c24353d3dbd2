package driven

import (
	"context"

	"github.com/custodia-labs/axrepo/internal/core/domain"
)

// Journal records the steps of multi-call mutations.
type Journal interface {
	// Record appends an entry.
	Record(ctx context.Context, entry domain.JournalEntry) error

	// List returns the most recent entries, newest first.
	List(ctx context.Context, limit int) ([]domain.JournalEntry, error)

	// Dangling returns check-out entries with no later successful check-in
	// for the same document.
	Dangling(ctx context.Context) ([]domain.JournalEntry, error)
}
