package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/axrepo/internal/core/domain"
	"github.com/custodia-labs/axrepo/internal/core/ports/driven"
)

// Ensure Journal implements the interface.
var _ driven.Journal = (*Journal)(nil)

// Journal is an in-memory implementation of driven.Journal.
// Suitable for testing and ephemeral usage.
type Journal struct {
	mu      sync.RWMutex
	entries []domain.JournalEntry
}

// NewJournal creates a new in-memory journal.
func NewJournal() *Journal {
	return &Journal{}
}

// Record appends an entry.
func (j *Journal) Record(_ context.Context, entry domain.JournalEntry) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = append(j.entries, entry)
	return nil
}

// List returns the most recent entries, newest first.
func (j *Journal) List(_ context.Context, limit int) ([]domain.JournalEntry, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	result := make([]domain.JournalEntry, 0, len(j.entries))
	for i := len(j.entries) - 1; i >= 0; i-- {
		if limit > 0 && len(result) == limit {
			break
		}
		result = append(result, j.entries[i])
	}
	return result, nil
}

// Dangling returns successful check-outs with no later successful check-in
// of the same document.
func (j *Journal) Dangling(_ context.Context) ([]domain.JournalEntry, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	open := make(map[int]domain.JournalEntry)
	var order []int
	for _, e := range j.entries {
		if e.Status != domain.StepOK {
			continue
		}
		switch e.Step {
		case domain.StepCheckOut:
			if _, ok := open[e.DocNumber]; !ok {
				order = append(order, e.DocNumber)
			}
			open[e.DocNumber] = e
		case domain.StepCheckIn:
			delete(open, e.DocNumber)
		}
	}

	var result []domain.JournalEntry
	for _, doc := range order {
		if e, ok := open[doc]; ok {
			result = append(result, e)
			delete(open, doc)
		}
	}
	return result, nil
}
