package driven

import (
	"context"

	"github.com/custodia-labs/axrepo/internal/core/domain"
)

// WorkflowAPI exposes workflow history and teardown calls.
type WorkflowAPI interface {
	// HistoryByDocNumber lists the workflow instances of a document.
	HistoryByDocNumber(ctx context.Context, docNumber int) ([]domain.WorkflowRef, error)

	// TaskHistory lists the task-work entries of a process.
	TaskHistory(ctx context.Context, processID int) ([]domain.TaskWork, error)

	// StopProcess halts a running process.
	StopProcess(ctx context.Context, processID int) error

	// DeleteProcess removes a process. force deletes even if tasks are open.
	DeleteProcess(ctx context.Context, processID int, force bool) error

	// FreeUserConstraint releases the user lock held by a process.
	FreeUserConstraint(ctx context.Context, processID int) error

	// FreeDocumentConstraint releases the workflow lock held on a document.
	FreeDocumentConstraint(ctx context.Context, docNumber int) error
}
