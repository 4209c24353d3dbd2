package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/axrepo/internal/core/ports/driven"
	"github.com/custodia-labs/axrepo/internal/logger"
)

// WorkflowTeardown stops and removes workflow processes.
type WorkflowTeardown struct {
	workflows driven.WorkflowAPI
}

// NewWorkflowTeardown creates a workflow teardown helper.
func NewWorkflowTeardown(workflows driven.WorkflowAPI) *WorkflowTeardown {
	return &WorkflowTeardown{workflows: workflows}
}

// Teardown stops a process, force-deletes it and frees its user constraint.
// The first failing call aborts the sequence.
func (w *WorkflowTeardown) Teardown(ctx context.Context, processID int) error {
	logger.Debug("tearing down process %d", processID)
	if err := w.workflows.StopProcess(ctx, processID); err != nil {
		return fmt.Errorf("stop process %d: %w", processID, err)
	}
	if err := w.workflows.DeleteProcess(ctx, processID, true); err != nil {
		return fmt.Errorf("delete process %d: %w", processID, err)
	}
	if err := w.workflows.FreeUserConstraint(ctx, processID); err != nil {
		return fmt.Errorf("free user constraint of process %d: %w", processID, err)
	}
	return nil
}

// KillForDocument releases the workflow hold on a document before an update.
//
// The first active process of the document is torn down only when its task
// history has no pending task; its user constraint is freed either way. The
// document's workflow constraint is then freed. Callers treat the returned
// error as advisory.
func (w *WorkflowTeardown) KillForDocument(ctx context.Context, docNumber int) error {
	refs, err := w.workflows.HistoryByDocNumber(ctx, docNumber)
	if err != nil {
		return fmt.Errorf("workflow history of %d: %w", docNumber, err)
	}

	for _, ref := range refs {
		if !ref.Active() {
			continue
		}

		tasks, err := w.workflows.TaskHistory(ctx, ref.ProcessID)
		if err != nil {
			return fmt.Errorf("task history of process %d: %w", ref.ProcessID, err)
		}
		// TODO: confirm whether teardown should instead require pending tasks;
		// as written a process with open tasks is left running.
		pending := false
		for _, t := range tasks {
			if t.Pending() {
				pending = true
				break
			}
		}
		if !pending {
			if err := w.Teardown(ctx, ref.ProcessID); err != nil {
				return err
			}
		} else {
			logger.Debug("process %d has pending tasks, not deleting", ref.ProcessID)
		}

		if err := w.workflows.FreeUserConstraint(ctx, ref.ProcessID); err != nil {
			return fmt.Errorf("free user constraint of process %d: %w", ref.ProcessID, err)
		}
		break
	}

	if err := w.workflows.FreeDocumentConstraint(ctx, docNumber); err != nil {
		return fmt.Errorf("free workflow constraint of %d: %w", docNumber, err)
	}
	return nil
}
