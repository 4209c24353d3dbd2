package arxivar

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/custodia-labs/axrepo/internal/core/domain"
)

// ==================== Check-in / check-out ====================

// CheckOut locks the document for a content replacement.
func (c *Client) CheckOut(ctx context.Context, docNumber int) error {
	return c.call(ctx, request{
		op:     fmt.Sprintf("check out %d", docNumber),
		method: http.MethodPost,
		path:   "api/CheckInOut/CheckOut/" + strconv.Itoa(docNumber),
	}, nil)
}

// CheckIn replaces the content with a staged buffer.
func (c *Client) CheckIn(ctx context.Context, docNumber int, bufferID string, option int, undoCheckOut bool) error {
	return c.call(ctx, request{
		op:     fmt.Sprintf("check in %d", docNumber),
		method: http.MethodPost,
		path:   "api/CheckInOut/CheckIn/" + strconv.Itoa(docNumber) + "/" + url.PathEscape(bufferID),
		query: url.Values{
			"option":       {strconv.Itoa(option)},
			"undoCheckOut": {strconv.FormatBool(undoCheckOut)},
		},
	}, nil)
}

// CheckInForTask replaces the content within a workflow task.
func (c *Client) CheckInForTask(ctx context.Context, procDocID, taskWorkID int, bufferID string) error {
	return c.call(ctx, request{
		op:     fmt.Sprintf("check in for task %d", taskWorkID),
		method: http.MethodPost,
		path: fmt.Sprintf("api/CheckInOut/CheckInForTask/%d/%d/%s",
			procDocID, taskWorkID, url.PathEscape(bufferID)),
	}, nil)
}

// ==================== Workflow ====================

// HistoryByDocNumber lists the workflow instances of a document.
func (c *Client) HistoryByDocNumber(ctx context.Context, docNumber int) ([]domain.WorkflowRef, error) {
	var refs []domain.WorkflowRef
	err := c.call(ctx, request{
		op:     fmt.Sprintf("workflow history of %d", docNumber),
		method: http.MethodGet,
		path:   "api/Workflow/ByDocnumber/" + strconv.Itoa(docNumber),
	}, &refs)
	return refs, err
}

// TaskHistory lists the task-work entries of a process.
func (c *Client) TaskHistory(ctx context.Context, processID int) ([]domain.TaskWork, error) {
	var tasks []domain.TaskWork
	err := c.call(ctx, request{
		op:     fmt.Sprintf("task history of %d", processID),
		method: http.MethodGet,
		path:   "api/TaskWorkHistory/ByProcessId/" + strconv.Itoa(processID),
	}, &tasks)
	return tasks, err
}

// StopProcess halts a running process.
func (c *Client) StopProcess(ctx context.Context, processID int) error {
	return c.call(ctx, request{
		op:     fmt.Sprintf("stop process %d", processID),
		method: http.MethodPost,
		path:   "api/Workflow/Stop/" + strconv.Itoa(processID),
	}, nil)
}

// DeleteProcess removes a process.
func (c *Client) DeleteProcess(ctx context.Context, processID int, force bool) error {
	return c.call(ctx, request{
		op:     fmt.Sprintf("delete process %d", processID),
		method: http.MethodDelete,
		path:   "api/Workflow/" + strconv.Itoa(processID),
		query:  url.Values{"force": {strconv.FormatBool(force)}},
	}, nil)
}

// FreeUserConstraint releases the user lock held by a process.
func (c *Client) FreeUserConstraint(ctx context.Context, processID int) error {
	return c.call(ctx, request{
		op:     fmt.Sprintf("free user constraint of %d", processID),
		method: http.MethodPost,
		path:   "api/Workflow/FreeUserConstraint/" + strconv.Itoa(processID),
	}, nil)
}

// FreeDocumentConstraint releases the workflow lock held on a document.
func (c *Client) FreeDocumentConstraint(ctx context.Context, docNumber int) error {
	return c.call(ctx, request{
		op:     fmt.Sprintf("free workflow constraint of %d", docNumber),
		method: http.MethodPost,
		path:   "api/ProcessDocument/FreeWorkflowConstraint/" + strconv.Itoa(docNumber),
	}, nil)
}
