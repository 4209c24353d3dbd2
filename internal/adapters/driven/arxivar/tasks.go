package arxivar

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/custodia-labs/axrepo/internal/core/domain"
)

// Column ids of the process tables.
const (
	columnDocNumber      = "DOCNUMBER"
	columnAttachmentKind = "TIPOALLEGATO"
)

// ==================== Attachments ====================

// AttachmentsByDocNumber lists the external attachments of a profile.
func (c *Client) AttachmentsByDocNumber(ctx context.Context, docNumber int) ([]domain.Attachment, error) {
	var attachments []domain.Attachment
	err := c.call(ctx, request{
		op:     fmt.Sprintf("attachments of %d", docNumber),
		method: http.MethodGet,
		path:   "api/Attachments/ByDocnumber/" + strconv.Itoa(docNumber),
	}, &attachments)
	return attachments, err
}

// DownloadAttachment returns the content of an external attachment.
func (c *Client) DownloadAttachment(ctx context.Context, attachmentID int) (io.ReadCloser, error) {
	resp, err := c.do(ctx, request{
		op:     fmt.Sprintf("download attachment %d", attachmentID),
		method: http.MethodGet,
		path:   "api/Documents/ExternalAttachment/" + strconv.Itoa(attachmentID),
		query:  url.Values{"forView": {"false"}},
	})
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

// ==================== Task work ====================

// TaskWork returns a task-work entry by id.
func (c *Client) TaskWork(ctx context.Context, taskWorkID int) (*domain.TaskWork, error) {
	var task domain.TaskWork
	err := c.call(ctx, request{
		op:     fmt.Sprintf("get task work %d", taskWorkID),
		method: http.MethodGet,
		path:   "api/v2/TaskWork/" + strconv.Itoa(taskWorkID),
	}, &task)
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// processSelect asks the documents endpoint for the document number column.
type processSelect struct {
	Fields []selectColumn `json:"fields"`
}

type selectColumn struct {
	Name     string `json:"name"`
	Selected bool   `json:"selected"`
}

// ProcessDocuments lists the document numbers a process works on.
func (c *Client) ProcessDocuments(ctx context.Context, processID int) ([]int, error) {
	var t table
	err := c.call(ctx, request{
		op:     fmt.Sprintf("documents of process %d", processID),
		method: http.MethodPost,
		path:   "api/v2/TaskWork/documents/" + strconv.Itoa(processID),
		body:   processSelect{Fields: []selectColumn{{Name: columnDocNumber, Selected: true}}},
	}, &t)
	if err != nil {
		return nil, err
	}

	col := t.column(columnDocNumber)
	if col < 0 {
		return nil, fmt.Errorf("documents of process %d: no %s column: %w", processID, columnDocNumber, domain.ErrTransport)
	}
	docs := make([]int, 0, len(t.Data))
	for _, row := range t.Data {
		if n, ok := t.intAt(row, col); ok {
			docs = append(docs, n)
		}
	}
	return docs, nil
}

// ProcessAttachments lists the attachments of a process.
func (c *Client) ProcessAttachments(ctx context.Context, processID int) ([]domain.ProcessAttachment, error) {
	var t table
	err := c.call(ctx, request{
		op:     fmt.Sprintf("attachments of process %d", processID),
		method: http.MethodGet,
		path:   "api/v2/TaskWorkAttachments/process/" + strconv.Itoa(processID),
	}, &t)
	if err != nil {
		return nil, err
	}

	docCol, kindCol := t.column(columnDocNumber), t.column(columnAttachmentKind)
	if docCol < 0 || kindCol < 0 {
		return nil, fmt.Errorf("attachments of process %d: missing columns: %w", processID, domain.ErrTransport)
	}
	out := make([]domain.ProcessAttachment, 0, len(t.Data))
	for _, row := range t.Data {
		var a domain.ProcessAttachment
		a.DocNumber, _ = t.intAt(row, docCol)
		a.Kind, _ = t.intAt(row, kindCol)
		out = append(out, a)
	}
	return out, nil
}

// AddTaskAttachment attaches a staged buffer to a task work.
func (c *Client) AddTaskAttachment(ctx context.Context, taskWorkID int, bufferID string) error {
	return c.call(ctx, request{
		op:     fmt.Sprintf("attach to task work %d", taskWorkID),
		method: http.MethodPost,
		path:   "api/v2/TaskWorkAttachments/" + strconv.Itoa(taskWorkID) + "/external",
		query:  url.Values{"bufferId": {bufferID}},
	}, nil)
}

// table is the column/row payload returned by the process endpoints.
type table struct {
	Columns []struct {
		ID string `json:"id"`
	} `json:"columns"`
	Data [][]any `json:"data"`
}

// column returns the index of the column with id, or -1.
func (t table) column(id string) int {
	for i, c := range t.Columns {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// intAt reads an integer cell; null and non-numeric cells report false.
func (t table) intAt(row []any, i int) (int, bool) {
	if i < 0 || i >= len(row) {
		return 0, false
	}
	switch v := row[i].(type) {
	case json.Number:
		n, err := v.Int64()
		return int(n), err == nil
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}
