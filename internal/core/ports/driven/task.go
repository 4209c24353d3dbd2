package driven

import (
	"context"
	"io"

	"github.com/custodia-labs/axrepo/internal/core/domain"
)

// AttachmentAPI reads the external attachments of a profile.
type AttachmentAPI interface {
	// AttachmentsByDocNumber lists the attachments of a profile.
	AttachmentsByDocNumber(ctx context.Context, docNumber int) ([]domain.Attachment, error)

	// DownloadAttachment returns an attachment's content.
	// The caller must close the reader.
	DownloadAttachment(ctx context.Context, attachmentID int) (io.ReadCloser, error)
}

// TaskAPI reads workflow task work and the profiles attached to its process.
type TaskAPI interface {
	// TaskWork returns a task-work entry by id.
	TaskWork(ctx context.Context, taskWorkID int) (*domain.TaskWork, error)

	// ProcessDocuments lists the document numbers a process works on.
	ProcessDocuments(ctx context.Context, processID int) ([]int, error)

	// ProcessAttachments lists the attachments of a process.
	ProcessAttachments(ctx context.Context, processID int) ([]domain.ProcessAttachment, error)

	// AddTaskAttachment attaches a staged buffer to a task work as an
	// external attachment.
	AddTaskAttachment(ctx context.Context, taskWorkID int, bufferID string) error
}
