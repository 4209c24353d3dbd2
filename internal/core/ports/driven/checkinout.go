package driven

import "context"

// CheckInOutAPI implements the lock-then-replace protocol for document content.
type CheckInOutAPI interface {
	// CheckOut locks the document for a content replacement.
	CheckOut(ctx context.Context, docNumber int) error

	// CheckIn replaces the content with a staged buffer.
	// undoCheckOut releases the lock as part of the check-in.
	CheckIn(ctx context.Context, docNumber int, bufferID string, option int, undoCheckOut bool) error

	// CheckInForTask replaces the content within a workflow task.
	CheckInForTask(ctx context.Context, procDocID, taskWorkID int, bufferID string) error
}
