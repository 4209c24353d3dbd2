package domain

import "time"

// WorkflowStateActive marks a running workflow instance.
const WorkflowStateActive = 1

// WorkflowRef is a workflow instance attached to a document.
type WorkflowRef struct {
	ProcessID int `json:"id"`
	State     int `json:"state"`
}

// Active reports whether the workflow is still running.
func (w WorkflowRef) Active() bool {
	return w.State == WorkflowStateActive
}

// TaskWork is one entry of a process's task history.
type TaskWork struct {
	ID          int64      `json:"id"`
	ProcessID   int        `json:"processId"`
	UserID      int64      `json:"userId"`
	ConcludedAt *time.Time `json:"concludedAt,omitempty"`
}

// Pending reports whether the task has not been concluded.
func (t TaskWork) Pending() bool {
	return t.ConcludedAt == nil
}

// AttachmentKindProfile marks a process attachment that is itself a profile.
const AttachmentKindProfile = 2

// ProcessAttachment is one attachment row of a workflow process.
// DocNumber is zero when the attachment is not a profile.
type ProcessAttachment struct {
	DocNumber int `json:"docNumber"`
	Kind      int `json:"kind"`
}

// IsProfile reports whether the attachment points at a profile.
func (a ProcessAttachment) IsProfile() bool {
	return a.Kind == AttachmentKindProfile && a.DocNumber > 0
}

// Attachment is an external attachment of a profile.
type Attachment struct {
	ID           int    `json:"id"`
	OriginalName string `json:"originalname"`
}
