package domain

// CreateOptions tune ProfileService.Create.
type CreateOptions struct {
	// UpdateIfExists updates a profile found by primary key instead of
	// returning its number untouched.
	UpdateIfExists bool

	// CheckInOption is passed to check-in when an existing profile's file is replaced.
	CheckInOption int

	// KillWorkflow tears down the profile's workflow before an update.
	KillWorkflow bool
}

// UpdateOptions tune ProfileService.Update.
type UpdateOptions struct {
	// TaskID and ProcDocID scope the file replacement to a workflow task.
	// Both must be set for the task-scoped check-in to be used.
	TaskID    *int
	ProcDocID *int

	// CheckInOption is passed to the check-in call.
	CheckInOption int

	// KillWorkflow releases the document's workflow hold before writing.
	// Failures while releasing are logged and ignored.
	KillWorkflow bool
}

// TaskScoped reports whether the file replacement runs inside a workflow task.
func (o UpdateOptions) TaskScoped() bool {
	return o.TaskID != nil && o.ProcDocID != nil
}
