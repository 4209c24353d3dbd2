package driving

import "context"

// TaskService works on workflow task work and the profiles of its process.
type TaskService interface {
	// ProcessID returns the process a task work belongs to.
	ProcessID(ctx context.Context, taskWorkID int) (int, error)

	// AttachFile stages the file at path and attaches it to a task work.
	// An empty name keeps the file's own name. Returns the buffer id.
	AttachFile(ctx context.Context, taskWorkID int, path, name string) (string, error)

	// Documents lists the process documents of the given class.
	Documents(ctx context.Context, taskWorkID int, classKey string) ([]int, error)

	// Attachments lists the profiles attached to the process whose class
	// matches pattern. An empty pattern matches classKey literally.
	Attachments(ctx context.Context, taskWorkID int, classKey, pattern string) ([]int, error)

	// AssignedUser returns the user a task work was assigned to.
	AssignedUser(ctx context.Context, processID, taskWorkID int) (int64, error)
}
