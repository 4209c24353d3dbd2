package services

import (
	"context"
	"fmt"
	"regexp"

	"github.com/custodia-labs/axrepo/internal/core/domain"
	"github.com/custodia-labs/axrepo/internal/core/ports/driven"
	"github.com/custodia-labs/axrepo/internal/core/ports/driving"
	"github.com/custodia-labs/axrepo/internal/logger"
)

// Ensure TaskService implements the interface.
var _ driving.TaskService = (*TaskService)(nil)

// taskRemote is the part of the remote service task operations use.
type taskRemote interface {
	driven.TaskAPI
	driven.WorkflowAPI
	driven.ProfileAPI
	driven.BufferAPI
}

// TaskService reads and extends the work of workflow tasks.
type TaskService struct {
	remote taskRemote
	stager *Stager
}

// NewTaskService creates a task service. An empty tempDir stages files
// under os.TempDir.
func NewTaskService(remote taskRemote, tempDir string) *TaskService {
	return &TaskService{remote: remote, stager: NewStager(remote, tempDir)}
}

// ProcessID returns the process a task work belongs to.
func (s *TaskService) ProcessID(ctx context.Context, taskWorkID int) (int, error) {
	task, err := s.remote.TaskWork(ctx, taskWorkID)
	if err != nil {
		return 0, fmt.Errorf("task work %d: %w", taskWorkID, err)
	}
	if task.ProcessID <= 0 {
		return 0, fmt.Errorf("task work %d has no process: %w", taskWorkID, domain.ErrNotFound)
	}
	return task.ProcessID, nil
}

// AttachFile stages the file at path in the buffer store and attaches it to
// a task work. Returns the buffer id.
func (s *TaskService) AttachFile(ctx context.Context, taskWorkID int, path, name string) (string, error) {
	ids, err := s.stager.UploadPath(ctx, path, name, false)
	if err != nil {
		return "", err
	}
	if err := s.remote.AddTaskAttachment(ctx, taskWorkID, ids[0]); err != nil {
		return "", fmt.Errorf("attach to task work %d: %w", taskWorkID, err)
	}
	logger.Info("attached %s to task work %d", path, taskWorkID)
	return ids[0], nil
}

// Documents lists the documents of a task's process whose class is exactly
// classKey.
func (s *TaskService) Documents(ctx context.Context, taskWorkID int, classKey string) ([]int, error) {
	if classKey == "" {
		return nil, fmt.Errorf("task documents: no class: %w", domain.ErrInvalidInput)
	}
	processID, err := s.ProcessID(ctx, taskWorkID)
	if err != nil {
		return nil, err
	}
	docs, err := s.remote.ProcessDocuments(ctx, processID)
	if err != nil {
		return nil, fmt.Errorf("documents of process %d: %w", processID, err)
	}

	var out []int
	for _, doc := range docs {
		schema, err := s.remote.GetSchema(ctx, doc, false)
		if err != nil {
			return nil, fmt.Errorf("profile %d: %w", doc, err)
		}
		if schema.DocumentType == classKey {
			out = append(out, doc)
		}
	}
	return out, nil
}

// Attachments lists the profiles attached to a task's process whose class
// matches pattern, case-insensitively. An empty pattern matches classKey
// literally. Profiles that cannot be read are skipped.
func (s *TaskService) Attachments(ctx context.Context, taskWorkID int, classKey, pattern string) ([]int, error) {
	if pattern == "" {
		if classKey == "" {
			return nil, fmt.Errorf("task attachments: no class or pattern: %w", domain.ErrInvalidInput)
		}
		pattern = regexp.QuoteMeta(classKey)
	}
	rx, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return nil, fmt.Errorf("task attachments: pattern %q: %v: %w", pattern, err, domain.ErrInvalidInput)
	}

	processID, err := s.ProcessID(ctx, taskWorkID)
	if err != nil {
		return nil, err
	}
	attachments, err := s.remote.ProcessAttachments(ctx, processID)
	if err != nil {
		return nil, fmt.Errorf("attachments of process %d: %w", processID, err)
	}

	var out []int
	for _, a := range attachments {
		if !a.IsProfile() {
			continue
		}
		schema, err := s.remote.GetSchema(ctx, a.DocNumber, false)
		if err != nil {
			logger.Debug("skipping attachment %d: %v", a.DocNumber, err)
			continue
		}
		if rx.MatchString(schema.DocumentType) {
			out = append(out, a.DocNumber)
		}
	}
	return out, nil
}

// AssignedUser returns the user a task work of processID was assigned to.
func (s *TaskService) AssignedUser(ctx context.Context, processID, taskWorkID int) (int64, error) {
	tasks, err := s.remote.TaskHistory(ctx, processID)
	if err != nil {
		return 0, fmt.Errorf("task history of process %d: %w", processID, err)
	}
	for _, t := range tasks {
		if t.ID == int64(taskWorkID) {
			return t.UserID, nil
		}
	}
	return 0, fmt.Errorf("task work %d in process %d: %w", taskWorkID, processID, domain.ErrNotFound)
}
