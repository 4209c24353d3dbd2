package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/custodia-labs/axrepo/internal/core/domain"
	"github.com/custodia-labs/axrepo/internal/core/ports/driven"
	"github.com/custodia-labs/axrepo/internal/core/ports/driving"
	"github.com/custodia-labs/axrepo/internal/logger"
)

// Ensure ProfileService implements the interface.
var _ driving.ProfileService = (*ProfileService)(nil)

// ProfileService creates, updates and deletes profiles on the remote service.
//
// Every operation is a sequence of independent remote calls with no
// server-side transaction. A failure part-way leaves earlier steps applied;
// the journal, when configured, records which steps completed.
type ProfileService struct {
	remote   driven.RemoteService
	search   *SearchEngine
	stager   *Stager
	contacts *ContactResolver
	teardown *WorkflowTeardown
	journal  *Recorder
}

// NewProfileService creates a profile service.
// The journal is optional (can be nil). An empty tempDir stages files under
// os.TempDir.
func NewProfileService(remote driven.RemoteService, journal driven.Journal, tempDir string) *ProfileService {
	return &ProfileService{
		remote:   remote,
		search:   NewSearchEngine(remote, remote),
		stager:   NewStager(remote, tempDir),
		contacts: NewContactResolver(remote),
		teardown: NewWorkflowTeardown(remote),
		journal:  NewRecorder(journal),
	}
}

// Search returns the rows matching criteria.
func (s *ProfileService) Search(ctx context.Context, criteria domain.SearchCriteria) ([]domain.Row, error) {
	return s.search.Search(ctx, criteria)
}

// ResolveDocumentNumber returns the single document number matching criteria.
func (s *ProfileService) ResolveDocumentNumber(ctx context.Context, criteria domain.SearchCriteria, getFirst bool) (int, error) {
	return s.search.ResolveDocumentNumber(ctx, criteria, getFirst)
}

// Upload stages a local file and returns its buffer ids.
func (s *ProfileService) Upload(ctx context.Context, path, targetName string, useCache bool) ([]string, error) {
	return s.stager.UploadPath(ctx, path, targetName, useCache)
}

// Get fetches a profile's fields.
func (s *ProfileService) Get(ctx context.Context, docNumber int) (*domain.Schema, error) {
	schema, err := s.remote.GetSchema(ctx, docNumber, false)
	if err != nil {
		return nil, fmt.Errorf("get profile %d: %w", docNumber, err)
	}
	return schema, nil
}

// Download saves a profile's document into dir and returns its path.
func (s *ProfileService) Download(ctx context.Context, docNumber int, dir string, forView bool) (string, error) {
	body, name, err := s.remote.Download(ctx, docNumber, forView)
	if err != nil {
		return "", fmt.Errorf("download %d: %w", docNumber, err)
	}
	defer body.Close()

	return saveFile(dir, name, fmt.Sprintf("%d", docNumber), body)
}

// DownloadAttachments saves the external attachments of a profile into dir
// and returns their paths. With ignoreErrors set, an attachment that cannot
// be saved is logged and skipped; otherwise the first failure is returned.
func (s *ProfileService) DownloadAttachments(ctx context.Context, docNumber int, dir string, ignoreErrors bool) ([]string, error) {
	attachments, err := s.remote.AttachmentsByDocNumber(ctx, docNumber)
	if err != nil {
		return nil, fmt.Errorf("attachments of %d: %w", docNumber, err)
	}

	paths := make([]string, 0, len(attachments))
	for _, a := range attachments {
		path, err := s.downloadAttachment(ctx, a, dir)
		if err != nil {
			if !ignoreErrors {
				return paths, err
			}
			logger.Warn("skipping attachment %d of %d: %v", a.ID, docNumber, err)
			continue
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func (s *ProfileService) downloadAttachment(ctx context.Context, a domain.Attachment, dir string) (string, error) {
	body, err := s.remote.DownloadAttachment(ctx, a.ID)
	if err != nil {
		return "", fmt.Errorf("download attachment %d: %w", a.ID, err)
	}
	defer body.Close()
	return saveFile(dir, a.OriginalName, fmt.Sprintf("attachment-%d", a.ID), body)
}

// saveFile writes body to dir under the base of name, or fallback when name
// has no usable base.
func saveFile(dir, name, fallback string, body io.Reader) (string, error) {
	name = filepath.Base(name)
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = fallback
	}
	path := filepath.Join(dir, name)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	if _, err := io.Copy(f, body); err != nil {
		f.Close()
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

// ==================== Create ====================

// Create stores m as a new profile and returns its document number.
//
// Unless the class skips the key check, an existing profile with the same
// primary keys short-circuits the create: its number is returned as-is, or
// m is written over it when opts.UpdateIfExists is set.
func (s *ProfileService) Create(ctx context.Context, m domain.Model, opts domain.CreateOptions) (int, error) {
	class := m.Class()
	if class.DocumentType == "" {
		return 0, fmt.Errorf("create: model has no document class: %w", domain.ErrInvalidInput)
	}
	logger.Section("Create " + class.DocumentType)

	if !class.SkipKeyCheck && len(m.PrimaryKeys()) > 0 {
		existing, err := s.search.ResolveModel(ctx, m, false, true)
		switch {
		case err == nil:
			if !opts.UpdateIfExists {
				logger.Debug("profile %d already exists, skipping create", existing)
				return existing, nil
			}
			logger.Debug("profile %d already exists, updating", existing)
			m.Header().DocNumber = &existing
			return s.Update(ctx, m, domain.UpdateOptions{
				CheckInOption: opts.CheckInOption,
				KillWorkflow:  opts.KillWorkflow,
			})
		case !errors.Is(err, domain.ErrNotFound):
			return 0, fmt.Errorf("check existing %s: %w", class.DocumentType, err)
		}
	}

	return s.createNew(ctx, m)
}

func (s *ProfileService) createNew(ctx context.Context, m domain.Model) (int, error) {
	class := m.Class()
	h := m.Header()
	op := s.journal.Begin(domain.OpCreate, 0)

	docType, err := s.remote.DocumentType(ctx, class.DocumentType)
	if err != nil {
		return 0, fmt.Errorf("resolve class %s: %w", class.DocumentType, err)
	}

	document, err := s.stageDocument(ctx, h, false)
	op.Record(ctx, domain.StepStageFile, err)
	if err != nil {
		return 0, err
	}

	schema, err := s.remote.NewSchema(ctx, *docType)
	if err != nil {
		return 0, fmt.Errorf("new %s schema: %w", class.DocumentType, err)
	}
	schema.DocumentType = docType.Key
	schema.Attachments = []string{}
	if len(document) > 0 {
		schema.Document = &domain.FileRef{BufferIDs: document}
	}

	attachments, err := s.stageAttachments(ctx, h)
	op.Record(ctx, domain.StepUpload, err)
	if err != nil {
		return 0, err
	}
	schema.Attachments = append(schema.Attachments, attachments...)

	state, err := s.initialState(ctx, class, h, docType.ID)
	if err != nil {
		return 0, err
	}
	schema.SetState(state)

	if err := schema.SetField(domain.FieldDocName, h.DocName); err != nil {
		return 0, err
	}
	if h.DocDate != nil {
		if err := schema.SetField(domain.FieldDocDate, *h.DocDate); err != nil {
			return 0, err
		}
	}

	if err := s.contacts.ApplyParties(ctx, schema, h); err != nil {
		return 0, fmt.Errorf("resolve parties: %w", err)
	}

	for _, f := range m.Fields() {
		if f.Value == nil || domain.IsPartyField(f.Name) {
			continue
		}
		if err := schema.SetField(f.Name, f.Value); err != nil {
			return 0, fmt.Errorf("set %s: %w", f.Name, err)
		}
	}

	docNumber, err := s.remote.Create(ctx, schema, class.Barcode)
	op.SetDocNumber(docNumber)
	op.Record(ctx, domain.StepWrite, err)
	if err != nil {
		return 0, fmt.Errorf("create %s profile: %w", class.DocumentType, err)
	}

	n := docNumber
	h.DocNumber = &n
	logger.Info("created %s profile %d", class.DocumentType, docNumber)
	return docNumber, nil
}

// initialState picks the header status, the class status, or the class's
// first defined state, in that order.
func (s *ProfileService) initialState(ctx context.Context, class domain.DocumentClass, h *domain.Header, docTypeID int) (string, error) {
	if h.Status != "" {
		return h.Status, nil
	}
	if class.InitialStatus != "" {
		return class.InitialStatus, nil
	}

	states, err := s.remote.States(ctx, docTypeID)
	if err != nil {
		return "", fmt.Errorf("states of %s: %w", class.DocumentType, err)
	}
	if len(states) == 0 {
		return "", fmt.Errorf("class %s defines no states: %w", class.DocumentType, domain.ErrInvalidInput)
	}
	return states[0].ID, nil
}

// stageDocument uploads the header's main file, if any.
func (s *ProfileService) stageDocument(ctx context.Context, h *domain.Header, useCache bool) ([]string, error) {
	switch {
	case h.File != nil:
		return s.stager.UploadPayload(ctx, *h.File, useCache)
	case h.FilePath != "":
		return s.stager.UploadPath(ctx, h.FilePath, "", useCache)
	default:
		return nil, nil
	}
}

// stageAttachments uploads attachment paths then blobs, and appends the
// already staged remote ids.
func (s *ProfileService) stageAttachments(ctx context.Context, h *domain.Header) ([]string, error) {
	var ids []string
	for _, path := range h.Attachments {
		staged, err := s.stager.UploadPath(ctx, path, "", false)
		if err != nil {
			return nil, fmt.Errorf("attachment %s: %w", path, err)
		}
		ids = append(ids, staged...)
	}
	for _, blob := range h.AttachmentBlobs {
		staged, err := s.stager.UploadPayload(ctx, blob, false)
		if err != nil {
			return nil, fmt.Errorf("attachment %s: %w", blob.Name, err)
		}
		ids = append(ids, staged...)
	}
	return append(ids, h.RemoteAttachments...), nil
}

// ==================== Update ====================

// Update writes m over its existing profile and returns the document number.
//
// When m carries a file, the document content is replaced through
// check-out, cache upload and check-in before the fields are written.
func (s *ProfileService) Update(ctx context.Context, m domain.Model, opts domain.UpdateOptions) (int, error) {
	h := m.Header()
	logger.Section("Update " + m.Class().DocumentType)

	docNumber, err := s.locate(ctx, m)
	if err != nil {
		return 0, err
	}
	op := s.journal.Begin(domain.OpUpdate, docNumber)

	if opts.KillWorkflow {
		current, err := s.remote.GetSchema(ctx, docNumber, false)
		if err != nil {
			return 0, fmt.Errorf("get profile %d: %w", docNumber, err)
		}
		if current.Workflow != nil && *current.Workflow {
			err := s.teardown.KillForDocument(ctx, docNumber)
			op.Record(ctx, domain.StepTeardown, err)
			if err != nil {
				logger.Warn("ignoring workflow teardown failure for %d: %v", docNumber, err)
			}
		}
	}

	schema, err := s.remote.GetSchema(ctx, docNumber, true)
	if err != nil {
		return 0, fmt.Errorf("get profile %d for edit: %w", docNumber, err)
	}

	if h.DocDate != nil {
		if err := schema.SetField(domain.FieldDocDate, *h.DocDate); err != nil {
			return 0, err
		}
	}
	if h.Status != "" {
		schema.SetState(h.Status)
	}
	for _, f := range m.Fields() {
		if err := schema.SetField(f.Name, f.Value); err != nil {
			if errors.Is(err, domain.ErrFieldNotFound) && tolerated(f.Name) {
				continue
			}
			return 0, fmt.Errorf("set %s: %w", f.Name, err)
		}
	}

	var buffers []string
	if h.HasFile() {
		buffers, err = s.replaceDocument(ctx, op, docNumber, h, opts)
		if err != nil {
			return 0, err
		}
	}

	update := &domain.Schema{Fields: schema.Fields, State: schema.State}
	if len(buffers) > 0 {
		update.Document = &domain.FileRef{BufferIDs: buffers}
	}
	err = s.remote.Update(ctx, docNumber, update)
	op.Record(ctx, domain.StepWrite, err)
	if err != nil {
		return 0, fmt.Errorf("write profile %d: %w", docNumber, err)
	}

	h.DocNumber = &docNumber
	logger.Info("updated profile %d", docNumber)
	return docNumber, nil
}

// locate returns the model's document number, resolving it by primary key
// when unset. Duplicates resolve to the lowest number.
func (s *ProfileService) locate(ctx context.Context, m domain.Model) (int, error) {
	if n := m.Header().DocNumber; n != nil {
		return *n, nil
	}
	if len(m.PrimaryKeys()) == 0 {
		return 0, fmt.Errorf("update: model has no document number or primary keys: %w", domain.ErrInvalidInput)
	}
	n, err := s.search.ResolveModel(ctx, m, false, true)
	if err != nil {
		return 0, fmt.Errorf("locate %s profile: %w", m.Class().DocumentType, err)
	}
	return n, nil
}

// replaceDocument swaps the document content and returns the staged buffer ids.
func (s *ProfileService) replaceDocument(ctx context.Context, op *Operation, docNumber int, h *domain.Header, opts domain.UpdateOptions) ([]string, error) {
	if opts.TaskScoped() {
		// Task-scoped check-out is not supported by the service; the
		// task check-in below takes the lock itself.
		logger.Debug("skipping check-out of %d for task %d", docNumber, *opts.TaskID)
	} else {
		err := s.remote.CheckOut(ctx, docNumber)
		op.Record(ctx, domain.StepCheckOut, err)
		if err != nil {
			return nil, fmt.Errorf("check out %d: %w", docNumber, err)
		}
	}

	buffers, err := s.stageDocument(ctx, h, true)
	op.Record(ctx, domain.StepUpload, err)
	if err != nil {
		return nil, err
	}

	if opts.TaskScoped() {
		err = s.remote.CheckInForTask(ctx, *opts.ProcDocID, *opts.TaskID, buffers[0])
	} else {
		err = s.remote.CheckIn(ctx, docNumber, buffers[0], opts.CheckInOption, true)
	}
	op.Record(ctx, domain.StepCheckIn, err)
	if err != nil {
		return nil, fmt.Errorf("check in %d: %w", docNumber, err)
	}
	return buffers, nil
}

// tolerated reports whether a missing field may be skipped on update.
func tolerated(name string) bool {
	return name == domain.FieldFromExternalID || name == domain.FieldToExternalID
}

// ==================== Delete ====================

// Delete marks the profile matching m as eliminated.
//
// A model carrying a document number is already located; otherwise the
// profile is found by primary key and duplicates resolve to the lowest
// number. A missing or already eliminated profile is not an error.
func (s *ProfileService) Delete(ctx context.Context, m domain.Model) error {
	var docNumber int
	if n := m.Header().DocNumber; n != nil {
		docNumber = *n
	} else {
		if len(m.PrimaryKeys()) == 0 {
			return fmt.Errorf("delete: model has no document number or primary keys: %w", domain.ErrInvalidInput)
		}
		found, err := s.search.ResolveModel(ctx, m, false, true)
		if errors.Is(err, domain.ErrNotFound) {
			logger.Debug("no %s profile to delete", m.Class().DocumentType)
			return nil
		}
		if err != nil {
			return fmt.Errorf("locate %s profile: %w", m.Class().DocumentType, err)
		}
		docNumber = found
	}

	schema, err := s.remote.GetSchema(ctx, docNumber, true)
	if errors.Is(err, domain.ErrNotFound) {
		logger.Debug("profile %d does not exist", docNumber)
		return nil
	}
	if err != nil {
		return fmt.Errorf("get profile %d for edit: %w", docNumber, err)
	}
	if schema.CurrentState() == domain.StatusDeleted {
		logger.Debug("profile %d already eliminated", docNumber)
		return nil
	}
	op := s.journal.Begin(domain.OpDelete, docNumber)
	schema.SetState(domain.StatusDeleted)

	err = s.remote.Update(ctx, docNumber, &domain.Schema{Fields: schema.Fields, State: domain.StatusDeleted})
	op.Record(ctx, domain.StepWrite, err)
	if err != nil {
		return fmt.Errorf("eliminate profile %d: %w", docNumber, err)
	}
	logger.Info("eliminated profile %d", docNumber)
	return nil
}

// HardDelete permanently removes a profile.
func (s *ProfileService) HardDelete(ctx context.Context, docNumber int) error {
	op := s.journal.Begin(domain.OpHardDelete, docNumber)
	err := s.remote.Delete(ctx, docNumber)
	op.Record(ctx, domain.StepWrite, err)
	if err != nil {
		return fmt.Errorf("delete profile %d: %w", docNumber, err)
	}
	logger.Info("deleted profile %d", docNumber)
	return nil
}

// ==================== Typed reads ====================

// Fetch loads a profile into a new model of type T.
func Fetch[T any, PT interface {
	*T
	domain.Hydrator
}](ctx context.Context, s *ProfileService, docNumber int) (*T, error) {
	schema, err := s.Get(ctx, docNumber)
	if err != nil {
		return nil, err
	}
	var v T
	if err := PT(&v).Hydrate(schema); err != nil {
		return nil, fmt.Errorf("hydrate profile %d: %w", docNumber, err)
	}
	return &v, nil
}
