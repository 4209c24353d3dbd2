package memory

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/axrepo/internal/core/domain"
	"github.com/custodia-labs/axrepo/internal/core/ports/driven"
)

// Ensure Remote implements every remote port.
var (
	_ driven.Authenticator   = (*Remote)(nil)
	_ driven.ProfileAPI      = (*Remote)(nil)
	_ driven.DocumentTypeAPI = (*Remote)(nil)
	_ driven.SearchAPI       = (*Remote)(nil)
	_ driven.BufferAPI       = (*Remote)(nil)
	_ driven.DocumentAPI     = (*Remote)(nil)
	_ driven.CheckInOutAPI   = (*Remote)(nil)
	_ driven.WorkflowAPI     = (*Remote)(nil)
	_ driven.AddressBookAPI  = (*Remote)(nil)
	_ driven.IdentityAPI     = (*Remote)(nil)
	_ driven.AttachmentAPI   = (*Remote)(nil)
	_ driven.TaskAPI         = (*Remote)(nil)
)

// Class declares a document class on the in-memory service.
type Class struct {
	Type   domain.DocumentType
	States []domain.State
	// Fields are the declared field names of the class.
	Fields []string
	// Additional are extra class fields added to new schemas and search filters.
	Additional []string
}

// Profile is a stored profile.
type Profile struct {
	DocNumber   int
	ClassKey    string
	State       string
	Fields      map[string]any
	Workflow    bool
	Document    []string
	Attachments []string
	From        *domain.Contact
	To          []domain.Contact
	CheckedOut  bool
	Barcode     bool
}

// Buffer is staged file content.
type Buffer struct {
	Name  string
	Data  []byte
	Cache bool
}

// Remote is an in-memory document-management service.
// It implements every remote port and records each call, which makes it the
// backing double for service tests.
type Remote struct {
	mu sync.Mutex

	password string
	username string
	classes  map[string]Class
	profiles map[int]*Profile
	order    []int
	nextDoc  int

	buffers    map[string]Buffer
	nextBuffer int

	workflows map[int][]domain.WorkflowRef
	tasks     map[int][]domain.TaskWork
	contacts  map[string]domain.Contact
	users     map[string]domain.Contact

	attachments     map[int][]storedAttachment
	nextAttachment  int
	taskWorks       map[int]domain.TaskWork
	processDocs     map[int][]int
	processAttached map[int][]domain.ProcessAttachment
	taskAttachments map[int][]string

	calls    []string
	failures map[string]error
	exchange map[domain.Scope]int
}

// NewRemote creates an empty in-memory service accepting password.
func NewRemote(password string) *Remote {
	return &Remote{
		password:  password,
		classes:   make(map[string]Class),
		profiles:  make(map[int]*Profile),
		nextDoc:   1,
		buffers:   make(map[string]Buffer),
		workflows: make(map[int][]domain.WorkflowRef),
		tasks:     make(map[int][]domain.TaskWork),
		contacts:  make(map[string]domain.Contact),
		users:     make(map[string]domain.Contact),
		failures:  make(map[string]error),
		exchange:  make(map[domain.Scope]int),

		attachments:     make(map[int][]storedAttachment),
		taskWorks:       make(map[int]domain.TaskWork),
		processDocs:     make(map[int][]int),
		processAttached: make(map[int][]domain.ProcessAttachment),
		taskAttachments: make(map[int][]string),
	}
}

type storedAttachment struct {
	domain.Attachment
	data []byte
}

// ==================== Seeding & inspection ====================

// AddClass declares a document class.
func (r *Remote) AddClass(c Class) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.classes[c.Type.Key] = c
}

// AddProfile stores a profile as-is. A zero DocNumber is assigned.
func (r *Remote) AddProfile(p Profile) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.DocNumber == 0 {
		p.DocNumber = r.nextDoc
	}
	if p.DocNumber >= r.nextDoc {
		r.nextDoc = p.DocNumber + 1
	}
	if p.Fields == nil {
		p.Fields = make(map[string]any)
	}
	r.profiles[p.DocNumber] = &p
	r.order = append(r.order, p.DocNumber)
	return p.DocNumber
}

// AddWorkflow attaches a workflow instance and its task history to a document.
func (r *Remote) AddWorkflow(docNumber int, ref domain.WorkflowRef, tasks ...domain.TaskWork) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.workflows[docNumber] = append(r.workflows[docNumber], ref)
	r.tasks[ref.ProcessID] = append(r.tasks[ref.ProcessID], tasks...)
}

// AddContact registers an address-book contact under code.
func (r *Remote) AddContact(code string, c domain.Contact) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.contacts[code] = c
}

// AddUser registers a user's address-book entry.
func (r *Remote) AddUser(username string, c domain.Contact) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[strings.ToLower(username)] = c
}

// AddAttachment stores an external attachment of a profile and returns its id.
func (r *Remote) AddAttachment(docNumber int, name string, data []byte) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextAttachment++
	a := storedAttachment{
		Attachment: domain.Attachment{ID: r.nextAttachment, OriginalName: name},
		data:       data,
	}
	r.attachments[docNumber] = append(r.attachments[docNumber], a)
	return a.ID
}

// AddTaskWork registers a task-work entry of a process.
// The entry also joins the process's task history.
func (r *Remote) AddTaskWork(t domain.TaskWork) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.taskWorks[int(t.ID)] = t
	r.tasks[t.ProcessID] = append(r.tasks[t.ProcessID], t)
}

// AddProcessDocument adds a document to a process.
func (r *Remote) AddProcessDocument(processID, docNumber int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.processDocs[processID] = append(r.processDocs[processID], docNumber)
}

// AddProcessAttachment adds an attachment row to a process.
func (r *Remote) AddProcessAttachment(processID int, a domain.ProcessAttachment) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.processAttached[processID] = append(r.processAttached[processID], a)
}

// TaskAttachments returns the buffer ids attached to a task work.
func (r *Remote) TaskAttachments(taskWorkID int) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.taskAttachments[taskWorkID]...)
}

// Fail makes every subsequent call to method return err. A nil err clears it.
func (r *Remote) Fail(method string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err == nil {
		delete(r.failures, method)
		return
	}
	r.failures[method] = err
}

// Profile returns a copy of a stored profile.
func (r *Remote) Profile(docNumber int) (Profile, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[docNumber]
	if !ok {
		return Profile{}, false
	}
	return *p, true
}

// ProfileCount returns the number of stored profiles.
func (r *Remote) ProfileCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.profiles)
}

// Buffer returns staged content by id.
func (r *Remote) Buffer(id string) (Buffer, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.buffers[id]
	return b, ok
}

// Calls returns the recorded method calls in order.
func (r *Remote) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

// CallCount returns how many times method was called.
func (r *Remote) CallCount(method string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, c := range r.calls {
		if c == method {
			n++
		}
	}
	return n
}

// Exchanges returns how many credential exchanges were made for scope.
func (r *Remote) Exchanges(scope domain.Scope) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.exchange[scope]
}

// call records a method call and returns its injected failure (caller holds lock).
func (r *Remote) call(method string) error {
	r.calls = append(r.calls, method)
	return r.failures[method]
}

// ==================== Authenticator ====================

// Authenticate checks the password and returns a scoped token.
func (r *Remote) Authenticate(ctx context.Context, creds domain.Credentials, scope domain.Scope) (*domain.Token, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.call("Authenticate"); err != nil {
		return nil, err
	}
	if creds.Password != r.password {
		return nil, fmt.Errorf("user %s: %w", creds.Username, domain.ErrAuthenticationFailed)
	}
	r.exchange[scope]++
	r.username = creds.Username
	return &domain.Token{
		Scope:        scope,
		AccessToken:  fmt.Sprintf("token-%s-%d", scope, r.exchange[scope]),
		RefreshToken: fmt.Sprintf("refresh-%s-%d", scope, r.exchange[scope]),
	}, nil
}

// WhoAmI returns the last authenticated user.
func (r *Remote) WhoAmI(_ context.Context, scope domain.Scope) (*domain.Identity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.call("WhoAmI"); err != nil {
		return nil, err
	}
	if r.username == "" {
		return nil, fmt.Errorf("no authenticated user: %w", domain.ErrUnauthorized)
	}
	return &domain.Identity{Scope: scope, UserID: 1, Username: r.username, DisplayName: r.username}, nil
}

// ==================== DocumentTypeAPI ====================

// DocumentType returns the class with the given key.
func (r *Remote) DocumentType(_ context.Context, key string) (*domain.DocumentType, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.call("DocumentType"); err != nil {
		return nil, err
	}
	c, ok := r.classes[key]
	if !ok {
		return nil, fmt.Errorf("document type %s: %w", key, domain.ErrNotFound)
	}
	t := c.Type
	return &t, nil
}

// States returns the states of a class.
func (r *Remote) States(_ context.Context, docTypeID int) ([]domain.State, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.call("States"); err != nil {
		return nil, err
	}
	c, ok := r.classByID(docTypeID)
	if !ok {
		return nil, fmt.Errorf("document type %d: %w", docTypeID, domain.ErrNotFound)
	}
	return append([]domain.State(nil), c.States...), nil
}

// SelectFields returns the class columns; every declared field is a text column.
func (r *Remote) SelectFields(_ context.Context, docType domain.DocumentType) ([]domain.SelectField, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.call("SelectFields"); err != nil {
		return nil, err
	}
	c, ok := r.classByID(docType.ID)
	if !ok {
		return nil, fmt.Errorf("document type %d: %w", docType.ID, domain.ErrNotFound)
	}
	fields := []domain.SelectField{{Name: domain.ColumnDocNumber}, {Name: domain.ColumnWorkflow}}
	for _, f := range c.Fields {
		fields = append(fields, domain.SelectField{Name: f, Text: true})
	}
	return fields, nil
}

// AdditionalFields returns the class's additional fields.
func (r *Remote) AdditionalFields(_ context.Context, docType domain.DocumentType) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.call("AdditionalFields"); err != nil {
		return nil, err
	}
	c, ok := r.classByID(docType.ID)
	if !ok {
		return nil, fmt.Errorf("document type %d: %w", docType.ID, domain.ErrNotFound)
	}
	return append([]string(nil), c.Additional...), nil
}

func (r *Remote) classByID(id int) (Class, bool) {
	for _, c := range r.classes {
		if c.Type.ID == id {
			return c, true
		}
	}
	return Class{}, false
}

// ==================== SearchAPI ====================

// Search filters profiles of the query's class, in storage order.
func (r *Remote) Search(ctx context.Context, query domain.SearchQuery) ([]domain.Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.call("Search"); err != nil {
		return nil, err
	}

	var rows []domain.Row
	for _, n := range r.order {
		p, ok := r.profiles[n]
		if !ok || p.ClassKey != query.DocumentType.Key {
			continue
		}
		if !matches(p, query.Filters) {
			continue
		}
		cols := map[string]any{
			domain.ColumnDocNumber: p.DocNumber,
			domain.ColumnWorkflow:  p.Workflow,
		}
		for _, s := range query.Select {
			if v, ok := p.Fields[s]; ok {
				cols[s] = v
			}
		}
		rows = append(rows, domain.Row{Columns: cols})
	}
	return rows, nil
}

func matches(p *Profile, filters []domain.Filter) bool {
	for _, f := range filters {
		var actual any
		switch f.Field {
		case domain.FieldStatus:
			actual = p.State
		case domain.ColumnDocumentType:
			actual = p.ClassKey
		default:
			actual = p.Fields[f.Field]
		}
		equal := fmt.Sprint(actual) == fmt.Sprint(f.Value)
		switch f.Operator {
		case domain.OpNotEqual:
			if equal {
				return false
			}
		default:
			if !equal {
				return false
			}
		}
	}
	return true
}

// ==================== ProfileAPI ====================

// GetSchema returns a profile's editable fields.
func (r *Remote) GetSchema(_ context.Context, docNumber int, forEdit bool) (*domain.Schema, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	method := "GetSchema"
	if forEdit {
		method = "GetSchemaForEdit"
	}
	if err := r.call(method); err != nil {
		return nil, err
	}
	p, ok := r.profiles[docNumber]
	if !ok {
		return nil, fmt.Errorf("profile %d: %w", docNumber, domain.ErrNotFound)
	}
	c := r.classes[p.ClassKey]

	wf := p.Workflow
	schema := &domain.Schema{
		DocNumber:    p.DocNumber,
		DocumentType: p.ClassKey,
		State:        p.State,
		Workflow:     &wf,
		Fields:       baseFields(c),
	}
	for i := range schema.Fields {
		f := &schema.Fields[i]
		switch f.ClassName {
		case domain.FieldClassState:
			f.Value = p.State
		default:
			f.Value = p.Fields[f.Name]
		}
	}
	return schema, nil
}

// NewSchema returns a blank schema for a class.
func (r *Remote) NewSchema(_ context.Context, docType domain.DocumentType) (*domain.Schema, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.call("NewSchema"); err != nil {
		return nil, err
	}
	c, ok := r.classes[docType.Key]
	if !ok {
		return nil, fmt.Errorf("document type %s: %w", docType.Key, domain.ErrNotFound)
	}
	return &domain.Schema{DocumentType: c.Type.Key, Fields: baseFields(c)}, nil
}

func baseFields(c Class) []domain.SchemaField {
	fields := []domain.SchemaField{
		{Name: domain.FieldDocName},
		{Name: domain.FieldDocDate},
		{Name: domain.FieldStatus, ClassName: domain.FieldClassState},
	}
	for _, name := range append(append([]string(nil), c.Fields...), c.Additional...) {
		fields = append(fields, domain.SchemaField{Name: name})
	}
	return fields
}

// Create stores a new profile.
func (r *Remote) Create(_ context.Context, schema *domain.Schema, barcode bool) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	method := "Create"
	if barcode {
		method = "CreateForBarcode"
	}
	if err := r.call(method); err != nil {
		return 0, err
	}
	if _, ok := r.classes[schema.DocumentType]; !ok {
		return 0, fmt.Errorf("document type %s: %w", schema.DocumentType, domain.ErrInvalidInput)
	}
	if err := r.checkBuffers(schema); err != nil {
		return 0, err
	}

	p := &Profile{
		DocNumber:   r.nextDoc,
		ClassKey:    schema.DocumentType,
		State:       schema.State,
		Fields:      make(map[string]any),
		Attachments: append([]string(nil), schema.Attachments...),
		From:        schema.From,
		To:          append([]domain.Contact(nil), schema.To...),
		Barcode:     barcode,
	}
	r.nextDoc++
	writeFields(p, schema)
	if schema.Document != nil {
		p.Document = append([]string(nil), schema.Document.BufferIDs...)
	}
	r.profiles[p.DocNumber] = p
	r.order = append(r.order, p.DocNumber)
	return p.DocNumber, nil
}

// Update writes a schema over an existing profile.
func (r *Remote) Update(_ context.Context, docNumber int, schema *domain.Schema) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.call("Update"); err != nil {
		return err
	}
	p, ok := r.profiles[docNumber]
	if !ok {
		return fmt.Errorf("profile %d: %w", docNumber, domain.ErrNotFound)
	}
	if err := r.checkBuffers(schema); err != nil {
		return err
	}
	writeFields(p, schema)
	if schema.State != "" {
		p.State = schema.State
	}
	if schema.Document != nil {
		p.Document = append([]string(nil), schema.Document.BufferIDs...)
	}
	return nil
}

func (r *Remote) checkBuffers(schema *domain.Schema) error {
	var ids []string
	if schema.Document != nil {
		ids = append(ids, schema.Document.BufferIDs...)
	}
	ids = append(ids, schema.Attachments...)
	for _, id := range ids {
		if _, ok := r.buffers[id]; !ok {
			return fmt.Errorf("buffer %s: %w", id, domain.ErrNotFound)
		}
	}
	return nil
}

func writeFields(p *Profile, schema *domain.Schema) {
	for _, f := range schema.Fields {
		if f.ClassName == domain.FieldClassState {
			if s, ok := f.Value.(string); ok && s != "" {
				p.State = s
			}
			continue
		}
		if f.Value != nil {
			p.Fields[f.Name] = f.Value
		}
	}
	if schema.State != "" {
		p.State = schema.State
	}
}

// Delete removes a profile.
func (r *Remote) Delete(_ context.Context, docNumber int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.call("Delete"); err != nil {
		return err
	}
	if _, ok := r.profiles[docNumber]; !ok {
		return fmt.Errorf("profile %d: %w", docNumber, domain.ErrNotFound)
	}
	delete(r.profiles, docNumber)
	return nil
}

// ==================== BufferAPI & DocumentAPI ====================

// Insert stages content in the buffer store.
func (r *Remote) Insert(ctx context.Context, name string, rd io.Reader) ([]string, error) {
	return r.stage(ctx, "BufferInsert", name, rd, false)
}

// CacheInsert stages content in the cache store.
func (r *Remote) CacheInsert(ctx context.Context, name string, rd io.Reader) ([]string, error) {
	return r.stage(ctx, "CacheInsert", name, rd, true)
}

func (r *Remote) stage(ctx context.Context, method, name string, rd io.Reader, cache bool) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := io.ReadAll(rd)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.call(method); err != nil {
		return nil, err
	}
	r.nextBuffer++
	id := fmt.Sprintf("buf-%d", r.nextBuffer)
	r.buffers[id] = Buffer{Name: name, Data: data, Cache: cache}
	return []string{id}, nil
}

// Download returns the content of a profile's document.
func (r *Remote) Download(_ context.Context, docNumber int, _ bool) (io.ReadCloser, string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.call("Download"); err != nil {
		return nil, "", err
	}
	p, ok := r.profiles[docNumber]
	if !ok || len(p.Document) == 0 {
		return nil, "", fmt.Errorf("document %d: %w", docNumber, domain.ErrNotFound)
	}
	b := r.buffers[p.Document[0]]
	return io.NopCloser(bytes.NewReader(b.Data)), b.Name, nil
}

// ==================== CheckInOutAPI ====================

// CheckOut locks a profile's document.
func (r *Remote) CheckOut(_ context.Context, docNumber int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.call("CheckOut"); err != nil {
		return err
	}
	p, ok := r.profiles[docNumber]
	if !ok {
		return fmt.Errorf("profile %d: %w", docNumber, domain.ErrNotFound)
	}
	p.CheckedOut = true
	return nil
}

// CheckIn replaces a checked-out document.
func (r *Remote) CheckIn(_ context.Context, docNumber int, bufferID string, _ int, undoCheckOut bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.call("CheckIn"); err != nil {
		return err
	}
	p, ok := r.profiles[docNumber]
	if !ok {
		return fmt.Errorf("profile %d: %w", docNumber, domain.ErrNotFound)
	}
	if !p.CheckedOut {
		return fmt.Errorf("profile %d is not checked out: %w", docNumber, domain.ErrInvalidInput)
	}
	if _, ok := r.buffers[bufferID]; !ok {
		return fmt.Errorf("buffer %s: %w", bufferID, domain.ErrNotFound)
	}
	p.Document = []string{bufferID}
	if undoCheckOut {
		p.CheckedOut = false
	}
	return nil
}

// CheckInForTask records a task-scoped check-in.
func (r *Remote) CheckInForTask(_ context.Context, _, _ int, bufferID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.call("CheckInForTask"); err != nil {
		return err
	}
	if _, ok := r.buffers[bufferID]; !ok {
		return fmt.Errorf("buffer %s: %w", bufferID, domain.ErrNotFound)
	}
	return nil
}

// ==================== WorkflowAPI ====================

// HistoryByDocNumber returns a document's workflow instances.
func (r *Remote) HistoryByDocNumber(_ context.Context, docNumber int) ([]domain.WorkflowRef, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.call("WorkflowHistory"); err != nil {
		return nil, err
	}
	return append([]domain.WorkflowRef(nil), r.workflows[docNumber]...), nil
}

// TaskHistory returns a process's task-work entries.
func (r *Remote) TaskHistory(_ context.Context, processID int) ([]domain.TaskWork, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.call("TaskHistory"); err != nil {
		return nil, err
	}
	return append([]domain.TaskWork(nil), r.tasks[processID]...), nil
}

// StopProcess records a stop request.
func (r *Remote) StopProcess(_ context.Context, _ int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.call("StopProcess")
}

// DeleteProcess removes a process from every document's history.
func (r *Remote) DeleteProcess(_ context.Context, processID int, _ bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.call("DeleteProcess"); err != nil {
		return err
	}
	for doc, refs := range r.workflows {
		kept := refs[:0]
		for _, ref := range refs {
			if ref.ProcessID != processID {
				kept = append(kept, ref)
			}
		}
		r.workflows[doc] = kept
	}
	delete(r.tasks, processID)
	return nil
}

// FreeUserConstraint records a user-constraint release.
func (r *Remote) FreeUserConstraint(_ context.Context, _ int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.call("FreeUserConstraint")
}

// FreeDocumentConstraint clears a document's workflow flag.
func (r *Remote) FreeDocumentConstraint(_ context.Context, docNumber int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.call("FreeDocumentConstraint"); err != nil {
		return err
	}
	if p, ok := r.profiles[docNumber]; ok {
		p.Workflow = false
	}
	return nil
}

// ==================== AddressBookAPI ====================

// ContactByCode returns a registered contact.
func (r *Remote) ContactByCode(_ context.Context, code string, categoryID int) (*domain.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.call("ContactByCode"); err != nil {
		return nil, err
	}
	c, ok := r.contacts[code]
	if !ok {
		return nil, fmt.Errorf("contact %s in book %d: %w", code, categoryID, domain.ErrNotFound)
	}
	c.AddressBookID = categoryID
	return &c, nil
}

// ContactByUsername returns a user's address-book entry.
func (r *Remote) ContactByUsername(_ context.Context, username string, kind domain.ContactKind) (*domain.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.call("ContactByUsername"); err != nil {
		return nil, err
	}
	c, ok := r.users[strings.ToLower(username)]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", username, domain.ErrNotFound)
	}
	c.Kind = kind
	return &c, nil
}

// ==================== AttachmentAPI ====================

// AttachmentsByDocNumber lists a profile's attachments.
func (r *Remote) AttachmentsByDocNumber(_ context.Context, docNumber int) ([]domain.Attachment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.call("AttachmentsByDocNumber"); err != nil {
		return nil, err
	}
	if _, ok := r.profiles[docNumber]; !ok {
		return nil, fmt.Errorf("profile %d: %w", docNumber, domain.ErrNotFound)
	}
	out := make([]domain.Attachment, 0, len(r.attachments[docNumber]))
	for _, a := range r.attachments[docNumber] {
		out = append(out, a.Attachment)
	}
	return out, nil
}

// DownloadAttachment returns an attachment's content.
func (r *Remote) DownloadAttachment(_ context.Context, attachmentID int) (io.ReadCloser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.call("DownloadAttachment"); err != nil {
		return nil, err
	}
	for _, list := range r.attachments {
		for _, a := range list {
			if a.ID == attachmentID {
				return io.NopCloser(bytes.NewReader(a.data)), nil
			}
		}
	}
	return nil, fmt.Errorf("attachment %d: %w", attachmentID, domain.ErrNotFound)
}

// ==================== TaskAPI ====================

// TaskWork returns a registered task-work entry.
func (r *Remote) TaskWork(_ context.Context, taskWorkID int) (*domain.TaskWork, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.call("TaskWork"); err != nil {
		return nil, err
	}
	t, ok := r.taskWorks[taskWorkID]
	if !ok {
		return nil, fmt.Errorf("task work %d: %w", taskWorkID, domain.ErrNotFound)
	}
	return &t, nil
}

// ProcessDocuments lists a process's documents.
func (r *Remote) ProcessDocuments(_ context.Context, processID int) ([]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.call("ProcessDocuments"); err != nil {
		return nil, err
	}
	return append([]int(nil), r.processDocs[processID]...), nil
}

// ProcessAttachments lists a process's attachment rows.
func (r *Remote) ProcessAttachments(_ context.Context, processID int) ([]domain.ProcessAttachment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.call("ProcessAttachments"); err != nil {
		return nil, err
	}
	return append([]domain.ProcessAttachment(nil), r.processAttached[processID]...), nil
}

// AddTaskAttachment attaches a staged buffer to a task work.
func (r *Remote) AddTaskAttachment(_ context.Context, taskWorkID int, bufferID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.call("AddTaskAttachment"); err != nil {
		return err
	}
	if _, ok := r.taskWorks[taskWorkID]; !ok {
		return fmt.Errorf("task work %d: %w", taskWorkID, domain.ErrNotFound)
	}
	if _, ok := r.buffers[bufferID]; !ok {
		return fmt.Errorf("buffer %s: %w", bufferID, domain.ErrNotFound)
	}
	r.taskAttachments[taskWorkID] = append(r.taskAttachments[taskWorkID], bufferID)
	return nil
}

// DocNumbers returns stored document numbers in ascending order.
func (r *Remote) DocNumbers() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	nums := make([]int, 0, len(r.profiles))
	for n := range r.profiles {
		nums = append(nums, n)
	}
	sort.Ints(nums)
	return nums
}
