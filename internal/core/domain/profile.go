package domain

import (
	"fmt"
	"strings"
	"time"
)

// Reserved field names shared by every document class.
const (
	FieldDocName = "DOCNAME"
	FieldDocDate = "DataDoc"
	FieldTo      = "TO"
	FieldFrom    = "FROM"
	FieldCC      = "CC"

	// FieldFromExternalID and FieldToExternalID link a profile to address-book
	// contacts. Not every class declares them, so writes to them tolerate
	// ErrFieldNotFound.
	FieldFromExternalID = "From_ExternalId"
	FieldToExternalID   = "To_ExternalId"
	FieldCCExternalID   = "Cc_ExternalId"
)

// DocumentClass describes the remote document class a model belongs to.
type DocumentClass struct {
	// DocumentType is the class key known to the remote service (e.g. "FATTURE").
	DocumentType string

	// SkipKeyCheck disables the primary-key search performed before create.
	SkipKeyCheck bool

	// Barcode creates profiles through the barcode endpoint.
	Barcode bool

	// InitialStatus is assigned on create when the model carries no status.
	// Empty means the class's first defined state.
	InitialStatus string
}

// FilePayload is an in-memory file with the name it should be stored under.
type FilePayload struct {
	Name  string
	Bytes []byte
}

// Header holds the reserved attributes every profile carries.
type Header struct {
	// DocNumber is assigned by the remote service on create.
	// A non-nil DocNumber means the model is already located.
	DocNumber *int

	Status   string
	DocName  string
	DocDate  *time.Time
	Workflow *bool

	// File and FilePath are mutually exclusive sources of the main document.
	File     *FilePayload
	FilePath string

	Attachments       []string
	AttachmentBlobs   []FilePayload
	RemoteAttachments []string

	// User fills the sender from the user's address-book entry.
	User string

	SenderCode   string
	SenderBookID *int

	RecipientCodes  []string
	RecipientBookID *int
}

// HasFile reports whether the header carries a main document payload.
func (h *Header) HasFile() bool {
	return h.File != nil || h.FilePath != ""
}

// InWorkflow reports whether the profile participates in a workflow.
func (h *Header) InWorkflow() bool {
	return h.Workflow != nil && *h.Workflow
}

// Field is a declared field name with its value.
type Field struct {
	Name  string
	Value any
}

// Model is implemented once per document class.
type Model interface {
	// Class returns the document class attributes.
	Class() DocumentClass

	// Header returns the reserved attributes; callers may mutate them.
	Header() *Header

	// Fields returns the declared fields in application order.
	Fields() []Field

	// PrimaryKeys names the fields identifying a profile within its class.
	PrimaryKeys() []string
}

// Hydrator is implemented by models that can be populated from a fetched schema.
type Hydrator interface {
	Model
	Hydrate(schema *Schema) error
}

// KeyCriteria returns the primary-key field values of m.
// A declared key with no value (absent or nil) yields ErrInvalidInput.
func KeyCriteria(m Model) (map[string]any, error) {
	keys := m.PrimaryKeys()
	values := make(map[string]any, len(keys))
	for _, k := range keys {
		var found bool
		for _, f := range m.Fields() {
			if strings.EqualFold(f.Name, k) && f.Value != nil {
				values[k] = f.Value
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("key field %s has no value: %w", k, ErrInvalidInput)
		}
	}
	return values, nil
}

// IsPartyField reports whether name is filled from the address book rather
// than written directly.
func IsPartyField(name string) bool {
	for _, n := range []string{FieldTo, FieldFrom, FieldCC} {
		if strings.EqualFold(name, n) {
			return true
		}
	}
	switch name {
	case FieldFromExternalID, FieldToExternalID, FieldCCExternalID:
		return true
	}
	return false
}

// Record is a class-agnostic Model driven by plain values.
// It backs the CLI and any caller that has no compiled model for a class.
type Record struct {
	DocClass DocumentClass
	Head     Header
	Values   []Field
	Keys     []string
}

// Class returns the record's document class.
func (r *Record) Class() DocumentClass { return r.DocClass }

// Header returns the record's reserved attributes.
func (r *Record) Header() *Header { return &r.Head }

// Fields returns the record's declared fields.
func (r *Record) Fields() []Field { return r.Values }

// PrimaryKeys returns the record's key field names.
func (r *Record) PrimaryKeys() []string { return r.Keys }

// Set assigns a field value, replacing an existing one with the same name.
func (r *Record) Set(name string, value any) {
	for i := range r.Values {
		if r.Values[i].Name == name {
			r.Values[i].Value = value
			return
		}
	}
	r.Values = append(r.Values, Field{Name: name, Value: value})
}

// Get returns a field value by name.
func (r *Record) Get(name string) (any, bool) {
	for _, f := range r.Values {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

// Hydrate copies every schema field into the record.
func (r *Record) Hydrate(schema *Schema) error {
	n := schema.DocNumber
	r.Head.DocNumber = &n
	r.Head.Status = schema.State
	r.Head.Workflow = schema.Workflow
	r.Values = r.Values[:0]
	for _, f := range schema.Fields {
		if f.Name == FieldDocName {
			if s, ok := f.Value.(string); ok {
				r.Head.DocName = s
			}
			continue
		}
		r.Values = append(r.Values, Field{Name: f.Name, Value: f.Value})
	}
	return nil
}
