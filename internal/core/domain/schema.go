package domain

// FieldClassState is the field class carrying a profile's status.
const FieldClassState = "StateFieldDTO"

// SchemaField is one editable field of a remote profile.
type SchemaField struct {
	Name      string `json:"name"`
	ClassName string `json:"className,omitempty"`
	Label     string `json:"externalId,omitempty"`
	Value     any    `json:"value"`
}

// FileRef points a profile at staged buffer ids.
type FileRef struct {
	BufferIDs []string `json:"bufferIds"`
}

// Schema is the editable representation of a profile.
type Schema struct {
	DocNumber    int           `json:"docNumber,omitempty"`
	DocumentType string        `json:"documentType,omitempty"`
	State        string        `json:"state,omitempty"`
	Workflow     *bool         `json:"workflow,omitempty"`
	Fields       []SchemaField `json:"fields"`
	From         *Contact      `json:"from,omitempty"`
	To           []Contact     `json:"to,omitempty"`
	Document     *FileRef      `json:"document,omitempty"`
	Attachments  []string      `json:"attachments,omitempty"`
}

// Field returns the schema field with the given name.
func (s *Schema) Field(name string) (*SchemaField, bool) {
	for i := range s.Fields {
		if s.Fields[i].Name == name {
			return &s.Fields[i], true
		}
	}
	return nil, false
}

// SetField assigns value to a declared field.
// Returns a *FieldError wrapping ErrFieldNotFound for undeclared names.
func (s *Schema) SetField(name string, value any) error {
	f, ok := s.Field(name)
	if !ok {
		return &FieldError{Name: name}
	}
	f.Value = value
	return nil
}

// SetState assigns the profile status.
func (s *Schema) SetState(state string) {
	s.State = state
	for i := range s.Fields {
		if s.Fields[i].ClassName == FieldClassState {
			s.Fields[i].Value = state
		}
	}
}

// CurrentState returns the profile status, reading the state field when
// the top-level State is empty.
func (s *Schema) CurrentState() string {
	if s.State != "" {
		return s.State
	}
	for _, f := range s.Fields {
		if f.ClassName == FieldClassState {
			if v, ok := f.Value.(string); ok {
				return v
			}
		}
	}
	return ""
}

// AddFields appends fields not already declared.
func (s *Schema) AddFields(fields ...SchemaField) {
	for _, f := range fields {
		if _, ok := s.Field(f.Name); ok {
			continue
		}
		s.Fields = append(s.Fields, f)
	}
}

// SetFrom sets the sender contact.
func (s *Schema) SetFrom(c Contact) {
	c.Kind = ContactFrom
	s.From = &c
}

// AddTo appends a recipient contact.
func (s *Schema) AddTo(c Contact) {
	c.Kind = ContactTo
	s.To = append(s.To, c)
}
