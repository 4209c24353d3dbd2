package domain

import (
	"fmt"
	"strconv"
)

// Well-known column and status values.
const (
	// ColumnDocNumber is the document number column present in every row.
	ColumnDocNumber = "DOCNUMBER"

	// ColumnWorkflow reports whether a row's profile is in a workflow.
	ColumnWorkflow = "WORKFLOW"

	// ColumnDocumentType is the class filter column.
	ColumnDocumentType = "DOCUMENTTYPE"

	// FieldStatus is the status filter field.
	FieldStatus = "Stato"

	// StatusDeleted is the elimination marker for soft-deleted profiles.
	StatusDeleted = "ELIMINATO"
)

// SearchCriteria selects profiles of one document class.
type SearchCriteria struct {
	// ClassKey is the document class key (DocumentClass.DocumentType).
	ClassKey string

	// Values are field equality filters.
	Values map[string]any

	// IncludeDeleted disables the implicit status != ELIMINATO filter.
	IncludeDeleted bool

	// SelectAll selects every text column of the class, not only the defaults.
	SelectAll bool
}

// DocumentType identifies a document class on the remote service.
type DocumentType struct {
	ID           int    `json:"id"`
	Key          string `json:"key"`
	DocumentType int    `json:"documentType"`
	Type2        int    `json:"type2"`
	Type3        int    `json:"type3"`
	Description  string `json:"description,omitempty"`
}

// State is a status defined for a document class.
type State struct {
	ID          string `json:"id"`
	Description string `json:"description,omitempty"`
}

// Operator compares a field against a filter value.
type Operator string

const (
	OpEqual    Operator = "eq"
	OpNotEqual Operator = "ne"
)

// Filter is one condition of a search query.
type Filter struct {
	Field    string   `json:"field"`
	Operator Operator `json:"operator"`
	Value    any      `json:"value"`
}

// SelectField is a column that may be selected in a search.
type SelectField struct {
	Name string `json:"name"`
	// Text marks free-text columns, selected when SelectAll is requested.
	Text bool `json:"text,omitempty"`
}

// SearchQuery is the fully built request sent to the search endpoint.
type SearchQuery struct {
	DocumentType DocumentType `json:"documentType"`
	Filters      []Filter     `json:"filters"`
	Select       []string     `json:"select"`
}

// Row is one search result.
type Row struct {
	Columns map[string]any `json:"columns"`
}

// Get returns a column value.
func (r Row) Get(column string) (any, bool) {
	v, ok := r.Columns[column]
	return v, ok
}

// DocNumber returns the row's document number.
func (r Row) DocNumber() (int, error) {
	v, ok := r.Columns[ColumnDocNumber]
	if !ok {
		return 0, fmt.Errorf("row has no %s column: %w", ColumnDocNumber, ErrInvalidInput)
	}
	return toInt(v)
}

func toInt(v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int32:
		return int(n), nil
	case int64:
		return int(n), nil
	case float64:
		return int(n), nil
	case fmt.Stringer:
		return strconv.Atoi(n.String())
	case string:
		return strconv.Atoi(n)
	default:
		return 0, fmt.Errorf("unexpected %s value %v: %w", ColumnDocNumber, v, ErrInvalidInput)
	}
}
