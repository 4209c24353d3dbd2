package arxivar

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/custodia-labs/axrepo/internal/core/domain"
)

// fieldTypeText marks free-text select columns.
const fieldTypeText = 2

// ==================== Document types ====================

// DocumentType returns the class with the given key.
func (c *Client) DocumentType(ctx context.Context, key string) (*domain.DocumentType, error) {
	var types []domain.DocumentType
	err := c.call(ctx, request{
		op:     "list document types",
		method: http.MethodGet,
		path:   "api/DocumentTypes",
		query:  c.aooQuery(),
	}, &types)
	if err != nil {
		return nil, err
	}
	for _, t := range types {
		if t.Key == key {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("document type %s: %w", key, domain.ErrNotFound)
}

// States returns the states defined for a class.
func (c *Client) States(ctx context.Context, docTypeID int) ([]domain.State, error) {
	var states []domain.State
	err := c.call(ctx, request{
		op:     "list states",
		method: http.MethodGet,
		path:   "api/States/" + strconv.Itoa(docTypeID),
	}, &states)
	return states, err
}

type selectField struct {
	Name      string `json:"name"`
	FieldType int    `json:"fieldType"`
}

// SelectFields returns the columns selectable for a class.
func (c *Client) SelectFields(ctx context.Context, docType domain.DocumentType) ([]domain.SelectField, error) {
	var fields []selectField
	err := c.call(ctx, request{
		op:     "list select fields",
		method: http.MethodGet,
		path:   "api/Searches/Select/" + classPath(docType),
	}, &fields)
	if err != nil {
		return nil, err
	}

	result := make([]domain.SelectField, 0, len(fields))
	for _, f := range fields {
		result = append(result, domain.SelectField{Name: f.Name, Text: f.FieldType == fieldTypeText})
	}
	return result, nil
}

// AdditionalFields returns the class-specific search fields.
func (c *Client) AdditionalFields(ctx context.Context, docType domain.DocumentType) ([]string, error) {
	var fields []domain.SchemaField
	err := c.call(ctx, request{
		op:     "list additional search fields",
		method: http.MethodGet,
		path:   "api/Searches/Additional/" + classPath(docType),
		query:  c.aooQuery(),
	}, &fields)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(fields))
	for _, f := range fields {
		names = append(names, f.Name)
	}
	return names, nil
}

// ==================== Search ====================

type searchRow struct {
	Columns []struct {
		ID    string `json:"id"`
		Value any    `json:"value"`
	} `json:"columns"`
}

// Search returns result rows in the order the service produced them.
func (c *Client) Search(ctx context.Context, query domain.SearchQuery) ([]domain.Row, error) {
	var raw []searchRow
	err := c.call(ctx, request{
		op:     "search",
		method: http.MethodPost,
		path:   "api/Searches/Search",
		body:   query,
	}, &raw)
	if err != nil {
		return nil, err
	}

	rows := make([]domain.Row, 0, len(raw))
	for _, r := range raw {
		cols := make(map[string]any, len(r.Columns))
		for _, col := range r.Columns {
			cols[col.ID] = col.Value
		}
		rows = append(rows, domain.Row{Columns: cols})
	}
	return rows, nil
}

// ==================== Profiles ====================

// GetSchema fetches the editable field set of a profile.
func (c *Client) GetSchema(ctx context.Context, docNumber int, forEdit bool) (*domain.Schema, error) {
	var schema domain.Schema
	err := c.call(ctx, request{
		op:     fmt.Sprintf("get profile %d", docNumber),
		method: http.MethodGet,
		path:   "api/Profiles/Schema/" + strconv.Itoa(docNumber),
		query:  url.Values{"forEdit": {strconv.FormatBool(forEdit)}},
	}, &schema)
	if err != nil {
		return nil, err
	}
	if schema.DocNumber == 0 {
		schema.DocNumber = docNumber
	}
	return &schema, nil
}

// NewSchema returns a blank schema bound to a class, with its additional fields.
func (c *Client) NewSchema(ctx context.Context, docType domain.DocumentType) (*domain.Schema, error) {
	var schema domain.Schema
	err := c.call(ctx, request{
		op:     "new profile",
		method: http.MethodGet,
		path:   "api/Profiles/New",
		query:  url.Values{"documentType": {docType.Key}},
	}, &schema)
	if err != nil {
		return nil, err
	}

	var additional []domain.SchemaField
	err = c.call(ctx, request{
		op:     "list additional profile fields",
		method: http.MethodGet,
		path:   "api/Profiles/Additional/" + classPath(docType),
		query:  c.aooQuery(),
	}, &additional)
	if err != nil {
		return nil, err
	}

	schema.DocumentType = docType.Key
	schema.AddFields(additional...)
	return &schema, nil
}

type createResponse struct {
	DocNumber int `json:"docNumber"`
}

// Create submits a new profile and returns its document number.
func (c *Client) Create(ctx context.Context, schema *domain.Schema, barcode bool) (int, error) {
	path := "api/Profiles"
	if barcode {
		path = "api/Profiles/ForBarcode"
	}

	var out createResponse
	err := c.call(ctx, request{
		op:     "create profile",
		method: http.MethodPost,
		path:   path,
		body:   schema,
	}, &out)
	if err != nil {
		return 0, err
	}
	if out.DocNumber == 0 {
		return 0, fmt.Errorf("create profile: no document number returned: %w", domain.ErrTransport)
	}
	return out.DocNumber, nil
}

// Update writes the schema's fields and document reference.
func (c *Client) Update(ctx context.Context, docNumber int, schema *domain.Schema) error {
	return c.call(ctx, request{
		op:     fmt.Sprintf("update profile %d", docNumber),
		method: http.MethodPut,
		path:   "api/Profiles/" + strconv.Itoa(docNumber),
		body:   schema,
	}, nil)
}

// Delete removes a profile permanently.
func (c *Client) Delete(ctx context.Context, docNumber int) error {
	return c.call(ctx, request{
		op:     fmt.Sprintf("delete profile %d", docNumber),
		method: http.MethodDelete,
		path:   "api/Profiles/" + strconv.Itoa(docNumber),
	}, nil)
}

// classPath renders the class triple used by class-scoped endpoints.
func classPath(docType domain.DocumentType) string {
	return fmt.Sprintf("%d/%d/%d", docType.DocumentType, docType.Type2, docType.Type3)
}

func (c *Client) aooQuery() url.Values {
	if c.settings.AOO == "" {
		return nil
	}
	return url.Values{"aoo": {c.settings.AOO}}
}
