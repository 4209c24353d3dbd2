package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/custodia-labs/axrepo/internal/core/domain"
	"github.com/custodia-labs/axrepo/internal/core/ports/driven"
	"github.com/custodia-labs/axrepo/internal/logger"
)

// SearchEngine runs class-scoped profile searches and resolves them to a
// single document number.
type SearchEngine struct {
	types  driven.DocumentTypeAPI
	search driven.SearchAPI
}

// NewSearchEngine creates a search engine.
func NewSearchEngine(types driven.DocumentTypeAPI, search driven.SearchAPI) *SearchEngine {
	return &SearchEngine{types: types, search: search}
}

// Search returns the rows matching criteria.
//
// Soft-deleted profiles are excluded unless criteria.IncludeDeleted is set.
// Every row carries the DOCNUMBER and WORKFLOW columns.
func (e *SearchEngine) Search(ctx context.Context, criteria domain.SearchCriteria) ([]domain.Row, error) {
	query, err := e.buildQuery(ctx, criteria)
	if err != nil {
		return nil, err
	}

	logger.Debug("search %s: %d filters, %d columns", criteria.ClassKey, len(query.Filters), len(query.Select))
	rows, err := e.search.Search(ctx, *query)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", criteria.ClassKey, err)
	}
	logger.Debug("search %s: %d rows", criteria.ClassKey, len(rows))
	return rows, nil
}

func (e *SearchEngine) buildQuery(ctx context.Context, criteria domain.SearchCriteria) (*domain.SearchQuery, error) {
	if criteria.ClassKey == "" {
		return nil, fmt.Errorf("search: class key is required: %w", domain.ErrInvalidInput)
	}

	docType, err := e.types.DocumentType(ctx, criteria.ClassKey)
	if err != nil {
		return nil, fmt.Errorf("resolve class %s: %w", criteria.ClassKey, err)
	}

	query := &domain.SearchQuery{
		DocumentType: *docType,
		Filters: []domain.Filter{
			{Field: domain.ColumnDocumentType, Operator: domain.OpEqual, Value: docType.Key},
		},
	}

	// Class-specific fields are selected alongside the text columns.
	additional, err := e.types.AdditionalFields(ctx, *docType)
	if err != nil {
		return nil, fmt.Errorf("additional fields of %s: %w", criteria.ClassKey, err)
	}

	for _, name := range sortedKeys(criteria.Values) {
		query.Filters = append(query.Filters, domain.Filter{
			Field:    name,
			Operator: domain.OpEqual,
			Value:    criteria.Values[name],
		})
	}
	if !criteria.IncludeDeleted {
		query.Filters = append(query.Filters, domain.Filter{
			Field:    domain.FieldStatus,
			Operator: domain.OpNotEqual,
			Value:    domain.StatusDeleted,
		})
	}

	query.Select = []string{domain.ColumnWorkflow, domain.ColumnDocNumber}
	if criteria.SelectAll {
		columns, err := e.types.SelectFields(ctx, *docType)
		if err != nil {
			return nil, fmt.Errorf("select fields of %s: %w", criteria.ClassKey, err)
		}
		for _, c := range columns {
			if c.Text && !contains(query.Select, c.Name) {
				query.Select = append(query.Select, c.Name)
			}
		}
		for _, name := range additional {
			if !contains(query.Select, name) {
				query.Select = append(query.Select, name)
			}
		}
	}

	return query, nil
}

// ResolveDocumentNumber returns the single document number matching criteria.
//
// No rows yields domain.ErrNotFound. More than one row yields a
// *domain.AmbiguousError unless getFirst is set, in which case the lowest
// document number wins.
func (e *SearchEngine) ResolveDocumentNumber(ctx context.Context, criteria domain.SearchCriteria, getFirst bool) (int, error) {
	rows, err := e.Search(ctx, criteria)
	if err != nil {
		return 0, err
	}
	return pickDocNumber(rows, getFirst)
}

// ResolveModel resolves m by its primary-key values.
// A model without primary keys, or with a key left unset, yields ErrInvalidInput.
func (e *SearchEngine) ResolveModel(ctx context.Context, m domain.Model, includeDeleted, getFirst bool) (int, error) {
	criteria, err := modelCriteria(m, includeDeleted)
	if err != nil {
		return 0, err
	}
	return e.ResolveDocumentNumber(ctx, criteria, getFirst)
}

func modelCriteria(m domain.Model, includeDeleted bool) (domain.SearchCriteria, error) {
	if len(m.PrimaryKeys()) == 0 {
		return domain.SearchCriteria{}, fmt.Errorf("%s model has no primary keys: %w",
			m.Class().DocumentType, domain.ErrInvalidInput)
	}
	values, err := domain.KeyCriteria(m)
	if err != nil {
		return domain.SearchCriteria{}, err
	}
	return domain.SearchCriteria{
		ClassKey:       m.Class().DocumentType,
		Values:         values,
		IncludeDeleted: includeDeleted,
	}, nil
}

func pickDocNumber(rows []domain.Row, getFirst bool) (int, error) {
	switch {
	case len(rows) == 0:
		return 0, domain.ErrNotFound
	case len(rows) > 1 && !getFirst:
		return 0, &domain.AmbiguousError{Count: len(rows)}
	}

	nums := make([]int, 0, len(rows))
	for _, row := range rows {
		n, err := row.DocNumber()
		if err != nil {
			return 0, err
		}
		nums = append(nums, n)
	}
	sort.Ints(nums)
	return nums[0], nil
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
