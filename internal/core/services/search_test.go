package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/axrepo/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/axrepo/internal/core/domain"
)

// invoiceClass is the document class shared by the service tests.
var invoiceClass = memory.Class{
	Type:       domain.DocumentType{ID: 7, Key: "FATTURE", DocumentType: 2},
	States:     []domain.State{{ID: "BOZZA"}, {ID: "VALIDA"}, {ID: domain.StatusDeleted}},
	Fields:     []string{"NUMERO", "ANNO", "CLIENTE", domain.FieldFromExternalID},
	Additional: []string{"NOTE"},
}

func newTestRemote(t *testing.T) *memory.Remote {
	t.Helper()
	remote := memory.NewRemote("secret")
	remote.AddClass(invoiceClass)
	return remote
}

func addInvoice(remote *memory.Remote, docNumber int, numero, state string) int {
	return remote.AddProfile(memory.Profile{
		DocNumber: docNumber,
		ClassKey:  "FATTURE",
		State:     state,
		Fields:    map[string]any{"NUMERO": numero, "ANNO": 2024},
	})
}

func TestSearchEngine_Search(t *testing.T) {
	remote := newTestRemote(t)
	addInvoice(remote, 1, "A-1", "VALIDA")
	addInvoice(remote, 2, "A-2", "VALIDA")
	engine := NewSearchEngine(remote, remote)

	rows, err := engine.Search(context.Background(), domain.SearchCriteria{
		ClassKey: "FATTURE",
		Values:   map[string]any{"NUMERO": "A-2"},
	})
	require.NoError(t, err)
	require.Len(t, rows, 1)

	n, err := rows[0].DocNumber()
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, ok := rows[0].Get(domain.ColumnWorkflow)
	assert.True(t, ok)
}

func TestSearchEngine_ExcludesDeleted(t *testing.T) {
	remote := newTestRemote(t)
	addInvoice(remote, 1, "A-1", domain.StatusDeleted)
	engine := NewSearchEngine(remote, remote)
	ctx := context.Background()
	criteria := domain.SearchCriteria{ClassKey: "FATTURE", Values: map[string]any{"NUMERO": "A-1"}}

	rows, err := engine.Search(ctx, criteria)
	require.NoError(t, err)
	assert.Empty(t, rows)

	criteria.IncludeDeleted = true
	rows, err = engine.Search(ctx, criteria)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestSearchEngine_SelectAll(t *testing.T) {
	remote := newTestRemote(t)
	remote.AddProfile(memory.Profile{
		DocNumber: 4,
		ClassKey:  "FATTURE",
		Fields:    map[string]any{"NUMERO": "A-4", "CLIENTE": "ACME", "NOTE": "urgent"},
	})
	engine := NewSearchEngine(remote, remote)

	rows, err := engine.Search(context.Background(), domain.SearchCriteria{ClassKey: "FATTURE", SelectAll: true})
	require.NoError(t, err)
	require.Len(t, rows, 1)

	v, _ := rows[0].Get("CLIENTE")
	assert.Equal(t, "ACME", v)
	v, _ = rows[0].Get("NOTE")
	assert.Equal(t, "urgent", v)
}

func TestSearchEngine_UnknownClass(t *testing.T) {
	remote := newTestRemote(t)
	engine := NewSearchEngine(remote, remote)

	_, err := engine.Search(context.Background(), domain.SearchCriteria{ClassKey: "MISSING"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = engine.Search(context.Background(), domain.SearchCriteria{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSearchEngine_ResolveDocumentNumber(t *testing.T) {
	tests := []struct {
		name     string
		docs     []int
		getFirst bool
		want     int
		wantErr  error
	}{
		{name: "no rows", docs: nil, wantErr: domain.ErrNotFound},
		{name: "no rows with getFirst", docs: nil, getFirst: true, wantErr: domain.ErrNotFound},
		{name: "single row", docs: []int{5}, want: 5},
		{name: "ambiguous", docs: []int{7, 3, 9}, wantErr: domain.ErrAmbiguousResult},
		{name: "lowest wins with getFirst", docs: []int{7, 3, 9}, getFirst: true, want: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			remote := newTestRemote(t)
			for _, n := range tt.docs {
				addInvoice(remote, n, "DUP", "VALIDA")
			}
			engine := NewSearchEngine(remote, remote)

			got, err := engine.ResolveDocumentNumber(context.Background(), domain.SearchCriteria{
				ClassKey: "FATTURE",
				Values:   map[string]any{"NUMERO": "DUP"},
			}, tt.getFirst)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSearchEngine_AmbiguousCarriesCount(t *testing.T) {
	remote := newTestRemote(t)
	addInvoice(remote, 1, "DUP", "VALIDA")
	addInvoice(remote, 2, "DUP", "VALIDA")
	engine := NewSearchEngine(remote, remote)

	_, err := engine.ResolveDocumentNumber(context.Background(), domain.SearchCriteria{
		ClassKey: "FATTURE",
		Values:   map[string]any{"NUMERO": "DUP"},
	}, false)

	var ambiguous *domain.AmbiguousError
	require.True(t, errors.As(err, &ambiguous))
	assert.Equal(t, 2, ambiguous.Count)
}

func TestSearchEngine_ResolveModel(t *testing.T) {
	remote := newTestRemote(t)
	addInvoice(remote, 11, "B-1", "VALIDA")
	addInvoice(remote, 12, "B-2", "VALIDA")
	engine := NewSearchEngine(remote, remote)

	m := &domain.Record{
		DocClass: domain.DocumentClass{DocumentType: "FATTURE"},
		Keys:     []string{"NUMERO"},
		Values:   []domain.Field{{Name: "NUMERO", Value: "B-2"}, {Name: "CLIENTE", Value: "ignored"}},
	}

	n, err := engine.ResolveModel(context.Background(), m, false, false)
	require.NoError(t, err)
	assert.Equal(t, 12, n)
}

func TestSearchEngine_ResolveModelRequiresKeyValues(t *testing.T) {
	remote := newTestRemote(t)
	addInvoice(remote, 1, "B-1", "VALIDA")
	engine := NewSearchEngine(remote, remote)
	ctx := context.Background()

	noKeys := &domain.Record{DocClass: domain.DocumentClass{DocumentType: "FATTURE"}}
	_, err := engine.ResolveModel(ctx, noKeys, false, true)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	unset := &domain.Record{
		DocClass: domain.DocumentClass{DocumentType: "FATTURE"},
		Keys:     []string{"NUMERO"},
	}
	_, err = engine.ResolveModel(ctx, unset, false, true)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, 0, remote.CallCount("Search"))
}
