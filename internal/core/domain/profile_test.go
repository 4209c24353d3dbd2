package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyCriteria(t *testing.T) {
	r := &Record{
		DocClass: DocumentClass{DocumentType: "ORDINI"},
		Values: []Field{
			{Name: "CODE", Value: "X1"},
			{Name: "YEAR", Value: 2024},
			{Name: "NOTE", Value: "ignored"},
		},
		Keys: []string{"CODE", "YEAR"},
	}

	values, err := KeyCriteria(r)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"CODE": "X1", "YEAR": 2024}, values)
}

func TestKeyCriteria_NoKeys(t *testing.T) {
	r := &Record{Values: []Field{{Name: "CODE", Value: "X1"}}}

	values, err := KeyCriteria(r)
	require.NoError(t, err)
	assert.Empty(t, values)
}

func TestKeyCriteria_MissingKeyValue(t *testing.T) {
	tests := []struct {
		name   string
		values []Field
	}{
		{"absent", []Field{{Name: "CODE", Value: "X1"}}},
		{"nil", []Field{{Name: "CODE", Value: "X1"}, {Name: "YEAR", Value: nil}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &Record{Values: tt.values, Keys: []string{"CODE", "YEAR"}}

			_, err := KeyCriteria(r)
			require.ErrorIs(t, err, ErrInvalidInput)
			assert.Contains(t, err.Error(), "YEAR")
		})
	}
}

func TestHeader_HasFile(t *testing.T) {
	var h Header
	assert.False(t, h.HasFile())

	h.FilePath = "/tmp/report.pdf"
	assert.True(t, h.HasFile())

	h = Header{File: &FilePayload{Name: "a.txt", Bytes: []byte("a")}}
	assert.True(t, h.HasFile())
}

func TestHeader_InWorkflow(t *testing.T) {
	var h Header
	assert.False(t, h.InWorkflow())

	f := false
	h.Workflow = &f
	assert.False(t, h.InWorkflow())

	tr := true
	h.Workflow = &tr
	assert.True(t, h.InWorkflow())
}

func TestIsPartyField(t *testing.T) {
	assert.True(t, IsPartyField("to"))
	assert.True(t, IsPartyField("From"))
	assert.True(t, IsPartyField("CC"))
	assert.True(t, IsPartyField(FieldFromExternalID))
	assert.True(t, IsPartyField(FieldToExternalID))
	assert.False(t, IsPartyField("CODE"))
}

func TestRecord_SetGet(t *testing.T) {
	r := &Record{}
	r.Set("CODE", "X1")
	r.Set("CODE", "X2")
	r.Set("YEAR", 2024)

	assert.Len(t, r.Fields(), 2)
	v, ok := r.Get("CODE")
	assert.True(t, ok)
	assert.Equal(t, "X2", v)
}

func TestRecord_Hydrate(t *testing.T) {
	wf := true
	schema := &Schema{
		DocNumber: 42,
		State:     "BOZZA",
		Workflow:  &wf,
		Fields: []SchemaField{
			{Name: FieldDocName, Value: "Order 42"},
			{Name: "CODE", Value: "X1"},
		},
	}

	r := &Record{Values: []Field{{Name: "STALE", Value: 1}}}
	assert.NoError(t, r.Hydrate(schema))

	assert.Equal(t, 42, *r.Header().DocNumber)
	assert.Equal(t, "BOZZA", r.Header().Status)
	assert.Equal(t, "Order 42", r.Header().DocName)
	assert.True(t, r.Header().InWorkflow())
	assert.Equal(t, []Field{{Name: "CODE", Value: "X1"}}, r.Fields())
}
