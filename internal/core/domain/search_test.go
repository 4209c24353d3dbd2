package domain

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRow_DocNumber(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  int
	}{
		{"int", 7, 7},
		{"int64", int64(8), 8},
		{"float64 from JSON", float64(9), 9},
		{"json.Number", json.Number("10"), 10},
		{"string", "11", 11},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := Row{Columns: map[string]any{ColumnDocNumber: tt.value}}
			got, err := row.DocNumber()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRow_DocNumber_Missing(t *testing.T) {
	_, err := Row{Columns: map[string]any{}}.DocNumber()
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestRow_DocNumber_BadType(t *testing.T) {
	_, err := Row{Columns: map[string]any{ColumnDocNumber: true}}.DocNumber()
	assert.Error(t, err)
}

func TestRow_Get(t *testing.T) {
	row := Row{Columns: map[string]any{"CODE": "X1"}}
	v, ok := row.Get("CODE")
	assert.True(t, ok)
	assert.Equal(t, "X1", v)

	_, ok = row.Get("OTHER")
	assert.False(t, ok)
}
