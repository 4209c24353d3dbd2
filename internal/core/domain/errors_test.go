package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestErrors_Existence tests that all error variables exist and are not nil
func TestErrors_Existence(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrNotFound", ErrNotFound},
		{"ErrAmbiguousResult", ErrAmbiguousResult},
		{"ErrFieldNotFound", ErrFieldNotFound},
		{"ErrInvalidInput", ErrInvalidInput},
		{"ErrNotImplemented", ErrNotImplemented},
		{"ErrAuthenticationFailed", ErrAuthenticationFailed},
		{"ErrUnauthorized", ErrUnauthorized},
		{"ErrTransport", ErrTransport},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestAmbiguousError(t *testing.T) {
	err := fmt.Errorf("resolve: %w", &AmbiguousError{Count: 3})

	assert.True(t, errors.Is(err, ErrAmbiguousResult))
	assert.False(t, errors.Is(err, ErrNotFound))
	assert.Contains(t, err.Error(), "3 results")

	var amb *AmbiguousError
	assert.True(t, errors.As(err, &amb))
	assert.Equal(t, 3, amb.Count)
}

func TestFieldError(t *testing.T) {
	err := fmt.Errorf("apply: %w", &FieldError{Name: "CODE"})

	assert.True(t, errors.Is(err, ErrFieldNotFound))
	assert.Contains(t, err.Error(), `"CODE"`)
}
