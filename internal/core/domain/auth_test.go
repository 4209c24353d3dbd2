package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScope_Permissions(t *testing.T) {
	assert.Nil(t, ScopeDefault.Permissions())
	assert.Equal(t, []string{"ArxManagement"}, ScopeManagement.Permissions())
	assert.Equal(t, []string{"ArxWorkflow"}, ScopeWorkflow.Permissions())
}

func TestScope_IsValid(t *testing.T) {
	for _, s := range AllScopes() {
		assert.True(t, s.IsValid(), s)
	}
	assert.False(t, Scope("admin").IsValid())
	assert.False(t, Scope("").IsValid())
}
