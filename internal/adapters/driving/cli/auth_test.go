package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/axrepo/internal/core/domain"
)

func TestAuthCmd_DefaultScope(t *testing.T) {
	env := setupTestServices(t)

	out, err := execute("auth")

	require.NoError(t, err)
	assert.Contains(t, out, "default")
	assert.Contains(t, out, "svc (user 1)")
	assert.Equal(t, 1, env.remote.Exchanges(domain.ScopeDefault))
	assert.Zero(t, env.remote.Exchanges(domain.ScopeWorkflow))
}

func TestAuthCmd_AllScopes(t *testing.T) {
	env := setupTestServices(t)

	_, err := execute("auth", "--scope", "all")

	require.NoError(t, err)
	for _, scope := range domain.AllScopes() {
		assert.Equal(t, 1, env.remote.Exchanges(scope))
	}
}

func TestAuthCmd_UnknownScope(t *testing.T) {
	setupTestServices(t)

	_, err := execute("auth", "--scope", "admin")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAuthCmd_Rejected(t *testing.T) {
	env := setupTestServices(t)
	env.remote.Fail("Authenticate", domain.ErrAuthenticationFailed)

	_, err := execute("auth")

	assert.ErrorIs(t, err, domain.ErrAuthenticationFailed)
}
