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

func newAuthService(password string) (*AuthService, *memory.Remote) {
	remote := memory.NewRemote("s3cret")
	tokens := NewTokenManager(remote, domain.Credentials{Username: "svc", Password: password})
	return NewAuthService(tokens, remote), remote
}

func TestAuthService_Login(t *testing.T) {
	service, remote := newAuthService("s3cret")
	ctx := context.Background()

	who, err := service.Login(ctx, domain.ScopeWorkflow)

	require.NoError(t, err)
	assert.Equal(t, "svc", who.Username)
	assert.Equal(t, domain.ScopeWorkflow, who.Scope)
	assert.Equal(t, []domain.Scope{domain.ScopeWorkflow}, service.Authenticated())

	// A held token is reused.
	require.NoError(t, service.EnsureToken(ctx, domain.ScopeWorkflow))
	assert.Equal(t, 1, remote.Exchanges(domain.ScopeWorkflow))
}

func TestAuthService_LoginRejected(t *testing.T) {
	service, remote := newAuthService("wrong")

	_, err := service.Login(context.Background(), domain.ScopeDefault)

	assert.True(t, errors.Is(err, domain.ErrAuthenticationFailed))
	assert.Zero(t, remote.CallCount("WhoAmI"))
	assert.Empty(t, service.Authenticated())
}

func TestAuthService_LoginWithoutIdentity(t *testing.T) {
	remote := memory.NewRemote("s3cret")
	service := NewAuthService(NewTokenManager(remote, domain.Credentials{Password: "s3cret"}), nil)

	who, err := service.Login(context.Background(), domain.ScopeManagement)

	require.NoError(t, err)
	assert.Equal(t, domain.ScopeManagement, who.Scope)
}

func TestAuthService_IdentityFailure(t *testing.T) {
	service, remote := newAuthService("s3cret")
	remote.Fail("WhoAmI", domain.ErrTransport)

	_, err := service.Login(context.Background(), domain.ScopeDefault)

	assert.True(t, errors.Is(err, domain.ErrTransport))
}

func TestAuthService_Logout(t *testing.T) {
	service, remote := newAuthService("s3cret")
	ctx := context.Background()

	require.NoError(t, service.EnsureToken(ctx, domain.ScopeDefault))
	service.Logout(domain.ScopeDefault)
	require.NoError(t, service.EnsureToken(ctx, domain.ScopeDefault))

	assert.Equal(t, 2, remote.Exchanges(domain.ScopeDefault))
}
