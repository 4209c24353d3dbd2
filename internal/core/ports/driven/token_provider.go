package driven

import (
	"context"

	"github.com/custodia-labs/axrepo/internal/core/domain"
)

// Authenticator exchanges credentials for a scoped token.
type Authenticator interface {
	// Authenticate performs the credential exchange restricted to scope.
	// A rejected exchange returns an error wrapping domain.ErrAuthenticationFailed.
	Authenticate(ctx context.Context, creds domain.Credentials, scope domain.Scope) (*domain.Token, error)
}

// TokenProvider hands out cached bearer tokens per scope.
// Adapters use it to authorise requests to each remote API.
type TokenProvider interface {
	// Token returns the access token for scope, authenticating on first use.
	Token(ctx context.Context, scope domain.Scope) (string, error)
}
