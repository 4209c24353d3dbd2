package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/custodia-labs/axrepo/internal/core/domain"
	"github.com/custodia-labs/axrepo/internal/core/ports/driven"
	"github.com/custodia-labs/axrepo/internal/logger"
)

// Ensure TokenManager implements the TokenProvider interface.
var _ driven.TokenProvider = (*TokenManager)(nil)

// TokenStore holds at most one token per scope.
type TokenStore struct {
	mu     sync.RWMutex
	tokens map[domain.Scope]domain.Token
}

// NewTokenStore creates an empty token store.
func NewTokenStore() *TokenStore {
	return &TokenStore{tokens: make(map[domain.Scope]domain.Token)}
}

// Get returns the cached token for scope.
func (s *TokenStore) Get(scope domain.Scope) (domain.Token, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tok, ok := s.tokens[scope]
	if !ok || tok.AccessToken == "" {
		return domain.Token{}, false
	}
	return tok, true
}

// Put caches a token under its scope.
func (s *TokenStore) Put(tok domain.Token) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[tok.Scope] = tok
}

// Delete drops the token for scope.
func (s *TokenStore) Delete(scope domain.Scope) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, scope)
}

// Scopes returns the scopes holding a token.
func (s *TokenStore) Scopes() []domain.Scope {
	s.mu.RLock()
	defer s.mu.RUnlock()
	scopes := make([]domain.Scope, 0, len(s.tokens))
	for _, scope := range domain.AllScopes() {
		if _, ok := s.tokens[scope]; ok {
			scopes = append(scopes, scope)
		}
	}
	return scopes
}

// TokenManager obtains and caches one token per scope.
//
// Tokens are fetched lazily on first use and kept for the manager's
// lifetime. Expired tokens are not refreshed: remote calls made with them
// fail with domain.ErrUnauthorized and the caller decides what to do.
type TokenManager struct {
	auth  driven.Authenticator
	creds domain.Credentials
	store *TokenStore

	// exchangeMu serialises credential exchanges so concurrent first use of
	// a scope performs a single round-trip.
	exchangeMu sync.Mutex
}

// NewTokenManager creates a token manager exchanging creds through auth.
func NewTokenManager(auth driven.Authenticator, creds domain.Credentials) *TokenManager {
	return &TokenManager{
		auth:  auth,
		creds: creds,
		store: NewTokenStore(),
	}
}

// EnsureToken authenticates scope unless a token is already cached.
func (m *TokenManager) EnsureToken(ctx context.Context, scope domain.Scope) error {
	_, err := m.Token(ctx, scope)
	return err
}

// Token returns the access token for scope, authenticating on first use.
func (m *TokenManager) Token(ctx context.Context, scope domain.Scope) (string, error) {
	if !scope.IsValid() {
		return "", fmt.Errorf("unknown scope %q: %w", scope, domain.ErrInvalidInput)
	}

	// Fast path: cached
	if tok, ok := m.store.Get(scope); ok {
		return tok.AccessToken, nil
	}

	m.exchangeMu.Lock()
	defer m.exchangeMu.Unlock()

	// Double-check after acquiring the exchange lock
	if tok, ok := m.store.Get(scope); ok {
		return tok.AccessToken, nil
	}

	if m.auth == nil {
		return "", fmt.Errorf("no authenticator configured for scope %s: %w", scope, domain.ErrAuthenticationFailed)
	}

	logger.Debug("authenticating scope %s as %s", scope, m.creds.Username)
	tok, err := m.auth.Authenticate(ctx, m.creds, scope)
	if err != nil {
		return "", fmt.Errorf("authenticate %s: %w", scope, err)
	}
	if tok == nil || tok.AccessToken == "" {
		return "", fmt.Errorf("authenticate %s: empty access token: %w", scope, domain.ErrAuthenticationFailed)
	}

	tok.Scope = scope
	if tok.ObtainedAt.IsZero() {
		tok.ObtainedAt = time.Now()
	}
	m.store.Put(*tok)

	return tok.AccessToken, nil
}

// Seed installs an externally obtained token for scope.
func (m *TokenManager) Seed(scope domain.Scope, accessToken, refreshToken string) {
	m.store.Put(domain.Token{
		Scope:        scope,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ObtainedAt:   time.Now(),
	})
}

// Invalidate drops the cached token for scope; the next use re-authenticates.
func (m *TokenManager) Invalidate(scope domain.Scope) {
	m.store.Delete(scope)
}

// Store returns the manager's token store.
func (m *TokenManager) Store() *TokenStore {
	return m.store
}
