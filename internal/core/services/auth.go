package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/axrepo/internal/core/domain"
	"github.com/custodia-labs/axrepo/internal/core/ports/driven"
	"github.com/custodia-labs/axrepo/internal/core/ports/driving"
	"github.com/custodia-labs/axrepo/internal/logger"
)

// Ensure AuthService implements the interface.
var _ driving.AuthService = (*AuthService)(nil)

// AuthService authenticates scopes and reports who they act as.
type AuthService struct {
	tokens   *TokenManager
	identity driven.IdentityAPI
}

// NewAuthService creates an auth service. identity may be nil, in which
// case Login only authenticates.
func NewAuthService(tokens *TokenManager, identity driven.IdentityAPI) *AuthService {
	return &AuthService{tokens: tokens, identity: identity}
}

// EnsureToken authenticates scope unless a token is already held.
func (s *AuthService) EnsureToken(ctx context.Context, scope domain.Scope) error {
	return s.tokens.EnsureToken(ctx, scope)
}

// Login authenticates scope and returns the identity its token acts as.
func (s *AuthService) Login(ctx context.Context, scope domain.Scope) (*domain.Identity, error) {
	if err := s.tokens.EnsureToken(ctx, scope); err != nil {
		return nil, err
	}
	if s.identity == nil {
		return &domain.Identity{Scope: scope}, nil
	}

	who, err := s.identity.WhoAmI(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("identify %s: %w", scope, err)
	}
	logger.Debug("scope %s acts as %s (user %d)", scope, who.Username, who.UserID)
	return who, nil
}

// Logout forgets the token held for scope.
func (s *AuthService) Logout(scope domain.Scope) {
	s.tokens.Invalidate(scope)
}

// Authenticated lists the scopes currently holding a token.
func (s *AuthService) Authenticated() []domain.Scope {
	return s.tokens.Store().Scopes()
}
