package driven

import (
	"context"

	"github.com/custodia-labs/axrepo/internal/core/domain"
)

// IdentityAPI reports who a scope's token belongs to.
type IdentityAPI interface {
	WhoAmI(ctx context.Context, scope domain.Scope) (*domain.Identity, error)
}
