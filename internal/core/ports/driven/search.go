package driven

import (
	"context"

	"github.com/custodia-labs/axrepo/internal/core/domain"
)

// SearchAPI executes a fully built search query.
type SearchAPI interface {
	// Search returns result rows in the order the service produced them.
	Search(ctx context.Context, query domain.SearchQuery) ([]domain.Row, error)
}
