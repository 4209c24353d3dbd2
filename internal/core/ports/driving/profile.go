package driving

import (
	"context"

	"github.com/custodia-labs/axrepo/internal/core/domain"
)

// ProfileService orchestrates profile mutations on the remote service.
type ProfileService interface {
	// Create stores m as a new profile unless one with the same primary
	// keys exists, and returns the document number.
	Create(ctx context.Context, m domain.Model, opts domain.CreateOptions) (int, error)

	// Update writes m over its existing profile and returns the document number.
	Update(ctx context.Context, m domain.Model, opts domain.UpdateOptions) (int, error)

	// Delete marks the profile matching m as eliminated.
	// A missing profile is not an error.
	Delete(ctx context.Context, m domain.Model) error

	// HardDelete permanently removes a profile.
	HardDelete(ctx context.Context, docNumber int) error

	// Get fetches a profile's fields.
	Get(ctx context.Context, docNumber int) (*domain.Schema, error)

	// Download saves a profile's document into dir and returns its path.
	Download(ctx context.Context, docNumber int, dir string, forView bool) (string, error)

	// DownloadAttachments saves a profile's external attachments into dir
	// and returns their paths.
	DownloadAttachments(ctx context.Context, docNumber int, dir string, ignoreErrors bool) ([]string, error)

	// Search returns the rows matching criteria.
	Search(ctx context.Context, criteria domain.SearchCriteria) ([]domain.Row, error)

	// ResolveDocumentNumber returns the single document number matching criteria.
	ResolveDocumentNumber(ctx context.Context, criteria domain.SearchCriteria, getFirst bool) (int, error)

	// Upload stages a local file and returns its buffer ids.
	Upload(ctx context.Context, path, targetName string, useCache bool) ([]string, error)
}

// AuthService authenticates against the remote service.
type AuthService interface {
	// EnsureToken authenticates scope unless a token is already held.
	EnsureToken(ctx context.Context, scope domain.Scope) error

	// Login authenticates scope and returns the identity its token acts as.
	Login(ctx context.Context, scope domain.Scope) (*domain.Identity, error)
}

// JournalService reads the operation journal.
type JournalService interface {
	// Enabled reports whether operations are being journalled.
	Enabled() bool

	// Recent returns the latest entries, newest first.
	Recent(ctx context.Context, limit int) ([]domain.JournalEntry, error)

	// Dangling returns documents left checked out by a failed update.
	Dangling(ctx context.Context) ([]domain.JournalEntry, error)
}
