package driven

import (
	"context"

	"github.com/custodia-labs/axrepo/internal/core/domain"
)

// ProfileAPI reads and writes profiles.
type ProfileAPI interface {
	// GetSchema fetches the editable field set of a profile.
	// forEdit requests the edit-lock variant of the schema.
	GetSchema(ctx context.Context, docNumber int, forEdit bool) (*domain.Schema, error)

	// NewSchema returns a blank schema bound to a document class,
	// including the class's additional fields.
	NewSchema(ctx context.Context, docType domain.DocumentType) (*domain.Schema, error)

	// Create submits a new profile and returns its document number.
	// barcode routes the request to the barcode endpoint.
	Create(ctx context.Context, schema *domain.Schema, barcode bool) (int, error)

	// Update writes the schema's fields (and document reference, if any).
	Update(ctx context.Context, docNumber int, schema *domain.Schema) error

	// Delete removes a profile permanently.
	Delete(ctx context.Context, docNumber int) error
}

// DocumentTypeAPI resolves document classes and their states.
type DocumentTypeAPI interface {
	// DocumentType returns the class with the given key.
	// Returns domain.ErrNotFound for unknown keys.
	DocumentType(ctx context.Context, key string) (*domain.DocumentType, error)

	// States returns the states defined for a class, in definition order.
	States(ctx context.Context, docTypeID int) ([]domain.State, error)

	// SelectFields returns the columns selectable for a class.
	SelectFields(ctx context.Context, docType domain.DocumentType) ([]domain.SelectField, error)

	// AdditionalFields returns the class-specific search fields.
	AdditionalFields(ctx context.Context, docType domain.DocumentType) ([]string, error)
}
