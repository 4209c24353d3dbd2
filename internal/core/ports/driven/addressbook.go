package driven

import (
	"context"

	"github.com/custodia-labs/axrepo/internal/core/domain"
)

// AddressBookAPI resolves contacts.
type AddressBookAPI interface {
	// ContactByCode finds a contact by code within an address-book category.
	// Returns domain.ErrNotFound when nothing matches.
	ContactByCode(ctx context.Context, code string, categoryID int) (*domain.Contact, error)

	// ContactByUsername returns the address-book entry of a user, matched
	// case-insensitively on description or complete name.
	ContactByUsername(ctx context.Context, username string, kind domain.ContactKind) (*domain.Contact, error)
}
