package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/axrepo/internal/core/domain"
	"github.com/custodia-labs/axrepo/internal/core/ports/driven"
	"github.com/custodia-labs/axrepo/internal/logger"
)

// ContactResolver turns sender and recipient references into address-book
// contacts.
type ContactResolver struct {
	book driven.AddressBookAPI
}

// NewContactResolver creates a contact resolver.
func NewContactResolver(book driven.AddressBookAPI) *ContactResolver {
	return &ContactResolver{book: book}
}

// ByCode finds a contact by code within an address-book category.
func (r *ContactResolver) ByCode(ctx context.Context, code string, bookID int, kind domain.ContactKind) (*domain.Contact, error) {
	c, err := r.book.ContactByCode(ctx, code, bookID)
	if err != nil {
		return nil, fmt.Errorf("contact %s: %w", code, err)
	}
	c.Kind = kind
	return c, nil
}

// ByUsername returns the address-book entry of a user.
func (r *ContactResolver) ByUsername(ctx context.Context, username string, kind domain.ContactKind) (*domain.Contact, error) {
	c, err := r.book.ContactByUsername(ctx, username, kind)
	if err != nil {
		return nil, fmt.Errorf("user %s: %w", username, err)
	}
	c.Kind = kind
	return c, nil
}

// ApplyParties fills the sender and recipients of schema from h.
//
// A user sender takes precedence over a sender code. Recipients without a
// book id are looked up in category 0.
func (r *ContactResolver) ApplyParties(ctx context.Context, schema *domain.Schema, h *domain.Header) error {
	switch {
	case h.User != "":
		from, err := r.ByUsername(ctx, h.User, domain.ContactFrom)
		if err != nil {
			return err
		}
		schema.SetFrom(*from)
	case h.SenderCode != "" && h.SenderBookID != nil:
		from, err := r.ByCode(ctx, h.SenderCode, *h.SenderBookID, domain.ContactFrom)
		if err != nil {
			return err
		}
		schema.SetFrom(*from)
	case h.SenderCode != "":
		logger.Warn("sender code %s ignored: no sender address book set", h.SenderCode)
	}

	bookID := 0
	if h.RecipientBookID != nil {
		bookID = *h.RecipientBookID
	}
	for _, code := range h.RecipientCodes {
		to, err := r.ByCode(ctx, code, bookID, domain.ContactTo)
		if err != nil {
			return err
		}
		schema.AddTo(*to)
	}
	return nil
}
