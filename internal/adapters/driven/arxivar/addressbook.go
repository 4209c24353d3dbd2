package arxivar

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/custodia-labs/axrepo/internal/core/domain"
)

type addressBookSearch struct {
	Filter                string   `json:"filter"`
	AddressBookCategoryID int      `json:"addressBookCategoryId"`
	Select                []string `json:"select"`
}

type addressBookHit struct {
	ID            int `json:"id"`
	AddressBookID int `json:"addressBookId"`
}

type addressBookEntry struct {
	ID           int    `json:"id"`
	ExternalCode string `json:"externalCode"`
	BusinessName string `json:"businessName"`
	Fax          string `json:"fax"`
	Address      string `json:"address"`
	PostalCode   string `json:"postalCode"`
	Location     string `json:"location"`
	Province     string `json:"province"`
	Country      string `json:"country"`
	PhoneNumber  string `json:"phoneNumber"`
	CellPhone    string `json:"cellPhone"`
	Email        string `json:"email"`
	FiscalCode   string `json:"fiscalCode"`
}

// ContactByCode finds a contact by code within an address-book category.
func (c *Client) ContactByCode(ctx context.Context, code string, categoryID int) (*domain.Contact, error) {
	var hits []addressBookHit
	err := c.call(ctx, request{
		op:     "search address book",
		method: http.MethodPost,
		path:   "api/AddressBook/Search",
		body: addressBookSearch{
			Filter:                code,
			AddressBookCategoryID: categoryID,
			Select:                []string{"DM_RUBRICA_CODICE", "DM_RUBRICA_AOO", "DM_RUBRICA_SYSTEM_ID", "ID"},
		},
	}, &hits)
	if err != nil {
		return nil, err
	}
	if len(hits) == 0 {
		return nil, fmt.Errorf("address book code %s: %w", code, domain.ErrNotFound)
	}

	var entry addressBookEntry
	err = c.call(ctx, request{
		op:     "get address book entry",
		method: http.MethodGet,
		path:   "api/AddressBook/" + strconv.Itoa(hits[0].AddressBookID),
	}, &entry)
	if err != nil {
		return nil, err
	}

	contact := entry.contact()
	contact.ContactID = hits[0].ID
	return &contact, nil
}

func (e addressBookEntry) contact() domain.Contact {
	return domain.Contact{
		ID:            e.ID,
		ExternalID:    e.ExternalCode,
		Description:   e.BusinessName,
		DocNumber:     "-1",
		AddressBookID: e.ID,
		Fax:           e.Fax,
		Address:       e.Address,
		PostalCode:    e.PostalCode,
		Locality:      e.Location,
		Province:      e.Province,
		Nation:        e.Country,
		Phone:         e.PhoneNumber,
		MobilePhone:   e.CellPhone,
		Email:         e.Email,
		FiscalCode:    e.FiscalCode,
		Priority:      "N",
	}
}

type userSummary struct {
	User         int64  `json:"user"`
	Description  string `json:"description"`
	CompleteName string `json:"completeName"`
}

// ContactByUsername returns the address-book entry of a user, matched
// case-insensitively on description or complete name.
func (c *Client) ContactByUsername(ctx context.Context, username string, kind domain.ContactKind) (*domain.Contact, error) {
	var users []userSummary
	err := c.call(ctx, request{
		op:     "list users",
		method: http.MethodGet,
		path:   "api/Users",
	}, &users)
	if err != nil {
		return nil, err
	}

	var userID int64
	found := false
	for _, u := range users {
		if strings.EqualFold(u.Description, username) || strings.EqualFold(u.CompleteName, username) {
			userID, found = u.User, true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("user %s: %w", username, domain.ErrNotFound)
	}

	var contact domain.Contact
	err = c.call(ctx, request{
		op:     "get user address book entry",
		method: http.MethodGet,
		path:   fmt.Sprintf("api/AddressBook/ByUser/%d/%d", userID, int(kind)),
	}, &contact)
	if err != nil {
		return nil, err
	}
	contact.Kind = kind
	return &contact, nil
}
