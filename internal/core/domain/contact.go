package domain

// ContactKind is the role a contact plays on a profile.
type ContactKind int

// Contact kinds, with the values the remote service expects.
const (
	ContactTo      ContactKind = 0
	ContactFrom    ContactKind = 1
	ContactCC      ContactKind = 2
	ContactSenders ContactKind = 3
)

func (k ContactKind) String() string {
	switch k {
	case ContactTo:
		return "to"
	case ContactFrom:
		return "from"
	case ContactCC:
		return "cc"
	case ContactSenders:
		return "senders"
	default:
		return "unknown"
	}
}

// Contact is a normalised address-book record used to fill from/to fields.
type Contact struct {
	ID            int         `json:"id"`
	ExternalID    string      `json:"externalId,omitempty"`
	Description   string      `json:"description"`
	DocNumber     string      `json:"docNumber,omitempty"`
	Kind          ContactKind `json:"type"`
	ContactID     int         `json:"contactId,omitempty"`
	AddressBookID int         `json:"addressBookId,omitempty"`
	Fax           string      `json:"fax,omitempty"`
	Address       string      `json:"address,omitempty"`
	PostalCode    string      `json:"postalCode,omitempty"`
	Locality      string      `json:"locality,omitempty"`
	Province      string      `json:"province,omitempty"`
	Nation        string      `json:"nation,omitempty"`
	Phone         string      `json:"phone,omitempty"`
	MobilePhone   string      `json:"mobilePhone,omitempty"`
	Email         string      `json:"email,omitempty"`
	FiscalCode    string      `json:"fiscalCode,omitempty"`
	Priority      string      `json:"priority,omitempty"`
}
