package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/axrepo/internal/core/domain"
)

// dateLayout is the accepted --date format.
const dateLayout = "2006-01-02"

// modelFile is the JSON description of a profile accepted by --model.
type modelFile struct {
	Class         string   `json:"class"`
	Keys          []string `json:"keys"`
	SkipKeyCheck  bool     `json:"skipKeyCheck"`
	Barcode       bool     `json:"barcode"`
	InitialStatus string   `json:"initialStatus"`

	DocNumber *int   `json:"docNumber"`
	Status    string `json:"status"`
	DocName   string `json:"docName"`
	DocDate   string `json:"docDate"`
	Workflow  *bool  `json:"workflow"`

	File              string   `json:"file"`
	Attachments       []string `json:"attachments"`
	RemoteAttachments []string `json:"remoteAttachments"`

	User            string   `json:"user"`
	SenderCode      string   `json:"senderCode"`
	SenderBookID    *int     `json:"senderBookId"`
	RecipientCodes  []string `json:"recipientCodes"`
	RecipientBookID *int     `json:"recipientBookId"`

	Fields map[string]any `json:"fields"`
}

// modelFlags are the flags describing a profile on the command line.
// They override values read from --model.
type modelFlags struct {
	model        string
	class        string
	keys         []string
	fields       []string
	status       string
	name         string
	date         string
	file         string
	attachments  []string
	user         string
	from         string
	fromBook     int
	to           []string
	toBook       int
	skipKeyCheck bool
	barcode      bool
	doc          int
}

// addModelFlags registers the profile description flags on cmd.
func addModelFlags(cmd *cobra.Command, f *modelFlags) {
	flags := cmd.Flags()
	flags.StringVar(&f.model, "model", "", "JSON file describing the profile")
	flags.StringVar(&f.class, "class", "", "document class key")
	flags.StringArrayVar(&f.keys, "key", nil, "primary key field name (repeatable)")
	flags.StringArrayVar(&f.fields, "field", nil, "field value as NAME=VALUE (repeatable)")
	flags.StringVar(&f.status, "status", "", "profile status")
	flags.StringVar(&f.name, "name", "", "document name")
	flags.StringVar(&f.date, "date", "", "document date (YYYY-MM-DD)")
	flags.StringVar(&f.file, "file", "", "main document file")
	flags.StringArrayVar(&f.attachments, "attach", nil, "attachment file (repeatable)")
	flags.StringVar(&f.user, "user", "", "sender taken from this user's address-book entry")
	flags.StringVar(&f.from, "from", "", "sender contact code")
	flags.IntVar(&f.fromBook, "from-book", 0, "address book of the sender code")
	flags.StringArrayVar(&f.to, "to", nil, "recipient contact code (repeatable)")
	flags.IntVar(&f.toBook, "to-book", 0, "address book of the recipient codes")
	flags.BoolVar(&f.skipKeyCheck, "skip-key-check", false, "create without looking for an existing profile")
	flags.BoolVar(&f.barcode, "barcode", false, "create through the barcode endpoint")
	flags.IntVar(&f.doc, "doc", 0, "document number of an existing profile")
}

// record builds the profile described by the flags.
func (f *modelFlags) record(cmd *cobra.Command) (*domain.Record, error) {
	var desc modelFile
	if f.model != "" {
		loaded, err := readModelFile(f.model)
		if err != nil {
			return nil, err
		}
		desc = *loaded
	}
	if err := f.apply(cmd, &desc); err != nil {
		return nil, err
	}
	if desc.Class == "" {
		return nil, fmt.Errorf("a document class is required (--class): %w", domain.ErrInvalidInput)
	}
	return desc.record()
}

// apply overlays explicitly set flags onto desc.
func (f *modelFlags) apply(cmd *cobra.Command, desc *modelFile) error {
	changed := cmd.Flags().Changed
	if changed("class") {
		desc.Class = f.class
	}
	if changed("key") {
		desc.Keys = f.keys
	}
	if len(f.fields) > 0 && desc.Fields == nil {
		desc.Fields = make(map[string]any, len(f.fields))
	}
	for _, kv := range f.fields {
		name, value, ok := strings.Cut(kv, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return fmt.Errorf("--field %q is not NAME=VALUE: %w", kv, domain.ErrInvalidInput)
		}
		desc.Fields[name] = value
	}
	if changed("status") {
		desc.Status = f.status
	}
	if changed("name") {
		desc.DocName = f.name
	}
	if changed("date") {
		desc.DocDate = f.date
	}
	if changed("file") {
		desc.File = f.file
	}
	if changed("attach") {
		desc.Attachments = f.attachments
	}
	if changed("user") {
		desc.User = f.user
	}
	if changed("from") {
		desc.SenderCode = f.from
	}
	if changed("from-book") {
		desc.SenderBookID = &f.fromBook
	}
	if changed("to") {
		desc.RecipientCodes = f.to
	}
	if changed("to-book") {
		desc.RecipientBookID = &f.toBook
	}
	if changed("skip-key-check") {
		desc.SkipKeyCheck = f.skipKeyCheck
	}
	if changed("barcode") {
		desc.Barcode = f.barcode
	}
	if changed("doc") {
		desc.DocNumber = &f.doc
	}
	return nil
}

func readModelFile(path string) (*modelFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	dec.DisallowUnknownFields()

	var desc modelFile
	if err := dec.Decode(&desc); err != nil {
		return nil, fmt.Errorf("parse model %s: %v: %w", path, err, domain.ErrInvalidInput)
	}
	for name, v := range desc.Fields {
		desc.Fields[name] = normaliseNumber(v)
	}
	return &desc, nil
}

// normaliseNumber turns json.Number into int64 or float64.
func normaliseNumber(v any) any {
	n, ok := v.(json.Number)
	if !ok {
		return v
	}
	if i, err := n.Int64(); err == nil {
		return i
	}
	if f, err := n.Float64(); err == nil {
		return f
	}
	return n.String()
}

func (d *modelFile) record() (*domain.Record, error) {
	r := &domain.Record{
		DocClass: domain.DocumentClass{
			DocumentType:  d.Class,
			SkipKeyCheck:  d.SkipKeyCheck,
			Barcode:       d.Barcode,
			InitialStatus: d.InitialStatus,
		},
		Head: domain.Header{
			DocNumber:         d.DocNumber,
			Status:            d.Status,
			DocName:           d.DocName,
			Workflow:          d.Workflow,
			FilePath:          d.File,
			Attachments:       d.Attachments,
			RemoteAttachments: d.RemoteAttachments,
			User:              d.User,
			SenderCode:        d.SenderCode,
			SenderBookID:      d.SenderBookID,
			RecipientCodes:    d.RecipientCodes,
			RecipientBookID:   d.RecipientBookID,
		},
		Keys: d.Keys,
	}

	if d.DocDate != "" {
		date, err := time.Parse(dateLayout, d.DocDate)
		if err != nil {
			return nil, fmt.Errorf("document date %q is not YYYY-MM-DD: %w", d.DocDate, domain.ErrInvalidInput)
		}
		r.Head.DocDate = &date
	}

	names := make([]string, 0, len(d.Fields))
	for name := range d.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		r.Set(name, d.Fields[name])
	}

	for _, k := range r.Keys {
		if _, ok := r.Get(k); !ok {
			return nil, fmt.Errorf("key field %s has no value: %w", k, domain.ErrInvalidInput)
		}
	}
	return r, nil
}
