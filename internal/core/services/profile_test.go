package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/axrepo/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/axrepo/internal/core/domain"
)

func memoryInvoice(numero string, workflow bool) memory.Profile {
	return memory.Profile{
		ClassKey: "FATTURE",
		State:    "VALIDA",
		Workflow: workflow,
		Fields:   map[string]any{"NUMERO": numero, "ANNO": 2024},
	}
}

func invoice(numero string) *domain.Record {
	return &domain.Record{
		DocClass: domain.DocumentClass{DocumentType: "FATTURE"},
		Head:     domain.Header{DocName: "Invoice " + numero},
		Keys:     []string{"NUMERO"},
		Values: []domain.Field{
			{Name: "NUMERO", Value: numero},
			{Name: "ANNO", Value: 2024},
		},
	}
}

func newProfileService(t *testing.T) (*ProfileService, *memory.Remote, *memory.Journal) {
	t.Helper()
	remote := newTestRemote(t)
	journal := memory.NewJournal()
	return NewProfileService(remote, journal, t.TempDir()), remote, journal
}

// only keeps the calls named in names, preserving order.
func only(calls []string, names ...string) []string {
	keep := make(map[string]bool, len(names))
	for _, n := range names {
		keep[n] = true
	}
	var out []string
	for _, c := range calls {
		if keep[c] {
			out = append(out, c)
		}
	}
	return out
}

// ==================== Create ====================

func TestProfileService_CreateNew(t *testing.T) {
	svc, remote, _ := newProfileService(t)
	m := invoice("X1")

	n, err := svc.Create(context.Background(), m, domain.CreateOptions{})
	require.NoError(t, err)

	p, ok := remote.Profile(n)
	require.True(t, ok)
	assert.Equal(t, "BOZZA", p.State, "first state of the class")
	assert.Equal(t, "X1", p.Fields["NUMERO"])
	assert.Equal(t, "Invoice X1", p.Fields[domain.FieldDocName])
	assert.False(t, p.Barcode)
	require.NotNil(t, m.Header().DocNumber)
	assert.Equal(t, n, *m.Header().DocNumber)
}

func TestProfileService_CreateExistingIsIdempotent(t *testing.T) {
	svc, remote, _ := newProfileService(t)
	existing := remote.AddProfile(memoryInvoice("X1", false))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		n, err := svc.Create(ctx, invoice("X1"), domain.CreateOptions{})
		require.NoError(t, err)
		assert.Equal(t, existing, n)
	}
	assert.Equal(t, 0, remote.CallCount("Create"))
	assert.Equal(t, 0, remote.CallCount("Update"))
	assert.Equal(t, 1, remote.ProfileCount())
}

func TestProfileService_CreateUpdatesExisting(t *testing.T) {
	svc, remote, _ := newProfileService(t)
	existing := remote.AddProfile(memoryInvoice("X1", false))
	m := invoice("X1")
	m.Set("CLIENTE", "ACME")

	n, err := svc.Create(context.Background(), m, domain.CreateOptions{UpdateIfExists: true})
	require.NoError(t, err)
	assert.Equal(t, existing, n)

	p, _ := remote.Profile(existing)
	assert.Equal(t, "ACME", p.Fields["CLIENTE"])
	assert.Equal(t, 0, remote.CallCount("Create"))
	assert.Equal(t, 1, remote.CallCount("Search"), "update reuses the found number")
}

func TestProfileService_CreateSkipKeyCheck(t *testing.T) {
	svc, remote, _ := newProfileService(t)
	remote.AddProfile(memoryInvoice("X1", false))
	m := invoice("X1")
	m.DocClass.SkipKeyCheck = true

	_, err := svc.Create(context.Background(), m, domain.CreateOptions{})
	require.NoError(t, err)
	assert.Equal(t, 0, remote.CallCount("Search"))
	assert.Equal(t, 2, remote.ProfileCount())
}

func TestProfileService_CreateAmbiguousKeysResolveLowest(t *testing.T) {
	svc, remote, _ := newProfileService(t)
	remote.AddProfile(memory.Profile{DocNumber: 9, ClassKey: "FATTURE", Fields: map[string]any{"NUMERO": "X1"}})
	remote.AddProfile(memory.Profile{DocNumber: 4, ClassKey: "FATTURE", Fields: map[string]any{"NUMERO": "X1"}})

	n, err := svc.Create(context.Background(), invoice("X1"), domain.CreateOptions{})
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}

func TestProfileService_CreateStatus(t *testing.T) {
	svc, remote, _ := newProfileService(t)
	ctx := context.Background()

	withClassStatus := invoice("S1")
	withClassStatus.DocClass.InitialStatus = "VALIDA"
	n, err := svc.Create(ctx, withClassStatus, domain.CreateOptions{})
	require.NoError(t, err)
	p, _ := remote.Profile(n)
	assert.Equal(t, "VALIDA", p.State)

	withHeaderStatus := invoice("S2")
	withHeaderStatus.DocClass.InitialStatus = "VALIDA"
	withHeaderStatus.Head.Status = "BOZZA"
	n, err = svc.Create(ctx, withHeaderStatus, domain.CreateOptions{})
	require.NoError(t, err)
	p, _ = remote.Profile(n)
	assert.Equal(t, "BOZZA", p.State)
}

func TestProfileService_CreateWithFiles(t *testing.T) {
	svc, remote, _ := newProfileService(t)
	attachment := filepath.Join(t.TempDir(), "annex.txt")
	require.NoError(t, os.WriteFile(attachment, []byte("annex"), 0o600))

	m := invoice("F1")
	m.Head.File = &domain.FilePayload{Name: "invoice.pdf", Bytes: []byte("%PDF")}
	m.Head.Attachments = []string{attachment}
	m.Head.AttachmentBlobs = []domain.FilePayload{{Name: "note.txt", Bytes: []byte("note")}}

	// A buffer already staged by the caller.
	remoteIDs, err := svc.Upload(context.Background(), attachment, "existing.txt", false)
	require.NoError(t, err)
	m.Head.RemoteAttachments = remoteIDs

	n, err := svc.Create(context.Background(), m, domain.CreateOptions{})
	require.NoError(t, err)

	p, _ := remote.Profile(n)
	require.Len(t, p.Document, 1)
	doc, _ := remote.Buffer(p.Document[0])
	assert.Equal(t, "invoice.pdf", doc.Name)
	assert.False(t, doc.Cache)

	require.Len(t, p.Attachments, 3)
	var names []string
	for _, id := range p.Attachments {
		b, _ := remote.Buffer(id)
		names = append(names, b.Name)
	}
	assert.Equal(t, []string{"annex.txt", "note.txt", "existing.txt"}, names)
}

func TestProfileService_CreateBarcode(t *testing.T) {
	svc, remote, _ := newProfileService(t)
	m := invoice("B1")
	m.DocClass.Barcode = true

	n, err := svc.Create(context.Background(), m, domain.CreateOptions{})
	require.NoError(t, err)

	p, _ := remote.Profile(n)
	assert.True(t, p.Barcode)
	assert.Equal(t, 1, remote.CallCount("CreateForBarcode"))
	assert.Equal(t, 0, remote.CallCount("Create"))
}

func TestProfileService_CreateParties(t *testing.T) {
	svc, remote, _ := newProfileService(t)
	remote.AddContact("C001", domain.Contact{ID: 1, Description: "ACME"})
	remote.AddContact("C002", domain.Contact{ID: 2, Description: "Globex"})

	m := invoice("P1")
	m.Head.SenderCode = "C001"
	m.Head.SenderBookID = intPtr(1)
	m.Head.RecipientCodes = []string{"C002"}
	m.Set(domain.FieldFromExternalID, "ext-1")
	m.Set("CLIENTE", nil)

	n, err := svc.Create(context.Background(), m, domain.CreateOptions{})
	require.NoError(t, err)

	p, _ := remote.Profile(n)
	require.NotNil(t, p.From)
	assert.Equal(t, "ACME", p.From.Description)
	require.Len(t, p.To, 1)
	assert.Equal(t, "Globex", p.To[0].Description)
	assert.NotContains(t, p.Fields, domain.FieldFromExternalID)
	assert.NotContains(t, p.Fields, "CLIENTE")
}

func TestProfileService_CreateUndeclaredField(t *testing.T) {
	svc, remote, _ := newProfileService(t)
	m := invoice("U1")
	m.Set("MISSING", "x")

	_, err := svc.Create(context.Background(), m, domain.CreateOptions{})
	assert.ErrorIs(t, err, domain.ErrFieldNotFound)
	assert.Equal(t, 0, remote.ProfileCount())
}

func TestProfileService_CreateJournalsSteps(t *testing.T) {
	svc, _, journal := newProfileService(t)

	n, err := svc.Create(context.Background(), invoice("J1"), domain.CreateOptions{})
	require.NoError(t, err)

	entries, err := journal.List(context.Background(), 0)
	require.NoError(t, err)
	require.NotEmpty(t, entries)
	assert.Equal(t, domain.StepWrite, entries[0].Step)
	assert.Equal(t, domain.OpCreate, entries[0].Operation)
	assert.Equal(t, n, entries[0].DocNumber)
	assert.Equal(t, domain.StepOK, entries[0].Status)
}

// ==================== Update ====================

func TestProfileService_UpdateReplacesDocument(t *testing.T) {
	svc, remote, journal := newProfileService(t)
	doc := remote.AddProfile(memoryInvoice("X1", false))

	m := invoice("X1")
	m.Head.DocNumber = &doc
	m.Head.File = &domain.FilePayload{Name: "v2.pdf", Bytes: []byte("v2")}

	n, err := svc.Update(context.Background(), m, domain.UpdateOptions{CheckInOption: 1})
	require.NoError(t, err)
	assert.Equal(t, doc, n)

	assert.Equal(t,
		[]string{"CheckOut", "CacheInsert", "CheckIn", "Update"},
		only(remote.Calls(), "CheckOut", "CacheInsert", "BufferInsert", "CheckIn", "Update"))

	p, _ := remote.Profile(doc)
	assert.False(t, p.CheckedOut)
	require.Len(t, p.Document, 1)
	b, _ := remote.Buffer(p.Document[0])
	assert.Equal(t, "v2.pdf", b.Name)
	assert.True(t, b.Cache)

	dangling, err := journal.Dangling(context.Background())
	require.NoError(t, err)
	assert.Empty(t, dangling)
}

func TestProfileService_UpdateTaskScoped(t *testing.T) {
	svc, remote, _ := newProfileService(t)
	doc := remote.AddProfile(memoryInvoice("X1", true))

	m := invoice("X1")
	m.Head.DocNumber = &doc
	m.Head.File = &domain.FilePayload{Name: "v2.pdf", Bytes: []byte("v2")}

	_, err := svc.Update(context.Background(), m, domain.UpdateOptions{TaskID: intPtr(5), ProcDocID: intPtr(6)})
	require.NoError(t, err)
	assert.Equal(t, 0, remote.CallCount("CheckOut"))
	assert.Equal(t, 0, remote.CallCount("CheckIn"))
	assert.Equal(t, 1, remote.CallCount("CheckInForTask"))
}

func TestProfileService_UpdateCheckInFailureLeavesDangling(t *testing.T) {
	svc, remote, journal := newProfileService(t)
	doc := remote.AddProfile(memoryInvoice("X1", false))
	remote.Fail("CheckIn", domain.ErrTransport)

	m := invoice("X1")
	m.Head.DocNumber = &doc
	m.Head.File = &domain.FilePayload{Name: "v2.pdf", Bytes: []byte("v2")}

	_, err := svc.Update(context.Background(), m, domain.UpdateOptions{})
	assert.ErrorIs(t, err, domain.ErrTransport)
	assert.Equal(t, 0, remote.CallCount("Update"))

	dangling, err := journal.Dangling(context.Background())
	require.NoError(t, err)
	require.Len(t, dangling, 1)
	assert.Equal(t, doc, dangling[0].DocNumber)
}

func TestProfileService_UpdateFieldWhitelist(t *testing.T) {
	svc, remote, _ := newProfileService(t)
	doc := remote.AddProfile(memoryInvoice("X1", false))
	ctx := context.Background()

	tolerated := invoice("X1")
	tolerated.Head.DocNumber = &doc
	tolerated.Set(domain.FieldToExternalID, "ext-to")
	_, err := svc.Update(ctx, tolerated, domain.UpdateOptions{})
	require.NoError(t, err)

	rejected := invoice("X1")
	rejected.Head.DocNumber = &doc
	rejected.Set(domain.FieldCCExternalID, "ext-cc")
	_, err = svc.Update(ctx, rejected, domain.UpdateOptions{})
	assert.ErrorIs(t, err, domain.ErrFieldNotFound)
}

func TestProfileService_UpdateByKeys(t *testing.T) {
	svc, remote, _ := newProfileService(t)
	remote.AddProfile(memory.Profile{DocNumber: 8, ClassKey: "FATTURE", Fields: map[string]any{"NUMERO": "K1"}})
	remote.AddProfile(memory.Profile{DocNumber: 3, ClassKey: "FATTURE", Fields: map[string]any{"NUMERO": "K1"}})

	m := invoice("K1")
	m.Set("CLIENTE", "Initech")
	n, err := svc.Update(context.Background(), m, domain.UpdateOptions{})
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	p, _ := remote.Profile(3)
	assert.Equal(t, "Initech", p.Fields["CLIENTE"])
}

func TestProfileService_UpdateWithoutIdentity(t *testing.T) {
	svc, _, _ := newProfileService(t)
	m := invoice("X1")
	m.Keys = nil

	_, err := svc.Update(context.Background(), m, domain.UpdateOptions{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestProfileService_UpdateStateAndDate(t *testing.T) {
	svc, remote, _ := newProfileService(t)
	doc := remote.AddProfile(memoryInvoice("X1", false))
	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	m := invoice("X1")
	m.Head.DocNumber = &doc
	m.Head.Status = "BOZZA"
	m.Head.DocDate = &date

	_, err := svc.Update(context.Background(), m, domain.UpdateOptions{})
	require.NoError(t, err)

	p, _ := remote.Profile(doc)
	assert.Equal(t, "BOZZA", p.State)
	assert.Equal(t, date, p.Fields[domain.FieldDocDate])
}

func TestProfileService_UpdateKillWorkflow(t *testing.T) {
	svc, remote, _ := newProfileService(t)
	doc := remote.AddProfile(memoryInvoice("X1", true))
	remote.AddWorkflow(doc, domain.WorkflowRef{ProcessID: 77, State: domain.WorkflowStateActive})

	m := invoice("X1")
	m.Head.DocNumber = &doc
	_, err := svc.Update(context.Background(), m, domain.UpdateOptions{KillWorkflow: true})
	require.NoError(t, err)

	assert.Equal(t, 1, remote.CallCount("DeleteProcess"))
	assert.Equal(t, 1, remote.CallCount("FreeDocumentConstraint"))
	p, _ := remote.Profile(doc)
	assert.False(t, p.Workflow)
}

func TestProfileService_UpdateKillWorkflowWithPendingTask(t *testing.T) {
	svc, remote, journal := newProfileService(t)
	doc := remote.AddProfile(memoryInvoice("X1", true))
	remote.AddWorkflow(doc,
		domain.WorkflowRef{ProcessID: 77, State: domain.WorkflowStateActive},
		domain.TaskWork{ID: 501, UserID: 3})

	m := invoice("X1")
	m.Head.DocNumber = &doc
	m.Head.File = &domain.FilePayload{Name: "v2.pdf", Bytes: []byte("v2")}
	m.Set("CLIENTE", "ACME")

	n, err := svc.Update(context.Background(), m, domain.UpdateOptions{KillWorkflow: true, CheckInOption: 1})
	require.NoError(t, err)
	assert.Equal(t, doc, n)

	assert.Equal(t, 0, remote.CallCount("StopProcess"))
	assert.Equal(t, 0, remote.CallCount("DeleteProcess"), "a process with an open task is left running")
	assert.Equal(t, 1, remote.CallCount("FreeUserConstraint"))
	assert.Equal(t, 1, remote.CallCount("FreeDocumentConstraint"))
	assert.Equal(t,
		[]string{"FreeUserConstraint", "FreeDocumentConstraint", "CheckOut", "CacheInsert", "CheckIn", "Update"},
		only(remote.Calls(), "FreeUserConstraint", "FreeDocumentConstraint",
			"CheckOut", "CacheInsert", "CheckIn", "Update"))

	p, _ := remote.Profile(doc)
	assert.Equal(t, "ACME", p.Fields["CLIENTE"])
	assert.False(t, p.CheckedOut)
	require.Len(t, p.Document, 1)
	b, _ := remote.Buffer(p.Document[0])
	assert.Equal(t, "v2.pdf", b.Name)

	dangling, err := journal.Dangling(context.Background())
	require.NoError(t, err)
	assert.Empty(t, dangling)
}

func TestProfileService_UpdateReadsWorkflowOnlyWhenKilling(t *testing.T) {
	svc, remote, _ := newProfileService(t)
	doc := remote.AddProfile(memoryInvoice("X1", true))

	m := invoice("X1")
	m.Head.DocNumber = &doc
	_, err := svc.Update(context.Background(), m, domain.UpdateOptions{})
	require.NoError(t, err)

	assert.Equal(t, 0, remote.CallCount("GetSchema"))
	assert.Equal(t, 1, remote.CallCount("GetSchemaForEdit"))
	assert.Equal(t, 0, remote.CallCount("WorkflowHistory"))

	_, err = svc.Update(context.Background(), m, domain.UpdateOptions{KillWorkflow: true})
	require.NoError(t, err)
	assert.Equal(t, 1, remote.CallCount("GetSchema"))
}

func TestProfileService_UpdateKillWorkflowFailureIsIgnored(t *testing.T) {
	svc, remote, journal := newProfileService(t)
	doc := remote.AddProfile(memoryInvoice("X1", true))
	remote.Fail("WorkflowHistory", domain.ErrTransport)

	m := invoice("X1")
	m.Head.DocNumber = &doc
	m.Set("CLIENTE", "ACME")
	_, err := svc.Update(context.Background(), m, domain.UpdateOptions{KillWorkflow: true})
	require.NoError(t, err)

	p, _ := remote.Profile(doc)
	assert.Equal(t, "ACME", p.Fields["CLIENTE"])

	entries, err := journal.List(context.Background(), 0)
	require.NoError(t, err)
	var teardown *domain.JournalEntry
	for i := range entries {
		if entries[i].Step == domain.StepTeardown {
			teardown = &entries[i]
		}
	}
	require.NotNil(t, teardown)
	assert.Equal(t, domain.StepFailed, teardown.Status)
}

func TestProfileService_UpdateSkipsTeardownOutsideWorkflow(t *testing.T) {
	svc, remote, _ := newProfileService(t)
	doc := remote.AddProfile(memoryInvoice("X1", false))

	m := invoice("X1")
	m.Head.DocNumber = &doc
	_, err := svc.Update(context.Background(), m, domain.UpdateOptions{KillWorkflow: true})
	require.NoError(t, err)
	assert.Equal(t, 0, remote.CallCount("WorkflowHistory"))
}

// ==================== Delete ====================

func TestProfileService_Delete(t *testing.T) {
	svc, remote, _ := newProfileService(t)
	remote.AddProfile(memory.Profile{DocNumber: 12, ClassKey: "FATTURE", State: "VALIDA", Fields: map[string]any{"NUMERO": "D1"}})
	remote.AddProfile(memory.Profile{DocNumber: 5, ClassKey: "FATTURE", State: "VALIDA", Fields: map[string]any{"NUMERO": "D1"}})
	ctx := context.Background()

	require.NoError(t, svc.Delete(ctx, invoice("D1")))

	p, _ := remote.Profile(5)
	assert.Equal(t, domain.StatusDeleted, p.State, "lowest document number is eliminated")
	p, _ = remote.Profile(12)
	assert.Equal(t, "VALIDA", p.State)
}

func TestProfileService_DeleteIsIdempotent(t *testing.T) {
	svc, remote, _ := newProfileService(t)
	doc := remote.AddProfile(memoryInvoice("D2", false))
	ctx := context.Background()

	require.NoError(t, svc.Delete(ctx, invoice("D2")))
	require.NoError(t, svc.Delete(ctx, invoice("D2")))
	require.NoError(t, svc.Delete(ctx, invoice("never-created")))

	p, _ := remote.Profile(doc)
	assert.Equal(t, domain.StatusDeleted, p.State)
	assert.Equal(t, 1, remote.CallCount("Update"))
}

func TestProfileService_DeleteByDocNumber(t *testing.T) {
	svc, remote, _ := newProfileService(t)
	first := addInvoice(remote, 1, "N1", "VALIDA")
	second := addInvoice(remote, 2, "N2", "VALIDA")
	ctx := context.Background()

	m := &domain.Record{DocClass: domain.DocumentClass{DocumentType: "FATTURE"}}
	m.Head.DocNumber = &second
	require.NoError(t, svc.Delete(ctx, m))

	p, _ := remote.Profile(second)
	assert.Equal(t, domain.StatusDeleted, p.State)
	p, _ = remote.Profile(first)
	assert.Equal(t, "VALIDA", p.State, "a located model never falls back to a search")
	assert.Equal(t, 0, remote.CallCount("Search"))

	// Repeating the delete leaves every other profile alone.
	require.NoError(t, svc.Delete(ctx, m))
	p, _ = remote.Profile(first)
	assert.Equal(t, "VALIDA", p.State)
	assert.Equal(t, 1, remote.CallCount("Update"))

	missing := 404
	m.Head.DocNumber = &missing
	assert.NoError(t, svc.Delete(ctx, m))
}

func TestProfileService_DeleteRequiresIdentity(t *testing.T) {
	svc, remote, _ := newProfileService(t)
	doc := addInvoice(remote, 1, "N1", "VALIDA")
	ctx := context.Background()

	tests := []struct {
		name string
		m    *domain.Record
	}{
		{"no keys", &domain.Record{DocClass: domain.DocumentClass{DocumentType: "FATTURE"}}},
		{"key without value", &domain.Record{
			DocClass: domain.DocumentClass{DocumentType: "FATTURE"},
			Keys:     []string{"NUMERO"},
		}},
		{"key set to nil", &domain.Record{
			DocClass: domain.DocumentClass{DocumentType: "FATTURE"},
			Keys:     []string{"NUMERO"},
			Values:   []domain.Field{{Name: "NUMERO", Value: nil}},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.Delete(ctx, tt.m)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}

	p, _ := remote.Profile(doc)
	assert.Equal(t, "VALIDA", p.State)
	assert.Equal(t, 0, remote.CallCount("Update"))
}

func TestProfileService_HardDelete(t *testing.T) {
	svc, remote, _ := newProfileService(t)
	doc := remote.AddProfile(memoryInvoice("H1", false))
	ctx := context.Background()

	require.NoError(t, svc.HardDelete(ctx, doc))
	_, ok := remote.Profile(doc)
	assert.False(t, ok)

	err := svc.HardDelete(ctx, doc)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ==================== Reads ====================

func TestProfileService_GetAndFetch(t *testing.T) {
	svc, remote, _ := newProfileService(t)
	p := memoryInvoice("G1", false)
	p.Fields[domain.FieldDocName] = "Invoice G1"
	doc := remote.AddProfile(p)

	rec, err := Fetch[domain.Record](context.Background(), svc, doc)
	require.NoError(t, err)
	require.NotNil(t, rec.Head.DocNumber)
	assert.Equal(t, doc, *rec.Head.DocNumber)
	assert.Equal(t, "Invoice G1", rec.Head.DocName)
	assert.Equal(t, "VALIDA", rec.Head.Status)

	v, ok := rec.Get("NUMERO")
	require.True(t, ok)
	assert.Equal(t, "G1", v)

	_, err = Fetch[domain.Record](context.Background(), svc, 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProfileService_Download(t *testing.T) {
	svc, _, _ := newProfileService(t)
	ctx := context.Background()

	m := invoice("DL1")
	m.Head.File = &domain.FilePayload{Name: "scan.pdf", Bytes: []byte("scan")}
	n, err := svc.Create(ctx, m, domain.CreateOptions{})
	require.NoError(t, err)

	out := t.TempDir()
	path, err := svc.Download(ctx, n, out, false)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(out, "scan.pdf"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("scan"), data)
}
