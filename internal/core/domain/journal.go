package domain

import "time"

// Operation names recorded in the journal.
const (
	OpCreate     = "create"
	OpUpdate     = "update"
	OpDelete     = "delete"
	OpHardDelete = "hard_delete"
)

// Saga steps recorded in the journal.
const (
	StepCheckOut  = "check_out"
	StepUpload    = "upload"
	StepCheckIn   = "check_in"
	StepWrite     = "write"
	StepTeardown  = "teardown"
	StepResolve   = "resolve"
	StepStageFile = "stage"
)

// StepStatus is the outcome of a journalled step.
type StepStatus string

const (
	StepOK     StepStatus = "ok"
	StepFailed StepStatus = "failed"
)

// JournalEntry records one step of a multi-call mutation.
type JournalEntry struct {
	ID          string
	OperationID string
	Operation   string
	DocNumber   int
	Step        string
	Status      StepStatus
	Error       string
	At          time.Time
}
