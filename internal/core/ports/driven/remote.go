package driven

// RemoteService is the full surface of the remote document-management
// service used by the profile orchestrator.
type RemoteService interface {
	ProfileAPI
	DocumentTypeAPI
	SearchAPI
	BufferAPI
	DocumentAPI
	CheckInOutAPI
	WorkflowAPI
	AddressBookAPI
	AttachmentAPI
	TaskAPI
}
