// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - Authenticator: Exchanges credentials for a scoped token
//   - ProfileAPI: Profile schema read, create, update and delete
//   - DocumentTypeAPI: Document class and state lookup
//   - SearchAPI: Profile search
//   - BufferAPI: File staging into the buffer or cache store
//   - CheckInOutAPI: Check-out / check-in of document content
//   - WorkflowAPI: Workflow history and teardown
//   - DocumentAPI: Document download
//   - AddressBookAPI: Contact resolution
//   - AttachmentAPI: Profile attachment listing and download
//   - TaskAPI: Workflow task work, process documents and task attachments
//   - ConfigStore: Connection settings persistence
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - Journal: Saga step recording. Without it, no steps are recorded.
//   - IdentityAPI: Token identity lookup. Without it, login only authenticates.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
