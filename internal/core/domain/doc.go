// Package domain defines the core business entities for axrepo.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Model: A caller-supplied, typed document profile of one document class
//   - Schema: The remote, editable field set of a profile
//   - SearchCriteria / Row: Search input and result rows
//   - Token: A scoped bearer credential
//   - Contact: A normalised address-book record
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
