// Package arxivar implements the remote ports over the document-management
// service's JSON/HTTP API.
//
// Requests carry a bearer token obtained per scope from a
// driven.TokenProvider and are throttled client-side. Non-2xx responses
// are mapped onto the domain error sentinels.
package arxivar
