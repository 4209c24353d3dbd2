// Package services implements the driving port interfaces.
//
// ProfileService is the entry point: it composes the token manager, the
// staging pipeline, the search engine, contact resolution and workflow
// teardown into the create, update and delete sequences run against the
// remote service. Each multi-call sequence is recorded step by step in the
// optional journal.
//
// Services call out only through driven ports and hold no state beyond a
// single operation, except for the cached tokens.
package services
