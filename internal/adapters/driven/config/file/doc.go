// Package file provides the TOML-backed connection settings store.
//
// Settings are kept in a flat TOML file, ~/.axrepo/config.toml by default.
// The file holds credentials and is written with 0600 permissions.
package file
