// Package logger provides stderr logging for the axrepo CLI.
// Debug, Info and Section output appears only with --verbose so the remote
// call sequence of an operation can be followed. Warnings, which report
// failures that were tolerated, are always printed.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
)

var (
	mu      sync.RWMutex
	verbose bool
	quiet   bool
	output  io.Writer = os.Stderr
)

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetQuiet suppresses warnings as well.
func SetQuiet(q bool) {
	mu.Lock()
	defer mu.Unlock()
	quiet = q
}

// SetOutput sets the output writer for logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

func printf(enabled func() bool, format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if enabled() {
		fmt.Fprintf(output, format, args...)
	}
}

func whenVerbose() bool { return verbose }

func unlessQuiet() bool { return verbose || !quiet }

// Debug prints a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	printf(whenVerbose, "[DEBUG] "+format+"\n", args...)
}

// Section prints a section header if verbose mode is enabled.
func Section(name string) {
	printf(whenVerbose, "\n=== %s ===\n", name)
}

// Info prints an informational message if verbose mode is enabled.
func Info(format string, args ...any) {
	printf(whenVerbose, "[INFO] "+format+"\n", args...)
}

// Warn prints a warning unless quiet mode is enabled.
// Verbose mode overrides quiet.
func Warn(format string, args ...any) {
	printf(unlessQuiet, "[WARN] "+format+"\n", args...)
}
