package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/axrepo/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/axrepo/internal/core/domain"
	"github.com/custodia-labs/axrepo/internal/core/ports/driven"
)

// Store is a SQLite-based store for local operational state.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.axrepo/data/journal.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".axrepo", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "journal.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Journal returns a Journal interface backed by this store.
func (s *Store) Journal() driven.Journal {
	return &journal{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_journal.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Journal ====================

// journal implements driven.Journal.
type journal struct {
	store *Store
}

var _ driven.Journal = (*journal)(nil)

// Record appends an entry.
func (j *journal) Record(ctx context.Context, entry domain.JournalEntry) error {
	if entry.At.IsZero() {
		entry.At = time.Now().UTC()
	}

	_, err := j.store.db.ExecContext(ctx, `
		INSERT INTO journal_entries (id, operation_id, operation, doc_number, step, status, error, at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, entry.ID, entry.OperationID, entry.Operation, entry.DocNumber,
		entry.Step, string(entry.Status), nullString(entry.Error), entry.At.UTC())
	if err != nil {
		return fmt.Errorf("recording journal entry: %w", err)
	}
	return nil
}

// List returns the most recent entries, newest first.
func (j *journal) List(ctx context.Context, limit int) ([]domain.JournalEntry, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := j.store.db.QueryContext(ctx, `
		SELECT id, operation_id, operation, doc_number, step, status, error, at
		FROM journal_entries
		ORDER BY seq DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing journal entries: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// Dangling returns successful check-outs with no later successful check-in
// of the same document.
func (j *journal) Dangling(ctx context.Context) ([]domain.JournalEntry, error) {
	rows, err := j.store.db.QueryContext(ctx, `
		SELECT o.id, o.operation_id, o.operation, o.doc_number, o.step, o.status, o.error, o.at
		FROM journal_entries o
		WHERE o.step = ? AND o.status = ?
		  AND o.seq = (
			SELECT MAX(seq) FROM journal_entries
			WHERE doc_number = o.doc_number AND step = ? AND status = ?
		  )
		  AND NOT EXISTS (
			SELECT 1 FROM journal_entries i
			WHERE i.doc_number = o.doc_number AND i.step = ? AND i.status = ? AND i.seq > o.seq
		  )
		ORDER BY o.seq
	`, domain.StepCheckOut, string(domain.StepOK),
		domain.StepCheckOut, string(domain.StepOK),
		domain.StepCheckIn, string(domain.StepOK))
	if err != nil {
		return nil, fmt.Errorf("listing dangling check-outs: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

func scanEntries(rows *sql.Rows) ([]domain.JournalEntry, error) {
	var entries []domain.JournalEntry
	for rows.Next() {
		var (
			e      domain.JournalEntry
			status string
			errMsg sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.OperationID, &e.Operation, &e.DocNumber,
			&e.Step, &status, &errMsg, &e.At); err != nil {
			return nil, fmt.Errorf("scanning journal entry: %w", err)
		}
		e.Status = domain.StepStatus(status)
		e.Error = errMsg.String
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// nullString converts an empty string to SQL NULL.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
