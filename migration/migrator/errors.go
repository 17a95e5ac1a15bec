package migrator

import (
	"errors"
	"fmt"
)

// ErrNoChanges is returned by Migrate when the desired schema already
// matches the database. No ledger entry is written in that case.
var ErrNoChanges = errors.New("schema is up to date")

// ErrNotInitialized is returned when a migrator method runs before
// Initialize has prepared the ledger table.
var ErrNotInitialized = errors.New("migrator is not initialized")

// ErrEmptyHistory is returned by Rollback when the ledger holds no applied
// migrations.
var ErrEmptyHistory = errors.New("migration history is empty")

// ChecksumMismatchError reports a ledger entry whose stored statements no
// longer match their recorded checksum. Rollback refuses to execute such an
// entry: statements that were edited after being applied cannot be trusted
// to undo anything.
type ChecksumMismatchError struct {
	EntryID  string
	Stored   string
	Computed string
}

func (e *ChecksumMismatchError) Error() string {
	return fmt.Sprintf("checksum mismatch for migration %s: ledger has %s, statements hash to %s",
		e.EntryID, e.Stored, e.Computed)
}

// StatementError reports a statement that the database rejected, along with
// its position in the batch.
type StatementError struct {
	Statement string
	Index     int
	Detail    string
}

func (e *StatementError) Error() string {
	return fmt.Sprintf("statement %d failed: %s (%s)", e.Index+1, e.Detail, e.Statement)
}
