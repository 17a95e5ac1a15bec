package migrator

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/surrealmigrate/surrealmigrate/config"
	"github.com/surrealmigrate/surrealmigrate/dbschema"
)

// Entry is one applied migration as recorded in the ledger table. The
// forward and reverse statements are stored in full with their checksums:
// rolling back must be possible from the ledger alone, without the schema
// documents that produced the migration.
type Entry struct {
	ID           string    `json:"entry_id"`
	AppliedAt    time.Time `json:"applied_at"`
	Message      string    `json:"message,omitempty"`
	Up           []string  `json:"up"`
	Down         []string  `json:"down"`
	Checksum     string    `json:"checksum"`
	DownChecksum string    `json:"down_checksum"`
}

// ledger reads and writes migration entries. Reads always go to the
// database: a cached history could hide entries written by another migrator
// instance.
type ledger struct {
	client dbschema.Client
}

// initialize creates the ledger table. Running it again is harmless.
func (l *ledger) initialize(ctx context.Context) error {
	results, err := l.client.Query(ctx,
		fmt.Sprintf("DEFINE TABLE IF NOT EXISTS %s SCHEMALESS;", config.LedgerTable), nil)
	if err != nil {
		return fmt.Errorf("failed to create ledger table: %w", err)
	}
	for _, r := range results {
		if !r.OK() {
			return fmt.Errorf("failed to create ledger table: %s", r.Detail)
		}
	}
	return nil
}

// append records a newly applied migration.
func (l *ledger) append(ctx context.Context, entry Entry) error {
	if err := l.client.Create(ctx, config.LedgerTable, entry); err != nil {
		return fmt.Errorf("failed to record migration in ledger: %w", err)
	}
	return nil
}

// entries returns the full migration history, oldest first.
func (l *ledger) entries(ctx context.Context) ([]Entry, error) {
	raw, err := l.client.Select(ctx, config.LedgerTable)
	if err != nil {
		return nil, fmt.Errorf("failed to read ledger: %w", err)
	}
	var all []Entry
	if err := json.Unmarshal(raw, &all); err != nil {
		return nil, fmt.Errorf("failed to decode ledger entries: %w", err)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].AppliedAt.Before(all[j].AppliedAt) })
	return all, nil
}

// latest returns the most recently applied migration.
func (l *ledger) latest(ctx context.Context) (Entry, error) {
	all, err := l.entries(ctx)
	if err != nil {
		return Entry{}, err
	}
	if len(all) == 0 {
		return Entry{}, ErrEmptyHistory
	}
	return all[len(all)-1], nil
}

// remove deletes an entry after its migration has been rolled back. The
// entry id is a field, not the record id, so removal goes through a query.
func (l *ledger) remove(ctx context.Context, id string) error {
	results, err := l.client.Query(ctx,
		fmt.Sprintf("DELETE FROM %s WHERE entry_id = $id;", config.LedgerTable),
		map[string]any{"id": id})
	if err != nil {
		return fmt.Errorf("failed to remove ledger entry %s: %w", id, err)
	}
	for _, r := range results {
		if !r.OK() {
			return fmt.Errorf("failed to remove ledger entry %s: %s", id, r.Detail)
		}
	}
	return nil
}

// newEntryID returns a fresh ledger entry identifier.
func newEntryID() string {
	return uuid.NewString()
}
