// Package migrator applies schema migrations to a live database and keeps
// the ledger of what has been applied.
//
// The migrator is the only component that writes to the database. It
// composes the introspection reader, the diff generator and the ledger:
// Migrate reads the current schema, generates the statements that bring it
// to the desired schema, executes them and records the applied migration;
// Rollback replays the most recent entry's reverse statements and removes
// the entry.
package migrator

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/surrealmigrate/surrealmigrate/config"
	"github.com/surrealmigrate/surrealmigrate/core/checksum"
	"github.com/surrealmigrate/surrealmigrate/core/schema"
	"github.com/surrealmigrate/surrealmigrate/dbschema"
	"github.com/surrealmigrate/surrealmigrate/dbschema/surreal"
	"github.com/surrealmigrate/surrealmigrate/migration/generator"
)

// SchemaReader reconstructs the current schema from the database.
type SchemaReader interface {
	ReadSchema(ctx context.Context) (*schema.Schema, error)
}

// Migrator drives schema migrations against a single database.
//
// A Migrator is not safe for concurrent use: migrations are inherently
// serial, and two concurrent Migrate calls would race on the schema they
// both introspected.
type Migrator struct {
	client      dbschema.Client
	reader      SchemaReader
	opts        *config.DiffOptions
	logger      *slog.Logger
	initialized bool
}

// Option configures a Migrator.
type Option func(*Migrator)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Migrator) { m.logger = logger }
}

// WithDiffOptions sets the comparison options used when generating diffs.
func WithDiffOptions(opts *config.DiffOptions) Option {
	return func(m *Migrator) { m.opts = opts }
}

// WithReader replaces the introspection reader. Tests use this to supply a
// canned current schema.
func WithReader(reader SchemaReader) Option {
	return func(m *Migrator) { m.reader = reader }
}

// New returns a Migrator over the given client. Initialize must be called
// before any other method.
func New(client dbschema.Client, options ...Option) *Migrator {
	m := &Migrator{
		client: client,
		opts:   config.DefaultDiffOptions(),
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range options {
		opt(m)
	}
	if m.reader == nil {
		m.reader = surreal.NewReader(client, m.logger)
	}
	return m
}

// Initialize prepares the ledger table. It is idempotent.
func (m *Migrator) Initialize(ctx context.Context) error {
	l := &ledger{client: m.client}
	if err := l.initialize(ctx); err != nil {
		return err
	}
	m.initialized = true
	return nil
}

// CurrentSchema returns the schema as the database reports it right now.
func (m *Migrator) CurrentSchema(ctx context.Context) (*schema.Schema, error) {
	return m.reader.ReadSchema(ctx)
}

// GenerateDiff compares the live schema against desired and returns the
// migration script that would reconcile them, without executing anything.
func (m *Migrator) GenerateDiff(ctx context.Context, desired *schema.Schema) (*generator.Script, error) {
	current, err := m.reader.ReadSchema(ctx)
	if err != nil {
		return nil, err
	}
	return generator.Generate(current, desired, m.opts)
}

// HasChanges reports whether migrating to desired would change anything.
func (m *Migrator) HasChanges(ctx context.Context, desired *schema.Schema) (bool, error) {
	script, err := m.GenerateDiff(ctx, desired)
	if err != nil {
		return false, err
	}
	return script.HasChanges(), nil
}

// Migrate brings the database schema to the desired state and records the
// applied migration in the ledger. It returns ErrNoChanges when the schemas
// already match, and in that case writes nothing.
//
// If any statement fails, execution stops and no ledger entry is written:
// the ledger records only migrations that ran to completion.
func (m *Migrator) Migrate(ctx context.Context, desired *schema.Schema, message string) (*Entry, error) {
	if !m.initialized {
		return nil, ErrNotInitialized
	}

	script, err := m.GenerateDiff(ctx, desired)
	if err != nil {
		return nil, err
	}
	if !script.HasChanges() {
		return nil, ErrNoChanges
	}

	m.logger.Info("applying migration",
		"statements", len(script.Up),
		"changes", len(script.Changes),
		"message", message)

	if err := m.execute(ctx, script.Up); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	entry := Entry{
		ID:           newEntryID(),
		AppliedAt:    time.Now().UTC(),
		Message:      message,
		Up:           script.Up,
		Down:         script.Down,
		Checksum:     checksum.Calculate(script.UpSQL()),
		DownChecksum: checksum.Calculate(script.DownSQL()),
	}
	l := &ledger{client: m.client}
	if err := l.append(ctx, entry); err != nil {
		return nil, err
	}

	m.logger.Info("migration applied", "id", entry.ID, "statements", len(entry.Up))
	return &entry, nil
}

// Rollback undoes the most recently applied migration and removes its
// ledger entry. Before executing anything it re-verifies the entry's
// reverse statements against their recorded checksum and refuses to run an
// entry that fails verification.
func (m *Migrator) Rollback(ctx context.Context) (*Entry, error) {
	if !m.initialized {
		return nil, ErrNotInitialized
	}

	l := &ledger{client: m.client}
	entry, err := l.latest(ctx)
	if err != nil {
		return nil, err
	}

	// A mismatch means the ledger drifted since the migration was applied.
	upSQL := strings.Join(entry.Up, "\n")
	if !checksum.Verify(upSQL, entry.Checksum) {
		return nil, &ChecksumMismatchError{
			EntryID:  entry.ID,
			Stored:   entry.Checksum,
			Computed: checksum.Calculate(upSQL),
		}
	}
	downSQL := strings.Join(entry.Down, "\n")
	if !checksum.Verify(downSQL, entry.DownChecksum) {
		return nil, &ChecksumMismatchError{
			EntryID:  entry.ID,
			Stored:   entry.DownChecksum,
			Computed: checksum.Calculate(downSQL),
		}
	}

	m.logger.Info("rolling back migration", "id", entry.ID, "statements", len(entry.Down))

	if err := m.execute(ctx, entry.Down); err != nil {
		return nil, fmt.Errorf("rollback failed: %w", err)
	}
	if err := l.remove(ctx, entry.ID); err != nil {
		return nil, err
	}

	m.logger.Info("migration rolled back", "id", entry.ID)
	return &entry, nil
}

// History returns all applied migrations, oldest first. It always reads
// the ledger table; nothing is cached.
func (m *Migrator) History(ctx context.Context) ([]Entry, error) {
	if !m.initialized {
		return nil, ErrNotInitialized
	}
	l := &ledger{client: m.client}
	return l.entries(ctx)
}

// execute runs the statements as one batch and fails on the first
// statement the database rejects.
func (m *Migrator) execute(ctx context.Context, statements []string) error {
	if len(statements) == 0 {
		return nil
	}
	results, err := m.client.Query(ctx, strings.Join(statements, "\n"), nil)
	if err != nil {
		return err
	}
	for i, r := range results {
		if r.OK() {
			continue
		}
		stmt := ""
		if i < len(statements) {
			stmt = statements[i]
		}
		return &StatementError{Statement: stmt, Index: i, Detail: r.Detail}
	}
	return nil
}
