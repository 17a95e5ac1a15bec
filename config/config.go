// Package config provides configuration options for the surrealmigrate
// schema migration system.
//
// It carries two concerns: programmatic diff options (which tables are
// excluded from comparison) and connection settings for the target
// database, resolved from a config file and environment variables.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// DiffOptions contains configuration options for schema comparison
// operations. These options control which tables are excluded from diff
// calculations.
type DiffOptions struct {
	// IgnoredTables is a list of table names that should be ignored during
	// schema comparison. Ignored tables will:
	// - Never be removed, even if missing from the desired schema
	// - Be excluded from schema diff calculations entirely
	//
	// The migration ledger table is always in this list: the engine manages
	// it directly and must never diff itself into dropping its own history.
	IgnoredTables []string
}

// LedgerTable is the dedicated internal table holding applied-migration
// records. The leading underscore keeps it visually separate from
// application tables.
const LedgerTable = "_migrations"

// DefaultDiffOptions returns the default comparison options, ignoring only
// the migration ledger table.
func DefaultDiffOptions() *DiffOptions {
	return &DiffOptions{
		IgnoredTables: []string{LedgerTable},
	}
}

// WithIgnoredTables returns a new DiffOptions that ignores the ledger table
// plus the additional tables specified.
func WithIgnoredTables(tables ...string) *DiffOptions {
	opts := DefaultDiffOptions()
	opts.IgnoredTables = append(opts.IgnoredTables, tables...)
	return opts
}

// IsTableIgnored checks if the given table name should be excluded from
// schema comparison based on the current configuration.
func (o *DiffOptions) IsTableIgnored(name string) bool {
	for _, ignored := range o.IgnoredTables {
		if ignored == name {
			return true
		}
	}
	return false
}

// Connection holds the settings required to reach the target database.
type Connection struct {
	Endpoint  string `mapstructure:"endpoint"`  // e.g. ws://localhost:8000/rpc
	Namespace string `mapstructure:"namespace"`
	Database  string `mapstructure:"database"`
	Username  string `mapstructure:"username"`
	Password  string `mapstructure:"password"`
}

// Validate checks that the connection settings identify a single database.
func (c *Connection) Validate() error {
	if c.Endpoint == "" {
		return fmt.Errorf("connection endpoint is required")
	}
	if c.Namespace == "" || c.Database == "" {
		return fmt.Errorf("connection namespace and database are required")
	}
	return nil
}

// LoadConnection resolves connection settings from the given config file
// (optional) and the environment. Environment variables use the
// SURREALMIGRATE_ prefix, e.g. SURREALMIGRATE_ENDPOINT, and take precedence
// over file values.
func LoadConnection(path string) (*Connection, error) {
	v := viper.New()
	v.SetDefault("endpoint", "ws://localhost:8000/rpc")
	v.SetDefault("namespace", "")
	v.SetDefault("database", "")
	v.SetDefault("username", "root")
	v.SetDefault("password", "")

	v.SetEnvPrefix("SURREALMIGRATE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var conn Connection
	if err := v.Unmarshal(&conn); err != nil {
		return nil, fmt.Errorf("failed to parse connection settings: %w", err)
	}
	return &conn, nil
}
