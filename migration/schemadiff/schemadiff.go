// Package schemadiff compares a current database schema against a desired
// schema and produces a structured description of every difference.
//
// The comparison is read-only and side-effect free: both input schemas are
// treated as immutable snapshots, and the resulting SchemaDiff is the single
// input the migration generator needs to emit forward and reverse
// statements. Comparing identical schemas yields a diff whose HasChanges
// method reports false.
package schemadiff

import (
	"github.com/surrealmigrate/surrealmigrate/config"
	"github.com/surrealmigrate/surrealmigrate/core/schema"
	"github.com/surrealmigrate/surrealmigrate/migration/schemadiff/internal/compare"
	difftypes "github.com/surrealmigrate/surrealmigrate/migration/schemadiff/types"
)

// Compare performs schema comparison between the current and desired schemas
// using default options, which ignore only the migration ledger table. For
// custom configuration, use CompareWithOptions.
func Compare(current, desired *schema.Schema) *difftypes.SchemaDiff {
	return CompareWithOptions(current, desired, nil)
}

// CompareWithOptions performs schema comparison with custom configuration.
//
// The current schema is the one reconstructed from the live database; the
// desired schema is the one the application declares. The orientation
// matters: entities present only in desired are additions, entities present
// only in current are removals.
//
// opts may be nil, in which case defaults apply.
func CompareWithOptions(current, desired *schema.Schema, opts *config.DiffOptions) *difftypes.SchemaDiff {
	if opts == nil {
		opts = config.DefaultDiffOptions()
	}

	diff := &difftypes.SchemaDiff{}

	compare.Tables(current.Tables, desired.Tables, opts, diff)
	compare.Relations(current.Relations, desired.Relations, opts, diff)
	compare.Functions(current.Functions, desired.Functions, diff)
	compare.Scopes(current.Scopes, desired.Scopes, diff)
	compare.Analyzers(current.Analyzers, desired.Analyzers, diff)
	compare.Params(current.Params, desired.Params, diff)
	compare.Sequences(current.Sequences, desired.Sequences, diff)
	compare.Users(current.Users, desired.Users, diff)
	compare.Comments(current.Comments, desired.Comments, diff)

	return diff
}
