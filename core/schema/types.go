// Package schema defines the core data structures used throughout the
// surrealmigrate schema migration system. These types are the intermediate
// representation of SurrealDB schema elements: the desired schema (produced
// by a builder DSL or loaded from a schema document) and the current schema
// (reconstructed from the live database by introspection) are both expressed
// in these shapes, so the comparator treats the two sides symmetrically.
package schema

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Mode controls how strictly a table enforces its declared fields.
type Mode string

const (
	// ModeFull corresponds to SCHEMAFULL tables: only declared fields are accepted.
	ModeFull Mode = "full"
	// ModeLoose corresponds to SCHEMALESS tables: undeclared fields are allowed.
	ModeLoose Mode = "loose"
)

// TableKind distinguishes ordinary tables from graph-relation tables.
type TableKind string

const (
	KindNormal   TableKind = "normal"
	KindRelation TableKind = "relation"
	KindAny      TableKind = "any"
)

// IndexKind enumerates the supported index families.
type IndexKind string

const (
	IndexBTree  IndexKind = "btree"
	IndexHash   IndexKind = "hash"
	IndexSearch IndexKind = "search"
	IndexMTree  IndexKind = "mtree"
	IndexHNSW   IndexKind = "hnsw"
)

// TriggerType identifies the table operation an event fires on.
type TriggerType string

const (
	TriggerCreate TriggerType = "create"
	TriggerUpdate TriggerType = "update"
	TriggerDelete TriggerType = "delete"
)

// Schema is the root snapshot of a database schema. It is immutable once
// built: the diffing code never mutates either side of a comparison.
//
// Tables and Relations are kept as separate entity lists because the diff
// classifies and orders them independently. A Relation is a Table variant
// whose In/Out endpoint fields are mandatory and record-typed.
type Schema struct {
	Tables    []Table    `json:"tables"`
	Relations []Table    `json:"relations"`
	Functions []Function `json:"functions"`
	Scopes    []Scope    `json:"scopes"`
	Analyzers []Analyzer `json:"analyzers"`
	Params    []Param    `json:"params"`
	Sequences []Sequence `json:"sequences"`
	Users     []User     `json:"users"`
	Comments  []Comment  `json:"comments"`
}

// Changefeed captures a table's change-capture configuration.
type Changefeed struct {
	Duration        string `json:"duration"`         // retention window, e.g. "3d"
	IncludeOriginal bool   `json:"include_original"` // keep the pre-change record in the feed
}

// Table represents a table (or graph-relation table) definition.
type Table struct {
	Name          string      `json:"name"`
	Mode          Mode        `json:"mode"`                // full (SCHEMAFULL) or loose (SCHEMALESS)
	Kind          TableKind   `json:"kind"`                // normal, relation, any
	From          string      `json:"from,omitempty"`      // relation inbound endpoint table
	To            string      `json:"to,omitempty"`        // relation outbound endpoint table
	Drop          bool        `json:"drop"`                // DROP flag: writes are discarded after events run
	Permissions   string      `json:"permissions,omitempty"`
	Changefeed    *Changefeed `json:"changefeed,omitempty"`
	Comment       string      `json:"comment,omitempty"`
	PreviousNames []string    `json:"previous_names,omitempty"` // declared former names, in declaration order
	Fields        []Field     `json:"fields"`
	Indexes       []Index     `json:"indexes"`
	Events        []Event     `json:"events"`
}

// IsRelation reports whether the table is a graph-relation table, either by
// explicit kind or because both endpoint reference fields are present.
func (t Table) IsRelation() bool {
	return t.Kind == KindRelation || (t.From != "" && t.To != "")
}

// Field returns the field with the given name, or nil.
func (t Table) Field(name string) *Field {
	for i := range t.Fields {
		if t.Fields[i].Name == name {
			return &t.Fields[i]
		}
	}
	return nil
}

// Reference declares a record link to another table with its delete behavior.
type Reference struct {
	Table    string `json:"table"`
	OnDelete string `json:"on_delete,omitempty"` // reject, cascade, ignore, unset
}

// Field represents a single field definition on a table.
type Field struct {
	Name          string     `json:"name"`
	Type          string     `json:"type"`     // type expression, e.g. "option<int>", "record<user>"
	Optional      bool       `json:"optional"` // shorthand for wrapping Type in option<...>
	ReadOnly      bool       `json:"readonly"`
	Flexible      bool       `json:"flexible"`
	Default       string     `json:"default,omitempty"`
	DefaultAlways bool       `json:"default_always"` // DEFAULT ALWAYS: reapplied on update, not just create
	Value         string     `json:"value,omitempty"`  // computed value expression
	Assert        string     `json:"assert,omitempty"` // validation expression
	Permissions   string     `json:"permissions,omitempty"`
	Reference     *Reference `json:"reference,omitempty"`
	Comment       string     `json:"comment,omitempty"`
	PreviousNames []string   `json:"previous_names,omitempty"`
}

// BM25 holds full-text ranking parameters for search indexes.
type BM25 struct {
	K1 float64 `json:"k1"`
	B  float64 `json:"b"`
}

// SearchParams holds the parameters specific to full-text search indexes.
type SearchParams struct {
	Analyzer        string `json:"analyzer"`
	BM25            *BM25  `json:"bm25,omitempty"`
	Highlights      bool   `json:"highlights"`
	DocIDsCache     int    `json:"doc_ids_cache,omitempty"`
	DocLengthsCache int    `json:"doc_lengths_cache,omitempty"`
	PostingsCache   int    `json:"postings_cache,omitempty"`
	TermsCache      int    `json:"terms_cache,omitempty"`
}

// MTreeParams holds the parameters specific to M-tree vector indexes.
type MTreeParams struct {
	Dimension int    `json:"dimension"`
	Distance  string `json:"distance"` // EUCLIDEAN, COSINE, MANHATTAN, ...
	Capacity  int    `json:"capacity,omitempty"`
}

// HNSWParams holds the parameters specific to HNSW vector indexes.
type HNSWParams struct {
	Dimension int     `json:"dimension"`
	Distance  string  `json:"distance"`
	EFC       int     `json:"efc,omitempty"`
	M         int     `json:"m,omitempty"`
	M0        int     `json:"m0,omitempty"`
	LM        float64 `json:"lm,omitempty"`
}

// Index represents an index definition on a table. Exactly one of the
// kind-specific parameter blocks is set for search/mtree/hnsw indexes.
type Index struct {
	Name    string        `json:"name"`
	Columns []string      `json:"columns"`
	Unique  bool          `json:"unique"`
	Kind    IndexKind     `json:"kind"`
	Search  *SearchParams `json:"search,omitempty"`
	MTree   *MTreeParams  `json:"mtree,omitempty"`
	HNSW    *HNSWParams   `json:"hnsw,omitempty"`
	Comment string        `json:"comment,omitempty"`
}

// Event represents a table event (trigger) definition.
type Event struct {
	Name    string      `json:"name"`
	Trigger TriggerType `json:"trigger"`
	When    string      `json:"when,omitempty"` // optional guard expression
	Then    string      `json:"then"`
	Comment string      `json:"comment,omitempty"`
}

// Function represents a custom database function definition.
type Function struct {
	Name          string   `json:"name"` // without the fn:: prefix
	Args          string   `json:"args,omitempty"`
	Body          string   `json:"body"`
	Comment       string   `json:"comment,omitempty"`
	PreviousNames []string `json:"previous_names,omitempty"`
}

// Scope represents an authentication scope (access method) definition.
type Scope struct {
	Name            string   `json:"name"`
	SessionDuration string   `json:"session_duration,omitempty"`
	SignUp          string   `json:"sign_up,omitempty"`
	SignIn          string   `json:"sign_in,omitempty"`
	Comment         string   `json:"comment,omitempty"`
	PreviousNames   []string `json:"previous_names,omitempty"`
}

// Analyzer represents a full-text analyzer definition.
type Analyzer struct {
	Name          string   `json:"name"`
	Tokenizers    []string `json:"tokenizers,omitempty"`
	Filters       []string `json:"filters,omitempty"`
	Comment       string   `json:"comment,omitempty"`
	PreviousNames []string `json:"previous_names,omitempty"`
}

// Param represents a database-wide parameter definition.
type Param struct {
	Name          string   `json:"name"` // without the $ prefix
	Value         string   `json:"value"`
	Comment       string   `json:"comment,omitempty"`
	PreviousNames []string `json:"previous_names,omitempty"`
}

// Sequence represents a monotonic sequence definition.
type Sequence struct {
	Name          string   `json:"name"`
	Batch         int      `json:"batch,omitempty"`
	Start         int      `json:"start,omitempty"`
	Comment       string   `json:"comment,omitempty"`
	PreviousNames []string `json:"previous_names,omitempty"`
}

// User represents a database-level user definition. Only the password hash
// is carried; plaintext passwords never enter the schema model.
type User struct {
	Name          string   `json:"name"`
	PasswordHash  string   `json:"password_hash,omitempty"`
	Roles         []string `json:"roles,omitempty"`
	Comment       string   `json:"comment,omitempty"`
	PreviousNames []string `json:"previous_names,omitempty"`
}

// Comment is a free-standing schema comment attached to a named target.
type Comment struct {
	On   string `json:"on"`
	Text string `json:"text"`
}

// Load decodes a schema document from r. Unknown keys are rejected so that a
// typo in a schema document fails loudly instead of silently diffing to a
// removal.
func Load(r io.Reader) (*Schema, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	var s Schema
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to decode schema document: %w", err)
	}
	return &s, nil
}

// LoadFile reads and decodes a schema document from the given path.
func LoadFile(path string) (*Schema, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open schema document: %w", err)
	}
	defer f.Close()
	return Load(f)
}
