// Package types defines the difference structures produced by schema
// comparison.
//
// Every difference records the values on both sides at the moment of
// comparison: the generator needs the old values to emit reversal
// statements, and reading them back later from a live database would race
// with the migration itself.
package types

// PropertyChange records a single property that differs between the current
// and desired definition of an entity.
type PropertyChange struct {
	// Property is the canonical lowercase property name, e.g. "type",
	// "default", "permissions", "changefeed".
	Property string
	// Old is the normalized current value ("" when the property is unset).
	Old string
	// New is the normalized desired value ("" when the property is removed).
	New string
}

// Rename records an entity that is declared to have moved from an earlier
// name, detected via the entity's declared previous names.
type Rename struct {
	From string
	To   string
}

// FieldDiff represents a field whose definition changed in place.
type FieldDiff struct {
	FieldName string
	Changes   []PropertyChange
}

// IndexClass says how an index difference must be applied. Indexes carry no
// data of their own, so most index changes drop and rebuild.
type IndexClass string

const (
	// IndexAlter applies the change with a targeted statement.
	IndexAlter IndexClass = "alter"
	// IndexRecreate removes and redefines the index.
	IndexRecreate IndexClass = "recreate"
)

// IndexDiff represents an index whose definition changed.
type IndexDiff struct {
	IndexName string
	Class     IndexClass
	Changes   []PropertyChange
}

// EventDiff represents a table event whose definition changed.
type EventDiff struct {
	EventName string
	Changes   []PropertyChange
}

// TableDiff represents all differences for a single table, including its
// fields, indexes and events. TableName is the desired-side name; for a
// renamed table it is the new name.
type TableDiff struct {
	TableName string
	Renamed   *Rename

	// Table-level property changes (mode, drop flag, changefeed,
	// permissions, comment, relation endpoints).
	PropsModified []PropertyChange
	// EndpointsChanged marks a relation whose IN/OUT endpoints differ.
	// Endpoint changes cannot be altered in place: the relation is
	// recreated, so the whole TableDiff is rendered as remove + define.
	EndpointsChanged bool

	FieldsAdded    []string
	FieldsRemoved  []string
	FieldsRenamed  []Rename
	FieldsModified []FieldDiff

	IndexesAdded    []string
	IndexesRemoved  []string
	IndexesModified []IndexDiff

	EventsAdded    []string
	EventsRemoved  []string
	EventsModified []EventDiff
}

// HasChanges reports whether the table diff carries any difference at all.
func (d TableDiff) HasChanges() bool {
	return d.Renamed != nil ||
		d.EndpointsChanged ||
		len(d.PropsModified) > 0 ||
		len(d.FieldsAdded) > 0 || len(d.FieldsRemoved) > 0 ||
		len(d.FieldsRenamed) > 0 || len(d.FieldsModified) > 0 ||
		len(d.IndexesAdded) > 0 || len(d.IndexesRemoved) > 0 || len(d.IndexesModified) > 0 ||
		len(d.EventsAdded) > 0 || len(d.EventsRemoved) > 0 || len(d.EventsModified) > 0
}

// NamedDiff represents a database-level entity (function, scope, analyzer,
// param, sequence, user) whose definition changed in place.
type NamedDiff struct {
	Name    string
	Renamed *Rename
	Changes []PropertyChange
}

// HasChanges reports whether the named diff carries any difference.
func (d NamedDiff) HasChanges() bool {
	return d.Renamed != nil || len(d.Changes) > 0
}

// SchemaDiff represents all differences between a current and a desired
// schema. Added/Removed slices hold entity names from the side they exist
// on; Modified slices hold per-entity difference detail.
type SchemaDiff struct {
	TablesAdded    []string
	TablesRemoved  []string
	TablesModified []TableDiff

	RelationsAdded    []string
	RelationsRemoved  []string
	RelationsModified []TableDiff

	FunctionsAdded    []string
	FunctionsRemoved  []string
	FunctionsModified []NamedDiff

	ScopesAdded    []string
	ScopesRemoved  []string
	ScopesModified []NamedDiff

	AnalyzersAdded    []string
	AnalyzersRemoved  []string
	AnalyzersModified []NamedDiff

	ParamsAdded    []string
	ParamsRemoved  []string
	ParamsModified []NamedDiff

	SequencesAdded    []string
	SequencesRemoved  []string
	SequencesModified []NamedDiff

	UsersAdded    []string
	UsersRemoved  []string
	UsersModified []NamedDiff

	CommentsAdded    []string
	CommentsRemoved  []string
	CommentsModified []NamedDiff
}

// HasChanges reports whether the diff contains any changes at all. It must
// stay the exact disjunction of the per-kind helpers below: a diff with no
// changes generates an empty migration, and a diff reporting changes must
// generate at least one statement.
func (d *SchemaDiff) HasChanges() bool {
	return d.hasTableChanges() ||
		d.hasRelationChanges() ||
		d.hasFunctionChanges() ||
		d.hasScopeChanges() ||
		d.hasAnalyzerChanges() ||
		d.hasParamChanges() ||
		d.hasSequenceChanges() ||
		d.hasUserChanges() ||
		d.hasCommentChanges()
}

func (d *SchemaDiff) hasTableChanges() bool {
	return len(d.TablesAdded) > 0 || len(d.TablesRemoved) > 0 || anyTableDiff(d.TablesModified)
}

func (d *SchemaDiff) hasRelationChanges() bool {
	return len(d.RelationsAdded) > 0 || len(d.RelationsRemoved) > 0 || anyTableDiff(d.RelationsModified)
}

func (d *SchemaDiff) hasFunctionChanges() bool {
	return len(d.FunctionsAdded) > 0 || len(d.FunctionsRemoved) > 0 || anyNamedDiff(d.FunctionsModified)
}

func (d *SchemaDiff) hasScopeChanges() bool {
	return len(d.ScopesAdded) > 0 || len(d.ScopesRemoved) > 0 || anyNamedDiff(d.ScopesModified)
}

func (d *SchemaDiff) hasAnalyzerChanges() bool {
	return len(d.AnalyzersAdded) > 0 || len(d.AnalyzersRemoved) > 0 || anyNamedDiff(d.AnalyzersModified)
}

func (d *SchemaDiff) hasParamChanges() bool {
	return len(d.ParamsAdded) > 0 || len(d.ParamsRemoved) > 0 || anyNamedDiff(d.ParamsModified)
}

func (d *SchemaDiff) hasSequenceChanges() bool {
	return len(d.SequencesAdded) > 0 || len(d.SequencesRemoved) > 0 || anyNamedDiff(d.SequencesModified)
}

func (d *SchemaDiff) hasUserChanges() bool {
	return len(d.UsersAdded) > 0 || len(d.UsersRemoved) > 0 || anyNamedDiff(d.UsersModified)
}

func (d *SchemaDiff) hasCommentChanges() bool {
	return len(d.CommentsAdded) > 0 || len(d.CommentsRemoved) > 0 || anyNamedDiff(d.CommentsModified)
}

func anyTableDiff(diffs []TableDiff) bool {
	for _, d := range diffs {
		if d.HasChanges() {
			return true
		}
	}
	return false
}

func anyNamedDiff(diffs []NamedDiff) bool {
	for _, d := range diffs {
		if d.HasChanges() {
			return true
		}
	}
	return false
}
