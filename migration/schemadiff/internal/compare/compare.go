// Package compare contains the entity-level comparison engine behind schema
// diffing.
//
// Each comparison walks two sides of the same entity kind: the current side
// reconstructed from the live database and the desired side declared by the
// application. Lookups are map-based and all output name lists are sorted so
// that repeated comparisons of the same schemas produce identical diffs.
//
// Values are canonicalized through the normalize package before comparison,
// so cosmetic differences in how the database echoes a definition back (type
// casing, quote style, permission clause ordering) never surface as changes.
package compare

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/surrealmigrate/surrealmigrate/config"
	"github.com/surrealmigrate/surrealmigrate/core/normalize"
	"github.com/surrealmigrate/surrealmigrate/core/schema"
	difftypes "github.com/surrealmigrate/surrealmigrate/migration/schemadiff/types"
)

// matchRename returns the current-side name a desired entity moved from.
//
// The desired entity is already known to be absent from the current side by
// its own name. Its declared previous names are consulted in declaration
// order and the first one still present on the current side wins. When none
// match, the entity is a plain addition, never an error: previous names are
// history, and history older than the current database state is expected.
func matchRename(currentNames map[string]bool, previous []string) (string, bool) {
	for _, prev := range previous {
		if currentNames[prev] {
			return prev, true
		}
	}
	return "", false
}

// Tables compares the table lists of two schemas, reporting added, removed
// and modified tables. Renamed tables are paired up via their declared
// previous names and reported as modifications carrying a Rename, so the
// generator can preserve their records instead of dropping them.
//
// Tables ignored by opts are invisible to the comparison on both sides.
func Tables(current, desired []schema.Table, opts *config.DiffOptions, diff *difftypes.SchemaDiff) {
	added, removed, modified := tables(current, desired, opts)
	diff.TablesAdded = added
	diff.TablesRemoved = removed
	diff.TablesModified = modified
}

// Relations compares the graph-relation table lists of two schemas. The
// mechanics match Tables; only the diff buckets differ, because relations
// are classified and ordered independently.
func Relations(current, desired []schema.Table, opts *config.DiffOptions, diff *difftypes.SchemaDiff) {
	added, removed, modified := tables(current, desired, opts)
	diff.RelationsAdded = added
	diff.RelationsRemoved = removed
	diff.RelationsModified = modified
}

func tables(current, desired []schema.Table, opts *config.DiffOptions) (added, removed []string, modified []difftypes.TableDiff) {
	currentByName := make(map[string]schema.Table, len(current))
	currentNames := make(map[string]bool, len(current))
	for _, t := range current {
		if opts.IsTableIgnored(t.Name) {
			continue
		}
		currentByName[t.Name] = t
		currentNames[t.Name] = true
	}

	desiredByName := make(map[string]schema.Table, len(desired))
	for _, t := range desired {
		if opts.IsTableIgnored(t.Name) {
			continue
		}
		desiredByName[t.Name] = t
	}

	// consumed marks current tables claimed by a rename so they are not
	// also reported as removed.
	consumed := make(map[string]bool)

	for name, des := range desiredByName {
		if _, exists := currentByName[name]; exists {
			continue
		}
		if from, ok := matchRename(currentNames, des.PreviousNames); ok && !consumed[from] {
			consumed[from] = true
			td := tableDiff(currentByName[from], des)
			td.Renamed = &difftypes.Rename{From: from, To: name}
			modified = append(modified, td)
			continue
		}
		added = append(added, name)
	}

	for name := range currentByName {
		if _, exists := desiredByName[name]; !exists && !consumed[name] {
			removed = append(removed, name)
		}
	}

	for name, des := range desiredByName {
		cur, exists := currentByName[name]
		if !exists {
			continue
		}
		if td := tableDiff(cur, des); td.HasChanges() {
			modified = append(modified, td)
		}
	}

	sort.Strings(added)
	sort.Strings(removed)
	sort.Slice(modified, func(i, j int) bool { return modified[i].TableName < modified[j].TableName })
	return added, removed, modified
}

// tableDiff compares two definitions of the same logical table.
func tableDiff(cur, des schema.Table) difftypes.TableDiff {
	td := difftypes.TableDiff{TableName: des.Name}

	td.PropsModified = tableProps(cur, des)
	if cur.IsRelation() || des.IsRelation() {
		if cur.From != des.From || cur.To != des.To {
			td.EndpointsChanged = true
		}
	}

	fields(cur.Fields, des.Fields, &td)
	indexes(cur.Indexes, des.Indexes, &td)
	events(cur.Events, des.Events, &td)
	return td
}

func tableProps(cur, des schema.Table) []difftypes.PropertyChange {
	var changes []difftypes.PropertyChange

	curMode, desMode := cur.Mode, des.Mode
	if curMode == "" {
		curMode = schema.ModeFull
	}
	if desMode == "" {
		desMode = schema.ModeFull
	}
	if curMode != desMode {
		changes = append(changes, difftypes.PropertyChange{Property: "mode", Old: string(curMode), New: string(desMode)})
	}
	if cur.Drop != des.Drop {
		changes = append(changes, boolChange("drop", cur.Drop, des.Drop))
	}
	if c := changefeedValue(cur.Changefeed); c != changefeedValue(des.Changefeed) {
		changes = append(changes, difftypes.PropertyChange{
			Property: "changefeed",
			Old:      c,
			New:      changefeedValue(des.Changefeed),
		})
	}
	if old, new := normalize.Permissions(cur.Permissions), normalize.Permissions(des.Permissions); old != new {
		changes = append(changes, difftypes.PropertyChange{Property: "permissions", Old: old, New: new})
	}
	if cur.Comment != des.Comment {
		changes = append(changes, difftypes.PropertyChange{Property: "comment", Old: cur.Comment, New: des.Comment})
	}
	if cur.IsRelation() || des.IsRelation() {
		if cur.From != des.From {
			changes = append(changes, difftypes.PropertyChange{Property: "in", Old: cur.From, New: des.From})
		}
		if cur.To != des.To {
			changes = append(changes, difftypes.PropertyChange{Property: "out", Old: cur.To, New: des.To})
		}
	}
	return changes
}

func changefeedValue(c *schema.Changefeed) string {
	if c == nil {
		return ""
	}
	v := normalize.Expression(c.Duration)
	if c.IncludeOriginal {
		v += " INCLUDE ORIGINAL"
	}
	return v
}

// fields populates the field buckets of a table diff, with the same
// rename-aware pairing used for tables.
func fields(current, desired []schema.Field, td *difftypes.TableDiff) {
	currentByName := make(map[string]schema.Field, len(current))
	currentNames := make(map[string]bool, len(current))
	for _, f := range current {
		currentByName[f.Name] = f
		currentNames[f.Name] = true
	}
	desiredByName := make(map[string]schema.Field, len(desired))
	for _, f := range desired {
		desiredByName[f.Name] = f
	}

	consumed := make(map[string]bool)

	for name, des := range desiredByName {
		if _, exists := currentByName[name]; exists {
			continue
		}
		if from, ok := matchRename(currentNames, des.PreviousNames); ok && !consumed[from] {
			consumed[from] = true
			td.FieldsRenamed = append(td.FieldsRenamed, difftypes.Rename{From: from, To: name})
			if changes := fieldProps(currentByName[from], des); len(changes) > 0 {
				td.FieldsModified = append(td.FieldsModified, difftypes.FieldDiff{FieldName: name, Changes: changes})
			}
			continue
		}
		td.FieldsAdded = append(td.FieldsAdded, name)
	}

	for name := range currentByName {
		if _, exists := desiredByName[name]; !exists && !consumed[name] {
			td.FieldsRemoved = append(td.FieldsRemoved, name)
		}
	}

	for name, des := range desiredByName {
		cur, exists := currentByName[name]
		if !exists {
			continue
		}
		if changes := fieldProps(cur, des); len(changes) > 0 {
			td.FieldsModified = append(td.FieldsModified, difftypes.FieldDiff{FieldName: name, Changes: changes})
		}
	}

	sort.Strings(td.FieldsAdded)
	sort.Strings(td.FieldsRemoved)
	sort.Slice(td.FieldsRenamed, func(i, j int) bool { return td.FieldsRenamed[i].To < td.FieldsRenamed[j].To })
	sort.Slice(td.FieldsModified, func(i, j int) bool { return td.FieldsModified[i].FieldName < td.FieldsModified[j].FieldName })
}

// effectiveType resolves a field's declared type including the Optional
// shorthand into its canonical form.
func effectiveType(f schema.Field) string {
	t := normalize.Type(f.Type)
	if f.Optional && !strings.HasPrefix(t, "option<") {
		t = "option<" + t + ">"
	}
	return t
}

func fieldProps(cur, des schema.Field) []difftypes.PropertyChange {
	var changes []difftypes.PropertyChange

	if old, new := effectiveType(cur), effectiveType(des); old != new {
		changes = append(changes, difftypes.PropertyChange{Property: "type", Old: old, New: new})
	}
	if cur.Flexible != des.Flexible {
		changes = append(changes, boolChange("flexible", cur.Flexible, des.Flexible))
	}
	if cur.ReadOnly != des.ReadOnly {
		changes = append(changes, boolChange("readonly", cur.ReadOnly, des.ReadOnly))
	}
	if old, new := normalize.Default(cur.Default), normalize.Default(des.Default); old != new {
		changes = append(changes, difftypes.PropertyChange{Property: "default", Old: old, New: new})
	}
	if cur.DefaultAlways != des.DefaultAlways {
		changes = append(changes, boolChange("default_always", cur.DefaultAlways, des.DefaultAlways))
	}
	if old, new := normalize.Expression(cur.Value), normalize.Expression(des.Value); old != new {
		changes = append(changes, difftypes.PropertyChange{Property: "value", Old: old, New: new})
	}
	if old, new := normalize.Expression(cur.Assert), normalize.Expression(des.Assert); old != new {
		changes = append(changes, difftypes.PropertyChange{Property: "assert", Old: old, New: new})
	}
	if old, new := referenceValue(cur.Reference), referenceValue(des.Reference); old != new {
		changes = append(changes, difftypes.PropertyChange{Property: "reference", Old: old, New: new})
	}
	if old, new := normalize.FieldPermissions(cur.Permissions), normalize.FieldPermissions(des.Permissions); old != new {
		changes = append(changes, difftypes.PropertyChange{Property: "permissions", Old: old, New: new})
	}
	if cur.Comment != des.Comment {
		changes = append(changes, difftypes.PropertyChange{Property: "comment", Old: cur.Comment, New: des.Comment})
	}
	return changes
}

func referenceValue(r *schema.Reference) string {
	if r == nil {
		return ""
	}
	if r.OnDelete == "" {
		return r.Table
	}
	return r.Table + " on delete " + strings.ToLower(r.OnDelete)
}

// indexes populates the index buckets of a table diff. Indexes have no
// previous names: an index rename is a remove plus an add, which is exactly
// what rebuilding it does anyway.
func indexes(current, desired []schema.Index, td *difftypes.TableDiff) {
	currentByName := make(map[string]schema.Index, len(current))
	for _, idx := range current {
		currentByName[idx.Name] = idx
	}
	desiredByName := make(map[string]schema.Index, len(desired))
	for _, idx := range desired {
		desiredByName[idx.Name] = idx
	}

	for name := range desiredByName {
		if _, exists := currentByName[name]; !exists {
			td.IndexesAdded = append(td.IndexesAdded, name)
		}
	}
	for name := range currentByName {
		if _, exists := desiredByName[name]; !exists {
			td.IndexesRemoved = append(td.IndexesRemoved, name)
		}
	}
	for name, des := range desiredByName {
		cur, exists := currentByName[name]
		if !exists {
			continue
		}
		if changes := indexProps(cur, des); len(changes) > 0 {
			td.IndexesModified = append(td.IndexesModified, difftypes.IndexDiff{
				IndexName: name,
				Class:     indexClass(changes),
				Changes:   changes,
			})
		}
	}

	sort.Strings(td.IndexesAdded)
	sort.Strings(td.IndexesRemoved)
	sort.Slice(td.IndexesModified, func(i, j int) bool { return td.IndexesModified[i].IndexName < td.IndexesModified[j].IndexName })
}

// indexClass decides how an index change is applied. A change to the
// column set or the index kind rebuilds the index; uniqueness, analyzer,
// vector-parameter and comment changes are altered in place.
func indexClass(changes []difftypes.PropertyChange) difftypes.IndexClass {
	for _, c := range changes {
		if c.Property == "columns" || c.Property == "kind" {
			return difftypes.IndexRecreate
		}
	}
	return difftypes.IndexAlter
}

func indexProps(cur, des schema.Index) []difftypes.PropertyChange {
	var changes []difftypes.PropertyChange

	if old, new := strings.Join(cur.Columns, ","), strings.Join(des.Columns, ","); old != new {
		changes = append(changes, difftypes.PropertyChange{Property: "columns", Old: old, New: new})
	}
	if cur.Unique != des.Unique {
		changes = append(changes, boolChange("unique", cur.Unique, des.Unique))
	}
	if old, new := indexKind(cur), indexKind(des); old != new {
		changes = append(changes, difftypes.PropertyChange{Property: "kind", Old: string(old), New: string(new)})
	}
	if old, new := searchValue(cur.Search), searchValue(des.Search); old != new {
		changes = append(changes, difftypes.PropertyChange{Property: "search", Old: old, New: new})
	}
	if old, new := mtreeValue(cur.MTree), mtreeValue(des.MTree); old != new {
		changes = append(changes, difftypes.PropertyChange{Property: "mtree", Old: old, New: new})
	}
	if old, new := hnswValue(cur.HNSW), hnswValue(des.HNSW); old != new {
		changes = append(changes, difftypes.PropertyChange{Property: "hnsw", Old: old, New: new})
	}
	if cur.Comment != des.Comment {
		changes = append(changes, difftypes.PropertyChange{Property: "comment", Old: cur.Comment, New: des.Comment})
	}
	return changes
}

// indexKind resolves the effective index kind, inferring it from the
// parameter blocks when the kind is not set explicitly.
func indexKind(idx schema.Index) schema.IndexKind {
	switch {
	case idx.Kind != "":
		return idx.Kind
	case idx.Search != nil:
		return schema.IndexSearch
	case idx.MTree != nil:
		return schema.IndexMTree
	case idx.HNSW != nil:
		return schema.IndexHNSW
	default:
		return schema.IndexBTree
	}
}

func searchValue(s *schema.SearchParams) string {
	if s == nil {
		return ""
	}
	v := "analyzer=" + s.Analyzer
	if s.BM25 != nil {
		v += fmt.Sprintf(" bm25=%g,%g", s.BM25.K1, s.BM25.B)
	}
	if s.Highlights {
		v += " highlights"
	}
	if s.DocIDsCache > 0 {
		v += fmt.Sprintf(" doc_ids_cache=%d", s.DocIDsCache)
	}
	if s.DocLengthsCache > 0 {
		v += fmt.Sprintf(" doc_lengths_cache=%d", s.DocLengthsCache)
	}
	if s.PostingsCache > 0 {
		v += fmt.Sprintf(" postings_cache=%d", s.PostingsCache)
	}
	if s.TermsCache > 0 {
		v += fmt.Sprintf(" terms_cache=%d", s.TermsCache)
	}
	return v
}

func mtreeValue(m *schema.MTreeParams) string {
	if m == nil {
		return ""
	}
	v := fmt.Sprintf("dimension=%d", m.Dimension)
	if m.Distance != "" {
		v += " dist=" + strings.ToLower(m.Distance)
	}
	if m.Capacity > 0 {
		v += fmt.Sprintf(" capacity=%d", m.Capacity)
	}
	return v
}

func hnswValue(h *schema.HNSWParams) string {
	if h == nil {
		return ""
	}
	v := fmt.Sprintf("dimension=%d", h.Dimension)
	if h.Distance != "" {
		v += " dist=" + strings.ToLower(h.Distance)
	}
	if h.EFC > 0 {
		v += fmt.Sprintf(" efc=%d", h.EFC)
	}
	if h.M > 0 {
		v += fmt.Sprintf(" m=%d", h.M)
	}
	if h.M0 > 0 {
		v += fmt.Sprintf(" m0=%d", h.M0)
	}
	if h.LM > 0 {
		v += fmt.Sprintf(" lm=%g", h.LM)
	}
	return v
}

// events populates the event buckets of a table diff.
func events(current, desired []schema.Event, td *difftypes.TableDiff) {
	currentByName := make(map[string]schema.Event, len(current))
	for _, e := range current {
		currentByName[e.Name] = e
	}
	desiredByName := make(map[string]schema.Event, len(desired))
	for _, e := range desired {
		desiredByName[e.Name] = e
	}

	for name := range desiredByName {
		if _, exists := currentByName[name]; !exists {
			td.EventsAdded = append(td.EventsAdded, name)
		}
	}
	for name := range currentByName {
		if _, exists := desiredByName[name]; !exists {
			td.EventsRemoved = append(td.EventsRemoved, name)
		}
	}
	for name, des := range desiredByName {
		cur, exists := currentByName[name]
		if !exists {
			continue
		}
		if changes := eventProps(cur, des); len(changes) > 0 {
			td.EventsModified = append(td.EventsModified, difftypes.EventDiff{EventName: name, Changes: changes})
		}
	}

	sort.Strings(td.EventsAdded)
	sort.Strings(td.EventsRemoved)
	sort.Slice(td.EventsModified, func(i, j int) bool { return td.EventsModified[i].EventName < td.EventsModified[j].EventName })
}

// effectiveWhen resolves an event's guard expression, folding the trigger
// shorthand into the canonical $event comparison.
func effectiveWhen(e schema.Event) string {
	if e.When != "" {
		return normalize.Expression(e.When)
	}
	if e.Trigger != "" {
		return fmt.Sprintf("$event = '%s'", string(e.Trigger))
	}
	return ""
}

func eventProps(cur, des schema.Event) []difftypes.PropertyChange {
	var changes []difftypes.PropertyChange

	if old, new := effectiveWhen(cur), effectiveWhen(des); old != new {
		changes = append(changes, difftypes.PropertyChange{Property: "when", Old: old, New: new})
	}
	if old, new := normalize.Expression(cur.Then), normalize.Expression(des.Then); old != new {
		changes = append(changes, difftypes.PropertyChange{Property: "then", Old: old, New: new})
	}
	if cur.Comment != des.Comment {
		changes = append(changes, difftypes.PropertyChange{Property: "comment", Old: cur.Comment, New: des.Comment})
	}
	return changes
}

// diffNamed is the shared comparison engine for flat database-level
// entities. Accessors keep it generic over the concrete entity type without
// forcing methods onto the schema structs.
func diffNamed[T any](
	current, desired []T,
	name func(T) string,
	previous func(T) []string,
	props func(cur, des T) []difftypes.PropertyChange,
) (added, removed []string, modified []difftypes.NamedDiff) {
	currentByName := make(map[string]T, len(current))
	currentNames := make(map[string]bool, len(current))
	for _, e := range current {
		currentByName[name(e)] = e
		currentNames[name(e)] = true
	}
	desiredByName := make(map[string]T, len(desired))
	for _, e := range desired {
		desiredByName[name(e)] = e
	}

	consumed := make(map[string]bool)

	for n, des := range desiredByName {
		if _, exists := currentByName[n]; exists {
			continue
		}
		if from, ok := matchRename(currentNames, previous(des)); ok && !consumed[from] {
			consumed[from] = true
			modified = append(modified, difftypes.NamedDiff{
				Name:    n,
				Renamed: &difftypes.Rename{From: from, To: n},
				Changes: props(currentByName[from], des),
			})
			continue
		}
		added = append(added, n)
	}

	for n := range currentByName {
		if _, exists := desiredByName[n]; !exists && !consumed[n] {
			removed = append(removed, n)
		}
	}

	for n, des := range desiredByName {
		cur, exists := currentByName[n]
		if !exists {
			continue
		}
		if changes := props(cur, des); len(changes) > 0 {
			modified = append(modified, difftypes.NamedDiff{Name: n, Changes: changes})
		}
	}

	sort.Strings(added)
	sort.Strings(removed)
	sort.Slice(modified, func(i, j int) bool { return modified[i].Name < modified[j].Name })
	return added, removed, modified
}

// Functions compares custom function definitions.
func Functions(current, desired []schema.Function, diff *difftypes.SchemaDiff) {
	diff.FunctionsAdded, diff.FunctionsRemoved, diff.FunctionsModified = diffNamed(
		current, desired,
		func(f schema.Function) string { return f.Name },
		func(f schema.Function) []string { return f.PreviousNames },
		func(cur, des schema.Function) []difftypes.PropertyChange {
			var changes []difftypes.PropertyChange
			if old, new := normalize.Expression(cur.Args), normalize.Expression(des.Args); old != new {
				changes = append(changes, difftypes.PropertyChange{Property: "args", Old: old, New: new})
			}
			if old, new := normalize.Expression(cur.Body), normalize.Expression(des.Body); old != new {
				changes = append(changes, difftypes.PropertyChange{Property: "body", Old: old, New: new})
			}
			if cur.Comment != des.Comment {
				changes = append(changes, difftypes.PropertyChange{Property: "comment", Old: cur.Comment, New: des.Comment})
			}
			return changes
		},
	)
}

// Scopes compares authentication scope definitions.
func Scopes(current, desired []schema.Scope, diff *difftypes.SchemaDiff) {
	diff.ScopesAdded, diff.ScopesRemoved, diff.ScopesModified = diffNamed(
		current, desired,
		func(s schema.Scope) string { return s.Name },
		func(s schema.Scope) []string { return s.PreviousNames },
		func(cur, des schema.Scope) []difftypes.PropertyChange {
			var changes []difftypes.PropertyChange
			if old, new := normalize.Expression(cur.SessionDuration), normalize.Expression(des.SessionDuration); old != new {
				changes = append(changes, difftypes.PropertyChange{Property: "session", Old: old, New: new})
			}
			if old, new := normalize.Expression(cur.SignUp), normalize.Expression(des.SignUp); old != new {
				changes = append(changes, difftypes.PropertyChange{Property: "signup", Old: old, New: new})
			}
			if old, new := normalize.Expression(cur.SignIn), normalize.Expression(des.SignIn); old != new {
				changes = append(changes, difftypes.PropertyChange{Property: "signin", Old: old, New: new})
			}
			if cur.Comment != des.Comment {
				changes = append(changes, difftypes.PropertyChange{Property: "comment", Old: cur.Comment, New: des.Comment})
			}
			return changes
		},
	)
}

// Analyzers compares full-text analyzer definitions.
func Analyzers(current, desired []schema.Analyzer, diff *difftypes.SchemaDiff) {
	diff.AnalyzersAdded, diff.AnalyzersRemoved, diff.AnalyzersModified = diffNamed(
		current, desired,
		func(a schema.Analyzer) string { return a.Name },
		func(a schema.Analyzer) []string { return a.PreviousNames },
		func(cur, des schema.Analyzer) []difftypes.PropertyChange {
			var changes []difftypes.PropertyChange
			if old, new := strings.Join(cur.Tokenizers, ","), strings.Join(des.Tokenizers, ","); old != new {
				changes = append(changes, difftypes.PropertyChange{Property: "tokenizers", Old: old, New: new})
			}
			if old, new := strings.Join(cur.Filters, ","), strings.Join(des.Filters, ","); old != new {
				changes = append(changes, difftypes.PropertyChange{Property: "filters", Old: old, New: new})
			}
			if cur.Comment != des.Comment {
				changes = append(changes, difftypes.PropertyChange{Property: "comment", Old: cur.Comment, New: des.Comment})
			}
			return changes
		},
	)
}

// Params compares database-wide parameter definitions.
func Params(current, desired []schema.Param, diff *difftypes.SchemaDiff) {
	diff.ParamsAdded, diff.ParamsRemoved, diff.ParamsModified = diffNamed(
		current, desired,
		func(p schema.Param) string { return p.Name },
		func(p schema.Param) []string { return p.PreviousNames },
		func(cur, des schema.Param) []difftypes.PropertyChange {
			var changes []difftypes.PropertyChange
			if old, new := normalize.Default(cur.Value), normalize.Default(des.Value); old != new {
				changes = append(changes, difftypes.PropertyChange{Property: "value", Old: old, New: new})
			}
			if cur.Comment != des.Comment {
				changes = append(changes, difftypes.PropertyChange{Property: "comment", Old: cur.Comment, New: des.Comment})
			}
			return changes
		},
	)
}

// Sequences compares sequence definitions.
func Sequences(current, desired []schema.Sequence, diff *difftypes.SchemaDiff) {
	diff.SequencesAdded, diff.SequencesRemoved, diff.SequencesModified = diffNamed(
		current, desired,
		func(s schema.Sequence) string { return s.Name },
		func(s schema.Sequence) []string { return s.PreviousNames },
		func(cur, des schema.Sequence) []difftypes.PropertyChange {
			var changes []difftypes.PropertyChange
			if cur.Batch != des.Batch {
				changes = append(changes, difftypes.PropertyChange{Property: "batch", Old: strconv.Itoa(cur.Batch), New: strconv.Itoa(des.Batch)})
			}
			if cur.Start != des.Start {
				changes = append(changes, difftypes.PropertyChange{Property: "start", Old: strconv.Itoa(cur.Start), New: strconv.Itoa(des.Start)})
			}
			if cur.Comment != des.Comment {
				changes = append(changes, difftypes.PropertyChange{Property: "comment", Old: cur.Comment, New: des.Comment})
			}
			return changes
		},
	)
}

// Users compares database user definitions. Password hashes compare as
// opaque strings: two different hash strings are a change even if they hash
// the same plaintext, because the hash is all the schema ever sees.
func Users(current, desired []schema.User, diff *difftypes.SchemaDiff) {
	diff.UsersAdded, diff.UsersRemoved, diff.UsersModified = diffNamed(
		current, desired,
		func(u schema.User) string { return u.Name },
		func(u schema.User) []string { return u.PreviousNames },
		func(cur, des schema.User) []difftypes.PropertyChange {
			var changes []difftypes.PropertyChange
			if cur.PasswordHash != des.PasswordHash {
				changes = append(changes, difftypes.PropertyChange{Property: "passhash", Old: cur.PasswordHash, New: des.PasswordHash})
			}
			if old, new := rolesValue(cur.Roles), rolesValue(des.Roles); old != new {
				changes = append(changes, difftypes.PropertyChange{Property: "roles", Old: old, New: new})
			}
			if cur.Comment != des.Comment {
				changes = append(changes, difftypes.PropertyChange{Property: "comment", Old: cur.Comment, New: des.Comment})
			}
			return changes
		},
	)
}

// rolesValue canonicalizes a role list: order does not matter to the
// database, so it must not matter to the diff.
func rolesValue(roles []string) string {
	lower := make([]string, 0, len(roles))
	for _, r := range roles {
		lower = append(lower, strings.ToLower(r))
	}
	sort.Strings(lower)
	return strings.Join(lower, ",")
}

// Comments compares free-standing schema comments, keyed by their target.
func Comments(current, desired []schema.Comment, diff *difftypes.SchemaDiff) {
	diff.CommentsAdded, diff.CommentsRemoved, diff.CommentsModified = diffNamed(
		current, desired,
		func(c schema.Comment) string { return c.On },
		func(c schema.Comment) []string { return nil },
		func(cur, des schema.Comment) []difftypes.PropertyChange {
			if cur.Text == des.Text {
				return nil
			}
			return []difftypes.PropertyChange{{Property: "text", Old: cur.Text, New: des.Text}}
		},
	)
}

func boolChange(property string, old, new bool) difftypes.PropertyChange {
	return difftypes.PropertyChange{
		Property: property,
		Old:      strconv.FormatBool(old),
		New:      strconv.FormatBool(new),
	}
}
