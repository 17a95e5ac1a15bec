// Package generator turns a schema diff into an executable migration
// script.
//
// Every change carries both its forward statements and the statements that
// undo it. The reverse statements are built from values captured in the diff
// at comparison time, never re-read from the database: by the time a
// rollback runs, the live schema is exactly what the forward migration made
// it, and the pre-change definitions exist nowhere else.
package generator

import (
	"fmt"
	"strings"

	"github.com/surrealmigrate/surrealmigrate/config"
	"github.com/surrealmigrate/surrealmigrate/core/normalize"
	"github.com/surrealmigrate/surrealmigrate/core/renderer"
	"github.com/surrealmigrate/surrealmigrate/core/schema"
	"github.com/surrealmigrate/surrealmigrate/migration/schemadiff"
	difftypes "github.com/surrealmigrate/surrealmigrate/migration/schemadiff/types"
)

// maxAlterProps is the largest number of changed properties rewritten with
// targeted ALTER statements. Above it, the whole entity is redefined with
// OVERWRITE: a definition that changed in four or more places reads better
// as a fresh definition than as a pile of single-property edits.
const maxAlterProps = 3

// Action classifies what a change does to its entity.
type Action string

const (
	ActionCreate Action = "create"
	ActionRemove Action = "remove"
	ActionModify Action = "modify"
	ActionRename Action = "rename"
)

// Change is one reversible unit of schema change. Up applies it, Down
// undoes it. Statements within one change run in order.
type Change struct {
	// Kind is the entity kind: table, relation, field, index, event,
	// function, scope, analyzer, param, sequence, user, comment.
	Kind string
	// Entity is the qualified entity name, e.g. "users" or "users.email".
	// For renames it is the new name.
	Entity string
	Action Action
	Up     []string
	Down   []string
}

// Script is a complete migration: forward statements, reverse statements
// and the per-change breakdown they came from.
//
// Down runs the changes in reverse order, so entities are always torn down
// before anything they depend on.
type Script struct {
	Changes []Change
	Up      []string
	Down    []string
}

// HasChanges reports whether the script contains any statements.
func (s *Script) HasChanges() bool {
	return len(s.Changes) > 0
}

// UpSQL returns the forward migration as a single statement block.
func (s *Script) UpSQL() string {
	return strings.Join(s.Up, "\n")
}

// DownSQL returns the reverse migration as a single statement block.
func (s *Script) DownSQL() string {
	return strings.Join(s.Down, "\n")
}

// Generate compares the current and desired schemas and builds the
// migration script that transforms one into the other. A nil opts uses the
// default comparison options. Identical schemas produce an empty script.
func Generate(current, desired *schema.Schema, opts *config.DiffOptions) (*Script, error) {
	diff := schemadiff.CompareWithOptions(current, desired, opts)
	return FromDiff(diff, current, desired)
}

// FromDiff builds a migration script from an already computed diff. The
// schemas the diff was computed from must be passed unchanged: added
// entities are rendered from the desired side and removed entities from the
// current side.
func FromDiff(diff *difftypes.SchemaDiff, current, desired *schema.Schema) (*Script, error) {
	g := &gen{
		current: indexSchema(current),
		desired: indexSchema(desired),
	}

	// Database-level entities come first so that anything a table might
	// reference (analyzers for search indexes, functions and params in
	// expressions) exists before the table does. Removals run after table
	// work for the mirror-image reason. Down reverses the change order, so
	// both directions respect the same dependencies.
	g.analyzers(diff.AnalyzersAdded, diff.AnalyzersModified, nil)
	g.functions(diff.FunctionsAdded, diff.FunctionsModified, nil)
	g.params(diff.ParamsAdded, diff.ParamsModified, nil)
	g.scopes(diff.ScopesAdded, diff.ScopesModified, nil)
	g.sequences(diff.SequencesAdded, diff.SequencesModified, nil)
	g.users(diff.UsersAdded, diff.UsersModified, nil)

	g.tablesAdded("table", diff.TablesAdded, g.desired.tables)
	g.tablesAdded("relation", diff.RelationsAdded, g.desired.relations)
	if err := g.tablesModified("table", diff.TablesModified, g.current.tables, g.desired.tables); err != nil {
		return nil, err
	}
	if err := g.tablesModified("relation", diff.RelationsModified, g.current.relations, g.desired.relations); err != nil {
		return nil, err
	}
	g.tablesRemoved("relation", diff.RelationsRemoved, g.current.relations)
	g.tablesRemoved("table", diff.TablesRemoved, g.current.tables)

	g.analyzers(nil, nil, diff.AnalyzersRemoved)
	g.functions(nil, nil, diff.FunctionsRemoved)
	g.params(nil, nil, diff.ParamsRemoved)
	g.scopes(nil, nil, diff.ScopesRemoved)
	g.sequences(nil, nil, diff.SequencesRemoved)
	g.users(nil, nil, diff.UsersRemoved)

	g.comments(diff)

	script := &Script{Changes: g.changes}
	for _, ch := range script.Changes {
		script.Up = append(script.Up, ch.Up...)
	}
	for i := len(script.Changes) - 1; i >= 0; i-- {
		script.Down = append(script.Down, script.Changes[i].Down...)
	}
	return script, nil
}

// indexed holds name lookups over one side of a comparison.
type indexed struct {
	tables    map[string]schema.Table
	relations map[string]schema.Table
	functions map[string]schema.Function
	scopes    map[string]schema.Scope
	analyzers map[string]schema.Analyzer
	params    map[string]schema.Param
	sequences map[string]schema.Sequence
	users     map[string]schema.User
	comments  map[string]schema.Comment
}

func indexSchema(s *schema.Schema) indexed {
	ix := indexed{
		tables:    make(map[string]schema.Table, len(s.Tables)),
		relations: make(map[string]schema.Table, len(s.Relations)),
		functions: make(map[string]schema.Function, len(s.Functions)),
		scopes:    make(map[string]schema.Scope, len(s.Scopes)),
		analyzers: make(map[string]schema.Analyzer, len(s.Analyzers)),
		params:    make(map[string]schema.Param, len(s.Params)),
		sequences: make(map[string]schema.Sequence, len(s.Sequences)),
		users:     make(map[string]schema.User, len(s.Users)),
		comments:  make(map[string]schema.Comment, len(s.Comments)),
	}
	for _, t := range s.Tables {
		ix.tables[t.Name] = t
	}
	for _, t := range s.Relations {
		ix.relations[t.Name] = t
	}
	for _, f := range s.Functions {
		ix.functions[f.Name] = f
	}
	for _, sc := range s.Scopes {
		ix.scopes[sc.Name] = sc
	}
	for _, a := range s.Analyzers {
		ix.analyzers[a.Name] = a
	}
	for _, p := range s.Params {
		ix.params[p.Name] = p
	}
	for _, sq := range s.Sequences {
		ix.sequences[sq.Name] = sq
	}
	for _, u := range s.Users {
		ix.users[u.Name] = u
	}
	for _, cm := range s.Comments {
		ix.comments[cm.On] = cm
	}
	return ix
}

type gen struct {
	current indexed
	desired indexed
	changes []Change
}

func (g *gen) add(ch Change) {
	g.changes = append(g.changes, ch)
}

// defineTableFully renders a table definition together with all of its
// fields, indexes and events.
func defineTableFully(t schema.Table) []string {
	stmts := []string{renderer.DefineTable(t, false)}
	for _, f := range t.Fields {
		stmts = append(stmts, renderer.DefineField(t.Name, f, false))
	}
	for _, idx := range t.Indexes {
		stmts = append(stmts, renderer.DefineIndex(t.Name, idx, false))
	}
	for _, e := range t.Events {
		stmts = append(stmts, renderer.DefineEvent(t.Name, e, false))
	}
	return stmts
}

func (g *gen) tablesAdded(kind string, names []string, lookup map[string]schema.Table) {
	for _, name := range names {
		t := lookup[name]
		g.add(Change{
			Kind:   kind,
			Entity: name,
			Action: ActionCreate,
			Up:     defineTableFully(t),
			Down:   []string{renderer.RemoveTable(name)},
		})
	}
}

func (g *gen) tablesRemoved(kind string, names []string, lookup map[string]schema.Table) {
	for _, name := range names {
		t := lookup[name]
		g.add(Change{
			Kind:   kind,
			Entity: name,
			Action: ActionRemove,
			Up:     []string{renderer.RemoveTable(name)},
			Down:   defineTableFully(t),
		})
	}
}

func (g *gen) tablesModified(kind string, diffs []difftypes.TableDiff, currentLookup, desiredLookup map[string]schema.Table) error {
	for _, td := range diffs {
		des, ok := desiredLookup[td.TableName]
		if !ok {
			return fmt.Errorf("diff references unknown %s %q", kind, td.TableName)
		}
		currentName := td.TableName
		if td.Renamed != nil {
			currentName = td.Renamed.From
		}
		cur, ok := currentLookup[currentName]
		if !ok {
			return fmt.Errorf("diff references unknown current %s %q", kind, currentName)
		}

		// Endpoint changes rebuild the relation wholesale: there is no
		// statement that redirects an existing relation's endpoints.
		if td.EndpointsChanged {
			up := []string{renderer.RemoveTable(currentName)}
			up = append(up, defineTableFully(des)...)
			down := []string{renderer.RemoveTable(td.TableName)}
			down = append(down, defineTableFully(cur)...)
			g.add(Change{Kind: kind, Entity: td.TableName, Action: ActionModify, Up: up, Down: down})
			continue
		}

		// The rename runs first so every following statement can address
		// the table by its new name in both directions.
		if td.Renamed != nil {
			g.add(Change{
				Kind:   kind,
				Entity: td.TableName,
				Action: ActionRename,
				Up:     []string{renderer.RenameTable(td.Renamed.From, td.Renamed.To)},
				Down:   []string{renderer.RenameTable(td.Renamed.To, td.Renamed.From)},
			})
		}

		for _, r := range td.FieldsRenamed {
			g.add(Change{
				Kind:   "field",
				Entity: td.TableName + "." + r.To,
				Action: ActionRename,
				Up:     []string{renderer.RenameField(td.TableName, r.From, r.To)},
				Down:   []string{renderer.RenameField(td.TableName, r.To, r.From)},
			})
		}

		g.tableProps(kind, td, cur, des)

		// renamedFrom maps a desired field name back to its current-side
		// definition for building reverse statements.
		renamedFrom := make(map[string]string, len(td.FieldsRenamed))
		for _, r := range td.FieldsRenamed {
			renamedFrom[r.To] = r.From
		}

		for _, name := range td.FieldsAdded {
			f := des.Field(name)
			if f == nil {
				return fmt.Errorf("diff references unknown field %q on %s", name, td.TableName)
			}
			g.add(Change{
				Kind:   "field",
				Entity: td.TableName + "." + name,
				Action: ActionCreate,
				Up:     []string{renderer.DefineField(td.TableName, *f, false)},
				Down:   []string{renderer.RemoveField(td.TableName, name)},
			})
		}
		for _, name := range td.FieldsRemoved {
			f := cur.Field(name)
			if f == nil {
				return fmt.Errorf("diff references unknown current field %q on %s", name, currentName)
			}
			g.add(Change{
				Kind:   "field",
				Entity: td.TableName + "." + name,
				Action: ActionRemove,
				Up:     []string{renderer.RemoveField(td.TableName, name)},
				Down:   []string{renderer.DefineField(td.TableName, *f, false)},
			})
		}
		for _, fd := range td.FieldsModified {
			currentFieldName := fd.FieldName
			if from, ok := renamedFrom[fd.FieldName]; ok {
				currentFieldName = from
			}
			curField := cur.Field(currentFieldName)
			desField := des.Field(fd.FieldName)
			if curField == nil || desField == nil {
				return fmt.Errorf("diff references unknown field %q on %s", fd.FieldName, td.TableName)
			}
			g.fieldModified(td.TableName, fd, *curField, *desField)
		}

		g.indexChanges(td, cur, des)
		g.eventChanges(td, cur, des)
	}
	return nil
}

// tableProps emits table-level property changes. Few changes become
// targeted ALTER statements; many changes, or any change that cannot be
// expressed as a single clause, redefine the table with OVERWRITE.
func (g *gen) tableProps(kind string, td difftypes.TableDiff, cur, des schema.Table) {
	props := td.PropsModified
	if len(props) == 0 {
		return
	}

	if len(props) <= maxAlterProps {
		var up, down []string
		ok := true
		for _, pc := range props {
			upClause, upOK := tablePropClause(des, pc.Property)
			downClause, downOK := tablePropClause(cur, pc.Property)
			if !upOK || !downOK {
				ok = false
				break
			}
			up = append(up, renderer.AlterTableProperty(td.TableName, upClause))
			down = append(down, renderer.AlterTableProperty(td.TableName, downClause))
		}
		if ok {
			g.add(Change{Kind: kind, Entity: td.TableName, Action: ActionModify, Up: up, Down: down})
			return
		}
	}

	// The reverse definition keeps the desired-side name: the table rename,
	// if any, is reverted by its own change.
	curRenamed := cur
	curRenamed.Name = td.TableName
	g.add(Change{
		Kind:   kind,
		Entity: td.TableName,
		Action: ActionModify,
		Up:     []string{renderer.DefineTable(des, true)},
		Down:   []string{renderer.DefineTable(curRenamed, true)},
	})
}

// tablePropClause renders one table property as an ALTER clause from the
// given side's definition. The second return is false when the property
// cannot be expressed as a standalone clause, forcing the OVERWRITE path.
func tablePropClause(t schema.Table, property string) (string, bool) {
	switch property {
	case "mode":
		if t.Mode == schema.ModeLoose {
			return "SCHEMALESS", true
		}
		return "SCHEMAFULL", true
	case "drop":
		if t.Drop {
			return "DROP", true
		}
		return "", false
	case "changefeed":
		if t.Changefeed == nil {
			return "", false
		}
		clause := "CHANGEFEED " + t.Changefeed.Duration
		if t.Changefeed.IncludeOriginal {
			clause += " INCLUDE ORIGINAL"
		}
		return clause, true
	case "permissions":
		return "PERMISSIONS " + normalize.Permissions(t.Permissions), true
	case "comment":
		if t.Comment == "" {
			return "COMMENT NONE", true
		}
		return "COMMENT '" + strings.ReplaceAll(t.Comment, "'", "\\'") + "'", true
	default:
		return "", false
	}
}

// fieldModified emits a field modification, choosing between targeted ALTER
// statements and a full redefinition based on how many properties changed.
func (g *gen) fieldModified(table string, fd difftypes.FieldDiff, cur, des schema.Field) {
	if len(fd.Changes) <= maxAlterProps {
		var up, down []string
		ok := true
		for _, pc := range fd.Changes {
			upClause, upOK := fieldPropClause(des, pc.Property)
			downClause, downOK := fieldPropClause(cur, pc.Property)
			if !upOK || !downOK {
				ok = false
				break
			}
			up = append(up, renderer.AlterField(table, fd.FieldName, upClause))
			down = append(down, renderer.AlterField(table, fd.FieldName, downClause))
		}
		if ok {
			g.add(Change{Kind: "field", Entity: table + "." + fd.FieldName, Action: ActionModify, Up: up, Down: down})
			return
		}
	}

	curRenamed := cur
	curRenamed.Name = fd.FieldName
	g.add(Change{
		Kind:   "field",
		Entity: table + "." + fd.FieldName,
		Action: ActionModify,
		Up:     []string{renderer.DefineField(table, des, true)},
		Down:   []string{renderer.DefineField(table, curRenamed, true)},
	})
}

// fieldPropClause renders one field property as an ALTER clause from the
// given side's definition.
func fieldPropClause(f schema.Field, property string) (string, bool) {
	switch property {
	case "type":
		t := normalize.Type(f.Type)
		if f.Optional && !strings.HasPrefix(t, "option<") {
			t = "option<" + t + ">"
		}
		return "TYPE " + t, true
	case "default", "default_always":
		if f.Default == "" {
			return "", false
		}
		if f.DefaultAlways {
			return "DEFAULT ALWAYS " + normalize.SerializeDefault(f.Default), true
		}
		return "DEFAULT " + normalize.SerializeDefault(f.Default), true
	case "value":
		if f.Value == "" {
			return "", false
		}
		return "VALUE " + normalize.Expression(f.Value), true
	case "assert":
		if f.Assert == "" {
			return "", false
		}
		return "ASSERT " + normalize.Expression(f.Assert), true
	case "permissions":
		return "PERMISSIONS " + normalize.FieldPermissions(f.Permissions), true
	case "comment":
		if f.Comment == "" {
			return "COMMENT NONE", true
		}
		return "COMMENT '" + strings.ReplaceAll(f.Comment, "'", "\\'") + "'", true
	case "flexible":
		if f.Flexible {
			return "FLEXIBLE", true
		}
		return "", false
	case "readonly":
		if f.ReadOnly {
			return "READONLY", true
		}
		return "", false
	default:
		return "", false
	}
}

func (g *gen) indexChanges(td difftypes.TableDiff, cur, des schema.Table) {
	curByName := make(map[string]schema.Index, len(cur.Indexes))
	for _, idx := range cur.Indexes {
		curByName[idx.Name] = idx
	}
	desByName := make(map[string]schema.Index, len(des.Indexes))
	for _, idx := range des.Indexes {
		desByName[idx.Name] = idx
	}

	for _, name := range td.IndexesAdded {
		idx := desByName[name]
		g.add(Change{
			Kind:   "index",
			Entity: td.TableName + "." + name,
			Action: ActionCreate,
			Up:     []string{renderer.DefineIndex(td.TableName, idx, false)},
			Down:   []string{renderer.RemoveIndex(td.TableName, name)},
		})
	}
	for _, name := range td.IndexesRemoved {
		idx := curByName[name]
		g.add(Change{
			Kind:   "index",
			Entity: td.TableName + "." + name,
			Action: ActionRemove,
			Up:     []string{renderer.RemoveIndex(td.TableName, name)},
			Down:   []string{renderer.DefineIndex(td.TableName, idx, false)},
		})
	}
	for _, id := range td.IndexesModified {
		curIdx := curByName[id.IndexName]
		desIdx := desByName[id.IndexName]
		var up, down []string
		if id.Class == difftypes.IndexRecreate {
			// Index data is derived, so a rebuild loses nothing.
			up = []string{
				renderer.RemoveIndex(td.TableName, id.IndexName),
				renderer.DefineIndex(td.TableName, desIdx, false),
			}
			down = []string{
				renderer.RemoveIndex(td.TableName, id.IndexName),
				renderer.DefineIndex(td.TableName, curIdx, false),
			}
		} else {
			up = []string{renderer.DefineIndex(td.TableName, desIdx, true)}
			down = []string{renderer.DefineIndex(td.TableName, curIdx, true)}
		}
		g.add(Change{
			Kind:   "index",
			Entity: td.TableName + "." + id.IndexName,
			Action: ActionModify,
			Up:     up,
			Down:   down,
		})
	}
}

func (g *gen) eventChanges(td difftypes.TableDiff, cur, des schema.Table) {
	curByName := make(map[string]schema.Event, len(cur.Events))
	for _, e := range cur.Events {
		curByName[e.Name] = e
	}
	desByName := make(map[string]schema.Event, len(des.Events))
	for _, e := range des.Events {
		desByName[e.Name] = e
	}

	for _, name := range td.EventsAdded {
		e := desByName[name]
		g.add(Change{
			Kind:   "event",
			Entity: td.TableName + "." + name,
			Action: ActionCreate,
			Up:     []string{renderer.DefineEvent(td.TableName, e, false)},
			Down:   []string{renderer.RemoveEvent(td.TableName, name)},
		})
	}
	for _, name := range td.EventsRemoved {
		e := curByName[name]
		g.add(Change{
			Kind:   "event",
			Entity: td.TableName + "." + name,
			Action: ActionRemove,
			Up:     []string{renderer.RemoveEvent(td.TableName, name)},
			Down:   []string{renderer.DefineEvent(td.TableName, e, false)},
		})
	}
	for _, ed := range td.EventsModified {
		g.add(Change{
			Kind:   "event",
			Entity: td.TableName + "." + ed.EventName,
			Action: ActionModify,
			Up:     []string{renderer.DefineEvent(td.TableName, desByName[ed.EventName], true)},
			Down:   []string{renderer.DefineEvent(td.TableName, curByName[ed.EventName], true)},
		})
	}
}

// namedChanges is the shared generator for flat database-level entities.
// Renamed entities are recreated under the new name: apart from tables and
// fields, nothing in the database carries data worth preserving through a
// rename.
func namedChanges[T any](
	g *gen,
	kind string,
	added []string, modified []difftypes.NamedDiff, removed []string,
	currentLookup, desiredLookup map[string]T,
	define func(T, bool) string,
	remove func(string) string,
	alter func(cur, des T, changes []difftypes.PropertyChange) ([]string, []string, bool),
) {
	for _, name := range added {
		g.add(Change{
			Kind:   kind,
			Entity: name,
			Action: ActionCreate,
			Up:     []string{define(desiredLookup[name], false)},
			Down:   []string{remove(name)},
		})
	}
	for _, nd := range modified {
		currentName := nd.Name
		action := ActionModify
		if nd.Renamed != nil {
			currentName = nd.Renamed.From
			action = ActionRename
		}
		cur := currentLookup[currentName]
		des := desiredLookup[nd.Name]

		if nd.Renamed != nil {
			g.add(Change{
				Kind:   kind,
				Entity: nd.Name,
				Action: action,
				Up:     []string{remove(currentName), define(des, false)},
				Down:   []string{remove(nd.Name), define(cur, false)},
			})
			continue
		}

		if alter != nil {
			if up, down, ok := alter(cur, des, nd.Changes); ok {
				g.add(Change{Kind: kind, Entity: nd.Name, Action: action, Up: up, Down: down})
				continue
			}
		}
		g.add(Change{
			Kind:   kind,
			Entity: nd.Name,
			Action: action,
			Up:     []string{define(des, true)},
			Down:   []string{define(cur, true)},
		})
	}
	for _, name := range removed {
		g.add(Change{
			Kind:   kind,
			Entity: name,
			Action: ActionRemove,
			Up:     []string{remove(name)},
			Down:   []string{define(currentLookup[name], false)},
		})
	}
}

func (g *gen) functions(added []string, modified []difftypes.NamedDiff, removed []string) {
	namedChanges(g, "function", added, modified, removed,
		g.current.functions, g.desired.functions,
		renderer.DefineFunction, renderer.RemoveFunction, nil)
}

func (g *gen) scopes(added []string, modified []difftypes.NamedDiff, removed []string) {
	namedChanges(g, "scope", added, modified, removed,
		g.current.scopes, g.desired.scopes,
		renderer.DefineScope, renderer.RemoveScope, nil)
}

func (g *gen) analyzers(added []string, modified []difftypes.NamedDiff, removed []string) {
	namedChanges(g, "analyzer", added, modified, removed,
		g.current.analyzers, g.desired.analyzers,
		renderer.DefineAnalyzer, renderer.RemoveAnalyzer, nil)
}

func (g *gen) params(added []string, modified []difftypes.NamedDiff, removed []string) {
	namedChanges(g, "param", added, modified, removed,
		g.current.params, g.desired.params,
		renderer.DefineParam, renderer.RemoveParam,
		// A pure value change alters the param in place.
		func(cur, des schema.Param, changes []difftypes.PropertyChange) ([]string, []string, bool) {
			for _, pc := range changes {
				if pc.Property != "value" {
					return nil, nil, false
				}
			}
			return []string{renderer.AlterParam(des.Name, des.Value)},
				[]string{renderer.AlterParam(cur.Name, cur.Value)},
				true
		})
}

func (g *gen) sequences(added []string, modified []difftypes.NamedDiff, removed []string) {
	namedChanges(g, "sequence", added, modified, removed,
		g.current.sequences, g.desired.sequences,
		renderer.DefineSequence, renderer.RemoveSequence, nil)
}

func (g *gen) users(added []string, modified []difftypes.NamedDiff, removed []string) {
	namedChanges(g, "user", added, modified, removed,
		g.current.users, g.desired.users,
		renderer.DefineUser, renderer.RemoveUser, nil)
}

func (g *gen) comments(diff *difftypes.SchemaDiff) {
	for _, on := range diff.CommentsAdded {
		g.add(Change{
			Kind:   "comment",
			Entity: on,
			Action: ActionCreate,
			Up:     []string{renderer.Comment(g.desired.comments[on])},
			Down:   []string{renderer.RemoveComment(on)},
		})
	}
	for _, nd := range diff.CommentsModified {
		g.add(Change{
			Kind:   "comment",
			Entity: nd.Name,
			Action: ActionModify,
			Up:     []string{renderer.Comment(g.desired.comments[nd.Name])},
			Down:   []string{renderer.Comment(g.current.comments[nd.Name])},
		})
	}
	for _, on := range diff.CommentsRemoved {
		g.add(Change{
			Kind:   "comment",
			Entity: on,
			Action: ActionRemove,
			Up:     []string{renderer.RemoveComment(on)},
			Down:   []string{renderer.Comment(g.current.comments[on])},
		})
	}
}
