package schemadiff_test

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/surrealmigrate/surrealmigrate/config"
	"github.com/surrealmigrate/surrealmigrate/core/schema"
	"github.com/surrealmigrate/surrealmigrate/migration/schemadiff"
	difftypes "github.com/surrealmigrate/surrealmigrate/migration/schemadiff/types"
)

func TestCompare_IdenticalSchemasHaveNoChanges(t *testing.T) {
	c := qt.New(t)

	s := &schema.Schema{
		Tables: []schema.Table{{
			Name: "users",
			Mode: schema.ModeFull,
			Fields: []schema.Field{
				{Name: "email", Type: "string"},
				{Name: "age", Type: "int", Optional: true},
			},
			Indexes: []schema.Index{{Name: "idx_email", Columns: []string{"email"}, Unique: true}},
			Events:  []schema.Event{{Name: "audit", Trigger: schema.TriggerCreate, Then: "CREATE log"}},
		}},
		Relations: []schema.Table{{
			Name: "wrote", Mode: schema.ModeFull, Kind: schema.KindRelation,
			From: "user", To: "post",
		}},
		Functions: []schema.Function{{Name: "greet", Body: "RETURN 'Hi'"}},
		Params:    []schema.Param{{Name: "max_retries", Value: "3"}},
	}

	diff := schemadiff.Compare(s, s)

	c.Assert(diff.HasChanges(), qt.IsFalse)
}

func TestCompare_CoversAllEntityKinds(t *testing.T) {
	c := qt.New(t)

	current := &schema.Schema{}
	desired := &schema.Schema{
		Tables:    []schema.Table{{Name: "users", Mode: schema.ModeFull}},
		Relations: []schema.Table{{Name: "wrote", Kind: schema.KindRelation, From: "user", To: "post"}},
		Functions: []schema.Function{{Name: "greet", Body: "RETURN 'Hi'"}},
		Scopes:    []schema.Scope{{Name: "account"}},
		Analyzers: []schema.Analyzer{{Name: "ascii", Tokenizers: []string{"class"}}},
		Params:    []schema.Param{{Name: "max_retries", Value: "3"}},
		Sequences: []schema.Sequence{{Name: "order_seq"}},
		Users:     []schema.User{{Name: "app"}},
		Comments:  []schema.Comment{{On: "TABLE users", Text: "accounts"}},
	}

	diff := schemadiff.Compare(current, desired)

	c.Assert(diff.TablesAdded, qt.DeepEquals, []string{"users"})
	c.Assert(diff.RelationsAdded, qt.DeepEquals, []string{"wrote"})
	c.Assert(diff.FunctionsAdded, qt.DeepEquals, []string{"greet"})
	c.Assert(diff.ScopesAdded, qt.DeepEquals, []string{"account"})
	c.Assert(diff.AnalyzersAdded, qt.DeepEquals, []string{"ascii"})
	c.Assert(diff.ParamsAdded, qt.DeepEquals, []string{"max_retries"})
	c.Assert(diff.SequencesAdded, qt.DeepEquals, []string{"order_seq"})
	c.Assert(diff.UsersAdded, qt.DeepEquals, []string{"app"})
	c.Assert(diff.CommentsAdded, qt.DeepEquals, []string{"TABLE users"})
	c.Assert(diff.HasChanges(), qt.IsTrue)
}

func TestCompare_HasChangesMatchesEveryKind(t *testing.T) {
	// For each entity kind, a diff with only that kind changed must report
	// HasChanges. A kind missed here would generate empty migrations.
	tests := []struct {
		name string
		diff difftypes.SchemaDiff
	}{
		{"tables", difftypes.SchemaDiff{TablesAdded: []string{"t"}}},
		{"relations", difftypes.SchemaDiff{RelationsRemoved: []string{"r"}}},
		{"functions", difftypes.SchemaDiff{FunctionsAdded: []string{"f"}}},
		{"scopes", difftypes.SchemaDiff{ScopesRemoved: []string{"s"}}},
		{"analyzers", difftypes.SchemaDiff{AnalyzersAdded: []string{"a"}}},
		{"params", difftypes.SchemaDiff{ParamsModified: []difftypes.NamedDiff{{
			Name:    "p",
			Changes: []difftypes.PropertyChange{{Property: "value", Old: "3", New: "5"}},
		}}}},
		{"sequences", difftypes.SchemaDiff{SequencesAdded: []string{"q"}}},
		{"users", difftypes.SchemaDiff{UsersRemoved: []string{"u"}}},
		{"comments", difftypes.SchemaDiff{CommentsAdded: []string{"TABLE t"}}},
		{"table rename only", difftypes.SchemaDiff{TablesModified: []difftypes.TableDiff{{
			TableName: "customers",
			Renamed:   &difftypes.Rename{From: "users", To: "customers"},
		}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := qt.New(t)
			c.Assert(tt.diff.HasChanges(), qt.IsTrue)
		})
	}
}

func TestCompareWithOptions_IgnoredTables(t *testing.T) {
	c := qt.New(t)

	current := &schema.Schema{Tables: []schema.Table{
		{Name: "audit_log", Mode: schema.ModeLoose},
	}}
	desired := &schema.Schema{}

	diff := schemadiff.CompareWithOptions(current, desired, config.WithIgnoredTables("audit_log"))

	c.Assert(diff.HasChanges(), qt.IsFalse)
}

func TestCompare_EmptyDiffIsSymmetric(t *testing.T) {
	c := qt.New(t)

	diff := schemadiff.Compare(&schema.Schema{}, &schema.Schema{})

	c.Assert(diff.HasChanges(), qt.IsFalse)
	c.Assert(diff.TablesAdded, qt.HasLen, 0)
	c.Assert(diff.TablesRemoved, qt.HasLen, 0)
}
