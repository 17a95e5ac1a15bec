package schema_test

import (
	"strings"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/surrealmigrate/surrealmigrate/core/schema"
)

func TestLoad(t *testing.T) {
	c := qt.New(t)

	doc := `{
		"tables": [
			{
				"name": "users",
				"mode": "full",
				"fields": [{"name": "email", "type": "string"}],
				"indexes": [],
				"events": []
			}
		]
	}`
	s, err := schema.Load(strings.NewReader(doc))
	c.Assert(err, qt.IsNil)
	c.Assert(s.Tables, qt.HasLen, 1)
	c.Assert(s.Tables[0].Field("email").Type, qt.Equals, "string")
	c.Assert(s.Tables[0].Field("missing"), qt.IsNil)
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	c := qt.New(t)

	_, err := schema.Load(strings.NewReader(`{"tabels": []}`))
	c.Assert(err, qt.ErrorMatches, "failed to decode schema document: .*")
}

func TestIsRelation(t *testing.T) {
	tests := []struct {
		name  string
		table schema.Table
		want  bool
	}{
		{"explicit kind", schema.Table{Kind: schema.KindRelation}, true},
		{"endpoints only", schema.Table{From: "authors", To: "posts"}, true},
		{"single endpoint", schema.Table{From: "authors"}, false},
		{"plain table", schema.Table{Kind: schema.KindNormal}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := qt.New(t)
			c.Assert(tt.table.IsRelation(), qt.Equals, tt.want)
		})
	}
}
