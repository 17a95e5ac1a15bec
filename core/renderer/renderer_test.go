package renderer_test

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/surrealmigrate/surrealmigrate/core/renderer"
	"github.com/surrealmigrate/surrealmigrate/core/schema"
)

func TestDefineTable(t *testing.T) {
	tests := []struct {
		name      string
		table     schema.Table
		overwrite bool
		want      string
	}{
		{
			name:  "schemafull normal table",
			table: schema.Table{Name: "users", Mode: schema.ModeFull},
			want:  "DEFINE TABLE users SCHEMAFULL TYPE NORMAL;",
		},
		{
			name:  "schemaless table",
			table: schema.Table{Name: "logs", Mode: schema.ModeLoose},
			want:  "DEFINE TABLE logs SCHEMALESS TYPE NORMAL;",
		},
		{
			name: "relation table with endpoints",
			table: schema.Table{
				Name: "wrote",
				Mode: schema.ModeFull,
				Kind: schema.KindRelation,
				From: "user",
				To:   "post",
			},
			want: "DEFINE TABLE wrote SCHEMAFULL TYPE RELATION IN user OUT post;",
		},
		{
			name:  "drop table",
			table: schema.Table{Name: "metrics", Mode: schema.ModeLoose, Drop: true},
			want:  "DEFINE TABLE metrics DROP SCHEMALESS TYPE NORMAL;",
		},
		{
			name: "changefeed with original",
			table: schema.Table{
				Name:       "orders",
				Mode:       schema.ModeFull,
				Changefeed: &schema.Changefeed{Duration: "3d", IncludeOriginal: true},
			},
			want: "DEFINE TABLE orders SCHEMAFULL TYPE NORMAL CHANGEFEED 3d INCLUDE ORIGINAL;",
		},
		{
			name: "permissions and comment",
			table: schema.Table{
				Name:        "posts",
				Mode:        schema.ModeFull,
				Permissions: "FOR select WHERE published = true",
				Comment:     "public posts",
			},
			want: "DEFINE TABLE posts SCHEMAFULL TYPE NORMAL PERMISSIONS FOR select WHERE published = true COMMENT 'public posts';",
		},
		{
			name:      "overwrite keyword placement",
			table:     schema.Table{Name: "users", Mode: schema.ModeFull},
			overwrite: true,
			want:      "DEFINE TABLE OVERWRITE users SCHEMAFULL TYPE NORMAL;",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := qt.New(t)
			c.Assert(renderer.DefineTable(tt.table, tt.overwrite), qt.Equals, tt.want)
		})
	}
}

func TestDefineField(t *testing.T) {
	tests := []struct {
		name  string
		field schema.Field
		want  string
	}{
		{
			name:  "basic typed field",
			field: schema.Field{Name: "email", Type: "string"},
			want:  "DEFINE FIELD email ON users TYPE string;",
		},
		{
			name:  "optional field wraps type",
			field: schema.Field{Name: "bio", Type: "string", Optional: true},
			want:  "DEFINE FIELD bio ON users TYPE option<string>;",
		},
		{
			name:  "already optional type stays as is",
			field: schema.Field{Name: "bio", Type: "option<string>", Optional: true},
			want:  "DEFINE FIELD bio ON users TYPE option<string>;",
		},
		{
			name:  "default value",
			field: schema.Field{Name: "status", Type: "string", Default: "active"},
			want:  "DEFINE FIELD status ON users TYPE string DEFAULT 'active';",
		},
		{
			name:  "default always",
			field: schema.Field{Name: "updated", Type: "datetime", Default: "time::now()", DefaultAlways: true},
			want:  "DEFINE FIELD updated ON users TYPE datetime DEFAULT ALWAYS time::now();",
		},
		{
			name:  "readonly with value and assert",
			field: schema.Field{Name: "slug", Type: "string", ReadOnly: true, Value: "string::slug(title)", Assert: "$value != ''"},
			want:  "DEFINE FIELD slug ON users TYPE string READONLY VALUE string::slug(title) ASSERT $value != '';",
		},
		{
			name:  "flexible object",
			field: schema.Field{Name: "meta", Type: "object", Flexible: true},
			want:  "DEFINE FIELD meta ON users TYPE object FLEXIBLE;",
		},
		{
			name: "reference with cascade delete",
			field: schema.Field{
				Name:      "author",
				Type:      "record<user>",
				Reference: &schema.Reference{Table: "user", OnDelete: "cascade"},
			},
			want: "DEFINE FIELD author ON users TYPE record<user> REFERENCE ON DELETE CASCADE;",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := qt.New(t)
			c.Assert(renderer.DefineField("users", tt.field, false), qt.Equals, tt.want)
		})
	}
}

func TestDefineIndex(t *testing.T) {
	tests := []struct {
		name  string
		index schema.Index
		want  string
	}{
		{
			name:  "plain index",
			index: schema.Index{Name: "idx_email", Columns: []string{"email"}},
			want:  "DEFINE INDEX idx_email ON users FIELDS email;",
		},
		{
			name:  "unique multi column",
			index: schema.Index{Name: "idx_name", Columns: []string{"first", "last"}, Unique: true},
			want:  "DEFINE INDEX idx_name ON users FIELDS first, last UNIQUE;",
		},
		{
			name: "full text search",
			index: schema.Index{
				Name:    "idx_content",
				Columns: []string{"content"},
				Kind:    schema.IndexSearch,
				Search: &schema.SearchParams{
					Analyzer:   "ascii",
					BM25:       &schema.BM25{K1: 1.2, B: 0.75},
					Highlights: true,
				},
			},
			want: "DEFINE INDEX idx_content ON users FIELDS content SEARCH ANALYZER ascii BM25(1.2,0.75) HIGHLIGHTS;",
		},
		{
			name: "mtree vector index",
			index: schema.Index{
				Name:    "idx_embedding",
				Columns: []string{"embedding"},
				Kind:    schema.IndexMTree,
				MTree:   &schema.MTreeParams{Dimension: 768, Distance: "euclidean", Capacity: 40},
			},
			want: "DEFINE INDEX idx_embedding ON users FIELDS embedding MTREE DIMENSION 768 DIST EUCLIDEAN CAPACITY 40;",
		},
		{
			name: "hnsw vector index",
			index: schema.Index{
				Name:    "idx_vec",
				Columns: []string{"embedding"},
				Kind:    schema.IndexHNSW,
				HNSW:    &schema.HNSWParams{Dimension: 1536, Distance: "cosine", EFC: 150, M: 12},
			},
			want: "DEFINE INDEX idx_vec ON users FIELDS embedding HNSW DIMENSION 1536 DIST COSINE EFC 150 M 12;",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := qt.New(t)
			c.Assert(renderer.DefineIndex("users", tt.index, false), qt.Equals, tt.want)
		})
	}
}

func TestDefineEvent(t *testing.T) {
	c := qt.New(t)

	e := schema.Event{
		Name:    "on_create",
		Trigger: schema.TriggerCreate,
		Then:    "CREATE audit SET table = 'users'",
	}
	c.Assert(renderer.DefineEvent("users", e, false), qt.Equals,
		`DEFINE EVENT on_create ON users WHEN $event = 'create' THEN { CREATE audit SET table = 'users' };`)

	e = schema.Event{
		Name: "on_change",
		When: "$before.status != $after.status",
		Then: "CREATE log SET change = $after.status",
	}
	c.Assert(renderer.DefineEvent("users", e, false), qt.Equals,
		"DEFINE EVENT on_change ON users WHEN $before.status != $after.status THEN { CREATE log SET change = $after.status };")
}

func TestDefineDatabaseEntities(t *testing.T) {
	c := qt.New(t)

	fn := schema.Function{Name: "greet", Args: "$name: string", Body: "RETURN 'Hello ' + $name"}
	c.Assert(renderer.DefineFunction(fn, false), qt.Equals,
		"DEFINE FUNCTION fn::greet($name: string) { RETURN 'Hello ' + $name };")

	scope := schema.Scope{Name: "account", SessionDuration: "24h", SignIn: "SELECT * FROM user WHERE email = $email"}
	c.Assert(renderer.DefineScope(scope, false), qt.Equals,
		"DEFINE SCOPE account SESSION 24h SIGNIN ( SELECT * FROM user WHERE email = $email );")

	an := schema.Analyzer{Name: "autocomplete", Tokenizers: []string{"class"}, Filters: []string{"lowercase", "edgengram(2,10)"}}
	c.Assert(renderer.DefineAnalyzer(an, false), qt.Equals,
		"DEFINE ANALYZER autocomplete TOKENIZERS class FILTERS lowercase,edgengram(2,10);")

	p := schema.Param{Name: "max_retries", Value: "3"}
	c.Assert(renderer.DefineParam(p, false), qt.Equals,
		"DEFINE PARAM $max_retries VALUE 3;")

	seq := schema.Sequence{Name: "order_seq", Batch: 100, Start: 1000}
	c.Assert(renderer.DefineSequence(seq, false), qt.Equals,
		"DEFINE SEQUENCE order_seq BATCH 100 START 1000;")

	u := schema.User{Name: "app", PasswordHash: "$argon2id$hash", Roles: []string{"editor"}}
	c.Assert(renderer.DefineUser(u, false), qt.Equals,
		"DEFINE USER app ON DATABASE PASSHASH '$argon2id$hash' ROLES EDITOR;")
}

func TestRemoveStatements(t *testing.T) {
	c := qt.New(t)

	c.Assert(renderer.RemoveTable("users"), qt.Equals, "REMOVE TABLE users;")
	c.Assert(renderer.RemoveField("users", "email"), qt.Equals, "REMOVE FIELD email ON users;")
	c.Assert(renderer.RemoveIndex("users", "idx_email"), qt.Equals, "REMOVE INDEX idx_email ON users;")
	c.Assert(renderer.RemoveEvent("users", "on_create"), qt.Equals, "REMOVE EVENT on_create ON users;")
	c.Assert(renderer.RemoveFunction("greet"), qt.Equals, "REMOVE FUNCTION fn::greet;")
	c.Assert(renderer.RemoveScope("account"), qt.Equals, "REMOVE SCOPE account;")
	c.Assert(renderer.RemoveAnalyzer("autocomplete"), qt.Equals, "REMOVE ANALYZER autocomplete;")
	c.Assert(renderer.RemoveParam("max_retries"), qt.Equals, "REMOVE PARAM $max_retries;")
	c.Assert(renderer.RemoveSequence("order_seq"), qt.Equals, "REMOVE SEQUENCE order_seq;")
	c.Assert(renderer.RemoveUser("app"), qt.Equals, "REMOVE USER app ON DATABASE;")
}

func TestRenameAndAlterStatements(t *testing.T) {
	c := qt.New(t)

	c.Assert(renderer.RenameTable("users", "customers"), qt.Equals,
		"ALTER TABLE users RENAME TO customers;")
	c.Assert(renderer.RenameField("customers", "name", "fullName"), qt.Equals,
		"ALTER FIELD name ON customers RENAME TO fullName;")
	c.Assert(renderer.AlterField("users", "age", "TYPE int"), qt.Equals,
		"ALTER FIELD age ON users TYPE int;")
	c.Assert(renderer.AlterTableProperty("users", "SCHEMALESS"), qt.Equals,
		"ALTER TABLE users SCHEMALESS;")
	c.Assert(renderer.AlterParam("max_retries", "5"), qt.Equals,
		"ALTER PARAM $max_retries VALUE 5;")
}

func TestCommentStatements(t *testing.T) {
	c := qt.New(t)

	c.Assert(renderer.Comment(schema.Comment{On: "TABLE users", Text: "core accounts"}), qt.Equals,
		"COMMENT ON TABLE users IS 'core accounts';")
	c.Assert(renderer.RemoveComment("TABLE users"), qt.Equals,
		"COMMENT ON TABLE users IS NONE;")
}
