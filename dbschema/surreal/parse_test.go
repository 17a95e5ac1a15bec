package surreal_test

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/surrealmigrate/surrealmigrate/core/schema"
	"github.com/surrealmigrate/surrealmigrate/dbschema/surreal"
)

func TestParseTable(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want schema.Table
	}{
		{
			name: "schemafull normal",
			raw:  "DEFINE TABLE users SCHEMAFULL TYPE NORMAL",
			want: schema.Table{Name: "users", Mode: schema.ModeFull, Kind: schema.KindNormal},
		},
		{
			name: "schemaless",
			raw:  "DEFINE TABLE logs SCHEMALESS TYPE ANY",
			want: schema.Table{Name: "logs", Mode: schema.ModeLoose, Kind: schema.KindAny},
		},
		{
			name: "relation with endpoints",
			raw:  "DEFINE TABLE wrote SCHEMAFULL TYPE RELATION IN user OUT post",
			want: schema.Table{Name: "wrote", Mode: schema.ModeFull, Kind: schema.KindRelation, From: "user", To: "post"},
		},
		{
			name: "drop with changefeed",
			raw:  "DEFINE TABLE metrics DROP SCHEMALESS TYPE NORMAL CHANGEFEED 3d INCLUDE ORIGINAL",
			want: schema.Table{
				Name: "metrics", Mode: schema.ModeLoose, Kind: schema.KindNormal, Drop: true,
				Changefeed: &schema.Changefeed{Duration: "3d", IncludeOriginal: true},
			},
		},
		{
			name: "permissions with IN operator inside WHERE",
			raw:  "DEFINE TABLE posts SCHEMAFULL TYPE NORMAL PERMISSIONS FOR select WHERE status IN ['published'] COMMENT 'articles'",
			want: schema.Table{
				Name: "posts", Mode: schema.ModeFull, Kind: schema.KindNormal,
				Permissions: "FOR select WHERE status IN ['published']",
				Comment:     "articles",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := qt.New(t)
			got, err := surreal.ParseTable(tt.raw)
			c.Assert(err, qt.IsNil)
			c.Assert(got, qt.DeepEquals, tt.want)
		})
	}
}

func TestParseField(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want schema.Field
	}{
		{
			name: "typed field",
			raw:  "DEFINE FIELD email ON users TYPE string",
			want: schema.Field{Name: "email", Type: "string"},
		},
		{
			name: "optional type kept verbatim",
			raw:  "DEFINE FIELD bio ON users TYPE option<string>",
			want: schema.Field{Name: "bio", Type: "option<string>"},
		},
		{
			name: "default always with readonly",
			raw:  "DEFINE FIELD updated ON users TYPE datetime DEFAULT ALWAYS time::now() READONLY",
			want: schema.Field{Name: "updated", Type: "datetime", Default: "time::now()", DefaultAlways: true, ReadOnly: true},
		},
		{
			name: "flexible before type",
			raw:  "DEFINE FIELD meta ON users FLEXIBLE TYPE object",
			want: schema.Field{Name: "meta", Type: "object", Flexible: true},
		},
		{
			name: "value and assert expressions",
			raw:  "DEFINE FIELD slug ON posts TYPE string VALUE string::slug(title) ASSERT $value != ''",
			want: schema.Field{Name: "slug", Type: "string", Value: "string::slug(title)", Assert: "$value != ''"},
		},
		{
			name: "reference with cascade",
			raw:  "DEFINE FIELD author ON posts TYPE record<user> REFERENCE ON DELETE CASCADE",
			want: schema.Field{
				Name: "author", Type: "record<user>",
				Reference: &schema.Reference{Table: "user", OnDelete: "cascade"},
			},
		},
		{
			name: "reference on optional record",
			raw:  "DEFINE FIELD reviewer ON posts TYPE option<record<user>> REFERENCE",
			want: schema.Field{
				Name: "reviewer", Type: "option<record<user>>",
				Reference: &schema.Reference{Table: "user"},
			},
		},
		{
			name: "permissions and comment",
			raw:  "DEFINE FIELD secret ON users TYPE string PERMISSIONS FOR select NONE COMMENT 'internal only'",
			want: schema.Field{
				Name: "secret", Type: "string",
				Permissions: "FOR select NONE",
				Comment:     "internal only",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := qt.New(t)
			got, err := surreal.ParseField(tt.raw)
			c.Assert(err, qt.IsNil)
			c.Assert(got, qt.DeepEquals, tt.want)
		})
	}
}

func TestParseIndex(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want schema.Index
	}{
		{
			name: "plain",
			raw:  "DEFINE INDEX idx_email ON users FIELDS email",
			want: schema.Index{Name: "idx_email", Columns: []string{"email"}, Kind: schema.IndexBTree},
		},
		{
			name: "unique multi column",
			raw:  "DEFINE INDEX idx_name ON users COLUMNS first, last UNIQUE",
			want: schema.Index{Name: "idx_name", Columns: []string{"first", "last"}, Unique: true, Kind: schema.IndexBTree},
		},
		{
			name: "search with bm25 and caches",
			raw:  "DEFINE INDEX idx_content ON posts FIELDS content SEARCH ANALYZER ascii BM25(1.2,0.75) HIGHLIGHTS DOC_IDS_CACHE 100",
			want: schema.Index{
				Name: "idx_content", Columns: []string{"content"}, Kind: schema.IndexSearch,
				Search: &schema.SearchParams{
					Analyzer:    "ascii",
					BM25:        &schema.BM25{K1: 1.2, B: 0.75},
					Highlights:  true,
					DocIDsCache: 100,
				},
			},
		},
		{
			name: "mtree",
			raw:  "DEFINE INDEX idx_emb ON docs FIELDS embedding MTREE DIMENSION 768 DIST COSINE CAPACITY 40",
			want: schema.Index{
				Name: "idx_emb", Columns: []string{"embedding"}, Kind: schema.IndexMTree,
				MTree: &schema.MTreeParams{Dimension: 768, Distance: "cosine", Capacity: 40},
			},
		},
		{
			name: "hnsw",
			raw:  "DEFINE INDEX idx_vec ON docs FIELDS embedding HNSW DIMENSION 1536 DIST EUCLIDEAN EFC 150 M 12 M0 24",
			want: schema.Index{
				Name: "idx_vec", Columns: []string{"embedding"}, Kind: schema.IndexHNSW,
				HNSW: &schema.HNSWParams{Dimension: 1536, Distance: "euclidean", EFC: 150, M: 12, M0: 24},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := qt.New(t)
			got, err := surreal.ParseIndex(tt.raw)
			c.Assert(err, qt.IsNil)
			c.Assert(got, qt.DeepEquals, tt.want)
		})
	}
}

func TestParseIndex_SearchWithoutAnalyzerFails(t *testing.T) {
	c := qt.New(t)

	_, err := surreal.ParseIndex("DEFINE INDEX idx ON posts FIELDS content SEARCH HIGHLIGHTS")
	c.Assert(err, qt.ErrorMatches, "cannot parse index definition: .*")
}

func TestParseEvent(t *testing.T) {
	c := qt.New(t)

	e, err := surreal.ParseEvent(`DEFINE EVENT audit ON users WHEN $event = "create" THEN { CREATE log SET user = $after.id }`)
	c.Assert(err, qt.IsNil)
	c.Assert(e, qt.DeepEquals, schema.Event{
		Name: "audit",
		When: `$event = "create"`,
		Then: "CREATE log SET user = $after.id",
	})
}

func TestParseEvent_MissingThenFails(t *testing.T) {
	c := qt.New(t)

	_, err := surreal.ParseEvent(`DEFINE EVENT broken ON users WHEN $event = "create"`)
	c.Assert(err, qt.IsNotNil)
}

func TestParseFunction(t *testing.T) {
	c := qt.New(t)

	fn, err := surreal.ParseFunction("DEFINE FUNCTION fn::greet($name: string) { RETURN 'Hello ' + $name } COMMENT 'greeting'")
	c.Assert(err, qt.IsNil)
	c.Assert(fn, qt.DeepEquals, schema.Function{
		Name:    "greet",
		Args:    "$name: string",
		Body:    "RETURN 'Hello ' + $name",
		Comment: "greeting",
	})
}

func TestParseFunction_NestedBraces(t *testing.T) {
	c := qt.New(t)

	fn, err := surreal.ParseFunction("DEFINE FUNCTION fn::pick($x: int) { IF $x > 0 { RETURN $x } ELSE { RETURN 0 } }")
	c.Assert(err, qt.IsNil)
	c.Assert(fn.Body, qt.Equals, "IF $x > 0 { RETURN $x } ELSE { RETURN 0 }")
}

func TestParseScope(t *testing.T) {
	c := qt.New(t)

	sc, err := surreal.ParseScope("DEFINE SCOPE account SESSION 24h SIGNUP ( CREATE user SET email = $email ) SIGNIN ( SELECT * FROM user WHERE email = $email )")
	c.Assert(err, qt.IsNil)
	c.Assert(sc, qt.DeepEquals, schema.Scope{
		Name:            "account",
		SessionDuration: "24h",
		SignUp:          "CREATE user SET email = $email",
		SignIn:          "SELECT * FROM user WHERE email = $email",
	})
}

func TestParseParam(t *testing.T) {
	c := qt.New(t)

	p, err := surreal.ParseParam("DEFINE PARAM $max_retries VALUE 5")
	c.Assert(err, qt.IsNil)
	c.Assert(p, qt.DeepEquals, schema.Param{Name: "max_retries", Value: "5"})
}

func TestParseSequence(t *testing.T) {
	c := qt.New(t)

	sq, err := surreal.ParseSequence("DEFINE SEQUENCE order_seq BATCH 100 START 1000")
	c.Assert(err, qt.IsNil)
	c.Assert(sq, qt.DeepEquals, schema.Sequence{Name: "order_seq", Batch: 100, Start: 1000})
}

func TestParseUser(t *testing.T) {
	c := qt.New(t)

	u, err := surreal.ParseUser("DEFINE USER app ON DATABASE PASSHASH '$argon2id$hash' ROLES OWNER, EDITOR DURATION FOR TOKEN 15m, FOR SESSION 12h")
	c.Assert(err, qt.IsNil)
	c.Assert(u.Name, qt.Equals, "app")
	c.Assert(u.PasswordHash, qt.Equals, "$argon2id$hash")
	c.Assert(u.Roles, qt.DeepEquals, []string{"owner", "editor"})
}
