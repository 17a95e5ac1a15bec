// Package renderer converts schema entities into SurrealQL definition
// statements.
//
// Every Define* function has a matching Remove* counterpart so that diff
// generation can emit reversible statement pairs. Define* functions accept
// an overwrite flag: when set, the statement is rendered with the OVERWRITE
// keyword and replaces an existing definition wholesale instead of creating
// a new one.
package renderer

import (
	"fmt"
	"strings"

	"github.com/surrealmigrate/surrealmigrate/core/normalize"
	"github.com/surrealmigrate/surrealmigrate/core/schema"
)

// define joins the DEFINE verb with an entity keyword, honoring the
// OVERWRITE placement SurrealQL expects: DEFINE <KIND> OVERWRITE <name>.
func define(kind string, overwrite bool) string {
	if overwrite {
		return "DEFINE " + kind + " OVERWRITE"
	}
	return "DEFINE " + kind
}

// DefineTable renders a complete table definition.
func DefineTable(t schema.Table, overwrite bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s", define("TABLE", overwrite), t.Name)

	if t.Drop {
		b.WriteString(" DROP")
	}

	switch t.Mode {
	case schema.ModeLoose:
		b.WriteString(" SCHEMALESS")
	default:
		b.WriteString(" SCHEMAFULL")
	}

	switch t.Kind {
	case schema.KindRelation:
		b.WriteString(" TYPE RELATION")
		if t.From != "" {
			fmt.Fprintf(&b, " IN %s", t.From)
		}
		if t.To != "" {
			fmt.Fprintf(&b, " OUT %s", t.To)
		}
	case schema.KindAny:
		b.WriteString(" TYPE ANY")
	default:
		b.WriteString(" TYPE NORMAL")
	}

	if t.Changefeed != nil {
		fmt.Fprintf(&b, " CHANGEFEED %s", t.Changefeed.Duration)
		if t.Changefeed.IncludeOriginal {
			b.WriteString(" INCLUDE ORIGINAL")
		}
	}

	// FULL is the database default, so rendering it would only add noise.
	if p := normalize.Permissions(t.Permissions); p != "FULL" {
		fmt.Fprintf(&b, " PERMISSIONS %s", p)
	}

	writeComment(&b, t.Comment)
	b.WriteString(";")
	return b.String()
}

// DefineField renders a field definition scoped to its table.
func DefineField(table string, f schema.Field, overwrite bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s ON %s", define("FIELD", overwrite), f.Name, table)

	typ := normalize.Type(f.Type)
	if f.Optional && !strings.HasPrefix(typ, "option<") {
		typ = "option<" + typ + ">"
	}
	if typ != "" {
		fmt.Fprintf(&b, " TYPE %s", typ)
	}

	if f.Flexible {
		b.WriteString(" FLEXIBLE")
	}
	if f.Default != "" {
		if f.DefaultAlways {
			fmt.Fprintf(&b, " DEFAULT ALWAYS %s", normalize.SerializeDefault(f.Default))
		} else {
			fmt.Fprintf(&b, " DEFAULT %s", normalize.SerializeDefault(f.Default))
		}
	}
	if f.ReadOnly {
		b.WriteString(" READONLY")
	}
	if f.Value != "" {
		fmt.Fprintf(&b, " VALUE %s", f.Value)
	}
	if f.Assert != "" {
		fmt.Fprintf(&b, " ASSERT %s", f.Assert)
	}
	if f.Reference != nil {
		b.WriteString(" REFERENCE")
		if f.Reference.OnDelete != "" {
			fmt.Fprintf(&b, " ON DELETE %s", strings.ToUpper(f.Reference.OnDelete))
		}
	}
	if p := normalize.FieldPermissions(f.Permissions); p != "FULL" {
		fmt.Fprintf(&b, " PERMISSIONS %s", p)
	}

	writeComment(&b, f.Comment)
	b.WriteString(";")
	return b.String()
}

// DefineIndex renders an index definition, covering plain, unique,
// full-text search, MTREE and HNSW indexes.
func DefineIndex(table string, idx schema.Index, overwrite bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s ON %s FIELDS %s",
		define("INDEX", overwrite), idx.Name, table, strings.Join(idx.Columns, ", "))

	switch {
	case idx.Search != nil:
		s := idx.Search
		fmt.Fprintf(&b, " SEARCH ANALYZER %s", s.Analyzer)
		if s.BM25 != nil {
			fmt.Fprintf(&b, " BM25(%g,%g)", s.BM25.K1, s.BM25.B)
		}
		if s.Highlights {
			b.WriteString(" HIGHLIGHTS")
		}
		if s.DocIDsCache > 0 {
			fmt.Fprintf(&b, " DOC_IDS_CACHE %d", s.DocIDsCache)
		}
		if s.DocLengthsCache > 0 {
			fmt.Fprintf(&b, " DOC_LENGTHS_CACHE %d", s.DocLengthsCache)
		}
		if s.PostingsCache > 0 {
			fmt.Fprintf(&b, " POSTINGS_CACHE %d", s.PostingsCache)
		}
		if s.TermsCache > 0 {
			fmt.Fprintf(&b, " TERMS_CACHE %d", s.TermsCache)
		}
	case idx.MTree != nil:
		m := idx.MTree
		fmt.Fprintf(&b, " MTREE DIMENSION %d", m.Dimension)
		if m.Distance != "" {
			fmt.Fprintf(&b, " DIST %s", strings.ToUpper(m.Distance))
		}
		if m.Capacity > 0 {
			fmt.Fprintf(&b, " CAPACITY %d", m.Capacity)
		}
	case idx.HNSW != nil:
		h := idx.HNSW
		fmt.Fprintf(&b, " HNSW DIMENSION %d", h.Dimension)
		if h.Distance != "" {
			fmt.Fprintf(&b, " DIST %s", strings.ToUpper(h.Distance))
		}
		if h.EFC > 0 {
			fmt.Fprintf(&b, " EFC %d", h.EFC)
		}
		if h.M > 0 {
			fmt.Fprintf(&b, " M %d", h.M)
		}
		if h.M0 > 0 {
			fmt.Fprintf(&b, " M0 %d", h.M0)
		}
		if h.LM > 0 {
			fmt.Fprintf(&b, " LM %g", h.LM)
		}
	case idx.Unique:
		b.WriteString(" UNIQUE")
	}

	writeComment(&b, idx.Comment)
	b.WriteString(";")
	return b.String()
}

// DefineEvent renders an event definition scoped to its table.
func DefineEvent(table string, e schema.Event, overwrite bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s ON %s", define("EVENT", overwrite), e.Name, table)

	when := e.When
	if when == "" && e.Trigger != "" {
		when = fmt.Sprintf("$event = '%s'", string(e.Trigger))
	}
	if when != "" {
		fmt.Fprintf(&b, " WHEN %s", normalize.Expression(when))
	}
	fmt.Fprintf(&b, " THEN { %s }", strings.TrimSpace(e.Then))

	writeComment(&b, e.Comment)
	b.WriteString(";")
	return b.String()
}

// DefineFunction renders a custom function definition.
func DefineFunction(fn schema.Function, overwrite bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s fn::%s(%s) { %s }",
		define("FUNCTION", overwrite), fn.Name, strings.TrimSpace(fn.Args), strings.TrimSpace(fn.Body))

	writeComment(&b, fn.Comment)
	b.WriteString(";")
	return b.String()
}

// DefineScope renders an authentication scope definition.
func DefineScope(s schema.Scope, overwrite bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s", define("SCOPE", overwrite), s.Name)
	if s.SessionDuration != "" {
		fmt.Fprintf(&b, " SESSION %s", s.SessionDuration)
	}
	if s.SignUp != "" {
		fmt.Fprintf(&b, " SIGNUP ( %s )", normalize.Expression(s.SignUp))
	}
	if s.SignIn != "" {
		fmt.Fprintf(&b, " SIGNIN ( %s )", normalize.Expression(s.SignIn))
	}
	writeComment(&b, s.Comment)
	b.WriteString(";")
	return b.String()
}

// DefineAnalyzer renders a full-text analyzer definition.
func DefineAnalyzer(a schema.Analyzer, overwrite bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s", define("ANALYZER", overwrite), a.Name)
	if len(a.Tokenizers) > 0 {
		fmt.Fprintf(&b, " TOKENIZERS %s", strings.Join(a.Tokenizers, ","))
	}
	if len(a.Filters) > 0 {
		fmt.Fprintf(&b, " FILTERS %s", strings.Join(a.Filters, ","))
	}
	writeComment(&b, a.Comment)
	b.WriteString(";")
	return b.String()
}

// DefineParam renders a database-wide parameter definition.
func DefineParam(p schema.Param, overwrite bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s $%s VALUE %s",
		define("PARAM", overwrite), p.Name, normalize.SerializeDefault(p.Value))
	writeComment(&b, p.Comment)
	b.WriteString(";")
	return b.String()
}

// DefineSequence renders a sequence definition.
func DefineSequence(s schema.Sequence, overwrite bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s", define("SEQUENCE", overwrite), s.Name)
	if s.Batch > 0 {
		fmt.Fprintf(&b, " BATCH %d", s.Batch)
	}
	if s.Start != 0 {
		fmt.Fprintf(&b, " START %d", s.Start)
	}
	writeComment(&b, s.Comment)
	b.WriteString(";")
	return b.String()
}

// DefineUser renders a database user definition. Only password hashes are
// ever rendered; plaintext passwords never reach the statement stream.
func DefineUser(u schema.User, overwrite bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s ON DATABASE", define("USER", overwrite), u.Name)
	if u.PasswordHash != "" {
		fmt.Fprintf(&b, " PASSHASH %s", quote(u.PasswordHash))
	}
	if len(u.Roles) > 0 {
		upper := make([]string, 0, len(u.Roles))
		for _, r := range u.Roles {
			upper = append(upper, strings.ToUpper(r))
		}
		fmt.Fprintf(&b, " ROLES %s", strings.Join(upper, ", "))
	}
	writeComment(&b, u.Comment)
	b.WriteString(";")
	return b.String()
}

// RemoveTable renders a table removal statement.
func RemoveTable(name string) string {
	return fmt.Sprintf("REMOVE TABLE %s;", name)
}

// RemoveField renders a field removal statement.
func RemoveField(table, name string) string {
	return fmt.Sprintf("REMOVE FIELD %s ON %s;", name, table)
}

// RemoveIndex renders an index removal statement.
func RemoveIndex(table, name string) string {
	return fmt.Sprintf("REMOVE INDEX %s ON %s;", name, table)
}

// RemoveEvent renders an event removal statement.
func RemoveEvent(table, name string) string {
	return fmt.Sprintf("REMOVE EVENT %s ON %s;", name, table)
}

// RemoveFunction renders a function removal statement.
func RemoveFunction(name string) string {
	return fmt.Sprintf("REMOVE FUNCTION fn::%s;", name)
}

// RemoveScope renders a scope removal statement.
func RemoveScope(name string) string {
	return fmt.Sprintf("REMOVE SCOPE %s;", name)
}

// RemoveAnalyzer renders an analyzer removal statement.
func RemoveAnalyzer(name string) string {
	return fmt.Sprintf("REMOVE ANALYZER %s;", name)
}

// RemoveParam renders a parameter removal statement.
func RemoveParam(name string) string {
	return fmt.Sprintf("REMOVE PARAM $%s;", name)
}

// RemoveSequence renders a sequence removal statement.
func RemoveSequence(name string) string {
	return fmt.Sprintf("REMOVE SEQUENCE %s;", name)
}

// RemoveUser renders a user removal statement.
func RemoveUser(name string) string {
	return fmt.Sprintf("REMOVE USER %s ON DATABASE;", name)
}

// RenameTable renders an in-place table rename that preserves records.
func RenameTable(from, to string) string {
	return fmt.Sprintf("ALTER TABLE %s RENAME TO %s;", from, to)
}

// RenameField renders an in-place field rename that preserves values.
func RenameField(table, from, to string) string {
	return fmt.Sprintf("ALTER FIELD %s ON %s RENAME TO %s;", from, table, to)
}

// AlterField renders a single-clause field alteration, e.g.
// ALTER FIELD age ON users TYPE int.
func AlterField(table, field, clause string) string {
	return fmt.Sprintf("ALTER FIELD %s ON %s %s;", field, table, clause)
}

// AlterTableProperty renders a single-property table alteration, e.g.
// ALTER TABLE users SCHEMALESS or ALTER TABLE users CHANGEFEED 1d.
func AlterTableProperty(table, clause string) string {
	return fmt.Sprintf("ALTER TABLE %s %s;", table, clause)
}

// AlterParam renders a parameter value change.
func AlterParam(name, value string) string {
	return fmt.Sprintf("ALTER PARAM $%s VALUE %s;", name, normalize.SerializeDefault(value))
}

// Comment renders a standalone comment-on-entity statement.
func Comment(c schema.Comment) string {
	return fmt.Sprintf("COMMENT ON %s IS %s;", c.On, quote(c.Text))
}

// RemoveComment clears a previously set entity comment.
func RemoveComment(on string) string {
	return fmt.Sprintf("COMMENT ON %s IS NONE;", on)
}

func writeComment(b *strings.Builder, comment string) {
	if comment != "" {
		fmt.Fprintf(b, " COMMENT %s", quote(comment))
	}
}

func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "\\'") + "'"
}
