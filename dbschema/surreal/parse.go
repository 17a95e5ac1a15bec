// Package surreal reads the schema of a live SurrealDB database.
//
// SurrealDB exposes its schema as definition statements: INFO FOR DB and
// INFO FOR TABLE return, for every entity, the DEFINE statement the server
// stores for it. The parsers in this package turn those statements back
// into schema entities so that the same comparison code handles both the
// declared schema and the introspected one.
//
// Parsing is clause-oriented rather than grammar-complete: each parser
// splits its statement into the clauses the schema model cares about and
// keeps expression text verbatim for the normalizer to canonicalize.
package surreal

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/surrealmigrate/surrealmigrate/core/schema"
)

// ParseError reports a definition statement that could not be interpreted.
// The raw statement is carried in full: a truncated definition in an error
// message is useless for diagnosing what the server actually returned.
type ParseError struct {
	Entity string
	Raw    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse %s definition: %s", e.Entity, e.Raw)
}

var tableKeywords = []keyword{
	{"DROP", 1}, {"SCHEMAFULL", 1}, {"SCHEMALESS", 1},
	{"TYPE", 2}, {"IN", 3}, {"OUT", 3},
	{"CHANGEFEED", 4}, {"PERMISSIONS", 5}, {"COMMENT", 6},
}

// ParseTable parses a DEFINE TABLE statement.
func ParseTable(raw string) (schema.Table, error) {
	head, clauses := splitClauses(raw, tableKeywords)
	name := lastToken(head)
	if name == "" || !strings.Contains(strings.ToUpper(head), "TABLE") {
		return schema.Table{}, &ParseError{Entity: "table", Raw: raw}
	}

	t := schema.Table{Name: name, Mode: schema.ModeFull, Kind: schema.KindNormal}
	if _, ok := clauses["SCHEMALESS"]; ok {
		t.Mode = schema.ModeLoose
	}
	if _, ok := clauses["DROP"]; ok {
		t.Drop = true
	}

	switch strings.ToUpper(strings.TrimSpace(clauses["TYPE"])) {
	case "RELATION":
		t.Kind = schema.KindRelation
		t.From = strings.TrimSpace(clauses["IN"])
		t.To = strings.TrimSpace(clauses["OUT"])
	case "ANY":
		t.Kind = schema.KindAny
	}

	if cf, ok := clauses["CHANGEFEED"]; ok {
		feed := &schema.Changefeed{Duration: cf}
		if cut, found := strings.CutSuffix(cf, "INCLUDE ORIGINAL"); found {
			feed.Duration = strings.TrimSpace(cut)
			feed.IncludeOriginal = true
		}
		t.Changefeed = feed
	}
	t.Permissions = clauses["PERMISSIONS"]
	t.Comment = unquote(clauses["COMMENT"])
	return t, nil
}

var fieldKeywords = []keyword{
	{"ON", 0},
	{"FLEXIBLE", 1}, {"TYPE", 1},
	{"DEFAULT", 2}, {"READONLY", 2}, {"VALUE", 2}, {"ASSERT", 2}, {"REFERENCE", 2},
	{"PERMISSIONS", 3}, {"COMMENT", 4},
}

// ParseField parses a DEFINE FIELD statement. The returned field keeps the
// declared type verbatim, including any option<...> wrapper.
func ParseField(raw string) (schema.Field, error) {
	head, clauses := splitClauses(raw, fieldKeywords)
	name := lastToken(head)
	if name == "" || !strings.Contains(strings.ToUpper(head), "FIELD") {
		return schema.Field{}, &ParseError{Entity: "field", Raw: raw}
	}

	f := schema.Field{Name: name, Type: strings.TrimSpace(clauses["TYPE"])}
	if _, ok := clauses["FLEXIBLE"]; ok {
		f.Flexible = true
	}
	if _, ok := clauses["READONLY"]; ok {
		f.ReadOnly = true
	}
	if def, ok := clauses["DEFAULT"]; ok {
		if cut, found := strings.CutPrefix(def, "ALWAYS "); found {
			f.DefaultAlways = true
			def = strings.TrimSpace(cut)
		}
		f.Default = def
	}
	f.Value = clauses["VALUE"]
	f.Assert = clauses["ASSERT"]
	if ref, ok := clauses["REFERENCE"]; ok {
		// The referenced table is not part of the REFERENCE clause; it is
		// implied by the field's record type.
		r := &schema.Reference{Table: recordTarget(f.Type)}
		if cut, found := strings.CutPrefix(strings.TrimSpace(ref), "ON DELETE "); found {
			r.OnDelete = strings.ToLower(strings.TrimSpace(cut))
		}
		f.Reference = r
	}
	f.Permissions = clauses["PERMISSIONS"]
	f.Comment = unquote(clauses["COMMENT"])
	return f, nil
}

var indexKeywords = []keyword{
	{"ON", 0},
	{"FIELDS", 1}, {"COLUMNS", 1},
	{"UNIQUE", 2}, {"SEARCH", 2}, {"MTREE", 2}, {"HNSW", 2},
	{"COMMENT", 3},
}

// ParseIndex parses a DEFINE INDEX statement, covering plain, unique,
// full-text search and vector indexes.
func ParseIndex(raw string) (schema.Index, error) {
	head, clauses := splitClauses(raw, indexKeywords)
	name := lastToken(head)
	if name == "" || !strings.Contains(strings.ToUpper(head), "INDEX") {
		return schema.Index{}, &ParseError{Entity: "index", Raw: raw}
	}

	idx := schema.Index{Name: name}
	cols := clauses["FIELDS"]
	if cols == "" {
		cols = clauses["COLUMNS"]
	}
	for _, col := range strings.Split(cols, ",") {
		if col = strings.TrimSpace(col); col != "" {
			idx.Columns = append(idx.Columns, col)
		}
	}

	switch {
	case hasClause(clauses, "SEARCH"):
		idx.Kind = schema.IndexSearch
		search, err := parseSearchParams(clauses["SEARCH"])
		if err != nil {
			return schema.Index{}, &ParseError{Entity: "index", Raw: raw}
		}
		idx.Search = search
	case hasClause(clauses, "MTREE"):
		idx.Kind = schema.IndexMTree
		mtree, err := parseMTreeParams(clauses["MTREE"])
		if err != nil {
			return schema.Index{}, &ParseError{Entity: "index", Raw: raw}
		}
		idx.MTree = mtree
	case hasClause(clauses, "HNSW"):
		idx.Kind = schema.IndexHNSW
		hnsw, err := parseHNSWParams(clauses["HNSW"])
		if err != nil {
			return schema.Index{}, &ParseError{Entity: "index", Raw: raw}
		}
		idx.HNSW = hnsw
	default:
		idx.Kind = schema.IndexBTree
	}
	if _, ok := clauses["UNIQUE"]; ok {
		idx.Unique = true
	}
	idx.Comment = unquote(clauses["COMMENT"])
	return idx, nil
}

func hasClause(clauses map[string]string, word string) bool {
	_, ok := clauses[word]
	return ok
}

func parseSearchParams(s string) (*schema.SearchParams, error) {
	params := &schema.SearchParams{}
	tokens := strings.Fields(s)
	for i := 0; i < len(tokens); i++ {
		tok := strings.ToUpper(tokens[i])
		switch {
		case tok == "ANALYZER" && i+1 < len(tokens):
			i++
			params.Analyzer = tokens[i]
		case strings.HasPrefix(tok, "BM25"):
			args := strings.TrimSuffix(strings.TrimPrefix(tokens[i][4:], "("), ")")
			parts := strings.Split(args, ",")
			if len(parts) == 2 {
				k1, err1 := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
				b, err2 := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
				if err1 != nil || err2 != nil {
					return nil, fmt.Errorf("bad BM25 arguments: %s", tokens[i])
				}
				params.BM25 = &schema.BM25{K1: k1, B: b}
			}
		case tok == "HIGHLIGHTS":
			params.Highlights = true
		case tok == "DOC_IDS_CACHE" && i+1 < len(tokens):
			i++
			params.DocIDsCache = atoiOrZero(tokens[i])
		case tok == "DOC_LENGTHS_CACHE" && i+1 < len(tokens):
			i++
			params.DocLengthsCache = atoiOrZero(tokens[i])
		case tok == "POSTINGS_CACHE" && i+1 < len(tokens):
			i++
			params.PostingsCache = atoiOrZero(tokens[i])
		case tok == "TERMS_CACHE" && i+1 < len(tokens):
			i++
			params.TermsCache = atoiOrZero(tokens[i])
		}
	}
	if params.Analyzer == "" {
		return nil, fmt.Errorf("search index without analyzer")
	}
	return params, nil
}

func parseMTreeParams(s string) (*schema.MTreeParams, error) {
	params := &schema.MTreeParams{}
	tokens := strings.Fields(s)
	for i := 0; i < len(tokens); i++ {
		switch strings.ToUpper(tokens[i]) {
		case "DIMENSION":
			if i+1 < len(tokens) {
				i++
				params.Dimension = atoiOrZero(tokens[i])
			}
		case "DIST":
			if i+1 < len(tokens) {
				i++
				params.Distance = strings.ToLower(tokens[i])
			}
		case "CAPACITY":
			if i+1 < len(tokens) {
				i++
				params.Capacity = atoiOrZero(tokens[i])
			}
		}
	}
	if params.Dimension == 0 {
		return nil, fmt.Errorf("mtree index without dimension")
	}
	return params, nil
}

func parseHNSWParams(s string) (*schema.HNSWParams, error) {
	params := &schema.HNSWParams{}
	tokens := strings.Fields(s)
	for i := 0; i < len(tokens); i++ {
		switch strings.ToUpper(tokens[i]) {
		case "DIMENSION":
			if i+1 < len(tokens) {
				i++
				params.Dimension = atoiOrZero(tokens[i])
			}
		case "DIST":
			if i+1 < len(tokens) {
				i++
				params.Distance = strings.ToLower(tokens[i])
			}
		case "EFC":
			if i+1 < len(tokens) {
				i++
				params.EFC = atoiOrZero(tokens[i])
			}
		case "M":
			if i+1 < len(tokens) {
				i++
				params.M = atoiOrZero(tokens[i])
			}
		case "M0":
			if i+1 < len(tokens) {
				i++
				params.M0 = atoiOrZero(tokens[i])
			}
		case "LM":
			if i+1 < len(tokens) {
				i++
				params.LM, _ = strconv.ParseFloat(tokens[i], 64)
			}
		}
	}
	if params.Dimension == 0 {
		return nil, fmt.Errorf("hnsw index without dimension")
	}
	return params, nil
}

func atoiOrZero(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

var eventKeywords = []keyword{
	{"ON", 0}, {"WHEN", 1}, {"THEN", 2}, {"COMMENT", 3},
}

// ParseEvent parses a DEFINE EVENT statement. The THEN body is unwrapped
// from its braces; the guard expression is kept verbatim.
func ParseEvent(raw string) (schema.Event, error) {
	head, clauses := splitClauses(raw, eventKeywords)
	name := lastToken(head)
	then, ok := clauses["THEN"]
	if name == "" || !ok || !strings.Contains(strings.ToUpper(head), "EVENT") {
		return schema.Event{}, &ParseError{Entity: "event", Raw: raw}
	}
	return schema.Event{
		Name:    name,
		When:    clauses["WHEN"],
		Then:    unwrap(then, '{', '}'),
		Comment: unquote(clauses["COMMENT"]),
	}, nil
}

// ParseFunction parses a DEFINE FUNCTION statement. The signature cannot be
// split on keywords because the argument list and body are free-form, so it
// is scanned structurally: name up to the argument parenthesis, arguments
// to the matching close, body inside the following braces.
func ParseFunction(raw string) (schema.Function, error) {
	trimmed := strings.TrimSpace(raw)
	start := strings.Index(trimmed, "fn::")
	if start < 0 {
		return schema.Function{}, &ParseError{Entity: "function", Raw: raw}
	}
	rest := trimmed[start+len("fn::"):]

	open := strings.IndexByte(rest, '(')
	if open < 0 {
		return schema.Function{}, &ParseError{Entity: "function", Raw: raw}
	}
	name := strings.TrimSpace(rest[:open])

	argsEnd := matchingDelim(rest, open, '(', ')')
	if argsEnd < 0 {
		return schema.Function{}, &ParseError{Entity: "function", Raw: raw}
	}
	args := strings.TrimSpace(rest[open+1 : argsEnd])

	bodyStart := strings.IndexByte(rest[argsEnd:], '{')
	if bodyStart < 0 {
		return schema.Function{}, &ParseError{Entity: "function", Raw: raw}
	}
	bodyStart += argsEnd
	bodyEnd := matchingDelim(rest, bodyStart, '{', '}')
	if bodyEnd < 0 {
		return schema.Function{}, &ParseError{Entity: "function", Raw: raw}
	}
	body := strings.TrimSpace(rest[bodyStart+1 : bodyEnd])

	fn := schema.Function{Name: name, Args: args, Body: body}
	_, clauses := splitClauses(rest[bodyEnd+1:], []keyword{{"COMMENT", 0}})
	fn.Comment = unquote(clauses["COMMENT"])
	return fn, nil
}

// matchingDelim returns the index of the delimiter closing the one at
// position open, honoring nesting and quotes, or -1.
func matchingDelim(s string, open int, opening, closing byte) int {
	depth := 0
	var quote byte
	for i := open; i < len(s); i++ {
		ch := s[i]
		if quote != 0 {
			if ch == '\\' {
				i++
			} else if ch == quote {
				quote = 0
			}
			continue
		}
		switch ch {
		case '\'', '"':
			quote = ch
		case opening:
			depth++
		case closing:
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

var scopeKeywords = []keyword{
	{"SESSION", 1}, {"SIGNUP", 2}, {"SIGNIN", 2}, {"COMMENT", 3},
}

// ParseScope parses a DEFINE SCOPE statement. Newer servers express scopes
// as DEFINE ACCESS; the clause layout this parser reads is shared.
func ParseScope(raw string) (schema.Scope, error) {
	head, clauses := splitClauses(raw, scopeKeywords)
	name := lastToken(head)
	if name == "" {
		return schema.Scope{}, &ParseError{Entity: "scope", Raw: raw}
	}
	return schema.Scope{
		Name:            name,
		SessionDuration: clauses["SESSION"],
		SignUp:          unwrap(clauses["SIGNUP"], '(', ')'),
		SignIn:          unwrap(clauses["SIGNIN"], '(', ')'),
		Comment:         unquote(clauses["COMMENT"]),
	}, nil
}

var analyzerKeywords = []keyword{
	{"TOKENIZERS", 1}, {"FILTERS", 2}, {"COMMENT", 3},
}

// ParseAnalyzer parses a DEFINE ANALYZER statement.
func ParseAnalyzer(raw string) (schema.Analyzer, error) {
	head, clauses := splitClauses(raw, analyzerKeywords)
	name := lastToken(head)
	if name == "" || !strings.Contains(strings.ToUpper(head), "ANALYZER") {
		return schema.Analyzer{}, &ParseError{Entity: "analyzer", Raw: raw}
	}
	a := schema.Analyzer{Name: name, Comment: unquote(clauses["COMMENT"])}
	for _, tok := range strings.Split(clauses["TOKENIZERS"], ",") {
		if tok = strings.TrimSpace(tok); tok != "" {
			a.Tokenizers = append(a.Tokenizers, tok)
		}
	}
	for _, f := range strings.Split(clauses["FILTERS"], ",") {
		if f = strings.TrimSpace(f); f != "" {
			a.Filters = append(a.Filters, f)
		}
	}
	return a, nil
}

var paramKeywords = []keyword{
	{"VALUE", 1}, {"PERMISSIONS", 2}, {"COMMENT", 3},
}

// ParseParam parses a DEFINE PARAM statement. The $ prefix is stripped from
// the name to match how params are declared in the schema model.
func ParseParam(raw string) (schema.Param, error) {
	head, clauses := splitClauses(raw, paramKeywords)
	name := strings.TrimPrefix(lastToken(head), "$")
	value, ok := clauses["VALUE"]
	if name == "" || !ok {
		return schema.Param{}, &ParseError{Entity: "param", Raw: raw}
	}
	return schema.Param{
		Name:    name,
		Value:   value,
		Comment: unquote(clauses["COMMENT"]),
	}, nil
}

var sequenceKeywords = []keyword{
	{"BATCH", 1}, {"START", 2}, {"COMMENT", 3},
}

// ParseSequence parses a DEFINE SEQUENCE statement.
func ParseSequence(raw string) (schema.Sequence, error) {
	head, clauses := splitClauses(raw, sequenceKeywords)
	name := lastToken(head)
	if name == "" || !strings.Contains(strings.ToUpper(head), "SEQUENCE") {
		return schema.Sequence{}, &ParseError{Entity: "sequence", Raw: raw}
	}
	return schema.Sequence{
		Name:    name,
		Batch:   atoiOrZero(clauses["BATCH"]),
		Start:   atoiOrZero(clauses["START"]),
		Comment: unquote(clauses["COMMENT"]),
	}, nil
}

var userKeywords = []keyword{
	{"ON", 0}, {"PASSHASH", 1}, {"PASSWORD", 1}, {"ROLES", 2},
	{"DURATION", 3}, {"COMMENT", 4},
}

// ParseUser parses a DEFINE USER statement. Only the password hash is
// retained; session and token durations are not part of the schema model.
func ParseUser(raw string) (schema.User, error) {
	head, clauses := splitClauses(raw, userKeywords)
	name := lastToken(head)
	if name == "" || !strings.Contains(strings.ToUpper(head), "USER") {
		return schema.User{}, &ParseError{Entity: "user", Raw: raw}
	}
	u := schema.User{
		Name:         name,
		PasswordHash: unquote(clauses["PASSHASH"]),
		Comment:      unquote(clauses["COMMENT"]),
	}
	for _, role := range strings.Split(clauses["ROLES"], ",") {
		if role = strings.TrimSpace(role); role != "" {
			u.Roles = append(u.Roles, strings.ToLower(role))
		}
	}
	return u, nil
}
