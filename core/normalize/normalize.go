// Package normalize canonicalizes type expressions, default values,
// permission clauses and general expressions before comparison.
//
// The live database reports definitions in its own canonical spelling
// (lowercased types, backtick-quoted namespace qualifiers, double-quoted
// array literals) while the desired schema uses whatever spelling the
// author wrote. Both sides must normalize to the same form, otherwise the
// diff generates redundant migrations for cosmetic differences.
package normalize

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var upper = cases.Upper(language.Und)

// Type canonicalizes a field type expression: lowercase, the `T?` shorthand
// rewritten to option<T>, and an empty type treated as any.
func Type(t string) string {
	t = strings.ToLower(strings.TrimSpace(t))
	if t == "" || t == "null" || t == "undefined" {
		return "any"
	}
	if strings.HasSuffix(t, "?") {
		t = "option<" + strings.TrimSuffix(t, "?") + ">"
	}
	return t
}

// backtickQualifier matches backtick-quoted identifier segments such as
// the `rand` in `rand`::uuid(). The database quotes namespace qualifiers
// when echoing defaults back; authored schemas rarely do.
var backtickQualifier = regexp.MustCompile("`([A-Za-z_][A-Za-z0-9_]*)`")

// Default canonicalizes a default-value expression for comparison.
// Backticked namespace qualifiers are stripped to their bare form, outer
// quotes are unwrapped, and array/object literals are re-serialized as
// canonical JSON so key order and spacing do not matter.
func Default(v string) string {
	v = strings.TrimSpace(v)
	if v == "" || v == "null" || v == "undefined" {
		return ""
	}
	v = backtickQualifier.ReplaceAllString(v, "$1")

	if isQuoted(v) {
		return v[1 : len(v)-1]
	}

	if strings.HasPrefix(v, "[") || strings.HasPrefix(v, "{") {
		if canonical, ok := canonicalJSON(v); ok {
			return canonical
		}
	}
	return v
}

// isQuoted reports whether s is wrapped in a single matching pair of quotes.
func isQuoted(s string) bool {
	if len(s) < 2 {
		return false
	}
	q := s[0]
	if q != '\'' && q != '"' {
		return false
	}
	if s[len(s)-1] != q {
		return false
	}
	// Reject strings like 'a' + 'b' where the quotes are not one pair.
	inner := s[1 : len(s)-1]
	return !strings.ContainsRune(inner, rune(q))
}

// canonicalJSON re-serializes a JSON-ish literal in compact canonical form.
// Single-quoted strings are accepted on input since the query language
// allows either quoting style.
func canonicalJSON(v string) (string, bool) {
	var decoded any
	if err := json.Unmarshal([]byte(v), &decoded); err != nil {
		// Retry with single quotes converted to double quotes.
		converted := singleQuoted.ReplaceAllStringFunc(v, func(m string) string {
			return `"` + strings.ReplaceAll(m[1:len(m)-1], `\'`, `'`) + `"`
		})
		if err := json.Unmarshal([]byte(converted), &decoded); err != nil {
			return "", false
		}
	}
	out, err := json.Marshal(decoded)
	if err != nil {
		return "", false
	}
	return string(out), true
}

var (
	singleQuoted = regexp.MustCompile(`'(?:[^'\\]|\\.)*'`)
	doubleQuoted = regexp.MustCompile(`"(?:[^"\\]|\\.)*"`)
	weekDuration = regexp.MustCompile(`\b(\d+)w\b`)
	whitespace   = regexp.MustCompile(`\s+`)
)

// Expression canonicalizes a general expression: whitespace collapsed to
// single spaces, week durations rewritten in days (1w -> 7d), and string
// literals requoted with single quotes, which is how the database echoes
// them back.
func Expression(e string) string {
	e = whitespace.ReplaceAllString(strings.TrimSpace(e), " ")
	if e == "" {
		return ""
	}
	e = weekDuration.ReplaceAllStringFunc(e, func(m string) string {
		n, err := strconv.Atoi(strings.TrimSuffix(m, "w"))
		if err != nil {
			return m
		}
		return strconv.Itoa(n*7) + "d"
	})
	e = doubleQuoted.ReplaceAllStringFunc(e, func(m string) string {
		inner := strings.ReplaceAll(m[1:len(m)-1], `\"`, `"`)
		inner = strings.ReplaceAll(inner, `'`, `\'`)
		return "'" + inner + "'"
	})
	return e
}

// permissionActions is the canonical ordering of permission actions.
var permissionActions = []string{"select", "create", "update", "delete"}

// Permissions canonicalizes a table-level permissions clause. Empty, NONE
// or absent permissions normalize to FULL; action keywords are uppercased
// and reordered into the canonical select/create/update/delete order.
func Permissions(p string) string {
	return normalizePermissions(p, false)
}

// FieldPermissions canonicalizes a field-level permissions clause. Field
// permissions additionally drop the deprecated delete action, which the
// database no longer accepts on fields but may still echo from old schemas.
func FieldPermissions(p string) string {
	return normalizePermissions(p, true)
}

func normalizePermissions(p string, field bool) string {
	p = whitespace.ReplaceAllString(strings.TrimSpace(p), " ")
	switch upper.String(p) {
	case "", "NONE", "FULL":
		if upper.String(p) == "NONE" {
			return "NONE"
		}
		return "FULL"
	}

	groups := splitPermissionGroups(p)
	if len(groups) == 0 {
		return "FULL"
	}

	// expr -> set of actions granted that expression
	byAction := make(map[string]string, 4)
	for _, g := range groups {
		for _, action := range g.actions {
			action = strings.ToLower(action)
			if field && action == "delete" {
				continue // deprecated on fields
			}
			byAction[action] = g.expr
		}
	}

	var out []string
	for _, action := range permissionActions {
		expr, ok := byAction[action]
		if !ok {
			continue
		}
		clause := "FOR " + action
		if isFullExpr(expr) {
			clause += " FULL"
		} else if upper.String(expr) == "NONE" {
			clause += " NONE"
		} else {
			clause += " WHERE " + Expression(expr)
		}
		out = append(out, clause)
	}
	if len(out) == 0 {
		return "FULL"
	}
	return strings.Join(out, " ")
}

func isFullExpr(expr string) bool {
	return upper.String(strings.TrimSpace(expr)) == "FULL" || strings.TrimSpace(expr) == "true"
}

type permissionGroup struct {
	actions []string
	expr    string
}

// splitPermissionGroups parses "FOR select, update WHERE ... FOR delete NONE"
// clause sequences. Keyword case in the input is irrelevant.
func splitPermissionGroups(p string) []permissionGroup {
	words := strings.Fields(p)
	var groups []permissionGroup
	i := 0
	for i < len(words) {
		if !strings.EqualFold(words[i], "FOR") {
			i++
			continue
		}
		i++
		var actions []string
		for i < len(words) {
			w := strings.Trim(words[i], ",")
			lw := strings.ToLower(w)
			if lw == "select" || lw == "create" || lw == "update" || lw == "delete" {
				actions = append(actions, lw)
				i++
				continue
			}
			break
		}
		var expr []string
		if i < len(words) && strings.EqualFold(words[i], "WHERE") {
			i++
		}
		for i < len(words) && !strings.EqualFold(words[i], "FOR") {
			expr = append(expr, words[i])
			i++
		}
		groups = append(groups, permissionGroup{actions: actions, expr: strings.Join(expr, " ")})
	}
	return groups
}

// callLike matches function-call expressions such as rand::uuid() or
// time::now(), which must not be quoted when rendered.
var callLike = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(::[A-Za-z_][A-Za-z0-9_]*)*\(.*\)$`)

// SerializeDefault is the inverse of Default for rendering: bare literal
// strings are single-quoted, while call-like expressions, booleans, numbers
// and array/object literals pass through untouched.
func SerializeDefault(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return v
	}
	switch v {
	case "true", "false", "null", "NONE", "NULL":
		return v
	}
	if _, err := strconv.ParseFloat(v, 64); err == nil {
		return v
	}
	if isQuoted(v) {
		return v
	}
	switch v[0] {
	case '[', '{', '(', '$', '<':
		return v
	}
	if callLike.MatchString(v) {
		return v
	}
	return "'" + v + "'"
}
