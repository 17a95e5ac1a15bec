package normalize_test

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/surrealmigrate/surrealmigrate/core/normalize"
)

func TestType(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "lowercase", input: "STRING", expected: "string"},
		{name: "optional shorthand", input: "int?", expected: "option<int>"},
		{name: "optional shorthand mixed case", input: "Datetime?", expected: "option<datetime>"},
		{name: "already option", input: "option<int>", expected: "option<int>"},
		{name: "empty is any", input: "", expected: "any"},
		{name: "null is any", input: "null", expected: "any"},
		{name: "record link", input: "record<User>", expected: "record<user>"},
		{name: "whitespace trimmed", input: "  bool ", expected: "bool"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := qt.New(t)
			c.Assert(normalize.Type(tc.input), qt.Equals, tc.expected)
		})
	}
}

func TestDefault(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "empty", input: "", expected: ""},
		{name: "null", input: "null", expected: ""},
		{name: "backticked namespace qualifier", input: "`rand`::uuid()", expected: "rand::uuid()"},
		{name: "multiple backticked qualifiers", input: "`time`::`now`()", expected: "time::now()"},
		{name: "single quoted literal", input: "'active'", expected: "active"},
		{name: "double quoted literal", input: `"active"`, expected: "active"},
		{name: "bare number passes through", input: "42", expected: "42"},
		{name: "array canonicalized", input: `[ "a",  "b" ]`, expected: `["a","b"]`},
		{name: "single quoted array canonicalized", input: "['a', 'b']", expected: `["a","b"]`},
		{name: "object key order canonicalized", input: `{"b": 2, "a": 1}`, expected: `{"a":1,"b":2}`},
		{name: "malformed object passes through", input: "{not json", expected: "{not json"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := qt.New(t)
			c.Assert(normalize.Default(tc.input), qt.Equals, tc.expected)
		})
	}
}

func TestDefault_BothSidesAgree(t *testing.T) {
	// The database echoes defaults in its own spelling; the authored schema
	// uses the bare form. Both must normalize identically or the diff
	// reports phantom changes.
	testCases := []struct {
		name       string
		dbReported string
		authored   string
	}{
		{name: "namespace qualifier", dbReported: "`rand`::uuid()", authored: "rand::uuid()"},
		{name: "quoted string", dbReported: "'pending'", authored: "pending"},
		{name: "array spacing", dbReported: `["x", "y"]`, authored: `["x","y"]`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := qt.New(t)
			c.Assert(normalize.Default(tc.dbReported), qt.Equals, normalize.Default(tc.authored))
		})
	}
}

func TestExpression(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "whitespace collapsed", input: "  $value  >   0 ", expected: "$value > 0"},
		{name: "week duration to days", input: "1w", expected: "7d"},
		{name: "multi week duration", input: "2w", expected: "14d"},
		{name: "day duration untouched", input: "3d", expected: "3d"},
		{name: "array literal requoted", input: `$value IN ["a", "b"]`, expected: "$value IN ['a', 'b']"},
		{name: "bare string literal requoted", input: `$event = "create"`, expected: "$event = 'create'"},
		{name: "empty", input: "", expected: ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := qt.New(t)
			c.Assert(normalize.Expression(tc.input), qt.Equals, tc.expected)
		})
	}
}

func TestPermissions(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "empty is full", input: "", expected: "FULL"},
		{name: "none stays none", input: "NONE", expected: "NONE"},
		{name: "lowercase none", input: "none", expected: "NONE"},
		{name: "full", input: "FULL", expected: "FULL"},
		{name: "lowercase full", input: "full", expected: "FULL"},
		{
			name:     "action order canonicalized",
			input:    "FOR update FULL FOR select FULL",
			expected: "FOR select FULL FOR update FULL",
		},
		{
			name:     "where expression normalized",
			input:    "for select where  $auth.id  =  id",
			expected: "FOR select WHERE $auth.id = id",
		},
		{
			name:     "grouped actions split and reordered",
			input:    "FOR create, select WHERE published = true",
			expected: "FOR select WHERE published = true FOR create WHERE published = true",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := qt.New(t)
			c.Assert(normalize.Permissions(tc.input), qt.Equals, tc.expected)
		})
	}
}

func TestFieldPermissions_DropsDeprecatedDelete(t *testing.T) {
	c := qt.New(t)

	// Fields no longer support the delete action; old databases still echo it.
	got := normalize.FieldPermissions("FOR select FULL FOR delete FULL")
	c.Assert(got, qt.Equals, "FOR select FULL")

	// A permissions clause consisting only of deprecated actions is FULL.
	got = normalize.FieldPermissions("FOR delete FULL")
	c.Assert(got, qt.Equals, "FULL")
}

func TestSerializeDefault(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "bare literal quoted", input: "active", expected: "'active'"},
		{name: "call-like untouched", input: "rand::uuid()", expected: "rand::uuid()"},
		{name: "plain call untouched", input: "count()", expected: "count()"},
		{name: "boolean untouched", input: "true", expected: "true"},
		{name: "number untouched", input: "42", expected: "42"},
		{name: "float untouched", input: "1.5", expected: "1.5"},
		{name: "array untouched", input: "[1, 2]", expected: "[1, 2]"},
		{name: "object untouched", input: "{a: 1}", expected: "{a: 1}"},
		{name: "parameter untouched", input: "$now", expected: "$now"},
		{name: "already quoted untouched", input: "'active'", expected: "'active'"},
		{name: "empty untouched", input: "", expected: ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := qt.New(t)
			c.Assert(normalize.SerializeDefault(tc.input), qt.Equals, tc.expected)
		})
	}
}

func TestSerializeDefault_RoundTrip(t *testing.T) {
	c := qt.New(t)

	// Serializing and re-normalizing a bare literal must be stable.
	for _, v := range []string{"active", "pending", "us-east-1"} {
		c.Assert(normalize.Default(normalize.SerializeDefault(v)), qt.Equals, v,
			qt.Commentf("value %q did not survive the round trip", v))
	}
}
