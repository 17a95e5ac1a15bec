package surreal

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/surrealmigrate/surrealmigrate/core/schema"
	"github.com/surrealmigrate/surrealmigrate/dbschema"
	dbtypes "github.com/surrealmigrate/surrealmigrate/dbschema/types"
)

// Reader reconstructs a schema snapshot from a live database. Every read
// hits the database directly; nothing is cached, because the snapshot must
// reflect the schema as it is at the moment of the call.
type Reader struct {
	client dbschema.Client
	logger *slog.Logger
}

// NewReader returns a Reader over the given client. A nil logger disables
// logging.
func NewReader(client dbschema.Client, logger *slog.Logger) *Reader {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Reader{client: client, logger: logger}
}

// ReadSchema introspects the connected database and returns its complete
// schema snapshot.
func (r *Reader) ReadSchema(ctx context.Context) (*schema.Schema, error) {
	info, err := r.databaseInfo(ctx)
	if err != nil {
		return nil, err
	}

	s := &schema.Schema{}

	for _, name := range sortedKeys(info.Tables) {
		t, err := r.readTable(ctx, name, info.Tables[name])
		if err != nil {
			return nil, err
		}
		if t.IsRelation() {
			s.Relations = append(s.Relations, t)
		} else {
			s.Tables = append(s.Tables, t)
		}
	}

	for _, name := range sortedKeys(info.Functions) {
		fn, err := ParseFunction(info.Functions[name])
		if err != nil {
			return nil, err
		}
		s.Functions = append(s.Functions, fn)
	}
	for _, name := range sortedKeys(info.Analyzers) {
		a, err := ParseAnalyzer(info.Analyzers[name])
		if err != nil {
			return nil, err
		}
		s.Analyzers = append(s.Analyzers, a)
	}
	for _, name := range sortedKeys(info.Params) {
		p, err := ParseParam(info.Params[name])
		if err != nil {
			return nil, err
		}
		s.Params = append(s.Params, p)
	}

	// Scopes moved to accesses in newer server versions; a database may
	// report either, never both for the same name.
	scopeDefs := make(map[string]string, len(info.Scopes)+len(info.Accesses))
	for name, def := range info.Scopes {
		scopeDefs[name] = def
	}
	for name, def := range info.Accesses {
		scopeDefs[name] = def
	}
	for _, name := range sortedKeys(scopeDefs) {
		sc, err := ParseScope(scopeDefs[name])
		if err != nil {
			return nil, err
		}
		s.Scopes = append(s.Scopes, sc)
	}

	for _, name := range sortedKeys(info.Sequences) {
		sq, err := ParseSequence(info.Sequences[name])
		if err != nil {
			return nil, err
		}
		s.Sequences = append(s.Sequences, sq)
	}
	for _, name := range sortedKeys(info.Users) {
		u, err := ParseUser(info.Users[name])
		if err != nil {
			return nil, err
		}
		s.Users = append(s.Users, u)
	}

	r.logger.Debug("schema introspected",
		"tables", len(s.Tables),
		"relations", len(s.Relations),
		"functions", len(s.Functions),
		"analyzers", len(s.Analyzers),
		"params", len(s.Params))
	return s, nil
}

func (r *Reader) databaseInfo(ctx context.Context) (*dbtypes.DatabaseInfo, error) {
	results, err := r.client.Query(ctx, "INFO FOR DB;", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to introspect database: %w", err)
	}
	if len(results) == 0 || !results[0].OK() {
		return nil, fmt.Errorf("INFO FOR DB returned no result")
	}
	var info dbtypes.DatabaseInfo
	if err := json.Unmarshal(results[0].Result, &info); err != nil {
		return nil, fmt.Errorf("failed to decode INFO FOR DB result: %w", err)
	}
	return &info, nil
}

func (r *Reader) readTable(ctx context.Context, name, definition string) (schema.Table, error) {
	t, err := ParseTable(definition)
	if err != nil {
		return schema.Table{}, err
	}

	results, err := r.client.Query(ctx, fmt.Sprintf("INFO FOR TABLE %s;", name), nil)
	if err != nil {
		return schema.Table{}, fmt.Errorf("failed to introspect table %s: %w", name, err)
	}
	if len(results) == 0 || !results[0].OK() {
		return schema.Table{}, fmt.Errorf("INFO FOR TABLE %s returned no result", name)
	}
	var info dbtypes.TableInfo
	if err := json.Unmarshal(results[0].Result, &info); err != nil {
		return schema.Table{}, fmt.Errorf("failed to decode INFO FOR TABLE %s result: %w", name, err)
	}

	for _, fieldName := range sortedKeys(info.Fields) {
		// A field on an array type is reported twice: once as the field
		// itself and once as its wildcard sub-field (col and col[*]).
		// The sub-field entry shadows the same logical field.
		if strings.Contains(fieldName, "[") {
			continue
		}
		f, err := ParseField(info.Fields[fieldName])
		if err != nil {
			return schema.Table{}, err
		}
		t.Fields = append(t.Fields, f)
	}
	for _, idxName := range sortedKeys(info.Indexes) {
		idx, err := ParseIndex(info.Indexes[idxName])
		if err != nil {
			return schema.Table{}, err
		}
		t.Indexes = append(t.Indexes, idx)
	}
	for _, eventName := range sortedKeys(info.Events) {
		e, err := ParseEvent(info.Events[eventName])
		if err != nil {
			return schema.Table{}, err
		}
		t.Events = append(t.Events, e)
	}

	// A table can be a relation without declaring TYPE RELATION: both
	// reserved endpoint fields present and record-typed mark it as one,
	// with endpoints taken from the referenced tables.
	if !t.IsRelation() {
		in, out := t.Field("in"), t.Field("out")
		if in != nil && out != nil {
			from, to := recordTarget(in.Type), recordTarget(out.Type)
			if from != "" && to != "" {
				t.Kind = schema.KindRelation
				t.From = from
				t.To = to
			}
		}
	}
	return t, nil
}

// recordTarget extracts the referenced table from a record type expression,
// e.g. "record<users>" or "option<record<users>>" yields "users".
// Non-record types yield "".
func recordTarget(typ string) string {
	typ = strings.ToLower(strings.TrimSpace(typ))
	if opt, ok := strings.CutPrefix(typ, "option<"); ok {
		typ, _ = strings.CutSuffix(opt, ">")
	}
	inner, ok := strings.CutPrefix(typ, "record<")
	if !ok {
		return ""
	}
	inner, ok = strings.CutSuffix(inner, ">")
	if !ok {
		return ""
	}
	// record<a | b> has no single endpoint table.
	if strings.ContainsAny(inner, "|,") {
		return ""
	}
	return strings.TrimSpace(inner)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
