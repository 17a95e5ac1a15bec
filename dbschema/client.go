// Package dbschema provides database connectivity and schema introspection
// for SurrealDB.
//
// The Client interface is the only seam between the migration engine and
// the SurrealDB SDK: everything above it works with plain statements and
// JSON results, so tests substitute an in-memory client and never touch a
// network.
package dbschema

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/surrealdb/surrealdb.go"
	"github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/surrealmigrate/surrealmigrate/config"
)

// QueryResult is one statement's outcome within a query batch. SurrealDB
// answers a multi-statement query with one result per statement, each
// carrying its own status.
type QueryResult struct {
	Status string          `json:"status"`
	Time   string          `json:"time"`
	Detail string          `json:"detail,omitempty"`
	Result json.RawMessage `json:"result,omitempty"`
}

// OK reports whether the statement succeeded.
func (r QueryResult) OK() bool {
	return r.Status == "OK"
}

// Client is the database access surface the migration engine needs.
type Client interface {
	// Connect establishes the connection and authenticates.
	Connect(ctx context.Context) error
	// Close releases the connection.
	Close() error
	// Query executes one or more statements and returns one result per
	// statement, in statement order.
	Query(ctx context.Context, surql string, vars map[string]any) ([]QueryResult, error)
	// Create inserts a record into a table.
	Create(ctx context.Context, table string, data any) error
	// Select returns all records of a table as a raw JSON array.
	Select(ctx context.Context, table string) (json.RawMessage, error)
	// Delete removes a single record by id.
	Delete(ctx context.Context, table, id string) error
}

// surrealClient adapts the SurrealDB SDK to the Client interface. The SDK
// carries the context on the DB handle, so each call passes it through
// WithContext and additionally checks cancellation up front.
type surrealClient struct {
	conn *config.Connection
	db   *surrealdb.DB
}

// NewClient returns a Client for the given connection settings. No network
// activity happens until Connect.
func NewClient(conn *config.Connection) Client {
	return &surrealClient{conn: conn}
}

func (c *surrealClient) Connect(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := c.conn.Validate(); err != nil {
		return err
	}
	db, err := surrealdb.New(c.conn.Endpoint)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", c.conn.Endpoint, err)
	}
	if _, err := db.SignIn(&surrealdb.Auth{
		Username: c.conn.Username,
		Password: c.conn.Password,
	}); err != nil {
		db.Close()
		return fmt.Errorf("failed to sign in as %s: %w", c.conn.Username, err)
	}
	if err := db.Use(c.conn.Namespace, c.conn.Database); err != nil {
		db.Close()
		return fmt.Errorf("failed to select %s/%s: %w", c.conn.Namespace, c.conn.Database, err)
	}
	c.db = db
	return nil
}

func (c *surrealClient) Close() error {
	if c.db != nil {
		c.db.Close()
		c.db = nil
	}
	return nil
}

func (c *surrealClient) Query(ctx context.Context, surql string, vars map[string]any) ([]QueryResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw, err := surrealdb.Query[any](c.db.WithContext(ctx), surql, vars)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	if raw == nil {
		return nil, nil
	}
	results := make([]QueryResult, 0, len(*raw))
	for _, r := range *raw {
		results = append(results, decodeResult(r))
	}
	return results, nil
}

func (c *surrealClient) Create(ctx context.Context, table string, data any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := surrealdb.Create[map[string]any](c.db.WithContext(ctx), models.Table(table), data); err != nil {
		return fmt.Errorf("failed to create record in %s: %w", table, err)
	}
	return nil
}

func (c *surrealClient) Select(ctx context.Context, table string) (json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw, err := surrealdb.Select[[]map[string]any](c.db.WithContext(ctx), models.Table(table))
	if err != nil {
		return nil, fmt.Errorf("failed to select from %s: %w", table, err)
	}
	var records []map[string]any
	if raw != nil {
		records = *raw
	}
	buf, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("failed to re-encode records from %s: %w", table, err)
	}
	return buf, nil
}

func (c *surrealClient) Delete(ctx context.Context, table, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := surrealdb.Delete[any](c.db.WithContext(ctx), models.NewRecordID(table, id)); err != nil {
		return fmt.Errorf("failed to delete %s:%s: %w", table, id, err)
	}
	return nil
}

// decodeResult converts one of the SDK's CBOR-decoded statement results into
// the engine's JSON form. A failed statement carries its error message as the
// result value; that becomes Detail so callers see why the statement failed.
func decodeResult(r surrealdb.QueryResult[any]) QueryResult {
	out := QueryResult{Status: r.Status, Time: r.Time}
	if r.Status != "OK" {
		if msg, ok := r.Result.(string); ok {
			out.Detail = msg
		}
		return out
	}
	if buf, err := json.Marshal(r.Result); err == nil {
		out.Result = buf
	}
	return out
}
