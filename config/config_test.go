package config_test

import (
	"os"
	"path/filepath"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/surrealmigrate/surrealmigrate/config"
)

func TestDefaultDiffOptions(t *testing.T) {
	c := qt.New(t)

	opts := config.DefaultDiffOptions()

	c.Assert(opts.IgnoredTables, qt.DeepEquals, []string{"_migrations"})
	c.Assert(opts.IsTableIgnored("_migrations"), qt.IsTrue)
	c.Assert(opts.IsTableIgnored("users"), qt.IsFalse)
}

func TestWithIgnoredTables(t *testing.T) {
	c := qt.New(t)

	opts := config.WithIgnoredTables("audit_log", "tmp_import")

	c.Assert(opts.IsTableIgnored("_migrations"), qt.IsTrue, qt.Commentf("ledger table must stay ignored"))
	c.Assert(opts.IsTableIgnored("audit_log"), qt.IsTrue)
	c.Assert(opts.IsTableIgnored("tmp_import"), qt.IsTrue)
	c.Assert(opts.IsTableIgnored("users"), qt.IsFalse)
}

func TestConnectionValidate(t *testing.T) {
	tests := []struct {
		name    string
		conn    config.Connection
		wantErr bool
	}{
		{
			name: "complete settings",
			conn: config.Connection{
				Endpoint:  "ws://localhost:8000/rpc",
				Namespace: "app",
				Database:  "app",
			},
			wantErr: false,
		},
		{
			name:    "missing endpoint",
			conn:    config.Connection{Namespace: "app", Database: "app"},
			wantErr: true,
		},
		{
			name:    "missing namespace",
			conn:    config.Connection{Endpoint: "ws://localhost:8000/rpc", Database: "app"},
			wantErr: true,
		},
		{
			name:    "missing database",
			conn:    config.Connection{Endpoint: "ws://localhost:8000/rpc", Namespace: "app"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := qt.New(t)

			err := tt.conn.Validate()
			if tt.wantErr {
				c.Assert(err, qt.IsNotNil)
			} else {
				c.Assert(err, qt.IsNil)
			}
		})
	}
}

func TestLoadConnection_FromFile(t *testing.T) {
	c := qt.New(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "surrealmigrate.yaml")
	content := `endpoint: ws://db.internal:8000/rpc
namespace: prod
database: app
username: migrator
password: secret
`
	err := os.WriteFile(path, []byte(content), 0o600)
	c.Assert(err, qt.IsNil)

	conn, err := config.LoadConnection(path)
	c.Assert(err, qt.IsNil)
	c.Assert(conn.Endpoint, qt.Equals, "ws://db.internal:8000/rpc")
	c.Assert(conn.Namespace, qt.Equals, "prod")
	c.Assert(conn.Database, qt.Equals, "app")
	c.Assert(conn.Username, qt.Equals, "migrator")
	c.Assert(conn.Password, qt.Equals, "secret")
	c.Assert(conn.Validate(), qt.IsNil)
}

func TestLoadConnection_EnvOverridesFile(t *testing.T) {
	c := qt.New(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "surrealmigrate.yaml")
	err := os.WriteFile(path, []byte("endpoint: ws://file:8000/rpc\nnamespace: ns\ndatabase: db\n"), 0o600)
	c.Assert(err, qt.IsNil)

	t.Setenv("SURREALMIGRATE_ENDPOINT", "ws://env:8000/rpc")

	conn, err := config.LoadConnection(path)
	c.Assert(err, qt.IsNil)
	c.Assert(conn.Endpoint, qt.Equals, "ws://env:8000/rpc")
	c.Assert(conn.Namespace, qt.Equals, "ns")
}

func TestLoadConnection_Defaults(t *testing.T) {
	c := qt.New(t)

	conn, err := config.LoadConnection("")
	c.Assert(err, qt.IsNil)
	c.Assert(conn.Endpoint, qt.Equals, "ws://localhost:8000/rpc")
	c.Assert(conn.Username, qt.Equals, "root")
}

func TestLoadConnection_MissingFile(t *testing.T) {
	c := qt.New(t)

	_, err := config.LoadConnection("/nonexistent/surrealmigrate.yaml")
	c.Assert(err, qt.IsNotNil)
}
