// Package common holds the flag plumbing shared by all surrealmigrate
// commands: connection settings, logger setup and schema document loading.
package common

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/go-extras/cobraflags"

	"github.com/surrealmigrate/surrealmigrate/config"
	"github.com/surrealmigrate/surrealmigrate/core/schema"
	"github.com/surrealmigrate/surrealmigrate/dbschema"
	"github.com/surrealmigrate/surrealmigrate/migration/migrator"
)

// Connection flags
const (
	ConfigFlag    = "config"
	EndpointFlag  = "endpoint"
	NamespaceFlag = "namespace"
	DatabaseFlag  = "database"
	UsernameFlag  = "username"
	PasswordFlag  = "password"
	VerboseFlag   = "verbose"
)

// ConnectionFlags returns a fresh flag map for commands that talk to the
// database. Flag values override config file and environment settings.
func ConnectionFlags() map[string]cobraflags.Flag {
	return map[string]cobraflags.Flag{
		ConfigFlag: &cobraflags.StringFlag{
			Name:  ConfigFlag,
			Value: "",
			Usage: "Path to a config file with connection settings",
		},
		EndpointFlag: &cobraflags.StringFlag{
			Name:  EndpointFlag,
			Value: "",
			Usage: "Database endpoint, e.g. ws://localhost:8000/rpc",
		},
		NamespaceFlag: &cobraflags.StringFlag{
			Name:  NamespaceFlag,
			Value: "",
			Usage: "Namespace to operate on",
		},
		DatabaseFlag: &cobraflags.StringFlag{
			Name:  DatabaseFlag,
			Value: "",
			Usage: "Database to operate on",
		},
		UsernameFlag: &cobraflags.StringFlag{
			Name:  UsernameFlag,
			Value: "",
			Usage: "Authentication username",
		},
		PasswordFlag: &cobraflags.StringFlag{
			Name:  PasswordFlag,
			Value: "",
			Usage: "Authentication password",
		},
		VerboseFlag: &cobraflags.BoolFlag{
			Name:  VerboseFlag,
			Value: false,
			Usage: "Enable debug logging",
		},
	}
}

// ResolveConnection builds connection settings from the config file, the
// environment and any non-empty flag overrides.
func ResolveConnection(flags map[string]cobraflags.Flag) (*config.Connection, error) {
	conn, err := config.LoadConnection(flags[ConfigFlag].GetString())
	if err != nil {
		return nil, err
	}
	if v := flags[EndpointFlag].GetString(); v != "" {
		conn.Endpoint = v
	}
	if v := flags[NamespaceFlag].GetString(); v != "" {
		conn.Namespace = v
	}
	if v := flags[DatabaseFlag].GetString(); v != "" {
		conn.Database = v
	}
	if v := flags[UsernameFlag].GetString(); v != "" {
		conn.Username = v
	}
	if v := flags[PasswordFlag].GetString(); v != "" {
		conn.Password = v
	}
	return conn, nil
}

// NewLogger returns a text logger writing to stderr so command output on
// stdout stays clean.
func NewLogger(flags map[string]cobraflags.Flag) *slog.Logger {
	level := slog.LevelInfo
	if flags[VerboseFlag].GetBool() {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// Connect resolves connection settings from flags, opens a client and wraps
// it in an initialized Migrator. The caller owns the returned client and
// must Close it.
func Connect(ctx context.Context, flags map[string]cobraflags.Flag) (dbschema.Client, *migrator.Migrator, error) {
	conn, err := ResolveConnection(flags)
	if err != nil {
		return nil, nil, err
	}

	client := dbschema.NewClient(conn)
	if err := client.Connect(ctx); err != nil {
		return nil, nil, fmt.Errorf("failed to connect to %s: %w", conn.Endpoint, err)
	}

	m := migrator.New(client, migrator.WithLogger(NewLogger(flags)))
	if err := m.Initialize(ctx); err != nil {
		client.Close()
		return nil, nil, err
	}
	return client, m, nil
}

// LoadSchemaFile reads the desired schema document from path.
func LoadSchemaFile(path string) (*schema.Schema, error) {
	if path == "" {
		return nil, fmt.Errorf("schema file is required (use --schema-file)")
	}
	doc, err := schema.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load schema document: %w", err)
	}
	return doc, nil
}
