package migrate

import (
	"errors"
	"fmt"

	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"

	"github.com/surrealmigrate/surrealmigrate/cmd/common"
	"github.com/surrealmigrate/surrealmigrate/migration/migrator"
)

const (
	schemaFileFlag = "schema-file"
	messageFlag    = "message"
	dryRunFlag     = "dry-run"
)

var migrateFlags = map[string]cobraflags.Flag{
	schemaFileFlag: &cobraflags.StringFlag{
		Name:  schemaFileFlag,
		Value: "",
		Usage: "Path to the desired schema document (JSON)",
	},
	messageFlag: &cobraflags.StringFlag{
		Name:  messageFlag,
		Value: "",
		Usage: "Description recorded with the migration",
	},
	dryRunFlag: &cobraflags.BoolFlag{
		Name:  dryRunFlag,
		Value: false,
		Usage: "Print the statements without executing them",
	},
}

var connFlags = common.ConnectionFlags()

func NewMigrateCommand() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply the schema document to the database",
		Long: `Compare the desired schema document against the live database schema and
apply the statements needed to reconcile them. Each applied migration is
recorded in the ledger together with its reverse statements, so it can be
rolled back later.`,
		RunE: migrateCommand,
	}

	cobraflags.RegisterMap(migrateCmd, migrateFlags)
	cobraflags.RegisterMap(migrateCmd, connFlags)
	return migrateCmd
}

func migrateCommand(cmd *cobra.Command, _ []string) error {
	desired, err := common.LoadSchemaFile(migrateFlags[schemaFileFlag].GetString())
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	client, m, err := common.Connect(ctx, connFlags)
	if err != nil {
		return err
	}
	defer client.Close()

	if migrateFlags[dryRunFlag].GetBool() {
		script, err := m.GenerateDiff(ctx, desired)
		if err != nil {
			return err
		}
		if !script.HasChanges() {
			fmt.Println("Schema is up to date.")
			return nil
		}
		fmt.Println(script.UpSQL())
		return nil
	}

	entry, err := m.Migrate(ctx, desired, migrateFlags[messageFlag].GetString())
	if errors.Is(err, migrator.ErrNoChanges) {
		fmt.Println("Schema is up to date.")
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Printf("Applied migration %s (%d statements)\n", entry.ID, len(entry.Up))
	return nil
}
