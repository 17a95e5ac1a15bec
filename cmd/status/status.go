package status

import (
	"fmt"

	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"

	"github.com/surrealmigrate/surrealmigrate/cmd/common"
)

const schemaFileFlag = "schema-file"

var statusFlags = map[string]cobraflags.Flag{
	schemaFileFlag: &cobraflags.StringFlag{
		Name:  schemaFileFlag,
		Value: "",
		Usage: "Schema document to check for pending changes (optional)",
	},
}

var connFlags = common.ConnectionFlags()

func NewStatusCommand() *cobra.Command {
	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show applied migrations and pending changes",
		Long: `List the migrations recorded in the ledger, oldest first. When a schema
document is given, also report whether migrating to it would change anything.`,
		RunE: statusCommand,
	}

	cobraflags.RegisterMap(statusCmd, statusFlags)
	cobraflags.RegisterMap(statusCmd, connFlags)
	return statusCmd
}

func statusCommand(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	client, m, err := common.Connect(ctx, connFlags)
	if err != nil {
		return err
	}
	defer client.Close()

	history, err := m.History(ctx)
	if err != nil {
		return err
	}

	if len(history) == 0 {
		fmt.Println("No migrations applied.")
	} else {
		fmt.Printf("Applied migrations (%d):\n", len(history))
		for _, entry := range history {
			message := entry.Message
			if message == "" {
				message = "(no message)"
			}
			fmt.Printf("  %s  %s  %s\n", entry.AppliedAt.Format("2006-01-02 15:04:05"), entry.ID, message)
		}
	}

	schemaFile := statusFlags[schemaFileFlag].GetString()
	if schemaFile == "" {
		return nil
	}

	desired, err := common.LoadSchemaFile(schemaFile)
	if err != nil {
		return err
	}
	changed, err := m.HasChanges(ctx, desired)
	if err != nil {
		return err
	}
	if changed {
		fmt.Println("\nPending changes: yes (run `surrealmigrate diff` to inspect)")
	} else {
		fmt.Println("\nPending changes: none")
	}
	return nil
}
