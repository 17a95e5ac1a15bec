package rollback

import (
	"errors"
	"fmt"

	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"

	"github.com/surrealmigrate/surrealmigrate/cmd/common"
	"github.com/surrealmigrate/surrealmigrate/migration/migrator"
)

var connFlags = common.ConnectionFlags()

func NewRollbackCommand() *cobra.Command {
	rollbackCmd := &cobra.Command{
		Use:   "rollback",
		Short: "Undo the most recently applied migration",
		Long: `Replay the reverse statements of the most recently applied migration and
remove its ledger entry. The reverse statements are verified against the
checksum recorded at migration time before anything executes.`,
		RunE: rollbackCommand,
	}

	cobraflags.RegisterMap(rollbackCmd, connFlags)
	return rollbackCmd
}

func rollbackCommand(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	client, m, err := common.Connect(ctx, connFlags)
	if err != nil {
		return err
	}
	defer client.Close()

	entry, err := m.Rollback(ctx)
	if errors.Is(err, migrator.ErrEmptyHistory) {
		fmt.Println("Nothing to roll back.")
		return nil
	}
	if err != nil {
		return err
	}

	if entry.Message != "" {
		fmt.Printf("Rolled back migration %s (%s)\n", entry.ID, entry.Message)
	} else {
		fmt.Printf("Rolled back migration %s\n", entry.ID)
	}
	return nil
}
