package diff

import (
	"fmt"

	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"

	"github.com/surrealmigrate/surrealmigrate/cmd/common"
)

const (
	schemaFileFlag = "schema-file"
	downFlag       = "down"
)

var diffFlags = map[string]cobraflags.Flag{
	schemaFileFlag: &cobraflags.StringFlag{
		Name:  schemaFileFlag,
		Value: "",
		Usage: "Path to the desired schema document (JSON)",
	},
	downFlag: &cobraflags.BoolFlag{
		Name:  downFlag,
		Value: false,
		Usage: "Also print the reverse statements",
	},
}

var connFlags = common.ConnectionFlags()

func NewDiffCommand() *cobra.Command {
	diffCmd := &cobra.Command{
		Use:   "diff",
		Short: "Print the statements that would reconcile the database with the schema document",
		Long: `Read the live database schema, compare it against the desired schema
document and print the resulting statements without executing anything.`,
		RunE: diffCommand,
	}

	cobraflags.RegisterMap(diffCmd, diffFlags)
	cobraflags.RegisterMap(diffCmd, connFlags)
	return diffCmd
}

func diffCommand(cmd *cobra.Command, _ []string) error {
	desired, err := common.LoadSchemaFile(diffFlags[schemaFileFlag].GetString())
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	client, m, err := common.Connect(ctx, connFlags)
	if err != nil {
		return err
	}
	defer client.Close()

	script, err := m.GenerateDiff(ctx, desired)
	if err != nil {
		return err
	}
	if !script.HasChanges() {
		fmt.Println("Schema is up to date.")
		return nil
	}

	fmt.Printf("-- %d changes\n", len(script.Changes))
	fmt.Println(script.UpSQL())

	if diffFlags[downFlag].GetBool() {
		fmt.Println()
		fmt.Println("-- reverse")
		fmt.Println(script.DownSQL())
	}
	return nil
}
