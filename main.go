package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/surrealmigrate/surrealmigrate/cmd/diff"
	"github.com/surrealmigrate/surrealmigrate/cmd/migrate"
	"github.com/surrealmigrate/surrealmigrate/cmd/rollback"
	"github.com/surrealmigrate/surrealmigrate/cmd/status"
)

var rootCmd = &cobra.Command{
	Use:   "surrealmigrate",
	Short: "Declarative schema migrations for SurrealDB",
	Long: `surrealmigrate reconciles a declarative schema document with a live
database: it reads the current schema through introspection, diffs it against
the desired state and applies reversible, checksummed migrations.`,
	SilenceUsage: true,
}

func main() {
	rootCmd.AddCommand(migrate.NewMigrateCommand())
	rootCmd.AddCommand(rollback.NewRollbackCommand())
	rootCmd.AddCommand(status.NewStatusCommand())
	rootCmd.AddCommand(diff.NewDiffCommand())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
