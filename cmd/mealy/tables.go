package main

import (
	"os"

	"github.com/aretw0/mealy/internal/cli"
	"github.com/spf13/cobra"
)

var tablesCmd = &cobra.Command{
	Use:   "tables [name]",
	Short: "List tables, or print one",
	Long: `Without arguments, lists the builtin tables (or those of --dir).
With a name, prints that table in the line format, YAML or JSON.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		dir, _ := cmd.Flags().GetString("dir")
		debug, _ := cmd.Flags().GetBool("debug")
		format, _ := cmd.Flags().GetString("format")

		opts := cli.ShowOptions{Dir: dir, Format: format, Debug: debug}
		if len(args) == 0 {
			exitOnError(cli.ListTables(os.Stdout, opts))
			return
		}
		exitOnError(cli.ShowTable(os.Stdout, args[0], opts))
	},
}

func init() {
	rootCmd.AddCommand(tablesCmd)

	tablesCmd.Flags().String("format", "fsm", "Output format of a single table: fsm, yaml or json")
}
