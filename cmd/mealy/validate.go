package main

import (
	"os"

	"github.com/aretw0/mealy/internal/cli"
	"github.com/aretw0/mealy/internal/presentation/tui"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var validateCmd = &cobra.Command{
	Use:   "validate [table]",
	Short: "Check a table for consistency",
	Long: `Loads the table, which fails on undeclared states, empty symbols and
duplicate (state, input) pairs, then reports missing transitions, states
unreachable from the initial state and transitions shadowed by a shorter
input declared earlier.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		debug, _ := cmd.Flags().GetBool("debug")
		strict, _ := cmd.Flags().GetBool("strict")
		plain, _ := cmd.Flags().GetBool("plain")

		opts := cli.ValidateOptions{
			TableOptions: tableOptions(cmd, args),
			Strict:       strict,
			Debug:        debug,
		}
		if !plain && term.IsTerminal(int(os.Stdout.Fd())) {
			opts.Render = tui.NewRenderer()
		}
		exitOnError(cli.Validate(os.Stdout, opts))
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)

	addTableFlags(validateCmd)
	validateCmd.Flags().Bool("strict", false, "Fail when the analysis reports warnings")
	validateCmd.Flags().Bool("plain", false, "Print plain warnings even on a terminal")
}
