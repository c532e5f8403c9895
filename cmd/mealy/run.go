package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aretw0/mealy/internal/cli"
	"github.com/spf13/cobra"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run [table]",
	Short: "Run a table over lines of standard input",
	Long: `Reads lines from standard input and runs each one from the table's initial
state. Output goes to stdout, the trace and stuck reports to stderr.

On a terminal the prompt "> " is shown; piped input is processed in bulk.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		debug, _ := cmd.Flags().GetBool("debug")
		jsonMode, _ := cmd.Flags().GetBool("json")
		interactive, _ := cmd.Flags().GetBool("interactive")
		maxLine, _ := cmd.Flags().GetInt("max-line")
		rejectLong, _ := cmd.Flags().GetBool("reject-long")
		failFast, _ := cmd.Flags().GetBool("fail-fast")
		noTrace, _ := cmd.Flags().GetBool("no-trace")

		if jsonMode && cmd.Flags().Changed("interactive") && interactive {
			exitOnError(fmt.Errorf("--json and --interactive cannot be used together"))
		}

		sigCtx := cli.NewSignalContext(context.Background())
		defer sigCtx.Cancel()

		_, err := cli.Execute(sigCtx, cli.RunOptions{
			TableOptions:     tableOptions(cmd, args),
			Store:            storeOptions(cmd),
			Debug:            debug,
			JSON:             jsonMode,
			Interactive:      interactive,
			ForceInteractive: cmd.Flags().Changed("interactive"),
			MaxLine:          maxLine,
			RejectLong:       rejectLong,
			FailFast:         failFast,
			NoTrace:          noTrace,
			Stdin:            os.Stdin,
			Stdout:           os.Stdout,
			Stderr:           os.Stderr,
		})
		exitOnError(err)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	addTableFlags(runCmd)
	addStoreFlags(runCmd.Flags())
	runCmd.Flags().Bool("json", false, "Run in JSON mode (NDJSON input/output)")
	runCmd.Flags().BoolP("interactive", "i", false, "Force (or with =false, disable) the interactive prompt")
	runCmd.Flags().Int("max-line", 0, "Maximum line length in bytes (default 255, env MEALY_MAX_LINE)")
	runCmd.Flags().Bool("reject-long", false, "Skip over-long lines instead of truncating them")
	runCmd.Flags().Bool("fail-fast", false, "Stop at the first line that gets stuck")
	runCmd.Flags().Bool("no-trace", false, "Do not print the state trace on stderr")

	// 'run' is the default command.
	rootCmd.Run = runCmd.Run
	rootCmd.Args = runCmd.Args
	rootCmd.Flags().AddFlagSet(runCmd.LocalNonPersistentFlags())
}
