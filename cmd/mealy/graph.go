package main

import (
	"os"

	"github.com/aretw0/mealy/internal/cli"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph [table]",
	Short: "Export the table as a diagram",
	Long: `Outputs a Mermaid flowchart (graph LR) or a Graphviz dot digraph with one
edge per transition, labelled "input / output". With --input the line is run
first and the states and transitions it went through are highlighted.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		debug, _ := cmd.Flags().GetBool("debug")
		format, _ := cmd.Flags().GetString("format")
		input, _ := cmd.Flags().GetString("input")

		exitOnError(cli.Graph(cmd.Context(), os.Stdout, cli.GraphOptions{
			TableOptions: tableOptions(cmd, args),
			Format:       format,
			Input:        input,
			Debug:        debug,
		}))
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)

	addTableFlags(graphCmd)
	graphCmd.Flags().String("format", "mermaid", "Diagram syntax: mermaid or dot")
	graphCmd.Flags().String("input", "", "Line to run and overlay on the diagram")
}
