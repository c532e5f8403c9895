package main

import (
	"context"
	"os"

	"github.com/aretw0/mealy/internal/cli"
	"github.com/aretw0/mealy/pkg/runner"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Serves the tables over a JSON API: list and describe tables, render graphs
and analyses, run lines (POST /tables/{name}/run) and fetch stored runs.
Prometheus metrics are exposed on /metrics.`,
	Run: func(cmd *cobra.Command, args []string) {
		dir, _ := cmd.Flags().GetString("dir")
		debug, _ := cmd.Flags().GetBool("debug")
		port, _ := cmd.Flags().GetString("port")
		watch, _ := cmd.Flags().GetBool("watch")
		maxLine, _ := cmd.Flags().GetInt("max-line")

		sigCtx := cli.NewSignalContext(context.Background())
		defer sigCtx.Cancel()

		exitOnError(cli.Serve(sigCtx, cli.ServeOptions{
			Dir:     dir,
			Port:    port,
			Watch:   watch,
			Debug:   debug,
			MaxLine: maxLine,
			Store:   storeOptions(cmd),
			Stdout:  os.Stdout,
		}))
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	addStoreFlags(serveCmd.Flags())
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	serveCmd.Flags().BoolP("watch", "w", false, "Reload tables when files in --dir change")
	serveCmd.Flags().Int("max-line", runner.MaxLineLength(), "Maximum input length in bytes")
}
