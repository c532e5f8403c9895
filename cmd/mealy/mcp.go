package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/aretw0/mealy/internal/cli"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Starts mealy as an MCP server exposing the tools list_tables,
describe_table and run_table, and the resource mealy://tables.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	Run: func(cmd *cobra.Command, args []string) {
		dir, _ := cmd.Flags().GetString("dir")
		debug, _ := cmd.Flags().GetBool("debug")
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")

		// Create a context that cancels on interrupt signal
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		exitOnError(cli.ServeMCP(ctx, cli.MCPOptions{
			Dir:       dir,
			Transport: transport,
			Port:      port,
			Debug:     debug,
			Store:     storeOptions(cmd),
		}))
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	addStoreFlags(mcpCmd.Flags())
	mcpCmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().Int("port", 8080, "Port to listen on (only for SSE)")
}
