package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/aretw0/mealy/internal/cli"
	"github.com/aretw0/mealy/pkg/ports"
	"github.com/spf13/cobra"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Manage stored runs",
	Long:  `List, inspect, and remove run records kept by 'mealy run --store'. Defaults to the file store in .mealy/runs.`,
}

var runsLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List stored runs",
	Run: func(cmd *cobra.Command, args []string) {
		store, closeStore := getStore(cmd)
		defer closeStore()

		ids, err := store.List(cmd.Context())
		exitOnError(err)

		if len(ids) == 0 {
			fmt.Println("No stored runs found.")
			return
		}
		for _, id := range ids {
			fmt.Println(id)
		}
	},
}

var runsInspectCmd = &cobra.Command{
	Use:   "inspect <run-id>",
	Short: "Print a stored run as JSON",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		store, closeStore := getStore(cmd)
		defer closeStore()

		rec, err := store.Load(cmd.Context(), args[0])
		if err != nil {
			closeStore()
			exitOnError(fmt.Errorf("error loading run '%s': %w", args[0], err))
		}

		data, err := json.MarshalIndent(rec, "", "  ")
		exitOnError(err)
		fmt.Println(string(data))
	},
}

var runsRmCmd = &cobra.Command{
	Use:   "rm <run-id>...",
	Short: "Remove one or more runs",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		store, closeStore := getStore(cmd)
		defer closeStore()
		hasError := false

		for _, id := range args {
			if err := store.Delete(cmd.Context(), id); err != nil {
				fmt.Fprintf(os.Stderr, "Error removing '%s': %v\n", id, err)
				hasError = true
			} else {
				fmt.Printf("Removed run '%s'\n", id)
			}
		}

		if hasError {
			closeStore()
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(runsCmd)
	runsCmd.AddCommand(runsLsCmd)
	runsCmd.AddCommand(runsInspectCmd)
	runsCmd.AddCommand(runsRmCmd)
	addStoreFlags(runsCmd.PersistentFlags())
}

func getStore(cmd *cobra.Command) (ports.RunStore, func() error) {
	debug, _ := cmd.Flags().GetBool("debug")
	store, closeStore, err := cli.OpenStore(storeOptions(cmd), debug)
	exitOnError(err)
	return store, closeStore
}
