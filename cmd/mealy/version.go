package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/mealy"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of mealy",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("mealy version %s\n", strings.TrimSpace(mealy.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
