package main

import (
	"fmt"
	"os"

	"github.com/aretw0/mealy/internal/cli"
	"github.com/aretw0/mealy/internal/presentation/tui"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var rootCmd = &cobra.Command{
	Use:   "mealy",
	Short: "mealy runs table-driven Mealy machines over lines of input",
	Long: `mealy reads lines and runs each one through a transition table from its
initial state, printing the produced output on stdout and the trace of
visited states on stderr.

Tables come from the builtin set (binary-addition, gum-machine), a single
file (--file) or a directory of .fsm, .yaml and .json files (--dir).`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("dir", os.Getenv(cli.EnvDir), "Directory containing table files")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging on stderr")
}

// exitOnError reports err on stderr and exits with status 1.
func exitOnError(err error) {
	if err == nil {
		return
	}
	fmt.Fprintln(os.Stderr, tui.FormatError(err))
	os.Exit(1)
}

func addTableFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("table", "t", "", "Name of the table to use")
	cmd.Flags().StringP("file", "f", "", "Path of a table file (.fsm, .yaml, .json)")
}

func tableOptions(cmd *cobra.Command, args []string) cli.TableOptions {
	dir, _ := cmd.Flags().GetString("dir")
	table, _ := cmd.Flags().GetString("table")
	file, _ := cmd.Flags().GetString("file")
	if table == "" && file == "" && len(args) > 0 {
		table = args[0]
	}
	return cli.TableOptions{Table: table, File: file, Dir: dir}
}

func addStoreFlags(flags *pflag.FlagSet) {
	flags.String("store", "", "Run store: memory, file, redis or bolt (env "+cli.EnvStore+")")
	flags.String("store-path", "", "Directory of the file store (default .mealy/runs)")
	flags.String("redis-addr", "", "Redis address for the redis store (env "+cli.EnvRedisAddr+")")
	flags.Duration("redis-ttl", 0, "Expiration of runs kept in redis (0 keeps them)")
	flags.String("bolt", "", "Database file of the bolt store (env "+cli.EnvBoltPath+")")
	flags.String("store-key", "", "Seal stored runs with this AES-256 key, hex or base64 (env "+cli.EnvStoreKey+")")
	flags.StringSlice("redact", nil, "Regular expressions masked in stored inputs and outputs")
}

func storeOptions(cmd *cobra.Command) cli.StoreOptions {
	kind, _ := cmd.Flags().GetString("store")
	path, _ := cmd.Flags().GetString("store-path")
	addr, _ := cmd.Flags().GetString("redis-addr")
	ttl, _ := cmd.Flags().GetDuration("redis-ttl")
	bolt, _ := cmd.Flags().GetString("bolt")
	key, _ := cmd.Flags().GetString("store-key")
	redact, _ := cmd.Flags().GetStringSlice("redact")
	if bolt != "" && kind == "" {
		kind = cli.StoreBolt
	}
	if addr != "" && kind == "" {
		kind = cli.StoreRedis
	}
	return cli.StoreOptions{
		Kind:      kind,
		Path:      path,
		RedisAddr: addr,
		RedisTTL:  ttl,
		BoltPath:  bolt,
		Key:       key,
		Redact:    redact,
	}
}
