package cli

import (
	"io"
	"os"
	"time"
)

// Environment overrides read by the CLI.
const (
	EnvStore     = "MEALY_STORE"
	EnvRedisAddr = "MEALY_REDIS_ADDR"
	EnvBoltPath  = "MEALY_BOLT"
	EnvDir       = "MEALY_DIR"
	EnvStoreKey  = "MEALY_STORE_KEY"
)

// Store kinds accepted by --store.
const (
	StoreNone   = ""
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreRedis  = "redis"
	StoreBolt   = "bolt"
)

// TableOptions selects the table to work with.
// File wins over Table; Table is looked up in Dir first, then in the builtins.
type TableOptions struct {
	Table string
	File  string
	Dir   string
}

// StoreOptions selects where run records are kept.
type StoreOptions struct {
	Kind      string
	Path      string
	RedisAddr string
	RedisTTL  time.Duration
	BoltPath  string
	// Key, when set, seals records at rest (64 hex digits or base64).
	Key string
	// Redact lists patterns masked in stored inputs and outputs.
	Redact []string
}

// RunOptions configures the line loop.
type RunOptions struct {
	TableOptions
	Store StoreOptions

	Debug       bool
	JSON        bool
	Interactive bool
	// ForceInteractive skips terminal detection and uses Interactive as is.
	ForceInteractive bool
	MaxLine          int
	RejectLong       bool
	FailFast         bool
	NoTrace          bool

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// ServeOptions configures the HTTP server.
type ServeOptions struct {
	Dir     string
	Port    string
	Watch   bool
	Debug   bool
	MaxLine int
	Store   StoreOptions

	Stdout io.Writer
}

func (o *RunOptions) streams() (io.Reader, io.Writer, io.Writer) {
	in, out, errw := o.Stdin, o.Stdout, o.Stderr
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	if errw == nil {
		errw = os.Stderr
	}
	return in, out, errw
}

// FromEnv fills unset fields from MEALY_* variables.
func (o *StoreOptions) FromEnv() {
	if o.Kind == StoreNone {
		o.Kind = os.Getenv(EnvStore)
	}
	if o.RedisAddr == "" {
		o.RedisAddr = os.Getenv(EnvRedisAddr)
	}
	if o.BoltPath == "" {
		o.BoltPath = os.Getenv(EnvBoltPath)
	}
	if o.Key == "" {
		o.Key = os.Getenv(EnvStoreKey)
	}
}
