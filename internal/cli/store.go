package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aretw0/mealy/pkg/adapters/bolt"
	"github.com/aretw0/mealy/pkg/adapters/file"
	"github.com/aretw0/mealy/pkg/adapters/memory"
	"github.com/aretw0/mealy/pkg/adapters/redis"
	"github.com/aretw0/mealy/pkg/persistence/middleware"
	"github.com/aretw0/mealy/pkg/ports"
)

const defaultBoltPath = ".mealy/runs.db"

// openStore builds the run store selected by opts, wrapped in the redaction
// and encryption middleware it asks for. The returned close function is never
// nil. Kind StoreNone yields a nil store.
func openStore(opts StoreOptions, logger *slog.Logger) (ports.RunStore, func() error, error) {
	mws, err := storeMiddleware(opts)
	if err != nil {
		return nil, func() error { return nil }, err
	}
	store, closeStore, err := openBackend(opts, logger)
	if err != nil || store == nil {
		return store, closeStore, err
	}
	if len(mws) > 0 {
		logger.Debug("Store middleware enabled", "redact", len(opts.Redact) > 0, "encrypted", opts.Key != "")
	}
	return middleware.Chain(store, mws...), closeStore, nil
}

func storeMiddleware(opts StoreOptions) ([]middleware.Middleware, error) {
	var mws []middleware.Middleware
	if len(opts.Redact) > 0 {
		if err := middleware.CompilePatterns(opts.Redact); err != nil {
			return nil, fmt.Errorf("invalid redact pattern: %w", err)
		}
		mws = append(mws, middleware.NewRedactMiddleware(opts.Redact))
	}
	if opts.Key != "" {
		key, err := middleware.ParseKey(opts.Key)
		if err != nil {
			return nil, fmt.Errorf("invalid store key: %w", err)
		}
		mws = append(mws, middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key}))
	}
	return mws, nil
}

func openBackend(opts StoreOptions, logger *slog.Logger) (ports.RunStore, func() error, error) {
	noop := func() error { return nil }

	switch opts.Kind {
	case StoreNone:
		return nil, noop, nil
	case StoreMemory:
		return memory.NewStore(), noop, nil
	case StoreFile:
		logger.Debug("Using file store", "path", opts.Path)
		return file.NewStore(opts.Path), noop, nil
	case StoreRedis:
		if opts.RedisAddr == "" {
			return nil, noop, fmt.Errorf("redis store requires --redis-addr or %s", EnvRedisAddr)
		}
		logger.Debug("Using redis store", "address", opts.RedisAddr)
		var redisOpts []redis.Option
		if opts.RedisTTL > 0 {
			redisOpts = append(redisOpts, redis.WithTTL(opts.RedisTTL))
		}
		store := redis.New(opts.RedisAddr, "", 0, redisOpts...)
		return store, store.Close, nil
	case StoreBolt:
		path := opts.BoltPath
		if path == "" {
			path = defaultBoltPath
		}
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, noop, fmt.Errorf("failed to create store directory: %w", err)
		}
		logger.Debug("Using bolt store", "path", path)
		store, err := bolt.Open(path)
		if err != nil {
			return nil, noop, fmt.Errorf("failed to open bolt store: %w", err)
		}
		return store, store.Close, nil
	default:
		return nil, noop, fmt.Errorf("unknown store %q (want memory, file, redis or bolt)", opts.Kind)
	}
}

// OpenStore opens the store selected by opts for the runs commands.
// Without a kind (flag or environment) it opens the file store.
func OpenStore(opts StoreOptions, debug bool) (ports.RunStore, func() error, error) {
	opts.FromEnv()
	if opts.Kind == StoreNone {
		opts.Kind = StoreFile
	}
	return openStore(opts, createLogger(debug))
}
