package factory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/mcoot/donateshop/internal/dependencies/clock"
	"github.com/mcoot/donateshop/internal/metrics"
	"github.com/mcoot/donateshop/internal/services/player"
	"github.com/mcoot/donateshop/internal/storage"
	"github.com/mcoot/donateshop/internal/storage/memory"
	"github.com/mcoot/donateshop/internal/storage/postgres"
	redisstorage "github.com/mcoot/donateshop/internal/storage/redis"
	"github.com/mcoot/donateshop/internal/storage/sqlite"
)

// Storage type constants
const (
	StorageTypeMemory   = "memory"
	StorageTypeRedis    = "redis"
	StorageTypePostgres = "postgres"
	StorageTypeSQLite   = "sqlite"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock clock.Clock

	// Instrumentation
	Metrics *metrics.Metrics

	// Services
	PlayerService *player.Service
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory", "redis", "postgres" or "sqlite")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// PostgresConfig holds PostgreSQL settings (required if StorageType is "postgres")
	PostgresConfig *postgres.Config
	// SQLitePath is the database file (required if StorageType is "sqlite")
	SQLitePath string
}

// New creates a new application with all dependencies wired.
// The caller owns the returned App and must Close it.
func New(ctx context.Context, cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	store, err := newStorage(ctx, cfg)
	if err != nil {
		return nil, err
	}

	logger.Info("storage ready", slog.String("type", storageTypeOrDefault(cfg.StorageType)))

	return newWithDependencies(store, clock.New(), metrics.New(), logger), nil
}

func newStorage(ctx context.Context, cfg Config) (storage.Storage, error) {
	switch storageTypeOrDefault(cfg.StorageType) {
	case StorageTypeMemory:
		return memory.New(), nil
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		return redisstorage.New(*cfg.RedisConfig)
	case StorageTypePostgres:
		if cfg.PostgresConfig == nil {
			return nil, errors.New("PostgresConfig required when StorageType is postgres")
		}
		return postgres.New(ctx, *cfg.PostgresConfig)
	case StorageTypeSQLite:
		if cfg.SQLitePath == "" {
			return nil, errors.New("SQLitePath required when StorageType is sqlite")
		}
		return sqlite.New(cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("invalid StorageType %q: must be one of memory, redis, postgres, sqlite", cfg.StorageType)
	}
}

func storageTypeOrDefault(t string) string {
	if t == "" {
		return StorageTypeMemory
	}
	return t
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, m *metrics.Metrics, logger *slog.Logger) *App {
	return &App{
		Storage:       store,
		Clock:         clk,
		Metrics:       m,
		PlayerService: player.New(store, clk, m, logger),
	}
}

// Close releases the storage connection pool
func (a *App) Close() error {
	return a.Storage.Close()
}
