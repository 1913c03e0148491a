package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/mcoot/donateshop/internal/api"
	"github.com/mcoot/donateshop/internal/factory"
	"github.com/mcoot/donateshop/internal/storage/postgres"
	redisstorage "github.com/mcoot/donateshop/internal/storage/redis"
)

// config is everything the server reads from its environment
type config struct {
	Factory            factory.Config
	Server             api.ServerConfig
	LogLevel           slog.Level
	EnableLegacyRoutes bool
	CORSOrigins        []string
}

// loadConfig builds the server config from environment lookups
func loadConfig(getenv func(string) string) (config, error) {
	cfg := config{
		Factory: factory.Config{
			StorageType: getenv("STORAGE_TYPE"),
		},
		Server:             api.DefaultServerConfig(),
		EnableLegacyRoutes: true,
	}

	if v := getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil || port < 0 || port > 65535 {
			return cfg, fmt.Errorf("invalid PORT %q", v)
		}
		cfg.Server.Port = port
	}
	cfg.Server.Host = getenv("HOST")

	if v := getenv("LOG_LEVEL"); v != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(v)); err != nil {
			return cfg, fmt.Errorf("invalid LOG_LEVEL %q", v)
		}
	}

	if v := getenv("ENABLE_LEGACY_ROUTES"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid ENABLE_LEGACY_ROUTES %q", v)
		}
		cfg.EnableLegacyRoutes = enabled
	}

	if v := getenv("CORS_ORIGINS"); v != "" && v != "*" {
		for _, origin := range strings.Split(v, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				cfg.CORSOrigins = append(cfg.CORSOrigins, origin)
			}
		}
	}

	switch cfg.Factory.StorageType {
	case factory.StorageTypeRedis:
		redisURL := getenv("REDIS_URL")
		if redisURL == "" {
			return cfg, errors.New("REDIS_URL required when STORAGE_TYPE=redis")
		}
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = redisURL
		cfg.Factory.RedisConfig = &redisCfg
	case factory.StorageTypePostgres:
		databaseURL := getenv("DATABASE_URL")
		if databaseURL == "" {
			return cfg, errors.New("DATABASE_URL required when STORAGE_TYPE=postgres")
		}
		pgCfg := postgres.DefaultConfig()
		pgCfg.URL = databaseURL
		if v := getenv("DB_MAX_CONNS"); v != "" {
			n, err := strconv.ParseInt(v, 10, 32)
			if err != nil || n < 1 {
				return cfg, fmt.Errorf("invalid DB_MAX_CONNS %q", v)
			}
			pgCfg.MaxConns = int32(n)
			pgCfg.MinConns = min(pgCfg.MinConns, pgCfg.MaxConns)
		}
		cfg.Factory.PostgresConfig = &pgCfg
	case factory.StorageTypeSQLite:
		cfg.Factory.SQLitePath = getenv("SQLITE_PATH")
		if cfg.Factory.SQLitePath == "" {
			cfg.Factory.SQLitePath = "donateshop.db"
		}
	}

	if getenv("APP_ENV") == "production" {
		switch cfg.Factory.StorageType {
		case "", factory.StorageTypeMemory:
			return cfg, errors.New("APP_ENV=production requires a persistent STORAGE_TYPE")
		}
	}

	return cfg, nil
}
