package main

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/donateshop/internal/factory"
)

func env(vars map[string]string) func(string) string {
	return func(key string) string { return vars[key] }
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig(env(nil))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "", cfg.Factory.StorageType)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.True(t, cfg.EnableLegacyRoutes)
	assert.Nil(t, cfg.CORSOrigins)
}

func TestLoadConfigOverrides(t *testing.T) {
	cfg, err := loadConfig(env(map[string]string{
		"PORT":                 "3000",
		"HOST":                 "127.0.0.1",
		"LOG_LEVEL":            "debug",
		"ENABLE_LEGACY_ROUTES": "false",
		"CORS_ORIGINS":         "https://a.example, https://b.example",
	}))
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.False(t, cfg.EnableLegacyRoutes)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
}

func TestLoadConfigStorageBackends(t *testing.T) {
	cfg, err := loadConfig(env(map[string]string{
		"STORAGE_TYPE": factory.StorageTypePostgres,
		"DATABASE_URL": "postgres://shop@db/donateshop",
		"DB_MAX_CONNS": "4",
	}))
	require.NoError(t, err)
	require.NotNil(t, cfg.Factory.PostgresConfig)
	assert.Equal(t, "postgres://shop@db/donateshop", cfg.Factory.PostgresConfig.URL)
	assert.Equal(t, int32(4), cfg.Factory.PostgresConfig.MaxConns)

	cfg, err = loadConfig(env(map[string]string{
		"STORAGE_TYPE": factory.StorageTypeRedis,
		"REDIS_URL":    "redis://cache:6379/0",
	}))
	require.NoError(t, err)
	require.NotNil(t, cfg.Factory.RedisConfig)
	assert.Equal(t, "redis://cache:6379/0", cfg.Factory.RedisConfig.URL)

	cfg, err = loadConfig(env(map[string]string{"STORAGE_TYPE": factory.StorageTypeSQLite}))
	require.NoError(t, err)
	assert.Equal(t, "donateshop.db", cfg.Factory.SQLitePath)
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		vars map[string]string
	}{
		{"bad port", map[string]string{"PORT": "http"}},
		{"bad log level", map[string]string{"LOG_LEVEL": "loud"}},
		{"bad legacy flag", map[string]string{"ENABLE_LEGACY_ROUTES": "maybe"}},
		{"redis without url", map[string]string{"STORAGE_TYPE": "redis"}},
		{"postgres without url", map[string]string{"STORAGE_TYPE": "postgres"}},
		{"bad pool size", map[string]string{"STORAGE_TYPE": "postgres", "DATABASE_URL": "postgres://db", "DB_MAX_CONNS": "0"}},
		{"production on memory", map[string]string{"APP_ENV": "production"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadConfig(env(tt.vars))
			assert.Error(t, err)
		})
	}
}
