package config

import (
	"os"
	"path/filepath"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(vars map[string]string) func(string) string {
	return func(key string) string { return vars[key] }
}

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv(env(nil))
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, "web/static", cfg.StaticDir)
	assert.Equal(t, "sqlite3", cfg.DBDriver)
	assert.Equal(t, "./cuatrola.db", cfg.DBDSN)
	assert.Equal(t, 20, cfg.CuatrolaTarget)
	assert.Equal(t, log.InfoLevel, cfg.LogLevel)
}

func TestFromEnvOverrides(t *testing.T) {
	cfg, err := FromEnv(env(map[string]string{
		"PORT":            "9000",
		"DB_DRIVER":       "pgx",
		"DB_DSN":          "postgres://cuatrola@localhost/cuatrola",
		"CUATROLA_TARGET": "30",
		"LOG_LEVEL":       "debug",
	}))
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "pgx", cfg.DBDriver)
	assert.Equal(t, 30, cfg.CuatrolaTarget)
	assert.Equal(t, log.DebugLevel, cfg.LogLevel)
}

func TestFromEnvErrors(t *testing.T) {
	tests := map[string]map[string]string{
		"unknown driver":  {"DB_DRIVER": "mysql"},
		"pgx without dsn": {"DB_DRIVER": "pgx"},
		"bad target":      {"CUATROLA_TARGET": "many"},
		"zero target":     {"CUATROLA_TARGET": "0"},
		"bad level":       {"LOG_LEVEL": "loud"},
	}
	for name, vars := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := FromEnv(env(vars))
			assert.Error(t, err)
		})
	}
}

func TestLoadReadsDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("CUATROLA_TARGET=25\n"), 0o600))
	t.Setenv("CUATROLA_TARGET", "")
	os.Unsetenv("CUATROLA_TARGET")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 25, cfg.CuatrolaTarget)

	_, err = Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.NoError(t, err)
}
