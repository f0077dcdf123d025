package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// Config holds the server settings read from the environment.
type Config struct {
	Port           string
	StaticDir      string
	DBDriver       string // "sqlite3" or "pgx"
	DBDSN          string
	CuatrolaTarget int
	LogLevel       log.Level
}

// Load reads the given .env files, if present, into the environment and then builds
// the configuration from it. Variables already set are not overridden.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds the configuration from getenv, falling back to defaults.
func FromEnv(getenv func(string) string) (Config, error) {
	cfg := Config{
		Port:           getenv("PORT"),
		StaticDir:      getenv("STATIC_DIR"),
		DBDriver:       getenv("DB_DRIVER"),
		DBDSN:          getenv("DB_DSN"),
		CuatrolaTarget: 20,
		LogLevel:       log.InfoLevel,
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.StaticDir == "" {
		cfg.StaticDir = "web/static"
	}
	if cfg.DBDriver == "" {
		cfg.DBDriver = "sqlite3"
	}
	if cfg.DBDriver != "sqlite3" && cfg.DBDriver != "pgx" {
		return Config{}, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
	if cfg.DBDSN == "" && cfg.DBDriver == "sqlite3" {
		cfg.DBDSN = "./cuatrola.db"
	}
	if cfg.DBDSN == "" {
		return Config{}, errors.New("DB_DSN is required for the pgx driver")
	}

	if v := getenv("CUATROLA_TARGET"); v != "" {
		target, err := strconv.Atoi(v)
		if err != nil || target <= 0 {
			return Config{}, fmt.Errorf("invalid CUATROLA_TARGET %q", v)
		}
		cfg.CuatrolaTarget = target
	}
	if v := getenv("LOG_LEVEL"); v != "" {
		level, err := log.ParseLevel(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid LOG_LEVEL: %w", err)
		}
		cfg.LogLevel = level
	}
	return cfg, nil
}

// Addr is the listen address of the HTTP server.
func (c Config) Addr() string { return ":" + c.Port }

// ConfigureLogging applies the log level and format to the standard logger.
func (c Config) ConfigureLogging() {
	log.SetLevel(c.LogLevel)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
}
