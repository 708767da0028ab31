// Package where resolves the application's filesystem locations.
package where

import (
	"os"
	"path/filepath"

	"github.com/samber/lo"
	"github.com/streamdex/streamdex/constant"
	"github.com/streamdex/streamdex/filesystem"
)

// EnvConfigPath overrides the default configuration directory.
const EnvConfigPath = "STREAMDEX_CONFIG_PATH"

func ensureDir(path string) string {
	lo.Must0(filesystem.API().MkdirAll(path, os.ModePerm))
	return path
}

// Config resolves the configuration directory, honoring STREAMDEX_CONFIG_PATH.
func Config() string {
	if custom, ok := os.LookupEnv(EnvConfigPath); ok {
		return ensureDir(custom)
	}

	base := lo.Must(os.UserConfigDir())
	return ensureDir(filepath.Join(base, constant.Streamdex))
}

// Cache resolves the persistent cache directory.
func Cache() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = filepath.Join(".", "cache")
	}
	return ensureDir(filepath.Join(base, constant.Streamdex))
}

// Logs resolves the directory for daily log files.
func Logs() string {
	return ensureDir(filepath.Join(Config(), "logs"))
}

// Providers resolves the directory holding Lua provider scripts.
func Providers() string {
	return ensureDir(filepath.Join(Config(), "providers"))
}

// Store resolves the directory used by the file-backed key-value store.
func Store() string {
	return ensureDir(filepath.Join(Cache(), "store"))
}

// Scrapes resolves the directory for persisted scrape results.
func Scrapes() string {
	return ensureDir(filepath.Join(Cache(), "scrapes"))
}

// SQLite resolves the default database file of the sqlite store backend.
func SQLite() string {
	return filepath.Join(Cache(), "catalog.db")
}

// History resolves the watch history file.
func History() string {
	return filepath.Join(Config(), "history.json")
}

// Queries resolves the search query suggestion registry.
func Queries() string {
	return filepath.Join(Cache(), "queries.json")
}
