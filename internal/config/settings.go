package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"todo/internal/kv"
)

// Settings are the tunables read from config.toml.
type Settings struct {
	Storage   StorageSettings   `toml:"storage"`
	Log       LogSettings       `toml:"log"`
	Export    ExportSettings    `toml:"export"`
	Serve     ServeSettings     `toml:"serve"`
	Celebrate CelebrateSettings `toml:"celebrate"`
}

// StorageSettings select the key-value backend.
type StorageSettings struct {
	Backend string `toml:"backend"` // memory, file, sqlite, mysql
	Path    string `toml:"path"`    // file or sqlite path; relative paths resolve against the config dir
	DSN     string `toml:"dsn"`     // mysql only
}

// LogSettings configure the stderr logger.
type LogSettings struct {
	Level  string `toml:"level"`  // debug, info, warn, error
	Format string `toml:"format"` // text, json, logfmt
}

// ExportSettings configure the Google Tasks export.
type ExportSettings struct {
	List string `toml:"list"`
}

// ServeSettings configure the HTTP surface.
type ServeSettings struct {
	Addr string `toml:"addr"`
}

// CelebrateSettings toggle the completion celebration.
type CelebrateSettings struct {
	Enabled bool `toml:"enabled"`
}

// DefaultSettings returns the settings used when config.toml is absent.
func DefaultSettings() Settings {
	return Settings{
		Storage:   StorageSettings{Backend: kv.BackendFile},
		Log:       LogSettings{Level: "warn", Format: "text"},
		Export:    ExportSettings{List: "Todo"},
		Serve:     ServeSettings{Addr: "127.0.0.1:8080"},
		Celebrate: CelebrateSettings{Enabled: true},
	}
}

// loadSettings applies config.toml (if present) and then the environment on
// top of the current settings.
func (c *Config) loadSettings() error {
	path := c.SettingsPath()
	if _, err := toml.DecodeFile(path, &c.Settings); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading %s: %w", path, err)
		}
	}
	c.loadFromEnv()
	return nil
}

// loadFromEnv overrides settings from TODO_* environment variables.
func (c *Config) loadFromEnv() {
	if v := os.Getenv("TODO_STORAGE_BACKEND"); v != "" {
		c.Settings.Storage.Backend = v
	}
	if v := os.Getenv("TODO_STORAGE_PATH"); v != "" {
		c.Settings.Storage.Path = v
	}
	if v := os.Getenv("TODO_STORAGE_DSN"); v != "" {
		c.Settings.Storage.DSN = v
	}
	if v := os.Getenv("TODO_LOG_LEVEL"); v != "" {
		c.Settings.Log.Level = v
	}
	if v := os.Getenv("TODO_SERVE_ADDR"); v != "" {
		c.Settings.Serve.Addr = v
	}
}

// StorageOptions resolves the storage settings into kv options.
func (c *Config) StorageOptions() kv.Options {
	s := c.Settings.Storage
	backend := strings.ToLower(strings.TrimSpace(s.Backend))
	opts := kv.Options{Backend: backend, DSN: s.DSN}

	switch backend {
	case "", kv.BackendFile:
		opts.Path = c.resolve(s.Path, StorageFile)
	case kv.BackendSQLite:
		opts.Path = c.resolve(s.Path, DatabaseFile)
	}
	return opts
}

func (c *Config) resolve(path, fallback string) string {
	if path == "" {
		return filepath.Join(c.Dir, fallback)
	}
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.Dir, path)
}
