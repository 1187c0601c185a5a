// Copyright (c) 2025-2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment overrides, e.g. INVENTORY_STORE_PATH.
const EnvPrefix = "INVENTORY"

// Config defines the global configuration structure
type Config struct {
	Store StoreConfig `mapstructure:"store"`
	Log   LogConfig   `mapstructure:"log"`
}

// StoreConfig defines where and how the inventory is persisted
type StoreConfig struct {
	Backend string `mapstructure:"backend"` // "file", "mmap", "sqlite", "memory"
	Path    string `mapstructure:"path"`    // File path for "file/mmap/sqlite"
	Keys    string `mapstructure:"keys"`    // JSON field names: "en" or "es"
	Indent  int    `mapstructure:"indent"`  // JSON indent in spaces, 0 for compact
}

// LogConfig defines logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	File   string `mapstructure:"file"`   // Log file path
	Format string `mapstructure:"format"` // text, json
}

// Flag names bound to configuration keys. Only flags present in the
// FlagSet passed to LoadConfig are bound.
var flagKeys = map[string]string{
	"store":      "store.path",
	"backend":    "store.backend",
	"keys":       "store.keys",
	"indent":     "store.indent",
	"log-level":  "log.level",
	"log-file":   "log.file",
	"log-format": "log.format",
}

// searchDirs are the directories probed for a config file, in order.
var searchDirs = []string{".", "$HOME/.inventory", "/etc/inventory"}

// configNames lists the accepted config file names. Only YAML extensions
// are probed so the inventory data file (inventory.json) is never taken
// for configuration.
var configNames = []string{"inventory.yaml", "inventory.yml"}

// findConfigFile returns the first existing config file, or "".
func findConfigFile() string {
	for _, dir := range searchDirs {
		dir = os.ExpandEnv(dir)
		for _, name := range configNames {
			path := filepath.Join(dir, name)
			if fi, err := os.Stat(path); err == nil && fi.Mode().IsRegular() {
				return path
			}
		}
	}
	return ""
}

// LoadConfig loads configuration from file, environment and flags, in
// increasing order of precedence. flags may be nil.
func LoadConfig(configFile string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	if configFile == "" {
		configFile = findConfigFile()
	}
	if configFile != "" {
		v.SetConfigFile(configFile)
	}

	// Set defaults
	v.SetDefault("store.backend", "file")
	v.SetDefault("store.path", "inventario.json")
	v.SetDefault("store.keys", "en")
	v.SetDefault("store.indent", 4)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("log.format", "text")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag %q: %w", name, err)
				}
			}
		}
	}

	// Without a config file, configuration comes from defaults, env and flags.
	if configFile != "" {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Fixups
	config.Store.Backend = strings.ToLower(strings.TrimSpace(config.Store.Backend))
	config.Store.Keys = strings.ToLower(strings.TrimSpace(config.Store.Keys))
	config.Log.Level = strings.ToLower(strings.TrimSpace(config.Log.Level))
	config.Log.Format = strings.ToLower(strings.TrimSpace(config.Log.Format))

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case "file", "mmap", "sqlite", "memory":
	default:
		return fmt.Errorf("invalid store.backend %q: want file, mmap, sqlite or memory", c.Store.Backend)
	}
	if c.Store.Backend != "memory" && c.Store.Path == "" {
		return errors.New("store.path must not be empty")
	}
	switch c.Store.Keys {
	case "", "en", "es":
	default:
		return fmt.Errorf("invalid store.keys %q: want en or es", c.Store.Keys)
	}
	if c.Store.Indent < 0 {
		return fmt.Errorf("invalid store.indent %d: must not be negative", c.Store.Indent)
	}
	switch c.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log.level %q", c.Log.Level)
	}
	switch c.Log.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("invalid log.format %q: want text or json", c.Log.Format)
	}
	return nil
}
