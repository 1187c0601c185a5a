// Copyright (c) 2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "inventory.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)
	assert.Equal(t, "file", cfg.Store.Backend)
	assert.Equal(t, "inventario.json", cfg.Store.Path)
	assert.Equal(t, "en", cfg.Store.Keys)
	assert.Equal(t, 4, cfg.Store.Indent)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestLoadConfig_File(t *testing.T) {
	path := writeConfig(t, `
store:
  backend: SQLite
  path: /var/lib/inventory/inventory.db
  keys: es
  indent: 2
log:
  level: debug
  format: json
`)
	cfg, err := LoadConfig(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Store.Backend)
	assert.Equal(t, "/var/lib/inventory/inventory.db", cfg.Store.Path)
	assert.Equal(t, "es", cfg.Store.Keys)
	assert.Equal(t, 2, cfg.Store.Indent)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadConfig_Precedence(t *testing.T) {
	path := writeConfig(t, `
store:
  path: from-file.json
  keys: es
log:
  level: warn
`)
	t.Setenv("INVENTORY_STORE_PATH", "from-env.json")
	t.Setenv("INVENTORY_LOG_LEVEL", "error")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("store", "", "")
	flags.String("log-level", "", "")
	flags.String("keys", "", "")
	require.NoError(t, flags.Parse([]string{"--store", "from-flag.json"}))

	cfg, err := LoadConfig(path, flags)
	require.NoError(t, err)
	assert.Equal(t, "from-flag.json", cfg.Store.Path, "a set flag beats env and file")
	assert.Equal(t, "error", cfg.Log.Level, "env beats file")
	assert.Equal(t, "es", cfg.Store.Keys, "an unset flag does not override the file")
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"Malformed", "store: [unclosed"},
		{"Unknown backend", "store:\n  backend: postgres\n"},
		{"Unknown keys", "store:\n  keys: fr\n"},
		{"Negative indent", "store:\n  indent: -1\n"},
		{"Unknown level", "log:\n  level: trace\n"},
		{"Unknown format", "log:\n  format: xml\n"},
		{"Empty path", "store:\n  path: \"\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.body), nil)
			assert.Error(t, err)
		})
	}
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	assert.Error(t, err)
}

func TestValidate_MemoryWithoutPath(t *testing.T) {
	cfg := &Config{Store: StoreConfig{Backend: "memory"}}
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_IgnoresInventoryDataFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", t.TempDir())
	data := `[{"id":1,"name":"Widget","quantity":10,"price":9.99}]`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "inventory.json"), []byte(data), 0o644))

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)
	assert.Equal(t, "inventario.json", cfg.Store.Path)
}

func TestLoadConfig_SearchPaths(t *testing.T) {
	dir := t.TempDir()
	home := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", home)

	require.NoError(t, os.MkdirAll(filepath.Join(home, ".inventory"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(home, ".inventory", "inventory.yml"), []byte("store:\n  path: from-home.json\n"), 0o644))
	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)
	assert.Equal(t, "from-home.json", cfg.Store.Path)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "inventory.yaml"), []byte("store:\n  path: from-cwd.json\n"), 0o644))
	cfg, err = LoadConfig("", nil)
	require.NoError(t, err)
	assert.Equal(t, "from-cwd.json", cfg.Store.Path, "the working directory wins over home")
}
