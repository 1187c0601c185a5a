// Copyright (c) 2025-2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package main

import (
	"github.com/spf13/pflag"
)

// cliFlags holds the persistent flags. Everything except the config file
// path is read back through viper, so unset flags fall through to env,
// the config file and the defaults.
type cliFlags struct {
	configFile string
}

func (f *cliFlags) register(fs *pflag.FlagSet) {
	fs.StringVarP(&f.configFile, "config", "c", "", "Configuration file path.")
	fs.StringP("store", "s", "", "Inventory file path (default inventario.json).")
	fs.StringP("backend", "b", "", "Storage backend (file, mmap, sqlite, memory).")
	fs.String("keys", "", "JSON field names (en, es).")
	fs.Int("indent", 4, "JSON indent in spaces, 0 for compact output.")
	fs.StringP("log-level", "v", "", "Log verbosity level (debug, info, warn, error).")
	fs.StringP("log-file", "L", "", "Log file name ('-' for logging to STDERR only).")
	fs.String("log-format", "", "Log format (text, json).")
}
