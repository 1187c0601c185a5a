// Copyright (c) 2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package persistence

import (
	"errors"
	"fmt"

	"github.com/ffutop/inventory/internal/inventory/model"
)

// ErrNoData is wrapped by Load when nothing has been persisted yet.
var ErrNoData = errors.New("no persisted inventory")

// Storage defines the interface for persisting inventory records.
type Storage interface {
	// Load returns every persisted record.
	// If nothing was ever saved, the error wraps ErrNoData.
	// Unparseable content yields a *model.FormatError, failed reads a *PersistenceError.
	Load() ([]model.Record, error)

	// Save replaces the whole persisted state with records.
	// Failures are reported as *PersistenceError.
	Save(records []model.Record) error

	// Path names the backing location for messages and logs.
	Path() string

	Close() error
}

// Quarantiner is implemented by storages that can move unreadable data
// out of the way so a later Save does not overwrite it.
type Quarantiner interface {
	// Quarantine moves the current data aside and returns its new location.
	Quarantine() (string, error)
}

// Backend names accepted by New.
const (
	BackendFile   = "file"
	BackendMmap   = "mmap"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Options configures the JSON backends.
type Options struct {
	Keys   KeySet // key names written to the file; EnglishKeys when zero
	Indent int    // spaces per nesting level, 0 writes compact JSON
}

// New creates the storage for the named backend.
func New(backend, path string, opts Options) (Storage, error) {
	switch backend {
	case BackendFile, "":
		return NewFileStorage(path, opts), nil
	case BackendMmap:
		return NewMmapStorage(path, opts), nil
	case BackendSQLite:
		return NewSQLStorage("sqlite", path), nil
	case BackendMemory:
		return NewMemoryStorage(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}
