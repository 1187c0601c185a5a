// Copyright (c) 2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package persistence

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/edsrzf/mmap-go"

	"github.com/ffutop/inventory/internal/inventory/model"
)

// MmapStorage stores the same JSON document as FileStorage but goes
// through memory-mapped I/O.
// Load maps the file read-only; Save resizes the file to the encoded
// length, maps it read-write, copies the document in and flushes.
// Unlike FileStorage the overwrite happens in place.
type MmapStorage struct {
	path string
	opts Options
}

// NewMmapStorage creates a new MmapStorage.
func NewMmapStorage(path string, opts Options) *MmapStorage {
	if opts.Keys.isZero() {
		opts.Keys = EnglishKeys
	}
	return &MmapStorage{path: path, opts: opts}
}

func (ms *MmapStorage) Path() string { return ms.path }

// Load decodes the document straight from the mapping.
func (ms *MmapStorage) Load() ([]model.Record, error) {
	f, err := os.Open(ms.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", ms.path, ErrNoData)
		}
		return nil, newPersistenceError("read", ms.path, err)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, newPersistenceError("read", ms.path, err)
	}
	if fi.IsDir() {
		return nil, newPersistenceError("read", ms.path, fmt.Errorf("is a directory"))
	}
	if fi.Size() == 0 {
		// Zero-length files cannot be mapped.
		return decodeRecords(nil)
	}

	data, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return nil, newPersistenceError("read", ms.path, fmt.Errorf("mmap failed: %w", err))
	}
	defer data.Unmap()

	return decodeRecords(data)
}

// Save writes the encoded document through a read-write mapping.
func (ms *MmapStorage) Save(records []model.Record) error {
	doc, err := encodeRecords(records, ms.opts.Keys, ms.opts.Indent)
	if err != nil {
		return newPersistenceError("write", ms.path, err)
	}
	if err := ms.write(doc); err != nil {
		return newPersistenceError("write", ms.path, err)
	}
	return nil
}

func (ms *MmapStorage) write(doc []byte) error {
	if dir := filepath.Dir(ms.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	f, err := os.OpenFile(ms.path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open mmap file: %w", err)
	}
	defer f.Close()

	if err := f.Truncate(int64(len(doc))); err != nil {
		return fmt.Errorf("failed to resize mmap file: %w", err)
	}

	data, err := mmap.Map(f, mmap.RDWR, 0)
	if err != nil {
		return fmt.Errorf("mmap failed: %w", err)
	}
	copy(data, doc)
	if err := data.Flush(); err != nil {
		data.Unmap()
		return fmt.Errorf("failed to flush mmap: %w", err)
	}
	if err := data.Unmap(); err != nil {
		return fmt.Errorf("failed to unmap: %w", err)
	}
	return f.Close()
}

// Quarantine renames the current file so it survives the next Save.
func (ms *MmapStorage) Quarantine() (string, error) {
	return quarantineFile(ms.path)
}

func (ms *MmapStorage) Close() error { return nil }
