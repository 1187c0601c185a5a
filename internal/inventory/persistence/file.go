// Copyright (c) 2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package persistence

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ffutop/inventory/internal/inventory/model"
)

// FileStorage keeps the inventory as a JSON array in a single file.
// Every Save overwrites the whole file: data goes to a temporary file
// next to the target, is synced, then renamed over it.
type FileStorage struct {
	path string
	opts Options
}

// NewFileStorage creates a new FileStorage.
func NewFileStorage(path string, opts Options) *FileStorage {
	if opts.Keys.isZero() {
		opts.Keys = EnglishKeys
	}
	return &FileStorage{path: path, opts: opts}
}

func (s *FileStorage) Path() string { return s.path }

// Load reads and decodes the file.
func (s *FileStorage) Load() ([]model.Record, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", s.path, ErrNoData)
		}
		return nil, newPersistenceError("read", s.path, err)
	}
	return decodeRecords(data)
}

// Save encodes records and replaces the file.
func (s *FileStorage) Save(records []model.Record) error {
	data, err := encodeRecords(records, s.opts.Keys, s.opts.Indent)
	if err != nil {
		return newPersistenceError("write", s.path, err)
	}
	if err := writeFileAtomic(s.path, data); err != nil {
		return newPersistenceError("write", s.path, err)
	}
	return nil
}

// Quarantine renames the current file so it survives the next Save.
func (s *FileStorage) Quarantine() (string, error) {
	return quarantineFile(s.path)
}

func (s *FileStorage) Close() error { return nil }

// writeFileAtomic replaces the file behind path with data. Symlinks are
// followed so the link survives, an existing file keeps its permission
// bits, and a file the caller may not write is rejected before anything
// is replaced.
func writeFileAtomic(path string, data []byte) error {
	target, err := resolveTarget(path)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(target); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	mode := fs.FileMode(0o644)
	if fi, err := os.Stat(target); err == nil {
		mode = fi.Mode().Perm()
		f, err := os.OpenFile(target, os.O_WRONLY, 0)
		if err != nil {
			return err
		}
		f.Close()
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	tmp := target + ".tmp"
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	if err := f.Chmod(mode); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("failed to sync file to disk: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, target); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}

// resolveTarget follows symlinks in path. A dangling link resolves to the
// file it names, which the next save creates.
func resolveTarget(path string) (string, error) {
	resolved, err := filepath.EvalSymlinks(path)
	if err == nil {
		return resolved, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return "", err
	}
	link, lerr := os.Readlink(path)
	if lerr != nil {
		return path, nil
	}
	if !filepath.IsAbs(link) {
		link = filepath.Join(filepath.Dir(path), link)
	}
	return link, nil
}

// quarantineFile moves path to the first free "<path>.corrupt[.N]" name.
func quarantineFile(path string) (string, error) {
	target := path + ".corrupt"
	for i := 1; ; i++ {
		if _, err := os.Lstat(target); errors.Is(err, fs.ErrNotExist) {
			break
		}
		if i > 99 {
			return "", fmt.Errorf("no free quarantine name for %s", path)
		}
		target = fmt.Sprintf("%s.corrupt.%d", path, i)
	}
	if err := os.Rename(path, target); err != nil {
		return "", fmt.Errorf("failed to quarantine %s: %w", path, err)
	}
	slog.Warn("Moved unreadable inventory file aside", "path", path, "to", target)
	return target, nil
}
