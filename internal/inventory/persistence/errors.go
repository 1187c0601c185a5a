// Copyright (c) 2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package persistence

import (
	"errors"
	"fmt"
	"io/fs"
)

// ErrPersistence matches every *PersistenceError.
var ErrPersistence = errors.New("inventory persistence failed")

// FailureKind separates permission problems from other I/O failures.
type FailureKind int

const (
	IOFailure FailureKind = iota
	PermissionDenied
)

func (k FailureKind) String() string {
	if k == PermissionDenied {
		return "permission denied"
	}
	return "i/o failure"
}

// PersistenceError reports a read or write that could not complete.
type PersistenceError struct {
	Op   string // "read" or "write"
	Path string
	Kind FailureKind
	Err  error
}

func newPersistenceError(op, path string, err error) *PersistenceError {
	kind := IOFailure
	if errors.Is(err, fs.ErrPermission) {
		kind = PermissionDenied
	}
	return &PersistenceError{Op: op, Path: path, Kind: kind, Err: err}
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to %s %s (%s): %v", e.Op, e.Path, e.Kind, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func (e *PersistenceError) Is(target error) bool { return target == ErrPersistence }
