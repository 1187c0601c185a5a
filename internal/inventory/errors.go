// Copyright (c) 2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package inventory

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateKey matches every *DuplicateKeyError.
	ErrDuplicateKey = errors.New("inventory item already exists")
	// ErrNotFound matches every *NotFoundError.
	ErrNotFound = errors.New("inventory item not found")
)

// DuplicateKeyError is returned by Add when the id is taken.
type DuplicateKeyError struct {
	ID int64
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("item with id %d already exists", e.ID)
}

func (e *DuplicateKeyError) Is(target error) bool { return target == ErrDuplicateKey }

// NotFoundError is returned by Remove and Update for an unknown id.
type NotFoundError struct {
	ID int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no item with id %d", e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }
