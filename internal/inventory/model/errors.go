// Copyright (c) 2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package model

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation matches every *ValidationError.
	ErrValidation = errors.New("invalid item field")
	// ErrFormat matches every *FormatError.
	ErrFormat = errors.New("malformed inventory record")
)

// ValidationError reports a field value that breaks an Item rule.
type ValidationError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %v: %s", e.Field, e.Value, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// FormatError reports persisted data that cannot be turned back into Items.
// Index is the position of the offending record, or -1 when the whole
// document is unreadable.
type FormatError struct {
	Index  int
	Field  string
	Reason string
	Err    error
}

func (e *FormatError) Error() string {
	var msg string
	switch {
	case e.Index < 0:
		msg = "malformed inventory data"
	case e.Field != "":
		msg = fmt.Sprintf("record %d: field %q", e.Index, e.Field)
	default:
		msg = fmt.Sprintf("record %d", e.Index)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FormatError) Unwrap() error { return e.Err }

func (e *FormatError) Is(target error) bool { return target == ErrFormat }
