// Copyright (c) 2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

// Canonical record keys.
const (
	FieldID       = "id"
	FieldName     = "name"
	FieldQuantity = "quantity"
	FieldPrice    = "price"
)

// aliases lists the alternative keys accepted on read, in lookup order.
// The Spanish names are accepted for files written by older versions of the tool.
var aliases = map[string][]string{
	FieldName:     {"nombre"},
	FieldQuantity: {"cantidad"},
	FieldPrice:    {"precio"},
}

// Record is the structural form of an Item as it is persisted.
// Values are whatever the decoder produced: json.Number, float64, int,
// int64 or string.
type Record map[string]any

// Record serializes the item using the canonical keys.
func (it Item) Record() Record {
	return Record{
		FieldID:       it.id,
		FieldName:     it.name,
		FieldQuantity: it.quantity,
		FieldPrice:    it.price,
	}
}

// FromRecord rebuilds an Item from a persisted record.
// Missing or mistyped fields, and values an Item would reject, yield a
// *FormatError. Unknown keys are ignored.
func FromRecord(rec Record) (*Item, error) {
	id, err := intField(rec, FieldID)
	if err != nil {
		return nil, err
	}
	name, err := stringField(rec, FieldName)
	if err != nil {
		return nil, err
	}
	qty, err := intField(rec, FieldQuantity)
	if err != nil {
		return nil, err
	}
	if int64(int(qty)) != qty {
		return nil, &FormatError{Field: FieldQuantity, Reason: "out of range"}
	}
	price, err := floatField(rec, FieldPrice)
	if err != nil {
		return nil, err
	}

	it, err := NewItem(id, name, int(qty), price)
	if err != nil {
		var ve *ValidationError
		field := ""
		if errors.As(err, &ve) {
			field = ve.Field
		}
		return nil, &FormatError{Field: field, Reason: "invalid value", Err: err}
	}
	return it, nil
}

// FromRecords rebuilds every record, stopping at the first failure.
// Duplicate ids are reported as a format error since the store could not
// hold both.
func FromRecords(recs []Record) ([]*Item, error) {
	items := make([]*Item, 0, len(recs))
	seen := make(map[int64]int, len(recs))
	for i, rec := range recs {
		it, err := FromRecord(rec)
		if err != nil {
			var fe *FormatError
			if errors.As(err, &fe) {
				fe.Index = i
			}
			return nil, err
		}
		if first, dup := seen[it.ID()]; dup {
			return nil, &FormatError{
				Index:  i,
				Field:  FieldID,
				Reason: fmt.Sprintf("duplicate id %d (first seen in record %d)", it.ID(), first),
			}
		}
		seen[it.ID()] = i
		items = append(items, it)
	}
	return items, nil
}

func lookup(rec Record, field string) (any, bool) {
	if v, ok := rec[field]; ok {
		return v, true
	}
	for _, alt := range aliases[field] {
		if v, ok := rec[alt]; ok {
			return v, true
		}
	}
	return nil, false
}

func intField(rec Record, field string) (int64, error) {
	v, ok := lookup(rec, field)
	if !ok {
		return 0, &FormatError{Field: field, Reason: "missing"}
	}
	switch n := v.(type) {
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, nil
		}
		f, err := n.Float64()
		if err != nil {
			return 0, &FormatError{Field: field, Reason: "not a number", Err: err}
		}
		return integral(field, f)
	case int:
		return int64(n), nil
	case int64:
		return n, nil
	case float64:
		return integral(field, n)
	default:
		return 0, &FormatError{Field: field, Reason: fmt.Sprintf("want integer, got %T", v)}
	}
}

func integral(field string, f float64) (int64, error) {
	if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, &FormatError{Field: field, Reason: fmt.Sprintf("want integer, got %v", f)}
	}
	return int64(f), nil
}

func floatField(rec Record, field string) (float64, error) {
	v, ok := lookup(rec, field)
	if !ok {
		return 0, &FormatError{Field: field, Reason: "missing"}
	}
	switch n := v.(type) {
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, &FormatError{Field: field, Reason: "not a number", Err: err}
		}
		return f, nil
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	default:
		return 0, &FormatError{Field: field, Reason: fmt.Sprintf("want number, got %T", v)}
	}
}

func stringField(rec Record, field string) (string, error) {
	v, ok := lookup(rec, field)
	if !ok {
		return "", &FormatError{Field: field, Reason: "missing"}
	}
	s, ok := v.(string)
	if !ok {
		return "", &FormatError{Field: field, Reason: fmt.Sprintf("want string, got %T", v)}
	}
	return s, nil
}
