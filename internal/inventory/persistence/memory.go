// Copyright (c) 2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package persistence

import (
	"fmt"
	"maps"

	"github.com/ffutop/inventory/internal/inventory/model"
)

// MemoryStorage is a non-persistent storage.
// It keeps a copy of the last saved records for the life of the process.
type MemoryStorage struct {
	records []model.Record
	saved   bool
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

func (ms *MemoryStorage) Path() string { return ":memory:" }

func (ms *MemoryStorage) Load() ([]model.Record, error) {
	if !ms.saved {
		return nil, fmt.Errorf("%s: %w", ms.Path(), ErrNoData)
	}
	return cloneRecords(ms.records), nil
}

func (ms *MemoryStorage) Save(records []model.Record) error {
	ms.records = cloneRecords(records)
	ms.saved = true
	return nil
}

func (ms *MemoryStorage) Close() error { return nil }

func cloneRecords(src []model.Record) []model.Record {
	out := make([]model.Record, len(src))
	for i, rec := range src {
		out[i] = maps.Clone(rec)
	}
	return out
}
