// Copyright (c) 2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

// Package inventory implements the id-keyed inventory store.
// Every successful mutation is followed by a full save through the
// configured persistence.Storage. A failed save never rolls the
// in-memory change back: memory wins and disk may lag until the next
// successful save.
package inventory

import (
	"errors"
	"log/slog"
	"maps"
	"slices"
	"strings"
	"sync"

	"golang.org/x/text/cases"

	"github.com/ffutop/inventory/internal/inventory/model"
	"github.com/ffutop/inventory/internal/inventory/persistence"
)

// LoadStatus tells the caller what Load found.
type LoadStatus int

const (
	LoadOK         LoadStatus = iota
	LoadNoFile                // nothing persisted yet, not an error
	LoadCorrupt               // content could not be decoded; Err is a *model.FormatError
	LoadUnreadable            // the read itself failed; Err is usually a *persistence.PersistenceError
)

func (s LoadStatus) String() string {
	switch s {
	case LoadOK:
		return "loaded"
	case LoadNoFile:
		return "no prior file"
	case LoadCorrupt:
		return "corrupt"
	case LoadUnreadable:
		return "unreadable"
	default:
		return "unknown"
	}
}

// LoadReport describes the outcome of a Load.
// For every status other than LoadOK the store is empty.
type LoadReport struct {
	Status        LoadStatus
	Path          string
	Items         int
	Err           error
	QuarantinedTo string // where unreadable content was moved, if anywhere
}

// Changes lists the fields to modify in Update. Nil fields are left alone.
type Changes struct {
	Name     *string
	Quantity *int
	Price    *float64
}

func (c Changes) empty() bool {
	return c.Name == nil && c.Quantity == nil && c.Price == nil
}

// Store is the authoritative collection of Items.
type Store struct {
	mu      sync.RWMutex
	items   map[int64]*model.Item
	storage persistence.Storage
	logger  *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for load and persistence events.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// Open creates a Store on top of storage and loads it immediately.
// The store is usable whatever the report says.
func Open(storage persistence.Storage, opts ...Option) (*Store, LoadReport) {
	s := &Store{
		items:   make(map[int64]*model.Item),
		storage: storage,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, s.Load()
}

// Load replaces the in-memory state with the persisted one.
// It never fails: problems are described in the report and leave the
// store empty.
func (s *Store) Load() LoadReport {
	s.mu.Lock()
	defer s.mu.Unlock()

	report := LoadReport{Path: s.storage.Path()}
	s.items = make(map[int64]*model.Item)

	recs, err := s.storage.Load()
	var items []*model.Item
	if err == nil {
		items, err = model.FromRecords(recs)
	}

	switch {
	case err == nil:
		for _, it := range items {
			s.items[it.ID()] = it
		}
		report.Status = LoadOK
		report.Items = len(items)
		s.logger.Info("Inventory loaded", "path", report.Path, "items", report.Items)
	case errors.Is(err, persistence.ErrNoData):
		report.Status = LoadNoFile
		s.logger.Info("No prior inventory found, starting empty", "path", report.Path)
	case errors.Is(err, model.ErrFormat):
		report.Status = LoadCorrupt
		report.Err = err
		s.logger.Warn("Inventory data is corrupt, starting empty", "path", report.Path, "err", err)
		if q, ok := s.storage.(persistence.Quarantiner); ok {
			to, qerr := q.Quarantine()
			if qerr != nil {
				s.logger.Error("Failed to move corrupt inventory aside", "path", report.Path, "err", qerr)
			} else {
				report.QuarantinedTo = to
			}
		}
	default:
		report.Status = LoadUnreadable
		report.Err = err
		s.logger.Warn("Inventory could not be read, starting empty", "path", report.Path, "err", err)
	}
	return report
}

// Save writes every item, ascending by id, through the storage.
func (s *Store) Save() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.save()
}

func (s *Store) save() error {
	recs := make([]model.Record, 0, len(s.items))
	for _, id := range s.sortedIDs() {
		recs = append(recs, s.items[id].Record())
	}
	if err := s.storage.Save(recs); err != nil {
		s.logger.Warn("Failed to save inventory, changes kept in memory only", "path", s.storage.Path(), "err", err)
		return err
	}
	s.logger.Debug("Inventory saved", "path", s.storage.Path(), "items", len(recs))
	return nil
}

// Add inserts a copy of item and saves.
// A *DuplicateKeyError leaves the store untouched. A save failure is
// returned but the item stays in memory.
func (s *Store) Add(item *model.Item) error {
	if item == nil {
		return errors.New("inventory: nil item")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[item.ID()]; ok {
		return &DuplicateKeyError{ID: item.ID()}
	}
	s.items[item.ID()] = item.Clone()
	s.logger.Debug("Item added", "id", item.ID(), "name", item.Name())
	return s.save()
}

// Remove deletes the item with id and saves.
func (s *Store) Remove(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		return &NotFoundError{ID: id}
	}
	delete(s.items, id)
	s.logger.Debug("Item removed", "id", id)
	return s.save()
}

// Update applies the non-nil fields of c to the item with id and saves.
// If any field is invalid the item is left exactly as it was.
func (s *Store) Update(id int64, c Changes) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.items[id]
	if !ok {
		return &NotFoundError{ID: id}
	}
	if c.empty() {
		return nil
	}

	next := cur.Clone()
	if c.Name != nil {
		if err := next.SetName(*c.Name); err != nil {
			return err
		}
	}
	if c.Quantity != nil {
		if err := next.SetQuantity(*c.Quantity); err != nil {
			return err
		}
	}
	if c.Price != nil {
		if err := next.SetPrice(*c.Price); err != nil {
			return err
		}
	}
	s.items[id] = next
	s.logger.Debug("Item updated", "id", id)
	return s.save()
}

// Get returns a copy of the item with id.
func (s *Store) Get(id int64) (model.Item, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	it, ok := s.items[id]
	if !ok {
		return model.Item{}, false
	}
	return *it, true
}

// FindByName returns the items whose name contains substr, ignoring case.
// Matching uses Unicode case folding. Results are ordered by id.
func (s *Store) FindByName(substr string) []model.Item {
	fold := cases.Fold()
	needle := fold.String(substr)

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []model.Item{}
	for _, id := range s.sortedIDs() {
		it := s.items[id]
		if strings.Contains(fold.String(it.Name()), needle) {
			out = append(out, *it)
		}
	}
	return out
}

// ListAll returns every item ordered by id.
func (s *Store) ListAll() []model.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Item, 0, len(s.items))
	for _, id := range s.sortedIDs() {
		out = append(out, *s.items[id])
	}
	return out
}

// Len returns the number of items.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Path names the backing storage.
func (s *Store) Path() string { return s.storage.Path() }

// Close releases the storage.
func (s *Store) Close() error { return s.storage.Close() }

func (s *Store) sortedIDs() []int64 {
	return slices.Sorted(maps.Keys(s.items))
}
