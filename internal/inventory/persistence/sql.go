// Copyright (c) 2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package persistence

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/ffutop/inventory/internal/inventory/model"
)

// SQLStorage persists the inventory in a SQL table.
// It assumes a table `inventory_items` exists (or creates it).
// The default driver is the pure Go "sqlite" driver; dsn is then the
// database file path.
type SQLStorage struct {
	driver string
	dsn    string
	db     *sql.DB
}

// NewSQLStorage creates a new SQLStorage.
func NewSQLStorage(driver, dsn string) *SQLStorage {
	return &SQLStorage{
		driver: driver,
		dsn:    dsn,
	}
}

func (s *SQLStorage) Path() string { return s.dsn }

func (s *SQLStorage) open() error {
	if s.db != nil {
		return nil
	}
	db, err := sql.Open(s.driver, s.dsn)
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	if err := initSchema(db); err != nil {
		db.Close()
		return fmt.Errorf("failed to init schema: %w", err)
	}
	s.db = db
	return nil
}

func initSchema(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS inventory_items (
		id INTEGER PRIMARY KEY,
		name TEXT,
		quantity INTEGER,
		price REAL
	);
	`
	_, err := db.Exec(query)
	return err
}

// Load reads every row. A database file that does not exist yet is
// reported as ErrNoData and is not created.
func (s *SQLStorage) Load() ([]model.Record, error) {
	if s.driver == "sqlite" {
		if _, err := os.Stat(s.dsn); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("%s: %w", s.dsn, ErrNoData)
			}
			return nil, newPersistenceError("read", s.dsn, err)
		}
	}
	if err := s.open(); err != nil {
		return nil, s.readError(err)
	}

	rows, err := s.db.Query("SELECT id, name, quantity, price FROM inventory_items ORDER BY id")
	if err != nil {
		return nil, s.readError(fmt.Errorf("failed to query items: %w", err))
	}
	defer rows.Close()

	var records []model.Record
	for rows.Next() {
		var id, name, qty, price any
		if err := rows.Scan(&id, &name, &qty, &price); err != nil {
			return nil, s.readError(err)
		}
		rec := model.Record{}
		set(rec, model.FieldID, id)
		set(rec, model.FieldName, name)
		set(rec, model.FieldQuantity, qty)
		set(rec, model.FieldPrice, price)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, s.readError(err)
	}
	return records, nil
}

// set stores a scanned column, leaving NULLs out so they read as missing.
func set(rec model.Record, field string, v any) {
	switch x := v.(type) {
	case nil:
	case []byte:
		rec[field] = string(x)
	default:
		rec[field] = x
	}
}

// readError tells a file that is not a database apart from I/O trouble.
func (s *SQLStorage) readError(err error) error {
	if strings.Contains(err.Error(), "not a database") {
		return &model.FormatError{Index: -1, Reason: "not a sqlite database", Err: err}
	}
	return newPersistenceError("read", s.dsn, err)
}

// Save replaces the table contents inside one transaction.
func (s *SQLStorage) Save(records []model.Record) error {
	if err := s.open(); err != nil {
		return newPersistenceError("write", s.dsn, err)
	}
	if err := s.replaceAll(records); err != nil {
		return newPersistenceError("write", s.dsn, err)
	}
	return nil
}

func (s *SQLStorage) replaceAll(records []model.Record) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM inventory_items"); err != nil {
		return err
	}
	stmt, err := tx.Prepare("INSERT INTO inventory_items (id, name, quantity, price) VALUES (?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, rec := range records {
		if _, err := stmt.Exec(rec[model.FieldID], rec[model.FieldName], rec[model.FieldQuantity], rec[model.FieldPrice]); err != nil {
			return fmt.Errorf("failed to insert item %v: %w", rec[model.FieldID], err)
		}
	}
	return tx.Commit()
}

// Quarantine closes the database and renames its file.
func (s *SQLStorage) Quarantine() (string, error) {
	if err := s.Close(); err != nil {
		return "", err
	}
	return quarantineFile(s.dsn)
}

func (s *SQLStorage) Close() error {
	if s.db != nil {
		err := s.db.Close()
		s.db = nil
		return err
	}
	return nil
}
