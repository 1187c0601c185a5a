// Copyright (c) 2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package model

import (
	"fmt"
	"math"
	"strings"
)

// Item is a single validated inventory record.
// The id is fixed at construction; name, quantity and price change only
// through the setters, which reject invalid values and keep the old ones.
type Item struct {
	id       int64
	name     string
	quantity int
	price    float64
}

// NewItem validates the fields and returns a new Item.
// The name is trimmed and the price is rounded to 2 decimal places.
func NewItem(id int64, name string, quantity int, price float64) (*Item, error) {
	it := &Item{id: id}
	if err := it.SetName(name); err != nil {
		return nil, err
	}
	if err := it.SetQuantity(quantity); err != nil {
		return nil, err
	}
	if err := it.SetPrice(price); err != nil {
		return nil, err
	}
	return it, nil
}

func (it Item) ID() int64      { return it.id }
func (it Item) Name() string   { return it.name }
func (it Item) Quantity() int  { return it.quantity }
func (it Item) Price() float64 { return it.price }

// Equal reports whether both items hold the same values.
func (it Item) Equal(other Item) bool { return it == other }

// SetName replaces the name with its trimmed form.
func (it *Item) SetName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return &ValidationError{Field: FieldName, Value: name, Reason: "must not be empty"}
	}
	it.name = trimmed
	return nil
}

// SetQuantity replaces the quantity. Negative values are rejected.
func (it *Item) SetQuantity(n int) error {
	if n < 0 {
		return &ValidationError{Field: FieldQuantity, Value: n, Reason: "must not be negative"}
	}
	it.quantity = n
	return nil
}

// SetPrice replaces the price, rounded to cents.
// Negative, NaN and infinite prices are rejected.
func (it *Item) SetPrice(p float64) error {
	if math.IsNaN(p) || math.IsInf(p, 0) {
		return &ValidationError{Field: FieldPrice, Value: p, Reason: "must be a finite number"}
	}
	if p < 0 {
		return &ValidationError{Field: FieldPrice, Value: p, Reason: "must not be negative"}
	}
	it.price = roundCents(p)
	return nil
}

// Clone returns an independent copy.
func (it *Item) Clone() *Item {
	c := *it
	return &c
}

func (it Item) String() string {
	return fmt.Sprintf("ID: %d | %s | Qty: %d | Price: $%.2f", it.id, it.name, it.quantity, it.price)
}

func roundCents(p float64) float64 {
	return math.Round(p*100) / 100
}
