// Copyright (c) 2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package persistence

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/ffutop/inventory/internal/inventory/model"
)

// DefaultIndent matches the 4-space layout of existing inventory files.
const DefaultIndent = 4

// KeySet names the JSON keys written for each field.
// Reading always accepts both sets.
type KeySet struct {
	ID       string
	Name     string
	Quantity string
	Price    string
}

var (
	EnglishKeys = KeySet{ID: "id", Name: "name", Quantity: "quantity", Price: "price"}
	SpanishKeys = KeySet{ID: "id", Name: "nombre", Quantity: "cantidad", Price: "precio"}
)

// ParseKeySet maps "en" or "es" to a KeySet.
func ParseKeySet(name string) (KeySet, error) {
	switch strings.ToLower(name) {
	case "", "en":
		return EnglishKeys, nil
	case "es":
		return SpanishKeys, nil
	default:
		return KeySet{}, fmt.Errorf("unknown key set %q (want en or es)", name)
	}
}

func (k KeySet) isZero() bool { return k == KeySet{} }

// pairs returns the output key and the canonical record field, in file order.
func (k KeySet) pairs() [4][2]string {
	return [4][2]string{
		{k.ID, model.FieldID},
		{k.Name, model.FieldName},
		{k.Quantity, model.FieldQuantity},
		{k.Price, model.FieldPrice},
	}
}

// orderedRecord marshals a record with a stable key order.
type orderedRecord struct {
	keys KeySet
	rec  model.Record
}

func (o orderedRecord) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, p := range o.keys.pairs() {
		v, ok := o.rec[p[1]]
		if !ok {
			return nil, fmt.Errorf("record is missing field %q", p[1])
		}
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := marshalRaw(p[0])
		if err != nil {
			return nil, err
		}
		val, err := marshalRaw(v)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", p[1], err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// marshalRaw encodes v without HTML escaping so names stay readable.
func marshalRaw(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// encodeRecords renders records as an indented JSON array.
func encodeRecords(records []model.Record, keys KeySet, indent int) ([]byte, error) {
	if keys.isZero() {
		keys = EnglishKeys
	}
	out := make([]orderedRecord, len(records))
	for i, rec := range records {
		out[i] = orderedRecord{keys: keys, rec: rec}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if indent > 0 {
		enc.SetIndent("", strings.Repeat(" ", indent))
	}
	if err := enc.Encode(out); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// decodeRecords parses a JSON array of objects.
// Every failure is a *model.FormatError.
func decodeRecords(data []byte) ([]model.Record, error) {
	text, err := decodeText(data)
	if err != nil {
		return nil, &model.FormatError{Index: -1, Reason: "invalid text encoding", Err: err}
	}
	text = bytes.TrimSpace(text)
	if len(text) == 0 {
		return nil, &model.FormatError{Index: -1, Reason: "empty content"}
	}
	if text[0] != '[' {
		return nil, &model.FormatError{Index: -1, Reason: "top level value is not an array"}
	}

	dec := json.NewDecoder(bytes.NewReader(text))
	var raw []json.RawMessage
	if err := dec.Decode(&raw); err != nil {
		return nil, &model.FormatError{Index: -1, Reason: "malformed JSON", Err: err}
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, &model.FormatError{Index: -1, Reason: "unexpected data after the array"}
	}

	records := make([]model.Record, 0, len(raw))
	for i, r := range raw {
		d := json.NewDecoder(bytes.NewReader(r))
		d.UseNumber()
		var rec model.Record
		if err := d.Decode(&rec); err != nil || rec == nil {
			return nil, &model.FormatError{Index: i, Reason: "not an object", Err: err}
		}
		records = append(records, rec)
	}
	return records, nil
}

// decodeText converts BOM-prefixed UTF-8 or UTF-16 to plain UTF-8.
// Content without a BOM must already be valid UTF-8.
func decodeText(data []byte) ([]byte, error) {
	if hasBOM(data) {
		out, _, err := transform.Bytes(unicode.BOMOverride(unicode.UTF8.NewDecoder()), data)
		return out, err
	}
	if !utf8.Valid(data) {
		return nil, errors.New("content is not valid UTF-8")
	}
	return data, nil
}

func hasBOM(data []byte) bool {
	return bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}) ||
		bytes.HasPrefix(data, []byte{0xFF, 0xFE}) ||
		bytes.HasPrefix(data, []byte{0xFE, 0xFF})
}
