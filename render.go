// Copyright (c) 2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"gopkg.in/yaml.v3"

	"github.com/ffutop/inventory/internal/inventory/model"
)

const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

// itemView is the wire shape of an item in json and yaml output.
type itemView struct {
	ID       int64   `json:"id" yaml:"id"`
	Name     string  `json:"name" yaml:"name"`
	Quantity int     `json:"quantity" yaml:"quantity"`
	Price    float64 `json:"price" yaml:"price"`
}

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

func renderItems(w io.Writer, items []model.Item, format string) error {
	views := make([]itemView, len(items))
	for i, it := range items {
		views[i] = itemView{ID: it.ID(), Name: it.Name(), Quantity: it.Quantity(), Price: it.Price()}
	}

	switch format {
	case "", formatTable:
		if len(items) == 0 {
			_, err := fmt.Fprintln(w, "No items.")
			return err
		}
		t := table.New().
			Border(lipgloss.NormalBorder()).
			Headers("ID", "NAME", "QUANTITY", "PRICE").
			StyleFunc(func(row, col int) lipgloss.Style {
				s := cellStyle
				if row == table.HeaderRow {
					s = headerStyle
				}
				if col != 1 {
					s = s.Align(lipgloss.Right)
				}
				return s
			})
		for _, v := range views {
			t.Row(
				strconv.FormatInt(v.ID, 10),
				v.Name,
				strconv.Itoa(v.Quantity),
				fmt.Sprintf("%.2f", v.Price),
			)
		}
		_, err := fmt.Fprintln(w, t.Render())
		return err
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return enc.Encode(views)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(views); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q: want table, json or yaml", format)
	}
}
