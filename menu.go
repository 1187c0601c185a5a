// Copyright (c) 2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ffutop/inventory/internal/inventory"
	"github.com/ffutop/inventory/internal/inventory/model"
	"github.com/ffutop/inventory/internal/inventory/persistence"
)

const menuText = `
===== INVENTORY =====
1. Add item
2. Remove item
3. Update item
4. Search by name
5. List all items
6. Save and exit`

// errEOF ends the menu when input runs out.
var errEOF = errors.New("end of input")

// prompter reads one line per question from in.
type prompter struct {
	sc  *bufio.Scanner
	out io.Writer
}

func (p *prompter) ask(label string) (string, error) {
	fmt.Fprint(p.out, label)
	if !p.sc.Scan() {
		if err := p.sc.Err(); err != nil {
			return "", err
		}
		fmt.Fprintln(p.out)
		return "", errEOF
	}
	return strings.TrimSpace(p.sc.Text()), nil
}

// askParsed repeats the question until parse accepts the answer. With
// optional set a blank answer returns ok == false.
func askParsed[T any](p *prompter, label string, optional bool, parse func(string) (T, error)) (v T, ok bool, err error) {
	for {
		line, err := p.ask(label)
		if err != nil {
			return v, false, err
		}
		if line == "" && optional {
			return v, false, nil
		}
		v, err = parse(line)
		if err == nil {
			return v, true, nil
		}
		fmt.Fprintln(p.out, "Invalid value, try again.")
	}
}

func parseInt(s string) (int, error) { return strconv.Atoi(s) }

func parseFloat(s string) (float64, error) { return strconv.ParseFloat(s, 64) }

func (a *app) runMenu(cmd *cobra.Command, args []string) error {
	a.notice(cmd.OutOrStdout(), false)
	p := &prompter{sc: bufio.NewScanner(cmd.InOrStdin()), out: cmd.OutOrStdout()}

	for {
		fmt.Fprintln(p.out, menuText)
		choice, err := p.ask("Choose an option: ")
		if errors.Is(err, errEOF) {
			return nil
		}
		if err != nil {
			return err
		}

		switch choice {
		case "1":
			err = a.menuAdd(p)
		case "2":
			err = a.menuRemove(p)
		case "3":
			err = a.menuUpdate(p)
		case "4":
			err = a.menuSearch(p)
		case "5":
			err = a.menuList(p)
		case "6":
			if err := a.store.Save(); err != nil {
				return fmt.Errorf("inventory not saved: %w", err)
			}
			fmt.Fprintf(p.out, "Inventory saved to %s. Goodbye.\n", a.store.Path())
			return nil
		default:
			fmt.Fprintln(p.out, "Invalid option, choose 1-6.")
			continue
		}

		switch {
		case err == nil:
		case errors.Is(err, errEOF):
			return nil
		case errors.Is(err, persistence.ErrPersistence):
			fmt.Fprintf(p.out, "Warning: the change is kept in memory but was not saved: %v\n", err)
		case errors.Is(err, model.ErrValidation), errors.Is(err, inventory.ErrDuplicateKey), errors.Is(err, inventory.ErrNotFound):
			fmt.Fprintf(p.out, "Error: %v\n", err)
		default:
			return err
		}
	}
}

func (a *app) menuAdd(p *prompter) error {
	id, _, err := askParsed(p, "ID: ", false, parseID)
	if err != nil {
		return err
	}
	name, err := p.ask("Name: ")
	if err != nil {
		return err
	}
	qty, _, err := askParsed(p, "Quantity: ", false, parseInt)
	if err != nil {
		return err
	}
	price, _, err := askParsed(p, "Price: ", false, parseFloat)
	if err != nil {
		return err
	}

	item, err := model.NewItem(id, name, qty, price)
	if err != nil {
		return err
	}
	if err := a.store.Add(item); err != nil {
		return err
	}
	fmt.Fprintf(p.out, "Added %s\n", item)
	return nil
}

func (a *app) menuRemove(p *prompter) error {
	id, _, err := askParsed(p, "ID to remove: ", false, parseID)
	if err != nil {
		return err
	}
	if err := a.store.Remove(id); err != nil {
		return err
	}
	fmt.Fprintf(p.out, "Removed item %d\n", id)
	return nil
}

func (a *app) menuUpdate(p *prompter) error {
	id, _, err := askParsed(p, "ID to update: ", false, parseID)
	if err != nil {
		return err
	}
	cur, ok := a.store.Get(id)
	if !ok {
		return &inventory.NotFoundError{ID: id}
	}
	fmt.Fprintf(p.out, "Current: %s\n", cur)
	fmt.Fprintln(p.out, "Leave a field blank to keep it.")

	var c inventory.Changes
	name, err := p.ask("New name: ")
	if err != nil {
		return err
	}
	if name != "" {
		c.Name = &name
	}
	if qty, ok, err := askParsed(p, "New quantity: ", true, parseInt); err != nil {
		return err
	} else if ok {
		c.Quantity = &qty
	}
	if price, ok, err := askParsed(p, "New price: ", true, parseFloat); err != nil {
		return err
	} else if ok {
		c.Price = &price
	}

	if c == (inventory.Changes{}) {
		fmt.Fprintln(p.out, "Nothing changed.")
		return nil
	}
	if err := a.store.Update(id, c); err != nil {
		return err
	}
	updated, _ := a.store.Get(id)
	fmt.Fprintf(p.out, "Updated %s\n", updated)
	return nil
}

func (a *app) menuList(p *prompter) error {
	items := a.store.ListAll()
	if err := renderItems(p.out, items, formatTable); err != nil {
		return err
	}
	fmt.Fprintf(p.out, "Total unique items: %d\n", len(items))
	return nil
}

func (a *app) menuSearch(p *prompter) error {
	text, err := p.ask("Name contains: ")
	if err != nil {
		return err
	}
	items := a.store.FindByName(text)
	if len(items) == 0 {
		fmt.Fprintf(p.out, "No items match %q.\n", text)
		return nil
	}
	return renderItems(p.out, items, formatTable)
}
