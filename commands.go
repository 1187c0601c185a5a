// Copyright (c) 2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ffutop/inventory/internal/inventory"
	"github.com/ffutop/inventory/internal/inventory/model"
)

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q: must be an integer", s)
	}
	return id, nil
}

func (a *app) menuCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "menu",
		Short: "Run the interactive menu",
		Args:  cobra.NoArgs,
		RunE:  a.runMenu,
	}
}

func (a *app) addCmd() *cobra.Command {
	var (
		id       int64
		name     string
		quantity int
		price    float64
	)
	cmd := &cobra.Command{
		Use:     "add",
		Short:   "Add a new item",
		Example: `  inventory add --id 1 --name Widget --quantity 10 --price 9.99`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a.notice(cmd.ErrOrStderr(), true)
			if err := a.writable(); err != nil {
				return err
			}
			item, err := model.NewItem(id, name, quantity, price)
			if err != nil {
				return err
			}
			if err := a.store.Add(item); err != nil {
				return mutationError(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s\n", item)
			return nil
		},
	}
	cmd.Flags().Int64Var(&id, "id", 0, "Item id (unique).")
	cmd.Flags().StringVar(&name, "name", "", "Item name.")
	cmd.Flags().IntVar(&quantity, "quantity", 0, "Units in stock.")
	cmd.Flags().Float64Var(&price, "price", 0, "Unit price.")
	for _, f := range []string{"id", "name", "quantity", "price"} {
		_ = cmd.MarkFlagRequired(f)
	}
	return cmd
}

func (a *app) removeCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "remove <id>",
		Aliases: []string{"rm"},
		Short:   "Remove an item",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a.notice(cmd.ErrOrStderr(), true)
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.writable(); err != nil {
				return err
			}
			if err := a.store.Remove(id); err != nil {
				return mutationError(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed item %d\n", id)
			return nil
		},
	}
}

func (a *app) updateCmd() *cobra.Command {
	var (
		name     string
		quantity int
		price    float64
	)
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change the name, quantity or price of an item",
		Long: `Change the name, quantity or price of an item.

Only the flags given on the command line are applied. If any of them is
invalid the item is left unchanged.`,
		Example: `  inventory update 1 --quantity 4
  inventory update 1 --price 12.50 --name "Widget XL"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a.notice(cmd.ErrOrStderr(), true)
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			var c inventory.Changes
			if cmd.Flags().Changed("name") {
				c.Name = &name
			}
			if cmd.Flags().Changed("quantity") {
				c.Quantity = &quantity
			}
			if cmd.Flags().Changed("price") {
				c.Price = &price
			}
			if c == (inventory.Changes{}) {
				return errors.New("nothing to update: set --name, --quantity or --price")
			}
			if err := a.writable(); err != nil {
				return err
			}
			if err := a.store.Update(id, c); err != nil {
				return mutationError(err)
			}
			item, _ := a.store.Get(id)
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", item)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "New item name.")
	cmd.Flags().IntVar(&quantity, "quantity", 0, "New quantity.")
	cmd.Flags().Float64Var(&price, "price", 0, "New price.")
	return cmd
}

func (a *app) findCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:     "find <text>",
		Aliases: []string{"search"},
		Short:   "List the items whose name contains text, ignoring case",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a.notice(cmd.ErrOrStderr(), true)
			return renderItems(cmd.OutOrStdout(), a.store.FindByName(args[0]), output)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", formatTable, "Output format (table, json, yaml).")
	return cmd
}

func (a *app) listCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List every item ordered by id",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a.notice(cmd.ErrOrStderr(), true)
			return renderItems(cmd.OutOrStdout(), a.store.ListAll(), output)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", formatTable, "Output format (table, json, yaml).")
	return cmd
}
