// Copyright (c) 2025-2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ffutop/inventory/internal/config"
	"github.com/ffutop/inventory/internal/inventory"
	"github.com/ffutop/inventory/internal/inventory/persistence"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// app carries the state shared by every command of one invocation.
type app struct {
	flags   cliFlags
	cfg     *config.Config
	logger  *slog.Logger
	logFile *os.File
	store   *inventory.Store
	report  inventory.LoadReport
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "inventory",
		Short: "Keep a small product inventory in a JSON file",
		Long: `Keep a small product inventory (id, name, quantity, price).

Run without a subcommand for the interactive menu, or use the
subcommands for one-shot changes. Every change is saved immediately.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.open,
		RunE:              a.runMenu,
	}
	a.flags.register(root.PersistentFlags())

	root.AddCommand(
		a.menuCmd(),
		a.addCmd(),
		a.removeCmd(),
		a.updateCmd(),
		a.findCmd(),
		a.listCmd(),
	)

	// Release the store and the log file whether or not the command fails.
	for _, c := range append([]*cobra.Command{root}, root.Commands()...) {
		if c.RunE == nil {
			continue
		}
		run := c.RunE
		c.RunE = func(cmd *cobra.Command, args []string) (err error) {
			defer func() {
				if cerr := a.close(); err == nil {
					err = cerr
				}
			}()
			return run(cmd, args)
		}
	}
	return root
}

// open loads the configuration and the store before any command runs.
func (a *app) open(cmd *cobra.Command, args []string) (err error) {
	cfg, err := config.LoadConfig(a.flags.configFile, cmd.Flags())
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	a.cfg = cfg
	a.logger, a.logFile = setupLogger(cfg.Log, cmd.ErrOrStderr())
	defer func() {
		if err != nil {
			a.close()
		}
	}()

	keys, err := persistence.ParseKeySet(cfg.Store.Keys)
	if err != nil {
		return err
	}
	storage, err := persistence.New(cfg.Store.Backend, cfg.Store.Path, persistence.Options{
		Keys:   keys,
		Indent: cfg.Store.Indent,
	})
	if err != nil {
		return err
	}
	a.store, a.report = inventory.Open(storage, inventory.WithLogger(a.logger))
	return nil
}

func (a *app) close() error {
	var err error
	if a.store != nil {
		err = a.store.Close()
		a.store = nil
	}
	if a.logFile != nil {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))
		err = errors.Join(err, a.logFile.Close())
		a.logFile = nil
	}
	return err
}

// notice tells the user about a load that did not find usable data.
func (a *app) notice(w io.Writer, quietIfMissing bool) {
	r := a.report
	switch r.Status {
	case inventory.LoadNoFile:
		if !quietIfMissing {
			fmt.Fprintf(w, "No inventory found at %s, starting with an empty one.\n", r.Path)
		}
	case inventory.LoadCorrupt:
		fmt.Fprintf(w, "Inventory at %s is corrupt: %v\n", r.Path, r.Err)
		if r.QuarantinedTo != "" {
			fmt.Fprintf(w, "The old content was moved to %s. Starting with an empty inventory.\n", r.QuarantinedTo)
		} else {
			fmt.Fprintln(w, "Starting with an empty inventory.")
		}
	case inventory.LoadUnreadable:
		fmt.Fprintf(w, "Inventory at %s could not be read: %v\n", r.Path, r.Err)
		fmt.Fprintln(w, "Starting with an empty inventory.")
	}
}

// writable refuses one-shot changes on top of a store that could not be
// read, since saving would replace data that may still be intact.
func (a *app) writable() error {
	if a.report.Status == inventory.LoadUnreadable {
		return fmt.Errorf("refusing to modify %s: %w", a.report.Path, a.report.Err)
	}
	return nil
}

// mutationError explains a failed save after a one-shot change.
func mutationError(err error) error {
	if errors.Is(err, persistence.ErrPersistence) {
		return fmt.Errorf("change was not saved: %w", err)
	}
	return err
}

// setupLogger installs the configured logger as the slog default. When
// logging goes to a file, the file is returned for the caller to close.
func setupLogger(cfg config.LogConfig, stderr io.Writer) (*slog.Logger, *os.File) {
	opts := &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}
	switch cfg.Level {
	case "debug":
		opts.Level = slog.LevelDebug
	case "warn":
		opts.Level = slog.LevelWarn
	case "error":
		opts.Level = slog.LevelError
	}

	out := stderr
	var file *os.File
	if cfg.File != "" && cfg.File != "-" {
		f, err := os.OpenFile(cfg.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to open log file, falling back to stderr: %v\n", err)
		} else {
			out, file = f, f
		}
	}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger, file
}
