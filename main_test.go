// Copyright (c) 2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package main

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/ffutop/inventory/internal/config"
	"github.com/ffutop/inventory/internal/inventory"
	"github.com/ffutop/inventory/internal/inventory/model"
)

type result struct {
	stdout string
	stderr string
	err    error
}

// execute runs one CLI invocation against the inventory file at path.
func execute(t *testing.T, path, stdin string, args ...string) result {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append(args, "--store", path, "--log-level", "error"))
	err := cmd.Execute()
	return result{stdout: out.String(), stderr: errOut.String(), err: err}
}

// workspace isolates a test from config files in the working and home
// directories and returns the inventory path to use.
func workspace(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", t.TempDir())
	return filepath.Join(dir, "inventory.json")
}

func listJSON(t *testing.T, path string) []itemView {
	t.Helper()
	r := execute(t, path, "", "list", "--output", "json")
	require.NoError(t, r.err, r.stderr)
	var views []itemView
	require.NoError(t, json.Unmarshal([]byte(r.stdout), &views))
	return views
}

func TestCLI_AddListFind(t *testing.T) {
	path := workspace(t)

	r := execute(t, path, "", "add", "--id", "2", "--name", "Gadget", "--quantity", "5", "--price", "0.5")
	require.NoError(t, r.err, r.stderr)
	r = execute(t, path, "", "add", "--id", "1", "--name", "Widget", "--quantity", "10", "--price", "9.99")
	require.NoError(t, r.err, r.stderr)
	assert.Contains(t, r.stdout, "Added ID: 1 | Widget | Qty: 10 | Price: $9.99")

	assert.Equal(t, []itemView{
		{ID: 1, Name: "Widget", Quantity: 10, Price: 9.99},
		{ID: 2, Name: "Gadget", Quantity: 5, Price: 0.5},
	}, listJSON(t, path))

	r = execute(t, path, "", "find", "WID", "--output", "yaml")
	require.NoError(t, r.err, r.stderr)
	var found []itemView
	require.NoError(t, yaml.Unmarshal([]byte(r.stdout), &found))
	assert.Equal(t, []itemView{{ID: 1, Name: "Widget", Quantity: 10, Price: 9.99}}, found)

	r = execute(t, path, "", "list")
	require.NoError(t, r.err)
	assert.Contains(t, r.stdout, "Widget")
	assert.Contains(t, r.stdout, "9.99")
}

func TestCLI_AddErrors(t *testing.T) {
	path := workspace(t)
	require.NoError(t, execute(t, path, "", "add", "--id", "1", "--name", "Widget", "--quantity", "10", "--price", "9.99").err)

	r := execute(t, path, "", "add", "--id", "1", "--name", "X", "--quantity", "1", "--price", "1")
	assert.ErrorIs(t, r.err, inventory.ErrDuplicateKey)

	r = execute(t, path, "", "add", "--id", "2", "--name", " ", "--quantity", "1", "--price", "1")
	assert.ErrorIs(t, r.err, model.ErrValidation)

	r = execute(t, path, "", "add", "--id", "2", "--name", "Y")
	assert.Error(t, r.err, "quantity and price are required")

	assert.Len(t, listJSON(t, path), 1)
}

func TestCLI_Update(t *testing.T) {
	path := workspace(t)
	require.NoError(t, execute(t, path, "", "add", "--id", "1", "--name", "Widget", "--quantity", "10", "--price", "9.99").err)

	r := execute(t, path, "", "update", "1", "--price", "12.5")
	require.NoError(t, r.err, r.stderr)
	assert.Contains(t, r.stdout, "Qty: 10 | Price: $12.50")

	r = execute(t, path, "", "update", "1", "--quantity", "0", "--price", "-5")
	assert.ErrorIs(t, r.err, model.ErrValidation)

	r = execute(t, path, "", "update", "1")
	assert.ErrorContains(t, r.err, "nothing to update")

	r = execute(t, path, "", "update", "7", "--quantity", "1")
	assert.ErrorIs(t, r.err, inventory.ErrNotFound)

	r = execute(t, path, "", "update", "abc", "--quantity", "1")
	assert.ErrorContains(t, r.err, "invalid id")

	assert.Equal(t, []itemView{{ID: 1, Name: "Widget", Quantity: 10, Price: 12.5}}, listJSON(t, path))
}

func TestCLI_Remove(t *testing.T) {
	path := workspace(t)
	require.NoError(t, execute(t, path, "", "add", "--id", "1", "--name", "Widget", "--quantity", "10", "--price", "9.99").err)

	r := execute(t, path, "", "remove", "1")
	require.NoError(t, r.err)
	assert.Contains(t, r.stdout, "Removed item 1")
	assert.Empty(t, listJSON(t, path))

	r = execute(t, path, "", "remove", "1")
	assert.ErrorIs(t, r.err, inventory.ErrNotFound)
}

func TestCLI_CorruptFileIsMovedAside(t *testing.T) {
	path := workspace(t)
	require.NoError(t, os.WriteFile(path, []byte(`[{"id":1,"name":"A","quantity":2}]`), 0o644))

	r := execute(t, path, "", "list")
	require.NoError(t, r.err)
	assert.Contains(t, r.stderr, "is corrupt")
	assert.Contains(t, r.stderr, path+".corrupt")
	assert.Contains(t, r.stdout, "No items.")

	_, err := os.Stat(path + ".corrupt")
	assert.NoError(t, err)
}

func TestCLI_RefusesChangesWhenUnreadable(t *testing.T) {
	path := workspace(t)
	require.NoError(t, os.Mkdir(path, 0o755))

	r := execute(t, path, "", "add", "--id", "1", "--name", "Widget", "--quantity", "1", "--price", "1")
	assert.ErrorContains(t, r.err, "refusing to modify")
	assert.Contains(t, r.stderr, "could not be read")

	r = execute(t, path, "", "list")
	assert.NoError(t, r.err, "reads still work on an empty store")
}

func TestCLI_SpanishKeysAndConfigFile(t *testing.T) {
	path := workspace(t)
	cfgPath := filepath.Join(t.TempDir(), "inventory.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("store:\n  keys: es\n  indent: 2\n"), 0o644))

	r := execute(t, path, "", "add", "--id", "1", "--name", "Martillo", "--quantity", "3", "--price", "12.5", "--config", cfgPath)
	require.NoError(t, r.err, r.stderr)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n  {\n    \"id\": 1,\n    \"nombre\": \"Martillo\"")

	// English-keyed runs still read the file.
	assert.Equal(t, []itemView{{ID: 1, Name: "Martillo", Quantity: 3, Price: 12.5}}, listJSON(t, path))
}

func TestCLI_BadConfig(t *testing.T) {
	path := workspace(t)
	r := execute(t, path, "", "list", "--backend", "postgres")
	assert.ErrorContains(t, r.err, "failed to load configuration")
}

func TestRenderItems(t *testing.T) {
	it, err := model.NewItem(1, "Widget", 10, 9.99)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, renderItems(&buf, []model.Item{*it}, formatTable))
	assert.Contains(t, buf.String(), "NAME")
	assert.Contains(t, buf.String(), "Widget")
	assert.Contains(t, buf.String(), "9.99")

	buf.Reset()
	require.NoError(t, renderItems(&buf, nil, formatTable))
	assert.Equal(t, "No items.\n", buf.String())

	buf.Reset()
	require.NoError(t, renderItems(&buf, nil, formatJSON))
	assert.Equal(t, "[]\n", buf.String())

	assert.Error(t, renderItems(&buf, nil, "csv"))
}

func TestCLI_LogFileIsClosed(t *testing.T) {
	path := workspace(t)
	logPath := filepath.Join(t.TempDir(), "inventory.log")

	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs([]string{"add", "--id", "1", "--name", "Widget", "--quantity", "1", "--price", "1",
		"--store", path, "--log-file", logPath, "--log-level", "debug"})
	require.NoError(t, cmd.Execute(), errOut.String())

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Item added")
}

func TestApp_CloseReleasesLogFile(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "inventory.log")
	a := &app{}
	a.logger, a.logFile = setupLogger(config.LogConfig{File: logPath}, io.Discard)
	require.NotNil(t, a.logFile)
	f := a.logFile

	a.logger.Info("hello")
	require.NoError(t, a.close())
	assert.Nil(t, a.logFile)

	_, err := f.Write([]byte("late"))
	assert.ErrorIs(t, err, os.ErrClosed)
	assert.NoError(t, a.close(), "closing twice is harmless")
}

func TestApp_SetupLoggerWithoutFile(t *testing.T) {
	_, f := setupLogger(config.LogConfig{File: "-"}, io.Discard)
	assert.Nil(t, f)
}
