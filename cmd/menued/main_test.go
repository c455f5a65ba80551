package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mchmarny/menued/pkg/menu"
)

const seedYAML = `
title: Main
items:
  - id: 1
    label: Home
    url: "#home"
    children:
      - id: 2
        label: News
        url: "#news"
      - id: 3
        label: Blog
        url: "#blog"
  - id: 4
    label: Contact
    url: https://example.com/contact
`

func seedFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "menu.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestValidate(t *testing.T) {
	path := seedFile(t, seedYAML)

	out, err := run(t, "validate", path)
	require.NoError(t, err)
	assert.Contains(t, out, "ok, 4 nodes, 2 roots, depth 2")
}

func TestValidateDuplicate(t *testing.T) {
	path := seedFile(t, "- id: 1\n  label: A\n- id: 1\n  label: B\n")

	_, err := run(t, "validate", path)
	require.Error(t, err)
	assert.ErrorIs(t, err, menu.ErrDuplicateID)
}

func TestFlatten(t *testing.T) {
	path := seedFile(t, seedYAML)

	out, err := run(t, "flatten", path)
	require.NoError(t, err)

	var flat []menu.FlatItem
	require.NoError(t, json.Unmarshal([]byte(out), &flat))
	require.Len(t, flat, 4)
	assert.Equal(t, menu.IntID(3), flat[2].ID)
	assert.Equal(t, menu.IntID(1), flat[2].ParentID)
	assert.Equal(t, 1, flat[2].Order)
}

func TestShow(t *testing.T) {
	path := seedFile(t, seedYAML)

	out, err := run(t, "show", path)
	require.NoError(t, err)
	for _, want := range []string{"Main", "Home", "News", "Blog", "Contact", "#news", "[4]"} {
		assert.Contains(t, out, want)
	}
}

func TestProject(t *testing.T) {
	path := seedFile(t, seedYAML)

	out, err := run(t, "project", path, "--active", "4", "--offset", "64")
	require.NoError(t, err)

	var p menu.Projection
	require.NoError(t, json.Unmarshal([]byte(out), &p))
	assert.Equal(t, 1, p.Level)
	assert.Equal(t, menu.IntID(1), p.ParentID)
	assert.Equal(t, 2, p.MaxDepth)
	assert.Equal(t, 0, p.MinDepth)
}

func TestProjectApply(t *testing.T) {
	path := seedFile(t, seedYAML)

	out, err := run(t, "project", path, "--active", "4", "--offset", "64", "--apply")
	require.NoError(t, err)
	assert.Contains(t, out, "Contact")
}

func TestProjectUnknownItem(t *testing.T) {
	path := seedFile(t, seedYAML)

	_, err := run(t, "project", path, "--active", "99")
	assert.ErrorIs(t, err, menu.ErrItemNotFound)
}

func TestProjectRequiresActive(t *testing.T) {
	path := seedFile(t, seedYAML)

	_, err := run(t, "project", path)
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version", "--json")
	require.NoError(t, err)

	var info versionInfo
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Equal(t, version, info.Version)
	assert.NotEmpty(t, info.Go)
}

func TestServeStopsOnCancel(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := seedFile(t, seedYAML)

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"serve", "--port", "0", "--seed", path, "--watch", "--log-level", "error"})
	assert.NoError(t, cmd.ExecuteContext(ctx))
}

func TestServeBadSeed(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"serve", "--port", "0", "--seed", filepath.Join(t.TempDir(), "missing.yaml")})
	assert.Error(t, cmd.ExecuteContext(context.Background()))
}
