package seed

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/mchmarny/menued/pkg/menu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const yamlSeed = `
title: Main
version: "1"
items:
  - id: 1
    label: Home
    url: "#home"
    children:
      - id: 2
        label: News
        url: "#news"
  - id: 3
    label: Contact
    url: https://example.com
`

func write(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadYAML(t *testing.T) {
	path := write(t, t.TempDir(), "menu.yaml", yamlSeed)

	m, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "Main", m.Title)
	require.Len(t, m.Items, 2)
	child := m.Items[0].Children[0]
	assert.Equal(t, menu.IntID(1), child.ParentID)
	assert.Equal(t, 1, child.Level)
	assert.Equal(t, 1, m.Items[1].Order)
}

func TestLoadJSONList(t *testing.T) {
	path := write(t, t.TempDir(), "menu.json", `[
		{"id": "a", "label": "A", "children": [{"id": "b", "label": "B"}]},
		{"id": "c", "label": "C"}
	]`)

	m, err := Load(path)
	require.NoError(t, err)
	require.Len(t, m.Items, 2)
	assert.Equal(t, menu.StringID("a"), m.Items[0].Children[0].ParentID)
}

func TestLoadRejectsDuplicates(t *testing.T) {
	path := write(t, t.TempDir(), "menu.json", `{"title": "x", "items": [{"id": 1}, {"id": 1}]}`)

	_, err := Load(path)
	assert.ErrorIs(t, err, menu.ErrDuplicateID)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestEncodeRoundTrip(t *testing.T) {
	m, err := Parse([]byte(yamlSeed), "yaml")
	require.NoError(t, err)

	for _, format := range []string{"yaml", "json"} {
		data, err := Encode(m, format)
		require.NoError(t, err)

		back, err := Parse(data, format)
		require.NoError(t, err, format)
		assert.Equal(t, m.Items, back.Items, format)
	}
}

func TestParseUnknownFormat(t *testing.T) {
	_, err := Parse([]byte("{}"), "toml")
	assert.Error(t, err)
}

func TestWatcherReloads(t *testing.T) {
	dir := t.TempDir()
	path := write(t, dir, "menu.yaml", yamlSeed)

	var (
		mu     sync.Mutex
		loaded *menu.Menu
	)
	w, err := NewWatcher(path, func(m *menu.Menu) {
		mu.Lock()
		defer mu.Unlock()
		loaded = m
	}, WithDebounce(10*time.Millisecond), WithOnError(func(error) {}))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Give the watcher time to register before writing.
	time.Sleep(100 * time.Millisecond)
	write(t, dir, "menu.yaml", "title: Updated\nitems:\n  - id: 9\n    label: Only\n")

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return loaded != nil && loaded.Title == "Updated"
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	assert.NoError(t, <-done)
}
