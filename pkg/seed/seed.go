// Package seed loads the initial menu tree from a YAML or JSON document.
package seed

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/mchmarny/menued/pkg/menu"
)

// Load reads the menu document at path. Files ending in .yaml or .yml are
// parsed as YAML, everything else as JSON. The document is either a menu
// object with an items list or a bare list of nodes. The returned tree is
// normalized and validated.
func Load(path string) (*menu.Menu, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed %s: %w", path, err)
	}

	m, err := Parse(data, Format(path))
	if err != nil {
		return nil, fmt.Errorf("failed to parse seed %s: %w", path, err)
	}
	return m, nil
}

// Format returns "yaml" or "json" based on the file extension.
func Format(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	default:
		return "json"
	}
}

// Parse decodes a menu document in the given format.
func Parse(data []byte, format string) (*menu.Menu, error) {
	var (
		m   menu.Menu
		err error
	)

	switch format {
	case "yaml":
		err = parseYAML(data, &m)
	case "json":
		err = parseJSON(data, &m)
	default:
		return nil, fmt.Errorf("unsupported seed format %q", format)
	}
	if err != nil {
		return nil, err
	}

	m.Items = menu.Normalize(m.Items)
	if err := menu.Validate(m.Items); err != nil {
		return nil, err
	}
	return &m, nil
}

func parseYAML(data []byte, m *menu.Menu) error {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return err
	}
	if len(doc.Content) == 0 {
		return nil
	}
	if doc.Content[0].Kind == yaml.SequenceNode {
		return doc.Content[0].Decode(&m.Items)
	}
	return doc.Content[0].Decode(m)
}

func parseJSON(data []byte, m *menu.Menu) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil
	}
	if data[0] == '[' {
		return json.Unmarshal(data, &m.Items)
	}
	return json.Unmarshal(data, m)
}

// Encode writes m in the given format.
func Encode(m *menu.Menu, format string) ([]byte, error) {
	switch format {
	case "yaml":
		return yaml.Marshal(m)
	case "json":
		return json.MarshalIndent(m, "", "  ")
	default:
		return nil, fmt.Errorf("unsupported seed format %q", format)
	}
}
