package menu

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// ID identifies a menu node. It holds either a numeric or a string identifier;
// the zero value is the null ID used as the parent of root nodes.
type ID struct {
	raw string
	num bool
}

// IntID returns a numeric ID.
func IntID(n int64) ID {
	return ID{raw: strconv.FormatInt(n, 10), num: true}
}

// StringID returns a string ID. An empty string yields the null ID.
func StringID(s string) ID {
	return ID{raw: s}
}

// IsZero reports whether id is the null ID.
func (id ID) IsZero() bool {
	return id.raw == "" && !id.num
}

// IsNumeric reports whether id was created from a number.
func (id ID) IsNumeric() bool {
	return id.num
}

// Int returns the numeric value of id and whether it is numeric.
func (id ID) Int() (int64, bool) {
	if !id.num {
		return 0, false
	}
	n, err := strconv.ParseInt(id.raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func (id ID) String() string {
	if id.IsZero() {
		return "null"
	}
	return id.raw
}

// MarshalJSON encodes numeric IDs as numbers, string IDs as strings and the
// null ID as null.
func (id ID) MarshalJSON() ([]byte, error) {
	switch {
	case id.IsZero():
		return []byte("null"), nil
	case id.num:
		return []byte(id.raw), nil
	default:
		return json.Marshal(id.raw)
	}
}

// UnmarshalJSON accepts integers, strings and null.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*id = ID{}
		return nil
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("invalid id %s: %w", data, err)
		}
		*id = StringID(s)
		return nil
	}

	n, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid id %s: must be an integer or a string", data)
	}
	*id = IntID(n)
	return nil
}

// MarshalYAML mirrors MarshalJSON for YAML documents.
func (id ID) MarshalYAML() (interface{}, error) {
	switch {
	case id.IsZero():
		return nil, nil
	case id.num:
		n, _ := id.Int()
		return n, nil
	default:
		return id.raw, nil
	}
}

// UnmarshalYAML treats !!int scalars as numeric IDs, !!null as the null ID and
// every other scalar as a string ID.
func (id *ID) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("invalid id at line %d: expected a scalar", value.Line)
	}

	switch value.Tag {
	case "!!null":
		*id = ID{}
	case "!!int":
		var n int64
		if err := value.Decode(&n); err != nil {
			return fmt.Errorf("invalid id at line %d: %w", value.Line, err)
		}
		*id = IntID(n)
	default:
		*id = StringID(value.Value)
	}
	return nil
}
