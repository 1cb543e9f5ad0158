package types

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ID is an entity identifier. The marketplace API sends some identifiers as
// JSON numbers and others as strings; both decode to the same textual form.
type ID string

// String returns the identifier text.
func (id ID) String() string { return string(id) }

// UnmarshalJSON accepts a JSON string, a JSON number, or null.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*id = ""
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("decode id %s: %w", data, err)
	}
	*id = ID(n.String())
	return nil
}
