package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ID is an identifier the backend may send either as a JSON string or as a
// JSON number. Numbers keep their literal text.
type ID string

// UnmarshalJSON implements json.Unmarshaler.
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
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("id: unsupported value %s", data)
		}
		*id = ID(n.String())
		return nil
	}
}

// MarshalJSON writes numeric identifiers back as numbers so the backend sees
// the same JSON kind it served.
func (id ID) MarshalJSON() ([]byte, error) {
	if id.numeric() {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

func (id ID) numeric() bool {
	if id == "" {
		return false
	}
	var n json.Number
	return json.Unmarshal([]byte(id), &n) == nil
}

// String implements fmt.Stringer.
func (id ID) String() string {
	return string(id)
}
