package common

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Placeholder is rendered in place of any value the caller did not supply.
const Placeholder = "N/A"

// Scalar holds a caller-supplied JSON scalar (string, number or bool) as text.
// A missing key, null or an empty string leaves it unset.
type Scalar struct {
	text string
	set  bool
}

// NewScalar returns a set Scalar holding s.
func NewScalar(s string) Scalar {
	return Scalar{text: s, set: s != ""}
}

// UnmarshalJSON accepts strings, numbers and booleans. Objects and arrays are
// kept as their compact JSON text rather than rejected.
func (s *Scalar) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*s = Scalar{}
		return nil
	}

	if data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = NewScalar(strings.TrimSpace(str))
		return nil
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, data); err != nil {
		return err
	}
	*s = NewScalar(buf.String())
	return nil
}

// MarshalJSON writes the value back as a JSON string, or null when unset.
func (s Scalar) MarshalJSON() ([]byte, error) {
	if !s.set {
		return []byte("null"), nil
	}
	return json.Marshal(s.text)
}

// IsSet reports whether a value was supplied.
func (s Scalar) IsSet() bool {
	return s.set
}

// Value returns the raw text and whether it was supplied.
func (s Scalar) Value() (string, bool) {
	return s.text, s.set
}

// String returns the text, or Placeholder when unset.
func (s Scalar) String() string {
	if !s.set {
		return Placeholder
	}
	return s.text
}
