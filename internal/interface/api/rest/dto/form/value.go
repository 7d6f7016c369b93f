// Package form holds request field types shared by the form and JSON
// bindings.
package form

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Value is a submitted field. Form posts always carry text; JSON clients
// may send numbers or booleans, which keep their literal text.
type Value string

func (v *Value) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*v = ""
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*v = Value(s)
	case len(b) > 0 && (b[0] == '{' || b[0] == '['):
		return fmt.Errorf("form value: unexpected %s", b[:1])
	default:
		if !json.Valid(b) {
			return fmt.Errorf("form value: invalid literal %q", b)
		}
		*v = Value(b)
	}

	return nil
}

func (v Value) String() string { return string(v) }

// Checked reads the value as a checkbox: absent, "0", "false" and "off" are
// unchecked.
func (v Value) Checked() bool {
	switch strings.ToLower(strings.TrimSpace(string(v))) {
	case "", "0", "false", "off":
		return false
	default:
		return true
	}
}

func Ptr(v *Value) *string {
	if v == nil {
		return nil
	}
	s := string(*v)
	return &s
}
