// Package jsonutil holds JSON helpers for loosely typed scanner exports.
package jsonutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// FlexString decodes a JSON scalar of any kind into its text form.
// Strings are taken as is, numbers keep their literal spelling and booleans
// render as "True"/"False". null leaves the value empty.
type FlexString string

// String returns the decoded text.
func (f FlexString) String() string { return string(f) }

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
	case 't', 'f':
		b, err := strconv.ParseBool(string(data))
		if err != nil {
			return fmt.Errorf("invalid boolean %s", data)
		}
		if b {
			*f = "True"
		} else {
			*f = "False"
		}
	case '{', '[':
		return fmt.Errorf("expected scalar, got %s", kindOf(data[0]))
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		*f = FlexString(n.String())
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (f FlexString) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(f))
}

func kindOf(b byte) string {
	if b == '{' {
		return "object"
	}
	return "array"
}
