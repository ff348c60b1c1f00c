// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// ID is an opaque entity identifier. Upstream records sometimes carry ids as
// JSON numbers, so decoding accepts both 42 and "42" and yields the same ID.
type ID string

func (id ID) String() string {
	return string(id)
}

// UnmarshalJSON accepts a JSON string, a JSON number, or null
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = NormalizeID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	*id = NormalizeID(n.String())
	return nil
}

// NormalizeID trims surrounding whitespace so ids compare by value
func NormalizeID(raw string) ID {
	return ID(strings.TrimSpace(raw))
}
