// Package models defines the client-side data models of the portal: users and
// their roles, areas, dashboards, favorites and the session snapshot.
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ID is a backend identifier. The API is not consistent about sending ids as
// numbers or strings, so both decode into the same string form.
type ID string

func (id ID) String() string { return string(id) }

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id must be a string or a number: %w", err)
	}
	*id = ID(n.String())
	return nil
}
