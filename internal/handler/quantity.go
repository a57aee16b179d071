package handler

import (
	"bytes"
	"encoding/json"
)

// quantityText keeps the quantity exactly as the client typed it so the
// list can apply its own validation.  JSON strings are used as is; bare
// numbers are kept in their literal form ("2.5" stays "2.5").
type quantityText string

func (q *quantityText) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*q = ""
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*q = quantityText(s)
	default:
		var n json.Number
		if err := json.Unmarshal(b, &n); err != nil {
			return err
		}
		*q = quantityText(n.String())
	}
	return nil
}
