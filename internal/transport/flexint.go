package transport

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// FlexInt accepts a JSON number or a numeric string. Present reports whether
// the field was sent with a non-null, non-empty value; Valid reports whether
// that value parsed as an integer.
type FlexInt struct {
	Value   int64
	Present bool
	Valid   bool
}

func (f *FlexInt) UnmarshalJSON(b []byte) error {
	*f = FlexInt{}
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}

	var raw string
	if b[0] == '"' {
		if err := json.Unmarshal(b, &raw); err != nil {
			return err
		}
		raw = strings.TrimSpace(raw)
		if raw == "" {
			return nil
		}
	} else {
		raw = string(b)
	}

	f.Present = true
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		f.Value, f.Valid = n, true
	}
	return nil
}

func (f FlexInt) MarshalJSON() ([]byte, error) {
	if !f.Present || !f.Valid {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatInt(f.Value, 10)), nil
}
