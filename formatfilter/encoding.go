package formatfilter

import (
	"bytes"
	"encoding/json"
	"strings"
)

// MarshalText implements encoding.TextMarshaler.
func (f Format) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Unknown values become
// FormatNone, matching the teacher's permissive-parse convention.
func (f *Format) UnmarshalText(b []byte) error {
	*f = FormatNone

	s := strings.TrimSpace(string(b))
	s = strings.Trim(s, "\"")
	s = strings.Trim(s, "'")

	for _, c := range Formats() {
		if strings.EqualFold(s, c.String()) {
			*f = c
			return nil
		}
	}
	return nil
}

func (f Format) MarshalJSON() ([]byte, error) {
	if f.IsNone() {
		return []byte("null"), nil
	}
	return append(append([]byte{'"'}, []byte(f.String())...), '"'), nil
}

func (f *Format) UnmarshalJSON(b []byte) error {
	var s string
	if bytes.Equal(b, []byte("null")) {
		*f = FormatNone
		return nil
	} else if err := json.Unmarshal(b, &s); err != nil {
		return err
	} else {
		return f.UnmarshalText([]byte(s))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (f Filter) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

func (f *Filter) UnmarshalText(b []byte) error {
	*f = FilterNone

	s := strings.TrimSpace(string(b))
	s = strings.Trim(s, "\"")
	s = strings.Trim(s, "'")

	for _, c := range Filters() {
		if strings.EqualFold(s, c.String()) {
			*f = c
			return nil
		}
	}
	return nil
}

func (f Filter) MarshalJSON() ([]byte, error) {
	if f.IsNone() {
		return []byte("null"), nil
	}
	return append(append([]byte{'"'}, []byte(f.String())...), '"'), nil
}

func (f *Filter) UnmarshalJSON(b []byte) error {
	var s string
	if bytes.Equal(b, []byte("null")) {
		*f = FilterNone
		return nil
	} else if err := json.Unmarshal(b, &s); err != nil {
		return err
	} else {
		return f.UnmarshalText([]byte(s))
	}
}
