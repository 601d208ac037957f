package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Attr is an optional free-text attribute of a report, such as color or brand.
// The zero value is absent.
type Attr struct {
	Text  string
	Valid bool
}

// NoAttr is the absent attribute.
var NoAttr = Attr{}

// SomeAttr returns a present attribute. An empty string yields NoAttr.
func SomeAttr(v string) Attr {
	if v == "" {
		return NoAttr
	}
	return Attr{Text: v, Valid: true}
}

// Present reports whether the attribute carries a non-empty value.
func (a Attr) Present() bool {
	return a.Valid && a.Text != ""
}

// String returns the value, or "" when absent.
func (a Attr) String() string {
	if !a.Valid {
		return ""
	}
	return a.Text
}

// Scan implements sql.Scanner.
func (a *Attr) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*a = NoAttr
	case string:
		*a = SomeAttr(v)
	case []byte:
		*a = SomeAttr(string(v))
	default:
		return fmt.Errorf("scanning attr: unsupported type %T", src)
	}
	return nil
}

// Value implements driver.Valuer. Absent attributes are stored as NULL.
func (a Attr) Value() (driver.Value, error) {
	if !a.Present() {
		return nil, nil
	}
	return a.Text, nil
}

// MarshalJSON encodes an absent attribute as null.
func (a Attr) MarshalJSON() ([]byte, error) {
	if !a.Present() {
		return []byte("null"), nil
	}
	return json.Marshal(a.Text)
}

// UnmarshalJSON accepts a string or null.
func (a *Attr) UnmarshalJSON(data []byte) error {
	var v *string
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	if v == nil {
		*a = NoAttr
		return nil
	}
	*a = SomeAttr(*v)
	return nil
}
