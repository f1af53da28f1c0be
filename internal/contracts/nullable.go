package contracts

import (
	"bytes"
	"encoding/json"
	"math"
)

// Nullable scalar types for artifact schemas. A missing reading is an
// explicit state ("no evidence"), distinct from zero or false, and it
// round-trips through JSON as null.

var jsonNull = []byte("null")

// NullFloat64 is a float64 that may be null.
type NullFloat64 struct {
	Float64 float64
	Valid   bool
}

// Float returns a valid NullFloat64.
func Float(v float64) NullFloat64 {
	return NullFloat64{Float64: v, Valid: true}
}

// MarshalJSON encodes null when invalid. NaN and infinities are encoded
// as null as well, since JSON has no representation for them.
func (n NullFloat64) MarshalJSON() ([]byte, error) {
	if !n.Valid || math.IsNaN(n.Float64) || math.IsInf(n.Float64, 0) {
		return jsonNull, nil
	}
	return json.Marshal(n.Float64)
}

// UnmarshalJSON decodes null (or an absent field) to the invalid state.
func (n *NullFloat64) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), jsonNull) {
		*n = NullFloat64{}
		return nil
	}
	if err := json.Unmarshal(data, &n.Float64); err != nil {
		return err
	}
	n.Valid = true
	return nil
}

// NullBool is a bool that may be null.
type NullBool struct {
	Bool  bool
	Valid bool
}

// Bool returns a valid NullBool.
func Bool(v bool) NullBool {
	return NullBool{Bool: v, Valid: true}
}

// True reports whether the value is valid and true.
func (n NullBool) True() bool {
	return n.Valid && n.Bool
}

// MarshalJSON encodes null when invalid.
func (n NullBool) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return jsonNull, nil
	}
	return json.Marshal(n.Bool)
}

// UnmarshalJSON decodes null (or an absent field) to the invalid state.
func (n *NullBool) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), jsonNull) {
		*n = NullBool{}
		return nil
	}
	if err := json.Unmarshal(data, &n.Bool); err != nil {
		return err
	}
	n.Valid = true
	return nil
}
