// Package params implements the case-sensitivity-aware argument map and
// the typed field readers built on top of it: GET query strings compare
// keys case-insensitively, PUT bodies compare case-sensitively.
package params

import (
	"strconv"
	"strings"

	"github.com/nexstar-alpaca/bridge/internal/alpacaerr"
	"github.com/nexstar-alpaca/bridge/internal/result"
)

// Map is an ordered key/value string map whose lookup comparator is
// fixed at construction time. Values are kept as raw strings until
// parsed on demand by a Field.
type Map struct {
	keys          []string
	values        []string
	caseSensitive bool
}

// NewInsensitive builds a Map for GET query-string parameters, where
// keys compare case-insensitively.
func NewInsensitive() *Map {
	return &Map{caseSensitive: false}
}

// NewSensitive builds a Map for PUT body parameters, where keys compare
// case-sensitively.
func NewSensitive() *Map {
	return &Map{caseSensitive: true}
}

// Set records key=value, preserving insertion order on first sight.
func (m *Map) Set(key, value string) {
	if _, ok := m.find(key); ok {
		return
	}
	m.keys = append(m.keys, key)
	m.values = append(m.values, value)
}

func (m *Map) find(key string) (int, bool) {
	for i, k := range m.keys {
		if m.equalKeys(k, key) {
			return i, true
		}
	}
	return 0, false
}

func (m *Map) equalKeys(a, b string) bool {
	if m.caseSensitive {
		return a == b
	}
	return strings.EqualFold(a, b)
}

// Lookup returns the raw string for key and whether it was present.
func (m *Map) Lookup(key string) (string, bool) {
	if i, ok := m.find(key); ok {
		return m.values[i], true
	}
	return "", false
}

// Field is a (name, semantic type) descriptor. Reading a missing field
// yields a custom error naming the field; reading a value that fails
// decoding yields a different custom error, also naming the field.
type Field[T any] struct {
	Name string
	conv func(string) (T, bool)
}

// Get reads and decodes the field from args.
func (f Field[T]) Get(args *Map) result.Result[T] {
	raw, ok := args.Lookup(f.Name)
	if !ok {
		return result.Err[T](alpacaerr.FieldNotFound(f.Name))
	}
	v, ok := f.conv(raw)
	if !ok {
		return result.Err[T](alpacaerr.FieldInvalid(f.Name))
	}
	return result.Ok(v)
}

// BoolField declares a boolean field. "true"/"false" compare
// case-insensitively.
func BoolField(name string) Field[bool] {
	return Field[bool]{Name: name, conv: func(v string) (bool, bool) {
		if strings.EqualFold(v, "true") {
			return true, true
		}
		if strings.EqualFold(v, "false") {
			return false, true
		}
		return false, false
	}}
}

// IntField declares a decimal integer field, optionally signed.
func IntField(name string) Field[int] {
	return Field[int]{Name: name, conv: func(v string) (int, bool) {
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return 0, false
		}
		return int(n), true
	}}
}

// FloatField declares a float field, accepting any representation
// strconv.ParseFloat accepts.
func FloatField(name string) Field[float64] {
	return Field[float64]{Name: name, conv: func(v string) (float64, bool) {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}}
}

// StringField declares a raw string field; decoding never fails.
func StringField(name string) Field[string] {
	return Field[string]{Name: name, conv: func(v string) (string, bool) {
		return v, true
	}}
}

// Build2 composes two field reads into S via the leftmost-error join,
// matching the composite builder described for the argument parser.
func Build2[A, B, S any](args *Map, fa Field[A], fb Field[B], f func(A, B) S) result.Result[S] {
	ra := fa.Get(args)
	a, ok := ra.Value()
	if !ok {
		return result.Err[S](ra.Error())
	}
	rb := fb.Get(args)
	b, ok := rb.Value()
	if !ok {
		return result.Err[S](rb.Error())
	}
	return result.Ok(f(a, b))
}
