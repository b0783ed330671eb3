// Package patch provides a JSON field wrapper for partial updates that tells an
// omitted field apart from one explicitly set to null.
package patch

import (
	"bytes"
	"encoding/json"
)

// Field holds one optional member of an update payload.
//
// Set is true whenever the key appeared in the JSON document. Null is true when
// the key appeared with a JSON null value.
type Field[T any] struct {
	Set   bool
	Null  bool
	Value T
}

// Value returns a Field carrying v.
func Value[T any](v T) Field[T] {
	return Field[T]{Set: true, Value: v}
}

// Null returns a Field explicitly set to null.
func Null[T any]() Field[T] {
	return Field[T]{Set: true, Null: true}
}

// Present reports whether the field carries a non-null value.
func (f Field[T]) Present() bool {
	return f.Set && !f.Null
}

// UnmarshalJSON is only invoked by encoding/json when the key is present.
func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		var zero T
		f.Null = true
		f.Value = zero
		return nil
	}
	f.Null = false
	return json.Unmarshal(data, &f.Value)
}

// MarshalJSON encodes an absent or null field as null.
func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.Present() {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

// Apply copies a present value into dst and reports whether it wrote.
func (f Field[T]) Apply(dst *T) bool {
	if !f.Present() {
		return false
	}
	*dst = f.Value
	return true
}

// ApplyNullable copies the field into a nullable destination: a value is stored
// by pointer and an explicit null clears it.
func (f Field[T]) ApplyNullable(dst **T) bool {
	if !f.Set {
		return false
	}
	if f.Null {
		*dst = nil
		return true
	}
	v := f.Value
	*dst = &v
	return true
}
