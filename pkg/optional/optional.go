// Package optional provides tri-state JSON fields for partial updates:
// a field is absent, explicitly null, or carries a value. Decode failures
// are captured per field instead of failing the whole document, so callers
// can report them in their own validation order.
package optional

import "encoding/json"

// Field distinguishes an absent JSON key from an explicit null and from a
// decoded value. The zero Field means the key was not present.
type Field[T any] struct {
	set   bool
	valid bool
	value T
	err   error
}

// Of returns a Field carrying the given value, as if it had been decoded.
func Of[T any](value T) Field[T] {
	return Field[T]{set: true, valid: true, value: value}
}

// Null returns a Field representing an explicit JSON null.
func Null[T any]() Field[T] {
	return Field[T]{set: true}
}

// IsSet reports whether the key was present at all.
func (f Field[T]) IsSet() bool { return f.set }

// IsNull reports whether the key was present with an explicit null.
func (f Field[T]) IsNull() bool { return f.set && !f.valid && f.err == nil }

// Value returns the decoded value and whether one is available.
func (f Field[T]) Value() (T, bool) { return f.value, f.valid }

// Err returns the decode error recorded for this field, if any.
func (f Field[T]) Err() error { return f.err }

func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.set = true
	if string(data) == "null" {
		return nil
	}
	if err := json.Unmarshal(data, &f.value); err != nil {
		f.err = err
		return nil
	}
	f.valid = true
	return nil
}

func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.valid {
		return []byte("null"), nil
	}
	return json.Marshal(f.value)
}
