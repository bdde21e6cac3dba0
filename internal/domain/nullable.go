package domain

import (
	"bytes"
	"encoding/json"
)

// Nullable is a PATCH field that tells an absent key apart from an explicit
// null. Present is false when the key was missing; Value is nil when the key
// was sent as null.
type Nullable[T any] struct {
	Present bool
	Value   *T
}

func NullableOf[T any](v T) Nullable[T] {
	return Nullable[T]{Present: true, Value: &v}
}

func Null[T any]() Nullable[T] {
	return Nullable[T]{Present: true}
}

func (n *Nullable[T]) UnmarshalJSON(data []byte) error {
	n.Present = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		n.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	n.Value = &v
	return nil
}

// ApplyTo overwrites *dst when the key was present, clearing it on null.
func (n Nullable[T]) ApplyTo(dst **T) {
	if n.Present {
		*dst = n.Value
	}
}
