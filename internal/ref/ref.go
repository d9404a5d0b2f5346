// Package ref models upstream fields that arrive either as a raw id
// string or as the fully populated object, without scattering type
// switches across handlers.
package ref

import (
	"encoding/json"
	"errors"
)

var ErrNotExpanded = errors.New("reference not expanded")

type Kind int

const (
	None Kind = iota
	ID
	Expanded
)

type Reference[T any] struct {
	kind  Kind
	id    string
	value T
}

func FromID[T any](id string) Reference[T] {
	return Reference[T]{kind: ID, id: id}
}

func FromValue[T any](v T) Reference[T] {
	return Reference[T]{kind: Expanded, value: v}
}

func (r Reference[T]) Kind() Kind { return r.kind }

// IDOf returns the id regardless of shape, provided the expanded type
// exposes one through Identifiable.
func (r Reference[T]) IDOf() string {
	if r.kind == Expanded {
		if v, ok := any(r.value).(Identifiable); ok {
			return v.RefID()
		}
	}
	return r.id
}

// Value narrows to the expanded object.
func (r Reference[T]) Value() (T, error) {
	var zero T
	if r.kind != Expanded {
		return zero, ErrNotExpanded
	}
	return r.value, nil
}

type Identifiable interface {
	RefID() string
}

func (r *Reference[T]) UnmarshalJSON(data []byte) error {
	if len(data) == 0 || string(data) == "null" {
		*r = Reference[T]{}
		return nil
	}

	var id string
	if err := json.Unmarshal(data, &id); err == nil {
		*r = FromID[T](id)
		return nil
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*r = FromValue(v)
	return nil
}

func (r Reference[T]) MarshalJSON() ([]byte, error) {
	switch r.kind {
	case ID:
		return json.Marshal(r.id)
	case Expanded:
		return json.Marshal(r.value)
	default:
		return []byte("null"), nil
	}
}
