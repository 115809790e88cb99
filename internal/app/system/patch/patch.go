// Package patch models partial updates as explicit field masks.
//
// A Field[T] records whether its JSON key appeared in the request body, so a
// handler can tell "not supplied" apart from "supplied with the zero value".
// Updates are built as an ordered list of (field, value) pairs and applied
// with a single $set.
package patch

import (
	"github.com/goccy/go-json"
	"go.mongodb.org/mongo-driver/bson"
)

// Field is an optional value whose presence is tracked during JSON decoding.
type Field[T any] struct {
	set   bool
	value T
}

// Of returns a Field that is present with value v.
func Of[T any](v T) Field[T] {
	return Field[T]{set: true, value: v}
}

// Set reports whether the key was present in the decoded body.
func (f Field[T]) Set() bool { return f.set }

// Value returns the decoded value (zero when not set).
func (f Field[T]) Value() T { return f.value }

// UnmarshalJSON marks the field present and decodes its value.
func (f *Field[T]) UnmarshalJSON(data []byte) error {
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	f.set = true
	f.value = v
	return nil
}

// Pair is one field assignment of an update.
type Pair struct {
	Field string
	Value any
}

// Mask accumulates the fields of a partial update in request order.
type Mask struct {
	pairs []Pair
}

// Add appends field=value unconditionally.
func (m *Mask) Add(field string, value any) {
	m.pairs = append(m.pairs, Pair{Field: field, Value: value})
}

// Empty reports whether no fields were supplied.
func (m *Mask) Empty() bool { return len(m.pairs) == 0 }

// Pairs returns the accumulated assignments.
func (m *Mask) Pairs() []Pair { return m.pairs }

// SetDoc returns the pairs as a bson.D suitable for {"$set": ...}.
func (m *Mask) SetDoc() bson.D {
	d := make(bson.D, 0, len(m.pairs))
	for _, p := range m.pairs {
		d = append(d, bson.E{Key: p.Field, Value: p.Value})
	}
	return d
}

// Apply adds name=f.Value() to m when f was supplied.
func Apply[T any](m *Mask, name string, f Field[T]) {
	if f.Set() {
		m.Add(name, f.Value())
	}
}
