package tuple

import (
	"strings"

	dberror "heapstore/pkg/error"
	"heapstore/pkg/types"
)

// Tuple represents a row of data in the database
type Tuple struct {
	TupleDesc *TupleDescription // Schema of this tuple
	fields    []types.Field     // The actual field values
	RecordID  *RecordID         // Where this tuple is stored (nil until stored)
}

// NewTuple creates a new tuple with the given schema
func NewTuple(td *TupleDescription) *Tuple {
	return &Tuple{
		TupleDesc: td,
		fields:    make([]types.Field, td.NumFields()),
	}
}

// SetField stores field at index i. The field type must match the schema.
func (t *Tuple) SetField(i int, field types.Field) error {
	if i < 0 || i >= len(t.fields) {
		return dberror.InvalidArgument("field index %d out of bounds [0, %d)", i, len(t.fields))
	}
	if field == nil {
		return dberror.InvalidArgument("field %d cannot be nil", i)
	}

	expectedType := t.TupleDesc.Types[i]
	if field.Type() != expectedType {
		return dberror.TypeMismatch("field %d: expected %v, got %v", i, expectedType, field.Type())
	}

	t.fields[i] = field
	return nil
}

// GetField returns the value of the ith field
func (t *Tuple) GetField(i int) (types.Field, error) {
	if i < 0 || i >= len(t.fields) {
		return nil, dberror.InvalidArgument("field index %d out of bounds [0, %d)", i, len(t.fields))
	}
	return t.fields[i], nil
}

// String returns a string representation of this tuple
// Format: field1\tfield2\tfield3\t...\tfieldN
func (t *Tuple) String() string {
	parts := make([]string, 0, len(t.fields))
	for _, field := range t.fields {
		if field != nil {
			parts = append(parts, field.String())
		} else {
			parts = append(parts, "null")
		}
	}
	return strings.Join(parts, "\t")
}

// Equals reports whether two tuples hold equal field values. Record ids are ignored.
func (t *Tuple) Equals(other *Tuple) bool {
	if other == nil || len(t.fields) != len(other.fields) {
		return false
	}
	for i, f := range t.fields {
		o := other.fields[i]
		if f == nil || o == nil {
			if f != o {
				return false
			}
			continue
		}
		if !f.Equals(o) {
			return false
		}
	}
	return true
}

// Clone creates a copy of this tuple without its record id.
func (t *Tuple) Clone() *Tuple {
	newTup := NewTuple(t.TupleDesc)
	copy(newTup.fields, t.fields)
	return newTup
}
