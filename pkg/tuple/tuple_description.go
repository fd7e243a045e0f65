package tuple

import (
	"slices"
	"strings"

	dberror "heapstore/pkg/error"
	"heapstore/pkg/types"
)

// TupleDescription is the row shape of a table or of an operator's output:
// an ordered list of field types with optional names. Upstream tuples may be
// anonymous (FieldNames nil); operators name the columns they synthesize.
type TupleDescription struct {
	Types      []types.Type
	FieldNames []string // nil when the fields are unnamed
}

// NewTupleDesc builds a descriptor over copies of fieldTypes and fieldNames.
//
// Parameters:
//   - fieldTypes: at least one field type
//   - fieldNames: nil, or one name per type
//
// Returns:
//   - *TupleDescription: the descriptor
//   - error: INVALID_ARGUMENT for no types or a name count that differs from the type count
func NewTupleDesc(fieldTypes []types.Type, fieldNames []string) (*TupleDescription, error) {
	if len(fieldTypes) == 0 {
		return nil, dberror.InvalidArgument("must provide at least one field type")
	}
	if fieldNames != nil && len(fieldNames) != len(fieldTypes) {
		return nil, dberror.InvalidArgument("field names length (%d) must match field types length (%d)",
			len(fieldNames), len(fieldTypes))
	}

	return &TupleDescription{
		Types:      slices.Clone(fieldTypes),
		FieldNames: slices.Clone(fieldNames),
	}, nil
}

// NumFields returns the arity of the described tuples.
func (td *TupleDescription) NumFields() int {
	return len(td.Types)
}

func (td *TupleDescription) checkIndex(i int) error {
	if i < 0 || i >= len(td.Types) {
		return dberror.InvalidArgument("field index %d out of bounds [0, %d)", i, len(td.Types))
	}
	return nil
}

// GetFieldName returns the name of field i, or "" when the fields are unnamed.
func (td *TupleDescription) GetFieldName(i int) (string, error) {
	if err := td.checkIndex(i); err != nil {
		return "", err
	}
	if td.FieldNames == nil {
		return "", nil
	}
	return td.FieldNames[i], nil
}

// TypeAtIndex returns the type of field i.
func (td *TupleDescription) TypeAtIndex(i int) (types.Type, error) {
	if err := td.checkIndex(i); err != nil {
		return 0, err
	}
	return td.Types[i], nil
}

// GetSize returns the fixed on-page width of one tuple: the sum of its field widths.
func (td *TupleDescription) GetSize() uint32 {
	var size uint32
	for _, t := range td.Types {
		size += t.Size()
	}
	return size
}

// Equals reports whether other describes the same field types in the same
// order. Names do not take part.
func (td *TupleDescription) Equals(other *TupleDescription) bool {
	return other != nil && slices.Equal(td.Types, other.Types)
}

// String renders the descriptor as "TYPE(name),TYPE(name)", using "null"
// for unnamed fields.
func (td *TupleDescription) String() string {
	parts := make([]string, len(td.Types))
	for i, t := range td.Types {
		name := "null"
		if td.FieldNames != nil {
			name = td.FieldNames[i]
		}
		parts[i] = t.String() + "(" + name + ")"
	}
	return strings.Join(parts, ",")
}

// FindFieldIndex returns the index of the first field named fieldName.
func (td *TupleDescription) FindFieldIndex(fieldName string) (int, error) {
	if idx := slices.Index(td.FieldNames, fieldName); idx >= 0 {
		return idx, nil
	}
	return -1, dberror.InvalidArgument("column %s not found", fieldName)
}
