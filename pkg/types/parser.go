package types

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ParseField reads one field of the given type from r.
//
// Parameters:
//   - r: The reader positioned at the start of the field
//   - fieldType: The Type of field to parse
//
// Returns:
//   - Field: The parsed field
//   - error: If the type is unknown, the data is incomplete, or the bytes are not a valid field
func ParseField(r io.Reader, fieldType Type) (Field, error) {
	switch fieldType {
	case IntType:
		return parseIntField(r)

	case StringType:
		return parseStringField(r)

	case FloatType:
		return parseFloat64Field(r)

	default:
		return nil, fmt.Errorf("unsupported field type: %v", fieldType)
	}
}

// ParseConstant builds a field of type t from its textual form, as typed on
// a command line or in a predicate.
func ParseConstant(t Type, constant string) (Field, error) {
	switch t {
	case IntType:
		v, err := strconv.ParseInt(strings.TrimSpace(constant), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid int constant %q: %w", constant, err)
		}
		return NewIntField(v), nil

	case FloatType:
		v, err := strconv.ParseFloat(strings.TrimSpace(constant), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid float constant %q: %w", constant, err)
		}
		return NewFloat64Field(v), nil

	case StringType:
		return NewStringField(constant), nil

	default:
		return nil, fmt.Errorf("unsupported field type: %v", t)
	}
}
