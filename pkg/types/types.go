package types

// Type identifies the storage type of a field. Every type has a fixed
// serialized width so tuples of one schema always have the same size.
type Type int

const (
	IntType Type = iota
	StringType
	FloatType
)

// StringMaxSize is the number of payload bytes reserved for every string field.
const StringMaxSize = 128

// Size returns the number of bytes a field of this type occupies on a page.
func (t Type) Size() uint32 {
	switch t {
	case IntType, FloatType:
		return 8
	case StringType:
		return 4 + StringMaxSize
	default:
		return 0
	}
}

// IsNumeric reports whether values of this type support SUM, AVG, MIN and MAX.
func (t Type) IsNumeric() bool {
	return t == IntType || t == FloatType
}

// String returns a string representation of the type
func (t Type) String() string {
	switch t {
	case IntType:
		return "INT_TYPE"
	case StringType:
		return "STRING_TYPE"
	case FloatType:
		return "FLOAT_TYPE"
	default:
		return "UNKNOWN_TYPE"
	}
}

// ParseType maps a schema keyword ("int", "string", "float") onto a Type.
func ParseType(name string) (Type, bool) {
	switch name {
	case "int", "INT", "int64", "INT_TYPE":
		return IntType, true
	case "string", "STRING", "text", "TEXT", "STRING_TYPE":
		return StringType, true
	case "float", "FLOAT", "float64", "double", "FLOAT_TYPE":
		return FloatType, true
	default:
		return 0, false
	}
}
