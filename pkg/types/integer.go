package types

import (
	"encoding/binary"
	"io"
	"strconv"

	"heapstore/pkg/primitives"
)

// IntField is a signed 64-bit integer field, serialized big-endian.
type IntField struct {
	Value int64
}

func NewIntField(value int64) *IntField {
	return &IntField{Value: value}
}

func (f *IntField) Serialize(w io.Writer) error {
	return serializeUint64(w, uint64(f.Value)) // #nosec G115
}

func (f *IntField) Compare(op primitives.Predicate, other Field) (bool, error) {
	switch o := other.(type) {
	case *IntField:
		return compareOrdered(f.Value, o.Value, op)
	case *Float64Field:
		return compareOrdered(float64(f.Value), o.Value, op)
	default:
		return false, mismatch(f, other)
	}
}

func (f *IntField) Type() Type {
	return IntType
}

func (f *IntField) String() string {
	return strconv.FormatInt(f.Value, 10)
}

func (f *IntField) Equals(other Field) bool {
	otherInt, ok := other.(*IntField)
	if !ok {
		return false
	}
	return f.Value == otherInt.Value
}

func (f *IntField) Hash() (primitives.HashCode, error) {
	return hashBytes(toBytes64(uint64(f.Value))), nil // #nosec G115
}

func parseIntField(r io.Reader) (*IntField, error) {
	b, err := readBytes(r, IntType.Size())
	if err != nil {
		return nil, err
	}
	return NewIntField(int64(binary.BigEndian.Uint64(b))), nil // #nosec G115
}
