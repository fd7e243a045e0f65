package types

import (
	"encoding/binary"
	"io"
	"math"
	"strconv"

	"heapstore/pkg/primitives"
)

// Float64Field is an IEEE-754 double, serialized big-endian.
//
// Equality is exact. Zero and negative zero are equal, and all NaNs are
// equal to each other, so Equals and Hash stay consistent.
type Float64Field struct {
	Value float64
}

func NewFloat64Field(value float64) *Float64Field {
	return &Float64Field{Value: value}
}

func (f *Float64Field) Serialize(w io.Writer) error {
	return serializeUint64(w, math.Float64bits(f.Value))
}

func (f *Float64Field) Compare(op primitives.Predicate, other Field) (bool, error) {
	switch o := other.(type) {
	case *Float64Field:
		return compareOrdered(f.Value, o.Value, op)
	case *IntField:
		return compareOrdered(f.Value, float64(o.Value), op)
	default:
		return false, mismatch(f, other)
	}
}

func (f *Float64Field) Type() Type {
	return FloatType
}

// String returns string representation of the float64
func (f *Float64Field) String() string {
	return strconv.FormatFloat(f.Value, 'f', -1, 64)
}

func (f *Float64Field) Equals(other Field) bool {
	otherFloat, ok := other.(*Float64Field)
	if !ok {
		return false
	}
	return canonicalBits(f.Value) == canonicalBits(otherFloat.Value)
}

func (f *Float64Field) Hash() (primitives.HashCode, error) {
	return hashBytes(toBytes64(canonicalBits(f.Value))), nil
}

func canonicalBits(v float64) uint64 {
	switch {
	case v == 0:
		return 0
	case math.IsNaN(v):
		return math.Float64bits(math.NaN())
	default:
		return math.Float64bits(v)
	}
}

func parseFloat64Field(r io.Reader) (*Float64Field, error) {
	b, err := readBytes(r, FloatType.Size())
	if err != nil {
		return nil, err
	}
	return NewFloat64Field(math.Float64frombits(binary.BigEndian.Uint64(b))), nil
}
