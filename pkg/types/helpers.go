package types

import (
	"cmp"
	"encoding/binary"
	"fmt"
	"io"

	"heapstore/pkg/primitives"

	"github.com/OneOfOne/xxhash"
)

// compareOrdered performs a comparison between two ordered values using the given predicate.
func compareOrdered[T cmp.Ordered](a, b T, op primitives.Predicate) (bool, error) {
	switch op {
	case primitives.Equals:
		return a == b, nil
	case primitives.LessThan:
		return a < b, nil
	case primitives.GreaterThan:
		return a > b, nil
	case primitives.LessThanOrEqual:
		return a <= b, nil
	case primitives.GreaterThanOrEqual:
		return a >= b, nil
	case primitives.NotEqual:
		return a != b, nil
	default:
		return false, fmt.Errorf("unsupported predicate %v", op)
	}
}

func mismatch(f, other Field) error {
	if other == nil {
		return fmt.Errorf("cannot compare %v with nil field", f.Type())
	}
	return fmt.Errorf("cannot compare %v with %v", f.Type(), other.Type())
}

func hashBytes(data []byte) primitives.HashCode {
	return primitives.HashCode(xxhash.Checksum64(data))
}

// serializeUint32 writes a uint32 value to the writer in big-endian byte order.
func serializeUint32(w io.Writer, v uint32) error {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, v)
	_, err := w.Write(b)
	return err
}

// serializeUint64 writes a uint64 value to the writer in big-endian byte order.
func serializeUint64(w io.Writer, v uint64) error {
	_, err := w.Write(toBytes64(v))
	return err
}

// readBytes reads exactly size bytes from the reader.
func readBytes(r io.Reader, size uint32) ([]byte, error) {
	buf := make([]byte, size)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// toBytes64 converts a uint64 value to an 8-byte big-endian slice.
func toBytes64(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}
