package types

import (
	"encoding/binary"
	"fmt"
	"io"
	"strings"

	"heapstore/pkg/primitives"

	"github.com/OneOfOne/xxhash"
)

// StringField is a string of at most StringMaxSize bytes.
type StringField struct {
	Value string
}

// NewStringField creates a new StringField. Values longer than
// StringMaxSize bytes are truncated.
func NewStringField(value string) *StringField {
	if len(value) > StringMaxSize {
		value = value[:StringMaxSize]
	}
	return &StringField{Value: value}
}

// Compare performs a lexicographic comparison. Like is a substring match.
func (s *StringField) Compare(op primitives.Predicate, other Field) (bool, error) {
	otherString, ok := other.(*StringField)
	if !ok {
		return false, mismatch(s, other)
	}

	if op == primitives.Like {
		return strings.Contains(s.Value, otherString.Value), nil
	}
	return compareOrdered(s.Value, otherString.Value, op)
}

// Serialize writes the string field in binary format:
//  1. 4 bytes for the actual string length (big-endian uint32)
//  2. The string bytes
//  3. Zero padding up to StringMaxSize
func (s *StringField) Serialize(w io.Writer) error {
	length := min(len(s.Value), StringMaxSize)

	if err := serializeUint32(w, uint32(length)); err != nil { // #nosec G115
		return err
	}

	if _, err := io.WriteString(w, s.Value[:length]); err != nil {
		return err
	}

	_, err := w.Write(make([]byte, StringMaxSize-length))
	return err
}

// Type returns the type identifier for this field.
func (s *StringField) Type() Type {
	return StringType
}

// String returns the string value stored in this field.
func (s *StringField) String() string {
	return s.Value
}

func (s *StringField) Equals(other Field) bool {
	otherString, ok := other.(*StringField)
	if !ok {
		return false
	}
	return s.Value == otherString.Value
}

func (s *StringField) Hash() (primitives.HashCode, error) {
	return primitives.HashCode(xxhash.ChecksumString64(s.Value)), nil
}

// parseStringField reads a length-prefixed, zero padded string. A length
// larger than StringMaxSize means the bytes are not a string field.
func parseStringField(r io.Reader) (*StringField, error) {
	lengthBytes, err := readBytes(r, 4)
	if err != nil {
		return nil, err
	}

	length := binary.BigEndian.Uint32(lengthBytes)
	if length > StringMaxSize {
		return nil, fmt.Errorf("string length %d exceeds maximum %d", length, StringMaxSize)
	}

	payload, err := readBytes(r, StringMaxSize)
	if err != nil {
		return nil, err
	}

	return &StringField{Value: string(payload[:length])}, nil
}
