package types

import (
	"io"

	"heapstore/pkg/primitives"
)

// Field is a single typed value inside a tuple.
//
// Equals and Hash form a contract: fields that are Equal must return the
// same Hash. Grouping tables rely on it.
type Field interface {
	// Serialize writes exactly Type().Size() bytes.
	Serialize(w io.Writer) error

	// Compare evaluates "f op other".
	Compare(op primitives.Predicate, other Field) (bool, error)

	Type() Type

	String() string

	Equals(other Field) bool

	Hash() (primitives.HashCode, error)
}
