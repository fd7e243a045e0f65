package iterator

import (
	dberror "heapstore/pkg/error"
	"heapstore/pkg/tuple"
)

// UnaryOperator provides a base implementation for operators with a single child.
// It combines BaseOperator's lookahead logic with child operator management,
// eliminating boilerplate code in Filter, Delete and similar operators.
//
// UnaryOperator handles:
//   - Opening/closing the child operator
//   - Providing FetchNext helper for reading from child
//   - Managing rewind operations
//   - Forwarding tuple schema from child
type UnaryOperator struct {
	*BaseOperator
	child DbIterator
}

// NewUnaryOperator creates a new unary operator base with the given child and fetch function.
func NewUnaryOperator(child DbIterator, fetchNext FetchNextFunc) (*UnaryOperator, error) {
	if child == nil {
		return nil, dberror.InvalidArgument("child operator cannot be nil")
	}

	return &UnaryOperator{
		BaseOperator: NewBaseOperator(fetchNext),
		child:        child,
	}, nil
}

// FetchNext retrieves the next tuple from the child operator, or nil at its end.
func (u *UnaryOperator) FetchNext() (*tuple.Tuple, error) {
	return FetchNext(u.child)
}

// Open opens the child operator and marks this operator as ready.
func (u *UnaryOperator) Open() error {
	if u.IsOpen() {
		return dberror.IllegalState("operator already open")
	}
	if err := u.child.Open(); err != nil {
		return err
	}
	return u.MarkOpened()
}

// Close closes the child operator and releases resources.
func (u *UnaryOperator) Close() error {
	childErr := u.child.Close()
	_ = u.BaseOperator.Close()
	return childErr
}

// Rewind resets both the child operator and the lookahead slot.
func (u *UnaryOperator) Rewind() error {
	if !u.IsOpen() {
		return dberror.IllegalState("cannot rewind a closed operator")
	}
	if err := u.child.Rewind(); err != nil {
		return err
	}
	u.ClearCache()
	return nil
}

// GetTupleDesc returns the child's tuple description.
// Operators that transform the schema should override this method.
func (u *UnaryOperator) GetTupleDesc() *tuple.TupleDescription {
	return u.child.GetTupleDesc()
}

// GetChild returns the child operator.
func (u *UnaryOperator) GetChild() DbIterator {
	return u.child
}

// Children returns the single child at index 0.
func (u *UnaryOperator) Children() []DbIterator {
	return []DbIterator{u.child}
}

// SetChildren replaces the child with children[0]. The operator must be closed.
func (u *UnaryOperator) SetChildren(children []DbIterator) error {
	if u.IsOpen() {
		return dberror.IllegalState("cannot replace the child of an open operator")
	}
	if len(children) != 1 || children[0] == nil {
		return dberror.InvalidArgument("expected exactly one child, got %d", len(children))
	}
	u.child = children[0]
	return nil
}
