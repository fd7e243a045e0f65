package iterator

import (
	dberror "heapstore/pkg/error"
	"heapstore/pkg/tuple"
)

// State is the lifecycle state of an operator.
type State int

const (
	StateClosed State = iota
	StateOpen
)

func (s State) String() string {
	if s == StateOpen {
		return "OPEN"
	}
	return "CLOSED"
}

// FetchNextFunc produces an operator's next output tuple.
// Returns:
//   - *tuple.Tuple: Next tuple from the data source, or nil if no more tuples
//   - error: Error if reading fails, nil on success or end of data
type FetchNextFunc func() (*tuple.Tuple, error)

// BaseOperator implements the lookahead and state management shared by all
// operators. The operator supplies the fetch function; BaseOperator turns it
// into HasNext/Next with a one-tuple lookahead slot.
type BaseOperator struct {
	state     State
	nextTuple *tuple.Tuple // Cached next tuple for lookahead operations
	fetchNext FetchNextFunc
}

// NewBaseOperator creates a closed base operator around fetchNext.
func NewBaseOperator(fetchNext FetchNextFunc) *BaseOperator {
	return &BaseOperator{fetchNext: fetchNext}
}

// State returns the current lifecycle state.
func (b *BaseOperator) State() State {
	return b.state
}

// IsOpen reports whether the operator has been opened and not yet closed.
func (b *BaseOperator) IsOpen() bool {
	return b.state == StateOpen
}

// MarkOpened moves the operator to the open state with an empty lookahead slot.
// Opening an already open operator fails with ILLEGAL_STATE.
func (b *BaseOperator) MarkOpened() error {
	if b.state == StateOpen {
		return dberror.IllegalState("operator already open")
	}
	b.state = StateOpen
	b.nextTuple = nil
	return nil
}

// HasNext checks if there is a next tuple available without consuming it.
// This method implements lookahead by caching the next tuple if not already cached.
func (b *BaseOperator) HasNext() (bool, error) {
	if b.state != StateOpen {
		return false, dberror.IllegalState("operator not open")
	}

	if b.nextTuple == nil {
		t, err := b.fetchNext()
		if err != nil {
			return false, err
		}
		b.nextTuple = t
	}
	return b.nextTuple != nil, nil
}

// Next returns the next tuple and advances. At the end of the stream it
// fails with NO_SUCH_ELEMENT.
func (b *BaseOperator) Next() (*tuple.Tuple, error) {
	hasNext, err := b.HasNext()
	if err != nil {
		return nil, err
	}
	if !hasNext {
		return nil, dberror.NoSuchElement("no more tuples")
	}

	result := b.nextTuple
	b.nextTuple = nil
	return result, nil
}

// ClearCache drops the lookahead tuple. Operators call it when they rewind.
func (b *BaseOperator) ClearCache() {
	b.nextTuple = nil
}

// Close drops the lookahead tuple and marks the operator closed.
func (b *BaseOperator) Close() error {
	b.nextTuple = nil
	b.state = StateClosed
	return nil
}
