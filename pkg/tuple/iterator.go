package tuple

import (
	dberror "heapstore/pkg/error"
)

// Iterator replays a materialized slice of tuples. It satisfies
// iterator.DbIterator and backs finalized aggregate results.
type Iterator struct {
	tuples    []*Tuple
	tupleDesc *TupleDescription
	index     int
	opened    bool
}

// NewIterator returns a closed iterator over tuples, described by desc.
func NewIterator(tuples []*Tuple, desc *TupleDescription) *Iterator {
	return &Iterator{
		tuples:    tuples,
		tupleDesc: desc,
		index:     -1,
	}
}

// Open positions the iterator before the first tuple.
func (it *Iterator) Open() error {
	it.opened = true
	it.index = -1
	return nil
}

// Close releases the position; Open may be called again.
func (it *Iterator) Close() error {
	it.opened = false
	it.index = -1
	return nil
}

// HasNext reports whether Next has a tuple to return. ILLEGAL_STATE before Open.
func (it *Iterator) HasNext() (bool, error) {
	if !it.opened {
		return false, dberror.IllegalState("tuple iterator not opened")
	}
	return it.index+1 < len(it.tuples), nil
}

// Next returns the next tuple, or NO_SUCH_ELEMENT once the slice is exhausted.
func (it *Iterator) Next() (*Tuple, error) {
	hasNext, err := it.HasNext()
	if err != nil {
		return nil, err
	}
	if !hasNext {
		return nil, dberror.NoSuchElement("tuple iterator exhausted")
	}

	it.index++
	return it.tuples[it.index], nil
}

// Rewind restarts iteration from the first tuple.
func (it *Iterator) Rewind() error {
	if !it.opened {
		return dberror.IllegalState("tuple iterator not opened")
	}
	it.index = -1
	return nil
}

// GetTupleDesc returns the schema of the replayed tuples.
func (it *Iterator) GetTupleDesc() *TupleDescription {
	return it.tupleDesc
}

// Len returns the number of tuples the iterator replays.
func (it *Iterator) Len() int {
	return len(it.tuples)
}
