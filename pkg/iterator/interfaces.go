package iterator

import "heapstore/pkg/tuple"

// TupleIterator is a minimal interface that captures the common iteration methods
// shared by both DbIterator and DbFileIterator. This allows writing generic
// utility functions that work with any iterator type.
type TupleIterator interface {
	// HasNext checks if there are more tuples available without consuming them.
	HasNext() (bool, error)

	// Next retrieves and returns the next tuple from the iterator.
	Next() (*tuple.Tuple, error)
}

// DbFileIterator defines the interface for iterating over tuples in a database file.
// This is a lower-level interface used by storage layer implementations like HeapFile.
type DbFileIterator interface {
	TupleIterator

	// Open prepares the iterator for use by initializing internal state and resources.
	Open() error

	// Rewind resets the iterator to the beginning of the tuple sequence.
	Rewind() error

	// Close releases any resources held by the iterator. Calling it twice is safe.
	Close() error
}

// DbIterator defines the contract for all database iterators in the execution engine.
// It provides a standardized interface for traversing through collections of tuples
// from various data sources such as tables or intermediate query results.
type DbIterator interface {
	TupleIterator

	// Open initializes the iterator and prepares it for tuple retrieval.
	// This method must be called before any other iterator operations.
	Open() error

	// Rewind resets the iterator position to the beginning of the data sequence.
	// After rewinding, the next call to Next() should return the first tuple again.
	Rewind() error

	// Close releases all resources associated with the iterator and marks it as closed.
	// Calling Close() on an already closed iterator is safe.
	Close() error

	// GetTupleDesc returns the schema description for tuples produced by this iterator.
	// This method can be called regardless of iterator state.
	GetTupleDesc() *tuple.TupleDescription
}

// Operator is a DbIterator that pulls from child iterators.
type Operator interface {
	DbIterator

	// Children returns the operator's inputs in positional order.
	Children() []DbIterator

	// SetChildren replaces the operator's inputs.
	SetChildren(children []DbIterator) error
}
