package page

import (
	"heapstore/pkg/concurrency/transaction"
	"heapstore/pkg/primitives"
	"heapstore/pkg/tuple"
)

// DbFile represents a database file that stores tuples on pages.
type DbFile interface {
	// ReadPage reads a page from disk. Fails with INVALID_PAGE when the page
	// is outside the file.
	ReadPage(pid primitives.PageID) (Page, error)

	// WritePage persists a page at its designated location and marks it clean.
	WritePage(p Page) error

	// ParsePage decodes a page image without touching the disk.
	ParsePage(pid PageDescriptor, data []byte) (Page, error)

	// InsertTuple stores t and returns the pages it dirtied.
	InsertTuple(tid *transaction.TransactionID, t *tuple.Tuple) ([]Page, error)

	// DeleteTuple removes t, located by its record id, and returns the pages it dirtied.
	DeleteTuple(tid *transaction.TransactionID, t *tuple.Tuple) ([]Page, error)

	// NumPages returns the number of full pages in the file.
	NumPages() (primitives.PageNumber, error)

	// GetID returns the unique identifier of the database file.
	GetID() primitives.FileID

	// GetTupleDesc returns the schema of the tuples stored in the file.
	GetTupleDesc() *tuple.TupleDescription

	// Close releases the file handle.
	Close() error
}
