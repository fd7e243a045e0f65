package heap

import (
	"heapstore/pkg/concurrency/transaction"
	dberror "heapstore/pkg/error"
	"heapstore/pkg/primitives"
	"heapstore/pkg/storage/page"
	"heapstore/pkg/tuple"
)

// HeapFileIterator provides iteration over all tuples in a HeapFile.
// Pages are fetched read-only through the file's page cache one at a time;
// pages without tuples are skipped.
type HeapFileIterator struct {
	file        *HeapFile
	tid         *transaction.TransactionID
	currentPage primitives.PageNumber
	pageIter    *HeapPageIterator
	isOpen      bool
}

// NewHeapFileIterator creates a new iterator for the given HeapFile
func NewHeapFileIterator(file *HeapFile, tid *transaction.TransactionID) *HeapFileIterator {
	return &HeapFileIterator{
		file: file,
		tid:  tid,
	}
}

// Open positions the iterator on page 0 of the file, if it has one.
func (it *HeapFileIterator) Open() error {
	it.currentPage = 0
	it.pageIter = nil
	it.isOpen = true

	numPages, err := it.file.NumPages()
	if err != nil {
		return err
	}
	if numPages == 0 {
		return nil
	}
	return it.loadPage(0)
}

func (it *HeapFileIterator) loadPage(pageNo primitives.PageNumber) error {
	hp, err := it.file.getPage(it.tid, page.NewPageDescriptor(it.file.GetID(), pageNo), transaction.ReadOnly)
	if err != nil {
		return err
	}

	pageIter := hp.Iterator()
	if err := pageIter.Open(); err != nil {
		return err
	}

	it.currentPage = pageNo
	it.pageIter = pageIter
	return nil
}

// HasNext returns true if there are more tuples, advancing across empty pages.
func (it *HeapFileIterator) HasNext() (bool, error) {
	if !it.isOpen {
		return false, dberror.IllegalState("heap file iterator not opened")
	}

	for it.pageIter != nil {
		hasNext, err := it.pageIter.HasNext()
		if err != nil {
			return false, err
		}
		if hasNext {
			return true, nil
		}

		numPages, err := it.file.NumPages()
		if err != nil {
			return false, err
		}
		if it.currentPage+1 >= numPages {
			return false, nil
		}
		if err := it.loadPage(it.currentPage + 1); err != nil {
			return false, err
		}
	}

	return false, nil
}

// Next returns the next tuple
func (it *HeapFileIterator) Next() (*tuple.Tuple, error) {
	hasNext, err := it.HasNext()
	if err != nil {
		return nil, err
	}
	if !hasNext {
		return nil, dberror.NoSuchElement("no more tuples in file %s", it.file.GetID())
	}
	return it.pageIter.Next()
}

// Rewind restarts iteration from the first tuple of page 0.
func (it *HeapFileIterator) Rewind() error {
	if err := it.Close(); err != nil {
		return err
	}
	return it.Open()
}

// Close releases the current page iterator. Calling it again is a no-op.
func (it *HeapFileIterator) Close() error {
	if it.pageIter != nil {
		_ = it.pageIter.Close()
		it.pageIter = nil
	}
	it.currentPage = 0
	it.isOpen = false
	return nil
}

// GetTupleDesc returns the schema of the iterated file.
func (it *HeapFileIterator) GetTupleDesc() *tuple.TupleDescription {
	return it.file.GetTupleDesc()
}
