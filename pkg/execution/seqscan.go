package execution

import (
	"heapstore/pkg/concurrency/transaction"
	dberror "heapstore/pkg/error"
	"heapstore/pkg/iterator"
	"heapstore/pkg/storage/heap"
	"heapstore/pkg/tuple"
)

// SequentialScan implements a sequential scan operator that iterates through all tuples in a heap file.
type SequentialScan struct {
	*iterator.BaseOperator
	tid      *transaction.TransactionID
	file     *heap.HeapFile
	fileIter *heap.HeapFileIterator
}

// NewSeqScan creates a new sequential scan operator over file.
// It initializes the operator but does not open the underlying file iterator.
//
// Parameters:
//   - tid: Transaction ID for the scan operation
//   - file: Heap file to scan
//
// Returns:
//   - *SequentialScan: New sequential scan operator instance
//   - error: Error if file is nil
func NewSeqScan(tid *transaction.TransactionID, file *heap.HeapFile) (*SequentialScan, error) {
	if file == nil {
		return nil, dberror.InvalidArgument("file cannot be nil")
	}

	ss := &SequentialScan{
		tid:  tid,
		file: file,
	}
	ss.BaseOperator = iterator.NewBaseOperator(ss.fetchNext)
	return ss, nil
}

// Open initializes the sequential scan by opening the underlying file iterator.
func (ss *SequentialScan) Open() error {
	if ss.IsOpen() {
		return dberror.IllegalState("sequential scan already open")
	}

	ss.fileIter = ss.file.Iterator(ss.tid)
	if err := ss.fileIter.Open(); err != nil {
		return err
	}
	return ss.MarkOpened()
}

func (ss *SequentialScan) fetchNext() (*tuple.Tuple, error) {
	return iterator.FetchNext(ss.fileIter)
}

// Rewind restarts the scan at the first tuple of the file.
func (ss *SequentialScan) Rewind() error {
	if !ss.IsOpen() {
		return dberror.IllegalState("cannot rewind a closed sequential scan")
	}
	if err := ss.fileIter.Rewind(); err != nil {
		return err
	}
	ss.ClearCache()
	return nil
}

// GetTupleDesc returns the tuple description of the scanned file.
func (ss *SequentialScan) GetTupleDesc() *tuple.TupleDescription {
	return ss.file.GetTupleDesc()
}

// Close releases the file iterator.
func (ss *SequentialScan) Close() error {
	if ss.fileIter != nil {
		_ = ss.fileIter.Close()
		ss.fileIter = nil
	}
	return ss.BaseOperator.Close()
}
