package execution

import (
	"heapstore/pkg/concurrency/transaction"
	dberror "heapstore/pkg/error"
	"heapstore/pkg/iterator"
	"heapstore/pkg/logging"
	"heapstore/pkg/tuple"
	"heapstore/pkg/types"
)

// TupleDeleter removes a stored tuple on behalf of a transaction.
type TupleDeleter interface {
	DeleteTuple(tid *transaction.TransactionID, t *tuple.Tuple) error
}

// Delete removes every tuple its child produces and emits a single tuple
// holding the number removed. The count is computed once per Open or Rewind.
type Delete struct {
	*iterator.UnaryOperator
	tid       *transaction.TransactionID
	deleter   TupleDeleter
	tupleDesc *tuple.TupleDescription
	done      bool
}

// NewDelete creates a delete operator that removes child's tuples through deleter.
func NewDelete(tid *transaction.TransactionID, child iterator.DbIterator, deleter TupleDeleter) (*Delete, error) {
	if tid == nil {
		return nil, dberror.InvalidArgument("transaction ID cannot be nil")
	}
	if deleter == nil {
		return nil, dberror.InvalidArgument("deleter cannot be nil")
	}

	td, err := tuple.NewTupleDesc([]types.Type{types.IntType}, []string{"deleted"})
	if err != nil {
		return nil, err
	}

	d := &Delete{
		tid:       tid,
		deleter:   deleter,
		tupleDesc: td,
	}
	unary, err := iterator.NewUnaryOperator(child, d.fetchNext)
	if err != nil {
		return nil, err
	}
	d.UnaryOperator = unary
	return d, nil
}

// Open opens the child; the deletion itself happens on the first fetch.
func (d *Delete) Open() error {
	if err := d.UnaryOperator.Open(); err != nil {
		return err
	}
	d.done = false
	return nil
}

// Rewind rewinds the child so the next fetch deletes again.
func (d *Delete) Rewind() error {
	if err := d.UnaryOperator.Rewind(); err != nil {
		return err
	}
	d.done = false
	return nil
}

// GetTupleDesc returns the single-column (deleted INT) schema.
func (d *Delete) GetTupleDesc() *tuple.TupleDescription {
	return d.tupleDesc
}

func (d *Delete) fetchNext() (*tuple.Tuple, error) {
	if d.done {
		return nil, nil
	}
	d.done = true

	count := int64(0)
	for {
		t, err := d.FetchNext()
		if err != nil {
			return nil, err
		}
		if t == nil {
			break
		}

		if err := d.deleter.DeleteTuple(d.tid, t); err != nil {
			return nil, err
		}
		count++
	}

	logging.WithTx(d.tid.ID()).WithField("deleted", count).Debug("delete finished")

	result := tuple.NewTuple(d.tupleDesc)
	if err := result.SetField(0, types.NewIntField(count)); err != nil {
		return nil, err
	}
	return result, nil
}
