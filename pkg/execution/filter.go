package execution

import (
	dberror "heapstore/pkg/error"
	"heapstore/pkg/iterator"
	"heapstore/pkg/tuple"
)

// Filter passes through the child tuples that satisfy its predicate.
// The output schema is the child's.
type Filter struct {
	*iterator.UnaryOperator
	predicate TupleFilter
}

// NewFilter creates a filter over child.
func NewFilter(predicate TupleFilter, child iterator.DbIterator) (*Filter, error) {
	if predicate == nil {
		return nil, dberror.InvalidArgument("predicate cannot be nil")
	}

	f := &Filter{predicate: predicate}
	unary, err := iterator.NewUnaryOperator(child, f.fetchNext)
	if err != nil {
		return nil, err
	}
	f.UnaryOperator = unary
	return f, nil
}

// GetPredicate returns the filter's predicate.
func (f *Filter) GetPredicate() TupleFilter {
	return f.predicate
}

func (f *Filter) fetchNext() (*tuple.Tuple, error) {
	for {
		t, err := f.FetchNext()
		if err != nil || t == nil {
			return nil, err
		}

		passes, err := f.predicate.Filter(t)
		if err != nil {
			return nil, err
		}
		if passes {
			return t, nil
		}
	}
}
