package iterator

import "heapstore/pkg/tuple"

// Iterate drives iter to exhaustion, handing each tuple to visit. visit
// stops the loop by returning false or an error; the error is returned.
// The iterator must already be open.
func Iterate(iter TupleIterator, visit func(*tuple.Tuple) (more bool, err error)) error {
	for {
		tup, err := FetchNext(iter)
		if err != nil || tup == nil {
			return err
		}

		more, err := visit(tup)
		if err != nil || !more {
			return err
		}
	}
}

// ForEach calls fn for every remaining tuple, stopping at the first error.
func ForEach(iter TupleIterator, fn func(*tuple.Tuple) error) error {
	return Iterate(iter, func(tup *tuple.Tuple) (bool, error) {
		return true, fn(tup)
	})
}

// Take reads at most n tuples. n <= 0 reads nothing.
func Take(iter TupleIterator, n int) ([]*tuple.Tuple, error) {
	if n <= 0 {
		return nil, nil
	}

	out := make([]*tuple.Tuple, 0, n)
	err := Iterate(iter, func(tup *tuple.Tuple) (bool, error) {
		out = append(out, tup)
		return len(out) < n, nil
	})
	return out, err
}

// Reduce folds every remaining tuple into an accumulator seeded with initial.
func Reduce[T any](iter TupleIterator, initial T, fold func(T, *tuple.Tuple) (T, error)) (T, error) {
	acc := initial
	err := ForEach(iter, func(tup *tuple.Tuple) error {
		var err error
		acc, err = fold(acc, tup)
		return err
	})
	return acc, err
}

// Count consumes iter and returns how many tuples it produced.
func Count(iter TupleIterator) (int, error) {
	return Reduce(iter, 0, func(n int, _ *tuple.Tuple) (int, error) {
		return n + 1, nil
	})
}

// Collect consumes iter into a slice.
func Collect(iter TupleIterator) ([]*tuple.Tuple, error) {
	return Reduce(iter, []*tuple.Tuple(nil), func(out []*tuple.Tuple, tup *tuple.Tuple) ([]*tuple.Tuple, error) {
		return append(out, tup), nil
	})
}

// FetchNext pulls one tuple from child, returning nil when it is exhausted.
func FetchNext(child TupleIterator) (*tuple.Tuple, error) {
	hasNext, err := child.HasNext()
	if err != nil || !hasNext {
		return nil, err
	}
	return child.Next()
}
