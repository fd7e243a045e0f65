package aggregation

import (
	"fmt"

	dberror "heapstore/pkg/error"
	"heapstore/pkg/iterator"
	"heapstore/pkg/logging"
	"heapstore/pkg/tuple"
	"heapstore/pkg/types"
)

// Aggregate computes one aggregate, optionally grouped by a single column,
// over every tuple its child produces. Open drains the child; the operator
// then replays the finalized groups. An empty child yields no rows, even
// without grouping.
type Aggregate struct {
	*iterator.UnaryOperator
	aField    int
	gField    int
	op        AggregateOp
	tupleDesc *tuple.TupleDescription
	results   iterator.DbIterator
}

// NewAggregate creates an aggregation operator over child.
//
// Parameters:
//   - child: Input operator
//   - aField: Index of the column to aggregate
//   - gField: Index of the grouping column, or NoGrouping
//   - op: Aggregation operation
//
// Returns:
//   - *Aggregate: The operator, closed
//   - error: INVALID_ARGUMENT for a nil child, an out-of-range index, or an
//     operation the aggregate column's type does not support
func NewAggregate(child iterator.DbIterator, aField, gField int, op AggregateOp) (*Aggregate, error) {
	if child == nil {
		return nil, dberror.InvalidArgument("child operator cannot be nil")
	}

	a := &Aggregate{aField: aField, gField: gField, op: op}
	td, err := a.resultDesc(child.GetTupleDesc())
	if err != nil {
		return nil, err
	}
	a.tupleDesc = td

	unary, err := iterator.NewUnaryOperator(child, a.fetchNext)
	if err != nil {
		return nil, err
	}
	a.UnaryOperator = unary
	return a, nil
}

// newAggregator builds an empty aggregator for childDesc with the operator's column names.
func (a *Aggregate) newAggregator(childDesc *tuple.TupleDescription) (Aggregator, error) {
	numFields := childDesc.NumFields()
	if a.aField < 0 || a.aField >= numFields {
		return nil, dberror.InvalidArgument("aggregate field %d out of range [0, %d)", a.aField, numFields)
	}
	if a.gField != NoGrouping && (a.gField < 0 || a.gField >= numFields) {
		return nil, dberror.InvalidArgument("group field %d out of range [0, %d)", a.gField, numFields)
	}

	aType, err := childDesc.TypeAtIndex(a.aField)
	if err != nil {
		return nil, err
	}
	var gType types.Type
	if a.gField != NoGrouping {
		if gType, err = childDesc.TypeAtIndex(a.gField); err != nil {
			return nil, err
		}
	}

	agg, err := NewAggregator(a.gField, gType, a.aField, aType, a.op)
	if err != nil {
		return nil, err
	}

	aggName, _ := childDesc.GetFieldName(a.aField)
	if aggName == "" {
		aggName = fmt.Sprintf("%s(%d)", a.op, a.aField)
	}
	if err := agg.SetFieldNames("groupVal", aggName); err != nil {
		return nil, err
	}
	return agg, nil
}

func (a *Aggregate) resultDesc(childDesc *tuple.TupleDescription) (*tuple.TupleDescription, error) {
	agg, err := a.newAggregator(childDesc)
	if err != nil {
		return nil, err
	}
	return agg.GetTupleDesc(), nil
}

// Open opens the child, folds all of its tuples and opens the result set.
func (a *Aggregate) Open() error {
	if err := a.UnaryOperator.Open(); err != nil {
		return err
	}

	results, err := a.computeResults()
	if err != nil {
		_ = a.UnaryOperator.Close()
		return err
	}
	a.results = results
	return nil
}

func (a *Aggregate) computeResults() (iterator.DbIterator, error) {
	agg, err := a.newAggregator(a.GetChild().GetTupleDesc())
	if err != nil {
		return nil, err
	}

	merged := 0
	err = iterator.ForEach(a.GetChild(), func(t *tuple.Tuple) error {
		merged++
		return agg.Merge(t)
	})
	if err != nil {
		return nil, err
	}

	logging.WithComponent("aggregate").
		WithField("op", a.op.String()).
		WithField("tuples", merged).
		Debug("aggregation input drained")

	results := agg.Iterator()
	if err := results.Open(); err != nil {
		return nil, err
	}
	return results, nil
}

func (a *Aggregate) fetchNext() (*tuple.Tuple, error) {
	if a.results == nil {
		return nil, nil
	}
	return iterator.FetchNext(a.results)
}

// Rewind replays the computed groups without re-reading the child.
func (a *Aggregate) Rewind() error {
	if !a.IsOpen() {
		return dberror.IllegalState("cannot rewind a closed operator")
	}
	if err := a.results.Rewind(); err != nil {
		return err
	}
	a.ClearCache()
	return nil
}

// Close releases the computed groups and closes the child.
func (a *Aggregate) Close() error {
	if a.results != nil {
		_ = a.results.Close()
		a.results = nil
	}
	return a.UnaryOperator.Close()
}

// GetTupleDesc returns (aggregate) or (group, aggregate).
func (a *Aggregate) GetTupleDesc() *tuple.TupleDescription {
	return a.tupleDesc
}

// SetChildren replaces the child. The new child must carry the same column
// types at the group and aggregate positions.
func (a *Aggregate) SetChildren(children []iterator.DbIterator) error {
	if len(children) == 1 && children[0] != nil {
		td, err := a.resultDesc(children[0].GetTupleDesc())
		if err != nil {
			return err
		}
		if !sameTypes(td, a.tupleDesc) {
			return dberror.TypeMismatch("replacement child changes the aggregate schema")
		}
	}
	return a.UnaryOperator.SetChildren(children)
}

func sameTypes(x, y *tuple.TupleDescription) bool {
	if x.NumFields() != y.NumFields() {
		return false
	}
	for i := range x.NumFields() {
		tx, _ := x.TypeAtIndex(i)
		ty, _ := y.TypeAtIndex(i)
		if tx != ty {
			return false
		}
	}
	return true
}

// GroupField returns the grouping column index, or NoGrouping.
func (a *Aggregate) GroupField() int { return a.gField }

// GroupFieldName returns the name of the group column in the output, or "" when ungrouped.
func (a *Aggregate) GroupFieldName() string {
	if a.gField == NoGrouping {
		return ""
	}
	name, _ := a.tupleDesc.GetFieldName(0)
	return name
}

// AggregateField returns the aggregated column index.
func (a *Aggregate) AggregateField() int { return a.aField }

// AggregateFieldName returns the name of the aggregate column in the output.
func (a *Aggregate) AggregateFieldName() string {
	name, _ := a.tupleDesc.GetFieldName(a.tupleDesc.NumFields() - 1)
	return name
}

// AggregateOp returns the aggregation operation.
func (a *Aggregate) AggregateOp() AggregateOp { return a.op }
