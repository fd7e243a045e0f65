package aggregation

import (
	"fmt"

	dberror "heapstore/pkg/error"
	"heapstore/pkg/iterator"
	"heapstore/pkg/tuple"
	"heapstore/pkg/types"
)

// Aggregator folds tuples into per-group aggregate values.
// The set of implementations is closed: NumericAggregator and TextAggregator.
type Aggregator interface {
	// Merge folds one input tuple into its group.
	Merge(tup *tuple.Tuple) error

	// Iterator returns an unopened iterator over the finalized results:
	// (aggregateVal) or (groupVal, aggregateVal), one tuple per group.
	Iterator() iterator.DbIterator

	// GetTupleDesc returns the tuple description for the aggregate results
	GetTupleDesc() *tuple.TupleDescription

	// SetFieldNames renames the result columns. group is ignored when ungrouped.
	SetFieldNames(group, aggregate string) error

	sealed()
}

// NewAggregator selects the aggregator for aFieldType.
//
// Parameters:
//   - gbField: Index of the grouping field, or NoGrouping
//   - gbFieldType: Type of the grouping field (ignored with NoGrouping)
//   - aField: Index of the field to aggregate
//   - aFieldType: Type of the field to aggregate
//   - op: Aggregation operation
//
// Returns:
//   - Aggregator: a NumericAggregator for INT and FLOAT, a TextAggregator for STRING
//   - error: INVALID_ARGUMENT for a bad index, an unknown op, or a non-COUNT op on STRING
func NewAggregator(gbField int, gbFieldType types.Type, aField int, aFieldType types.Type, op AggregateOp) (Aggregator, error) {
	switch aFieldType {
	case types.IntType, types.FloatType:
		agg, err := NewNumericAggregator(gbField, gbFieldType, aField, aFieldType, op)
		if err != nil {
			return nil, err
		}
		return agg, nil
	case types.StringType:
		agg, err := NewTextAggregator(gbField, gbFieldType, aField, op)
		if err != nil {
			return nil, err
		}
		return agg, nil
	default:
		return nil, dberror.InvalidArgument("unsupported field type for aggregation: %v", aFieldType)
	}
}

// calculator holds the type-specific accumulation rules over a per-group state S.
type calculator[S any] interface {
	newState() S
	update(state S, value types.Field) error
	final(state S) (types.Field, error)
}

// baseAggregator contains the grouping, schema and result logic shared by
// every aggregator; the calculator supplies the arithmetic.
type baseAggregator[S any] struct {
	gbField     int
	gbFieldType types.Type
	aField      int
	op          AggregateOp
	resultType  types.Type
	tupleDesc   *tuple.TupleDescription
	groups      *groupTable[S]
	calc        calculator[S]
}

func newBaseAggregator[S any](gbField int, gbFieldType types.Type, aField int, op AggregateOp, resultType types.Type, calc calculator[S]) (*baseAggregator[S], error) {
	if !op.valid() {
		return nil, dberror.InvalidArgument("unknown aggregate operation %d", int(op))
	}
	if aField < 0 {
		return nil, dberror.InvalidArgument("invalid aggregate field index: %d", aField)
	}
	if gbField != NoGrouping && gbField < 0 {
		return nil, dberror.InvalidArgument("invalid group field index: %d", gbField)
	}

	ba := &baseAggregator[S]{
		gbField:     gbField,
		gbFieldType: gbFieldType,
		aField:      aField,
		op:          op,
		resultType:  resultType,
		groups:      newGroupTable[S](),
		calc:        calc,
	}
	if err := ba.SetFieldNames("groupVal", fmt.Sprintf("%s(%d)", op, aField)); err != nil {
		return nil, err
	}
	return ba, nil
}

func (ba *baseAggregator[S]) sealed() {}

// GetTupleDesc returns the tuple description for aggregation result tuples.
func (ba *baseAggregator[S]) GetTupleDesc() *tuple.TupleDescription {
	return ba.tupleDesc
}

// SetFieldNames rebuilds the result schema with the given column names.
func (ba *baseAggregator[S]) SetFieldNames(group, aggregate string) error {
	var (
		td  *tuple.TupleDescription
		err error
	)
	if ba.gbField == NoGrouping {
		td, err = tuple.NewTupleDesc([]types.Type{ba.resultType}, []string{aggregate})
	} else {
		td, err = tuple.NewTupleDesc([]types.Type{ba.gbFieldType, ba.resultType}, []string{group, aggregate})
	}
	if err != nil {
		return err
	}
	ba.tupleDesc = td
	return nil
}

// Merge folds tup into the state of its group.
func (ba *baseAggregator[S]) Merge(tup *tuple.Tuple) error {
	if tup == nil {
		return dberror.InvalidArgument("cannot merge a nil tuple")
	}

	var key types.Field
	if ba.gbField != NoGrouping {
		field, err := tup.GetField(ba.gbField)
		if err != nil {
			return err
		}
		if field == nil || field.Type() != ba.gbFieldType {
			return dberror.TypeMismatch("group field %d: expected %v, got %v", ba.gbField, ba.gbFieldType, field)
		}
		key = field
	}

	value, err := tup.GetField(ba.aField)
	if err != nil {
		return err
	}
	if value == nil {
		return dberror.TypeMismatch("aggregate field %d is empty", ba.aField)
	}

	entry, err := ba.groups.lookup(key, ba.calc.newState)
	if err != nil {
		return err
	}
	return ba.calc.update(entry.state, value)
}

// Iterator finalizes every group and returns an iterator over the results
// in the order groups were first seen.
func (ba *baseAggregator[S]) Iterator() iterator.DbIterator {
	results := make([]*tuple.Tuple, 0, ba.groups.len())
	for _, entry := range ba.groups.entries {
		t, err := ba.resultTuple(entry)
		if err != nil {
			return &failedIterator{err: err, tupleDesc: ba.tupleDesc}
		}
		results = append(results, t)
	}
	return tuple.NewIterator(results, ba.tupleDesc)
}

func (ba *baseAggregator[S]) resultTuple(entry *groupEntry[S]) (*tuple.Tuple, error) {
	value, err := ba.calc.final(entry.state)
	if err != nil {
		return nil, err
	}

	builder := tuple.NewBuilder(ba.tupleDesc)
	if ba.gbField != NoGrouping {
		builder.AddField(entry.key)
	}
	return builder.AddField(value).Build()
}

// failedIterator reports a finalization error from Open.
type failedIterator struct {
	err       error
	tupleDesc *tuple.TupleDescription
}

func (f *failedIterator) Open() error                           { return f.err }
func (f *failedIterator) HasNext() (bool, error)                { return false, f.err }
func (f *failedIterator) Next() (*tuple.Tuple, error)           { return nil, f.err }
func (f *failedIterator) Rewind() error                         { return f.err }
func (f *failedIterator) Close() error                          { return nil }
func (f *failedIterator) GetTupleDesc() *tuple.TupleDescription { return f.tupleDesc }
