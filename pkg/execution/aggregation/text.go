package aggregation

import (
	dberror "heapstore/pkg/error"
	"heapstore/pkg/types"
)

// TextAggregator aggregates STRING fields. COUNT is the only supported operation.
type TextAggregator struct {
	*baseAggregator[*textState]
}

type textState struct {
	count int64
}

type textCalculator struct{}

// NewTextAggregator creates a COUNT aggregator over a STRING field.
func NewTextAggregator(gbField int, gbFieldType types.Type, aField int, op AggregateOp) (*TextAggregator, error) {
	if op != Count {
		return nil, dberror.InvalidArgument("string aggregator only supports COUNT, got %s", op)
	}

	base, err := newBaseAggregator(gbField, gbFieldType, aField, op, types.IntType,
		calculator[*textState](textCalculator{}))
	if err != nil {
		return nil, err
	}
	return &TextAggregator{baseAggregator: base}, nil
}

func (textCalculator) newState() *textState {
	return &textState{}
}

func (textCalculator) update(s *textState, value types.Field) error {
	if value.Type() != types.StringType {
		return dberror.TypeMismatch("expected STRING aggregate value, got %v", value.Type())
	}
	s.count++
	return nil
}

func (textCalculator) final(s *textState) (types.Field, error) {
	return types.NewIntField(s.count), nil
}
