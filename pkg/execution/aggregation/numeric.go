package aggregation

import (
	"math"

	"github.com/shopspring/decimal"

	dberror "heapstore/pkg/error"
	"heapstore/pkg/types"
)

// NumericAggregator aggregates INT and FLOAT fields with all five operations.
//
// INT keeps an int64 accumulator; AVG divides the sum by the count once, with
// integer division. FLOAT keeps SUM and AVG in a decimal accumulator so the
// running total is exact, and divides once when results are produced.
type NumericAggregator struct {
	*baseAggregator[*numericState]
}

type numericState struct {
	count   int64
	acc     int64           // INT sum, min or max
	total   decimal.Decimal // FLOAT sum
	extreme float64         // FLOAT min or max, seeded by the first value
}

type numericCalculator struct {
	op        AggregateOp
	fieldType types.Type
}

// NewNumericAggregator creates an aggregator over an INT or FLOAT field.
func NewNumericAggregator(gbField int, gbFieldType types.Type, aField int, aFieldType types.Type, op AggregateOp) (*NumericAggregator, error) {
	if !aFieldType.IsNumeric() {
		return nil, dberror.InvalidArgument("numeric aggregator cannot aggregate %v", aFieldType)
	}

	resultType := aFieldType
	if op == Count {
		resultType = types.IntType
	}

	base, err := newBaseAggregator(gbField, gbFieldType, aField, op, resultType,
		calculator[*numericState](&numericCalculator{op: op, fieldType: aFieldType}))
	if err != nil {
		return nil, err
	}
	return &NumericAggregator{baseAggregator: base}, nil
}

func (c *numericCalculator) newState() *numericState {
	s := &numericState{total: decimal.Zero}
	switch c.op {
	case Min:
		s.acc = math.MaxInt64
	case Max:
		s.acc = math.MinInt64
	}
	return s
}

func (c *numericCalculator) update(s *numericState, value types.Field) error {
	s.count++
	if c.op == Count {
		return nil
	}

	switch c.fieldType {
	case types.IntType:
		v, ok := value.(*types.IntField)
		if !ok {
			return dberror.TypeMismatch("expected INT aggregate value, got %v", value.Type())
		}
		c.updateInt(s, v.Value)

	case types.FloatType:
		v, ok := value.(*types.Float64Field)
		if !ok {
			return dberror.TypeMismatch("expected FLOAT aggregate value, got %v", value.Type())
		}
		return c.updateFloat(s, v.Value)
	}
	return nil
}

func (c *numericCalculator) updateInt(s *numericState, v int64) {
	switch c.op {
	case Min:
		s.acc = min(s.acc, v)
	case Max:
		s.acc = max(s.acc, v)
	case Sum, Avg:
		s.acc += v
	}
}

// updateFloat expects s.count to already include v. NaN never replaces an
// ordered extreme, so MIN and MAX are NaN only when every value was NaN.
func (c *numericCalculator) updateFloat(s *numericState, v float64) error {
	first := s.count == 1 || math.IsNaN(s.extreme)
	switch c.op {
	case Min:
		if first || v < s.extreme {
			s.extreme = v
		}
	case Max:
		if first || v > s.extreme {
			s.extreme = v
		}
	case Sum, Avg:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return dberror.InvalidArgument("cannot %s non-finite value %v", c.op, v)
		}
		s.total = s.total.Add(decimal.NewFromFloat(v))
	}
	return nil
}

func (c *numericCalculator) final(s *numericState) (types.Field, error) {
	if c.op == Count {
		return types.NewIntField(s.count), nil
	}

	if c.fieldType == types.IntType {
		if c.op == Avg {
			return types.NewIntField(s.acc / s.count), nil
		}
		return types.NewIntField(s.acc), nil
	}

	switch c.op {
	case Sum:
		return types.NewFloat64Field(s.total.InexactFloat64()), nil
	case Avg:
		return types.NewFloat64Field(s.total.Div(decimal.NewFromInt(s.count)).InexactFloat64()), nil
	default:
		return types.NewFloat64Field(s.extreme), nil
	}
}
