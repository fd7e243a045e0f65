package execution

import (
	"fmt"

	"heapstore/pkg/primitives"
	"heapstore/pkg/tuple"
	"heapstore/pkg/types"
)

// TupleFilter decides whether a tuple passes a Filter.
type TupleFilter interface {
	Filter(t *tuple.Tuple) (bool, error)
}

// FilterFunc adapts an ordinary function to TupleFilter.
type FilterFunc func(t *tuple.Tuple) (bool, error)

// Filter calls f(t).
func (f FilterFunc) Filter(t *tuple.Tuple) (bool, error) {
	return f(t)
}

// Predicate compares a tuple field to a constant value using a specified operation.
// It encapsulates the field index, comparison operation, and the constant operand
// to create a reusable filter condition for tuple evaluation.
type Predicate struct {
	fieldIndex int                  // Which field in the tuple to compare (0-based index)
	op         primitives.Predicate // The comparison operation to perform
	operand    types.Field          // The constant value to compare against
}

// NewPredicate creates a new predicate with the specified field index, operation, and operand.
//
// Parameters:
//   - fieldIndex: The 0-based index of the field in the tuple to compare
//   - op: The comparison operation to perform (e.g., primitives.GreaterThan)
//   - operand: The constant value to compare the field against
//
// Returns:
//   - *Predicate: A new predicate instance configured with the specified parameters
func NewPredicate(fieldIndex int, op primitives.Predicate, operand types.Field) *Predicate {
	return &Predicate{
		fieldIndex: fieldIndex,
		op:         op,
		operand:    operand,
	}
}

// Filter evaluates this predicate against a tuple.
//
// Returns:
//   - bool: True if the tuple satisfies the predicate condition; a nil field never does
//   - error: An error if the field cannot be retrieved or the types cannot be compared
func (p *Predicate) Filter(t *tuple.Tuple) (bool, error) {
	field, err := t.GetField(p.fieldIndex)
	if err != nil {
		return false, err
	}

	if field == nil {
		return false, nil
	}

	return field.Compare(p.op, p.operand)
}

// FieldIndex returns the index of the compared field.
func (p *Predicate) FieldIndex() int {
	return p.fieldIndex
}

// Op returns the comparison operation.
func (p *Predicate) Op() primitives.Predicate {
	return p.op
}

// Operand returns the constant the field is compared against.
func (p *Predicate) Operand() types.Field {
	return p.operand
}

// String returns e.g. "field[2] > 100".
func (p *Predicate) String() string {
	return fmt.Sprintf("field[%d] %s %s", p.fieldIndex, p.op.String(), p.operand.String())
}
