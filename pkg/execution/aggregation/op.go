package aggregation

import (
	"strings"

	dberror "heapstore/pkg/error"
)

// NoGrouping is the group-field index of an ungrouped aggregate.
const NoGrouping = -1

// AggregateOp represents the type of aggregation operation to perform
type AggregateOp int

const (
	Count AggregateOp = iota
	Sum
	Avg
	Min
	Max
)

// String returns a string representation of the aggregation operation
func (op AggregateOp) String() string {
	switch op {
	case Count:
		return "COUNT"
	case Sum:
		return "SUM"
	case Avg:
		return "AVG"
	case Min:
		return "MIN"
	case Max:
		return "MAX"
	default:
		return "UNKNOWN"
	}
}

func (op AggregateOp) valid() bool {
	return op >= Count && op <= Max
}

// ParseAggregateOp converts an aggregate operation name, in any case, to AggregateOp.
func ParseAggregateOp(opStr string) (AggregateOp, error) {
	switch strings.ToUpper(strings.TrimSpace(opStr)) {
	case "COUNT":
		return Count, nil
	case "SUM":
		return Sum, nil
	case "AVG":
		return Avg, nil
	case "MIN":
		return Min, nil
	case "MAX":
		return Max, nil
	default:
		return 0, dberror.InvalidArgument("unsupported aggregate operation: %s", opStr)
	}
}
