package aggregation

import (
	"testing"

	"heapstore/pkg/iterator"
	"heapstore/pkg/tuple"
	"heapstore/pkg/types"

	"github.com/stretchr/testify/require"
)

// salesDesc is (region STRING, amount INT).
func salesDesc(t *testing.T) *tuple.TupleDescription {
	t.Helper()
	td, err := tuple.NewTupleDesc([]types.Type{types.StringType, types.IntType}, []string{"region", "amount"})
	require.NoError(t, err)
	return td
}

type sale struct {
	region string
	amount int64
}

func salesRows(t *testing.T, td *tuple.TupleDescription, rows ...sale) []*tuple.Tuple {
	t.Helper()
	out := make([]*tuple.Tuple, len(rows))
	for i, r := range rows {
		out[i] = tuple.NewBuilder(td).AddString(r.region).AddInt(r.amount).MustBuild()
	}
	return out
}

func abaSales(t *testing.T) *tuple.Iterator {
	td := salesDesc(t)
	return tuple.NewIterator(salesRows(t, td, sale{"A", 10}, sale{"B", 20}, sale{"A", 30}), td)
}

// groupedInts collects (STRING, INT) result tuples into a map.
func groupedInts(t *testing.T, it iterator.DbIterator) map[string]int64 {
	t.Helper()
	tuples, err := iterator.Collect(it)
	require.NoError(t, err)

	out := make(map[string]int64, len(tuples))
	for _, tup := range tuples {
		k, err := tup.GetField(0)
		require.NoError(t, err)
		v, err := tup.GetField(1)
		require.NoError(t, err)
		out[k.(*types.StringField).Value] = v.(*types.IntField).Value
	}
	return out
}

func mergeAll(t *testing.T, agg Aggregator, tuples []*tuple.Tuple) {
	t.Helper()
	for _, tup := range tuples {
		require.NoError(t, agg.Merge(tup))
	}
}

func singleValue(t *testing.T, it iterator.DbIterator) types.Field {
	t.Helper()
	tuples, err := iterator.Collect(it)
	require.NoError(t, err)
	require.Len(t, tuples, 1)
	f, err := tuples[0].GetField(0)
	require.NoError(t, err)
	return f
}
