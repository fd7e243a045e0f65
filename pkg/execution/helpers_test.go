package execution

import (
	"path/filepath"
	"testing"

	"heapstore/pkg/concurrency/transaction"
	"heapstore/pkg/iterator"
	"heapstore/pkg/memory"
	"heapstore/pkg/primitives"
	"heapstore/pkg/storage/heap"
	"heapstore/pkg/tuple"
	"heapstore/pkg/types"

	"github.com/stretchr/testify/require"
)

func pairDesc(t *testing.T) *tuple.TupleDescription {
	t.Helper()
	td, err := tuple.NewTupleDesc([]types.Type{types.IntType, types.IntType}, []string{"f0", "f1"})
	require.NoError(t, err)
	return td
}

func pairs(t *testing.T, td *tuple.TupleDescription, rows ...[2]int64) []*tuple.Tuple {
	t.Helper()
	out := make([]*tuple.Tuple, len(rows))
	for i, r := range rows {
		out[i] = tuple.NewBuilder(td).AddInt(r[0]).AddInt(r[1]).MustBuild()
	}
	return out
}

func collectPairs(t *testing.T, it iterator.DbIterator) [][2]int64 {
	t.Helper()
	tuples, err := iterator.Collect(it)
	require.NoError(t, err)

	out := make([][2]int64, len(tuples))
	for i, tup := range tuples {
		a, err := tup.GetField(0)
		require.NoError(t, err)
		b, err := tup.GetField(1)
		require.NoError(t, err)
		out[i] = [2]int64{a.(*types.IntField).Value, b.(*types.IntField).Value}
	}
	return out
}

type tableFixture struct {
	store *memory.PageStore
	file  *heap.HeapFile
	td    *tuple.TupleDescription
}

// newTable creates a heap file behind a buffer pool and commits rows into it.
func newTable(t *testing.T, rows ...[2]int64) *tableFixture {
	t.Helper()
	td := pairDesc(t)

	tm := memory.NewTableManager()
	store, err := memory.NewPageStore(tm, 16, 0)
	require.NoError(t, err)

	hf, err := heap.NewHeapFile(primitives.Filepath(filepath.Join(t.TempDir(), "t.dat")), td, store)
	require.NoError(t, err)
	require.NoError(t, tm.AddFile(hf))
	t.Cleanup(func() {
		_ = store.Close()
		tm.Clear()
	})

	tid := transaction.NewTransactionID()
	for _, tup := range pairs(t, td, rows...) {
		require.NoError(t, store.InsertTuple(tid, hf.GetID(), tup))
	}
	require.NoError(t, store.CommitTransaction(tid))

	return &tableFixture{store: store, file: hf, td: td}
}
