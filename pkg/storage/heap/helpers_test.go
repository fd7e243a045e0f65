package heap

import (
	"path/filepath"
	"testing"

	"heapstore/pkg/concurrency/transaction"
	"heapstore/pkg/primitives"
	"heapstore/pkg/storage/page"
	"heapstore/pkg/tuple"
	"heapstore/pkg/types"

	"github.com/stretchr/testify/require"
)

func intStringDesc(t *testing.T) *tuple.TupleDescription {
	t.Helper()
	td, err := tuple.NewTupleDesc([]types.Type{types.IntType, types.StringType}, []string{"id", "name"})
	require.NoError(t, err)
	return td
}

func intDesc(t *testing.T) *tuple.TupleDescription {
	t.Helper()
	td, err := tuple.NewTupleDesc([]types.Type{types.IntType}, []string{"v"})
	require.NoError(t, err)
	return td
}

func makeTuple(t *testing.T, td *tuple.TupleDescription, id int64, name string) *tuple.Tuple {
	t.Helper()
	tup, err := tuple.NewBuilder(td).AddInt(id).AddString(name).Build()
	require.NoError(t, err)
	return tup
}

func intTuple(t *testing.T, td *tuple.TupleDescription, v int64) *tuple.Tuple {
	t.Helper()
	return tuple.NewBuilder(td).AddInt(v).MustBuild()
}

func newTestHeapFile(t *testing.T, td *tuple.TupleDescription) *HeapFile {
	t.Helper()
	hf, err := NewHeapFile(primitives.Filepath(filepath.Join(t.TempDir(), "table.dat")), td, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = hf.Close() })
	return hf
}

// appendPageWith writes a page holding n int tuples (values start..start+n-1) to the end of hf.
func appendPageWith(t *testing.T, hf *HeapFile, start, n int) {
	t.Helper()
	numPages, err := hf.NumPages()
	require.NoError(t, err)

	hp, err := NewHeapPage(page.NewPageDescriptor(hf.GetID(), numPages), CreateEmptyPageData(), hf.GetTupleDesc())
	require.NoError(t, err)
	for i := range n {
		require.NoError(t, hp.AddTuple(intTuple(t, hf.GetTupleDesc(), int64(start+i))))
	}

	_, err = hf.AllocateNewPage(hp.GetPageData())
	require.NoError(t, err)
}

// mapCache keeps every page it has handed out resident, like a buffer pool
// that never evicts.
type mapCache struct {
	file  *HeapFile
	pages map[page.PageDescriptor]page.Page
	perms []transaction.Permissions
}

func attachMapCache(hf *HeapFile) *mapCache {
	c := &mapCache{file: hf, pages: make(map[page.PageDescriptor]page.Page)}
	hf.SetPageCache(c)
	return c
}

func (c *mapCache) GetPage(_ *transaction.TransactionID, pid page.PageDescriptor, perm transaction.Permissions) (page.Page, error) {
	c.perms = append(c.perms, perm)
	if p, ok := c.pages[pid]; ok {
		return p, nil
	}
	p, err := c.file.ReadPage(pid)
	if err != nil {
		return nil, err
	}
	c.pages[pid] = p
	return p, nil
}

func withPageSize(t *testing.T, size int) {
	t.Helper()
	page.SetPageSize(size)
	t.Cleanup(page.ResetPageSize)
}

func newTID() *transaction.TransactionID {
	return transaction.NewTransactionID()
}
