package heap

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"heapstore/pkg/concurrency/transaction"
	dberror "heapstore/pkg/error"
	"heapstore/pkg/primitives"
	"heapstore/pkg/storage/page"
	"heapstore/pkg/tuple"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHeapFileRejectsOversizedSchema(t *testing.T) {
	withPageSize(t, 64)
	_, err := NewHeapFile(primitives.Filepath(filepath.Join(t.TempDir(), "t.dat")), intStringDesc(t), nil)
	assert.True(t, errors.Is(err, dberror.ErrInvalidArgument))
}

func TestHeapFileIDIsStablePerPath(t *testing.T) {
	dir := t.TempDir()
	td := intDesc(t)

	a, err := NewHeapFile(primitives.Filepath(filepath.Join(dir, "t.dat")), td, nil)
	require.NoError(t, err)
	defer a.Close()
	b, err := NewHeapFile(primitives.Filepath(filepath.Join(dir, "sub", "..", "t.dat")), td, nil)
	require.NoError(t, err)
	defer b.Close()
	c, err := NewHeapFile(primitives.Filepath(filepath.Join(dir, "u.dat")), td, nil)
	require.NoError(t, err)
	defer c.Close()

	assert.Equal(t, a.GetID(), b.GetID())
	assert.NotEqual(t, a.GetID(), c.GetID())
}

func TestNumPagesRejectsPartialPage(t *testing.T) {
	hf := newTestHeapFile(t, intDesc(t))
	appendPageWith(t, hf, 0, 1)

	f, err := os.OpenFile(hf.FilePath().String(), os.O_WRONLY|os.O_APPEND, 0o644)
	require.NoError(t, err)
	_, err = f.Write([]byte{1, 2, 3})
	require.NoError(t, err)
	require.NoError(t, f.Close())

	_, err = hf.NumPages()
	assert.True(t, errors.Is(err, dberror.ErrFormat))
}

func TestReadPage(t *testing.T) {
	td := intDesc(t)
	hf := newTestHeapFile(t, td)
	appendPageWith(t, hf, 10, 3)

	p, err := hf.ReadPage(page.NewPageDescriptor(hf.GetID(), 0))
	require.NoError(t, err)
	hp := p.(*HeapPage)
	require.Len(t, hp.GetTuples(), 3)

	t.Run("past end of file", func(t *testing.T) {
		_, err := hf.ReadPage(page.NewPageDescriptor(hf.GetID(), 1))
		assert.True(t, errors.Is(err, dberror.ErrInvalidPage))
	})

	t.Run("other file", func(t *testing.T) {
		_, err := hf.ReadPage(page.NewPageDescriptor(hf.GetID()+1, 0))
		assert.True(t, errors.Is(err, dberror.ErrInvalidPage))
	})
}

func TestWritePageClearsDirtyFlag(t *testing.T) {
	td := intDesc(t)
	hf := newTestHeapFile(t, td)
	appendPageWith(t, hf, 0, 0)

	p, err := hf.ReadPage(page.NewPageDescriptor(hf.GetID(), 0))
	require.NoError(t, err)
	hp := p.(*HeapPage)
	require.NoError(t, hp.AddTuple(intTuple(t, td, 5)))
	hp.MarkDirty(true, newTID())

	require.NoError(t, hf.WritePage(hp))
	assert.Nil(t, hp.IsDirty())

	info, err := os.Stat(hf.FilePath().String())
	require.NoError(t, err)
	assert.Equal(t, int64(page.PageSize()), info.Size())

	reread, err := hf.ReadPage(page.NewPageDescriptor(hf.GetID(), 0))
	require.NoError(t, err)
	assert.Equal(t, hp.GetPageData(), reread.GetPageData())
}

func TestInsertTupleAppendsAndFillsPages(t *testing.T) {
	withPageSize(t, 64)
	td := intDesc(t)
	tid := newTID()
	slots := NumSlots(td)

	for _, n := range []int{0, 1, slots, slots + 1, 3*slots - 1} {
		hf := newTestHeapFile(t, td)
		attachMapCache(hf)
		for i := range n {
			dirtied, err := hf.InsertTuple(tid, intTuple(t, td, int64(i)))
			require.NoError(t, err)
			require.Len(t, dirtied, 1)
			assert.Equal(t, tid, dirtied[0].IsDirty())
		}

		numPages, err := hf.NumPages()
		require.NoError(t, err)
		assert.Equal(t, primitives.PageNumber((n+slots-1)/slots), numPages, "n=%d", n)
	}
}

func TestInsertTupleFetchesPagesForWrite(t *testing.T) {
	td := intDesc(t)
	hf := newTestHeapFile(t, td)
	cache := attachMapCache(hf)
	appendPageWith(t, hf, 0, NumSlots(td))
	appendPageWith(t, hf, 0, 1)

	tup := intTuple(t, td, 1)
	_, err := hf.InsertTuple(newTID(), tup)
	require.NoError(t, err)
	assert.Equal(t, primitives.PageNumber(1), tup.RecordID.PageID.PageNo())
	assert.Equal(t, []transaction.Permissions{transaction.ReadWrite, transaction.ReadWrite}, cache.perms)
}

func TestInsertTupleSchemaMismatch(t *testing.T) {
	hf := newTestHeapFile(t, intDesc(t))
	attachMapCache(hf)
	other := intStringDesc(t)
	_, err := hf.InsertTuple(newTID(), makeTuple(t, other, 1, "x"))
	assert.True(t, errors.Is(err, dberror.ErrTypeMismatch))
}

func TestInsertReusesFreedSlot(t *testing.T) {
	withPageSize(t, 64)
	td := intDesc(t)
	hf := newTestHeapFile(t, td)
	attachMapCache(hf)
	tid := newTID()

	var victim = intTuple(t, td, 0)
	for i := range NumSlots(td) {
		tup := intTuple(t, td, int64(i))
		_, err := hf.InsertTuple(tid, tup)
		require.NoError(t, err)
		if i == 3 {
			victim = tup
		}
	}
	rid := victim.RecordID

	dirtied, err := hf.DeleteTuple(tid, victim)
	require.NoError(t, err)
	require.Len(t, dirtied, 1)

	fresh := intTuple(t, td, 100)
	_, err = hf.InsertTuple(tid, fresh)
	require.NoError(t, err)
	assert.True(t, rid.Equals(fresh.RecordID))

	numPages, err := hf.NumPages()
	require.NoError(t, err)
	assert.Equal(t, primitives.PageNumber(1), numPages)
}

func TestHeapFileDeleteTupleErrors(t *testing.T) {
	td := intDesc(t)
	hf := newTestHeapFile(t, td)
	attachMapCache(hf)
	tid := newTID()

	_, err := hf.DeleteTuple(tid, intTuple(t, td, 1))
	assert.True(t, errors.Is(err, dberror.ErrTupleNotFound))

	tup := intTuple(t, td, 1)
	_, err = hf.InsertTuple(tid, tup)
	require.NoError(t, err)
	stale := intTuple(t, td, 1)
	stale.RecordID = tup.RecordID

	_, err = hf.DeleteTuple(tid, tup)
	require.NoError(t, err)
	_, err = hf.DeleteTuple(tid, stale)
	assert.True(t, errors.Is(err, dberror.ErrTupleNotFound))
}

func TestWritesRequirePageCache(t *testing.T) {
	td := intDesc(t)
	hf := newTestHeapFile(t, td)
	tid := newTID()

	_, err := hf.InsertTuple(tid, intTuple(t, td, 1))
	assert.True(t, errors.Is(err, dberror.ErrIllegalState))
	_, err = hf.InsertTuple(tid, intTuple(t, td, 2))
	assert.True(t, errors.Is(err, dberror.ErrIllegalState))

	numPages, err := hf.NumPages()
	require.NoError(t, err)
	assert.Equal(t, primitives.PageNumber(0), numPages)

	appendPageWith(t, hf, 10, 2)
	p, err := hf.ReadPage(page.NewPageDescriptor(hf.GetID(), 0))
	require.NoError(t, err)
	stored := p.(*HeapPage).GetTuples()[0]

	_, err = hf.DeleteTuple(tid, stored)
	assert.True(t, errors.Is(err, dberror.ErrIllegalState))

	_, err = hf.getPage(tid, page.NewPageDescriptor(hf.GetID(), 0), transaction.ReadWrite)
	assert.True(t, errors.Is(err, dberror.ErrIllegalState))

	it := hf.Iterator(tid)
	require.NoError(t, it.Open())
	defer it.Close()
	count := 0
	for {
		hasNext, err := it.HasNext()
		require.NoError(t, err)
		if !hasNext {
			break
		}
		_, err = it.Next()
		require.NoError(t, err)
		count++
	}
	assert.Equal(t, 2, count)
}

func TestWritePageRejectsUnserializableSlot(t *testing.T) {
	td := intDesc(t)
	hf := newTestHeapFile(t, td)
	appendPageWith(t, hf, 0, 0)

	p, err := hf.ReadPage(page.NewPageDescriptor(hf.GetID(), 0))
	require.NoError(t, err)
	hp := p.(*HeapPage)
	hp.tuples[0] = tuple.NewTuple(td)
	hp.setSlot(0, true)

	err = hf.WritePage(hp)
	assert.True(t, errors.Is(err, dberror.ErrInvalidArgument))

	reread, err := hf.ReadPage(page.NewPageDescriptor(hf.GetID(), 0))
	require.NoError(t, err)
	assert.Empty(t, reread.(*HeapPage).GetTuples())
}
