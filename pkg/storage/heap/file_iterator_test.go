package heap

import (
	"errors"
	"testing"

	"heapstore/pkg/concurrency/transaction"
	dberror "heapstore/pkg/error"
	"heapstore/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drain(t *testing.T, it *HeapFileIterator) []int64 {
	t.Helper()
	var values []int64
	for {
		hasNext, err := it.HasNext()
		require.NoError(t, err)
		if !hasNext {
			return values
		}
		tup, err := it.Next()
		require.NoError(t, err)
		field, err := tup.GetField(0)
		require.NoError(t, err)
		values = append(values, field.(*types.IntField).Value)
	}
}

func TestFileIteratorSkipsEmptyPages(t *testing.T) {
	hf := newTestHeapFile(t, intDesc(t))
	appendPageWith(t, hf, 0, 0)
	appendPageWith(t, hf, 100, 3)
	appendPageWith(t, hf, 0, 0)
	appendPageWith(t, hf, 200, 5)

	it := hf.Iterator(newTID())
	require.NoError(t, it.Open())
	defer it.Close()

	assert.Equal(t, []int64{100, 101, 102, 200, 201, 202, 203, 204}, drain(t, it))

	_, err := it.Next()
	assert.True(t, errors.Is(err, dberror.ErrNoSuchElement))
}

func TestFileIteratorEmptyFile(t *testing.T) {
	hf := newTestHeapFile(t, intDesc(t))
	it := hf.Iterator(newTID())
	require.NoError(t, it.Open())

	hasNext, err := it.HasNext()
	require.NoError(t, err)
	assert.False(t, hasNext)

	_, err = it.Next()
	assert.True(t, errors.Is(err, dberror.ErrNoSuchElement))
}

func TestFileIteratorRequiresOpen(t *testing.T) {
	hf := newTestHeapFile(t, intDesc(t))
	appendPageWith(t, hf, 0, 2)
	it := hf.Iterator(newTID())

	_, err := it.HasNext()
	assert.True(t, errors.Is(err, dberror.ErrIllegalState))
	_, err = it.Next()
	assert.True(t, errors.Is(err, dberror.ErrIllegalState))

	require.NoError(t, it.Open())
	require.NoError(t, it.Close())
	require.NoError(t, it.Close())

	_, err = it.HasNext()
	assert.True(t, errors.Is(err, dberror.ErrIllegalState))
}

func TestFileIteratorRewind(t *testing.T) {
	hf := newTestHeapFile(t, intDesc(t))
	appendPageWith(t, hf, 0, 2)
	appendPageWith(t, hf, 10, 2)

	it := hf.Iterator(newTID())
	require.NoError(t, it.Open())
	first := drain(t, it)

	require.NoError(t, it.Rewind())
	assert.Equal(t, first, drain(t, it))

	require.NoError(t, it.Close())
	require.NoError(t, it.Open())
	assert.Equal(t, first, drain(t, it))
}

func TestFileIteratorReadsThroughCache(t *testing.T) {
	hf := newTestHeapFile(t, intDesc(t))
	cache := attachMapCache(hf)
	appendPageWith(t, hf, 0, 1)
	appendPageWith(t, hf, 5, 1)

	it := hf.Iterator(newTID())
	require.NoError(t, it.Open())
	assert.Equal(t, []int64{0, 5}, drain(t, it))

	assert.Equal(t, []transaction.Permissions{transaction.ReadOnly, transaction.ReadOnly}, cache.perms)
}
