package execution

import (
	"errors"
	"testing"

	"heapstore/pkg/concurrency/transaction"
	dberror "heapstore/pkg/error"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeqScan(t *testing.T) {
	table := newTable(t, [2]int64{1, 10}, [2]int64{2, 20}, [2]int64{3, 30})
	scan, err := NewSeqScan(transaction.NewTransactionID(), table.file)
	require.NoError(t, err)
	assert.Same(t, table.td, scan.GetTupleDesc())

	_, err = scan.HasNext()
	assert.True(t, errors.Is(err, dberror.ErrIllegalState))
	assert.True(t, errors.Is(scan.Rewind(), dberror.ErrIllegalState))

	require.NoError(t, scan.Open())
	assert.True(t, errors.Is(scan.Open(), dberror.ErrIllegalState))
	want := [][2]int64{{1, 10}, {2, 20}, {3, 30}}
	assert.Equal(t, want, collectPairs(t, scan))

	require.NoError(t, scan.Rewind())
	assert.Equal(t, want, collectPairs(t, scan))

	require.NoError(t, scan.Close())
	require.NoError(t, scan.Close())
	require.NoError(t, scan.Open())
	assert.Equal(t, want, collectPairs(t, scan))
	require.NoError(t, scan.Close())
}

func TestSeqScanRequiresFile(t *testing.T) {
	_, err := NewSeqScan(transaction.NewTransactionID(), nil)
	assert.True(t, errors.Is(err, dberror.ErrInvalidArgument))
}
