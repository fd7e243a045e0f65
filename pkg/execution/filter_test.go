package execution

import (
	"errors"
	"testing"

	dberror "heapstore/pkg/error"
	"heapstore/pkg/iterator"
	"heapstore/pkg/primitives"
	"heapstore/pkg/tuple"
	"heapstore/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterGreaterThan(t *testing.T) {
	td := pairDesc(t)
	child := tuple.NewIterator(pairs(t, td, [2]int64{1, 5}, [2]int64{2, 15}, [2]int64{3, 25}), td)

	f, err := NewFilter(NewPredicate(1, primitives.GreaterThan, types.NewIntField(10)), child)
	require.NoError(t, err)
	assert.Same(t, td, f.GetTupleDesc())

	require.NoError(t, f.Open())
	defer f.Close()
	assert.Equal(t, [][2]int64{{2, 15}, {3, 25}}, collectPairs(t, f))

	require.NoError(t, f.Rewind())
	assert.Equal(t, [][2]int64{{2, 15}, {3, 25}}, collectPairs(t, f))
}

func TestFilterPredicates(t *testing.T) {
	td := pairDesc(t)
	rows := [][2]int64{{1, 5}, {2, 15}, {3, 25}, {4, 15}}

	tests := []struct {
		name string
		pred TupleFilter
		want [][2]int64
	}{
		{"equals", NewPredicate(1, primitives.Equals, types.NewIntField(15)), [][2]int64{{2, 15}, {4, 15}}},
		{"not equal", NewPredicate(1, primitives.NotEqual, types.NewIntField(15)), [][2]int64{{1, 5}, {3, 25}}},
		{"less or equal", NewPredicate(0, primitives.LessThanOrEqual, types.NewIntField(2)), [][2]int64{{1, 5}, {2, 15}}},
		{"none", NewPredicate(1, primitives.GreaterThan, types.NewIntField(100)), [][2]int64{}},
		{"func", FilterFunc(func(tup *tuple.Tuple) (bool, error) {
			f, err := tup.GetField(0)
			return f.(*types.IntField).Value%2 == 0, err
		}), [][2]int64{{2, 15}, {4, 15}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := NewFilter(tt.pred, tuple.NewIterator(pairs(t, td, rows...), td))
			require.NoError(t, err)
			require.NoError(t, f.Open())
			defer f.Close()
			assert.Equal(t, tt.want, collectPairs(t, f))
		})
	}
}

func TestFilterPredicateError(t *testing.T) {
	td := pairDesc(t)
	child := tuple.NewIterator(pairs(t, td, [2]int64{1, 5}), td)
	f, err := NewFilter(NewPredicate(1, primitives.Like, types.NewStringField("x")), child)
	require.NoError(t, err)
	require.NoError(t, f.Open())

	_, err = f.HasNext()
	assert.Error(t, err)
}

func TestFilterLifecycle(t *testing.T) {
	td := pairDesc(t)
	child := tuple.NewIterator(pairs(t, td, [2]int64{1, 50}), td)
	f, err := NewFilter(NewPredicate(1, primitives.GreaterThan, types.NewIntField(10)), child)
	require.NoError(t, err)

	_, err = f.Next()
	assert.True(t, errors.Is(err, dberror.ErrIllegalState))

	require.NoError(t, f.Open())
	assert.True(t, errors.Is(f.Open(), dberror.ErrIllegalState))
	require.NoError(t, f.Close())
	require.NoError(t, f.Close())

	require.NoError(t, f.Open())
	assert.Equal(t, [][2]int64{{1, 50}}, collectPairs(t, f))

	_, err = f.Next()
	assert.True(t, errors.Is(err, dberror.ErrNoSuchElement))
	require.NoError(t, f.Close())
}

func TestFilterChildren(t *testing.T) {
	td := pairDesc(t)
	first := tuple.NewIterator(pairs(t, td, [2]int64{1, 50}), td)
	pred := NewPredicate(1, primitives.GreaterThan, types.NewIntField(10))
	f, err := NewFilter(pred, first)
	require.NoError(t, err)

	assert.Same(t, pred, f.GetPredicate())
	assert.Equal(t, []iterator.DbIterator{first}, f.Children())

	second := tuple.NewIterator(pairs(t, td, [2]int64{2, 60}, [2]int64{3, 1}), td)
	require.NoError(t, f.SetChildren([]iterator.DbIterator{second}))
	require.NoError(t, f.Open())
	defer f.Close()
	assert.Equal(t, [][2]int64{{2, 60}}, collectPairs(t, f))
}

func TestNewFilterValidation(t *testing.T) {
	td := pairDesc(t)
	_, err := NewFilter(nil, tuple.NewIterator(nil, td))
	assert.True(t, errors.Is(err, dberror.ErrInvalidArgument))

	_, err = NewFilter(NewPredicate(0, primitives.Equals, types.NewIntField(1)), nil)
	assert.True(t, errors.Is(err, dberror.ErrInvalidArgument))
}

func TestPredicateString(t *testing.T) {
	p := NewPredicate(2, primitives.GreaterThan, types.NewIntField(100))
	assert.Equal(t, "field[2] > 100", p.String())
	assert.Equal(t, 2, p.FieldIndex())
	assert.Equal(t, primitives.GreaterThan, p.Op())
}
