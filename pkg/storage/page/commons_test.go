package page

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	dberror "heapstore/pkg/error"
	"heapstore/pkg/primitives"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFile(t *testing.T) *BaseFile {
	t.Helper()
	bf, err := NewBaseFile(primitives.Filepath(filepath.Join(t.TempDir(), "test.dat")))
	require.NoError(t, err)
	t.Cleanup(func() { _ = bf.Close() })
	return bf
}

func TestNewBaseFileRejectsEmptyPath(t *testing.T) {
	_, err := NewBaseFile("")
	assert.True(t, errors.Is(err, dberror.ErrInvalidArgument))
}

func TestOpenBaseFileRequiresExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.dat")

	_, err := OpenBaseFile(primitives.Filepath(path))
	assert.True(t, errors.Is(err, dberror.ErrStorageIO))
	assert.True(t, errors.Is(err, os.ErrNotExist))
	_, statErr := os.Stat(path)
	assert.True(t, errors.Is(statErr, os.ErrNotExist))

	created, err := NewBaseFile(primitives.Filepath(path))
	require.NoError(t, err)
	require.NoError(t, created.Close())

	opened, err := OpenBaseFile(primitives.Filepath(path))
	require.NoError(t, err)
	defer opened.Close()
	assert.Equal(t, created.GetID(), opened.GetID())

	_, err = OpenBaseFile("")
	assert.True(t, errors.Is(err, dberror.ErrInvalidArgument))
}

func TestBaseFileIDMatchesPathHash(t *testing.T) {
	dir := t.TempDir()
	a, err := NewBaseFile(primitives.Filepath(filepath.Join(dir, "x.dat")))
	require.NoError(t, err)
	defer a.Close()
	b, err := NewBaseFile(primitives.Filepath(filepath.Join(dir, ".", "x.dat")))
	require.NoError(t, err)
	defer b.Close()

	assert.Equal(t, a.GetID(), b.GetID())
	assert.True(t, filepath.IsAbs(a.FilePath().String()))
}

func TestAllocateAndReadBack(t *testing.T) {
	bf := newTestFile(t)

	n, err := bf.NumPages()
	require.NoError(t, err)
	assert.Equal(t, primitives.PageNumber(0), n)

	image := bytes.Repeat([]byte{0xAB}, PageSize())
	pageNo, err := bf.AllocateNewPage(image)
	require.NoError(t, err)
	assert.Equal(t, primitives.PageNumber(0), pageNo)

	pageNo, err = bf.AllocateNewPage(make([]byte, PageSize()))
	require.NoError(t, err)
	assert.Equal(t, primitives.PageNumber(1), pageNo)

	n, err = bf.NumPages()
	require.NoError(t, err)
	assert.Equal(t, primitives.PageNumber(2), n)

	data, err := bf.ReadPageData(0)
	require.NoError(t, err)
	assert.Equal(t, image, data)
}

func TestNumPagesRejectsPartialPage(t *testing.T) {
	bf := newTestFile(t)
	require.NoError(t, os.WriteFile(bf.FilePath().String(), make([]byte, PageSize()+10), 0o644))

	_, err := bf.NumPages()
	assert.True(t, errors.Is(err, dberror.ErrFormat))
}

func TestReadPastEndIsStorageIO(t *testing.T) {
	bf := newTestFile(t)
	_, err := bf.ReadPageData(3)
	assert.True(t, errors.Is(err, dberror.ErrStorageIO))
}

func TestWriteRejectsWrongSize(t *testing.T) {
	bf := newTestFile(t)
	err := bf.WritePageData(0, make([]byte, 10))
	assert.True(t, errors.Is(err, dberror.ErrInvalidArgument))
}

func TestClosedFile(t *testing.T) {
	bf := newTestFile(t)
	require.NoError(t, bf.Close())
	require.NoError(t, bf.Close())

	_, err := bf.NumPages()
	assert.True(t, errors.Is(err, dberror.ErrStorageIO))
	assert.True(t, errors.Is(bf.WritePageData(0, make([]byte, PageSize())), dberror.ErrStorageIO))
}

func TestPageSizeOverride(t *testing.T) {
	defer ResetPageSize()
	SetPageSize(256)
	assert.Equal(t, 256, PageSize())
	ResetPageSize()
	assert.Equal(t, DefaultPageSize, PageSize())
}

func TestPageDescriptorValueSemantics(t *testing.T) {
	a := NewPageDescriptor(1, 2)
	b := NewPageDescriptor(1, 2)
	c := NewPageDescriptor(1, 3)

	assert.Equal(t, a, b)
	assert.True(t, a.Equals(b))
	assert.False(t, a.Equals(c))
	assert.False(t, a.Equals(nil))
	assert.Equal(t, a.HashCode(), b.HashCode())
	assert.Equal(t, a.CacheKey(), b.CacheKey())

	m := map[PageDescriptor]int{a: 1}
	assert.Equal(t, 1, m[b])
	assert.Equal(t, "PageDescriptor(file=1, page=2)", a.String())
}
