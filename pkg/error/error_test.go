package error

import (
	"errors"
	"fmt"
	"io"
	"testing"

	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSentinelsMatchByCode(t *testing.T) {
	err := NoSuchElement("iterator exhausted")
	assert.True(t, errors.Is(err, ErrNoSuchElement))
	assert.False(t, errors.Is(err, ErrIllegalState))

	wrapped := fmt.Errorf("scan failed: %w", InvalidPage("page %d out of range", 4))
	assert.True(t, errors.Is(wrapped, ErrInvalidPage))
	assert.True(t, HasCode(wrapped, CodeInvalidPage))
}

func TestCategories(t *testing.T) {
	assert.Equal(t, ErrCategoryData, Format("bad page").Category)
	assert.Equal(t, ErrCategoryTransient, StorageFull("no free slot").Category)
	assert.Equal(t, ErrCategoryUser, InvalidArgument("bad op").Category)
	assert.Equal(t, ErrCategorySystem, StorageIO(io.ErrUnexpectedEOF, "ReadPage", "HeapFile").Category)
}

func TestWrapKeepsCauseChain(t *testing.T) {
	cause := pkgerrors.Wrap(io.ErrShortWrite, "write page 3")
	err := StorageIO(cause, "WritePage", "HeapFile")

	require.NotNil(t, err)
	assert.True(t, errors.Is(err, io.ErrShortWrite))
	assert.True(t, errors.Is(err, ErrStorageIO))
	assert.Contains(t, err.Error(), "operation: WritePage")
	assert.Contains(t, err.Error(), "component: HeapFile")
}

func TestWrapEnrichesExistingDBError(t *testing.T) {
	inner := TupleNotFound("slot 3 empty")
	out := Wrap(inner, CodeStorageIO, "DeleteTuple", "HeapFile")

	assert.Same(t, inner, out)
	assert.Equal(t, CodeTupleNotFound, out.Code)
	assert.Equal(t, "DeleteTuple", out.Operation)
	assert.Nil(t, Wrap(nil, CodeStorageIO, "x", "y"))
}

func TestErrorFormatting(t *testing.T) {
	err := IllegalState("operator already open").WithDetail("filter over %s", "users").WithContext("Open", "Filter")
	assert.Equal(t, "[ILLEGAL_STATE] operator already open: filter over users (operation: Open, component: Filter)", err.Error())
	assert.NotEmpty(t, err.FormatStack())
}
