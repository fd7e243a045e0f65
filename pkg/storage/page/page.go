package page

import (
	"sync/atomic"

	"heapstore/pkg/concurrency/transaction"
)

// DefaultPageSize is the size of each page in bytes (4KB).
const DefaultPageSize = 4096

var pageSize atomic.Int64

func init() {
	pageSize.Store(DefaultPageSize)
}

// PageSize returns the process-wide page size in bytes.
func PageSize() int {
	return int(pageSize.Load())
}

// SetPageSize changes the process-wide page size. It must be called before
// any heap file is opened; files written with one size cannot be read with
// another.
func SetPageSize(n int) {
	pageSize.Store(int64(n))
}

// ResetPageSize restores DefaultPageSize.
func ResetPageSize() {
	pageSize.Store(DefaultPageSize)
}

// Page interface represents a page that is resident in the buffer pool.
// Pages may be "dirty", indicating they have been modified since last written to disk.
type Page interface {
	// GetID returns the ID of this page
	GetID() PageDescriptor

	// IsDirty returns the transaction that last dirtied this page, or nil if clean
	IsDirty() *transaction.TransactionID

	// MarkDirty sets the dirty state of this page
	MarkDirty(dirty bool, tid *transaction.TransactionID)

	// GetPageData returns the page image, exactly PageSize() bytes.
	GetPageData() []byte

	// GetBeforeImage returns the page as it was when SetBeforeImage last ran.
	GetBeforeImage() Page

	// SetBeforeImage copies current content to the before image.
	// Called when a transaction that wrote this page commits.
	SetBeforeImage()
}
