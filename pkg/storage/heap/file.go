package heap

import (
	"heapstore/pkg/concurrency/transaction"
	dberror "heapstore/pkg/error"
	"heapstore/pkg/logging"
	"heapstore/pkg/primitives"
	"heapstore/pkg/storage/page"
	"heapstore/pkg/tuple"
)

// PageCache is the page-fetch surface a HeapFile needs from the buffer pool.
// Every page touched by a scan, insert or delete is obtained through it.
type PageCache interface {
	GetPage(tid *transaction.TransactionID, pid page.PageDescriptor, perm transaction.Permissions) (page.Page, error)
}

// HeapFile represents a collection of pages stored in a single OS file on disk.
// It implements the page.DbFile interface and manages heap pages that store tuples
// in a row-oriented format with bitmap headers.
//
// Storage Layout:
//   - Each page is exactly page.PageSize() bytes
//   - Pages are numbered sequentially starting from 0
//   - Page offsets are calculated as: pageNo * page.PageSize()
type HeapFile struct {
	*page.BaseFile
	tupleDesc *tuple.TupleDescription // Schema definition for tuples in this file
	cache     PageCache
}

// NewHeapFile creates a new HeapFile backed by the specified file on disk.
// The file will be created if it doesn't exist, or opened for read-write if it does.
//
// Parameters:
//   - filename: Path to the heap file on disk (cannot be empty)
//   - td: Schema definition for tuples that will be stored in this file
//   - cache: Buffer pool used for page access; nil reads pages directly from disk
//
// Returns:
//   - *HeapFile: The initialized heap file
//   - error: If the schema does not fit a page or the file cannot be opened
func NewHeapFile(filename primitives.Filepath, td *tuple.TupleDescription, cache PageCache) (*HeapFile, error) {
	return newHeapFile(filename, td, cache, page.NewBaseFile)
}

// OpenHeapFile is NewHeapFile for a file that must already exist.
func OpenHeapFile(filename primitives.Filepath, td *tuple.TupleDescription, cache PageCache) (*HeapFile, error) {
	return newHeapFile(filename, td, cache, page.OpenBaseFile)
}

func newHeapFile(filename primitives.Filepath, td *tuple.TupleDescription, cache PageCache,
	open func(primitives.Filepath) (*page.BaseFile, error)) (*HeapFile, error) {
	if td == nil {
		return nil, dberror.InvalidArgument("tuple description cannot be nil")
	}
	if slots := NumSlots(td); slots < 1 || slots > int(^primitives.SlotID(0))+1 {
		return nil, dberror.InvalidArgument("schema %s yields %d slots per %d-byte page", td, slots, page.PageSize())
	}

	baseFile, err := open(filename)
	if err != nil {
		return nil, err
	}

	return &HeapFile{
		BaseFile:  baseFile,
		tupleDesc: td,
		cache:     cache,
	}, nil
}

// SetPageCache attaches the buffer pool after construction.
func (hf *HeapFile) SetPageCache(cache PageCache) {
	hf.cache = cache
}

// GetTupleDesc returns the schema definition for tuples stored in this file.
func (hf *HeapFile) GetTupleDesc() *tuple.TupleDescription {
	return hf.tupleDesc
}

// ReadPage reads the specified page from disk into memory.
// This method performs physical I/O and should typically be called through
// the buffer pool rather than directly.
//
// Parameters:
//   - pageID: The page identifier (must be a page.PageDescriptor)
//
// Returns:
//   - page.Page: The loaded HeapPage with tuple data
//   - error: INVALID_PAGE if the page is not part of this file, STORAGE_IO
//     or FORMAT_ERROR if the read or decode fails
func (hf *HeapFile) ReadPage(pageID primitives.PageID) (page.Page, error) {
	pid, err := hf.validatePageID(pageID)
	if err != nil {
		return nil, err
	}

	numPages, err := hf.NumPages()
	if err != nil {
		return nil, err
	}
	if pid.PageNo() >= numPages {
		return nil, dberror.InvalidPage("page %d out of range: file has %d pages", pid.PageNo(), numPages)
	}

	pageData, err := hf.ReadPageData(pid.PageNo())
	if err != nil {
		return nil, err
	}

	return NewHeapPage(pid, pageData, hf.tupleDesc)
}

// ParsePage decodes a page image that belongs to this file.
func (hf *HeapFile) ParsePage(pid page.PageDescriptor, data []byte) (page.Page, error) {
	if pid.FileID() != hf.GetID() {
		return nil, dberror.InvalidPage("%s does not belong to file %s", pid, hf.GetID())
	}
	return NewHeapPage(pid, data, hf.tupleDesc)
}

// validatePageID validates that a PageID is appropriate for this HeapFile.
func (hf *HeapFile) validatePageID(pageID primitives.PageID) (page.PageDescriptor, error) {
	if pageID == nil {
		return page.PageDescriptor{}, dberror.InvalidPage("page ID cannot be nil")
	}

	pid, ok := pageID.(page.PageDescriptor)
	if !ok {
		return page.PageDescriptor{}, dberror.InvalidPage("invalid page ID type %T for heap file", pageID)
	}

	if pid.FileID() != hf.GetID() {
		return page.PageDescriptor{}, dberror.InvalidPage("%s does not belong to file %s", pid, hf.GetID())
	}

	return pid, nil
}

// WritePage writes the given page to disk at its designated location and
// marks it clean.
//
// Parameters:
//   - p: The page to write (must belong to this file)
//
// Returns:
//   - error: If page is nil, belongs to another file, has a slot that cannot
//     be serialized, or I/O fails
func (hf *HeapFile) WritePage(p page.Page) error {
	if p == nil {
		return dberror.InvalidArgument("page cannot be nil")
	}
	if p.GetID().FileID() != hf.GetID() {
		return dberror.InvalidPage("%s does not belong to file %s", p.GetID(), hf.GetID())
	}

	data, err := encodePage(p)
	if err != nil {
		return err
	}
	if err := hf.WritePageData(p.GetID().PageNo(), data); err != nil {
		return err
	}

	p.MarkDirty(false, nil)
	return nil
}

func encodePage(p page.Page) ([]byte, error) {
	if hp, ok := p.(*HeapPage); ok {
		return hp.Encode()
	}
	return p.GetPageData(), nil
}

// getPage fetches a page through the attached cache. Without a cache only
// ReadOnly fetches are served, straight from disk: a page decoded for a
// write would be dropped with its changes.
func (hf *HeapFile) getPage(tid *transaction.TransactionID, pid page.PageDescriptor, perm transaction.Permissions) (*HeapPage, error) {
	var (
		p   page.Page
		err error
	)
	switch {
	case hf.cache != nil:
		p, err = hf.cache.GetPage(tid, pid, perm)
	case perm == transaction.ReadWrite:
		return nil, errNoPageCache()
	default:
		p, err = hf.ReadPage(pid)
	}
	if err != nil {
		return nil, err
	}

	hp, ok := p.(*HeapPage)
	if !ok {
		return nil, dberror.IllegalState("%s is a %T, not a heap page", pid, p)
	}
	return hp, nil
}

func errNoPageCache() error {
	return dberror.IllegalState("heap file has no page cache; writes need one")
}

// InsertTuple stores t on the first page with a free slot, appending an empty
// page to the file when every existing page is full.
//
// Returns:
//   - []page.Page: the single page that was modified, marked dirty by tid
//   - error: ILLEGAL_STATE without a page cache, TYPE_MISMATCH on a schema
//     mismatch, STORAGE_FULL if the chosen page has no free slot, or any
//     error from fetching pages
func (hf *HeapFile) InsertTuple(tid *transaction.TransactionID, t *tuple.Tuple) ([]page.Page, error) {
	if hf.cache == nil {
		return nil, errNoPageCache()
	}
	if t == nil {
		return nil, dberror.InvalidArgument("tuple cannot be nil")
	}
	if !t.TupleDesc.Equals(hf.tupleDesc) {
		return nil, dberror.TypeMismatch("tuple schema %s does not match file schema %s", t.TupleDesc, hf.tupleDesc)
	}

	numPages, err := hf.NumPages()
	if err != nil {
		return nil, err
	}

	var target *HeapPage
	for pageNo := primitives.PageNumber(0); pageNo < numPages; pageNo++ {
		hp, err := hf.getPage(tid, page.NewPageDescriptor(hf.GetID(), pageNo), transaction.ReadWrite)
		if err != nil {
			return nil, err
		}
		if hp.GetNumEmptySlots() > 0 {
			target = hp
			break
		}
	}

	if target == nil {
		pageNo, err := hf.AllocateNewPage(CreateEmptyPageData())
		if err != nil {
			return nil, err
		}
		logging.WithPage(uint64(hf.GetID()), uint64(pageNo)).Debug("appended page for insert")

		target, err = hf.getPage(tid, page.NewPageDescriptor(hf.GetID(), pageNo), transaction.ReadWrite)
		if err != nil {
			return nil, err
		}
	}

	if err := target.AddTuple(t); err != nil {
		return nil, err
	}
	target.MarkDirty(true, tid)
	return []page.Page{target}, nil
}

// DeleteTuple clears the slot named by t's record id.
//
// Returns:
//   - []page.Page: the modified page, marked dirty by tid
//   - error: ILLEGAL_STATE without a page cache, TUPLE_NOT_FOUND if t has no
//     record id or the slot is empty
func (hf *HeapFile) DeleteTuple(tid *transaction.TransactionID, t *tuple.Tuple) ([]page.Page, error) {
	if hf.cache == nil {
		return nil, errNoPageCache()
	}
	if t == nil || t.RecordID == nil || t.RecordID.PageID == nil {
		return nil, dberror.TupleNotFound("tuple has no record id")
	}

	pid, err := hf.validatePageID(t.RecordID.PageID)
	if err != nil {
		return nil, dberror.TupleNotFound("tuple %s is not stored in this file", t.RecordID)
	}

	hp, err := hf.getPage(tid, pid, transaction.ReadWrite)
	if err != nil {
		return nil, err
	}

	if err := hp.DeleteTuple(t); err != nil {
		return nil, err
	}
	hp.MarkDirty(true, tid)
	return []page.Page{hp}, nil
}

// Iterator returns an unopened iterator over every tuple in the file.
func (hf *HeapFile) Iterator(tid *transaction.TransactionID) *HeapFileIterator {
	return NewHeapFileIterator(hf, tid)
}
