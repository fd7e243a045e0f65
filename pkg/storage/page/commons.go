package page

import (
	"io"
	"os"
	"sync"

	dberror "heapstore/pkg/error"
	"heapstore/pkg/logging"
	"heapstore/pkg/primitives"

	"github.com/pkg/errors"
)

const component = "BaseFile"

// BaseFile provides the raw page I/O shared by file types: page counting,
// whole-page reads and writes, and file extension.
//
// A file is a sequence of PageSize() byte pages; page n starts at byte
// n*PageSize(). A length that is not a multiple of the page size is a
// format error, never silently rounded.
//
// Thread-safety: All public methods use read/write locks to ensure safe concurrent access.
type BaseFile struct {
	file     *os.File            // The underlying OS file handle for I/O operations
	fileID   primitives.FileID   // Hash of the canonical absolute path
	mutex    sync.RWMutex        // Read-write mutex for thread-safe operations
	filePath primitives.Filepath // Canonical absolute path to the file
}

// NewBaseFile opens (creating if needed) the file at filePath.
//
// Parameters:
//   - filePath: The path to the database file to open
//
// Returns:
//   - *BaseFile: the opened file
//   - error: INVALID_ARGUMENT if the path is empty, STORAGE_IO if the open fails
func NewBaseFile(filePath primitives.Filepath) (*BaseFile, error) {
	return openBaseFile(filePath, os.O_RDWR|os.O_CREATE)
}

// OpenBaseFile opens an existing file. A missing file is a STORAGE_IO error
// whose chain matches os.ErrNotExist, and nothing is created.
func OpenBaseFile(filePath primitives.Filepath) (*BaseFile, error) {
	return openBaseFile(filePath, os.O_RDWR)
}

func openBaseFile(filePath primitives.Filepath, flag int) (*BaseFile, error) {
	if filePath.IsEmpty() {
		return nil, dberror.InvalidArgument("file path cannot be empty")
	}

	canonical := filePath.Canonical()
	file, err := os.OpenFile(string(canonical), flag, 0o644)
	if err != nil {
		return nil, dberror.StorageIO(errors.Wrapf(err, "open %s", canonical), "Open", component)
	}

	return &BaseFile{
		file:     file,
		fileID:   canonical.Hash(),
		filePath: canonical,
	}, nil
}

// GetID returns the unique identifier for this file.
func (bf *BaseFile) GetID() primitives.FileID {
	return bf.fileID
}

// FilePath returns the canonical absolute path of the file.
func (bf *BaseFile) FilePath() primitives.Filepath {
	return bf.filePath
}

// NumPages returns the number of pages in this file.
//
// Returns:
//   - PageNumber: file length divided by the page size
//   - error: FORMAT_ERROR if the length is not a multiple of the page size,
//     STORAGE_IO if the file is closed or cannot be stat'ed
func (bf *BaseFile) NumPages() (primitives.PageNumber, error) {
	bf.mutex.RLock()
	defer bf.mutex.RUnlock()
	return bf.numPagesLocked()
}

func (bf *BaseFile) numPagesLocked() (primitives.PageNumber, error) {
	if bf.file == nil {
		return 0, dberror.StorageIO(os.ErrClosed, "NumPages", component)
	}

	info, err := bf.file.Stat()
	if err != nil {
		return 0, dberror.StorageIO(errors.Wrapf(err, "stat %s", bf.filePath), "NumPages", component)
	}

	size := info.Size()
	ps := int64(PageSize())
	if size%ps != 0 {
		return 0, dberror.Format("file %s has length %d, not a multiple of page size %d", bf.filePath, size, ps)
	}

	return primitives.PageNumber(size / ps), nil // #nosec G115
}

// ReadPageData reads exactly PageSize() bytes of page pageNo.
//
// Returns:
//   - []byte: the raw page image
//   - error: STORAGE_IO if the file is closed, the read fails, or fewer
//     than PageSize() bytes are available
func (bf *BaseFile) ReadPageData(pageNo primitives.PageNumber) ([]byte, error) {
	bf.mutex.RLock()
	defer bf.mutex.RUnlock()

	if bf.file == nil {
		return nil, dberror.StorageIO(os.ErrClosed, "ReadPageData", component)
	}

	ps := PageSize()
	pageData := make([]byte, ps)
	offset := int64(pageNo) * int64(ps) // #nosec G115

	n, err := bf.file.ReadAt(pageData, offset)
	if n == ps {
		return pageData, nil
	}
	if err == nil || err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return nil, dberror.StorageIO(
		errors.Wrapf(err, "read page %d of %s: got %d of %d bytes", pageNo, bf.filePath, n, ps),
		"ReadPageData", component)
}

// WritePageData writes pageData at page pageNo and syncs the file.
//
// Parameters:
//   - pageNo: The zero-based page number to write
//   - pageData: The raw page data, exactly PageSize() bytes
//
// Returns:
//   - error: INVALID_ARGUMENT for a wrong-sized image, STORAGE_IO if the
//     write is short or fails
//
// Example:
//
//	data := make([]byte, page.PageSize())
//	err := bf.WritePageData(5, data)
func (bf *BaseFile) WritePageData(pageNo primitives.PageNumber, pageData []byte) error {
	bf.mutex.Lock()
	defer bf.mutex.Unlock()
	return bf.writeLocked(pageNo, pageData)
}

func (bf *BaseFile) writeLocked(pageNo primitives.PageNumber, pageData []byte) error {
	if bf.file == nil {
		return dberror.StorageIO(os.ErrClosed, "WritePageData", component)
	}

	ps := PageSize()
	if len(pageData) != ps {
		return dberror.InvalidArgument("invalid page data size: expected %d, got %d", ps, len(pageData))
	}

	offset := int64(pageNo) * int64(ps) // #nosec G115
	n, err := bf.file.WriteAt(pageData, offset)
	if err == nil && n != ps {
		err = io.ErrShortWrite
	}
	if err != nil {
		return dberror.StorageIO(
			errors.Wrapf(err, "write page %d of %s: wrote %d of %d bytes", pageNo, bf.filePath, n, ps),
			"WritePageData", component)
	}

	if err := bf.file.Sync(); err != nil {
		return dberror.StorageIO(errors.Wrapf(err, "sync %s", bf.filePath), "WritePageData", component)
	}

	return nil
}

// AllocateNewPage extends the file by one page holding image and returns
// the new page's number, which equals the page count before the call.
// Counting and writing happen under one write lock so concurrent callers
// receive distinct page numbers.
func (bf *BaseFile) AllocateNewPage(image []byte) (primitives.PageNumber, error) {
	bf.mutex.Lock()
	defer bf.mutex.Unlock()

	pageNo, err := bf.numPagesLocked()
	if err != nil {
		return 0, err
	}

	if err := bf.writeLocked(pageNo, image); err != nil {
		return 0, err
	}

	logging.WithFile(string(bf.filePath)).WithField("page_no", pageNo).Debug("allocated page")
	return pageNo, nil
}

// Close closes the underlying file handle. Closing twice is a no-op.
func (bf *BaseFile) Close() error {
	bf.mutex.Lock()
	defer bf.mutex.Unlock()

	if bf.file == nil {
		return nil
	}

	err := bf.file.Close()
	bf.file = nil
	if err != nil {
		return dberror.StorageIO(errors.Wrapf(err, "close %s", bf.filePath), "Close", component)
	}
	return nil
}
