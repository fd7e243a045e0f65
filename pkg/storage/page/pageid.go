package page

import (
	"encoding/binary"
	"fmt"

	"heapstore/pkg/primitives"

	"github.com/OneOfOne/xxhash"
)

// PageDescriptor identifies a page by file and page number. It is a
// comparable value type and is used directly as a map key.
type PageDescriptor struct {
	fileID  primitives.FileID
	pageNum primitives.PageNumber
}

// NewPageDescriptor creates a new page descriptor
func NewPageDescriptor(fileID primitives.FileID, pageNum primitives.PageNumber) PageDescriptor {
	return PageDescriptor{
		fileID:  fileID,
		pageNum: pageNum,
	}
}

// FileID returns the id of the file holding the page.
func (pd PageDescriptor) FileID() primitives.FileID {
	return pd.fileID
}

// PageNo returns the page number
func (pd PageDescriptor) PageNo() primitives.PageNumber {
	return pd.pageNum
}

// Serialize returns this page id as 16 bytes (file id, page number).
func (pd PageDescriptor) Serialize() []byte {
	buf := make([]byte, 16)
	binary.BigEndian.PutUint64(buf[0:8], uint64(pd.fileID))
	binary.BigEndian.PutUint64(buf[8:16], uint64(pd.pageNum))
	return buf
}

// Equals checks if two page ids name the same page.
func (pd PageDescriptor) Equals(other primitives.PageID) bool {
	if other == nil {
		return false
	}
	return pd.fileID == other.FileID() && pd.pageNum == other.PageNo()
}

func (pd PageDescriptor) String() string {
	return fmt.Sprintf("PageDescriptor(file=%d, page=%d)", pd.fileID, pd.pageNum)
}

// HashCode returns a hash code for this page id
func (pd PageDescriptor) HashCode() primitives.HashCode {
	return primitives.HashCode(xxhash.Checksum64(pd.Serialize()))
}

// CacheKey returns a string key usable by string-keyed caches.
func (pd PageDescriptor) CacheKey() string {
	return string(pd.Serialize())
}
