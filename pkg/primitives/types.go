package primitives

// HashCode is a 64-bit hash value used for page ids, group keys and file ids.
type HashCode uint64

// FileID identifies a heap file. It is derived from the canonical absolute
// path of the file, so two handles opened on the same path share an id.
type FileID uint64

// SlotID is a slot number within a heap page.
type SlotID uint16

// PageNumber is the zero-based index of a page within a file.
type PageNumber uint64

// ColumnID identifies a column within a tuple description.
type ColumnID uint32

const (
	// InvalidFileID represents an unset file id.
	InvalidFileID FileID = 0
)

// IsValid reports whether the FileID is non-zero.
func (f FileID) IsValid() bool {
	return f != 0
}

// AsUint64 returns the FileID as a uint64.
func (f FileID) AsUint64() uint64 {
	return uint64(f)
}

// PageID identifies a page within a file. Implementations must be comparable
// by value so they can be used as map keys.
type PageID interface {
	// FileID returns the file this page belongs to.
	FileID() FileID

	// PageNo returns the page number within the file.
	PageNo() PageNumber

	// Equals reports whether two page ids name the same page.
	Equals(other PageID) bool

	// String returns a human readable representation.
	String() string

	// HashCode returns a hash of the page id.
	HashCode() HashCode
}
