package primitives

import (
	"os"
	"path/filepath"

	"github.com/OneOfOne/xxhash"
)

// Filepath is a type-safe wrapper around the paths of heap files.
//
// Example usage:
//
//	dataDir := primitives.Filepath("/data")
//	tablePath := dataDir.Join("users.dat")
//	fileID := tablePath.Hash()
type Filepath string

// Canonical returns the absolute, cleaned form of the path. If the absolute
// path cannot be resolved the cleaned relative path is returned.
func (f Filepath) Canonical() Filepath {
	abs, err := filepath.Abs(string(f))
	if err != nil {
		return Filepath(filepath.Clean(string(f)))
	}
	return Filepath(abs)
}

// Hash derives the FileID of the path with xxhash over its canonical
// absolute form.
//
// Returns:
//   - FileID: the same value for every spelling of the same file path
//
// Example:
//
//	primitives.Filepath("data/users.dat").Hash() == primitives.Filepath("./data/../data/users.dat").Hash()
func (f Filepath) Hash() FileID {
	return FileID(xxhash.Checksum64([]byte(f.Canonical())))
}

// Dir returns all but the last element of the path.
func (f Filepath) Dir() string {
	return filepath.Dir(string(f))
}

// String returns the path as a plain string.
func (f Filepath) String() string {
	return string(f)
}

// Join joins path elements onto the path.
func (f Filepath) Join(elem ...string) Filepath {
	parts := append([]string{string(f)}, elem...)
	return Filepath(filepath.Join(parts...))
}

// Base returns the last element of the path.
func (f Filepath) Base() string {
	return filepath.Base(string(f))
}

// Exists reports whether a file or directory exists at the path.
func (f Filepath) Exists() bool {
	_, err := os.Stat(string(f))
	return err == nil
}

// IsEmpty reports whether the path is the empty string.
func (f Filepath) IsEmpty() bool {
	return f == ""
}

// MkdirAll creates the directory named by the path along with any parents.
func (f Filepath) MkdirAll(perm os.FileMode) error {
	return os.MkdirAll(string(f), perm)
}

// Ext returns the file name extension, including the dot.
func (f Filepath) Ext() string {
	return filepath.Ext(string(f))
}
