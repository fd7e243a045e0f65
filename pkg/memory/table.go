package memory

import (
	"maps"
	"slices"
	"sync"

	dberror "heapstore/pkg/error"
	"heapstore/pkg/logging"
	"heapstore/pkg/primitives"
	"heapstore/pkg/storage/page"
)

// TableManager is the registry of open database files, keyed by file id.
type TableManager struct {
	files map[primitives.FileID]page.DbFile
	mutex sync.RWMutex
}

// NewTableManager creates a new empty TableManager instance.
func NewTableManager() *TableManager {
	return &TableManager{
		files: make(map[primitives.FileID]page.DbFile),
	}
}

// AddFile registers f under its file id, replacing any file already registered under it.
func (tm *TableManager) AddFile(f page.DbFile) error {
	if f == nil {
		return dberror.InvalidArgument("file cannot be nil")
	}

	tm.mutex.Lock()
	defer tm.mutex.Unlock()
	tm.files[f.GetID()] = f
	return nil
}

// GetDbFile returns the file registered under id.
func (tm *TableManager) GetDbFile(id primitives.FileID) (page.DbFile, error) {
	tm.mutex.RLock()
	defer tm.mutex.RUnlock()

	f, exists := tm.files[id]
	if !exists {
		return nil, dberror.InvalidArgument("no file registered with id %s", id)
	}
	return f, nil
}

// RemoveFile unregisters and closes the file registered under id.
func (tm *TableManager) RemoveFile(id primitives.FileID) error {
	tm.mutex.Lock()
	defer tm.mutex.Unlock()

	f, exists := tm.files[id]
	if !exists {
		return dberror.InvalidArgument("no file registered with id %s", id)
	}
	delete(tm.files, id)
	return f.Close()
}

// FileIDs returns the registered file ids in ascending order.
func (tm *TableManager) FileIDs() []primitives.FileID {
	tm.mutex.RLock()
	defer tm.mutex.RUnlock()
	return slices.Sorted(maps.Keys(tm.files))
}

// Clear closes and unregisters every file. Close failures are logged.
func (tm *TableManager) Clear() {
	tm.mutex.Lock()
	defer tm.mutex.Unlock()

	for id, f := range tm.files {
		if err := f.Close(); err != nil {
			logging.WithError(err).WithField("file_id", uint64(id)).Warn("failed to close file")
		}
	}
	clear(tm.files)
}
