package memory

import (
	"sync"

	"github.com/sirupsen/logrus"

	"heapstore/pkg/concurrency/transaction"
	dberror "heapstore/pkg/error"
	"heapstore/pkg/logging"
	"heapstore/pkg/primitives"
	"heapstore/pkg/storage/page"
	"heapstore/pkg/tuple"
)

// DefaultMaxPages is the resident-page capacity used when none is given.
const DefaultMaxPages = 50

// PageStore manages an in-memory cache of database pages and handles transaction-aware page operations.
// It serves as the main interface between the execution layer and the underlying storage layer:
// heap files fetch their pages through GetPage, and tuple writes go through InsertTuple/DeleteTuple
// so that dirtied pages are tracked per transaction.
//
// Policies:
//   - NO-STEAL: a dirty page is never evicted or written before its transaction commits
//   - FORCE: commit writes every page the transaction dirtied
type PageStore struct {
	tableManager *TableManager
	mutex        sync.RWMutex
	transactions map[*transaction.TransactionID]*TransactionInfo
	cache        PageCache
	maxPages     int
	images       *imageCache
}

// NewPageStore creates a PageStore over the files registered in tm.
//
// Parameters:
//   - tm: Registry used to resolve a page's file id to its DbFile
//   - maxPages: Resident-page capacity; values < 1 select DefaultMaxPages
//   - imageCacheBytes: Budget of the compressed clean-image cache; 0 disables it
func NewPageStore(tm *TableManager, maxPages int, imageCacheBytes int64) (*PageStore, error) {
	if tm == nil {
		return nil, dberror.InvalidArgument("table manager cannot be nil")
	}
	if maxPages < 1 {
		maxPages = DefaultMaxPages
	}

	images, err := newImageCache(imageCacheBytes)
	if err != nil {
		return nil, err
	}

	return &PageStore{
		tableManager: tm,
		transactions: make(map[*transaction.TransactionID]*TransactionInfo),
		cache:        NewLRUPageCache(maxPages),
		maxPages:     maxPages,
		images:       images,
	}, nil
}

// TableManager returns the registry the store resolves files from.
func (p *PageStore) TableManager() *TableManager {
	return p.tableManager
}

func (p *PageStore) logger(tid *transaction.TransactionID) *logrus.Entry {
	if tid == nil {
		return logging.WithComponent("memory")
	}
	return logging.WithTx(tid.ID()).WithField("component", "memory")
}

// GetPage retrieves a page with specified permissions for a transaction.
// This is the main entry point for all page access in the database.
//
// Lookup order: resident pages, then the compressed image cache, then disk.
// Loading a page into a full pool first evicts the least recently used clean page.
//
// Returns:
//   - page.Page: the resident page
//   - error: STORAGE_FULL if every resident page is dirty, or any error from
//     resolving or reading the page
func (p *PageStore) GetPage(tid *transaction.TransactionID, pid page.PageDescriptor, perm transaction.Permissions) (page.Page, error) {
	p.trackPageAccess(tid, pid, perm)

	p.mutex.Lock()
	defer p.mutex.Unlock()

	if pg, exists := p.cache.Get(pid); exists {
		return pg, nil
	}

	dbFile, err := p.tableManager.GetDbFile(pid.FileID())
	if err != nil {
		return nil, err
	}

	if p.cache.Size() >= p.maxPages {
		if err := p.evictPage(); err != nil {
			return nil, err
		}
	}

	pg, err := p.loadPage(dbFile, pid)
	if err != nil {
		return nil, err
	}

	if err := p.cache.Put(pid, pg); err != nil {
		return nil, err
	}
	return pg, nil
}

func (p *PageStore) loadPage(dbFile page.DbFile, pid page.PageDescriptor) (page.Page, error) {
	if data, ok := p.images.load(pid); ok {
		pg, err := dbFile.ParsePage(pid, data)
		if err == nil {
			return pg, nil
		}
		p.images.invalidate(pid)
	}
	return dbFile.ReadPage(pid)
}

// evictPage implements NO-STEAL: only clean pages are candidates, least
// recently used first. The evicted image is kept in the image cache.
// Must be called with p.mutex held.
func (p *PageStore) evictPage() error {
	for _, pid := range p.cache.GetAll() {
		pg, exists := p.cache.Get(pid)
		if !exists || pg.IsDirty() != nil {
			continue
		}

		p.images.store(pid, pg.GetPageData())
		p.cache.Remove(pid)
		logging.WithPage(uint64(pid.FileID()), uint64(pid.PageNo())).Debug("evicted clean page")
		return nil
	}

	return dberror.StorageFull("all %d buffered pages are dirty, cannot evict (NO-STEAL policy)", p.cache.Size())
}

// InsertTuple adds t to the file registered under fileID on behalf of tid.
// The pages the file dirtied are kept resident until tid commits or aborts.
func (p *PageStore) InsertTuple(tid *transaction.TransactionID, fileID primitives.FileID, t *tuple.Tuple) error {
	if tid == nil {
		return transactionRequired()
	}

	dbFile, err := p.tableManager.GetDbFile(fileID)
	if err != nil {
		return err
	}

	modifiedPages, err := dbFile.InsertTuple(tid, t)
	if err != nil {
		return err
	}
	return p.markPagesAsDirty(tid, modifiedPages)
}

// DeleteTuple removes t, located by its record id, on behalf of tid.
func (p *PageStore) DeleteTuple(tid *transaction.TransactionID, t *tuple.Tuple) error {
	if tid == nil {
		return transactionRequired()
	}
	if t == nil || t.RecordID == nil || t.RecordID.PageID == nil {
		return dberror.TupleNotFound("tuple has no record id")
	}

	dbFile, err := p.tableManager.GetDbFile(t.RecordID.PageID.FileID())
	if err != nil {
		return err
	}

	modifiedPages, err := dbFile.DeleteTuple(tid, t)
	if err != nil {
		return err
	}
	return p.markPagesAsDirty(tid, modifiedPages)
}

// FlushPage writes pid to disk if it is resident and dirty, and refreshes
// its entry in the image cache.
func (p *PageStore) FlushPage(pid page.PageDescriptor) error {
	p.mutex.RLock()
	pg, exists := p.cache.Get(pid)
	p.mutex.RUnlock()

	if !exists || pg.IsDirty() == nil {
		return nil
	}

	dbFile, err := p.tableManager.GetDbFile(pid.FileID())
	if err != nil {
		return err
	}

	if err := dbFile.WritePage(pg); err != nil {
		return err
	}
	pg.MarkDirty(false, nil)
	p.images.store(pid, pg.GetPageData())
	return nil
}

// FlushAllPages writes every dirty resident page to disk. It ignores
// transaction boundaries and is meant for shutdown.
func (p *PageStore) FlushAllPages() error {
	p.mutex.RLock()
	pids := p.cache.GetAll()
	p.mutex.RUnlock()

	for _, pid := range pids {
		if err := p.FlushPage(pid); err != nil {
			return err
		}
	}
	return nil
}

// Size returns the number of resident pages.
func (p *PageStore) Size() int {
	return p.cache.Size()
}

// Close flushes every dirty page and releases the image cache.
func (p *PageStore) Close() error {
	if err := p.FlushAllPages(); err != nil {
		return err
	}
	p.images.close()
	return nil
}

func transactionRequired() error {
	return dberror.InvalidArgument("transaction ID cannot be nil")
}
