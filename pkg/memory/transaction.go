package memory

import (
	"cmp"
	"maps"
	"slices"
	"time"

	"heapstore/pkg/concurrency/transaction"
	"heapstore/pkg/storage/page"
)

// TransactionInfo records what one transaction has touched in the buffer pool.
type TransactionInfo struct {
	startTime  time.Time
	dirtyPages map[page.PageDescriptor]struct{}
	accessed   map[page.PageDescriptor]transaction.Permissions
}

func newTransactionInfo() *TransactionInfo {
	return &TransactionInfo{
		startTime:  time.Now(),
		dirtyPages: make(map[page.PageDescriptor]struct{}),
		accessed:   make(map[page.PageDescriptor]transaction.Permissions),
	}
}

// getOrCreateTransaction returns the info for tid. Must be called with p.mutex held.
func (p *PageStore) getOrCreateTransaction(tid *transaction.TransactionID) *TransactionInfo {
	txInfo, exists := p.transactions[tid]
	if !exists {
		txInfo = newTransactionInfo()
		p.transactions[tid] = txInfo
	}
	return txInfo
}

// trackPageAccess records the strongest permission tid has requested on pid.
func (p *PageStore) trackPageAccess(tid *transaction.TransactionID, pid page.PageDescriptor, perm transaction.Permissions) {
	if tid == nil {
		return
	}

	p.mutex.Lock()
	defer p.mutex.Unlock()

	txInfo := p.getOrCreateTransaction(tid)
	if prev, ok := txInfo.accessed[pid]; !ok || prev < perm {
		txInfo.accessed[pid] = perm
	}
}

// markPagesAsDirty marks pages dirty by tid and makes sure they are resident.
func (p *PageStore) markPagesAsDirty(tid *transaction.TransactionID, pages []page.Page) error {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	txInfo := p.getOrCreateTransaction(tid)
	for _, pg := range pages {
		pg.MarkDirty(true, tid)
		if err := p.cache.Put(pg.GetID(), pg); err != nil {
			return err
		}
		txInfo.dirtyPages[pg.GetID()] = struct{}{}
	}
	return nil
}

// TransactionDirtyPages returns the pages tid has dirtied and not yet
// committed or aborted, ordered by file and page number.
func (p *PageStore) TransactionDirtyPages(tid *transaction.TransactionID) []page.PageDescriptor {
	p.mutex.RLock()
	defer p.mutex.RUnlock()

	txInfo, exists := p.transactions[tid]
	if !exists {
		return nil
	}
	return sortedPages(txInfo.dirtyPages)
}

func sortedPages(set map[page.PageDescriptor]struct{}) []page.PageDescriptor {
	return slices.SortedFunc(maps.Keys(set), func(a, b page.PageDescriptor) int {
		return cmp.Or(cmp.Compare(a.FileID(), b.FileID()), cmp.Compare(a.PageNo(), b.PageNo()))
	})
}

// CommitTransaction makes tid's changes durable.
//
// Commit Process:
//  1. Refresh before-images of the pages tid dirtied
//  2. Flush those pages to disk (FORCE policy)
//  3. Stop tracking tid
//
// Committing a transaction that never dirtied anything is a no-op.
func (p *PageStore) CommitTransaction(tid *transaction.TransactionID) error {
	return p.finalizeTransaction(tid, true)
}

// AbortTransaction discards every page tid dirtied. Because dirty pages are
// never written before commit (NO-STEAL), the next access rereads the last
// committed image.
func (p *PageStore) AbortTransaction(tid *transaction.TransactionID) error {
	return p.finalizeTransaction(tid, false)
}

func (p *PageStore) finalizeTransaction(tid *transaction.TransactionID, commit bool) error {
	if tid == nil {
		return transactionRequired()
	}

	p.mutex.Lock()
	txInfo, exists := p.transactions[tid]
	if !exists {
		p.mutex.Unlock()
		return nil
	}
	dirtyPageIDs := sortedPages(txInfo.dirtyPages)
	p.mutex.Unlock()

	var err error
	if commit {
		err = p.handleCommit(dirtyPageIDs)
	} else {
		p.handleAbort(dirtyPageIDs)
	}
	if err != nil {
		return err
	}

	p.mutex.Lock()
	delete(p.transactions, tid)
	p.mutex.Unlock()

	entry := p.logger(tid).WithField("pages", len(dirtyPageIDs)).WithField("duration", time.Since(txInfo.startTime))
	if commit {
		entry.Debug("transaction committed")
	} else {
		entry.Debug("transaction aborted")
	}
	return nil
}

func (p *PageStore) handleCommit(dirtyPageIDs []page.PageDescriptor) error {
	for _, pid := range dirtyPageIDs {
		if pg, exists := p.cache.Get(pid); exists {
			pg.SetBeforeImage()
		}
		if err := p.FlushPage(pid); err != nil {
			return err
		}
	}
	return nil
}

func (p *PageStore) handleAbort(dirtyPageIDs []page.PageDescriptor) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	for _, pid := range dirtyPageIDs {
		p.cache.Remove(pid)
	}
}
