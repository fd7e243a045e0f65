// Package memory implements the buffer pool: resident pages, the table
// registry, per-transaction dirty-page tracking and a compressed cache of
// clean page images.
package memory

import (
	"sync"

	dberror "heapstore/pkg/error"
	"heapstore/pkg/storage/page"
)

// PageCache defines the interface for caching database pages in memory.
// It is responsible ONLY for storing and retrieving pages in memory.
// It knows nothing about transactions or durability.
type PageCache interface {
	// Get retrieves a page from the cache by its page ID.
	// Returns the page and true if found, or nil page and false if not found.
	Get(pid page.PageDescriptor) (page.Page, bool)

	// Put stores a page in the cache with the given page ID.
	// Returns an error if the page cannot be stored (e.g., cache is full).
	// If the page already exists, it should be updated.
	Put(pid page.PageDescriptor, p page.Page) error

	// Remove removes a page from the cache by its page ID.
	// Does nothing if the page doesn't exist.
	Remove(pid page.PageDescriptor)

	// Size returns the current number of pages in the cache.
	Size() int

	// Clear removes all pages from the cache.
	Clear()

	// GetAll returns all page IDs currently in the cache.
	GetAll() []page.PageDescriptor
}

// node represents a single node in the doubly linked list
type node struct {
	pid  page.PageDescriptor
	page page.Page
	prev *node
	next *node
}

// LRUPageCache implements an LRU (Least Recently Used) ordering for the page cache.
// A doubly linked list combined with a hash map gives O(1) operations.
//
// When the cache reaches maximum capacity, Put on a new page returns
// STORAGE_FULL rather than evicting; the caller chooses the victim.
type LRUPageCache struct {
	maxSize int
	cache   map[page.PageDescriptor]*node
	head    *node // Dummy head node (most recently used end)
	tail    *node // Dummy tail node (least recently used end)
	mutex   sync.RWMutex
}

// NewLRUPageCache creates a new LRU page cache with the specified maximum size.
func NewLRUPageCache(maxSize int) *LRUPageCache {
	head := &node{}
	tail := &node{}
	head.next = tail
	tail.prev = head

	return &LRUPageCache{
		maxSize: maxSize,
		cache:   make(map[page.PageDescriptor]*node),
		head:    head,
		tail:    tail,
	}
}

func (c *LRUPageCache) addToFront(n *node) {
	n.prev = c.head
	n.next = c.head.next
	c.head.next.prev = n
	c.head.next = n
}

func (c *LRUPageCache) removeNode(n *node) {
	n.prev.next = n.next
	n.next.prev = n.prev
}

func (c *LRUPageCache) moveToFront(n *node) {
	c.removeNode(n)
	c.addToFront(n)
}

// Get retrieves a page and marks it most recently used.
func (c *LRUPageCache) Get(pid page.PageDescriptor) (page.Page, bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if n, exists := c.cache[pid]; exists {
		c.moveToFront(n)
		return n.page, true
	}
	return nil, false
}

// Put stores a page and marks it most recently used.
func (c *LRUPageCache) Put(pid page.PageDescriptor, p page.Page) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if n, exists := c.cache[pid]; exists {
		n.page = p
		c.moveToFront(n)
		return nil
	}

	if len(c.cache) >= c.maxSize {
		return dberror.StorageFull("page cache full (%d pages), cannot add %s", c.maxSize, pid)
	}

	n := &node{pid: pid, page: p}
	c.cache[pid] = n
	c.addToFront(n)
	return nil
}

// Remove removes a page from the cache by its page ID.
func (c *LRUPageCache) Remove(pid page.PageDescriptor) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if n, exists := c.cache[pid]; exists {
		delete(c.cache, pid)
		c.removeNode(n)
	}
}

// Size returns the current number of pages stored in the cache.
func (c *LRUPageCache) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.cache)
}

// Clear removes all pages from the cache.
func (c *LRUPageCache) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.cache = make(map[page.PageDescriptor]*node)
	c.head.next = c.tail
	c.tail.prev = c.head
}

// GetAll returns the cached page IDs in LRU order (least recently used first).
func (c *LRUPageCache) GetAll() []page.PageDescriptor {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	pids := make([]page.PageDescriptor, 0, len(c.cache))
	for current := c.tail.prev; current != c.head; current = current.prev {
		pids = append(pids, current.pid)
	}
	return pids
}
