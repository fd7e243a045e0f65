package memory

import (
	"github.com/dgraph-io/ristretto/v2"
	"github.com/golang/snappy"

	dberror "heapstore/pkg/error"
	"heapstore/pkg/storage/page"
)

// imageCache holds snappy-compressed images of clean pages. A page evicted
// from the resident set can be rebuilt from here without touching the disk.
// Entries are only ever written from clean pages, so a hit always equals
// what is on disk.
type imageCache struct {
	cache *ristretto.Cache[string, []byte]
}

func newImageCache(maxBytes int64) (*imageCache, error) {
	if maxBytes <= 0 {
		return &imageCache{}, nil
	}

	cache, err := ristretto.NewCache(&ristretto.Config[string, []byte]{
		NumCounters: max(maxBytes/64, 1024),
		MaxCost:     maxBytes,
		BufferItems: 64,
	})
	if err != nil {
		return nil, dberror.Wrap(err, dberror.CodeInvalidArgument, "newImageCache", "memory")
	}
	return &imageCache{cache: cache}, nil
}

// store records the image of a clean page. Wait makes the entry visible
// to the next lookup.
func (ic *imageCache) store(pid page.PageDescriptor, data []byte) {
	if ic.cache == nil {
		return
	}

	compressed := snappy.Encode(nil, data)
	key := pid.CacheKey()
	ic.cache.Del(key)
	ic.cache.Set(key, compressed, int64(len(compressed)))
	ic.cache.Wait()
}

// load returns the uncompressed image of pid, if cached.
func (ic *imageCache) load(pid page.PageDescriptor) ([]byte, bool) {
	if ic.cache == nil {
		return nil, false
	}

	compressed, ok := ic.cache.Get(pid.CacheKey())
	if !ok {
		return nil, false
	}

	data, err := snappy.Decode(nil, compressed)
	if err != nil || len(data) != page.PageSize() {
		ic.cache.Del(pid.CacheKey())
		return nil, false
	}
	return data, true
}

func (ic *imageCache) invalidate(pid page.PageDescriptor) {
	if ic.cache == nil {
		return
	}
	ic.cache.Del(pid.CacheKey())
}

func (ic *imageCache) close() {
	if ic.cache != nil {
		ic.cache.Close()
	}
}
