package aggregation

import (
	"heapstore/pkg/primitives"
	"heapstore/pkg/types"
)

// groupEntry is one group's key and running state.
type groupEntry[S any] struct {
	key   types.Field
	state S
}

// groupTable maps group keys to aggregate state. Keys are located by
// Field.Hash and confirmed with Field.Equals, so two keys share a group
// exactly when they are Equal. Groups iterate in first-seen order. A nil
// key is the single implicit group of an ungrouped aggregate.
type groupTable[S any] struct {
	buckets map[primitives.HashCode][]int
	entries []*groupEntry[S]
}

func newGroupTable[S any]() *groupTable[S] {
	return &groupTable[S]{
		buckets: make(map[primitives.HashCode][]int),
	}
}

// lookup returns the entry for key, creating it with newState when absent.
func (g *groupTable[S]) lookup(key types.Field, newState func() S) (*groupEntry[S], error) {
	var hash primitives.HashCode
	if key != nil {
		h, err := key.Hash()
		if err != nil {
			return nil, err
		}
		hash = h
	}

	for _, idx := range g.buckets[hash] {
		entry := g.entries[idx]
		if sameKey(entry.key, key) {
			return entry, nil
		}
	}

	entry := &groupEntry[S]{key: key, state: newState()}
	g.buckets[hash] = append(g.buckets[hash], len(g.entries))
	g.entries = append(g.entries, entry)
	return entry, nil
}

func (g *groupTable[S]) len() int {
	return len(g.entries)
}

func sameKey(a, b types.Field) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equals(b)
}
