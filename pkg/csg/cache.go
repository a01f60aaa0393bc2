package csg

import (
	"fmt"

	"github.com/chazu/csgtree/pkg/graph"
)

// cacheEntry is what one node contributed. A registered entry with a nil
// term is a node that legitimately produced nothing. List nodes contribute
// their children individually through spread.
type cacheEntry struct {
	term   *Term
	spread []*Term
	splice bool
}

// terms returns the entry's contribution to a parent combination.
func (e cacheEntry) terms() []*Term {
	if e.splice {
		return e.spread
	}
	if e.term == nil {
		return nil
	}
	return []*Term{e.term}
}

// termCache memoizes the contribution of every node visited during one
// traversal. Entries are never evicted or replaced.
type termCache struct {
	entries map[graph.NodeID]cacheEntry
	hits    int
}

func newTermCache() *termCache {
	return &termCache{entries: make(map[graph.NodeID]cacheEntry)}
}

// get returns the cached entry for id, if any.
func (c *termCache) get(id graph.NodeID) (cacheEntry, bool) {
	e, ok := c.entries[id]
	return e, ok
}

// put registers e for id. A second put for the same id is ignored so the
// first computed term stays authoritative.
func (c *termCache) put(id graph.NodeID, e cacheEntry) {
	if _, ok := c.entries[id]; ok {
		return
	}
	c.entries[id] = e
}

// mustGet is get for ids the traversal has already registered; a miss is
// a logic defect in the builder, not bad input.
func (c *termCache) mustGet(id graph.NodeID) (cacheEntry, error) {
	e, ok := c.entries[id]
	if !ok {
		return cacheEntry{}, fmt.Errorf("node %s: %w", id, ErrUnregisteredNode)
	}
	return e, nil
}

func (c *termCache) len() int {
	return len(c.entries)
}
