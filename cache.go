package esquery

import (
	"sync"

	"github.com/cespare/xxhash/v2"

	"github.com/nlstn/go-esquery/internal/expr"
	"github.com/nlstn/go-esquery/internal/translate"
)

// requestCache is a bounded cache mapping predicate hashes to their
// translated requests. Deferred-execution builders tend to replay a small
// number of predicate shapes many times, so repeated translations of the
// same tree are served from here.
//
// Eviction strategy: when the cache reaches its capacity limit the entire
// map is replaced. This is simpler than a true LRU and sufficient for the
// target use-case (a small number of distinct predicate templates repeated
// many times).
//
// Thread safety: all methods are safe for concurrent use.
type requestCache struct {
	mu    sync.RWMutex
	items map[uint64]*translate.SearchRequest
	max   int
}

func newRequestCache(max int) *requestCache {
	return &requestCache{
		items: make(map[uint64]*translate.SearchRequest, max),
		max:   max,
	}
}

// cacheKey hashes the document type together with the canonical predicate
// text. The printer output is deterministic for structurally identical
// trees, so equal predicates collide on purpose.
func cacheKey(docType string, lambda *expr.LambdaExpr) uint64 {
	h := xxhash.New()
	_, _ = h.WriteString(docType)
	_, _ = h.WriteString("|")
	_, _ = h.WriteString(expr.Print(lambda))
	return h.Sum64()
}

func (c *requestCache) get(key uint64) (*translate.SearchRequest, bool) {
	c.mu.RLock()
	req, ok := c.items[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	// Criteria are immutable but the pagination slots are caller-owned, so
	// hits hand out a shallow copy.
	out := *req
	return &out, true
}

func (c *requestCache) put(key uint64, req *translate.SearchRequest) {
	// Snapshot the request so later caller mutations cannot reach the cache.
	stored := *req
	c.mu.Lock()
	if len(c.items) >= c.max {
		// Evict everything and start fresh rather than tracking entry ages.
		c.items = make(map[uint64]*translate.SearchRequest, c.max)
	}
	c.items[key] = &stored
	c.mu.Unlock()
}
