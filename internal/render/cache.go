package render

import "git.home.luguber.info/inful/sitegen/internal/value"

// ExpansionMode bounds recursive context expansion through relation graphs.
// Relations may be cyclic (post -> author -> post); rendering referenced
// items reference-only breaks the cycle at depth one.
type ExpansionMode int

const (
	// ExpandFull resolves every scope section including sub-queries.
	ExpandFull ExpansionMode = iota
	// ExpandReferenceOnly skips the queries section, used when expanding
	// relation targets and sub-query results.
	ExpandReferenceOnly
)

// cacheKey covers every axis of context variance. Leaving one out would
// serve stale contexts across scopes or expansion modes.
type cacheKey struct {
	pipeline string
	slug     string
	scope    string
	mode     ExpansionMode
}

// Cache memoizes computed contexts for one pipeline run. Relation and
// sub-query expansion re-enter the builder recursively, so without
// memoization context computation is exponential in relation depth.
//
// Not safe for concurrent use: each pipeline run owns its own instance.
type Cache struct {
	entries map[cacheKey]map[string]value.Value
	hits    int
	misses  int
}

// NewCache creates an empty context cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[cacheKey]map[string]value.Value)}
}

func (c *Cache) get(key cacheKey) (map[string]value.Value, bool) {
	v, ok := c.entries[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return v, ok
}

func (c *Cache) set(key cacheKey, ctx map[string]value.Value) {
	c.entries[key] = ctx
}

// Len reports the number of cached contexts.
func (c *Cache) Len() int {
	return len(c.entries)
}

// Stats reports lookup hits and misses since the cache was created.
func (c *Cache) Stats() (hits, misses int) {
	return c.hits, c.misses
}
