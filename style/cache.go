package style

import "sync"

// cacheKey is the full input tuple of Resolve; nothing else affects a Record.
type cacheKey struct {
	template   Template
	primary    string
	secondary  string
	fontFamily string
}

// Cache is a read-through cache of resolved records. Entries are never
// evicted; the set of realistic brand/template pairs is small.
// Records returned from the cache are shared and must be treated as read-only.
type Cache struct {
	records sync.Map // cacheKey → Record
}

// NewCache returns an empty cache.
func NewCache() *Cache { return &Cache{} }

// Resolve returns the cached record for (name, brand), computing it on a miss.
func (c *Cache) Resolve(name string, b Brand) Record {
	key := cacheKey{
		template:   ParseTemplate(name),
		primary:    b.Primary,
		secondary:  b.Secondary,
		fontFamily: b.FontFamily,
	}
	if v, ok := c.records.Load(key); ok {
		return v.(Record)
	}
	rec := ResolveTemplate(key.template, b)
	v, _ := c.records.LoadOrStore(key, rec)
	return v.(Record)
}

// Len returns the number of cached records.
func (c *Cache) Len() int {
	n := 0
	c.records.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

var shared = NewCache()

// Cached resolves through the process-wide cache.
func Cached(name string, b Brand) Record { return shared.Resolve(name, b) }
