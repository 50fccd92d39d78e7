package concrete

import (
	"sync"

	"scriptc/script"
)

// Cache deduplicates module types by structure.  Entries are never evicted or
// mutated once inserted.  It is safe for concurrent use: lookup and insertion
// happen under one lock so that a specialization is never materialized twice.
type Cache struct {
	m    *sync.Mutex
	unit *script.Unit

	// buckets maps module type hashes to the materialized module types with
	// that hash.
	buckets map[uint64][]*ConcreteModuleType
	size    int
}

// NewCache creates a cache materializing its types into unit.
func NewCache(unit *script.Unit) *Cache {
	return &Cache{
		m:       &sync.Mutex{},
		unit:    unit,
		buckets: make(map[uint64][]*ConcreteModuleType),
	}
}

// Unit returns the compilation unit the cache materializes into.
func (c *Cache) Unit() *script.Unit {
	return c.unit
}

// LookupOrMaterialize returns the cached module type equal to cmt if there is
// one.  Otherwise, it materializes cmt, caches it and returns it.  Errors from
// host equality abort the lookup.
func (c *Cache) LookupOrMaterialize(cmt *ConcreteModuleType) (*ConcreteModuleType, error) {
	c.m.Lock()
	defer c.m.Unlock()

	hash := cmt.Hash()
	for _, cached := range c.buckets[hash] {
		eq, err := cached.Equal(cmt)
		if err != nil {
			return nil, err
		}

		if eq {
			return cached, nil
		}
	}

	cmt.Materialize(c.unit)
	c.buckets[hash] = append(c.buckets[hash], cmt)
	c.size++

	return cmt, nil
}

// Len returns the number of distinct module types in the cache.
func (c *Cache) Len() int {
	c.m.Lock()
	defer c.m.Unlock()

	return c.size
}
