package embedding

import (
	"container/list"
	"sync"
)

// EmbeddingCache is an LRU cache mapping chunk or query text to its embedding
// vector. It fronts the remote and local embedders so repeated questions over
// the same paper do not re-embed identical text. Safe for concurrent use: Get
// promotes the entry in the recency list, so it mutates and takes the same
// lock as Set.
type EmbeddingCache struct {
	capacity int
	entries  map[string]*list.Element
	recency  *list.List
	mu       sync.Mutex
}

type cacheEntry struct {
	text   string
	vector []float32
}

// NewEmbeddingCache creates a cache holding at most capacity vectors.
func NewEmbeddingCache(capacity int) *EmbeddingCache {
	return &EmbeddingCache{
		capacity: capacity,
		entries:  make(map[string]*list.Element),
		recency:  list.New(),
	}
}

// Get returns the cached vector for text if present and marks it most
// recently used.
func (c *EmbeddingCache) Get(text string) ([]float32, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.entries[text]; ok {
		c.recency.MoveToFront(elem)
		return elem.Value.(*cacheEntry).vector, true
	}
	return nil, false
}

// Set stores the vector for text, evicting the least recently used entry when
// the cache is at capacity.
func (c *EmbeddingCache) Set(text string, vector []float32) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.entries[text]; ok {
		c.recency.MoveToFront(elem)
		elem.Value.(*cacheEntry).vector = vector
		return
	}

	elem := c.recency.PushFront(&cacheEntry{text: text, vector: vector})
	c.entries[text] = elem

	if c.recency.Len() > c.capacity {
		oldest := c.recency.Back()
		if oldest != nil {
			c.recency.Remove(oldest)
			delete(c.entries, oldest.Value.(*cacheEntry).text)
		}
	}
}
