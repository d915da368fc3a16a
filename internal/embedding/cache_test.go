package embedding

import (
	"fmt"
	"sync"
	"testing"
)

func TestEmbeddingCache_GetSet(t *testing.T) {
	c := NewEmbeddingCache(2)
	if v, ok := c.Get("a"); ok || v != nil {
		t.Fatal("expected miss")
	}
	c.Set("a", []float32{1, 2, 3})
	v, ok := c.Get("a")
	if !ok || len(v) != 3 || v[0] != 1 {
		t.Errorf("Get: got %v, %v", v, ok)
	}
	c.Set("b", []float32{4, 5})
	c.Set("c", []float32{6}) // evicts a
	if _, ok := c.Get("a"); ok {
		t.Error("expected a to be evicted")
	}
	if _, ok := c.Get("b"); !ok {
		t.Error("expected b to remain")
	}
	if _, ok := c.Get("c"); !ok {
		t.Error("expected c to be present")
	}
}

// Get promotes entries in the recency list, so concurrent hits mutate shared
// state; run with -race.
func TestEmbeddingCache_concurrentGet(t *testing.T) {
	c := NewEmbeddingCache(2)
	c.Set("a", []float32{1})
	c.Set("b", []float32{2})

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			keys := []string{"a", "b"}
			for i := 0; i < 500; i++ {
				if v, ok := c.Get(keys[(g+i)%2]); !ok || len(v) != 1 {
					t.Errorf("Get: got %v, %v", v, ok)
					return
				}
			}
		}(g)
	}
	wg.Wait()
}

func TestEmbeddingCache_concurrentGetSet(t *testing.T) {
	c := NewEmbeddingCache(4)

	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				key := fmt.Sprintf("text-%d", i%8)
				c.Set(key, []float32{float32(g)})
				c.Get(key)
			}
		}(g)
	}
	wg.Wait()
}
