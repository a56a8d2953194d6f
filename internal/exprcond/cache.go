package exprcond

import (
	"container/list"
	"fmt"
	"sync"

	"github.com/expr-lang/expr/vm"
)

// DefaultCacheSize is the default maximum number of compiled programs kept.
const DefaultCacheSize = 1000

// programs is shared by every expression constructor in the process.
var programs = NewCache(DefaultCacheSize)

// SetCacheSize resizes the shared program cache, evicting as needed.
func SetCacheSize(size int) { programs.Resize(size) }

// CacheStats returns statistics of the shared program cache.
func CacheStats() (size int, hits, misses int64) {
	size, hits, misses, _ = programs.Stats()
	return size, hits, misses
}

// Cache is a thread-safe LRU cache of compiled expr-lang programs. Agents
// ticking on different goroutines may build expressions concurrently.
type Cache struct {
	mu        sync.Mutex
	index     map[string]*list.Element
	lru       *list.List
	maxSize   int
	hitCount  int64
	missCount int64
}

type cached struct {
	key     string
	program *vm.Program
}

// NewCache creates a cache holding at most maxSize programs.
func NewCache(maxSize int) *Cache {
	if maxSize < 1 {
		maxSize = DefaultCacheSize
	}
	return &Cache{
		index:   make(map[string]*list.Element, maxSize),
		lru:     list.New(),
		maxSize: maxSize,
	}
}

// Get returns the program stored under key, marking it most recently used.
func (c *Cache) Get(key string) (*vm.Program, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	elem, ok := c.index[key]
	if !ok {
		c.missCount++
		return nil, false
	}
	c.hitCount++
	c.lru.MoveToFront(elem)
	return elem.Value.(*cached).program, true
}

// Put stores a program, evicting the least recently used entries when
// over capacity.
func (c *Cache) Put(key string, program *vm.Program) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if elem, ok := c.index[key]; ok {
		c.lru.MoveToFront(elem)
		elem.Value.(*cached).program = program
		return
	}
	c.index[key] = c.lru.PushFront(&cached{key: key, program: program})
	c.evict()
}

// Resize changes the capacity. Sizes below 1 are treated as 1.
func (c *Cache) Resize(maxSize int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.maxSize = max(maxSize, 1)
	c.evict()
}

func (c *Cache) evict() {
	for c.lru.Len() > c.maxSize {
		elem := c.lru.Back()
		delete(c.index, elem.Value.(*cached).key)
		c.lru.Remove(elem)
	}
}

// Len returns the number of cached programs.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}

// Stats returns cache statistics for monitoring.
func (c *Cache) Stats() (size int, hits, misses int64, ratio float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if total := c.hitCount + c.missCount; total > 0 {
		ratio = float64(c.hitCount) / float64(total)
	}
	return c.lru.Len(), c.hitCount, c.missCount, ratio
}

// String returns a human-readable description of cache stats.
func (c *Cache) String() string {
	size, hits, misses, ratio := c.Stats()
	return fmt.Sprintf("exprcond.Cache{size=%d, hits=%d, misses=%d, hit_ratio=%.2f%%}",
		size, hits, misses, ratio*100)
}
