package metric

import (
	"maps"
	"sync"
)

// RWCounter guards one map with a sync.RWMutex so readers do not block each
// other. The zero value is ready to use.
type RWCounter struct {
	mu   sync.RWMutex
	data map[string]int64
}

// NewRWCounter returns an empty RWCounter.
func NewRWCounter() *RWCounter {
	return &RWCounter{data: make(map[string]int64)}
}

func (c *RWCounter) Inc(key string) {
	c.mu.Lock()
	if c.data == nil {
		c.data = make(map[string]int64)
	}
	c.data[key]++
	c.mu.Unlock()
}

func (c *RWCounter) Get(key string) int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.data[key]
}

func (c *RWCounter) Snapshot() map[string]int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.data == nil {
		return make(map[string]int64)
	}
	return maps.Clone(c.data)
}

func (c *RWCounter) String() string {
	return render(c.Snapshot())
}
