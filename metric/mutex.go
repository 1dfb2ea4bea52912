package metric

import (
	"maps"
	"sync"
)

// MutexCounter guards one map with a sync.Mutex. The zero value is ready
// to use.
type MutexCounter struct {
	mu   sync.Mutex
	data map[string]int64
}

// NewMutexCounter returns an empty MutexCounter.
func NewMutexCounter() *MutexCounter {
	return &MutexCounter{data: make(map[string]int64)}
}

func (c *MutexCounter) Inc(key string) {
	c.mu.Lock()
	if c.data == nil {
		c.data = make(map[string]int64)
	}
	c.data[key]++
	c.mu.Unlock()
}

func (c *MutexCounter) Get(key string) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.data[key]
}

func (c *MutexCounter) Snapshot() map[string]int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.data == nil {
		return make(map[string]int64)
	}
	return maps.Clone(c.data)
}

func (c *MutexCounter) String() string {
	return render(c.Snapshot())
}
