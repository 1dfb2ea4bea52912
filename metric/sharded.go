package metric

import (
	"hash/fnv"
	"runtime"
	"sync"
)

type shard struct {
	mu   sync.Mutex
	data map[string]int64
}

// ShardedCounter spreads keys over independently locked shards chosen by an
// FNV-1a hash, so increments of different keys rarely contend. The zero value
// is ready to use and gets one shard per logical CPU on first use.
type ShardedCounter struct {
	once   sync.Once
	shards []*shard
}

// NewShardedCounter returns a counter with n shards; n <= 0 picks one shard
// per logical CPU.
func NewShardedCounter(n int) *ShardedCounter {
	return &ShardedCounter{shards: newShards(n)}
}

func newShards(n int) []*shard {
	if n <= 0 {
		n = runtime.NumCPU()
	}

	shards := make([]*shard, n)
	for i := range shards {
		shards[i] = &shard{data: make(map[string]int64)}
	}
	return shards
}

func (c *ShardedCounter) init() {
	c.once.Do(func() {
		if len(c.shards) == 0 {
			c.shards = newShards(0)
		}
	})
}

func (c *ShardedCounter) shardFor(key string) *shard {
	c.init()

	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return c.shards[h.Sum32()%uint32(len(c.shards))]
}

func (c *ShardedCounter) Inc(key string) {
	s := c.shardFor(key)
	s.mu.Lock()
	s.data[key]++
	s.mu.Unlock()
}

func (c *ShardedCounter) Get(key string) int64 {
	s := c.shardFor(key)
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data[key]
}

// Snapshot locks one shard at a time, so it is not atomic across shards.
func (c *ShardedCounter) Snapshot() map[string]int64 {
	c.init()

	out := make(map[string]int64)
	for _, s := range c.shards {
		s.mu.Lock()
		for k, v := range s.data {
			out[k] = v
		}
		s.mu.Unlock()
	}
	return out
}

func (c *ShardedCounter) String() string {
	return render(c.Snapshot())
}
