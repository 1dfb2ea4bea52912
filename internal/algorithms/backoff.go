package algorithms

import (
	"math/rand"
	"sync"
	"time"
)

// shifts beyond this overflow int64 nanoseconds
const maxShift = 62

// exponential yields initial * 2^attempt, capped at max.
type exponential struct {
	initial time.Duration
	max     time.Duration
}

func (e exponential) NextDelay(attempt int) time.Duration {
	if attempt < 0 || e.initial <= 0 {
		return 0
	}
	if attempt > maxShift {
		return e.max
	}

	delay := e.initial << uint(attempt)
	if delay <= 0 || delay > e.max || delay>>uint(attempt) != e.initial {
		return e.max
	}
	return delay
}

// jittered scales the exponential delay by a random factor in [1-f, 1+f].
type jittered struct {
	base   exponential
	factor float64

	mu  sync.Mutex
	rng *rand.Rand
}

func newJittered(base exponential, factor float64) *jittered {
	return &jittered{
		base:   base,
		factor: min(max(factor, 0), 1),
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())), // #nosec G404 -- jitter does not need crypto rand
	}
}

func (j *jittered) NextDelay(attempt int) time.Duration {
	delay := j.base.NextDelay(attempt)
	if delay == 0 || j.factor == 0 {
		return delay
	}

	j.mu.Lock()
	scale := 1 + (j.rng.Float64()*2-1)*j.factor
	j.mu.Unlock()

	return min(time.Duration(float64(delay)*scale), j.base.max)
}
