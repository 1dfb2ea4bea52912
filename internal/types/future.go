package types

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
)

// ErrAbandoned is returned when the producer of a Future went away without
// completing it.
var ErrAbandoned = errors.New("future abandoned by its producer")

// Future is a single-use reply channel: one producer completes it once and any
// number of consumers may read the same result afterwards.
type Future[R any, K comparable] struct {
	result    chan Result[R, K]
	done      chan struct{}
	completed atomic.Bool
	once      sync.Once
	value     Result[R, K]
}

// NewFuture creates a pending Future.
func NewFuture[R any, K comparable]() *Future[R, K] {
	return &Future[R, K]{
		result: make(chan Result[R, K], 1),
		done:   make(chan struct{}),
	}
}

// Complete hands the result to the Future. Only the first call is accepted,
// whether or not a consumer has read it yet; every later call reports false.
func (f *Future[R, K]) Complete(r Result[R, K]) bool {
	if !f.completed.CompareAndSwap(false, true) {
		return false
	}
	f.result <- r
	return true
}

// GetOrAbandon blocks until the result is available, ctx is done, or
// producerGone is closed with no result delivered before that, in which case
// it returns ErrAbandoned. A nil producerGone never fires.
func (f *Future[R, K]) GetOrAbandon(ctx context.Context, producerGone <-chan struct{}) (R, K, error) {
	var (
		zeroR R
		zeroK K
	)

	select {
	case r := <-f.result:
		f.settle(r)
	case <-f.done:
	case <-ctx.Done():
		return zeroR, zeroK, ctx.Err()
	case <-producerGone:
		// the producer may have completed us right before it left
		select {
		case r := <-f.result:
			f.settle(r)
		case <-f.done:
		default:
			return zeroR, zeroK, ErrAbandoned
		}
	}
	return f.value.Value, f.value.Key, f.value.Error
}

func (f *Future[R, K]) settle(r Result[R, K]) {
	f.once.Do(func() {
		f.value = r
		close(f.done)
	})
}
