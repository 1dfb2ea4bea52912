package scheduler

import (
	"context"
	"encoding/binary"
	"sync"
	"sync/atomic"

	"github.com/utkarsh5026/matmul/internal/types"
)

// channelStrategy gives every worker its own task channel. Tasks sent to the
// same worker are processed in FIFO order.
type channelStrategy[T any, R any] struct {
	config    *ProcessorConfig[T, R]            // Processor configuration parameters.
	taskChans []chan *types.SubmittedTask[T, R] // Per-worker task channels.
	counter   atomic.Int64                      // Round-robin cursor.
	quit      chan struct{}                     // Closed on shutdown to release blocked senders.
	mu        sync.RWMutex                      // Held for reading while sending, for writing while closing.
	closed    bool
	closeOnce sync.Once
}

// newChannelStrategy creates exactly conf.WorkerCount channels (at least one).
func newChannelStrategy[T any, R any](conf *ProcessorConfig[T, R]) *channelStrategy[T, R] {
	n := max(conf.WorkerCount, 1)
	c := &channelStrategy[T, R]{
		config:    conf,
		taskChans: make([]chan *types.SubmittedTask[T, R], n),
		quit:      make(chan struct{}),
	}

	for i := range n {
		c.taskChans[i] = make(chan *types.SubmittedTask[T, R], conf.TaskBuffer)
	}

	return c
}

// Submit sends task to worker's channel. It blocks while the channel is full
// and gives up when the strategy shuts down, ctx ends, or workerGone closes.
func (s *channelStrategy[T, R]) Submit(
	ctx context.Context,
	task *types.SubmittedTask[T, R],
	worker int,
	workerGone <-chan struct{},
) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return ErrSchedulerClosed
	}

	select {
	case s.taskChans[worker] <- task:
		return nil
	case <-s.quit:
		return ErrSchedulerClosed
	case <-workerGone:
		return ErrWorkerExited
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Shutdown releases blocked senders and closes every worker channel, which
// ends the workers' receive loops once they have drained them.
func (s *channelStrategy[T, R]) Shutdown() {
	s.closeOnce.Do(func() {
		close(s.quit)

		s.mu.Lock()
		defer s.mu.Unlock()
		s.closed = true
		for _, ch := range s.taskChans {
			close(ch)
		}
	})
}

// Worker runs the receive-compute-reply loop of workerID until its channel is
// closed (nil) or ctx ends (ctx.Err()). Task failures travel through the
// handler and never stop the loop.
func (s *channelStrategy[T, R]) Worker(ctx context.Context, workerID int64, executor types.ProcessFunc[T, R], h types.ResultHandler[T, R]) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case t, ok := <-s.taskChans[workerID]:
			if !ok {
				return nil
			}
			executeSubmitted(ctx, workerID, t, s.config, executor, h)
		}
	}
}

// Workers returns the number of worker channels.
func (s *channelStrategy[T, R]) Workers() int {
	return len(s.taskChans)
}

// next picks the worker channel for t according to the routing policy.
func (s *channelStrategy[T, R]) next(t *types.SubmittedTask[T, R]) int {
	n := len(s.taskChans)
	keyFn := s.config.RouteKey

	switch {
	case s.config.Routing == RouteHash && keyFn != nil:
		row, column := keyFn(t.Task)
		return int(fnvHash(row, column) % uint32(n))

	case s.config.Routing == RouteProduct && keyFn != nil:
		row, column := keyFn(t.Task)
		idx := (row * column) % n
		if idx < 0 {
			idx += n
		}
		return idx

	default:
		return int((s.counter.Add(1) - 1) % int64(n))
	}
}

// fnvHash computes FNV-1a over the little-endian bytes of row and column.
//
// https://en.wikipedia.org/wiki/Fowler–Noll–Vo_hash_function
func fnvHash(row, column int) uint32 {
	const (
		offset32 = 2166136261
		prime32  = 16777619
	)

	var key [16]byte
	binary.LittleEndian.PutUint64(key[:8], uint64(row))
	binary.LittleEndian.PutUint64(key[8:], uint64(column))

	hash := uint32(offset32)
	for _, b := range key {
		hash ^= uint32(b)
		hash *= prime32
	}
	return hash
}
