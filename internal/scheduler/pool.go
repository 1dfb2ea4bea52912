// Package scheduler runs a fixed set of worker goroutines, each owning one task
// channel, and routes submitted tasks to them. Every task carries a single-use
// future; a worker that dies abandons the futures routed to it, which Await
// reports as ErrWorkerExited instead of blocking forever.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/utkarsh5026/matmul/internal/cpu"
	"github.com/utkarsh5026/matmul/internal/types"
)

// Receipt identifies a submitted task: the future that will carry its result
// and the worker it was routed to.
type Receipt[R any] struct {
	Future *types.Future[R, int64]
	Worker int
}

// Pool is a fixed-size worker pool meant to live for one batch of work:
// Start, Submit every task, Await the receipts, Shutdown.
//
// Type parameters:
//   - T: The input task type processed by workers
//   - R: The output/result type produced by processing tasks
type Pool[T, R any] struct {
	config   *ProcessorConfig[T, R]
	strategy *channelStrategy[T, R]

	exited   []chan struct{} // closed when the matching worker goroutine returns
	exitErrs []error         // written before the matching exited channel is closed

	started       atomic.Bool
	shutdown      atomic.Bool
	taskIDCounter atomic.Int64
	done          chan struct{} // closed when all workers have finished
	err           error         // errgroup result, readable after done is closed
}

// NewPool creates an unstarted pool for conf.
func NewPool[T, R any](conf *ProcessorConfig[T, R]) *Pool[T, R] {
	s := newChannelStrategy(conf)
	n := s.Workers()

	p := &Pool[T, R]{
		config:   conf,
		strategy: s,
		exited:   make([]chan struct{}, n),
		exitErrs: make([]error, n),
		done:     make(chan struct{}),
	}
	for i := range p.exited {
		p.exited[i] = make(chan struct{})
	}
	return p
}

// Start launches one goroutine per worker channel running processFn.
// Workers stop when ctx ends or when Shutdown closes their channels.
func (p *Pool[T, R]) Start(ctx context.Context, processFn types.ProcessFunc[T, R]) error {
	if !p.started.CompareAndSwap(false, true) {
		return errors.New("pool already started")
	}

	var resHandler types.ResultHandler[T, R] = func(t *types.SubmittedTask[T, R], r *types.Result[R, int64]) {
		if !t.Future.Complete(*r) {
			debugLog("dropping duplicate reply for task %d", t.Id)
		}
	}

	var g errgroup.Group
	for i := range p.strategy.Workers() {
		g.Go(func() error {
			return p.runWorker(ctx, i, processFn, resHandler)
		})
	}

	go func() {
		p.err = g.Wait()
		close(p.done)
	}()

	return nil
}

// runWorker supervises a single worker. Whatever way the worker leaves, its
// exit error is recorded and its exited channel closed, so nothing waits on
// it afterwards.
func (p *Pool[T, R]) runWorker(
	ctx context.Context,
	id int,
	processFn types.ProcessFunc[T, R],
	h types.ResultHandler[T, R],
) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: worker %d: %v", ErrWorkerExited, id, r)
		}
		if err != nil {
			debugLog("worker %d exited: %v", id, err)
		}
		p.exitErrs[id] = err
		close(p.exited[id])
	}()

	if p.config.PinWorkers {
		release, pinErr := cpu.Pin(id)
		defer release()
		if pinErr != nil {
			debugLog("worker %d not pinned: %v", id, pinErr)
		}
	}

	return p.strategy.Worker(ctx, int64(id), processFn, h)
}

// Submit routes task to a worker and returns its receipt. It blocks while the
// chosen worker's channel is full.
func (p *Pool[T, R]) Submit(ctx context.Context, task T) (Receipt[R], error) {
	if !p.started.Load() {
		return Receipt[R]{}, ErrNotStarted
	}
	if p.shutdown.Load() {
		return Receipt[R]{}, ErrSchedulerClosed
	}

	st := types.NewSubmittedTask[T, R](task, p.taskIDCounter.Add(1))
	w := p.strategy.next(st)
	rc := Receipt[R]{Future: st.Future, Worker: w}

	if err := p.strategy.Submit(ctx, st, w, p.exited[w]); err != nil {
		if errors.Is(err, ErrWorkerExited) {
			return rc, p.exitError(w)
		}
		return rc, err
	}
	return rc, nil
}

// Await blocks until the receipt's result arrives, ctx ends, or the worker
// holding the task exits without replying.
func (p *Pool[T, R]) Await(ctx context.Context, rc Receipt[R]) (R, error) {
	value, _, err := rc.Future.GetOrAbandon(ctx, p.exited[rc.Worker])
	if errors.Is(err, types.ErrAbandoned) {
		return value, p.exitError(rc.Worker)
	}
	return value, err
}

// exitError describes why worker w is gone; it must only be called once
// exited[w] is closed.
func (p *Pool[T, R]) exitError(w int) error {
	if cause := p.exitErrs[w]; cause != nil {
		if errors.Is(cause, ErrWorkerExited) {
			return cause
		}
		return fmt.Errorf("%w: worker %d: %w", ErrWorkerExited, w, cause)
	}
	return fmt.Errorf("%w: worker %d", ErrWorkerExited, w)
}

// Shutdown closes every worker channel and waits up to timeout for the
// workers to drain them and exit (0 = wait forever). It returns the first
// worker error, if any.
func (p *Pool[T, R]) Shutdown(timeout time.Duration) error {
	if !p.started.Load() {
		return ErrNotStarted
	}
	if !p.shutdown.CompareAndSwap(false, true) {
		return errors.New("pool already shut down")
	}

	p.strategy.Shutdown()

	if err := waitUntil(p.done, timeout); err != nil {
		return err
	}
	return p.err
}
