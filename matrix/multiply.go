package matrix

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/utkarsh5026/matmul/internal/algorithms"
	"github.com/utkarsh5026/matmul/internal/scheduler"
	"github.com/utkarsh5026/matmul/internal/types"
	"github.com/utkarsh5026/matmul/vector"
)

// drainTimeout bounds how long a finished or failed multiplication waits for
// its workers to exit. A worker stuck inside a computation is abandoned.
const drainTimeout = time.Second

// cellHooks intercept cell execution. compute runs inside the computation,
// before the dot product; start runs on the worker before the computation.
type cellHooks struct {
	compute func(row, column int) error
	start   func(worker, row, column int)
}

// testHooks is only set by tests. It is read once per multiplication.
var testHooks cellHooks

// cell is the task for output element (row, column).
type cell[T vector.Numeric] struct {
	row, column  int
	rowVector    vector.Vector[T]
	columnVector vector.Vector[T]
}

func checkOperands[T vector.Numeric](a, b *Matrix[T]) error {
	if a == nil || b == nil {
		return ErrNilMatrix
	}
	if a.columns != b.rows {
		return fmt.Errorf("%dx%d times %dx%d: %w", a.rows, a.columns, b.rows, b.columns, ErrDimensionMismatch)
	}
	return nil
}

// MultiplySequential computes a*b on the calling goroutine with the same dot
// product kernel the concurrent engine uses.
func MultiplySequential[T vector.Numeric](a, b *Matrix[T]) (*Matrix[T], error) {
	if err := checkOperands(a, b); err != nil {
		return nil, err
	}

	out := Zeros[T](a.rows, b.columns)
	for i := 1; i <= a.rows; i++ {
		rv := vector.New(a.rowSlice(i))
		for j := 1; j <= b.columns; j++ {
			v, err := vector.Dot(rv, vector.New(b.gatherColumn(j)))
			if err != nil {
				return nil, fmt.Errorf("cell (%d,%d): %w", i, j, err)
			}
			out.Set(i, j, v)
		}
	}
	return out, nil
}

// MultiplyConcurrent computes a*b with a pool of workers created for this
// call. Every output cell is one task; results are collected in row-major
// submission order. Any failure aborts the whole multiplication and returns a
// nil matrix.
//
// Example:
//
//	c, err := MultiplyConcurrent(ctx, a, b,
//	    WithWorkerCount(8),
//	    WithRouting(RouteHash),
//	    WithTimeout(5*time.Second),
//	)
func MultiplyConcurrent[T vector.Numeric](ctx context.Context, a, b *Matrix[T], opts ...Option) (*Matrix[T], error) {
	if err := checkOperands(a, b); err != nil {
		return nil, err
	}

	out := Zeros[T](a.rows, b.columns)
	if len(out.data) == 0 {
		return out, nil
	}

	cfg := newConfig(opts...)
	hooks := testHooks

	var cancel context.CancelFunc
	if cfg.timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, cfg.timeout)
	} else {
		ctx, cancel = context.WithCancel(ctx)
	}
	defer cancel()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWorkerCommunication, err)
	}

	pool := scheduler.NewPool(processorConfig[T](cfg, hooks.start))
	if err := pool.Start(ctx, cellKernel[T](hooks.compute)); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWorkerCommunication, err)
	}
	defer func() {
		if err := pool.Shutdown(drainTimeout); err != nil {
			debugLog("pool shutdown: %v", err)
		}
	}()

	fail := func(err error) (*Matrix[T], error) {
		debugLog("multiply %dx%d * %dx%d aborted: %v", a.rows, a.columns, b.rows, b.columns, err)
		cancel()
		return nil, err
	}

	columns := make([]vector.Vector[T], b.columns)
	for j := range columns {
		columns[j] = vector.New(b.gatherColumn(j + 1))
	}

	receipts := make([]scheduler.Receipt[T], 0, len(out.data))
	for i := 1; i <= a.rows; i++ {
		rv := vector.New(a.rowSlice(i))
		for j := 1; j <= b.columns; j++ {
			rc, err := pool.Submit(ctx, cell[T]{row: i, column: j, rowVector: rv, columnVector: columns[j-1]})
			if err != nil {
				return fail(classify(i, j, err))
			}
			receipts = append(receipts, rc)
		}
	}

	for idx, rc := range receipts {
		i, j := idx/b.columns+1, idx%b.columns+1
		v, err := pool.Await(ctx, rc)
		if err != nil {
			return fail(classify(i, j, err))
		}
		p, _ := out.MutableValue(i, j)
		*p = v
	}

	return out, nil
}

// Mul is MultiplyConcurrent(context.Background(), m, other, opts...).
func (m *Matrix[T]) Mul(other *Matrix[T], opts ...Option) (*Matrix[T], error) {
	return MultiplyConcurrent(context.Background(), m, other, opts...)
}

// classify maps a scheduler or kernel error for cell (row, column) onto the
// package's error taxonomy.
func classify(row, column int, err error) error {
	switch {
	// a worker that left because the context ended is a communication
	// failure, not a broken worker
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, scheduler.ErrSchedulerClosed), errors.Is(err, scheduler.ErrNotStarted):
		return fmt.Errorf("cell (%d,%d): %w: %w", row, column, ErrWorkerCommunication, err)
	case errors.Is(err, scheduler.ErrWorkerPanic), errors.Is(err, scheduler.ErrWorkerExited):
		return fmt.Errorf("cell (%d,%d): %w: %w", row, column, ErrWorkerFailure, err)
	default:
		return fmt.Errorf("cell (%d,%d): %w", row, column, err)
	}
}

func cellKernel[T vector.Numeric](hook func(row, column int) error) types.ProcessFunc[cell[T], T] {
	if hook == nil {
		return func(_ context.Context, c cell[T]) (T, error) {
			return vector.Dot(c.rowVector, c.columnVector)
		}
	}

	return func(_ context.Context, c cell[T]) (T, error) {
		if err := hook(c.row, c.column); err != nil {
			var zero T
			return zero, err
		}
		return vector.Dot(c.rowVector, c.columnVector)
	}
}

func processorConfig[T vector.Numeric](cfg *config, startHook func(worker, row, column int)) *scheduler.ProcessorConfig[cell[T], T] {
	pc := &scheduler.ProcessorConfig[cell[T], T]{
		WorkerCount: cfg.workerCount,
		TaskBuffer:  cfg.taskBuffer,
		MaxAttempts: cfg.maxAttempts,
		RetryIf: func(err error) bool {
			return errors.Is(err, scheduler.ErrWorkerPanic)
		},
		RateLimiter: cfg.rateLimiter,
		Routing:     scheduler.RoutingPolicy(cfg.routing),
		RouteKey: func(c cell[T]) (int, int) {
			return c.row, c.column
		},
		PinWorkers: cfg.pinWorkers,
		OnRetry: func(c cell[T], attempt int, err error) {
			debugLog("retrying cell (%d,%d), attempt %d: %v", c.row, c.column, attempt+1, err)
		},
	}

	if cfg.maxAttempts > 1 {
		pc.BackoffStrategy = algorithms.NewBackoffStrategy(
			algorithms.BackoffType(cfg.backoff), cfg.initialDelay, cfg.maxDelay, cfg.jitter)
	}

	counter := cfg.counter
	if counter != nil || startHook != nil {
		pc.BeforeTaskStart = func(workerID int64, c cell[T]) {
			if startHook != nil {
				startHook(int(workerID), c.row, c.column)
			}
			if counter != nil {
				counter.Inc(WorkerKey(int(workerID)))
			}
		}
	}

	if counter != nil {
		pc.OnTaskEnd = func(_ cell[T], _ T, err error) {
			if err != nil {
				counter.Inc(FailedKey)
			}
		}
	}

	return pc
}
