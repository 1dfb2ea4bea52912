// Package matrix provides a generic dense matrix and two ways to multiply
// matrices: a sequential reference and a concurrent engine backed by a fixed
// pool of workers.
//
// # Basic Usage
//
//	a := matrix.MustNew([]int{1, 2, 3, 4, 5, 6}, 2, 3)
//	b := matrix.MustNew([]int{1, 2, 3, 4, 5, 6}, 3, 2)
//	c, err := matrix.MultiplyConcurrent(ctx, a, b, matrix.WithWorkerCount(4))
//	// c.String() == "{22 28,49 64}"
//
// Elements are addressed 1-indexed, row-major. Accessors report an index
// outside the matrix with a false second result rather than an error.
//
// # Concurrent Protocol
//
// MultiplyConcurrent starts the pool, submits one task per output cell in
// row-major order (row vector of a, column vector of b), routes each task to
// one worker's channel, and then collects the replies in submission order.
// The pool is created and shut down within the call.
//
// # Configuration Options
//
//   - WithWorkerCount(n): number of workers (default: 4)
//   - WithTaskBuffer(n): capacity of each worker channel (default: worker count)
//   - WithRouting(r): RouteRoundRobin (default), RouteHash or RouteProduct
//   - WithTimeout(d): bound the whole multiplication
//   - WithRetryPolicy(attempts, delay) / WithBackoff(kind, max, jitter): recompute cells whose computation panicked
//   - WithRateLimit(perSecond, burst): throttle cell computations
//   - WithCPUAffinity(): lock workers to OS threads pinned to cores
//   - WithMetric(c): count tasks started per worker ("call.worker-<id>")
//
// # Error Handling
//
// The concurrent engine fails fast and never returns a partially computed
// matrix. Errors match, via errors.Is, one of ErrDimensionMismatch,
// ErrWorkerFailure (a computation panicked or a worker died) or
// ErrWorkerCommunication (a task could not be delivered or its reply never
// arrived before the context ended).
package matrix
