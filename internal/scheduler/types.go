package scheduler

import (
	"github.com/utkarsh5026/matmul/internal/algorithms"
	"golang.org/x/time/rate"
)

// RoutingPolicy decides which worker channel receives a task.
type RoutingPolicy int

const (
	// RouteRoundRobin hands tasks to workers in turn.
	RouteRoundRobin RoutingPolicy = iota
	// RouteHash mixes the task's (row, column) key with FNV-1a.
	RouteHash
	// RouteProduct uses (row*column) mod N. It piles work onto worker 0
	// whenever either index is a multiple of N.
	RouteProduct
)

// String returns the policy name.
func (p RoutingPolicy) String() string {
	switch p {
	case RouteRoundRobin:
		return "round-robin"
	case RouteHash:
		return "hash"
	case RouteProduct:
		return "product"
	default:
		return "unknown"
	}
}

// ProcessorConfig holds everything a pool needs to run its workers.
type ProcessorConfig[T, R any] struct {
	// Number of worker goroutines, each owning one task channel.
	WorkerCount int

	// Capacity of every per-worker task channel.
	TaskBuffer int

	// Maximum number of attempts per task; values below 1 mean 1.
	MaxAttempts int

	// Delay between attempts. Nil means retry immediately.
	BackoffStrategy algorithms.BackoffStrategy

	// Reports whether a failed attempt may be retried. Nil retries every error.
	RetryIf func(error) bool

	// Optional token bucket applied before every task (may be nil).
	RateLimiter *rate.Limiter

	// How tasks are spread over the worker channels.
	Routing RoutingPolicy

	// Extracts the (row, column) key used by RouteHash and RouteProduct.
	// Key based policies fall back to round robin when it is nil.
	RouteKey func(T) (row, column int)

	// Lock every worker to an OS thread pinned to a core.
	PinWorkers bool

	// Hook called by the worker right before it runs a task.
	BeforeTaskStart func(workerID int64, task T)

	// Hook called after a task ends with its final result and error.
	OnTaskEnd func(task T, result R, err error)

	// Hook called before every retry with the attempt number and last error.
	OnRetry func(task T, attempt int, err error)
}
