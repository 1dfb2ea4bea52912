package matrix

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/utkarsh5026/matmul/internal/algorithms"
	"github.com/utkarsh5026/matmul/internal/scheduler"
	"github.com/utkarsh5026/matmul/metric"
)

// DefaultWorkerCount is the pool size used when WithWorkerCount is not given.
const DefaultWorkerCount = 4

// Routing selects the worker that computes a cell.
type Routing int

const (
	// RouteRoundRobin assigns cells to workers in turn, in submission order.
	RouteRoundRobin = Routing(scheduler.RouteRoundRobin)
	// RouteHash assigns cell (i, j) by an FNV-1a hash of the pair.
	RouteHash = Routing(scheduler.RouteHash)
	// RouteProduct assigns cell (i, j) to worker (i*j) mod N. Worker 0 gets
	// every cell whose row or column is a multiple of N, so load is skewed.
	RouteProduct = Routing(scheduler.RouteProduct)
)

// Routings lists every routing policy.
func Routings() []Routing {
	return []Routing{RouteRoundRobin, RouteHash, RouteProduct}
}

func (r Routing) String() string {
	return scheduler.RoutingPolicy(r).String()
}

// ParseRouting maps a policy name ("round-robin", "hash", "product") to its
// Routing.
func ParseRouting(name string) (Routing, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, r := range Routings() {
		if r.String() == name {
			return r, nil
		}
	}
	return 0, fmt.Errorf("matrix: unknown routing %q", name)
}

// Backoff selects the delay curve between retries.
type Backoff int

const (
	// BackoffExponential doubles the delay on every retry.
	BackoffExponential = Backoff(algorithms.BackoffExponential)
	// BackoffJittered randomizes the exponential delay by a jitter factor.
	BackoffJittered = Backoff(algorithms.BackoffJittered)
)

// Option configures a concurrent multiplication.
type Option func(*config)

type config struct {
	workerCount  int
	taskBuffer   int
	routing      Routing
	timeout      time.Duration
	maxAttempts  int
	initialDelay time.Duration
	backoff      Backoff
	maxDelay     time.Duration
	jitter       float64
	rateLimiter  *rate.Limiter
	pinWorkers   bool
	counter      metric.Counter
}

func newConfig(opts ...Option) *config {
	cfg := &config{
		workerCount: DefaultWorkerCount,
		taskBuffer:  -1,
		routing:     RouteRoundRobin,
		maxAttempts: 1,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.taskBuffer < 0 {
		cfg.taskBuffer = cfg.workerCount
	}
	return cfg
}

// WithWorkerCount sets the number of workers. Values below 1 are ignored.
func WithWorkerCount(count int) Option {
	return func(cfg *config) {
		if count > 0 {
			cfg.workerCount = count
		}
	}
}

// WithTaskBuffer sets the capacity of every worker's task channel.
// If not specified, it equals the worker count. 0 makes the channels
// unbuffered.
func WithTaskBuffer(size int) Option {
	return func(cfg *config) {
		if size >= 0 {
			cfg.taskBuffer = size
		}
	}
}

// WithRouting sets how cells are assigned to workers.
func WithRouting(r Routing) Option {
	return func(cfg *config) {
		cfg.routing = r
	}
}

// WithTimeout bounds the whole multiplication. When it expires the call
// fails with ErrWorkerCommunication wrapping context.DeadlineExceeded.
func WithTimeout(d time.Duration) Option {
	return func(cfg *config) {
		if d > 0 {
			cfg.timeout = d
		}
	}
}

// WithRetryPolicy lets a worker recompute a cell whose computation panicked,
// up to maxAttempts attempts in total, waiting initialDelay before the first
// retry. Dimension errors are never retried.
func WithRetryPolicy(maxAttempts int, initialDelay time.Duration) Option {
	return func(cfg *config) {
		if maxAttempts > 0 {
			cfg.maxAttempts = maxAttempts
		}
		if initialDelay > 0 {
			cfg.initialDelay = initialDelay
		}
	}
}

// WithBackoff sets the retry delay curve, its cap (0 = uncapped) and, for
// BackoffJittered, the jitter factor in [0, 1].
func WithBackoff(kind Backoff, maxDelay time.Duration, jitter float64) Option {
	return func(cfg *config) {
		cfg.backoff = kind
		cfg.maxDelay = maxDelay
		cfg.jitter = jitter
	}
}

// WithRateLimit caps cell computations at tasksPerSecond with the given burst.
//
// Example:
//
//	WithRateLimit(1000, 50) // 1000 cells/sec, bursts of 50
func WithRateLimit(tasksPerSecond float64, burst int) Option {
	return func(cfg *config) {
		if tasksPerSecond > 0 && burst > 0 {
			cfg.rateLimiter = rate.NewLimiter(rate.Limit(tasksPerSecond), burst)
		}
	}
}

// WithCPUAffinity locks each worker to an OS thread and pins it to a core
// where the platform supports it.
func WithCPUAffinity() Option {
	return func(cfg *config) {
		cfg.pinWorkers = true
	}
}

// WithMetric increments c under "call.worker-<id>" every time a worker starts
// a cell, and under FailedKey every time a cell's computation fails.
func WithMetric(c metric.Counter) Option {
	return func(cfg *config) {
		cfg.counter = c
	}
}

// FailedKey is the counter key WithMetric uses for failed computations.
const FailedKey = "call.failed"

// WorkerKey is the counter key WithMetric uses for worker id.
func WorkerKey(id int) string {
	return fmt.Sprintf("call.worker-%d", id)
}
