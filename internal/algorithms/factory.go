// Package algorithms holds the retry backoff strategies used when a worker
// recomputes a task whose previous attempt panicked.
package algorithms

import "time"

// BackoffType selects a retry backoff algorithm.
type BackoffType int

const (
	// BackoffExponential doubles the delay on every retry (default).
	BackoffExponential BackoffType = iota
	// BackoffJittered spreads the exponential delay by a random factor.
	BackoffJittered
)

// String returns the name used on the command line.
func (b BackoffType) String() string {
	switch b {
	case BackoffJittered:
		return "jittered"
	default:
		return "exponential"
	}
}

// NewBackoffStrategy builds the strategy for backoffType.
// A non-positive maxDelay means the delay is never capped.
func NewBackoffStrategy(backoffType BackoffType, initialDelay, maxDelay time.Duration, jitterFactor float64) BackoffStrategy {
	if maxDelay <= 0 {
		maxDelay = time.Duration(1<<63 - 1)
	}

	exp := exponential{initial: initialDelay, max: maxDelay}
	if backoffType == BackoffJittered {
		return newJittered(exp, jitterFactor)
	}
	return exp
}
