package algorithms

import "time"

// BackoffStrategy computes the pause before a retry.
type BackoffStrategy interface {
	// NextDelay returns the delay before retry number attempt (0 = first retry).
	NextDelay(attempt int) time.Duration
}
