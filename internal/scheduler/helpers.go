package scheduler

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/utkarsh5026/matmul/internal/types"
)

var (
	ErrSchedulerClosed error = errors.New("scheduler is closed")
	ErrNotStarted      error = errors.New("scheduler not started")
	ErrWorkerPanic     error = errors.New("worker panic")
	ErrWorkerExited    error = errors.New("worker exited")
	ErrShutdownTimeout error = errors.New("error in shutting down: timeout reached")
)

// executeSubmitted runs one task on workerID and hands its outcome to the
// handler, which completes the task's future.
func executeSubmitted[T, R any](
	ctx context.Context,
	workerID int64,
	s *types.SubmittedTask[T, R],
	conf *ProcessorConfig[T, R],
	executor types.ProcessFunc[T, R],
	handler types.ResultHandler[T, R],
) {
	result, err := executeTask(ctx, workerID, conf, s.Task, executor)
	handler(s, types.NewResult(result, s.Id, err))
}

// executeTask applies rate limiting and hooks around processWithRetry.
func executeTask[T, R any](
	ctx context.Context,
	workerID int64,
	conf *ProcessorConfig[T, R],
	task T,
	processFn types.ProcessFunc[T, R],
) (R, error) {
	if conf.RateLimiter != nil {
		if err := conf.RateLimiter.Wait(ctx); err != nil {
			var zero R
			// Rate limiter's error doesn't wrap context errors, so check context explicitly
			if ctxErr := ctx.Err(); ctxErr != nil {
				return zero, ctxErr
			}
			return zero, err
		}
	}

	if conf.BeforeTaskStart != nil {
		conf.BeforeTaskStart(workerID, task)
	}

	result, err := processWithRetry(ctx, conf, task, processFn)

	if conf.OnTaskEnd != nil {
		conf.OnTaskEnd(task, result, err)
	}

	return result, err
}

// processWithRecovery runs processFn once and turns a panic into an error
// wrapping ErrWorkerPanic, so the worker survives it.
func processWithRecovery[T, R any](
	ctx context.Context,
	task T,
	processFn types.ProcessFunc[T, R],
) (result R, err error) {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			err = fmt.Errorf("%w: %v\nstack trace:\n%s", ErrWorkerPanic, r, buf[:n])
		}
	}()

	return processFn(ctx, task)
}

// processWithRetry calls processWithRecovery up to conf.MaxAttempts times while
// the failure is retryable, waiting BackoffStrategy.NextDelay between attempts.
// It aborts early with ctx.Err() once ctx is done.
func processWithRetry[T, R any](
	ctx context.Context,
	conf *ProcessorConfig[T, R],
	task T,
	processFn types.ProcessFunc[T, R],
) (R, error) {
	var result R
	var err error
	maxAttempts := max(conf.MaxAttempts, 1)

	for attempt := range maxAttempts {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		if attempt > 0 && conf.BackoffStrategy != nil {
			if delay := conf.BackoffStrategy.NextDelay(attempt - 1); delay > 0 {
				timer := time.NewTimer(delay)
				select {
				case <-timer.C:
				case <-ctx.Done():
					timer.Stop()
					return result, ctx.Err()
				}
			}
		}

		result, err = processWithRecovery(ctx, task, processFn)
		if err == nil {
			return result, nil
		}

		if conf.RetryIf != nil && !conf.RetryIf(err) {
			return result, err
		}

		if conf.OnRetry != nil && attempt < maxAttempts-1 {
			conf.OnRetry(task, attempt+1, err)
		}
	}

	return result, err
}

// waitUntil blocks until d is closed or the timeout elapses.
// A non-positive timeout waits forever.
func waitUntil(d <-chan struct{}, timeout time.Duration) error {
	if timeout <= 0 {
		<-d
		return nil
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-d:
		return nil
	case <-timer.C:
		return ErrShutdownTimeout
	}
}
