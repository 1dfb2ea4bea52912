// Package types holds the values that cross goroutine boundaries between the
// dispatcher and the workers: submitted tasks, their results and the
// single-use futures that carry one result back.
package types

import "context"

// ProcessFunc computes the result of one task.
type ProcessFunc[T any, R any] func(ctx context.Context, task T) (R, error)

// ResultHandler delivers the outcome of a task executed by a worker.
type ResultHandler[T, R any] func(task *SubmittedTask[T, R], result *Result[R, int64])

// Result is the outcome of one task. Value is only meaningful when Error is nil.
// Key identifies the task it belongs to.
type Result[R any, K comparable] struct {
	Value R
	Key   K
	Error error
}

// NewResult builds a Result for the task identified by key.
func NewResult[R any, K comparable](value R, key K, err error) *Result[R, K] {
	return &Result[R, K]{Value: value, Key: key, Error: err}
}

// SubmittedTask is a task owned by exactly one worker until its Future is
// completed.
type SubmittedTask[T, R any] struct {
	Task   T
	Id     int64
	Future *Future[R, int64]
}

// NewSubmittedTask wraps task with a fresh Future.
func NewSubmittedTask[T, R any](task T, id int64) *SubmittedTask[T, R] {
	return &SubmittedTask[T, R]{
		Task:   task,
		Id:     id,
		Future: NewFuture[R, int64](),
	}
}
