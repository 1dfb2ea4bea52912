package matrix

import (
	"errors"

	"github.com/utkarsh5026/matmul/vector"
)

var (
	// ErrDimensionMismatch is returned when operand shapes are incompatible.
	// It is the same value as vector.ErrDimensionMismatch.
	ErrDimensionMismatch = vector.ErrDimensionMismatch

	// ErrInvalidShape is returned by New when the data length does not equal
	// rows*columns or a dimension is negative.
	ErrInvalidShape = errors.New("matrix: invalid shape")

	// ErrNilMatrix is returned when an operand is nil.
	ErrNilMatrix = errors.New("matrix: nil operand")

	// ErrWorkerCommunication is returned when a task cannot reach its worker
	// or its reply cannot reach the dispatcher.
	ErrWorkerCommunication = errors.New("matrix: worker communication failure")

	// ErrWorkerFailure is returned when a worker panics while computing a cell
	// or terminates before replying.
	ErrWorkerFailure = errors.New("matrix: worker failure")
)
