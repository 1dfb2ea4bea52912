// Package vector provides the immutable numeric vector and the dot-product
// kernel used by the matrix multiplication engine.
package vector

import (
	"errors"
	"fmt"
	"slices"
)

// ErrDimensionMismatch is returned when two vectors that must have the same
// length do not.
var ErrDimensionMismatch = errors.New("dimension mismatch")

// Numeric is the set of element types the kernel can fold.
// Any type whose underlying type is a Go integer, float or complex kind
// satisfies it, and its zero value is the additive identity.
type Numeric interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr |
		~float32 | ~float64 |
		~complex64 | ~complex128
}

// Vector is an owned snapshot of a row or a column.
// It never shares storage with the slice it was built from, so it stays valid
// after the source matrix is dropped or mutated.
type Vector[T Numeric] struct {
	data []T
}

// New copies values into a new Vector.
func New[T Numeric](values []T) Vector[T] {
	return Vector[T]{data: slices.Clone(values)}
}

// Len returns the number of elements.
func (v Vector[T]) Len() int {
	return len(v.data)
}

// At returns the i-th element (0-indexed) and whether i is in range.
func (v Vector[T]) At(i int) (T, bool) {
	if i < 0 || i >= len(v.data) {
		var zero T
		return zero, false
	}
	return v.data[i], true
}

// Values returns a copy of the elements.
func (v Vector[T]) Values() []T {
	return slices.Clone(v.data)
}

// Dot computes sum(a[i] * b[i]) seeded with T's zero value.
// Overflow and rounding behave exactly as T's own + and * do.
func Dot[T Numeric](a, b Vector[T]) (T, error) {
	var sum T
	if len(a.data) != len(b.data) {
		return sum, fmt.Errorf("dot product of lengths %d and %d: %w", len(a.data), len(b.data), ErrDimensionMismatch)
	}

	for i, x := range a.data {
		sum += x * b.data[i]
	}
	return sum, nil
}
