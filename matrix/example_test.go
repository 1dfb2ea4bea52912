package matrix_test

import (
	"context"
	"errors"
	"fmt"

	"github.com/utkarsh5026/matmul/matrix"
	"github.com/utkarsh5026/matmul/metric"
)

func ExampleMultiplyConcurrent() {
	a := matrix.MustNew([]int{1, 2, 3, 4, 5, 6}, 2, 3)
	b := matrix.MustNew([]int{1, 2, 3, 4, 5, 6}, 3, 2)

	c, err := matrix.MultiplyConcurrent(context.Background(), a, b,
		matrix.WithWorkerCount(4),
		matrix.WithRouting(matrix.RouteHash),
	)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(c)
	// Output: {22 28,49 64}
}

func ExampleMatrix_Mul() {
	a := matrix.MustNew([]int{1, 2, 1, 2, 1, 2}, 3, 2)
	b := matrix.MustNew([]int{1, 2, 3, 1, 2, 3}, 2, 3)

	c, err := a.Mul(b)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(c)

	_, err = a.Mul(a)
	fmt.Println(errors.Is(err, matrix.ErrDimensionMismatch))
	// Output:
	// {3 6 9,3 6 9,3 6 9}
	// true
}

func ExampleMatrix_Value() {
	m := matrix.MustNew([]float64{1.5, 2, 3, 4}, 2, 2)

	v, ok := m.Value(2, 1)
	fmt.Println(v, ok)

	_, ok = m.Value(0, 1)
	fmt.Println(ok)
	// Output:
	// 3 true
	// false
}

func ExampleWithMetric() {
	a := matrix.MustNew([]int{1, 2, 3, 4}, 2, 2)
	counter := metric.NewMutexCounter()

	if _, err := a.Mul(a, matrix.WithWorkerCount(2), matrix.WithMetric(counter)); err != nil {
		fmt.Println(err)
		return
	}
	fmt.Print(counter)
	// Output:
	// call.worker-0 : 2
	// call.worker-1 : 2
}
