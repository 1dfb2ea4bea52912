package matrix_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utkarsh5026/matmul/matrix"
)

func TestNew_CopiesInput(t *testing.T) {
	data := []int{1, 2, 3, 4}
	m, err := matrix.New(data, 2, 2)
	require.NoError(t, err)

	data[0] = 99
	v, ok := m.Value(1, 1)
	require.True(t, ok)
	assert.Equal(t, 1, v)
}

func TestNew_InvalidShape(t *testing.T) {
	tests := []struct {
		name          string
		data          []int
		rows, columns int
	}{
		{name: "too few values", data: []int{1, 2, 3}, rows: 2, columns: 2},
		{name: "too many values", data: []int{1, 2, 3, 4, 5}, rows: 2, columns: 2},
		{name: "negative rows", data: nil, rows: -1, columns: 0},
		{name: "negative columns", data: nil, rows: 0, columns: -3},
		{name: "overflowing shape", data: []int{}, rows: math.MaxInt/2 + 1, columns: 2},
		// MaxInt*MaxInt wraps to 1
		{name: "product wraps to data length", data: []int{7}, rows: math.MaxInt, columns: math.MaxInt},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := matrix.New(tt.data, tt.rows, tt.columns)
			require.ErrorIs(t, err, matrix.ErrInvalidShape)
			assert.Nil(t, m)
		})
	}
}

func TestMustNew_Panics(t *testing.T) {
	assert.Panics(t, func() { matrix.MustNew([]int{1}, 2, 2) })
}

func TestZeros(t *testing.T) {
	m := matrix.Zeros[float64](2, 3)
	assert.Equal(t, 2, m.Rows())
	assert.Equal(t, 3, m.Columns())
	assert.Equal(t, make([]float64, 6), m.Data())

	empty := matrix.Zeros[int](-1, 4)
	assert.Equal(t, 0, empty.Rows())
	assert.Empty(t, empty.Data())
}

func TestValue(t *testing.T) {
	m := matrix.MustNew([]int{1, 2, 3, 4, 5, 6}, 2, 3)

	for r := 1; r <= 2; r++ {
		for c := 1; c <= 3; c++ {
			v, ok := m.Value(r, c)
			require.True(t, ok)
			assert.Equal(t, (r-1)*3+c, v)
		}
	}

	absent := [][2]int{{0, 1}, {1, 0}, {3, 1}, {1, 4}, {-1, -1}, {3, 4}}
	for _, idx := range absent {
		_, ok := m.Value(idx[0], idx[1])
		assert.False(t, ok, "Value(%d, %d)", idx[0], idx[1])
	}
}

func TestMutableValue(t *testing.T) {
	m := matrix.Zeros[int](2, 2)

	p, ok := m.MutableValue(2, 1)
	require.True(t, ok)
	*p = 7

	v, _ := m.Value(2, 1)
	assert.Equal(t, 7, v)

	p, ok = m.MutableValue(3, 1)
	assert.False(t, ok)
	assert.Nil(t, p)

	assert.True(t, m.Set(1, 2, 5))
	assert.False(t, m.Set(1, 3, 5))
	assert.Equal(t, []int{0, 5, 7, 0}, m.Data())
}

func TestRowColumn(t *testing.T) {
	m := matrix.MustNew([]int{1, 2, 3, 4, 5, 6}, 2, 3)

	row, ok := m.Row(2)
	require.True(t, ok)
	assert.Equal(t, []int{4, 5, 6}, row)

	col, ok := m.Column(3)
	require.True(t, ok)
	assert.Equal(t, []int{3, 6}, col)

	_, ok = m.Row(0)
	assert.False(t, ok)
	_, ok = m.Row(3)
	assert.False(t, ok)
	_, ok = m.Column(0)
	assert.False(t, ok)
	_, ok = m.Column(4)
	assert.False(t, ok)

	// copies never alias storage
	row[0] = 100
	col[0] = 100
	v, _ := m.Value(2, 1)
	assert.Equal(t, 4, v)
	v, _ = m.Value(1, 3)
	assert.Equal(t, 3, v)
}

func TestString(t *testing.T) {
	tests := []struct {
		name string
		m    *matrix.Matrix[int]
		want string
	}{
		{name: "2x3", m: matrix.MustNew([]int{1, 2, 3, 4, 5, 6}, 2, 3), want: "{1 2 3,4 5 6}"},
		{name: "1x1", m: matrix.MustNew([]int{-4}, 1, 1), want: "{-4}"},
		{name: "column", m: matrix.MustNew([]int{1, 2, 3}, 3, 1), want: "{1,2,3}"},
		{name: "empty", m: matrix.Zeros[int](0, 0), want: "{}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.m.String())
		})
	}
}

func TestEqual(t *testing.T) {
	a := matrix.MustNew([]int{1, 2, 3, 4}, 2, 2)
	assert.True(t, a.Equal(matrix.MustNew([]int{1, 2, 3, 4}, 2, 2)))
	assert.False(t, a.Equal(matrix.MustNew([]int{1, 2, 3, 4}, 1, 4)))
	assert.False(t, a.Equal(matrix.MustNew([]int{1, 2, 3, 5}, 2, 2)))
	assert.False(t, a.Equal(nil))

	var none *matrix.Matrix[int]
	assert.True(t, none.Equal(nil))
}
