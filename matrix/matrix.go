package matrix

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/utkarsh5026/matmul/vector"
)

// Matrix is a dense row-major matrix. Element (r, c), 1-indexed, lives at
// data[(r-1)*columns + (c-1)]. The zero value is an empty 0x0 matrix.
type Matrix[T vector.Numeric] struct {
	data    []T
	rows    int
	columns int
}

// New builds a rows x columns matrix from a row-major copy of data.
func New[T vector.Numeric](data []T, rows, columns int) (*Matrix[T], error) {
	if rows < 0 || columns < 0 || (columns != 0 && rows > math.MaxInt/columns) || len(data) != rows*columns {
		return nil, fmt.Errorf("%d values for a %dx%d matrix: %w", len(data), rows, columns, ErrInvalidShape)
	}
	return &Matrix[T]{data: slices.Clone(data), rows: rows, columns: columns}, nil
}

// MustNew is New that panics on an invalid shape.
func MustNew[T vector.Numeric](data []T, rows, columns int) *Matrix[T] {
	m, err := New(data, rows, columns)
	if err != nil {
		panic(err)
	}
	return m
}

// Zeros returns a rows x columns matrix filled with T's zero value.
// Negative dimensions are treated as 0.
func Zeros[T vector.Numeric](rows, columns int) *Matrix[T] {
	rows, columns = max(rows, 0), max(columns, 0)
	return &Matrix[T]{data: make([]T, rows*columns), rows: rows, columns: columns}
}

// Rows returns the number of rows.
func (m *Matrix[T]) Rows() int { return m.rows }

// Columns returns the number of columns.
func (m *Matrix[T]) Columns() int { return m.columns }

// Data returns a row-major copy of the elements.
func (m *Matrix[T]) Data() []T { return slices.Clone(m.data) }

func (m *Matrix[T]) inRange(row, column int) bool {
	return row >= 1 && row <= m.rows && column >= 1 && column <= m.columns
}

// Value returns element (row, column) and whether both indices are in range.
func (m *Matrix[T]) Value(row, column int) (T, bool) {
	if !m.inRange(row, column) {
		var zero T
		return zero, false
	}
	return m.data[(row-1)*m.columns+column-1], true
}

// MutableValue returns a pointer to element (row, column) for in-place
// writes, or false when an index is out of range.
func (m *Matrix[T]) MutableValue(row, column int) (*T, bool) {
	if !m.inRange(row, column) {
		return nil, false
	}
	return &m.data[(row-1)*m.columns+column-1], true
}

// Set writes v at (row, column) and reports whether the indices were in range.
func (m *Matrix[T]) Set(row, column int, v T) bool {
	p, ok := m.MutableValue(row, column)
	if ok {
		*p = v
	}
	return ok
}

// Row returns a copy of row n.
func (m *Matrix[T]) Row(n int) ([]T, bool) {
	if n < 1 || n > m.rows {
		return nil, false
	}
	return slices.Clone(m.rowSlice(n)), true
}

// Column returns a copy of column n, gathered with stride Columns().
func (m *Matrix[T]) Column(n int) ([]T, bool) {
	if n < 1 || n > m.columns {
		return nil, false
	}
	return m.gatherColumn(n), true
}

// rowSlice aliases row n; callers must copy before handing it out.
func (m *Matrix[T]) rowSlice(n int) []T {
	return m.data[(n-1)*m.columns : n*m.columns]
}

func (m *Matrix[T]) gatherColumn(n int) []T {
	out := make([]T, 0, m.rows)
	for i := n - 1; i < len(m.data); i += m.columns {
		out = append(out, m.data[i])
	}
	return out
}

// Equal reports whether m and other have the same shape and elements.
func (m *Matrix[T]) Equal(other *Matrix[T]) bool {
	if m == nil || other == nil {
		return m == other
	}
	return m.rows == other.rows && m.columns == other.columns && slices.Equal(m.data, other.data)
}

// String renders the matrix as "{a b c,d e f}": values separated by spaces,
// rows by commas. It is a debugging aid and is not meant to be parsed.
func (m *Matrix[T]) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for r := 1; r <= m.rows; r++ {
		if r > 1 {
			b.WriteByte(',')
		}
		for c, v := range m.rowSlice(r) {
			if c > 0 {
				b.WriteByte(' ')
			}
			fmt.Fprint(&b, v)
		}
	}
	b.WriteByte('}')
	return b.String()
}
