package tensor

import "fmt"

// Matrix is a dense row-major float32 matrix.
//
// All activations flowing through the tagger are matrices: a batch of B
// sentences padded to T positions is a [B*T, features] matrix whose row
// b*T+t holds position t of sentence b.
type Matrix struct {
	Rows int
	Cols int
	Data []float32
}

// NewMatrix allocates a zero matrix.
func NewMatrix(rows, cols int) *Matrix {
	return &Matrix{Rows: rows, Cols: cols, Data: make([]float32, rows*cols)}
}

// FromSlice wraps data (not copied) as a rows x cols matrix.
func FromSlice(data []float32, rows, cols int) (*Matrix, error) {
	if rows < 0 || cols < 0 {
		return nil, fmt.Errorf("invalid matrix shape [%d, %d]", rows, cols)
	}
	if len(data) != rows*cols {
		return nil, fmt.Errorf("data length %d does not match shape [%d, %d]", len(data), rows, cols)
	}
	return &Matrix{Rows: rows, Cols: cols, Data: data}, nil
}

// MustFromSlice is like FromSlice but panics on error.
func MustFromSlice(data []float32, rows, cols int) *Matrix {
	m, err := FromSlice(data, rows, cols)
	if err != nil {
		panic(err)
	}
	return m
}

// FromRows copies a slice of equally sized rows into a matrix.
func FromRows(rows [][]float32) *Matrix {
	if len(rows) == 0 {
		return NewMatrix(0, 0)
	}
	m := NewMatrix(len(rows), len(rows[0]))
	for i, r := range rows {
		if len(r) != m.Cols {
			panic(fmt.Sprintf("FromRows: row %d has %d columns, want %d", i, len(r), m.Cols))
		}
		copy(m.Row(i), r)
	}
	return m
}

// Shape returns [Rows, Cols].
func (m *Matrix) Shape() Shape {
	return Shape{m.Rows, m.Cols}
}

// Row returns row i as a slice aliasing the matrix data.
func (m *Matrix) Row(i int) []float32 {
	return m.Data[i*m.Cols : (i+1)*m.Cols]
}

// At returns element (i, j).
func (m *Matrix) At(i, j int) float32 {
	return m.Data[i*m.Cols+j]
}

// Set sets element (i, j).
func (m *Matrix) Set(i, j int, v float32) {
	m.Data[i*m.Cols+j] = v
}

// Clone returns a deep copy.
func (m *Matrix) Clone() *Matrix {
	c := NewMatrix(m.Rows, m.Cols)
	copy(c.Data, m.Data)
	return c
}

// Rows2D returns a copy of the matrix as a slice of rows.
func (m *Matrix) Rows2D() [][]float32 {
	out := make([][]float32, m.Rows)
	for i := range out {
		out[i] = append([]float32(nil), m.Row(i)...)
	}
	return out
}
